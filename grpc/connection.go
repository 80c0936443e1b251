package grpc

import (
	"crypto/tls"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// GetGrpcConnection dials a node. Endpoints on port 443 use TLS against the system roots,
// everything else is plaintext.
func GetGrpcConnection(grpcUri string) (*grpc.ClientConn, error) {
	target := strings.TrimPrefix(strings.TrimPrefix(grpcUri, "https://"), "http://")

	transportCredentials := grpc.WithTransportCredentials(insecure.NewCredentials())
	if UsesTLS(grpcUri) {
		creds := credentials.NewTLS(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})
		transportCredentials = grpc.WithTransportCredentials(creds)
	}

	opts := []grpc.DialOption{
		transportCredentials,
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Minute,
			Timeout:             20 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	return grpc.Dial(
		target,
		opts...,
	)
}

// UsesTLS reports whether a gRPC endpoint is dialed with TLS.
func UsesTLS(grpcUri string) bool {
	return strings.HasPrefix(grpcUri, "https://") || strings.HasSuffix(grpcUri, "443")
}
