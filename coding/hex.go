package coding

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

func DecodeHex(in string) ([]byte, error) {
	normalized := strings.TrimSpace(in)
	if strings.HasPrefix(normalized, "0x") || strings.HasPrefix(normalized, "0X") {
		normalized = normalized[2:]
	}

	return hex.DecodeString(normalized)
}

func NormalizeBytesToHex(input []byte) string {
	return strings.ToLower("0x" + hex.EncodeToString(input))
}

// TxHash is the upper-case hex SHA-256 of encoded transaction bytes, as nodes index it.
func TxHash(txBytes []byte) string {
	digest := sha256.Sum256(txBytes)
	return strings.ToUpper(hex.EncodeToString(digest[:]))
}

// PayloadFingerprint pretty prints a hex payload in an identifiable and succint way.
func PayloadFingerprint(payload []byte) string {
	if len(payload) == 0 {
		return "[]"
	}
	if len(payload) <= 8 {
		return fmt.Sprintf("[%s]", hex.EncodeToString(payload))
	}

	return fmt.Sprintf("[%s...%s]", hex.EncodeToString(payload[0:4]), hex.EncodeToString(payload[len(payload)-4:]))
}
