package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/tessellated-io/conveyor/log"
)

// chainRegistryClient reads chain.json documents from a chain registry mirror. It is compatible
// with Planetarium (https://github.com/tessellated-io/planetarium) and any service that serves
// `<base>/all` and `<base>/<chain_name>/chain.json`.
type chainRegistryClient struct {
	mu sync.Mutex

	// Cache of all chain names
	chainNames []string

	// Cache of chain names to chain ID
	chainNameToChainID map[string]string

	chainRegistryBaseUrl string
	httpClient           *http.Client

	log *log.Logger
}

var _ ChainRegistryClient = (*chainRegistryClient)(nil)

// NewChainRegistryClient makes a new default registry client.
func NewChainRegistryClient(log *log.Logger, chainRegistryBaseUrl string) *chainRegistryClient {
	return &chainRegistryClient{
		chainNames:         []string{},
		chainNameToChainID: make(map[string]string),

		chainRegistryBaseUrl: strings.TrimSuffix(chainRegistryBaseUrl, "/"),
		httpClient:           &http.Client{},

		log: log,
	}
}

// ChainRegistryClient interface

func (rc *chainRegistryClient) ChainInfo(ctx context.Context, chainName string) (*ChainInfo, error) {
	url := fmt.Sprintf("%s/%s/chain.json", rc.chainRegistryBaseUrl, chainName)

	bytes, err := rc.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	chainInfo, err := parseChainResponse(bytes)
	if err != nil {
		return nil, err
	}

	rc.mu.Lock()
	rc.chainNameToChainID[chainName] = chainInfo.ChainID
	rc.mu.Unlock()

	return chainInfo, nil
}

func (rc *chainRegistryClient) ChainNameForChainID(ctx context.Context, targetChainID string, refreshCache bool) (string, error) {
	rc.mu.Lock()
	if refreshCache {
		rc.chainNames = []string{}
		rc.chainNameToChainID = make(map[string]string)
		rc.log.Debug("reset chain names and chain ids caches per client request")
	}
	chainNames := rc.chainNames
	rc.mu.Unlock()

	if len(chainNames) == 0 {
		rc.log.Debug("no index of chain names, reloading from registry")

		var err error
		chainNames, err = rc.AllChainNames(ctx)
		if err != nil {
			return "", err
		}

		rc.mu.Lock()
		rc.chainNames = chainNames
		rc.mu.Unlock()
		rc.log.Debug("loaded chains from the registry", "num_chains", len(chainNames))
	}

	for chainIdx, chainName := range chainNames {
		logger := rc.log.With("chain_name", chainName)

		rc.mu.Lock()
		chainID, isSet := rc.chainNameToChainID[chainName]
		rc.mu.Unlock()

		if !isSet {
			logger.Debug("no chain data found in cache, requesting from registry", "chain_index", chainIdx)

			chainInfo, err := rc.ChainInfo(ctx, chainName)
			if err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				logger.Warn("error fetching chain information during chain id refresh, this chain will not be supported", "error", err)
				continue
			}
			chainID = chainInfo.ChainID
		}

		if strings.EqualFold(targetChainID, chainID) {
			return chainName, nil
		}
	}

	return "", ErrNoChainFoundForChainID
}

func (rc *chainRegistryClient) AllChainNames(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/all", rc.chainRegistryBaseUrl)
	bytes, err := rc.makeRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	return parseAllChainsResponse(bytes)
}

// Private helpers

func (rc *chainRegistryClient) makeRequest(ctx context.Context, url string) ([]byte, error) {
	rc.log.Debug("making GET request to url", "url", url)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := rc.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		rc.log.Debug("received bad response from chain registry", "response", string(data), "status_code", resp.StatusCode)
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	rc.log.Debug("received http 200 response from chain registry")
	return data, nil
}
