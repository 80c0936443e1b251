package tx

import (
	"context"
	"sync"

	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/log"
)

// AccountStore caches the account number and next sequence of one address. Current and Refresh
// write the cache after a node call, so every caller must hold the broadcaster's lock.
type AccountStore struct {
	address string

	client rpc.NodeClient
	logger *log.Logger

	lock    sync.Mutex
	account *AccountInfo
}

func NewAccountStore(address string, client rpc.NodeClient, logger *log.Logger) *AccountStore {
	return &AccountStore{
		address: address,
		client:  client,
		logger:  logger.With("address", address),
	}
}

func (s *AccountStore) Address() string {
	return s.address
}

// Current returns the cached account, loading it from the node on first use.
func (s *AccountStore) Current(ctx context.Context) (AccountInfo, error) {
	s.lock.Lock()
	if s.account != nil {
		current := *s.account
		s.lock.Unlock()
		return current, nil
	}
	s.lock.Unlock()

	return s.Refresh(ctx)
}

// Refresh replaces the cache with the node's view. Node errors are returned unchanged.
func (s *AccountStore) Refresh(ctx context.Context) (AccountInfo, error) {
	account, err := s.client.GetAccount(ctx, s.address)
	if err != nil {
		return AccountInfo{}, err
	}

	refreshed := AccountInfo{
		Address:       s.address,
		AccountNumber: account.AccountNumber,
		Sequence:      account.Sequence,
	}

	s.lock.Lock()
	s.account = &refreshed
	s.lock.Unlock()

	s.logger.Debug("refreshed account", "account_number", refreshed.AccountNumber, "sequence", refreshed.Sequence)
	return refreshed, nil
}

// Advance moves the cached sequence past a signed transaction.
func (s *AccountStore) Advance() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.account != nil {
		s.account.Sequence++
	}
}

// Rewind restores the sequence after a rejection that did not consume it.
func (s *AccountStore) Rewind(sequence uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.account != nil {
		s.account.Sequence = sequence
	}
}

// Invalidate drops the cache so the next Current reloads it.
func (s *AccountStore) Invalidate() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.account = nil
}
