// Package memsub is an in-memory Subscription and Container implementation,
// the kind of fake used in tests instead of a persisted wallet store.
package memsub

import (
	"sync"

	"git.gammaspectra.live/P2Pool/wallet-sync/consumer"
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// Record is one transaction a Container holds: its location and the
// transfers matched for it, if any.
type Record struct {
	BlockInfo consumer.TransactionBlockInfo
	Transfers []consumer.TransferInfo
}

// Container is a mutex-protected map-backed consumer.Container.
type Container struct {
	mu           sync.Mutex
	transactions map[types.Hash]Record
}

func NewContainer() *Container {
	return &Container{transactions: make(map[types.Hash]Record)}
}

func (c *Container) GetTransactionInformation(txHash types.Hash) (consumer.KnownTransaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.transactions[txHash]
	if !ok {
		return consumer.KnownTransaction{}, false
	}
	return consumer.KnownTransaction{BlockInfo: rec.BlockInfo}, true
}

func (c *Container) GetUnconfirmedTransactions() []types.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []types.Hash
	for hash, rec := range c.transactions {
		if rec.BlockInfo.Unconfirmed() {
			out = append(out, hash)
		}
	}
	return out
}

func (c *Container) set(hash types.Hash, rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions[hash] = rec
}

func (c *Container) delete(hash types.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.transactions, hash)
}

// Get returns the record held for hash, for test assertions.
func (c *Container) Get(hash types.Hash) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.transactions[hash]
	return rec, ok
}

// Len reports how many transactions the container currently holds.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.transactions)
}

// Subscription is a consumer.Subscription backed by a Container. For test
// assertions it records errors, safe marks and detach heights, and keeps
// the latest advanced height; transactions with at least one transfer go
// into its Container, and AddTransaction ignores those with none.
type Subscription struct {
	mu sync.Mutex

	keys      cryptonote.AccountKeys
	syncStart consumer.SynchronizationStart
	container *Container

	Height uint64
	Errors []error
	Safe   map[types.Hash]bool
	Detach []uint64
}

func New(keys cryptonote.AccountKeys, syncStart consumer.SynchronizationStart) *Subscription {
	return &Subscription{
		keys:      keys,
		syncStart: syncStart,
		container: NewContainer(),
		Safe:      make(map[types.Hash]bool),
	}
}

func (s *Subscription) GetSyncStart() consumer.SynchronizationStart { return s.syncStart }
func (s *Subscription) GetContainer() consumer.Container            { return s.container }
func (s *Subscription) GetKeys() cryptonote.AccountKeys             { return s.keys }
func (s *Subscription) GetAddress() cryptonote.AccountPublicAddress { return s.keys.Address }

func (s *Subscription) OnBlockchainDetach(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Detach = append(s.Detach, height)
}

func (s *Subscription) OnError(err error, startHeight uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, err)
}

func (s *Subscription) AddTransaction(blockInfo consumer.TransactionBlockInfo, tx transaction.Reader, transfers []consumer.TransferInfo) bool {
	if len(transfers) == 0 {
		return false
	}
	s.container.set(tx.TransactionHash(), Record{BlockInfo: blockInfo, Transfers: transfers})
	return true
}

func (s *Subscription) MarkTransactionConfirmed(blockInfo consumer.TransactionBlockInfo, txHash types.Hash, globalIndices []uint64) {
	rec, ok := s.container.Get(txHash)
	if !ok {
		return
	}
	rec.BlockInfo = blockInfo
	for i := range rec.Transfers {
		if i < len(globalIndices) {
			rec.Transfers[i].GlobalOutputIndex = globalIndices[rec.Transfers[i].OutputInTransaction]
		}
	}
	s.container.set(txHash, rec)
}

func (s *Subscription) MarkTransactionSafe(txHash types.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Safe[txHash] = true
}

func (s *Subscription) DeleteUnconfirmedTransaction(txHash types.Hash) {
	s.container.delete(txHash)
}

func (s *Subscription) AdvanceHeight(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Height = height
}
