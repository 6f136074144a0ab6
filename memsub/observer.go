package memsub

import (
	"sync"

	"git.gammaspectra.live/P2Pool/wallet-sync/consumer"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// Observer records every event it receives, in order, for test assertions.
type Observer struct {
	mu sync.Mutex

	BlocksAdded        [][]types.Hash
	Detach             []uint64
	TransactionUpdated []types.Hash
	DeleteBegin        []types.Hash
	DeleteEnd          []types.Hash
}

func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) OnBlocksAdded(hashes []types.Hash) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.BlocksAdded = append(o.BlocksAdded, hashes)
}

func (o *Observer) OnBlockchainDetach(height uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Detach = append(o.Detach, height)
}

func (o *Observer) OnTransactionUpdated(txHash types.Hash, containers []consumer.Container) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.TransactionUpdated = append(o.TransactionUpdated, txHash)
}

func (o *Observer) OnTransactionDeleteBegin(txHash types.Hash) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.DeleteBegin = append(o.DeleteBegin, txHash)
}

func (o *Observer) OnTransactionDeleteEnd(txHash types.Hash) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.DeleteEnd = append(o.DeleteEnd, txHash)
}
