package consumer

import "git.gammaspectra.live/P2Pool/wallet-sync/types"

// Observer receives a synchronous broadcast of consumer-level events.
// Implementations must not call back into the Consumer from within a
// callback; dispatch happens on the caller's thread (the batch pipeline's
// aggregation stage, or whatever goroutine called the triggering method).
type Observer interface {
	OnBlocksAdded(hashes []types.Hash)
	OnBlockchainDetach(height uint64)
	OnTransactionUpdated(txHash types.Hash, containers []Container)
	OnTransactionDeleteBegin(txHash types.Hash)
	OnTransactionDeleteEnd(txHash types.Hash)
}
