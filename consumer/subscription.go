package consumer

import (
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// KnownTransaction is what a Container reports back for a transaction hash
// it already holds: just enough for the apply stage to decide whether a
// pool-to-chain transition is due.
type KnownTransaction struct {
	BlockInfo TransactionBlockInfo
}

// Container is the per-subscription store of owned outputs and transaction
// history. It is an external collaborator: this package never implements
// it, only calls it.
type Container interface {
	GetTransactionInformation(txHash types.Hash) (KnownTransaction, bool)
	GetUnconfirmedTransactions() []types.Hash
}

// Subscription is one tracked account inside a Consumer. Implementations
// own their Container and decide how to persist it; the consumer only
// drives the lifecycle calls below.
type Subscription interface {
	GetSyncStart() SynchronizationStart
	GetContainer() Container
	GetKeys() cryptonote.AccountKeys
	GetAddress() cryptonote.AccountPublicAddress

	OnBlockchainDetach(height uint64)
	OnError(err error, startHeight uint64)

	// AddTransaction records a newly-seen transaction with its matched
	// transfers. The bool return reports whether anything was actually
	// recorded: a subscription may choose to ignore a transaction with no
	// owned outputs and no spends against outputs it already holds.
	AddTransaction(blockInfo TransactionBlockInfo, tx transaction.Reader, transfers []TransferInfo) bool

	// MarkTransactionConfirmed performs the one-way pool-to-chain
	// transition for a transaction already known to the container as
	// unconfirmed.
	MarkTransactionConfirmed(blockInfo TransactionBlockInfo, txHash types.Hash, globalIndices []uint64)

	MarkTransactionSafe(txHash types.Hash)
	DeleteUnconfirmedTransaction(txHash types.Hash)
	AdvanceHeight(height uint64)
}
