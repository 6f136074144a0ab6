// Package consumer implements the wallet-side transaction consumer: the
// subsystem that scans newly-announced blocks and mempool deltas and
// identifies, for a set of subscribed accounts sharing one view secret,
// which outputs belong to them.
package consumer

import (
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// SynchronizationStart is a subscription's lower bound for scanning.
type SynchronizationStart struct {
	Height    uint64
	Timestamp uint64
}

// min folds other into s component-wise, keeping whichever bound is earlier.
// The aggregate sync start across subscriptions is built by repeated min.
func (s SynchronizationStart) min(other SynchronizationStart) SynchronizationStart {
	if other.Height < s.Height {
		s.Height = other.Height
	}
	if other.Timestamp < s.Timestamp {
		s.Timestamp = other.Timestamp
	}
	return s
}

var maxSynchronizationStart = SynchronizationStart{
	Height:    ^uint64(0),
	Timestamp: ^uint64(0),
}

// TransactionBlockInfo locates a transaction within the chain, or within the
// pool when Height is types.UnconfirmedHeight.
type TransactionBlockInfo struct {
	Height           uint64
	Timestamp        uint64
	TransactionIndex uint64
}

func (b TransactionBlockInfo) Unconfirmed() bool {
	return b.Height == types.UnconfirmedHeight
}

// TransferInfo is a materialized owned output: everything the wallet needs
// to later reference or spend it.
type TransferInfo struct {
	Type                transaction.OutputType
	TxPublicKey         cryptonote.PublicKeyBytes
	OutputInTransaction int
	GlobalOutputIndex   uint64
	Amount              uint64

	// Key-output fields.
	OutputKey cryptonote.PublicKeyBytes
	KeyImage  cryptonote.PublicKeyBytes

	// Multisignature-output field.
	RequiredSignatures int
}

// PreprocessInfo is the transient, per-transaction result of preprocessing:
// the whole-transaction global output indices (empty if unconfirmed) and the
// owned transfers, keyed by the subscription spend key that owns them.
type PreprocessInfo struct {
	GlobalIndices []uint64
	Outputs       map[cryptonote.PublicKeyBytes][]TransferInfo
}

