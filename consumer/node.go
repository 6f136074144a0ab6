package consumer

import (
	"context"

	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// Node is the subset of a node's RPC surface the preprocessor needs: the
// global output index list for an already-confirmed transaction. It is
// intentionally narrow so a ZMQ-backed adapter, a plain JSON-RPC client, or
// a test double can all satisfy it without pulling in unrelated RPC
// methods.
type Node interface {
	GetTransactionOutsGlobalIndices(ctx context.Context, txHash types.Hash) ([]uint64, error)
}
