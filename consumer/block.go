package consumer

import (
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// Block is one member of the contiguous run on_new_blocks is handed. The
// consumer never re-requests a block's contents; the caller owns decoding.
type Block struct {
	Hash         types.Hash
	Height       uint64
	Timestamp    uint64
	Transactions []transaction.Reader
}

// workItem is what the pipeline's producer pushes and its workers pop:
// one transaction, located within its block.
type workItem struct {
	blockInfo TransactionBlockInfo
	blockHash types.Hash
	tx        transaction.Reader
}

// preprocessedItem is a worker's successful result, still unordered: the
// aggregation stage sorts these by (height, transaction_index) before
// applying them.
type preprocessedItem struct {
	blockInfo TransactionBlockInfo
	blockHash types.Hash
	tx        transaction.Reader
	info      *PreprocessInfo
}
