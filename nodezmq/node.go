package nodezmq

import (
	"context"
	"fmt"

	"git.gammaspectra.live/P2Pool/wallet-sync/types"
	"github.com/floatdrop/lru"
)

type outIndexesParams struct {
	TxHash string `json:"txid"`
}

type outIndexesResult struct {
	OIndexes []uint64 `json:"o_indexes"`
	Status   string   `json:"status"`
}

// Node satisfies consumer.Node against a live monerod JSON-RPC endpoint.
// Lookups are cached by tx hash: the ZMQ subscriber that drives
// preprocessing can redeliver the same pool transaction notification more
// than once, and a cached hit avoids a second round trip for it.
type Node struct {
	client *Client
	cache  *lru.LRU[types.Hash, []uint64]
}

// NewNode wraps a JSON-RPC client as a consumer.Node, keeping the last
// cacheSize resolved lookups in memory.
func NewNode(client *Client, cacheSize int) *Node {
	return &Node{
		client: client,
		cache:  lru.New[types.Hash, []uint64](cacheSize),
	}
}

func (n *Node) GetTransactionOutsGlobalIndices(ctx context.Context, txHash types.Hash) ([]uint64, error) {
	if cached := n.cache.Get(txHash); cached != nil {
		return *cached, nil
	}

	var result outIndexesResult
	if err := n.client.JSONRPC(ctx, "get_o_indexes", outIndexesParams{TxHash: txHash.String()}, &result); err != nil {
		return nil, fmt.Errorf("nodezmq: get_o_indexes for %s: %w", txHash, err)
	}
	if result.Status != "OK" {
		return nil, fmt.Errorf("nodezmq: get_o_indexes for %s: status %s", txHash, result.Status)
	}

	n.cache.Set(txHash, result.OIndexes)
	return result.OIndexes, nil
}
