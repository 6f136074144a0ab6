package memsub

import (
	"context"
	"fmt"
	"sync"

	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// Node is a map-backed consumer.Node: global output indices are whatever
// the test pre-seeded via Set.
type Node struct {
	mu      sync.Mutex
	indices map[types.Hash][]uint64
	err     map[types.Hash]error
}

func NewNode() *Node {
	return &Node{
		indices: make(map[types.Hash][]uint64),
		err:     make(map[types.Hash]error),
	}
}

func (n *Node) Set(txHash types.Hash, indices []uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.indices[txHash] = indices
}

func (n *Node) SetError(txHash types.Hash, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err[txHash] = err
}

func (n *Node) GetTransactionOutsGlobalIndices(ctx context.Context, txHash types.Hash) ([]uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.err[txHash]; ok {
		return nil, err
	}
	indices, ok := n.indices[txHash]
	if !ok {
		return nil, fmt.Errorf("memsub: no global indices set for tx %s", txHash)
	}
	return indices, nil
}
