package consumer

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
	"golang.org/x/sync/errgroup"
)

// OnNewBlocks is the batch pipeline's entry point: it fans preprocessing of
// every transaction in blocks out across a worker pool, then applies the
// results to subscriptions in a single deterministic pass. It returns
// false (and notifies every subscription's OnError) on the first hard
// preprocessing error; on success it returns true.
//
// blocks must be a contiguous run; the first block's Height is the start
// height passed to OnError and used for AdvanceHeight. It is
// the caller's responsibility to serialize calls to OnNewBlocks: this
// method assumes single-threaded external invocation, matching every other
// Consumer method.
func (c *Consumer) OnNewBlocks(ctx context.Context, blocks []Block) bool {
	if len(blocks) == 0 {
		return true
	}
	startHeight := blocks[0].Height

	workers := max(2, runtime.GOMAXPROCS(0))
	queue := make(chan workItem, 2*workers)

	var stop atomic.Bool

	go func() {
		defer close(queue)
		for _, block := range blocks {
			if stop.Load() {
				return
			}
			if c.syncStart.Timestamp > 0 && block.Timestamp < c.syncStart.Timestamp {
				continue
			}
			for txIndex, tx := range block.Transactions {
				if isNullTransactionPublicKey(tx) {
					continue
				}
				item := workItem{
					blockInfo: TransactionBlockInfo{
						Height:           block.Height,
						Timestamp:        block.Timestamp,
						TransactionIndex: uint64(txIndex),
					},
					blockHash: block.Hash,
					tx:        tx,
				}
				select {
				case queue <- item:
				case <-ctx.Done():
					return
				}
				if stop.Load() {
					return
				}
			}
		}
	}()

	var mu sync.Mutex
	var results []preprocessedItem

	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			for item := range queue {
				if stop.Load() {
					continue
				}
				info, err := Preprocess(egCtx, c.node, item.blockInfo, c.viewSecret, c.accounts(), item.tx, c.seen, c.log)
				if err != nil {
					stop.Store(true)
					return err
				}
				if info == nil {
					continue
				}
				mu.Lock()
				results = append(results, preprocessedItem{
					blockInfo: item.blockInfo,
					blockHash: item.blockHash,
					tx:        item.tx,
					info:      info,
				})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		c.notifyError(err, startHeight)
		return false
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].blockInfo, results[j].blockInfo
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		return a.TransactionIndex < b.TransactionIndex
	})

	blockHashes := make([]types.Hash, 0, len(blocks))
	for _, block := range blocks {
		blockHashes = append(blockHashes, block.Hash)
	}
	c.notifyBlocksAdded(blockHashes)

	for _, item := range results {
		c.apply(item.blockInfo, item.tx, item.info)
	}

	c.advanceHeight(startHeight + uint64(len(blocks)) - 1)

	return true
}

func isNullTransactionPublicKey(tx transaction.Reader) bool {
	var null cryptonote.PublicKeyBytes
	return tx.TransactionPublicKey() == null
}
