package consumer

import (
	"context"
	"fmt"

	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

var unconfirmedBlockInfo = TransactionBlockInfo{Height: types.UnconfirmedHeight}

// OnPoolUpdated applies a mempool delta: every added transaction is
// preprocessed and applied at the unconfirmed sentinel height; every
// deleted one is dropped from every subscription's unconfirmed set. The
// first preprocessing error aborts processing of added and is reported to
// every subscription; the failing transaction's hash is left in the known
// pool set, matching existing wallet recovery behavior.
func (c *Consumer) OnPoolUpdated(ctx context.Context, added []transaction.Reader, deleted []types.Hash) error {
	for _, tx := range added {
		txHash := tx.TransactionHash()
		c.poolTxs[txHash] = struct{}{}

		info, err := Preprocess(ctx, c.node, unconfirmedBlockInfo, c.viewSecret, c.accounts(), tx, c.seen, c.log)
		if err != nil {
			wrapped := fmt.Errorf("consumer: pool update: %w", err)
			c.notifyError(wrapped, types.UnconfirmedHeight)
			return wrapped
		}

		c.apply(unconfirmedBlockInfo, tx, info)
	}

	for _, txHash := range deleted {
		delete(c.poolTxs, txHash)

		for _, o := range c.observers {
			o.OnTransactionDeleteBegin(txHash)
		}
		for _, sub := range c.subscriptions {
			sub.DeleteUnconfirmedTransaction(txHash)
		}
		for _, o := range c.observers {
			o.OnTransactionDeleteEnd(txHash)
		}
	}

	return nil
}

// AddUnconfirmedTransaction is the single-transaction form of a pool add,
// used outside a batched OnPoolUpdated call.
func (c *Consumer) AddUnconfirmedTransaction(ctx context.Context, tx transaction.Reader) error {
	return c.OnPoolUpdated(ctx, []transaction.Reader{tx}, nil)
}

// RemoveUnconfirmedTransaction is the single-transaction form of a pool
// removal.
func (c *Consumer) RemoveUnconfirmedTransaction(hash types.Hash) {
	_ = c.OnPoolUpdated(context.Background(), nil, []types.Hash{hash})
}
