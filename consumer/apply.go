package consumer

import (
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
)

// apply performs the per-transaction commit step of the batch pipeline and
// of pool updates: it routes info's transfers (if any) to each matching
// subscription and notifies observers once if anything changed.
//
// A confirmed transaction already known to a subscription as unconfirmed
// triggers the pool-to-chain transition; any other already-known
// transaction must already agree on height, a mismatch being an invariant
// violation this treats as a programmer error.
func (c *Consumer) apply(blockInfo TransactionBlockInfo, tx transaction.Reader, info *PreprocessInfo) {
	txHash := tx.TransactionHash()

	var globalIndices []uint64
	if info != nil {
		globalIndices = info.GlobalIndices
	}

	var updatedContainers []Container
	for spendKey, sub := range c.subscriptions {
		var transfers []TransferInfo
		if info != nil {
			transfers = info.Outputs[spendKey]
		}

		container := sub.GetContainer()
		known, ok := container.GetTransactionInformation(txHash)
		if ok {
			if known.BlockInfo.Unconfirmed() && !blockInfo.Unconfirmed() {
				sub.MarkTransactionConfirmed(blockInfo, txHash, globalIndices)
				updatedContainers = append(updatedContainers, container)
				continue
			}
			if known.BlockInfo.Height != blockInfo.Height {
				c.log.Panicf("consumer: tx %s known at height %d but applied at height %d", txHash, known.BlockInfo.Height, blockInfo.Height)
			}
			continue
		}

		if sub.AddTransaction(blockInfo, tx, transfers) {
			updatedContainers = append(updatedContainers, container)
		}
	}

	if len(updatedContainers) == 0 {
		return
	}
	for _, o := range c.observers {
		o.OnTransactionUpdated(txHash, updatedContainers)
	}
}
