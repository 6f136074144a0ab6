package consumer

import (
	"context"
	"fmt"

	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/wslog"
)

// Preprocess is the per-transaction entry point of the batch pipeline's
// worker stage: it scans tx against every tracked spend key sharing
// viewSecret, resolves the transaction's global output indices exactly
// once when it is confirmed, and builds a TransferInfo list per matched
// spend key.
//
// accounts maps each tracked spend key to the account keys needed to build
// its transfers; all of them are assumed to share viewSecret, since a
// single Scan call only tests one derivation.
//
// It returns nil, nil when the transaction touches none of the tracked
// accounts, so callers can skip the rest of the apply pipeline for it.
func Preprocess(ctx context.Context, node Node, blockInfo TransactionBlockInfo, viewSecret cryptonote.PrivateKeyBytes, accounts map[cryptonote.PublicKeyBytes]cryptonote.AccountKeys, tx transaction.Reader, seen *SeenKeyRegistry, log *wslog.Logger) (*PreprocessInfo, error) {
	spendKeys := make(map[cryptonote.PublicKeyBytes]struct{}, len(accounts))
	for spendKey := range accounts {
		spendKeys[spendKey] = struct{}{}
	}

	hits := Scan(tx, viewSecret, spendKeys)
	if len(hits) == 0 {
		return nil, nil
	}

	var globalIndices []uint64
	if !blockInfo.Unconfirmed() {
		var err error
		globalIndices, err = node.GetTransactionOutsGlobalIndices(ctx, tx.TransactionHash())
		if err != nil {
			return nil, fmt.Errorf("consumer: resolving global indices for tx %s: %w", tx.TransactionHash(), err)
		}
		if len(globalIndices) != tx.OutputCount() {
			return nil, fmt.Errorf("consumer: tx %s: node returned %d global indices for %d outputs", tx.TransactionHash(), len(globalIndices), tx.OutputCount())
		}
	}

	info := &PreprocessInfo{
		GlobalIndices: globalIndices,
		Outputs:       make(map[cryptonote.PublicKeyBytes][]TransferInfo, len(hits)),
	}

	for spendKey, indices := range hits {
		transfers, err := BuildTransfers(accounts[spendKey], blockInfo, tx, indices, globalIndices, seen, log)
		if err != nil {
			return nil, fmt.Errorf("consumer: building transfers for %s: %w", spendKey, err)
		}
		if len(transfers) == 0 {
			continue
		}
		info.Outputs[spendKey] = transfers
	}

	if len(info.Outputs) == 0 {
		return nil, nil
	}

	return info, nil
}
