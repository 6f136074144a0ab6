package consumer

import (
	"fmt"

	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
	"git.gammaspectra.live/P2Pool/wallet-sync/wslog"
)

// BuildTransfers materializes TransferInfo for every owned index of tx,
// under the given account. ownedIndices comes from Scan, in ascending order.
// Scan does not deduplicate: a multisig output with several sub-keys
// matching this account appears more than once, which repeats its keys and
// so trips the duplicate-key check below. globalIndices is the
// whole-transaction global output index list, required for confirmed
// transactions and ignored for unconfirmed ones.
//
// Every emitted output key is reserved against seen as a single call after
// the whole transaction has been walked, so the check-then-insert stays
// atomic per transaction rather than per output: a duplicate anywhere in
// the transaction drops the whole batch for this account, matching the
// all-or-nothing registry semantics of SeenKeyRegistry.Reserve.
//
// A mismatch between a recomputed ephemeral key and its output key is
// treated as an invariant violation (the scanner should never produce an
// index whose underived key disagrees with the full key-image derivation)
// and returned as an error rather than silently dropped.
func BuildTransfers(keys cryptonote.AccountKeys, blockInfo TransactionBlockInfo, tx transaction.Reader, ownedIndices []int, globalIndices []uint64, seen *SeenKeyRegistry, log *wslog.Logger) ([]TransferInfo, error) {
	if len(ownedIndices) == 0 {
		return nil, nil
	}

	derivation, ok := cryptonote.GenerateKeyDerivation(tx.TransactionPublicKey(), keys.ViewSecret)
	if !ok {
		return nil, fmt.Errorf("consumer: could not derive shared secret for tx %s", tx.TransactionHash())
	}

	count := tx.OutputCount()
	unconfirmed := blockInfo.Unconfirmed()
	if !unconfirmed && len(globalIndices) != count {
		return nil, fmt.Errorf("consumer: tx %s has %d outputs but %d global indices", tx.TransactionHash(), count, len(globalIndices))
	}

	transfers := make([]TransferInfo, 0, len(ownedIndices))
	keysSeen := make([]cryptonote.PublicKeyBytes, 0, len(ownedIndices))

	for _, index := range ownedIndices {
		if index < 0 || index >= count {
			return nil, fmt.Errorf("consumer: owned index %d out of range for tx %s with %d outputs", index, tx.TransactionHash(), count)
		}

		out := tx.GetOutput(index)

		transfer := TransferInfo{
			Type:                out.Type,
			TxPublicKey:         tx.TransactionPublicKey(),
			OutputInTransaction: index,
			Amount:              out.Amount,
		}
		if unconfirmed {
			transfer.GlobalOutputIndex = types.UnconfirmedGlobalIndex
		} else {
			transfer.GlobalOutputIndex = globalIndices[index]
		}

		switch out.Type {
		case transaction.OutputTypeKey:
			keyImage, err := cryptonote.GenerateKeyImageHelper(keys.SpendSecret, derivation, uint64(index), out.Key.Key)
			if err != nil {
				return nil, fmt.Errorf("consumer: tx %s output %d: %w", tx.TransactionHash(), index, err)
			}
			transfer.OutputKey = out.Key.Key
			transfer.KeyImage = keyImage
			keysSeen = append(keysSeen, out.Key.Key)
		case transaction.OutputTypeMultisignature:
			transfer.RequiredSignatures = out.Multi.RequiredSignatures
			keysSeen = append(keysSeen, out.Multi.Keys...)
		default:
			// Scan never returns indices for other output types, but guard
			// against a caller-supplied list that does.
			continue
		}

		transfers = append(transfers, transfer)
	}

	if len(keysSeen) == 0 {
		return nil, nil
	}

	if ok := seen.Reserve(tx.TransactionHash(), keysSeen); !ok {
		log.Errorf("tx %s: duplicate output key detected, dropping %d transfer(s) for this account", tx.TransactionHash(), len(transfers))
		return nil, nil
	}

	return transfers, nil
}
