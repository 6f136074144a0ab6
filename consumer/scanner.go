package consumer

import (
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
)

// Scan tests every output of tx against the watched spend keys and returns,
// for each spend key with a hit, the owned output indices in transaction
// order. It is a pure function: no I/O, no state mutation, and it depends
// only on its arguments.
//
// Multisig outputs are scanned against the output's position in the
// transaction, not the running addressable-output counter Key outputs use.
// This asymmetry matches upstream wallet2 and must be preserved for ledger
// compatibility even though it looks like a bug.
func Scan(tx transaction.Reader, viewSecret cryptonote.PrivateKeyBytes, spendKeys map[cryptonote.PublicKeyBytes]struct{}) map[cryptonote.PublicKeyBytes][]int {
	derivation, ok := cryptonote.GenerateKeyDerivation(tx.TransactionPublicKey(), viewSecret)
	if !ok {
		return nil
	}

	var hits map[cryptonote.PublicKeyBytes][]int
	recordHit := func(spendKey cryptonote.PublicKeyBytes, index int) {
		if hits == nil {
			hits = make(map[cryptonote.PublicKeyBytes][]int)
		}
		hits[spendKey] = append(hits[spendKey], index)
	}

	var keyIndex uint64
	count := tx.OutputCount()
	for i := 0; i < count; i++ {
		switch tx.OutputType(i) {
		case transaction.OutputTypeKey:
			out := tx.GetOutput(i)
			if candidate, ok := cryptonote.UnderiveSpendKey(derivation, keyIndex, out.Key.Key); ok {
				if _, watched := spendKeys[candidate]; watched {
					recordHit(candidate, i)
				}
			}
			keyIndex++
		case transaction.OutputTypeMultisignature:
			out := tx.GetOutput(i)
			for _, subKey := range out.Multi.Keys {
				// Deliberately uses the output index i, not keyIndex: see doc comment.
				if candidate, ok := cryptonote.UnderiveSpendKey(derivation, uint64(i), subKey); ok {
					if _, watched := spendKeys[candidate]; watched {
						recordHit(candidate, i)
					}
				}
				keyIndex++
			}
		default:
			// Other output types are not addressable; they do not advance keyIndex.
		}
	}

	return hits
}
