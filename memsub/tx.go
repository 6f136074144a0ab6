package memsub

import (
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// Tx is a fixed, in-memory transaction.Reader for tests: a transaction
// public key plus an output list, nothing else.
type Tx struct {
	Hash        types.Hash
	TxPublicKey cryptonote.PublicKeyBytes
	Outputs     []transaction.Output
}

func (t *Tx) TransactionPublicKey() cryptonote.PublicKeyBytes { return t.TxPublicKey }
func (t *Tx) TransactionHash() types.Hash                     { return t.Hash }
func (t *Tx) OutputCount() int                                { return len(t.Outputs) }
func (t *Tx) OutputType(index int) transaction.OutputType     { return t.Outputs[index].Type }
func (t *Tx) GetOutput(index int) transaction.Output          { return t.Outputs[index] }

var _ transaction.Reader = (*Tx)(nil)
