// Package transaction defines the output-reading contract the consumer
// scans against. Reader is implemented by whatever parses the
// wire transaction format; this package only describes the shape the
// scanner and transfer builder need, not how it is decoded.
package transaction

import (
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
)

// OutputType tags the variant of a transaction output. There is no
// inheritance here: the scanner and transfer builder switch on the tag.
type OutputType uint8

const (
	OutputTypeKey OutputType = iota
	OutputTypeMultisignature
	OutputTypeOther
)

func (t OutputType) String() string {
	switch t {
	case OutputTypeKey:
		return "key"
	case OutputTypeMultisignature:
		return "multisignature"
	default:
		return "other"
	}
}

// KeyOutput is a standard one-time stealth output.
type KeyOutput struct {
	Key cryptonote.PublicKeyBytes
}

// MultisignatureOutput is a legacy multisig output: spending it requires
// RequiredSignatures of the listed keys.
type MultisignatureOutput struct {
	Keys               []cryptonote.PublicKeyBytes
	RequiredSignatures int
}

// Output is the result of Reader.GetOutput: exactly one of Key or Multi is
// meaningful, selected by Type.
type Output struct {
	Type   OutputType
	Amount uint64
	Key    KeyOutput
	Multi  MultisignatureOutput
}

// Reader is the read-only view of a transaction the scanner and transfer
// builder need. It deliberately says nothing about parsing or validating
// the transaction wire format — that is the supplying source's job.
type Reader interface {
	TransactionPublicKey() cryptonote.PublicKeyBytes
	TransactionHash() types.Hash
	OutputCount() int
	OutputType(index int) OutputType
	GetOutput(index int) Output
}
