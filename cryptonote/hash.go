package cryptonote

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/edwards25519"
	"git.gammaspectra.live/P2Pool/sha3"
)

func keccak256(data ...[]byte) (out [32]byte) {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		_, _ = h.Write(b)
	}
	h.Sum(out[:0])
	return
}

// scalarReduce produces a canonical scalar from a wide hash, equivalent to
// upstream's sc_reduce32 applied to a Keccak-256 digest.
func scalarReduce(h [32]byte) *edwards25519.Scalar {
	var wide [64]byte
	copy(wide[:], h[:])
	s, _ := new(edwards25519.Scalar).SetUniformBytes(wide[:])
	return s
}

// HashToScalar is Hs() in the CryptoNote whitepaper: BytesToInt256(Keccak256(x)) mod l.
func HashToScalar(data ...[]byte) *edwards25519.Scalar {
	return scalarReduce(keccak256(data...))
}

func appendVarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}
