package cryptonote

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/edwards25519"
)

// GenerateKeyDerivation computes D = 8 * viewSecret * txPublicKey, the shared
// secret between a transaction's sender and a wallet's view key, clearing the
// cofactor as upstream generate_key_derivation does. Returns false if
// txPublicKey does not decode to a valid curve point (a degenerate key).
func GenerateKeyDerivation(txPublicKey PublicKeyBytes, viewSecret PrivateKeyBytes) (derivation PublicKeyBytes, ok bool) {
	R, err := txPublicKey.Point()
	if err != nil {
		return PublicKeyBytes{}, false
	}
	a, err := viewSecret.Scalar()
	if err != nil {
		return PublicKeyBytes{}, false
	}

	D := new(edwards25519.Point).ScalarMult(a, R)
	D.MultByCofactor(D)

	return PublicKeyBytes(D.Bytes()), true
}

// DeriveSharedDataForOutputIndex computes Hs(D || varint(outputIndex)), the
// per-output scalar used both to test candidate spend keys and, added to the
// account spend secret, to regenerate the one-time output secret.
func DeriveSharedDataForOutputIndex(derivation PublicKeyBytes, outputIndex uint64) PrivateKeyBytes {
	buf := make([]byte, 0, KeySize+binary.MaxVarintLen64)
	buf = append(buf, derivation[:]...)
	buf = appendVarint(buf, outputIndex)
	return PrivateKeyBytes(HashToScalar(buf).Bytes())
}

// UnderiveSpendKey recovers the candidate subscription spend key from an
// output's stealth key: S' = P - Hs(D, i)*G. If S' equals a spend key we
// watch, this output belongs to the corresponding subscription.
func UnderiveSpendKey(derivation PublicKeyBytes, outputIndex uint64, outputKey PublicKeyBytes) (PublicKeyBytes, bool) {
	P, err := outputKey.Point()
	if err != nil {
		return PublicKeyBytes{}, false
	}

	sharedData := DeriveSharedDataForOutputIndex(derivation, outputIndex)
	hs, err := sharedData.Scalar()
	if err != nil {
		return PublicKeyBytes{}, false
	}

	hsG := new(edwards25519.Point).ScalarBaseMult(hs)
	candidate := new(edwards25519.Point).Subtract(P, hsG)

	return PublicKeyBytes(candidate.Bytes()), true
}
