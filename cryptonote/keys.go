// Package cryptonote implements the stealth-address primitives a wallet-side
// transaction consumer needs: key derivation, spend-key underivation, and
// key-image generation. It is a thin shim over Ed25519 group arithmetic —
// everything above the curve itself (scanning, transfer building, batching)
// lives in package consumer.
package cryptonote

import (
	"errors"

	"git.gammaspectra.live/P2Pool/edwards25519"
	fasthex "github.com/tmthrgd/go-hex"
)

const KeySize = 32

// PublicKeyBytes is a compressed Ed25519 point: a stealth address, a view or
// spend public key, a transaction public key, or a key image.
type PublicKeyBytes [KeySize]byte

func (k PublicKeyBytes) String() string {
	return fasthex.EncodeToString(k[:])
}

// Point decodes k, rejecting bytes that are not the canonical encoding of a
// curve point (including encodings whose y coordinate is not below p).
func (k PublicKeyBytes) Point() (*edwards25519.Point, error) {
	p, err := new(edwards25519.Point).SetBytes(k[:])
	if err != nil || PublicKeyBytes(p.Bytes()) != k {
		return nil, errors.New("cryptonote: invalid public key")
	}
	return p, nil
}

// PrivateKeyBytes is a canonically-reduced Ed25519 scalar: a view or spend
// secret key, or an output's shared-secret/key-image-helper scalar.
type PrivateKeyBytes [KeySize]byte

func (k PrivateKeyBytes) String() string {
	return fasthex.EncodeToString(k[:])
}

func (k PrivateKeyBytes) Scalar() (*edwards25519.Scalar, error) {
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(k[:])
	if err != nil {
		return nil, errors.New("cryptonote: invalid private key")
	}
	return s, nil
}

func (k PrivateKeyBytes) PublicKey() PublicKeyBytes {
	s, err := k.Scalar()
	if err != nil {
		return PublicKeyBytes{}
	}
	return PublicKeyBytes(new(edwards25519.Point).ScalarBaseMult(s).Bytes())
}

// AccountPublicAddress is the pair of public keys identifying a CryptoNote
// account: the subscription identity (SpendPublic) plus the view key family
// it belongs to (ViewPublic).
type AccountPublicAddress struct {
	SpendPublic PublicKeyBytes
	ViewPublic  PublicKeyBytes
}

// AccountKeys carries the secret halves needed for transfer building
// (key-image generation) alongside the public address.
type AccountKeys struct {
	Address     AccountPublicAddress
	SpendSecret PrivateKeyBytes
	ViewSecret  PrivateKeyBytes
}
