package cryptonote

import (
	"errors"

	base58 "git.gammaspectra.live/P2Pool/monero-base58"
)

// Network tags which ledger an address belongs to, mirroring upstream's
// network byte prefixes closely enough to round-trip standard addresses.
type Network uint8

const (
	NetworkMain  Network = 18
	NetworkTest  Network = 53
	NetworkStage Network = 24
)

const addressChecksumSize = 4
const addressRawSize = 1 + KeySize*2 + addressChecksumSize

var ErrInvalidAddress = errors.New("cryptonote: invalid address")

func addressChecksum(data []byte) (sum [addressChecksumSize]byte) {
	digest := keccak256(data)
	copy(sum[:], digest[:addressChecksumSize])
	return
}

// EncodeAddress renders network and addr as the standard base58check
// address string wallets exchange, used here only for log lines and
// diagnostics; the consumer itself only ever compares raw public keys.
func EncodeAddress(network Network, addr AccountPublicAddress) string {
	var raw [addressRawSize]byte
	raw[0] = byte(network)
	copy(raw[1:], addr.SpendPublic[:])
	copy(raw[1+KeySize:], addr.ViewPublic[:])
	checksum := addressChecksum(raw[:1+KeySize*2])
	copy(raw[1+KeySize*2:], checksum[:])

	buf := make([]byte, 0, 95)
	return string(base58.EncodeMoneroBase58PreAllocated(buf, raw[:]))
}

// DecodeAddress parses a standard base58check address string back into its
// network tag and public key pair, verifying the checksum.
func DecodeAddress(address string) (Network, AccountPublicAddress, error) {
	preAllocated := make([]byte, 0, addressRawSize)
	raw := base58.DecodeMoneroBase58PreAllocated(preAllocated, []byte(address))
	if len(raw) != addressRawSize {
		return 0, AccountPublicAddress{}, ErrInvalidAddress
	}

	checksum := addressChecksum(raw[:1+KeySize*2])
	for i, b := range checksum {
		if raw[1+KeySize*2+i] != b {
			return 0, AccountPublicAddress{}, ErrInvalidAddress
		}
	}

	var addr AccountPublicAddress
	copy(addr.SpendPublic[:], raw[1:1+KeySize])
	copy(addr.ViewPublic[:], raw[1+KeySize:1+KeySize*2])

	return Network(raw[0]), addr, nil
}
