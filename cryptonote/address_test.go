package cryptonote_test

import (
	"testing"

	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	addr := cryptonote.AccountPublicAddress{}
	for i := range addr.SpendPublic {
		addr.SpendPublic[i] = byte(i)
	}
	for i := range addr.ViewPublic {
		addr.ViewPublic[i] = byte(i + 1)
	}

	encoded := cryptonote.EncodeAddress(cryptonote.NetworkMain, addr)
	require.NotEmpty(t, encoded)

	network, decoded, err := cryptonote.DecodeAddress(encoded)
	require.NoError(t, err)
	require.Equal(t, cryptonote.NetworkMain, network)
	require.Equal(t, addr, decoded)
}

func TestDecodeAddressRejectsBadChecksum(t *testing.T) {
	addr := cryptonote.AccountPublicAddress{}
	encoded := cryptonote.EncodeAddress(cryptonote.NetworkMain, addr)

	corrupted := []byte(encoded)
	corrupted[0] = corrupted[0] ^ 1
	if corrupted[0] == encoded[0] {
		corrupted[0] = corrupted[0] ^ 2
	}

	_, _, err := cryptonote.DecodeAddress(string(corrupted))
	require.Error(t, err)
}
