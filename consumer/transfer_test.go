package consumer_test

import (
	"testing"

	"git.gammaspectra.live/P2Pool/wallet-sync/consumer"
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/memsub"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
	"git.gammaspectra.live/P2Pool/wallet-sync/wslog"
	"github.com/stretchr/testify/require"
)

func accountKeysFromSeeds(t *testing.T, viewSeed, spendSeed byte) cryptonote.AccountKeys {
	t.Helper()
	viewSecret, viewPublic := keyPairFromSeed(t, viewSeed)
	spendSecret, spendPublic := keyPairFromSeed(t, spendSeed)
	return cryptonote.AccountKeys{
		Address:     cryptonote.AccountPublicAddress{SpendPublic: spendPublic, ViewPublic: viewPublic},
		SpendSecret: spendSecret,
		ViewSecret:  viewSecret,
	}
}

func hashFromByte(b byte) types.Hash {
	var h types.Hash
	h[0] = b
	return h
}

func TestBuildTransfersKeyOutput(t *testing.T) {
	keys := accountKeysFromSeeds(t, 40, 41)
	_, txPublic := keyPairFromSeed(t, 42)

	derivation, ok := cryptonote.GenerateKeyDerivation(txPublic, keys.ViewSecret)
	require.True(t, ok)
	stealth := stealthKeyFor(t, derivation, 0, keys.Address.SpendPublic)

	tx := &memsub.Tx{
		Hash:        hashFromByte(1),
		TxPublicKey: txPublic,
		Outputs: []transaction.Output{
			{Type: transaction.OutputTypeKey, Amount: 7, Key: transaction.KeyOutput{Key: stealth}},
		},
	}

	seen := consumer.NewSeenKeyRegistry()
	log := wslog.New("test")

	transfers, err := consumer.BuildTransfers(keys, consumer.TransactionBlockInfo{Height: 100}, tx, []int{0}, []uint64{55}, seen, log)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, uint64(7), transfers[0].Amount)
	require.Equal(t, uint64(55), transfers[0].GlobalOutputIndex)
	require.Equal(t, stealth, transfers[0].OutputKey)
	require.NotEqual(t, cryptonote.PublicKeyBytes{}, transfers[0].KeyImage)
}

func TestBuildTransfersUnconfirmedUsesSentinelIndex(t *testing.T) {
	keys := accountKeysFromSeeds(t, 43, 44)
	_, txPublic := keyPairFromSeed(t, 45)

	derivation, ok := cryptonote.GenerateKeyDerivation(txPublic, keys.ViewSecret)
	require.True(t, ok)
	stealth := stealthKeyFor(t, derivation, 0, keys.Address.SpendPublic)

	tx := &memsub.Tx{
		Hash:        hashFromByte(2),
		TxPublicKey: txPublic,
		Outputs: []transaction.Output{
			{Type: transaction.OutputTypeKey, Key: transaction.KeyOutput{Key: stealth}},
		},
	}

	seen := consumer.NewSeenKeyRegistry()
	log := wslog.New("test")

	transfers, err := consumer.BuildTransfers(keys, consumer.TransactionBlockInfo{Height: types.UnconfirmedHeight}, tx, []int{0}, nil, seen, log)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, types.UnconfirmedGlobalIndex, transfers[0].GlobalOutputIndex)
}

// TestBuildTransfersDropsDuplicateOutputKey exercises the duplicate-key
// rejection property: the second transaction to emit a given output key
// yields no transfers, and is a soft failure (no error).
func TestBuildTransfersDropsDuplicateOutputKey(t *testing.T) {
	keys := accountKeysFromSeeds(t, 46, 47)
	_, txPublic1 := keyPairFromSeed(t, 48)

	derivation1, ok := cryptonote.GenerateKeyDerivation(txPublic1, keys.ViewSecret)
	require.True(t, ok)
	stealth := stealthKeyFor(t, derivation1, 0, keys.Address.SpendPublic)

	seen := consumer.NewSeenKeyRegistry()
	log := wslog.New("test")

	tx1 := &memsub.Tx{
		Hash:        hashFromByte(3),
		TxPublicKey: txPublic1,
		Outputs: []transaction.Output{
			{Type: transaction.OutputTypeKey, Key: transaction.KeyOutput{Key: stealth}},
		},
	}
	transfers1, err := consumer.BuildTransfers(keys, consumer.TransactionBlockInfo{Height: 100}, tx1, []int{0}, []uint64{1}, seen, log)
	require.NoError(t, err)
	require.Len(t, transfers1, 1)

	// tx2 reuses tx1's transaction public key (and therefore the same
	// derivation and ephemeral key) under a different tx hash, the
	// literal ledger anomaly the duplicate-key defense exists for.
	tx2 := &memsub.Tx{
		Hash:        hashFromByte(4),
		TxPublicKey: txPublic1,
		Outputs: []transaction.Output{
			{Type: transaction.OutputTypeKey, Key: transaction.KeyOutput{Key: stealth}},
		},
	}
	transfers2, err := consumer.BuildTransfers(keys, consumer.TransactionBlockInfo{Height: 101}, tx2, []int{0}, []uint64{2}, seen, log)
	require.NoError(t, err)
	require.Empty(t, transfers2)
}
