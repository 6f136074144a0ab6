package consumer_test

import (
	"context"
	"errors"
	"testing"

	"git.gammaspectra.live/P2Pool/wallet-sync/consumer"
	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/memsub"
	"git.gammaspectra.live/P2Pool/wallet-sync/transaction"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
	"git.gammaspectra.live/P2Pool/wallet-sync/wslog"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"
)

func TestConsumer(t *testing.T) {
	spec.Run(t, "Consumer", func(t *testing.T, when spec.G, it spec.S) {
		var (
			node *memsub.Node
			c    *consumer.Consumer
			obs  *memsub.Observer
			acct cryptonote.AccountKeys
			sub  *memsub.Subscription
			ctx  = context.Background()
		)

		it.Before(func() {
			node = memsub.NewNode()
			acct = accountKeysFromSeeds(t, 60, 61)
			c = consumer.New(node, wslog.New("test"), acct.ViewSecret)
			obs = memsub.NewObserver()
			c.AddObserver(obs)
			sub = memsub.New(acct, consumer.SynchronizationStart{})
			_, err := c.AddSubscription(sub)
			require.NoError(t, err)
		})

		it("reports no update and advances height for a batch with no owned outputs", func() {
			_, unrelatedSpend := keyPairFromSeed(t, 70)
			_, txPublic := keyPairFromSeed(t, 71)

			tx := &memsub.Tx{
				Hash:        hashFromByte(100),
				TxPublicKey: txPublic,
				Outputs: []transaction.Output{
					{Type: transaction.OutputTypeKey, Key: transaction.KeyOutput{Key: unrelatedSpend}},
				},
			}

			blocks := []consumer.Block{
				{Hash: hashFromByte(1), Height: 100, Transactions: []transaction.Reader{tx}},
				{Hash: hashFromByte(2), Height: 101},
				{Hash: hashFromByte(3), Height: 102},
			}

			ok := c.OnNewBlocks(ctx, blocks)
			require.True(t, ok)
			require.Empty(t, obs.TransactionUpdated)
			require.Equal(t, uint64(102), sub.Height)
		})

		it("delivers a single owned output with its global index", func() {
			derivation, ok := cryptonote.GenerateKeyDerivation(hashToTxPublic(t, acct), acct.ViewSecret)
			require.True(t, ok)
			stealth := stealthKeyFor(t, derivation, 0, acct.Address.SpendPublic)

			tx := &memsub.Tx{
				Hash:        hashFromByte(101),
				TxPublicKey: hashToTxPublic(t, acct),
				Outputs: []transaction.Output{
					{Type: transaction.OutputTypeKey, Amount: 42, Key: transaction.KeyOutput{Key: stealth}},
				},
			}
			node.Set(tx.Hash, []uint64{900})

			blocks := []consumer.Block{
				{Hash: hashFromByte(5), Height: 200, Transactions: []transaction.Reader{tx}},
			}

			ok = c.OnNewBlocks(ctx, blocks)
			require.True(t, ok)
			require.Equal(t, []types.Hash{tx.Hash}, obs.TransactionUpdated)

			rec, found := sub.GetContainer().(*memsub.Container).Get(tx.Hash)
			require.True(t, found)
			require.Len(t, rec.Transfers, 1)
			require.Equal(t, uint64(900), rec.Transfers[0].GlobalOutputIndex)
		})

		it("transitions a pool transaction to confirmed without a second add", func() {
			txPublic := hashToTxPublic(t, acct)
			derivation, ok := cryptonote.GenerateKeyDerivation(txPublic, acct.ViewSecret)
			require.True(t, ok)
			stealth := stealthKeyFor(t, derivation, 0, acct.Address.SpendPublic)

			tx := &memsub.Tx{
				Hash:        hashFromByte(102),
				TxPublicKey: txPublic,
				Outputs: []transaction.Output{
					{Type: transaction.OutputTypeKey, Key: transaction.KeyOutput{Key: stealth}},
				},
			}

			err := c.AddUnconfirmedTransaction(ctx, tx)
			require.NoError(t, err)

			rec, found := sub.GetContainer().(*memsub.Container).Get(tx.Hash)
			require.True(t, found)
			require.True(t, rec.BlockInfo.Unconfirmed())

			node.Set(tx.Hash, []uint64{5})
			blocks := []consumer.Block{
				{Hash: hashFromByte(6), Height: 300, Transactions: []transaction.Reader{tx}},
			}
			ok = c.OnNewBlocks(ctx, blocks)
			require.True(t, ok)

			rec, found = sub.GetContainer().(*memsub.Container).Get(tx.Hash)
			require.True(t, found)
			require.False(t, rec.BlockInfo.Unconfirmed())
			require.Equal(t, uint64(300), rec.BlockInfo.Height)
		})

		it("fails the whole batch and notifies subscriptions on a node error", func() {
			txPublic := hashToTxPublic(t, acct)
			derivation, ok := cryptonote.GenerateKeyDerivation(txPublic, acct.ViewSecret)
			require.True(t, ok)
			stealth := stealthKeyFor(t, derivation, 0, acct.Address.SpendPublic)

			tx := &memsub.Tx{
				Hash:        hashFromByte(103),
				TxPublicKey: txPublic,
				Outputs: []transaction.Output{
					{Type: transaction.OutputTypeKey, Key: transaction.KeyOutput{Key: stealth}},
				},
			}
			node.SetError(tx.Hash, errors.New("node unreachable"))

			blocks := []consumer.Block{
				{Hash: hashFromByte(7), Height: 400, Transactions: []transaction.Reader{tx}},
			}

			ok = c.OnNewBlocks(ctx, blocks)
			require.False(t, ok)
			require.Len(t, sub.Errors, 1)
			require.Empty(t, obs.TransactionUpdated)
		})

		it("filters out blocks older than the sync start timestamp", func() {
			sub2 := memsub.New(acct, consumer.SynchronizationStart{Timestamp: 1000})
			c2 := consumer.New(node, wslog.New("test"), acct.ViewSecret)
			_, err := c2.AddSubscription(sub2)
			require.NoError(t, err)
			require.Equal(t, uint64(1000), c2.GetSyncStart().Timestamp)

			txPublic := hashToTxPublic(t, acct)
			derivation, ok := cryptonote.GenerateKeyDerivation(txPublic, acct.ViewSecret)
			require.True(t, ok)
			stealth := stealthKeyFor(t, derivation, 0, acct.Address.SpendPublic)

			tx := &memsub.Tx{
				Hash:        hashFromByte(104),
				TxPublicKey: txPublic,
				Outputs: []transaction.Output{
					{Type: transaction.OutputTypeKey, Key: transaction.KeyOutput{Key: stealth}},
				},
			}
			node.Set(tx.Hash, []uint64{1})

			blocks := []consumer.Block{
				{Hash: hashFromByte(8), Height: 10, Timestamp: 500, Transactions: []transaction.Reader{tx}},
				{Hash: hashFromByte(9), Height: 11, Timestamp: 1500, Transactions: []transaction.Reader{tx}},
			}

			ok = c2.OnNewBlocks(ctx, blocks)
			require.True(t, ok)

			_, found := sub2.GetContainer().(*memsub.Container).Get(tx.Hash)
			require.True(t, found)
		})
	}, spec.Report(report.Terminal{}))
}

func hashToTxPublic(t *testing.T, acct cryptonote.AccountKeys) cryptonote.PublicKeyBytes {
	t.Helper()
	_, txPublic := keyPairFromSeed(t, acct.SpendSecret[0]+1)
	return txPublic
}
