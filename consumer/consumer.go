package consumer

import (
	"fmt"

	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
	"git.gammaspectra.live/P2Pool/wallet-sync/wslog"
)

// ErrViewSecretMismatch is returned by AddSubscription when the account
// being added does not share this consumer's view secret family.
var ErrViewSecretMismatch = fmt.Errorf("consumer: subscription view secret does not match consumer view secret")

// Consumer scans a run of blocks and mempool deltas against every
// subscribed account sharing one view secret, and drives each
// subscription's lifecycle as matches are found. Every exported method
// assumes single-threaded external invocation (OnNewBlocks fans work out
// across goroutines internally, but calls to it must still be serialized);
// nothing here defends against concurrent calls to, say, AddSubscription
// and OnPoolUpdated racing each other.
type Consumer struct {
	node       Node
	log        *wslog.Logger
	viewSecret cryptonote.PrivateKeyBytes

	subscriptions map[cryptonote.PublicKeyBytes]Subscription
	syncStart     SynchronizationStart

	poolTxs map[types.Hash]struct{}

	seen      *SeenKeyRegistry
	observers []Observer
}

// New constructs a Consumer bound to one view secret. Currency parameter
// loading, wallet file I/O, and logger setup are the caller's
// responsibility; log may be nil, in which case log lines are dropped.
func New(node Node, log *wslog.Logger, viewSecret cryptonote.PrivateKeyBytes) *Consumer {
	return &Consumer{
		node:          node,
		log:           log,
		viewSecret:    viewSecret,
		subscriptions: make(map[cryptonote.PublicKeyBytes]Subscription),
		syncStart:     maxSynchronizationStart,
		poolTxs:       make(map[types.Hash]struct{}),
		seen:          NewSeenKeyRegistry(),
	}
}

// AddObserver registers an observer for the lifetime of the Consumer.
// There is no corresponding remove: observers are expected to live as long
// as the Consumer that notifies them.
func (c *Consumer) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// AddSubscription tracks sub, or is a no-op returning the already-tracked
// instance if its spend key is already present. It fails if sub's keys
// belong to a different view secret family than this Consumer's. The
// Consumer takes ownership of sub for its lifetime in the map: callers
// receive a non-owning reference back, valid until RemoveSubscription.
func (c *Consumer) AddSubscription(sub Subscription) (Subscription, error) {
	keys := sub.GetKeys()
	if keys.ViewSecret != c.viewSecret {
		return nil, ErrViewSecretMismatch
	}

	spendKey := keys.Address.SpendPublic
	if existing, ok := c.subscriptions[spendKey]; ok {
		return existing, nil
	}

	c.subscriptions[spendKey] = sub
	c.recomputeSyncStart()
	return sub, nil
}

// RemoveSubscription drops the tracked account for address, if any, and
// reports whether no subscriptions remain afterward.
func (c *Consumer) RemoveSubscription(address cryptonote.AccountPublicAddress) bool {
	delete(c.subscriptions, address.SpendPublic)
	c.recomputeSyncStart()
	return len(c.subscriptions) == 0
}

func (c *Consumer) GetSubscription(address cryptonote.AccountPublicAddress) (Subscription, bool) {
	sub, ok := c.subscriptions[address.SpendPublic]
	return sub, ok
}

func (c *Consumer) GetSubscriptions() []cryptonote.AccountPublicAddress {
	addresses := make([]cryptonote.AccountPublicAddress, 0, len(c.subscriptions))
	for _, sub := range c.subscriptions {
		addresses = append(addresses, sub.GetAddress())
	}
	return addresses
}

// InitTransactionPool re-seeds the known pool set from every subscription's
// unconfirmed transaction list, excluding uncommitted. It does not talk to
// a node; reconciling against the network's current pool is the caller's
// job.
func (c *Consumer) InitTransactionPool(uncommitted map[types.Hash]struct{}) {
	c.poolTxs = make(map[types.Hash]struct{})
	for _, sub := range c.subscriptions {
		for _, hash := range sub.GetContainer().GetUnconfirmedTransactions() {
			if _, skip := uncommitted[hash]; skip {
				continue
			}
			c.poolTxs[hash] = struct{}{}
		}
	}
}

func (c *Consumer) GetSyncStart() SynchronizationStart {
	return c.syncStart
}

func (c *Consumer) recomputeSyncStart() {
	if len(c.subscriptions) == 0 {
		c.syncStart = maxSynchronizationStart
		return
	}
	start := maxSynchronizationStart
	for _, sub := range c.subscriptions {
		start = start.min(sub.GetSyncStart())
	}
	c.syncStart = start
}

// OnBlockchainDetach notifies observers, then every subscription, that the
// chain has reorganized above height. The Consumer itself carries no
// per-height state to roll back.
func (c *Consumer) OnBlockchainDetach(height uint64) {
	for _, o := range c.observers {
		o.OnBlockchainDetach(height)
	}
	for _, sub := range c.subscriptions {
		sub.OnBlockchainDetach(height)
	}
}

func (c *Consumer) GetKnownPoolTxIds() map[types.Hash]struct{} {
	snapshot := make(map[types.Hash]struct{}, len(c.poolTxs))
	for hash := range c.poolTxs {
		snapshot[hash] = struct{}{}
	}
	return snapshot
}

func (c *Consumer) MarkTransactionSafe(hash types.Hash) {
	for _, sub := range c.subscriptions {
		sub.MarkTransactionSafe(hash)
	}
}

// AddPublicKeysSeen injects state into the seen-keys registry, used to
// recover previously persisted state before scanning resumes.
func (c *Consumer) AddPublicKeysSeen(txHash types.Hash, outputKey cryptonote.PublicKeyBytes) {
	c.seen.AddPublicKeysSeen(txHash, outputKey)
}

// accounts returns the account keys for every tracked subscription, keyed
// by spend public key, for use as the Preprocess accounts argument.
func (c *Consumer) accounts() map[cryptonote.PublicKeyBytes]cryptonote.AccountKeys {
	out := make(map[cryptonote.PublicKeyBytes]cryptonote.AccountKeys, len(c.subscriptions))
	for spendKey, sub := range c.subscriptions {
		out[spendKey] = sub.GetKeys()
	}
	return out
}

func (c *Consumer) notifyError(err error, startHeight uint64) {
	for _, sub := range c.subscriptions {
		sub.OnError(err, startHeight)
	}
}

func (c *Consumer) notifyBlocksAdded(hashes []types.Hash) {
	for _, o := range c.observers {
		o.OnBlocksAdded(hashes)
	}
}

func (c *Consumer) advanceHeight(height uint64) {
	for _, sub := range c.subscriptions {
		sub.AdvanceHeight(height)
	}
}
