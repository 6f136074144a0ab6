package consumer

import (
	"sync"

	"git.gammaspectra.live/P2Pool/wallet-sync/cryptonote"
	"git.gammaspectra.live/P2Pool/wallet-sync/types"
	"github.com/dolthub/swiss"
)

// SeenKeyRegistry is the ledger-level duplicate-output-key defense. It is
// not global state: New builds one per Consumer, so unrelated view-key
// families in the same process do not share it, and Consumer offers no way
// to hand it an existing registry. It is
// append-only for the life of the Consumer: once a key is recorded there is
// no API to remove it, matching the append-only invariant of the ledger
// anomaly it detects.
type SeenKeyRegistry struct {
	mu               sync.Mutex
	transactionsSeen *swiss.Map[types.Hash, struct{}]
	publicKeysSeen   *swiss.Map[cryptonote.PublicKeyBytes, struct{}]
}

func NewSeenKeyRegistry() *SeenKeyRegistry {
	return &SeenKeyRegistry{
		transactionsSeen: swiss.NewMap[types.Hash, struct{}](1024),
		publicKeysSeen:   swiss.NewMap[cryptonote.PublicKeyBytes, struct{}](1024),
	}
}

// Reserve is the whole of the transfer builder's duplicate-key defense,
// run as a single critical section so the read-then-insert is atomic
// relative to concurrent builders: if txHash is already known this
// is a no-op success (we've already validated this transaction's keys
// once); otherwise every key in keys is checked against both previously
// committed transactions and its siblings in this same call, and on success
// all of them are committed before the lock is released.
//
// ok=false means the ledger contains a duplicate stealth-address key: the
// caller must drop the whole transaction's transfers for this account.
func (r *SeenKeyRegistry) Reserve(txHash types.Hash, keys []cryptonote.PublicKeyBytes) (ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.transactionsSeen.Get(txHash); known {
		return true
	}

	staged := make(map[cryptonote.PublicKeyBytes]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := r.publicKeysSeen.Get(k); dup {
			return false
		}
		if _, dup := staged[k]; dup {
			return false
		}
		staged[k] = struct{}{}
	}

	r.transactionsSeen.Put(txHash, struct{}{})
	for k := range staged {
		r.publicKeysSeen.Put(k, struct{}{})
	}
	return true
}

// AddPublicKeysSeen injects a key into the registry directly, used to
// recover previously persisted state on startup before any scanning
// resumes.
func (r *SeenKeyRegistry) AddPublicKeysSeen(txHash types.Hash, outputKey cryptonote.PublicKeyBytes) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactionsSeen.Put(txHash, struct{}{})
	r.publicKeysSeen.Put(outputKey, struct{}{})
}
