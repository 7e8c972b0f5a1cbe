package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
)

// Registry maps client ids to their accounts and routes events to them.
//
// Events for one client are applied under that account's lock, so they are
// serialized; events for different clients do not contend beyond the map
// lookup.
type Registry struct {
	mu       sync.RWMutex
	accounts map[entity.ClientID]*accountSlot
	seen     map[entity.TxID]entity.ClientID
}

type accountSlot struct {
	mu      sync.Mutex
	account *entity.Account
}

func NewRegistry() *Registry {
	return &Registry{
		accounts: make(map[entity.ClientID]*accountSlot),
		seen:     make(map[entity.TxID]entity.ClientID),
	}
}

// Route applies ev to the account of ev's client, creating the account on
// first reference. A transaction id seen before, for any client, is ignored
// with OutcomeDuplicate.
func (r *Registry) Route(ev entity.Event) (entity.Outcome, error) {
	switch e := ev.(type) {
	case entity.Transaction:
		slot, fresh := r.slotForTransaction(e)
		if !fresh {
			return entity.OutcomeDuplicate, nil
		}

		slot.mu.Lock()
		defer slot.mu.Unlock()

		return slot.account.ApplyTransaction(e)
	case entity.DisputeAction:
		slot := r.slot(e.Client)

		slot.mu.Lock()
		defer slot.mu.Unlock()

		return slot.account.ApplyDisputeAction(e)
	default:
		return "", fmt.Errorf("%w: unsupported event %T", entity.ErrInvalidEvent, ev)
	}
}

// SnapshotAll returns a view of every account, ordered by client id.
func (r *Registry) SnapshotAll() []entity.AccountView {
	r.mu.RLock()
	slots := make([]*accountSlot, 0, len(r.accounts))
	for _, slot := range r.accounts {
		slots = append(slots, slot)
	}
	r.mu.RUnlock()

	views := make([]entity.AccountView, 0, len(slots))
	for _, slot := range slots {
		slot.mu.Lock()
		views = append(views, slot.account.View())
		slot.mu.Unlock()
	}

	slices.SortFunc(views, func(a, b entity.AccountView) int {
		return int(a.Client) - int(b.Client)
	})

	return views
}

// Snapshot returns the view of a single account. Clients that never appeared
// in any event do not exist.
func (r *Registry) Snapshot(client entity.ClientID) (entity.AccountView, bool) {
	r.mu.RLock()
	slot, ok := r.accounts[client]
	r.mu.RUnlock()
	if !ok {
		return entity.AccountView{}, false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	return slot.account.View(), true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts)
}

func (r *Registry) slot(client entity.ClientID) *accountSlot {
	r.mu.RLock()
	slot, ok := r.accounts[client]
	r.mu.RUnlock()
	if ok {
		return slot
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.slotLocked(client)
}

// slotForTransaction claims t.ID in the stream-wide index. fresh is false when
// the id was already claimed; the account is created either way.
func (r *Registry) slotForTransaction(t entity.Transaction) (*accountSlot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slotLocked(t.Client)
	if _, dup := r.seen[t.ID]; dup {
		return slot, false
	}
	r.seen[t.ID] = t.Client

	return slot, true
}

func (r *Registry) slotLocked(client entity.ClientID) *accountSlot {
	slot, ok := r.accounts[client]
	if !ok {
		slot = &accountSlot{account: entity.NewAccount(client)}
		r.accounts[client] = slot
	}

	return slot
}
