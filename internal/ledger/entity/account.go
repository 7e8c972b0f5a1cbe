package entity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	// ErrClientMismatch is returned when an event is applied to an account
	// other than the one named by the event. Routing makes this unreachable.
	ErrClientMismatch = errors.New("event routed to the wrong account")
	// ErrInvalidEvent is returned for events carrying a kind outside the known set.
	ErrInvalidEvent = errors.New("invalid event")
)

// AccountView is a read-only snapshot of an account.
type AccountView struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Account owns the balances, history and lock state of one client.
//
// Account is not safe for concurrent use; callers serialize access per client.
type Account struct {
	id        ClientID
	available decimal.Decimal
	held      decimal.Decimal
	locked    bool
	history   map[TxID]*TransactionRecord
	disputes  []DisputeAction
}

func NewAccount(id ClientID) *Account {
	return &Account{
		id:        id,
		available: decimal.Zero,
		held:      decimal.Zero,
		history:   make(map[TxID]*TransactionRecord),
	}
}

func (a *Account) ID() ClientID               { return a.id }
func (a *Account) Available() decimal.Decimal { return a.available }
func (a *Account) Held() decimal.Decimal      { return a.held }
func (a *Account) Locked() bool               { return a.locked }

// Total is always derived from available and held.
func (a *Account) Total() decimal.Decimal {
	return a.available.Add(a.held)
}

func (a *Account) View() AccountView {
	return AccountView{
		Client:    a.id,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.locked,
	}
}

// Record returns a copy of the history entry for id.
func (a *Account) Record(id TxID) (TransactionRecord, bool) {
	rec, ok := a.history[id]
	if !ok {
		return TransactionRecord{}, false
	}
	return *rec, true
}

func (a *Account) HistoryLen() int {
	return len(a.history)
}

// Disputes returns the dispute actions that changed state, in arrival order.
func (a *Account) Disputes() []DisputeAction {
	return slices.Clone(a.disputes)
}

// ApplyTransaction records t in the history and, unless the account is locked
// or funds are insufficient, updates the available balance.
//
// A transaction id already present in the history is ignored.
func (a *Account) ApplyTransaction(t Transaction) (Outcome, error) {
	if t.Client != a.id {
		return "", fmt.Errorf("%w: account %d got transaction %d for client %d", ErrClientMismatch, a.id, t.ID, t.Client)
	}

	if _, seen := a.history[t.ID]; seen {
		return OutcomeDuplicate, nil
	}

	if a.locked {
		a.record(t, TxStateRejected)
		return OutcomeRejected, nil
	}

	switch t.Kind {
	case TxKindDeposit:
		a.available = a.available.Add(t.Amount)
		a.record(t, TxStateAccepted)
		return OutcomeAccepted, nil
	case TxKindWithdrawal:
		if a.available.LessThan(t.Amount) {
			a.record(t, TxStateRejected)
			return OutcomeRejected, nil
		}
		a.available = a.available.Sub(t.Amount)
		a.record(t, TxStateAccepted)
		return OutcomeAccepted, nil
	}

	return "", fmt.Errorf("%w: transaction kind %q", ErrInvalidEvent, t.Kind)
}

// ApplyDisputeAction moves the referenced transaction through the dispute
// lifecycle. References to unknown transactions are dropped silently, and
// nothing changes once the account is locked.
func (a *Account) ApplyDisputeAction(d DisputeAction) (Outcome, error) {
	if d.Client != a.id {
		return "", fmt.Errorf("%w: account %d got %s of transaction %d for client %d", ErrClientMismatch, a.id, d.Kind, d.TxID, d.Client)
	}

	if a.locked {
		return OutcomeNoop, nil
	}

	rec, ok := a.history[d.TxID]
	if !ok {
		return OutcomeUnknownReference, nil
	}

	outcome, err := a.transition(rec, d.Kind)
	if err != nil {
		return "", err
	}

	switch outcome {
	case OutcomeDisputed, OutcomeResolved, OutcomeChargebacked:
		a.disputes = append(a.disputes, d)
	}

	return outcome, nil
}

// transition lists every (state, action) pair explicitly. Anything reaching
// the final return carries a value outside the declared enums.
func (a *Account) transition(rec *TransactionRecord, kind ActionKind) (Outcome, error) {
	switch rec.State {
	case TxStateAccepted:
		switch kind {
		case ActionKindDispute:
			return a.dispute(rec), nil
		case ActionKindResolve:
			return OutcomeNoop, nil
		case ActionKindChargeback:
			return OutcomeNoop, nil
		}
	case TxStateRejected:
		switch kind {
		case ActionKindDispute, ActionKindResolve, ActionKindChargeback:
			return OutcomeNoop, nil
		}
	case TxStateDisputed:
		switch kind {
		case ActionKindDispute:
			return OutcomeNoop, nil
		case ActionKindResolve:
			return a.resolve(rec), nil
		case ActionKindChargeback:
			return a.chargeback(rec), nil
		}
	case TxStateResolved:
		switch kind {
		case ActionKindDispute, ActionKindResolve, ActionKindChargeback:
			return OutcomeNoop, nil
		}
	case TxStateChargebacked:
		switch kind {
		case ActionKindDispute, ActionKindResolve, ActionKindChargeback:
			return OutcomeNoop, nil
		}
	}

	return "", fmt.Errorf("%w: %q on transaction in state %s", ErrInvalidEvent, kind, rec.State)
}

func (a *Account) dispute(rec *TransactionRecord) Outcome {
	switch rec.Transaction.Kind {
	case TxKindDeposit:
		amount := rec.Transaction.Amount
		// Funds already withdrawn cannot be held.
		if a.available.LessThan(amount) {
			return OutcomeRejected
		}
		a.available = a.available.Sub(amount)
		a.held = a.held.Add(amount)
	case TxKindWithdrawal:
		// The debit already happened; nothing is held until adjudication.
	}

	rec.State = TxStateDisputed
	return OutcomeDisputed
}

func (a *Account) resolve(rec *TransactionRecord) Outcome {
	amount := rec.Transaction.Amount
	switch rec.Transaction.Kind {
	case TxKindDeposit:
		a.held = a.held.Sub(amount)
		a.available = a.available.Add(amount)
	case TxKindWithdrawal:
		a.available = a.available.Add(amount)
	}

	rec.State = TxStateResolved
	return OutcomeResolved
}

func (a *Account) chargeback(rec *TransactionRecord) Outcome {
	switch rec.Transaction.Kind {
	case TxKindDeposit:
		a.held = a.held.Sub(rec.Transaction.Amount)
	case TxKindWithdrawal:
	}

	a.locked = true
	rec.State = TxStateChargebacked
	return OutcomeChargebacked
}

func (a *Account) record(t Transaction, state TxState) {
	a.history[t.ID] = &TransactionRecord{Transaction: t, State: state}
}
