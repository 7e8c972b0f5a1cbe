package entity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func deposit(client ClientID, id TxID, amount string) Transaction {
	return Transaction{Kind: TxKindDeposit, Client: client, ID: id, Amount: dec(amount)}
}

func withdrawal(client ClientID, id TxID, amount string) Transaction {
	return Transaction{Kind: TxKindWithdrawal, Client: client, ID: id, Amount: dec(amount)}
}

func action(kind ActionKind, client ClientID, id TxID) DisputeAction {
	return DisputeAction{Kind: kind, Client: client, TxID: id}
}

func assertBalances(t *testing.T, a *Account, available, held string, locked bool) {
	t.Helper()

	assert.True(t, dec(available).Equal(a.Available()), "available = %s, want %s", a.Available(), available)
	assert.True(t, dec(held).Equal(a.Held()), "held = %s, want %s", a.Held(), held)
	assert.Equal(t, locked, a.Locked(), "locked")
}

func assertInvariants(t *testing.T, a *Account) {
	t.Helper()

	view := a.View()
	assert.True(t, view.Total.Equal(view.Available.Add(view.Held)), "total must equal available + held")
	assert.False(t, view.Available.IsNegative(), "available is negative: %s", view.Available)
	assert.False(t, view.Held.IsNegative(), "held is negative: %s", view.Held)
}

// apply feeds events one by one, checking invariants after each of them.
func apply(t *testing.T, a *Account, events ...Event) []Outcome {
	t.Helper()

	outcomes := make([]Outcome, 0, len(events))
	for _, ev := range events {
		var (
			out Outcome
			err error
		)
		switch e := ev.(type) {
		case Transaction:
			out, err = a.ApplyTransaction(e)
		case DisputeAction:
			out, err = a.ApplyDisputeAction(e)
		}
		require.NoError(t, err)
		assertInvariants(t, a)
		outcomes = append(outcomes, out)
	}

	return outcomes
}

func TestAccount_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("A deposit", func(t *testing.T) {
		t.Parallel()
		a := NewAccount(1)
		apply(t, a, deposit(1, 1, "2.0"))
		assertBalances(t, a, "2.0", "0", false)
		assert.True(t, dec("2.0").Equal(a.Total()))
	})

	t.Run("B deposit then full withdrawal", func(t *testing.T) {
		t.Parallel()
		a := NewAccount(1)
		apply(t, a, deposit(1, 1, "2.0"), withdrawal(1, 2, "2.0"))
		assertBalances(t, a, "0", "0", false)
		assert.True(t, a.Total().IsZero())
	})

	t.Run("C dispute deposit", func(t *testing.T) {
		t.Parallel()
		a := NewAccount(1)
		apply(t, a, deposit(1, 1, "2.0"), action(ActionKindDispute, 1, 1))
		assertBalances(t, a, "0", "2.0", false)
		assert.True(t, dec("2.0").Equal(a.Total()))
	})

	t.Run("D chargeback locks and freezes", func(t *testing.T) {
		t.Parallel()
		a := NewAccount(1)
		outcomes := apply(t, a,
			deposit(1, 1, "2.0"),
			action(ActionKindDispute, 1, 1),
			action(ActionKindChargeback, 1, 1),
			deposit(1, 2, "5.0"),
		)
		assert.Equal(t, []Outcome{OutcomeAccepted, OutcomeDisputed, OutcomeChargebacked, OutcomeRejected}, outcomes)
		assertBalances(t, a, "0", "0", true)

		rec, ok := a.Record(2)
		require.True(t, ok)
		assert.Equal(t, TxStateRejected, rec.State)
	})

	t.Run("E withdrawal dispute resolve refunds", func(t *testing.T) {
		t.Parallel()
		a := NewAccount(1)
		apply(t, a,
			deposit(1, 1, "2.0"),
			withdrawal(1, 2, "1.0"),
			action(ActionKindDispute, 1, 2),
		)
		assertBalances(t, a, "1.0", "0", false)

		apply(t, a, action(ActionKindResolve, 1, 2))
		assertBalances(t, a, "2.0", "0", false)
	})

	t.Run("F rejected withdrawal cannot be disputed", func(t *testing.T) {
		t.Parallel()
		a := NewAccount(1)
		outcomes := apply(t, a,
			deposit(1, 1, "2.0"),
			withdrawal(1, 2, "3.0"),
			action(ActionKindDispute, 1, 2),
		)
		assert.Equal(t, []Outcome{OutcomeAccepted, OutcomeRejected, OutcomeNoop}, outcomes)
		assertBalances(t, a, "2.0", "0", false)

		rec, ok := a.Record(2)
		require.True(t, ok)
		assert.Equal(t, TxStateRejected, rec.State)
		assert.Empty(t, a.Disputes())
	})
}

// ---------------------------------------------------------------------------
// Dispute lifecycle -- exhaustive (state, action) matrix
// ---------------------------------------------------------------------------

func TestAccount_DisputeMatrix(t *testing.T) {
	t.Parallel()

	// setup brings transaction 2 of the given kind into the wanted state.
	// The account starts with 10 available from deposit 1.
	setup := func(t *testing.T, kind TxKind, state TxState) *Account {
		t.Helper()

		a := NewAccount(7)
		apply(t, a, deposit(7, 1, "10"))

		tx := Transaction{Kind: kind, Client: 7, ID: 2, Amount: dec("4")}
		if state == TxStateRejected {
			tx.Amount = dec("100")
		}
		apply(t, a, tx)

		switch state {
		case TxStateAccepted, TxStateRejected:
		case TxStateDisputed:
			apply(t, a, action(ActionKindDispute, 7, 2))
		case TxStateResolved:
			apply(t, a, action(ActionKindDispute, 7, 2), action(ActionKindResolve, 7, 2))
		case TxStateChargebacked:
			apply(t, a, action(ActionKindDispute, 7, 2), action(ActionKindChargeback, 7, 2))
		}

		rec, ok := a.Record(2)
		require.True(t, ok)
		require.Equal(t, state, rec.State)

		return a
	}

	tests := []struct {
		name      string
		kind      TxKind
		state     TxState
		action    ActionKind
		expected  Outcome
		nextState TxState
		available string
		held      string
		locked    bool
	}{
		// Deposits (amount 4, total deposited 14 when accepted)
		{name: "deposit ACCEPTED dispute", kind: TxKindDeposit, state: TxStateAccepted, action: ActionKindDispute, expected: OutcomeDisputed, nextState: TxStateDisputed, available: "10", held: "4"},
		{name: "deposit ACCEPTED resolve", kind: TxKindDeposit, state: TxStateAccepted, action: ActionKindResolve, expected: OutcomeNoop, nextState: TxStateAccepted, available: "14", held: "0"},
		{name: "deposit ACCEPTED chargeback", kind: TxKindDeposit, state: TxStateAccepted, action: ActionKindChargeback, expected: OutcomeNoop, nextState: TxStateAccepted, available: "14", held: "0"},
		{name: "deposit DISPUTED dispute", kind: TxKindDeposit, state: TxStateDisputed, action: ActionKindDispute, expected: OutcomeNoop, nextState: TxStateDisputed, available: "10", held: "4"},
		{name: "deposit DISPUTED resolve", kind: TxKindDeposit, state: TxStateDisputed, action: ActionKindResolve, expected: OutcomeResolved, nextState: TxStateResolved, available: "14", held: "0"},
		{name: "deposit DISPUTED chargeback", kind: TxKindDeposit, state: TxStateDisputed, action: ActionKindChargeback, expected: OutcomeChargebacked, nextState: TxStateChargebacked, available: "10", held: "0", locked: true},
		{name: "deposit RESOLVED dispute", kind: TxKindDeposit, state: TxStateResolved, action: ActionKindDispute, expected: OutcomeNoop, nextState: TxStateResolved, available: "14", held: "0"},
		{name: "deposit RESOLVED resolve", kind: TxKindDeposit, state: TxStateResolved, action: ActionKindResolve, expected: OutcomeNoop, nextState: TxStateResolved, available: "14", held: "0"},
		{name: "deposit RESOLVED chargeback", kind: TxKindDeposit, state: TxStateResolved, action: ActionKindChargeback, expected: OutcomeNoop, nextState: TxStateResolved, available: "14", held: "0"},
		{name: "deposit CHARGEBACKED dispute", kind: TxKindDeposit, state: TxStateChargebacked, action: ActionKindDispute, expected: OutcomeNoop, nextState: TxStateChargebacked, available: "10", held: "0", locked: true},
		{name: "deposit CHARGEBACKED resolve", kind: TxKindDeposit, state: TxStateChargebacked, action: ActionKindResolve, expected: OutcomeNoop, nextState: TxStateChargebacked, available: "10", held: "0", locked: true},
		{name: "deposit CHARGEBACKED chargeback", kind: TxKindDeposit, state: TxStateChargebacked, action: ActionKindChargeback, expected: OutcomeNoop, nextState: TxStateChargebacked, available: "10", held: "0", locked: true},

		// Withdrawals (amount 4 out of 10)
		{name: "withdrawal ACCEPTED dispute", kind: TxKindWithdrawal, state: TxStateAccepted, action: ActionKindDispute, expected: OutcomeDisputed, nextState: TxStateDisputed, available: "6", held: "0"},
		{name: "withdrawal ACCEPTED resolve", kind: TxKindWithdrawal, state: TxStateAccepted, action: ActionKindResolve, expected: OutcomeNoop, nextState: TxStateAccepted, available: "6", held: "0"},
		{name: "withdrawal ACCEPTED chargeback", kind: TxKindWithdrawal, state: TxStateAccepted, action: ActionKindChargeback, expected: OutcomeNoop, nextState: TxStateAccepted, available: "6", held: "0"},
		{name: "withdrawal DISPUTED dispute", kind: TxKindWithdrawal, state: TxStateDisputed, action: ActionKindDispute, expected: OutcomeNoop, nextState: TxStateDisputed, available: "6", held: "0"},
		{name: "withdrawal DISPUTED resolve", kind: TxKindWithdrawal, state: TxStateDisputed, action: ActionKindResolve, expected: OutcomeResolved, nextState: TxStateResolved, available: "10", held: "0"},
		{name: "withdrawal DISPUTED chargeback", kind: TxKindWithdrawal, state: TxStateDisputed, action: ActionKindChargeback, expected: OutcomeChargebacked, nextState: TxStateChargebacked, available: "6", held: "0", locked: true},
		{name: "withdrawal RESOLVED dispute", kind: TxKindWithdrawal, state: TxStateResolved, action: ActionKindDispute, expected: OutcomeNoop, nextState: TxStateResolved, available: "10", held: "0"},
		{name: "withdrawal CHARGEBACKED resolve", kind: TxKindWithdrawal, state: TxStateChargebacked, action: ActionKindResolve, expected: OutcomeNoop, nextState: TxStateChargebacked, available: "6", held: "0", locked: true},

		// Rejected withdrawal (amount 100 out of 10)
		{name: "withdrawal REJECTED dispute", kind: TxKindWithdrawal, state: TxStateRejected, action: ActionKindDispute, expected: OutcomeNoop, nextState: TxStateRejected, available: "10", held: "0"},
		{name: "withdrawal REJECTED resolve", kind: TxKindWithdrawal, state: TxStateRejected, action: ActionKindResolve, expected: OutcomeNoop, nextState: TxStateRejected, available: "10", held: "0"},
		{name: "withdrawal REJECTED chargeback", kind: TxKindWithdrawal, state: TxStateRejected, action: ActionKindChargeback, expected: OutcomeNoop, nextState: TxStateRejected, available: "10", held: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := setup(t, tt.kind, tt.state)
			disputesBefore := len(a.Disputes())

			outcomes := apply(t, a, action(tt.action, 7, 2))
			assert.Equal(t, tt.expected, outcomes[0])

			rec, ok := a.Record(2)
			require.True(t, ok)
			assert.Equal(t, tt.nextState, rec.State)
			assertBalances(t, a, tt.available, tt.held, tt.locked)

			if tt.expected == OutcomeNoop {
				assert.Len(t, a.Disputes(), disputesBefore, "no-op must not be logged")
			} else {
				assert.Len(t, a.Disputes(), disputesBefore+1)
			}
		})
	}
}

func TestAccount_DisputeIsIdempotent(t *testing.T) {
	t.Parallel()

	a := NewAccount(1)
	apply(t, a, deposit(1, 1, "3.5"), action(ActionKindDispute, 1, 1))
	once := a.View()

	outcomes := apply(t, a, action(ActionKindDispute, 1, 1))
	assert.Equal(t, []Outcome{OutcomeNoop}, outcomes)
	assert.Equal(t, once, a.View())
	assert.Len(t, a.Disputes(), 1)
}

func TestAccount_UnknownReferenceIsDropped(t *testing.T) {
	t.Parallel()

	for _, kind := range []ActionKind{ActionKindDispute, ActionKindResolve, ActionKindChargeback} {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			a := NewAccount(1)
			apply(t, a, deposit(1, 1, "1.25"))
			before := a.View()

			outcomes := apply(t, a, action(kind, 1, 99))
			assert.Equal(t, []Outcome{OutcomeUnknownReference}, outcomes)
			assert.Equal(t, before, a.View())
			assert.Equal(t, 1, a.HistoryLen())
			assert.Empty(t, a.Disputes())
		})
	}
}

func TestAccount_LockedIsImmutable(t *testing.T) {
	t.Parallel()

	a := NewAccount(3)
	apply(t, a,
		deposit(3, 1, "10"),
		deposit(3, 2, "5"),
		action(ActionKindDispute, 3, 2),
		action(ActionKindChargeback, 3, 2),
	)
	frozen := a.View()
	require.True(t, frozen.Locked)

	outcomes := apply(t, a,
		deposit(3, 3, "1"),
		withdrawal(3, 4, "1"),
		action(ActionKindDispute, 3, 1),
		action(ActionKindResolve, 3, 1),
		action(ActionKindChargeback, 3, 1),
	)

	assert.Equal(t, []Outcome{OutcomeRejected, OutcomeRejected, OutcomeNoop, OutcomeNoop, OutcomeNoop}, outcomes)
	assert.Equal(t, frozen, a.View())
	assert.Len(t, a.Disputes(), 2)

	rec, ok := a.Record(1)
	require.True(t, ok)
	assert.Equal(t, TxStateAccepted, rec.State)
}

func TestAccount_DuplicateTransactionIgnored(t *testing.T) {
	t.Parallel()

	a := NewAccount(1)
	outcomes := apply(t, a,
		deposit(1, 1, "2"),
		withdrawal(1, 1, "2"),
		deposit(1, 1, "9"),
	)

	assert.Equal(t, []Outcome{OutcomeAccepted, OutcomeDuplicate, OutcomeDuplicate}, outcomes)
	assertBalances(t, a, "2", "0", false)

	rec, ok := a.Record(1)
	require.True(t, ok)
	assert.Equal(t, TxKindDeposit, rec.Transaction.Kind)
	assert.True(t, dec("2").Equal(rec.Transaction.Amount))
}

func TestAccount_DisputeAfterWithdrawalKeepsAvailableNonNegative(t *testing.T) {
	t.Parallel()

	a := NewAccount(1)
	outcomes := apply(t, a,
		deposit(1, 1, "2"),
		withdrawal(1, 2, "2"),
		action(ActionKindDispute, 1, 1),
	)

	assert.Equal(t, []Outcome{OutcomeAccepted, OutcomeAccepted, OutcomeRejected}, outcomes)
	assertBalances(t, a, "0", "0", false)

	rec, ok := a.Record(1)
	require.True(t, ok)
	assert.Equal(t, TxStateAccepted, rec.State)
}

func TestAccount_ExactDecimalArithmetic(t *testing.T) {
	t.Parallel()

	a := NewAccount(1)
	apply(t, a,
		deposit(1, 1, "0.1"),
		deposit(1, 2, "0.2"),
		withdrawal(1, 3, "0.3"),
	)

	assert.True(t, a.Available().IsZero(), "available = %s", a.Available())
	assert.Equal(t, "0", a.Total().String())
}

func TestAccount_ClientMismatch(t *testing.T) {
	t.Parallel()

	a := NewAccount(1)

	_, err := a.ApplyTransaction(deposit(2, 1, "1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClientMismatch))

	_, err = a.ApplyDisputeAction(action(ActionKindDispute, 2, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClientMismatch))

	assert.Equal(t, 0, a.HistoryLen())
	assert.True(t, a.Available().IsZero())
}

func TestAccount_InvalidKind(t *testing.T) {
	t.Parallel()

	a := NewAccount(1)
	_, err := a.ApplyTransaction(Transaction{Kind: "transfer", Client: 1, ID: 1, Amount: dec("1")})
	assert.True(t, errors.Is(err, ErrInvalidEvent))

	apply(t, a, deposit(1, 2, "1"))
	_, err = a.ApplyDisputeAction(DisputeAction{Kind: "reverse", Client: 1, TxID: 2})
	assert.True(t, errors.Is(err, ErrInvalidEvent))
}

func TestTxStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ACCEPTED", TxStateAccepted.String())
	assert.Equal(t, "CHARGEBACKED", TxStateChargebacked.String())
	assert.Equal(t, "UNKNOWN", TxState(42).String())
}
