// internal/bank/bank_test.go
//
// 本檔為 Bank 模組的單元與整合測試。
// 覆蓋：帳戶建立、信箱唯一性、存提款、轉帳（含失敗不變）、比較、列舉與高併發原子性。
// 所有測試皆為 in-memory 執行，不依賴外部服務。

package bank

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// open 為小工具：建立帳戶並取回操作把手。
func open(t *testing.T, b *Bank, name, contact, balance string) *Account {
	t.Helper()
	id, err := b.CreateAccount(name, contact, "Savings", dec(balance))
	require.NoError(t, err)
	a, err := b.Account(id)
	require.NoError(t, err)
	return a
}

func requireBalance(t *testing.T, a *Account, want string) {
	t.Helper()
	assert.True(t, a.Balance().Equal(dec(want)), "balance=%s want=%s", FormatAmount(a.Balance()), want)
}

func TestCreateAccountAssignsSequentialIDs(t *testing.T) {
	b := NewBank()

	id1, err := b.CreateAccount("Alice", "alice@example.com", "Savings", dec("100"))
	require.NoError(t, err)
	id2, err := b.CreateAccount("Bob", "bob@example.com", "Checking1", decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, ID(1), id1)
	assert.Equal(t, ID(2), id2)
	assert.Equal(t, 2, b.Len())

	a, err := b.Account(id1)
	require.NoError(t, err)
	d := a.Details()
	assert.Equal(t, id1, d.ID)
	assert.Equal(t, "Alice", d.Owner.Name())
	assert.Equal(t, "alice@example.com", d.Owner.Contact())
	assert.Equal(t, "Savings", d.AccountType)
	assert.Equal(t, "100.00", FormatAmount(d.Balance))
}

func TestCreateAccountRoundsInitialBalance(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "10.005")
	requireBalance(t, a, "10.01")
}

func TestCreateAccountDuplicateContact(t *testing.T) {
	b := NewBank()
	open(t, b, "Alice", "alice@example.com", "10")

	_, err := b.CreateAccount("Alicia", "alice@example.com", "Savings", dec("5"))
	require.ErrorIs(t, err, ErrDuplicateContact)
	assert.True(t, IsKind(err, KindDuplicateContact))
	assert.Equal(t, 1, b.Len())

	// 計數器未前進：下一個成功建立的帳戶為 2。
	id, err := b.CreateAccount("Bob", "bob@example.com", "Savings", dec("5"))
	require.NoError(t, err)
	assert.Equal(t, ID(2), id)
}

func TestCreateAccountValidationLeavesNoState(t *testing.T) {
	cases := []struct {
		name     string
		holder   string
		contact  string
		acctType string
		balance  string
		want     error
	}{
		{"invalid contact", "John", "not-an-email", "Savings", "10.00", ErrInvalidContact},
		{"contact without dot label", "John", "john@example", "Savings", "10", ErrInvalidContact},
		{"empty name", "", "john@example.com", "Savings", "10", ErrInvalidName},
		{"name with digits", "John2", "john@example.com", "Savings", "10", ErrInvalidName},
		{"name with space", "John Smith", "john@example.com", "Savings", "10", ErrInvalidName},
		{"empty type", "John", "john@example.com", "", "10", ErrInvalidAccountType},
		{"type with dash", "John", "john@example.com", "Sav-ings", "10", ErrInvalidAccountType},
		{"negative balance", "John", "john@example.com", "Savings", "-0.01", ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBank()
			_, err := b.CreateAccount(tc.holder, tc.contact, tc.acctType, dec(tc.balance))
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, 0, b.Len())
			assert.False(t, b.ContactInUse(tc.contact))

			id, err := b.CreateAccount("Valid", "valid@example.com", "Savings", decimal.Zero)
			require.NoError(t, err)
			assert.Equal(t, ID(1), id, "identifier counter must not advance on failure")
		})
	}
}

func TestAccountNotFound(t *testing.T) {
	b := NewBank()
	_, err := b.Account(42)
	require.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, KindAccountNotFound, KindOf(err))
}

func TestDepositWithdraw(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "100")

	require.NoError(t, a.Deposit(dec("50.255")))
	requireBalance(t, a, "150.26")
	require.NoError(t, a.Withdraw(dec("30")))
	requireBalance(t, a, "120.26")

	for _, amt := range []string{"0", "-1", "0.004"} {
		require.ErrorIs(t, a.Deposit(dec(amt)), ErrInvalidAmount, "deposit %s", amt)
		require.ErrorIs(t, a.Withdraw(dec(amt)), ErrInvalidAmount, "withdraw %s", amt)
	}
	requireBalance(t, a, "120.26")
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "70.00")

	err := a.Withdraw(dec("1000.00"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, KindInsufficientFunds, KindOf(err))
	requireBalance(t, a, "70.00")

	require.NoError(t, a.Withdraw(dec("70.00")))
	requireBalance(t, a, "0")
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "12.34")

	for _, amt := range []string{"0.01", "1", "99.99", "12.34", "1000000.5"} {
		before := a.Balance()
		require.NoError(t, a.Deposit(dec(amt)))
		require.NoError(t, a.Withdraw(dec(amt)))
		assert.True(t, before.Equal(a.Balance()), "round trip of %s changed balance", amt)
	}
}

func TestTransfer(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "100.00")
	c := open(t, b, "Bob", "bob@example.com", "50.00")

	require.NoError(t, a.Transfer(dec("30.00"), c))
	requireBalance(t, a, "70.00")
	requireBalance(t, c, "80.00")
}

func TestTransferFailureLeavesBothUntouched(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "70.00")
	c := open(t, b, "Bob", "bob@example.com", "80.00")

	require.ErrorIs(t, a.Transfer(dec("70.01"), c), ErrInsufficientFunds)
	require.ErrorIs(t, a.Transfer(dec("0"), c), ErrInvalidAmount)
	require.ErrorIs(t, a.Transfer(dec("-5"), c), ErrInvalidAmount)
	require.ErrorIs(t, a.Transfer(dec("5"), nil), ErrAccountNotFound)

	requireBalance(t, a, "70.00")
	requireBalance(t, c, "80.00")
}

func TestTransferPreservesSum(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "250.75")
	c := open(t, b, "Bob", "bob@example.com", "10.10")
	total := a.Balance().Add(c.Balance())

	for _, amt := range []string{"0.01", "100", "150.74", "5"} {
		_ = a.Transfer(dec(amt), c)
		assert.True(t, total.Equal(a.Balance().Add(c.Balance())))
		assert.False(t, a.Balance().IsNegative())
	}
}

func TestTransferToSelfIsNoop(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "10")

	require.NoError(t, a.Transfer(dec("10"), a))
	requireBalance(t, a, "10")
	require.ErrorIs(t, a.Transfer(dec("10.01"), a), ErrInsufficientFunds)
}

func TestCompareBalance(t *testing.T) {
	b := NewBank()
	rich := open(t, b, "Alice", "alice@example.com", "100.00")
	poor := open(t, b, "Bob", "bob@example.com", "99.99")
	same := open(t, b, "Carol", "carol@example.com", "100.001")

	cases := []struct {
		x, y *Account
		want Ordering
	}{
		{rich, poor, Greater},
		{poor, rich, Less},
		{rich, same, Equal},
		{same, rich, Equal},
		{rich, rich, Equal},
		{poor, same, Less},
	}
	for _, tc := range cases {
		got, err := tc.x.CompareBalance(tc.y)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s vs %s", tc.x.Owner().Name(), tc.y.Owner().Name())
	}

	_, err := rich.CompareBalance(nil)
	require.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, "greater", Greater.String())
}

func TestListInIdentifierOrderAndRestartable(t *testing.T) {
	b := NewBank()
	for _, who := range []string{"Ann", "Ben", "Cat", "Dan"} {
		open(t, b, who, who+"@example.com", "1")
	}

	collect := func() []ID {
		var ids []ID
		for id, d := range b.List() {
			assert.Equal(t, id, d.ID)
			ids = append(ids, id)
		}
		return ids
	}
	assert.Equal(t, []ID{1, 2, 3, 4}, collect())
	assert.Equal(t, []ID{1, 2, 3, 4}, collect())

	var first []ID
	for id := range b.List() {
		first = append(first, id)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []ID{1, 2}, first)
}

func TestEventSinkReceivesNewBalances(t *testing.T) {
	var events []Event
	b := NewBank(WithEventSink(func(ev Event) { events = append(events, ev) }))
	a := open(t, b, "Alice", "alice@example.com", "100")
	c := open(t, b, "Bob", "bob@example.com", "0")

	require.NoError(t, a.Deposit(dec("5")))
	require.NoError(t, a.Withdraw(dec("10")))
	require.NoError(t, a.Transfer(dec("20"), c))
	require.Error(t, a.Withdraw(dec("1000")))

	require.Len(t, events, 5)
	assert.Equal(t, EventOpened, events[0].Kind)
	assert.Equal(t, EventDeposit, events[2].Kind)
	assert.Equal(t, "105.00", FormatAmount(events[2].Balance))
	assert.Equal(t, EventWithdraw, events[3].Kind)
	assert.Equal(t, "95.00", FormatAmount(events[3].Balance))

	tr := events[4]
	assert.Equal(t, EventTransfer, tr.Kind)
	assert.Equal(t, a.ID(), tr.AccountID)
	assert.Equal(t, c.ID(), tr.Counterparty)
	assert.Equal(t, "75.00", FormatAmount(tr.Balance))
	assert.Equal(t, "20.00", FormatAmount(tr.CounterpartyBalance))
	assert.NotEqual(t, events[3].ID, tr.ID)
}

// TestConcurrentTransfersAtomicity 模擬雙方帳戶各 200 次交互轉帳，總額應不變且皆非負，且不會死結。
func TestConcurrentTransfersAtomicity(t *testing.T) {
	b := NewBank()
	a1 := open(t, b, "Alice", "alice@example.com", "1000")
	a2 := open(t, b, "Bob", "bob@example.com", "1000")

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, a1.Transfer(dec("1.25"), a2))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, a2.Transfer(dec("1.25"), a1))
		}()
	}
	wg.Wait()

	assert.False(t, a1.Balance().IsNegative())
	assert.False(t, a2.Balance().IsNegative())
	assert.Equal(t, "2000.00", FormatAmount(a1.Balance().Add(a2.Balance())))
}

func TestConcurrentCreateKeepsContactsUnique(t *testing.T) {
	b := NewBank()
	const workers = 50

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := b.CreateAccount("Same", "same@example.com", "Savings", dec("1"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else if IsKind(err, KindDuplicateContact) {
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, workers-1, dups)
	assert.Equal(t, 1, b.Len())
}

func TestConcurrentDepositsRaceSafety(t *testing.T) {
	b := NewBank()
	a := open(t, b, "Alice", "alice@example.com", "0")

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, a.Deposit(dec("0.10")))
		}()
	}
	wg.Wait()

	requireBalance(t, a, "10.00")
}
