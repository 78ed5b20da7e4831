// internal/cli/menu_test.go
//
// 以腳本化輸入驅動互動選單，驗證提示訊息與帳戶狀態。
package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banking/internal/bank"
)

func runScript(t *testing.T, b *bank.Bank, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, NewMenu(b, in, &out, nil).Run())
	return out.String()
}

func TestMenuSession(t *testing.T) {
	b := bank.NewBank()
	out := runScript(t, b,
		"1", "John", "not-an-email", "john@example.com", "Savings", "100",
		"1", "Jane", "jane@example.com", "Checking", "50",
		"5", "1", "2", "30",
		"4", "1", "1000",
		"6", "1", "2",
		"2",
		"9",
		"7",
	)

	assert.Contains(t, out, "--- Banking System ---")
	assert.Contains(t, out, "Invalid input. Please try again.")
	assert.Contains(t, out, "Account created for John with ID 1 and balance $100.00")
	assert.Contains(t, out, "Account created for Jane with ID 2 and balance $50.00")
	assert.Contains(t, out, "Transferred $30.00 to Jane. Your new balance: $70.00")
	assert.Contains(t, out, "Insufficient balance.")
	assert.Contains(t, out, "The first account is smaller than the second account.")
	assert.Contains(t, out, "Account Holder: Jane")
	assert.Contains(t, out, "Balance: $80.00")
	assert.Contains(t, out, "Invalid choice. Please try again.")
	assert.Contains(t, out, "Exiting the Banking System.")

	a, err := b.Account(1)
	require.NoError(t, err)
	assert.Equal(t, "70.00", bank.FormatAmount(a.Balance()))
}

func TestMenuRejectsDuplicateEmail(t *testing.T) {
	b := bank.NewBank()
	out := runScript(t, b,
		"1", "John", "john@example.com", "Savings", "1",
		"1", "Johnny", "john@example.com", "johnny@example.com", "Savings", "1",
		"7",
	)
	assert.Equal(t, 1, strings.Count(out, "This email is already in use. Please use a different email."))
	assert.Contains(t, out, "Account created for Johnny with ID 2 and balance $1.00")
	assert.Equal(t, 2, b.Len())

	a, err := b.Account(2)
	require.NoError(t, err)
	assert.Equal(t, "johnny@example.com", a.Owner().Contact())
}

func TestMenuDepositAndWithdraw(t *testing.T) {
	b := bank.NewBank()
	_, err := b.CreateAccount("John", "john@example.com", "Savings", decimal.NewFromInt(10))
	require.NoError(t, err)

	out := runScript(t, b,
		"3", "1", "-5", "abc", "5.5",
		"4", "1", "0",
		"4", "1", "2.25",
		"3", "9",
		"6", "1", "9",
		"7",
	)
	assert.Contains(t, out, "Deposited $5.50. New balance: $15.50")
	assert.Contains(t, out, "Amount must be greater than zero.")
	assert.Contains(t, out, "Withdrew $2.25. New balance: $13.25")
	assert.Contains(t, out, "Account not found.")
	assert.Contains(t, out, "One or both accounts not found.")
	assert.Equal(t, 2, strings.Count(out, "Invalid input. Please try again."))
}

func TestMenuEmptyListAndEOF(t *testing.T) {
	var out bytes.Buffer
	err := NewMenu(bank.NewBank(), strings.NewReader("2\n3\n"), &out, nil).Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No accounts available.")
	assert.Contains(t, out.String(), "Enter account ID: ")
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("12"))
	assert.False(t, validID(""))
	assert.False(t, validID("-1"))
	assert.False(t, validID("1a"))
	assert.False(t, validID("99999999999999999999"))
}
