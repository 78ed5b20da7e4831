// internal/cli/menu.go
//
// 互動式文字選單：逐行讀取輸入，格式不符時重新詢問，通過後才交給 Bank。
// Bank 回傳的領域錯誤轉成提示句後繼續選單迴圈；輸入結束 (EOF) 視為正常離開。

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"banking/internal/bank"
)

// errInputClosed 代表輸入串流已結束。
var errInputClosed = errors.New("input closed")

// Menu 為文字選單。
// - in/out：輸入掃描器與輸出；樣式以 out 建立 renderer，非終端機時不輸出色碼。
// - log：記錄被拒絕的操作，不寫到畫面。
type Menu struct {
	bank *bank.Bank
	in   *bufio.Scanner
	out  io.Writer
	log  *slog.Logger

	title lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
}

// NewMenu 建立選單；log 為 nil 時丟棄日誌。
func NewMenu(b *bank.Bank, in io.Reader, out io.Writer, log *slog.Logger) *Menu {
	r := lipgloss.NewRenderer(out)
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Menu{
		bank:  b,
		in:    bufio.NewScanner(in),
		out:   out,
		log:   log,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		info:  r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Run 反覆顯示選單，直到使用者選擇離開或輸入結束。
func (m *Menu) Run() error {
	for {
		m.printMenu()
		choice, err := m.readLine("Enter your choice: ")
		if err != nil {
			return m.closed(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = m.createAccount()
		case "2":
			m.listAccounts()
		case "3":
			err = m.deposit()
		case "4":
			err = m.withdraw()
		case "5":
			err = m.transfer()
		case "6":
			err = m.compare()
		case "7":
			m.say("Exiting the Banking System.")
			return nil
		default:
			m.fail("Invalid choice. Please try again.")
		}
		if err != nil {
			return m.closed(err)
		}
	}
}

func (m *Menu) closed(err error) error {
	if errors.Is(err, errInputClosed) {
		m.log.Info("menu.input_closed")
		return nil
	}
	return err
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.title.Render("--- Banking System ---"))
	for i, item := range []string{
		"Create Account",
		"View Account Details",
		"Deposit Money",
		"Withdraw Money",
		"Transfer Money",
		"Compare Balances",
		"Exit",
	} {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, item)
	}
}

func (m *Menu) createAccount() error {
	name, err := m.ask("Enter account holder name: ", bank.ValidName)
	if err != nil {
		return err
	}
	contact, err := m.askContact()
	if err != nil {
		return err
	}
	acctType, err := m.ask("Enter account type (letters and numbers only): ", bank.ValidAccountType)
	if err != nil {
		return err
	}
	initial, err := m.askAmount("Enter initial balance: ")
	if err != nil {
		return err
	}

	id, err := m.bank.CreateAccount(name, contact, acctType, initial)
	if err != nil {
		m.reject(err)
		return nil
	}
	m.say(fmt.Sprintf("Account created for %s with ID %d and balance $%s", name, id, bank.FormatAmount(initial)))
	return nil
}

// askContact 詢問信箱；已被使用時立即提示並重新詢問，不必等到填完所有欄位。
// CreateAccount 仍會再檢查一次，同時開帳的情況由 Bank 把關。
func (m *Menu) askContact() (string, error) {
	for {
		contact, err := m.ask("Enter contact info (valid email): ", bank.ValidContact)
		if err != nil {
			return "", err
		}
		if !m.bank.ContactInUse(contact) {
			return contact, nil
		}
		m.fail(userMessage(bank.ErrDuplicateContact))
	}
}

func (m *Menu) listAccounts() {
	n := 0
	for id, d := range m.bank.List() {
		n++
		fmt.Fprintf(m.out, "\nAccount ID: %d\n", id)
		fmt.Fprintf(m.out, "Account Holder: %s\n", d.Owner.Name())
		fmt.Fprintf(m.out, "Account Type: %s\n", d.AccountType)
		fmt.Fprintf(m.out, "Balance: $%s\n", bank.FormatAmount(d.Balance))
	}
	if n == 0 {
		m.fail("No accounts available.")
	}
}

func (m *Menu) deposit() error {
	return m.single("Enter amount to deposit: ", func(a *bank.Account, amt decimal.Decimal) (string, error) {
		if err := a.Deposit(amt); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deposited $%s. New balance: $%s", bank.FormatAmount(amt), bank.FormatAmount(a.Balance())), nil
	})
}

func (m *Menu) withdraw() error {
	return m.single("Enter amount to withdraw: ", func(a *bank.Account, amt decimal.Decimal) (string, error) {
		if err := a.Withdraw(amt); err != nil {
			return "", err
		}
		return fmt.Sprintf("Withdrew $%s. New balance: $%s", bank.FormatAmount(amt), bank.FormatAmount(a.Balance())), nil
	})
}

func (m *Menu) single(prompt string, op func(*bank.Account, decimal.Decimal) (string, error)) error {
	id, err := m.askID("Enter account ID: ")
	if err != nil {
		return err
	}
	a, err := m.bank.Account(id)
	if err != nil {
		m.fail("Account not found.")
		return nil
	}
	amt, err := m.askAmount(prompt)
	if err != nil {
		return err
	}
	msg, err := op(a, amt)
	if err != nil {
		m.reject(err)
		return nil
	}
	m.say(msg)
	return nil
}

func (m *Menu) transfer() error {
	from, to, ok, err := m.pair("Enter your account ID: ", "Enter target account ID: ")
	if err != nil || !ok {
		return err
	}
	amt, err := m.askAmount("Enter amount to transfer: ")
	if err != nil {
		return err
	}
	if err := from.Transfer(amt, to); err != nil {
		m.reject(err)
		return nil
	}
	m.say(fmt.Sprintf("Transferred $%s to %s. Your new balance: $%s",
		bank.FormatAmount(amt), to.Owner().Name(), bank.FormatAmount(from.Balance())))
	return nil
}

func (m *Menu) compare() error {
	first, second, ok, err := m.pair("Enter first account ID: ", "Enter second account ID: ")
	if err != nil || !ok {
		return err
	}
	ord, err := first.CompareBalance(second)
	if err != nil {
		m.reject(err)
		return nil
	}
	phrase := map[bank.Ordering]string{
		bank.Greater: "larger than",
		bank.Less:    "smaller than",
		bank.Equal:   "equal to",
	}[ord]
	m.say(fmt.Sprintf("The first account is %s the second account.", phrase))
	return nil
}

// pair 讀取兩個帳戶 ID；任一帳戶不存在時 ok 為 false。
func (m *Menu) pair(p1, p2 string) (*bank.Account, *bank.Account, bool, error) {
	id1, err := m.askID(p1)
	if err != nil {
		return nil, nil, false, err
	}
	id2, err := m.askID(p2)
	if err != nil {
		return nil, nil, false, err
	}
	a1, err1 := m.bank.Account(id1)
	a2, err2 := m.bank.Account(id2)
	if err1 != nil || err2 != nil {
		m.fail("One or both accounts not found.")
		return nil, nil, false, nil
	}
	return a1, a2, true, nil
}

func (m *Menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(m.out)
		return "", errInputClosed
	}
	return m.in.Text(), nil
}

// ask 去除前後空白後交給 valid 檢查，不通過就重新詢問。
func (m *Menu) ask(prompt string, valid func(string) bool) (string, error) {
	for {
		line, err := m.readLine(prompt)
		if err != nil {
			return "", err
		}
		v := strings.TrimSpace(line)
		if valid(v) {
			return v, nil
		}
		m.fail("Invalid input. Please try again.")
	}
}

// askAmount 接受非負的十進位金額；是否 > 0 交由 Bank 判斷。
func (m *Menu) askAmount(prompt string) (decimal.Decimal, error) {
	s, err := m.ask(prompt, func(s string) bool {
		d, err := decimal.NewFromString(s)
		return err == nil && !d.IsNegative()
	})
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.RequireFromString(s), nil
}

func (m *Menu) askID(prompt string) (bank.ID, error) {
	s, err := m.ask(prompt, validID)
	if err != nil {
		return 0, err
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return bank.ID(n), nil
}

// validID 只接受 int64 範圍內的純數字。
func validID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func (m *Menu) say(msg string) {
	fmt.Fprintln(m.out, m.info.Render(msg))
}

func (m *Menu) fail(msg string) {
	fmt.Fprintln(m.out, m.warn.Render(msg))
}

func (m *Menu) reject(err error) {
	m.log.Warn("menu.rejected", "kind", string(bank.KindOf(err)), "err", err)
	m.fail(userMessage(err))
}

// userMessage 將領域錯誤轉成提示句；未列出的種類直接顯示錯誤內容。
func userMessage(err error) string {
	switch bank.KindOf(err) {
	case bank.KindDuplicateContact:
		return "This email is already in use. Please use a different email."
	case bank.KindInsufficientFunds:
		return "Insufficient balance."
	case bank.KindInvalidAmount:
		return "Amount must be greater than zero."
	case bank.KindAccountNotFound:
		return "Account not found."
	default:
		return err.Error()
	}
}
