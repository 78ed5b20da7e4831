// internal/bank/account.go
//
// 本檔定義 Account（帳戶）及其存款、提款、轉帳、比較操作，不含任何 HTTP 或儲存細節。
// 金額以 decimal 表示並於每次異動時四捨五入到分，餘額永不為負。

package bank

import (
	"strconv"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/shopspring/decimal"
)

// ID 為帳戶識別碼，由 Bank 單調遞增配發，從 1 開始。
type ID int64

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// Ordering 為兩帳戶餘額的比較結果。
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// lockSeq 為全程序唯一、單調遞增的上鎖順序；
// 經由 Bank 建立的帳戶，其順序與 ID 順序一致（ID 小者先鎖）。
var lockSeq atomic.Uint64

// Account 代表一個帳戶。
// - mu：保護 balance；跨帳戶操作依 order 由小到大上鎖，避免反向轉帳死結。
// - id、owner、accountType、sink 在帳戶交給呼叫端前即固定，之後唯讀。
type Account struct {
	mu          sync.Mutex
	order       uint64
	id          ID
	owner       Identity
	accountType string
	balance     decimal.Decimal
	sink        EventSink
}

// Details 為帳戶的唯讀快照。
type Details struct {
	ID          ID              `json:"id"`
	Owner       Identity        `json:"owner"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewAccount 建立帳戶；帳戶類型需為英數字、初始餘額不得為負。
// 一般呼叫端應透過 Bank.CreateAccount 建立，以取得 ID 並納入信箱唯一性檢查。
func NewAccount(owner Identity, accountType string, initial decimal.Decimal) (*Account, error) {
	if owner.name == "" {
		return nil, fail("account.create", ErrInvalidName, "owner identity is not initialized")
	}
	if !ValidAccountType(accountType) {
		return nil, fail("account.create", ErrInvalidAccountType, "type="+accountType)
	}
	if initial.IsNegative() {
		return nil, fail("account.create", ErrInvalidAmount, "initial balance "+initial.String()+" is negative")
	}
	return &Account{
		order:       lockSeq.Add(1),
		owner:       owner,
		accountType: accountType,
		balance:     Round(initial),
	}, nil
}

// ValidAccountType 回報帳戶類型是否非空且全為字母或數字。
func ValidAccountType(t string) bool {
	if t == "" {
		return false
	}
	for _, r := range t {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (a *Account) ID() ID { return a.id }
func (a *Account) Owner() Identity { return a.owner }
func (a *Account) AccountType() string { return a.accountType }

// Balance 回傳目前餘額。
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Details 回傳帳戶快照，無副作用。
func (a *Account) Details() Details {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Details{ID: a.id, Owner: a.owner, AccountType: a.accountType, Balance: a.balance}
}

// Deposit 存款：四捨五入後的金額需 > 0。
func (a *Account) Deposit(amount decimal.Decimal) error {
	amt := Round(amount)
	if !amt.IsPositive() {
		return fail("account.deposit", ErrInvalidAmount, "amount="+amount.String())
	}
	a.mu.Lock()
	a.balance = a.balance.Add(amt)
	ev := newEvent(EventDeposit, a, amt)
	a.mu.Unlock()

	a.emit(ev)
	return nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額（維持非負）。
func (a *Account) Withdraw(amount decimal.Decimal) error {
	amt := Round(amount)
	if !amt.IsPositive() {
		return fail("account.withdraw", ErrInvalidAmount, "amount="+amount.String())
	}
	a.mu.Lock()
	if a.balance.LessThan(amt) {
		bal := a.balance
		a.mu.Unlock()
		return fail("account.withdraw", ErrInsufficientFunds, "balance="+FormatAmount(bal)+" amount="+FormatAmount(amt))
	}
	a.balance = a.balance.Sub(amt)
	ev := newEvent(EventWithdraw, a, amt)
	a.mu.Unlock()

	a.emit(ev)
	return nil
}

// Transfer 轉帳為單一邏輯操作：先自本帳戶扣款，再存入 target。
// 兩帳戶在同一臨界區內更新；任何失敗都不會改變任一帳戶。
// 存入步驟沒有失敗路徑，因此不需要補償回滾；若日後加入餘額上限，必須一併加上回滾。
func (a *Account) Transfer(amount decimal.Decimal, target *Account) error {
	if target == nil {
		return fail("account.transfer", ErrAccountNotFound, "target account is not valid")
	}
	amt := Round(amount)
	if !amt.IsPositive() {
		return fail("account.transfer", ErrInvalidAmount, "amount="+amount.String())
	}

	unlock := lockPair(a, target)
	if a.balance.LessThan(amt) {
		bal := a.balance
		unlock()
		return fail("account.transfer", ErrInsufficientFunds, "balance="+FormatAmount(bal)+" amount="+FormatAmount(amt))
	}
	a.balance = a.balance.Sub(amt)
	target.balance = target.balance.Add(amt)

	ev := newEvent(EventTransfer, a, amt)
	ev.Counterparty = target.id
	ev.CounterpartyBalance = target.balance
	unlock()

	a.emit(ev)
	return nil
}

// CompareBalance 以分為單位比較兩帳戶餘額。
func (a *Account) CompareBalance(other *Account) (Ordering, error) {
	if other == nil {
		return Equal, fail("account.compare", ErrAccountNotFound, "comparison account is not valid")
	}
	unlock := lockPair(a, other)
	defer unlock()
	return Ordering(Round(a.balance).Cmp(Round(other.balance))), nil
}

func (a *Account) emit(ev Event) {
	if a.sink != nil {
		a.sink(ev)
	}
}

// lockPair 依 order 由小到大鎖住兩帳戶；同一帳戶只鎖一次。
func lockPair(x, y *Account) (unlock func()) {
	if x == y {
		x.mu.Lock()
		return x.mu.Unlock
	}
	first, second := x, y
	if second.order < first.order {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
