// internal/bank/bank.go

// Package bank 定義核心商業邏輯：帳戶建立、查詢、列舉，以及信箱唯一性。
// Bank 為聚合根，本身不做任何餘額運算；存提轉與比較皆在取得的 *Account 上進行。
// 帳戶索引、已用信箱集合與 nextID 以單一 RWMutex 保護，可安全地由多個 goroutine 共用。
package bank

import (
	"iter"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Bank 為聚合根 (Aggregate Root)：管理全系統帳戶。
// - mu：序列化建立帳戶時的「檢查信箱 → 配發 ID → 寫入」流程。
// - nextID：從 1 開始單調遞增，失敗時不前進，ID 永不重用。
// - contacts：已註冊信箱，每個信箱恰對應一個帳戶持有人。
type Bank struct {
	mu       sync.RWMutex
	nextID   ID
	accts    map[ID]*Account
	contacts map[string]struct{}
	sink     EventSink
}

// Option 調整 Bank 的建立參數。
type Option func(*Bank)

// WithEventSink 指定帳戶異動事件的接收者（日誌、metrics、畫面輸出）。
func WithEventSink(sink EventSink) Option {
	return func(b *Bank) { b.sink = sink }
}

// NewBank 建立空白銀行實例（僅就緒的 in-memory 狀態，無外部依賴）。
func NewBank(opts ...Option) *Bank {
	b := &Bank{
		nextID:   1,
		accts:    make(map[ID]*Account),
		contacts: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateAccount 建立帳戶並回傳新 ID。
// 先檢查信箱是否重複（失敗時不建立任何物件），再依序建立 Identity 與 Account；
// 任一驗證失敗時，帳戶表、信箱集合與 nextID 皆維持不變。
func (b *Bank) CreateAccount(name, contact, accountType string, initial decimal.Decimal) (ID, error) {
	b.mu.Lock()
	if _, used := b.contacts[contact]; used {
		b.mu.Unlock()
		return 0, fail("bank.create_account", ErrDuplicateContact, "contact="+contact)
	}
	owner, err := NewIdentity(name, contact)
	if err != nil {
		b.mu.Unlock()
		return 0, err
	}
	a, err := NewAccount(owner, accountType, initial)
	if err != nil {
		b.mu.Unlock()
		return 0, err
	}

	id := b.nextID
	b.nextID++
	a.id = id
	a.sink = b.sink
	b.accts[id] = a
	b.contacts[contact] = struct{}{}
	ev := newEvent(EventOpened, a, a.balance)
	b.mu.Unlock()

	a.emit(ev)
	return id, nil
}

// Account 依 ID 取得帳戶操作把手；若不存在回傳 ErrAccountNotFound。
func (b *Bank) Account(id ID) (*Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.accts[id]
	if !ok {
		return nil, fail("bank.get_account", ErrAccountNotFound, "id="+id.String())
	}
	return a, nil
}

// List 以 ID 遞增順序列舉帳戶快照。
// 回傳的序列為惰性且可重複迭代：每次迭代重新取得 ID 清單，逐筆讀取最新狀態。
func (b *Bank) List() iter.Seq2[ID, Details] {
	return func(yield func(ID, Details) bool) {
		b.mu.RLock()
		ids := make([]ID, 0, len(b.accts))
		for id := range b.accts {
			ids = append(ids, id)
		}
		b.mu.RUnlock()
		slices.Sort(ids)

		for _, id := range ids {
			a, err := b.Account(id)
			if err != nil {
				continue
			}
			if !yield(id, a.Details()) {
				return
			}
		}
	}
}

// Len 回傳目前帳戶數。
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.accts)
}

// ContactInUse 回報信箱是否已被註冊；互動選單用於提早提示。
func (b *Bank) ContactInUse(contact string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, used := b.contacts[contact]
	return used
}
