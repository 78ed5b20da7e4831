// internal/bank/event.go
//
// 帳戶異動後產生的資訊事件。核心本身不寫日誌，
// 事件交給呼叫端注入的 EventSink（選單、HTTP 層、metrics）自行記錄或顯示。

package bank

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind 標示事件類型。
type EventKind string

const (
	EventOpened   EventKind = "opened"
	EventDeposit  EventKind = "deposit"
	EventWithdraw EventKind = "withdraw"
	EventTransfer EventKind = "transfer"
)

// Event 描述一次成功異動後的新餘額。
// Transfer 事件的 Counterparty / CounterpartyBalance 為目標帳戶的資訊。
type Event struct {
	ID                  uuid.UUID
	Kind                EventKind
	AccountID           ID
	Owner               string
	Amount              decimal.Decimal
	Balance             decimal.Decimal
	Counterparty        ID
	CounterpartyBalance decimal.Decimal
	At                  time.Time
}

// EventSink 接收事件；於鎖釋放後呼叫，可安全地回頭讀取帳戶。
type EventSink func(Event)

func newEvent(kind EventKind, a *Account, amount decimal.Decimal) Event {
	return Event{
		ID:        uuid.New(),
		Kind:      kind,
		AccountID: a.id,
		Owner:     a.owner.name,
		Amount:    amount,
		Balance:   a.balance,
		At:        time.Now(),
	}
}
