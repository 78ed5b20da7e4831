// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 哨兵錯誤 (sentinel) 供 errors.Is 比對；OpError 另外攜帶操作名稱與錯誤種類，
// 由上層（HTTP handler、互動選單）轉換成狀態碼或提示訊息。

package bank

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName 代表持有人名稱為空或含非字母字元。
	ErrInvalidName = errors.New("name must contain only letters")

	// ErrInvalidContact 代表聯絡信箱格式不正確。
	ErrInvalidContact = errors.New("invalid email address")

	// ErrDuplicateContact 代表信箱已被其他帳戶使用。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrDuplicateContact = errors.New("email is already in use")

	// ErrInvalidAccountType 代表帳戶類型為空或含非英數字元。
	ErrInvalidAccountType = errors.New("account type must contain only letters and numbers")

	// ErrInvalidAmount 代表金額非法（存提轉 <= 0，或初始餘額為負）。
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds 代表餘額不足。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrAccountNotFound 代表帳戶不存在。
	// 對應 HTTP 狀態碼 404 Not Found。
	ErrAccountNotFound = errors.New("account not found")
)

// Kind 為錯誤的粗粒度分類。
type Kind string

const (
	KindInvalidName        Kind = "invalid_name"
	KindInvalidContact     Kind = "invalid_contact"
	KindDuplicateContact   Kind = "duplicate_contact"
	KindInvalidAccountType Kind = "invalid_account_type"
	KindInvalidAmount      Kind = "invalid_amount"
	KindInsufficientFunds  Kind = "insufficient_funds"
	KindAccountNotFound    Kind = "account_not_found"
)

var kindOfSentinel = map[error]Kind{
	ErrInvalidName:        KindInvalidName,
	ErrInvalidContact:     KindInvalidContact,
	ErrDuplicateContact:   KindDuplicateContact,
	ErrInvalidAccountType: KindInvalidAccountType,
	ErrInvalidAmount:      KindInvalidAmount,
	ErrInsufficientFunds:  KindInsufficientFunds,
	ErrAccountNotFound:    KindAccountNotFound,
}

// OpError 包裝哨兵錯誤，附上發生的操作 (Op) 與細節 (Detail)。
type OpError struct {
	Op     string
	Kind   Kind
	Detail string
	Err    error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// fail 建立 OpError；Kind 由哨兵錯誤推得，避免兩者不一致。
func fail(op string, sentinel error, detail string) error {
	return &OpError{Op: op, Kind: kindOfSentinel[sentinel], Detail: detail, Err: sentinel}
}

// KindOf 回傳 err 的錯誤種類；非領域錯誤回傳空字串。
func KindOf(err error) Kind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	for sentinel, k := range kindOfSentinel {
		if errors.Is(err, sentinel) {
			return k
		}
	}
	return ""
}

// IsKind 讓呼叫端不必依賴具體錯誤型別即可分類。
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
