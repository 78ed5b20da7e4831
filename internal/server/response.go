// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式：成功回應為 JSON，錯誤回應為 {"error", "kind"}。
// 領域錯誤種類到 HTTP 狀態碼的對應集中於 statusFor。
package server

import (
	"encoding/json"
	"net/http"

	"banking/internal/bank"
)

// accountView 為帳戶對外的 JSON 格式；餘額固定兩位小數字串，避免浮點表示。
type accountView struct {
	ID          bank.ID `json:"id"`
	Name        string  `json:"name"`
	Contact     string  `json:"contact"`
	AccountType string  `json:"account_type"`
	Balance     string  `json:"balance"`
}

func viewOf(d bank.Details) accountView {
	return accountView{
		ID:          d.ID,
		Name:        d.Owner.Name(),
		Contact:     d.Owner.Contact(),
		AccountType: d.AccountType,
		Balance:     bank.FormatAmount(d.Balance),
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeJSON 統一輸出成功回應。
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr 統一輸出錯誤回應；code 為 0 時依錯誤種類決定狀態碼。
func writeErr(w http.ResponseWriter, err error, code int) {
	if code == 0 {
		code = statusFor(err)
	}
	writeJSON(w, code, errorBody{Error: err.Error(), Kind: string(bank.KindOf(err))})
}

// statusFor：
//   - 404 帳戶不存在
//   - 409 餘額不足、信箱重複
//   - 400 其餘驗證錯誤
//   - 500 非領域錯誤
func statusFor(err error) int {
	switch bank.KindOf(err) {
	case bank.KindAccountNotFound:
		return http.StatusNotFound
	case bank.KindInsufficientFunds, bank.KindDuplicateContact:
		return http.StatusConflict
	case "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
