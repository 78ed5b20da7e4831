// internal/bank/money.go

package bank

import "github.com/shopspring/decimal"

// Places 為金額的小數位數（分）。
const Places = 2

// Round 將金額四捨五入到分，所有異動都先經過此函式，避免誤差累積。
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// FormatAmount 以兩位小數輸出，例如 "70.00"。
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
