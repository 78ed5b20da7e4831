// internal/storage/yamlseed.go
//
// 讀取 YAML 種子檔，並透過 Bank.CreateAccount 逐筆開帳。
// 開帳走與互動選單、HTTP 相同的入口，因此名稱、信箱、類型、餘額驗證與信箱唯一性都一致適用。
package storage

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"banking/internal/bank"
)

// LoadSeed 讀取指定路徑的種子檔。
func LoadSeed(path string) (Seed, error) {
	var seed Seed
	raw, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("read seed %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return seed, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return seed, nil
}

// Apply 依序建立種子檔中的帳戶並回傳配發的 ID。
// 餘額以原值交給 CreateAccount，四捨五入與負值檢查都由 Bank 處理（-0.004 仍視為負值）。
// 遇到第一筆失敗即停止；已建立的帳戶保留（與逐筆手動開帳的結果相同）。
func Apply(b *bank.Bank, seed Seed) ([]bank.ID, error) {
	ids := make([]bank.ID, 0, len(seed.Accounts))
	for i, sa := range seed.Accounts {
		balance, err := decimal.NewFromString(defaultBalance(sa.Balance))
		if err != nil {
			return ids, fmt.Errorf("accounts[%d].balance %q: %w", i, sa.Balance, err)
		}
		id, err := b.CreateAccount(sa.Name, sa.Contact, sa.Type, balance)
		if err != nil {
			return ids, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func defaultBalance(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
