// internal/storage/model.go
//
// 定義開帳種子檔 (seed fixture) 的結構。
// 種子檔只在程式啟動時讀取，用來預先建立帳戶；系統不會把狀態寫回檔案。
package storage

// SeedAccount 為種子檔中的一筆帳戶。
// Balance 以字串保存，交由 decimal 解析，避免 YAML 浮點誤差。
type SeedAccount struct {
	Name    string `yaml:"name"`
	Contact string `yaml:"contact"`
	Type    string `yaml:"type"`
	Balance string `yaml:"balance"`
}

// Seed 為整份種子檔。
type Seed struct {
	Accounts []SeedAccount `yaml:"accounts"`
}
