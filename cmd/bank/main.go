// cmd/bank/main.go

// 本程式為記憶體內銀行帳本：預設啟動互動選單，`serve` 子命令提供 HTTP API，
// `records` 子命令讀取病患 CSV 匯出檔。
// 設定來自 BANK_* 環境變數；開發時可放一個 .env 檔。
package main

import (
	"github.com/joho/godotenv"

	"banking/internal/cli"
)

func main() {
	// 載入 .env（若存在）；不存在時直接使用環境變數
	_ = godotenv.Load()
	cli.Execute()
}
