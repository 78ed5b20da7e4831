// internal/config/config.go
//
// Package config 讀取命令列工具與 HTTP 服務的執行設定。
// 來源優先順序：BANK_* 環境變數 > 指定目錄下的 .env 檔 > 預設值；每個鍵都有預設值。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 為所有執行設定；mapstructure 標籤即環境變數名稱。
type Config struct {
	HTTPAddr        string        `mapstructure:"BANK_HTTP_ADDR"`
	LogDir          string        `mapstructure:"BANK_LOG_DIR"`
	Debug           bool          `mapstructure:"BANK_DEBUG"`
	SeedFile        string        `mapstructure:"BANK_SEED_FILE"`
	MetricsEnabled  bool          `mapstructure:"BANK_METRICS_ENABLED"`
	ShutdownTimeout time.Duration `mapstructure:"BANK_SHUTDOWN_TIMEOUT"`
}

// keys 需逐一 BindEnv，Unmarshal 才看得到未寫在 .env 中的環境變數。
var keys = []string{
	"BANK_HTTP_ADDR",
	"BANK_LOG_DIR",
	"BANK_DEBUG",
	"BANK_SEED_FILE",
	"BANK_METRICS_ENABLED",
	"BANK_SHUTDOWN_TIMEOUT",
}

// Load 讀取 path 目錄下的 .env（不存在時略過）與環境變數，並套用預設值。
// .env 格式錯誤時回傳錯誤；位址為空或關閉期限非正值時改用預設。
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("BANK_HTTP_ADDR", ":8080")
	v.SetDefault("BANK_LOG_DIR", "")
	v.SetDefault("BANK_DEBUG", false)
	v.SetDefault("BANK_SEED_FILE", "")
	v.SetDefault("BANK_METRICS_ENABLED", true)
	v.SetDefault("BANK_SHUTDOWN_TIMEOUT", "10s")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.HTTPAddr = strings.TrimSpace(cfg.HTTPAddr)
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg, nil
}
