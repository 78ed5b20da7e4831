// internal/logger/logger.go
//
// Package logger 提供全程序共用的結構化日誌 (slog, JSON 格式)。
// 互動選單時寫入 Dir/bank.log，讓終端機只顯示選單；HTTP 服務時寫到 stderr。
// 時間一律以 UTC RFC3339Nano 輸出。
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 決定日誌輸出位置。
// - Dir：非空時附加寫入 Dir/bank.log。
// - Out：Dir 為空時的輸出目標；nil 代表 stderr。
// - Debug：開啟 Debug 等級並附上呼叫位置。
type Config struct {
	Dir   string
	Debug bool
	Out   io.Writer
}

// 全域 logger 狀態；Setup 與 cleanup 之間由 mu 保護。
var (
	mu      sync.RWMutex
	global  = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile *os.File
	logPath string
)

// Setup 依 cfg 建立全域 logger，回傳的 cleanup 會關閉日誌檔並恢復為丟棄模式。
// 建立目錄或開檔失敗時，全域 logger 維持丟棄模式並回傳錯誤。
func Setup(cfg Config) (func() error, error) {
	var w io.Writer
	var f *os.File
	path := ""

	if cfg.Dir != "" {
		dir := filepath.Clean(cfg.Dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			setDiscard()
			return nil, err
		}
		path = filepath.Join(dir, "bank.log")
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			setDiscard()
			return nil, err
		}
		w = f
	} else {
		w = cfg.Out
		if w == nil {
			w = os.Stderr
		}
	}

	level := slog.LevelInfo
	addSource := false
	if cfg.Debug {
		level = slog.LevelDebug
		addSource = true
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})

	l := slog.New(h)

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	mu.Unlock()

	l.Debug("logger.initialized", "path", path, "debug", cfg.Debug)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		global = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return cerr
	}

	return cleanup, nil
}

// L 回傳目前的全域 logger；尚未 Setup 時為丟棄模式，可安全呼叫。
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path 回傳目前的日誌檔路徑；寫到串流時為空字串。
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func setDiscard() {
	mu.Lock()
	defer mu.Unlock()
	global = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile = nil
	logPath = ""
}
