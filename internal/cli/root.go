// internal/cli/root.go
//
// Package cli 組裝命令列工具：預設子命令為互動選單，另有 serve（HTTP API）與 records（CSV 讀取）。
// 所有子命令共用 setup：讀設定 → 套用旗標覆寫 → 啟動日誌 → 建立 metrics 與 Bank → 載入種子檔。
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"banking/internal/bank"
	"banking/internal/config"
	"banking/internal/logger"
	"banking/internal/metrics"
	"banking/internal/storage"
)

// Execute 執行根命令；失敗時以狀態碼 1 結束（錯誤訊息已由 cobra 印出）。
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootFlags 為各子命令共用的持久旗標；只有使用者明確指定的旗標才會覆寫設定。
type rootFlags struct {
	debug  bool
	logDir string
	seed   string
	envDir string
}

// app 為 setup 完成後子命令所需的一切。
type app struct {
	cfg      config.Config
	log      *slog.Logger
	bank     *bank.Bank
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	cleanup  func() error
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:          "bank",
		Short:        "In-memory bank ledger with an interactive menu and an HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, &f)
		},
	}

	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&f.logDir, "log-dir", "", "write logs to DIR/bank.log (overrides BANK_LOG_DIR)")
	cmd.PersistentFlags().StringVar(&f.seed, "seed", "", "YAML file of accounts to open at start-up (overrides BANK_SEED_FILE)")
	cmd.PersistentFlags().StringVar(&f.envDir, "env-dir", ".", "directory containing an optional .env file")

	cmd.AddCommand(newMenuCmd(&f), newServeCmd(&f), newRecordsCmd())
	return cmd
}

func newMenuCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive banking menu (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, f)
		},
	}
}

// runMenu 啟動互動選單；日誌預設寫入 .bank/logs，並在畫面上告知檔案位置。
func runMenu(cmd *cobra.Command, f *rootFlags) error {
	a, err := setup(cmd, f, filepath.Join(".bank", "logs"))
	if err != nil {
		return err
	}
	defer func() { _ = a.cleanup() }()

	if p := logger.Path(); p != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Logging to %s\n", p)
	}
	return NewMenu(a.bank, cmd.InOrStdin(), cmd.OutOrStdout(), a.log).Run()
}

// setup 讀取設定、套用旗標覆寫、啟動日誌並建立 Bank。
// 旗標與環境變數都未指定日誌目錄時使用 defaultLogDir；空字串代表寫到 stderr。
// 種子檔載入失敗時會先關閉日誌再回傳錯誤。
func setup(cmd *cobra.Command, f *rootFlags, defaultLogDir string) (*app, error) {
	cfg, err := config.Load(f.envDir)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = f.debug
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = f.logDir
	}
	if flags.Changed("seed") {
		cfg.SeedFile = f.seed
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir
	}

	cleanup, err := logger.Setup(logger.Config{Dir: cfg.LogDir, Debug: cfg.Debug, Out: cmd.ErrOrStderr()})
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	log := logger.L()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	b := bank.NewBank(bank.WithEventSink(fanout(logEvents(log), m.Observe)))

	if cfg.SeedFile != "" {
		seed, err := storage.LoadSeed(cfg.SeedFile)
		if err == nil {
			var ids []bank.ID
			ids, err = storage.Apply(b, seed)
			log.Info("seed.applied", "path", cfg.SeedFile, "accounts", len(ids))
		}
		if err != nil {
			_ = cleanup()
			return nil, fmt.Errorf("seed %s: %w", cfg.SeedFile, err)
		}
	}

	return &app{cfg: cfg, log: log, bank: b, metrics: m, registry: reg, cleanup: cleanup}, nil
}

// fanout 將同一事件依序交給多個接收者。
func fanout(sinks ...bank.EventSink) bank.EventSink {
	return func(ev bank.Event) {
		for _, s := range sinks {
			s(ev)
		}
	}
}

// logEvents 把帳戶事件寫成 "account.<kind>" 日誌；轉帳另附對方帳戶與其餘額。
func logEvents(log *slog.Logger) bank.EventSink {
	return func(ev bank.Event) {
		attrs := []any{
			"event_id", ev.ID.String(),
			"account_id", int64(ev.AccountID),
			"owner", ev.Owner,
			"amount", bank.FormatAmount(ev.Amount),
			"balance", bank.FormatAmount(ev.Balance),
		}
		if ev.Kind == bank.EventTransfer {
			attrs = append(attrs,
				"counterparty", int64(ev.Counterparty),
				"counterparty_balance", bank.FormatAmount(ev.CounterpartyBalance),
			)
		}
		log.Info("account."+string(ev.Kind), attrs...)
	}
}
