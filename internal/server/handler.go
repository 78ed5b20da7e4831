// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP RESTful 介面，作為 bank 模組的應用層 (Application Layer)。
// 每個 handler 僅負責：
//  1. 接收與驗證 HTTP 請求
//  2. 呼叫 bank 層執行商業邏輯（透過 Bank 取得帳戶把手）
//  3. 回傳標準化 JSON 回應
//  4. 失敗時記錄錯誤種類（日誌與 metrics）
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"banking/internal/bank"
	"banking/internal/metrics"
)

var errBadID = errors.New("account id must be a positive integer")

// Server 為 HTTP 層核心結構：
// - Bank：注入商業邏輯層（銀行核心）。
// - metrics / gatherer：可選；提供時記錄失敗次數並開放 /metrics。
// - log：請求與錯誤日誌。
type Server struct {
	Bank     *bank.Bank
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      *slog.Logger
}

// Option 調整 Server 的可選相依。
type Option func(*Server)

func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer 建立新的 HTTP 伺服器。
func NewServer(b *bank.Bank, opts ...Option) *Server {
	s := &Server{Bank: b, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fail 記錄並輸出錯誤回應。
// code 為 0 時依錯誤種類決定狀態碼。
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, code int) {
	if code == 0 {
		code = statusFor(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveFailure(err, code)
	}
	s.log.Warn("request.failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", code,
		"kind", string(bank.KindOf(err)),
		"err", err,
	)
	writeErr(w, err, code)
}

// account 解析路徑參數 {id} 並取得帳戶。
func (s *Server) account(r *http.Request, param string) (*bank.Account, int, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return nil, http.StatusBadRequest, errBadID
	}
	a, err := s.Bank.Account(bank.ID(id))
	if err != nil {
		return nil, 0, err
	}
	return a, 0, nil
}

// createAccount：POST /accounts
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string          `json:"name"`
		Contact        string          `json:"contact"`
		AccountType    string          `json:"account_type"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	id, err := s.Bank.CreateAccount(req.Name, req.Contact, req.AccountType, req.InitialBalance)
	if err != nil {
		s.fail(w, r, err, 0)
		return
	}
	a, err := s.Bank.Account(id)
	if err != nil {
		s.fail(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(a.Details()))
}

// listAccounts：GET /accounts，依 ID 遞增排序。
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	out := make([]accountView, 0, s.Bank.Len())
	for _, d := range s.Bank.List() {
		out = append(out, viewOf(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// getAccount：GET /accounts/{id}
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	a, code, err := s.account(r, "id")
	if err != nil {
		s.fail(w, r, err, code)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(a.Details()))
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// deposit：POST /accounts/{id}/deposit
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*bank.Account).Deposit)
}

// withdraw：POST /accounts/{id}/withdraw
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*bank.Account).Withdraw)
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(*bank.Account, decimal.Decimal) error) {
	a, code, err := s.account(r, "id")
	if err != nil {
		s.fail(w, r, err, code)
		return
	}
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	if err := op(a, req.Amount); err != nil {
		s.fail(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(a.Details()))
}

// transfer 處理轉帳：POST /transfer {from, to, amount}
// 成功後同時回傳兩帳戶最新餘額。
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   bank.ID         `json:"from"`
		To     bank.ID         `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	from, err := s.Bank.Account(req.From)
	if err != nil {
		s.fail(w, r, err, 0)
		return
	}
	to, err := s.Bank.Account(req.To)
	if err != nil {
		s.fail(w, r, err, 0)
		return
	}
	if err := from.Transfer(req.Amount, to); err != nil {
		s.fail(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "transfer success",
		"from":    viewOf(from.Details()),
		"to":      viewOf(to.Details()),
	})
}

// compare：GET /compare?first={id}&second={id}
func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	var accts [2]*bank.Account
	for i, key := range []string{"first", "second"} {
		id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
		if err != nil || id <= 0 {
			s.fail(w, r, errBadID, http.StatusBadRequest)
			return
		}
		a, err := s.Bank.Account(bank.ID(id))
		if err != nil {
			s.fail(w, r, err, 0)
			return
		}
		accts[i] = a
	}
	ord, err := accts[0].CompareBalance(accts[1])
	if err != nil {
		s.fail(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"first":    viewOf(accts[0].Details()),
		"second":   viewOf(accts[1].Details()),
		"ordering": ord.String(),
	})
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
