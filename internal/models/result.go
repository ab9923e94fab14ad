package models

import "time"

// RunResult 定义了需要持久化的一次回测运行的完整结果
type RunResult struct {
	RunID       string    `json:"run_id"`      // base62 编码的运行标识
	Code        string    `json:"code"`        // 回测标的（带交易所前缀）
	Frequency   string    `json:"frequency"`
	AdjustFlag  string    `json:"adjust_flag"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	InitialCash float64   `json:"initial_cash"`
	FinalEquity float64   `json:"final_equity"`
	TotalTrades int       `json:"total_trades"`
	TotalFees   float64   `json:"total_fees"`
	EquityCurve []float64 `json:"equity_curve"`
	FinishedAt  time.Time `json:"finished_at"`
}
