// Package reporter 根据回测经纪商的最终状态计算并输出性能报告。
package reporter

import (
	"fmt"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"ashare-backtest-go/internal/broker"
	"ashare-backtest-go/internal/models"
)

// Metrics 存储计算出的所有回测性能指标
type Metrics struct {
	InitialCash      float64
	FinalEquity      float64
	TotalProfit      float64
	ProfitPercentage float64
	TotalTrades      int
	WinningTrades    int
	LosingTrades     int
	WinRate          float64
	AvgProfitLoss    float64 // 平均盈利/平均亏损
	MaxDrawdown      float64
	TotalFees        float64
	EndingCash       float64
	EndingAssetValue float64
}

// CalculateMetrics 从经纪商状态汇总指标。
func CalculateMetrics(b *broker.Broker, initialCash float64) *Metrics {
	m := &Metrics{
		InitialCash: initialCash,
		TotalTrades: len(b.Trades()),
		TotalFees:   b.TotalFees(),
		EndingCash:  b.Cash(),
	}

	var totalWin, totalLoss float64
	for _, trade := range b.Trades() {
		if trade.Profit > 0 {
			m.WinningTrades++
			totalWin += trade.Profit
		} else {
			m.LosingTrades++
			totalLoss += trade.Profit
		}
	}
	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	}
	if m.WinningTrades > 0 && m.LosingTrades > 0 {
		avgWin := totalWin / float64(m.WinningTrades)
		avgLoss := math.Abs(totalLoss / float64(m.LosingTrades))
		if avgLoss > 0 {
			m.AvgProfitLoss = avgWin / avgLoss
		}
	}

	m.FinalEquity = b.Equity()
	m.EndingAssetValue = m.FinalEquity - m.EndingCash
	m.TotalProfit = m.FinalEquity - m.InitialCash
	if m.InitialCash != 0 {
		m.ProfitPercentage = m.TotalProfit / m.InitialCash * 100
	}
	m.MaxDrawdown = calculateMaxDrawdown(b.EquityCurve()) * 100

	return m
}

// RenderReport 以表格形式打印回测报告。
func RenderReport(m *Metrics, result *models.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("回测结果报告")

	t.AppendRows([]table.Row{
		{"标的", result.Code},
		{"周期", result.Frequency},
		{"回测区间", fmt.Sprintf("%s 到 %s", result.StartDate, result.EndDate)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"初始资金", fmt.Sprintf("%.2f 元", m.InitialCash)},
		{"最终权益", fmt.Sprintf("%.2f 元", m.FinalEquity)},
		{"总利润", fmt.Sprintf("%.2f 元", m.TotalProfit)},
		{"收益率", fmt.Sprintf("%.2f%%", m.ProfitPercentage)},
		{"累计费用", fmt.Sprintf("%.2f 元", m.TotalFees)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"总交易次数", m.TotalTrades},
		{"盈利次数", m.WinningTrades},
		{"亏损次数", m.LosingTrades},
		{"胜率", fmt.Sprintf("%.2f%%", m.WinRate)},
		{"平均盈亏比", fmt.Sprintf("%.2f", m.AvgProfitLoss)},
		{"最大回撤", fmt.Sprintf("%.2f%%", m.MaxDrawdown)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"期末现金", fmt.Sprintf("%.2f 元", m.EndingCash)},
		{"期末持仓市值", fmt.Sprintf("%.2f 元", m.EndingAssetValue)},
	})
	t.Render()
}

func calculateMaxDrawdown(equityCurve []float64) float64 {
	if len(equityCurve) < 2 {
		return 0.0
	}
	peak := equityCurve[0]
	maxDrawdown := 0.0

	for _, equity := range equityCurve {
		if equity > peak {
			peak = equity
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - equity) / peak
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}
