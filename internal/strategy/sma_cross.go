// Package strategy 提供内置的示例策略。
package strategy

import (
	"fmt"

	"ashare-backtest-go/internal/engine"
	"ashare-backtest-go/internal/models"
	"ashare-backtest-go/internal/signal"
)

// SMACross 是双均线交叉策略：短期均线上穿长期均线时全仓买入，
// 下穿时清仓。交叉检测交给边沿触发的信号检测器完成。
type SMACross struct {
	shortPeriod int
	longPeriod  int
	cross       *signal.CrossoverSignal
}

// NewSMACross 创建双均线策略。shortPeriod 必须小于 longPeriod。
func NewSMACross(shortPeriod, longPeriod int) (*SMACross, error) {
	if shortPeriod <= 0 || shortPeriod >= longPeriod {
		return nil, fmt.Errorf("均线周期非法: short=%d long=%d", shortPeriod, longPeriod)
	}
	return &SMACross{
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		cross:       signal.NewCrossoverSignal(),
	}, nil
}

// OnBar 实现 engine.Strategy。
func (s *SMACross) OnBar(ctx *engine.Context) {
	bars := ctx.GetHistoryData(s.longPeriod)
	if len(bars) < s.longPeriod {
		return // 均线尚未就绪
	}

	s.cross.Update(sma(bars, s.shortPeriod), sma(bars, s.longPeriod))

	if ctx.HasPendingOrder() {
		return
	}

	if s.cross.GoldenCross() && !ctx.HasPosition() {
		if _, err := ctx.Buy(0); err == nil {
			ctx.Log(fmt.Sprintf("金叉买入, 价格 %.2f", ctx.GetCurrentPrice()), false)
		}
		return
	}

	if s.cross.DeathCross() && ctx.HasPosition() {
		// T+1拒单是正常结果，次日死叉状态不再触发，由下一次信号处理
		if _, err := ctx.Close(); err == nil {
			ctx.Log(fmt.Sprintf("死叉清仓, 价格 %.2f", ctx.GetCurrentPrice()), false)
		}
	}
}

// sma 计算窗口末尾 period 根K线的收盘价均值。
func sma(bars []models.Bar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}
	var sum float64
	for _, bar := range bars[len(bars)-period:] {
		sum += bar.Close
	}
	return sum / float64(period)
}
