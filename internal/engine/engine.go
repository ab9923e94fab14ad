// Package engine 驱动回测：按K线顺序推进模拟时钟，
// 先撮合上一根K线挂出的订单，再回调策略。
package engine

import (
	"fmt"

	"ashare-backtest-go/internal/broker"
	"ashare-backtest-go/internal/logger"
	"ashare-backtest-go/internal/models"
)

// Engine 封装一次回测的执行过程。
type Engine struct {
	cfg      *models.Config
	broker   *broker.Broker
	printLog bool
}

// New 创建回测引擎。printLog 控制策略 Log 的常规输出。
func New(cfg *models.Config, printLog bool) *Engine {
	return &Engine{
		cfg:      cfg,
		broker:   broker.New(cfg),
		printLog: printLog,
	}
}

// Broker 返回引擎使用的模拟经纪商，供报告层读取成交和权益数据。
func (e *Engine) Broker() *broker.Broker { return e.broker }

// Run 对一只证券的K线序列执行策略回测。
//
// 每根K线的处理顺序：
//  1. 以本K线开盘价撮合上一根K线挂出的订单（下一可用价格成交）；
//  2. 以本K线收盘价更新估值；
//  3. 回调策略 OnBar；
//  4. 记录权益曲线。
//
// 数据走完后仍未成交的订单转为已取消。
func (e *Engine) Run(code string, bars []models.Bar, strat Strategy) error {
	if len(bars) == 0 {
		return fmt.Errorf("回测数据为空: %s", code)
	}

	ctx := &Context{
		code:     code,
		bars:     bars,
		broker:   e.broker,
		printLog: e.printLog,
	}

	if init, ok := strat.(Initializer); ok {
		init.OnInit(ctx)
	}

	logger.S().Infof("开始回测: %s, 共 %d 根K线, 初始资金 %.2f", code, len(bars), e.cfg.InitialCash)

	for i, bar := range bars {
		ctx.idx = i
		e.broker.ExecutePending(code, bar.Date, bar.Open)
		e.broker.MarkPrice(code, bar.Close)
		strat.OnBar(ctx)
		e.broker.UpdateEquity()
	}

	if order := e.broker.CancelPending(code); order != nil {
		logger.S().Infof("回测结束，取消未成交订单: %s %s %d股", order.Code, order.Side, order.Quantity)
	}

	logger.S().Infof("回测完成: %s, 最终权益 %.2f", code, e.broker.Equity())
	return nil
}
