package engine

import (
	"ashare-backtest-go/internal/broker"
	"ashare-backtest-go/internal/logger"
	"ashare-backtest-go/internal/models"
)

// Context 是提供给策略的模拟环境视图：当前K线、历史窗口、
// 下单入口和账户状态。每次回测运行对应一个 Context 实例，
// 未完结订单等状态都挂在它引用的经纪商上，而不是策略自身。
type Context struct {
	code     string
	bars     []models.Bar
	idx      int
	broker   *broker.Broker
	printLog bool
}

// Day 返回当前模拟交易日。
func (c *Context) Day() string { return c.bars[c.idx].Date }

// Bar 返回当前K线。
func (c *Context) Bar() models.Bar { return c.bars[c.idx] }

// BarIndex 返回当前K线在整个回测区间中的下标。
func (c *Context) BarIndex() int { return c.idx }

// GetCurrentPrice 返回当前价格（收盘价）。
func (c *Context) GetCurrentPrice() float64 { return c.bars[c.idx].Close }

// GetCurrentOpen 返回当前开盘价。
func (c *Context) GetCurrentOpen() float64 { return c.bars[c.idx].Open }

// GetCurrentHigh 返回当前最高价。
func (c *Context) GetCurrentHigh() float64 { return c.bars[c.idx].High }

// GetCurrentLow 返回当前最低价。
func (c *Context) GetCurrentLow() float64 { return c.bars[c.idx].Low }

// GetCurrentVolume 返回当前成交量。
func (c *Context) GetCurrentVolume() float64 { return c.bars[c.idx].Volume }

// GetHistoryData 返回截至当前K线（含）的最近 lookback 根K线，从旧到新。
// 开头数据不足时返回实际可用的部分。
func (c *Context) GetHistoryData(lookback int) []models.Bar {
	start := c.idx + 1 - lookback
	if start < 0 {
		start = 0
	}
	return c.bars[start : c.idx+1]
}

// Buy 按指定股数买入；size <= 0 表示用全部现金买入。
// 数量会按最小交易单位向下取整。
func (c *Context) Buy(size int64) (*models.Order, error) {
	return c.broker.PlaceOrder(models.KindBuy, c.code, size, c.Day(), c.GetCurrentPrice())
}

// BuyWithRatio 按现金比例买入，ratio 取值 (0, 1]。
func (c *Context) BuyWithRatio(ratio float64) (*models.Order, error) {
	price := c.GetCurrentPrice()
	if price <= 0 || ratio <= 0 {
		return c.broker.PlaceOrder(models.KindBuy, c.code, 0, c.Day(), 0)
	}
	size := int64(c.broker.Cash() * ratio / price)
	return c.broker.PlaceOrder(models.KindBuy, c.code, size, c.Day(), price)
}

// Sell 按指定股数卖出。
func (c *Context) Sell(size int64) (*models.Order, error) {
	return c.broker.PlaceOrder(models.KindSell, c.code, size, c.Day(), c.GetCurrentPrice())
}

// SellWithRatio 按持仓比例卖出，ratio 为 1 时等同于 Close。
func (c *Context) SellWithRatio(ratio float64) (*models.Order, error) {
	if ratio >= 1 {
		return c.Close()
	}
	size := int64(float64(c.PositionSize()) * ratio)
	return c.broker.PlaceOrder(models.KindSell, c.code, size, c.Day(), c.GetCurrentPrice())
}

// Close 卖出全部持仓。
func (c *Context) Close() (*models.Order, error) {
	return c.broker.PlaceOrder(models.KindClose, c.code, 0, c.Day(), c.GetCurrentPrice())
}

// HasPosition 判断当前是否持仓。
func (c *Context) HasPosition() bool { return c.broker.HasPosition(c.code) }

// PositionSize 返回当前持仓股数。
func (c *Context) PositionSize() int64 {
	pos, ok := c.broker.Position(c.code)
	if !ok {
		return 0
	}
	return pos.Quantity
}

// GetAvailableCash 返回当前可用现金。
func (c *Context) GetAvailableCash() float64 { return c.broker.Cash() }

// HasPendingOrder 判断当前是否有未完结订单。
// 策略在重复下单前应当检查该状态。
func (c *Context) HasPendingOrder() bool {
	return c.broker.PendingOrder(c.code) != nil
}

// Log 记录带交易日前缀的策略日志。printLog 关闭时仅 forcePrint 的日志输出。
func (c *Context) Log(msg string, forcePrint bool) {
	if !c.printLog && !forcePrint {
		return
	}
	logger.S().Infof("%s, %s", c.Day(), msg)
}
