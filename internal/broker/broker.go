// Package broker 模拟A股经纪商：费用计算、T+1结算、订单生命周期和资金持仓记账。
package broker

import (
	"errors"
	"fmt"

	"ashare-backtest-go/internal/logger"
	"ashare-backtest-go/internal/models"
)

var (
	// ErrInvalidSize 表示订单数量解析结果为零。
	ErrInvalidSize = errors.New("订单数量无效")
	// ErrT1Restriction 表示卖出被T+1规则拦截，是策略需要正常分支处理的业务拒绝。
	ErrT1Restriction = errors.New("违反T+1限制")
	// ErrOrderAlreadyPending 表示同一证券已有未完结订单。
	ErrOrderAlreadyPending = errors.New("已存在未完结订单")
)

// Broker 是回测中的订单生命周期管理器。
// 每个证券同一时刻至多允许一张未完结订单；订单在被接受后的
// 下一根K线以开盘价成交，成交时才发生资金和持仓的变动。
type Broker struct {
	cash           float64
	commissionRate float64
	stampTaxRate   float64
	minCommission  float64
	lotSize        int64

	ledger    *Ledger
	positions map[string]*models.Position
	entryDay  map[string]string // 每只证券首次建仓日，用于成交配对记录
	pending   map[string]*models.Order
	lastPrice map[string]float64

	orders      []*models.Order
	trades      []models.CompletedTrade
	equityCurve []float64
	totalFees   float64
	nextOrderID int64
}

// New 按配置创建模拟经纪商实例。
func New(cfg *models.Config) *Broker {
	return &Broker{
		cash:           cfg.InitialCash,
		commissionRate: cfg.CommissionRate,
		stampTaxRate:   cfg.StampTaxRate,
		minCommission:  cfg.MinCommission,
		lotSize:        cfg.LotSize,
		ledger:         NewLedger(),
		positions:      make(map[string]*models.Position),
		entryDay:       make(map[string]string),
		pending:        make(map[string]*models.Order),
		lastPrice:      make(map[string]float64),
		nextOrderID:    1,
	}
}

// PlaceOrder 提交一张订单。day 是当前模拟交易日，price 是当前价格，
// 仅用于数量解析和T+1预检，成交价以下一根K线为准。
//
// 返回的订单要么是 ACCEPTED（进入待成交队列），要么是 REJECTED；
// 拒单同时返回对应的业务错误（ErrInvalidSize / ErrT1Restriction），
// 供策略用 errors.Is 分支，拒单不是异常流程。
func (b *Broker) PlaceOrder(kind models.OrderKind, code string, quantity int64, day string, price float64) (*models.Order, error) {
	if _, ok := b.pending[code]; ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderAlreadyPending, code)
	}

	switch kind {
	case models.KindBuy:
		return b.placeBuy(code, quantity, day, price)
	case models.KindSell:
		return b.placeSell(code, quantity, day)
	case models.KindClose:
		return b.placeSell(code, b.ledger.PositionSize(code), day)
	default:
		return nil, fmt.Errorf("未知的订单类型: %q", kind)
	}
}

// placeBuy 处理买入。quantity <= 0 表示按全部现金买入。
// 数量按最小交易单位（1手=100股）向下取整，取整后为零则拒单。
func (b *Broker) placeBuy(code string, quantity int64, day string, price float64) (*models.Order, error) {
	if quantity <= 0 {
		if price <= 0 {
			return b.reject(code, models.Buy, 0, day, "当前价格无效，无法解析买入数量"), ErrInvalidSize
		}
		quantity = int64(b.cash / price)
	}
	quantity = quantity / b.lotSize * b.lotSize
	if quantity <= 0 {
		return b.reject(code, models.Buy, 0, day, "买入数量不足1手"), ErrInvalidSize
	}

	return b.accept(code, models.Buy, quantity, day), nil
}

// placeSell 处理卖出和清仓。卖出数量不按手取整：清仓允许卖出零股尾仓。
func (b *Broker) placeSell(code string, quantity int64, day string) (*models.Order, error) {
	if quantity <= 0 {
		return b.reject(code, models.Sell, 0, day, "卖出数量为零"), ErrInvalidSize
	}
	if !b.ledger.CanSell(code, day, quantity) {
		reason := fmt.Sprintf("T+1限制: %s 在 %s 可卖 %d 股，请求 %d 股",
			code, day, b.ledger.SellableQuantity(code, day), quantity)
		return b.reject(code, models.Sell, quantity, day, reason), ErrT1Restriction
	}

	return b.accept(code, models.Sell, quantity, day), nil
}

func (b *Broker) accept(code string, side models.Side, quantity int64, day string) *models.Order {
	order := &models.Order{
		OrderId:    b.nextOrderID,
		Code:       code,
		Side:       side,
		Quantity:   quantity,
		Status:     models.OrderAccepted,
		CreatedDay: day,
	}
	b.nextOrderID++
	b.pending[code] = order
	b.orders = append(b.orders, order)
	return order
}

func (b *Broker) reject(code string, side models.Side, quantity int64, day, reason string) *models.Order {
	order := &models.Order{
		OrderId:    b.nextOrderID,
		Code:       code,
		Side:       side,
		Quantity:   quantity,
		Status:     models.OrderRejected,
		CreatedDay: day,
		Reason:     reason,
	}
	b.nextOrderID++
	b.orders = append(b.orders, order)
	logger.S().Debugf("拒单: %s %s %d股, 原因: %s", code, side, quantity, reason)
	return order
}

// ExecutePending 以指定价格成交某证券的待成交订单，由引擎在每根新K线
// 的开头调用。没有待成交订单时直接返回 nil。
//
// 卖出成交前由账本做最终校验：批次状态在下单后可能已变化，
// 账本拒绝即订单转为 REJECTED，以账本结果为准。
func (b *Broker) ExecutePending(code, day string, price float64) *models.Order {
	order, ok := b.pending[code]
	if !ok {
		return nil
	}
	delete(b.pending, code)

	notional := price * float64(order.Quantity)
	cost, err := ComputeCost(notional, order.Side, b.commissionRate, b.stampTaxRate, b.minCommission)
	if err != nil {
		order.Status = models.OrderRejected
		order.Reason = err.Error()
		return order
	}

	if order.Side == models.Buy {
		b.fillBuy(order, day, price, notional, cost)
	} else {
		if err := b.ledger.RecordSell(code, day, order.Quantity); err != nil {
			order.Status = models.OrderRejected
			order.Reason = err.Error()
			logger.S().Debugf("卖出成交被账本拒绝: %v", err)
			return order
		}
		b.fillSell(order, day, price, notional, cost)
	}

	order.Status = models.OrderFilled
	order.FilledDay = day
	order.FillPrice = price
	order.Cost = cost
	b.totalFees += cost.Total

	logger.S().Infof("成交: %s %s %d股 @ %.2f, 手续费 %.2f, 印花税 %.2f, 现金余额 %.2f",
		order.Code, order.Side, order.Quantity, price, cost.Commission, cost.StampTax, b.cash)
	return order
}

func (b *Broker) fillBuy(order *models.Order, day string, price, notional float64, cost models.TradeCost) {
	b.cash -= notional + cost.Total
	b.ledger.RecordBuy(order.Code, day, order.Quantity)

	pos, ok := b.positions[order.Code]
	if !ok {
		pos = &models.Position{Code: order.Code}
		b.positions[order.Code] = pos
		b.entryDay[order.Code] = day
	}
	newQty := pos.Quantity + order.Quantity
	pos.AvgCost = (pos.AvgCost*float64(pos.Quantity) + notional) / float64(newQty)
	pos.Quantity = newQty
}

func (b *Broker) fillSell(order *models.Order, day string, price, notional float64, cost models.TradeCost) {
	b.cash += notional - cost.Total

	pos := b.positions[order.Code]
	profit := (price-pos.AvgCost)*float64(order.Quantity) - cost.Total
	b.trades = append(b.trades, models.CompletedTrade{
		Code:       order.Code,
		Quantity:   order.Quantity,
		EntryDay:   b.entryDay[order.Code],
		ExitDay:    day,
		EntryPrice: pos.AvgCost,
		ExitPrice:  price,
		Profit:     profit,
		Fee:        cost.Total,
	})

	pos.Quantity -= order.Quantity
	if pos.Quantity <= 0 {
		delete(b.positions, order.Code)
		delete(b.entryDay, order.Code)
	}
}

// CancelPending 取消某证券的待成交订单（数据走完时调用）。
func (b *Broker) CancelPending(code string) *models.Order {
	order, ok := b.pending[code]
	if !ok {
		return nil
	}
	delete(b.pending, code)
	order.Status = models.OrderCanceled
	return order
}

// MarkPrice 更新某证券的最新价格，用于权益估值。
func (b *Broker) MarkPrice(code string, price float64) {
	b.lastPrice[code] = price
}

// UpdateEquity 以最新价格计算总权益并记入权益曲线。
func (b *Broker) UpdateEquity() {
	b.equityCurve = append(b.equityCurve, b.Equity())
}

// Equity 返回当前总权益：现金 + 持仓市值。
func (b *Broker) Equity() float64 {
	equity := b.cash
	for code, pos := range b.positions {
		equity += float64(pos.Quantity) * b.lastPrice[code]
	}
	return equity
}

// Cash 返回当前可用现金。
func (b *Broker) Cash() float64 { return b.cash }

// Position 返回某证券持仓的副本。
func (b *Broker) Position(code string) (models.Position, bool) {
	pos, ok := b.positions[code]
	if !ok {
		return models.Position{}, false
	}
	return *pos, true
}

// HasPosition 判断是否持有某证券。
func (b *Broker) HasPosition(code string) bool {
	_, ok := b.positions[code]
	return ok
}

// PendingOrder 返回某证券的待成交订单，没有则返回 nil。
func (b *Broker) PendingOrder(code string) *models.Order {
	return b.pending[code]
}

// Ledger 返回底层结算账本。
func (b *Broker) Ledger() *Ledger { return b.ledger }

// Orders 返回全部订单记录（含已拒绝和已取消的）。
func (b *Broker) Orders() []*models.Order { return b.orders }

// Trades 返回全部已完成的卖出交易记录。
func (b *Broker) Trades() []models.CompletedTrade { return b.trades }

// EquityCurve 返回逐K线的权益序列。
func (b *Broker) EquityCurve() []float64 { return b.equityCurve }

// TotalFees 返回累计费用（手续费+印花税）。
func (b *Broker) TotalFees() float64 { return b.totalFees }
