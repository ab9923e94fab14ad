package models

// Side 定义了交易方向的类型
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// OrderKind 是策略下单的意图：买入、卖出或清仓。
// close 在订单管理器中被解析为卖出全部持仓。
type OrderKind string

const (
	KindBuy   OrderKind = "buy"
	KindSell  OrderKind = "sell"
	KindClose OrderKind = "close"
)

// OrderStatus 描述订单生命周期中的状态。
// 状态机：CREATED -> {ACCEPTED, REJECTED} -> {FILLED, CANCELED}，
// REJECTED、FILLED、CANCELED 均为终态。
type OrderStatus string

const (
	OrderCreated  OrderStatus = "CREATED"
	OrderAccepted OrderStatus = "ACCEPTED"
	OrderRejected OrderStatus = "REJECTED"
	OrderFilled   OrderStatus = "FILLED"
	OrderCanceled OrderStatus = "CANCELED"
)

// Terminal 判断状态是否为终态。
func (s OrderStatus) Terminal() bool {
	return s == OrderRejected || s == OrderFilled || s == OrderCanceled
}

// TradeCost 是一笔成交的费用拆分。只附着在产生它的订单上，不单独持久化。
type TradeCost struct {
	Commission float64 `json:"commission"` // 手续费（含最低费兜底）
	StampTax   float64 `json:"stamp_tax"`  // 印花税（仅卖出）
	Total      float64 `json:"total"`
}

// Order 定义了订单信息
type Order struct {
	OrderId    int64       `json:"order_id"`
	Code       string      `json:"code"`
	Side       Side        `json:"side"`
	Quantity   int64       `json:"quantity"`    // 股数，已按最小交易单位取整
	Status     OrderStatus `json:"status"`
	CreatedDay string      `json:"created_day"` // 下单时的模拟交易日
	FilledDay  string      `json:"filled_day,omitempty"`
	FillPrice  float64     `json:"fill_price,omitempty"`
	Cost       TradeCost   `json:"cost,omitempty"`
	Reason     string      `json:"reason,omitempty"` // 拒单原因
}

// Position 定义了持仓信息，由结算账本中的批次汇总得出。
type Position struct {
	Code     string  `json:"code"`
	Quantity int64   `json:"quantity"`
	AvgCost  float64 `json:"avg_cost"` // 平均持仓成本（不含费用）
}

// CompletedTrade 记录一笔完成的卖出交易（买入和卖出的配对结果）
type CompletedTrade struct {
	Code       string  `json:"code"`
	Quantity   int64   `json:"quantity"`
	EntryDay   string  `json:"entry_day"` // 首次建仓日
	ExitDay    string  `json:"exit_day"`
	EntryPrice float64 `json:"entry_price"` // 卖出时的平均持仓成本
	ExitPrice  float64 `json:"exit_price"`
	Profit     float64 `json:"profit"` // 已扣除本笔卖出费用
	Fee        float64 `json:"fee"`
}
