package broker

import (
	"errors"
	"fmt"
)

// ErrInsufficientSellableShares 表示可卖数量不足（含T+1冻结的部分）。
var ErrInsufficientSellableShares = errors.New("可卖股份不足")

// Lot 是一个持仓批次：某一交易日买入的一笔股份。
type Lot struct {
	Day      string // 买入日 YYYY-MM-DD
	Quantity int64
}

// Ledger 是T+1结算账本，按证券维护买入批次（最早的在前）。
// 当日买入的批次在当日不可卖出，卖出时按先进先出消耗批次。
type Ledger struct {
	lots map[string][]Lot
}

// NewLedger 创建一个空账本。
func NewLedger() *Ledger {
	return &Ledger{lots: make(map[string][]Lot)}
}

// RecordBuy 记录一笔买入成交，追加新批次。
// 同一日的连续买入合并进同一批次，不影响可卖数量的计算。
func (l *Ledger) RecordBuy(code, day string, quantity int64) {
	if quantity <= 0 {
		return
	}
	lots := l.lots[code]
	if n := len(lots); n > 0 && lots[n-1].Day == day {
		lots[n-1].Quantity += quantity
		l.lots[code] = lots
		return
	}
	l.lots[code] = append(lots, Lot{Day: day, Quantity: quantity})
}

// SellableQuantity 返回在指定交易日可以卖出的股数：
// 买入日严格早于 day 的批次之和。当日买入的批次无论盘中先后一律冻结。
func (l *Ledger) SellableQuantity(code, day string) int64 {
	var total int64
	for _, lot := range l.lots[code] {
		if lot.Day < day {
			total += lot.Quantity
		}
	}
	return total
}

// CanSell 判断在指定交易日能否卖出 quantity 股。
func (l *Ledger) CanSell(code, day string, quantity int64) bool {
	return quantity > 0 && l.SellableQuantity(code, day) >= quantity
}

// RecordSell 记录一笔卖出成交，从最早的可卖批次开始消耗（FIFO）。
// 可卖数量不足时返回 ErrInsufficientSellableShares 且不改动任何批次；
// 买入日在 day 当日或之后的批次永远不会被消耗。
func (l *Ledger) RecordSell(code, day string, quantity int64) error {
	if !l.CanSell(code, day, quantity) {
		return fmt.Errorf("%w: %s 在 %s 可卖 %d 股，请求卖出 %d 股",
			ErrInsufficientSellableShares, code, day, l.SellableQuantity(code, day), quantity)
	}

	remaining := quantity
	lots := l.lots[code]
	out := lots[:0]
	for _, lot := range lots {
		if remaining > 0 && lot.Day < day {
			if lot.Quantity <= remaining {
				remaining -= lot.Quantity
				continue // 批次整体消耗
			}
			lot.Quantity -= remaining
			remaining = 0
		}
		out = append(out, lot)
	}
	if len(out) == 0 {
		delete(l.lots, code)
	} else {
		l.lots[code] = out
	}
	return nil
}

// PositionSize 返回某证券全部批次的股数之和。
// 不变式：该值始终等于订单管理器持仓中的数量。
func (l *Ledger) PositionSize(code string) int64 {
	var total int64
	for _, lot := range l.lots[code] {
		total += lot.Quantity
	}
	return total
}

// Lots 返回某证券批次的只读副本，按买入日先后排列。
func (l *Ledger) Lots(code string) []Lot {
	src := l.lots[code]
	out := make([]Lot, len(src))
	copy(out, src)
	return out
}
