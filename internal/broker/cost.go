package broker

import (
	"errors"
	"fmt"

	"ashare-backtest-go/internal/models"
)

// ErrInvalidCostInput 表示费用计算收到了非法入参，属于调用方bug。
var ErrInvalidCostInput = errors.New("费用计算入参非法")

// ComputeCost 计算一笔交易的费用。
//
// 规则：
//   - 手续费：名义金额 × 费率，不足最低手续费时按最低手续费收取，买卖双向；
//   - 印花税：仅卖出时按名义金额 × 税率收取，买入为零。
//
// 纯函数，给定入参结果完全确定。
func ComputeCost(notional float64, side models.Side,
	commissionRate, stampTaxRate, minCommission float64) (models.TradeCost, error) {

	if notional < 0 {
		return models.TradeCost{}, fmt.Errorf("%w: 名义金额为负 %f", ErrInvalidCostInput, notional)
	}
	if commissionRate < 0 || stampTaxRate < 0 || minCommission < 0 {
		return models.TradeCost{}, fmt.Errorf("%w: 费率为负 commission=%f stamp_tax=%f min=%f",
			ErrInvalidCostInput, commissionRate, stampTaxRate, minCommission)
	}

	commission := notional * commissionRate
	if commission < minCommission {
		commission = minCommission
	}

	stampTax := 0.0
	if side == models.Sell {
		stampTax = notional * stampTaxRate
	}

	return models.TradeCost{
		Commission: commission,
		StampTax:   stampTax,
		Total:      commission + stampTax,
	}, nil
}
