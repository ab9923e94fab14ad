package market

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolvableCode 表示证券代码不在任何已知的交易所号段内。
var ErrUnresolvableCode = errors.New("无法识别的证券代码")

// 交易所代码前缀
const (
	ExchangeShanghai = "sh"
	ExchangeShenzhen = "sz"
	ExchangeBeijing  = "bj"
)

// A股编码规则，按 6 位代码的前两位划分：
//   - 60, 68, 90 -> 上海（90 是沪市B股）
//   - 00, 30, 20 -> 深圳（20 是深市B股）
//   - 43, 83, 87 -> 北京
var prefixExchanges = map[string]string{
	"60": ExchangeShanghai, "68": ExchangeShanghai, "90": ExchangeShanghai,
	"00": ExchangeShenzhen, "30": ExchangeShenzhen, "20": ExchangeShenzhen,
	"43": ExchangeBeijing, "83": ExchangeBeijing, "87": ExchangeBeijing,
}

// ResolveCode 将 6 位证券代码转换为带交易所前缀的全称（如 sz.000651）。
// 已带合法前缀的代码原样返回，因此该函数是幂等的。
func ResolveCode(code string) (string, error) {
	if strings.Contains(code, ".") {
		parts := strings.SplitN(code, ".", 2)
		switch parts[0] {
		case ExchangeShanghai, ExchangeShenzhen, ExchangeBeijing:
			return code, nil
		}
		return "", fmt.Errorf("%w: %q 带有未知的交易所前缀", ErrUnresolvableCode, code)
	}

	if len(code) != 6 || !allDigits(code) {
		return "", fmt.Errorf("%w: %q 不是 6 位数字代码", ErrUnresolvableCode, code)
	}

	exchange, ok := prefixExchanges[code[:2]]
	if !ok {
		return "", fmt.Errorf("%w: %q 不在任何已知号段内", ErrUnresolvableCode, code)
	}
	return exchange + "." + code, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
