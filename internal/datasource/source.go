package datasource

import (
	"context"
	"errors"

	"ashare-backtest-go/internal/models"
)

// Source 定义了历史行情数据源必须提供的方法。
// 这使得缓存层可以在真实数据服务和测试桩之间切换。
type Source interface {
	// Fetch 拉取一只证券在 [startDate, endDate] 内的K线，按时间升序返回。
	// 返回的行只覆盖实际交易日；非交易日不产生数据行。
	Fetch(ctx context.Context, code, startDate, endDate string,
		freq models.Frequency, adjust models.AdjustFlag) ([]models.Bar, error)
}

var (
	// ErrUpstreamUnavailable 表示上游数据服务暂时不可用，可重试。
	ErrUpstreamUnavailable = errors.New("行情数据服务不可用")
	// ErrInvalidRequest 表示请求参数被上游拒绝，重试无意义。
	ErrInvalidRequest = errors.New("行情请求参数非法")
)
