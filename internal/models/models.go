package models

import (
	"fmt"
	"time"
)

// Frequency 表示K线的数据周期，取值与上游行情接口一致。
type Frequency string

const (
	FreqDaily   Frequency = "d"  // 日线
	FreqWeekly  Frequency = "w"  // 周线
	FreqMonthly Frequency = "m"  // 月线
	Freq5Min    Frequency = "5"  // 5分钟线
	Freq15Min   Frequency = "15" // 15分钟线
	Freq30Min   Frequency = "30" // 30分钟线
	Freq60Min   Frequency = "60" // 60分钟线
)

// Valid 判断周期取值是否被支持。
func (f Frequency) Valid() bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly, Freq5Min, Freq15Min, Freq30Min, Freq60Min:
		return true
	}
	return false
}

// Intraday 判断是否为分钟级周期。分钟线包含 time 字段但不含估值指标。
func (f Frequency) Intraday() bool {
	switch f {
	case Freq5Min, Freq15Min, Freq30Min, Freq60Min:
		return true
	}
	return false
}

// AdjustFlag 表示复权方式：1 后复权、2 前复权、3 不复权。
// 复权方式是缓存键的一部分，不同复权方式的数据互不共享。
type AdjustFlag string

const (
	AdjustBackward AdjustFlag = "1" // 后复权
	AdjustForward  AdjustFlag = "2" // 前复权（默认）
	AdjustNone     AdjustFlag = "3" // 不复权
)

// Valid 判断复权方式取值是否合法。
func (a AdjustFlag) Valid() bool {
	switch a {
	case AdjustBackward, AdjustForward, AdjustNone:
		return true
	}
	return false
}

// DateLayout 是全模块统一的交易日格式。
const DateLayout = "2006-01-02"

// Bar 是一根K线。日线及以上周期包含估值指标和ST标记，
// 分钟线额外携带时间戳字段、不含估值指标。可选字段在
// parquet 中以 optional 列存储，缺失时读出为零值。
type Bar struct {
	Timestamp int64   `parquet:"timestamp" json:"timestamp"` // 毫秒时间戳，唯一排序键
	Date      string  `parquet:"date" json:"date"`           // 交易日 YYYY-MM-DD
	Time      string  `parquet:"time,optional" json:"time,omitempty"` // 分钟线时刻 HH:MM:SS
	Code      string  `parquet:"code" json:"code"`           // 带交易所前缀的证券代码
	Open      float64 `parquet:"open" json:"open"`
	High      float64 `parquet:"high" json:"high"`
	Low       float64 `parquet:"low" json:"low"`
	Close     float64 `parquet:"close" json:"close"`
	Volume    float64 `parquet:"volume" json:"volume"` // 成交量（股）
	Amount    float64 `parquet:"amount" json:"amount"` // 成交额（元）

	// 以下字段仅日线及以上周期存在
	Preclose    float64 `parquet:"preclose,optional" json:"preclose,omitempty"`        // 前收盘价
	Turn        float64 `parquet:"turn,optional" json:"turn,omitempty"`                // 换手率
	TradeStatus int32   `parquet:"trade_status,optional" json:"trade_status,omitempty"` // 1=正常交易 0=停牌
	PctChg      float64 `parquet:"pct_chg,optional" json:"pct_chg,omitempty"`          // 涨跌幅
	PeTTM       float64 `parquet:"pe_ttm,optional" json:"pe_ttm,omitempty"`            // 滚动市盈率
	PbMRQ       float64 `parquet:"pb_mrq,optional" json:"pb_mrq,omitempty"`            // 市净率
	PsTTM       float64 `parquet:"ps_ttm,optional" json:"ps_ttm,omitempty"`            // 滚动市销率
	PcfNcfTTM   float64 `parquet:"pcf_ncf_ttm,optional" json:"pcf_ncf_ttm,omitempty"`  // 滚动市现率
	IsST        bool    `parquet:"is_st,optional" json:"is_st,omitempty"`              // 是否ST股
}

// When 返回该K线的时间。
func (b Bar) When() time.Time {
	return time.UnixMilli(b.Timestamp).UTC()
}

// Config 结构体定义了回测系统的所有配置参数
type Config struct {
	CacheDir       string  `json:"cache_dir"`        // 本地行情缓存目录
	DBPath         string  `json:"db_path"`          // 回测结果数据库路径
	DataAPIURL     string  `json:"data_api_url"`     // 行情数据服务地址
	RequestDelayMs int     `json:"request_delay_ms"` // 相邻请求之间的延迟毫秒数
	InitialCash    float64 `json:"initial_cash"`     // 初始资金（元）
	CommissionRate float64 `json:"commission_rate"`  // 手续费率（默认 0.0003，万三，买卖双向）
	StampTaxRate   float64 `json:"stamp_tax_rate"`   // 印花税率（默认 0.001，仅卖出收取）
	MinCommission  float64 `json:"min_commission"`   // 最低手续费（默认 5 元）
	LotSize        int64   `json:"lot_size"`         // 最小交易单位（默认 100 股，即 1 手）

	LogConfig LogConfig `json:"log"` // 日志配置
}

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Level      string `json:"level"`       // 日志级别, e.g., "debug", "info", "warn", "error"
	Output     string `json:"output"`      // 输出模式: "console", "file", "both"
	File       string `json:"file"`        // 日志文件路径
	MaxSize    int    `json:"max_size"`    // 单个日志文件的最大大小 (MB)
	MaxBackups int    `json:"max_backups"` // 保留的旧日志文件最大数量
	MaxAge     int    `json:"max_age"`     // 旧日志文件的最大保留天数
	Compress   bool   `json:"compress"`    // 是否压缩旧日志文件
}

// Validate 检查配置中会直接破坏模拟语义的取值。
func (c *Config) Validate() error {
	if c.InitialCash < 0 {
		return fmt.Errorf("初始资金不能为负: %f", c.InitialCash)
	}
	if c.CommissionRate < 0 || c.StampTaxRate < 0 || c.MinCommission < 0 {
		return fmt.Errorf("费率参数不能为负: commission=%f stamp_tax=%f min=%f",
			c.CommissionRate, c.StampTaxRate, c.MinCommission)
	}
	if c.LotSize <= 0 {
		return fmt.Errorf("最小交易单位必须为正: %d", c.LotSize)
	}
	return nil
}
