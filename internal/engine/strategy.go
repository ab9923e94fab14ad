package engine

// Strategy 是策略必须实现的能力接口：每根K线被回调一次。
// 策略通过 Context 访问行情和下单，不持有全局状态。
type Strategy interface {
	OnBar(ctx *Context)
}

// Initializer 是策略的可选扩展：在第一根K线之前回调一次，
// 用于预热指标或信号检测器。
type Initializer interface {
	OnInit(ctx *Context)
}
