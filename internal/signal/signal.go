// Package signal 提供边沿触发的交易信号检测器。
// 所有检测器只在条件从不成立变为成立的那根K线上触发一次，
// 条件持续成立期间不会重复触发。
package signal

// CrossoverSignal 检测两条数值序列的交叉（金叉/死叉）。
// 每根K线调用一次 Update 喂入快慢线的最新值，再查询交叉结果。
// 前值状态显式保存在字段中，不依赖外部序列。
type CrossoverSignal struct {
	prevFast float64
	prevSlow float64
	hasPrev  bool
	golden   bool
	death    bool
}

// NewCrossoverSignal 创建交叉信号检测器。
func NewCrossoverSignal() *CrossoverSignal {
	return &CrossoverSignal{}
}

// Update 喂入当前K线的快线和慢线值，并与上一根K线比较。
// 第一根K线没有前值，不产生任何交叉。
func (s *CrossoverSignal) Update(fast, slow float64) {
	if s.hasPrev {
		// 金叉：快线从下方或重合处上穿；死叉为对称的下穿
		s.golden = s.prevFast <= s.prevSlow && fast > slow
		s.death = s.prevFast >= s.prevSlow && fast < slow
	} else {
		s.golden = false
		s.death = false
	}
	s.prevFast = fast
	s.prevSlow = slow
	s.hasPrev = true
}

// GoldenCross 返回当前K线是否恰好出现金叉。
func (s *CrossoverSignal) GoldenCross() bool { return s.golden }

// DeathCross 返回当前K线是否恰好出现死叉。
func (s *CrossoverSignal) DeathCross() bool { return s.death }

// ThresholdSignal 检测数值序列对阈值的穿越。
// above 为 true 时在序列上穿阈值的那根K线触发，回落到阈值下方后重新武装；
// above 为 false 时方向相反。
type ThresholdSignal struct {
	level     float64
	above     bool
	lastState bool
}

// NewThresholdSignal 创建阈值信号检测器。
func NewThresholdSignal(level float64, above bool) *ThresholdSignal {
	return &ThresholdSignal{level: level, above: above}
}

// Check 喂入当前值并返回是否恰好在本根K线触发（上升沿）。
// 序列在阈值同侧持续停留时只有第一根K线返回 true。
func (s *ThresholdSignal) Check(value float64) bool {
	var state bool
	if s.above {
		state = value > s.level
	} else {
		state = value < s.level
	}
	triggered := state && !s.lastState
	s.lastState = state
	return triggered
}

// Active 返回条件当前是否处于成立状态（电平而非边沿）。
func (s *ThresholdSignal) Active() bool { return s.lastState }

// Registry 是按名称注册的自定义信号集合。
// 谓词每根K线求值一次，同样只在 false 变 true 的边沿触发。
type Registry struct {
	predicates map[string]func() bool
	states     map[string]bool
}

// NewRegistry 创建一个空的信号注册表。
func NewRegistry() *Registry {
	return &Registry{
		predicates: make(map[string]func() bool),
		states:     make(map[string]bool),
	}
}

// Register 注册一个命名信号。重复注册同名信号会覆盖并重置其状态。
func (r *Registry) Register(name string, predicate func() bool) {
	r.predicates[name] = predicate
	r.states[name] = false
}

// Check 对命名信号求值一次，返回是否恰好在本次触发。
// 未注册的名称返回 false。
func (r *Registry) Check(name string) bool {
	predicate, ok := r.predicates[name]
	if !ok {
		return false
	}
	current := predicate()
	triggered := current && !r.states[name]
	r.states[name] = current
	return triggered
}

// Active 返回命名信号当前是否处于成立状态。
func (r *Registry) Active(name string) bool {
	return r.states[name]
}

// Reset 将所有信号状态复位，下一次条件成立会重新触发。
func (r *Registry) Reset() {
	for name := range r.states {
		r.states[name] = false
	}
}
