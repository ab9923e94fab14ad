package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCrossoverGoldenCross 验证快线上穿慢线只在交叉那根K线触发。
func TestCrossoverGoldenCross(t *testing.T) {
	s := NewCrossoverSignal()

	s.Update(9.0, 10.0) // 第一根K线，无前值
	assert.False(t, s.GoldenCross())
	assert.False(t, s.DeathCross())

	s.Update(9.5, 10.0) // 仍在下方
	assert.False(t, s.GoldenCross())

	s.Update(10.5, 10.0) // 上穿
	assert.True(t, s.GoldenCross())
	assert.False(t, s.DeathCross())

	s.Update(11.0, 10.0) // 持续在上方，不重复触发
	assert.False(t, s.GoldenCross())
}

// TestCrossoverDeathCross 验证死叉的对称行为。
func TestCrossoverDeathCross(t *testing.T) {
	s := NewCrossoverSignal()

	s.Update(11.0, 10.0)
	s.Update(9.5, 10.0) // 下穿
	assert.True(t, s.DeathCross())
	assert.False(t, s.GoldenCross())

	s.Update(9.0, 10.0)
	assert.False(t, s.DeathCross())
}

// TestCrossoverFromEqual 验证从重合处穿越也算交叉。
func TestCrossoverFromEqual(t *testing.T) {
	s := NewCrossoverSignal()

	s.Update(10.0, 10.0)
	s.Update(10.5, 10.0)
	assert.True(t, s.GoldenCross())

	s = NewCrossoverSignal()
	s.Update(10.0, 10.0)
	s.Update(9.5, 10.0)
	assert.True(t, s.DeathCross())
}

// TestThresholdNoRepeat 验证条件持续成立期间不重复触发。
func TestThresholdNoRepeat(t *testing.T) {
	s := NewThresholdSignal(100.0, true)

	assert.False(t, s.Check(99.0))
	assert.True(t, s.Check(101.0)) // 上穿触发

	// 连续10根K线停留在阈值上方，全部不触发
	for i := 0; i < 10; i++ {
		assert.False(t, s.Check(105.0), "i=%d", i)
		assert.True(t, s.Active())
	}

	// 回落再上穿，重新触发
	assert.False(t, s.Check(95.0))
	assert.False(t, s.Active())
	assert.True(t, s.Check(102.0))
}

// TestThresholdBelow 验证下穿方向的阈值信号。
func TestThresholdBelow(t *testing.T) {
	s := NewThresholdSignal(20.0, false)

	assert.False(t, s.Check(25.0))
	assert.True(t, s.Check(18.0))
	assert.False(t, s.Check(15.0))
	assert.False(t, s.Check(22.0))
	assert.True(t, s.Check(19.0))
}

// TestRegistryEdgeTrigger 验证命名信号的边沿触发语义。
func TestRegistryEdgeTrigger(t *testing.T) {
	r := NewRegistry()
	value := 0.0
	r.Register("oversold", func() bool { return value < 30.0 })

	value = 50.0
	assert.False(t, r.Check("oversold"))

	value = 25.0
	assert.True(t, r.Check("oversold"))
	assert.True(t, r.Active("oversold"))
	assert.False(t, r.Check("oversold")) // 持续成立不重复触发

	value = 40.0
	assert.False(t, r.Check("oversold"))
	assert.False(t, r.Active("oversold"))
}

// TestRegistryUnknownName 验证未注册的名称永远不触发。
func TestRegistryUnknownName(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Check("missing"))
	assert.False(t, r.Active("missing"))
}

// TestRegistryReset 验证复位后条件成立会重新触发。
func TestRegistryReset(t *testing.T) {
	r := NewRegistry()
	r.Register("always", func() bool { return true })

	assert.True(t, r.Check("always"))
	assert.False(t, r.Check("always"))

	r.Reset()
	assert.True(t, r.Check("always"))
}
