package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCandidateDays 验证候选交易日枚举剔除周末。
func TestCandidateDays(t *testing.T) {
	// 2024-01-01 是周一，2024-01-07 是周日
	days, err := CandidateDays("2024-01-01", "2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
	}, days)
}

// TestCandidateDaysSingleDay 验证单日区间。
func TestCandidateDaysSingleDay(t *testing.T) {
	days, err := CandidateDays("2024-01-03", "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03"}, days)

	// 周末单日区间没有候选日
	days, err = CandidateDays("2024-01-06", "2024-01-06")
	require.NoError(t, err)
	assert.Empty(t, days)
}

// TestCandidateDaysInvalidRange 验证倒置区间报错。
func TestCandidateDaysInvalidRange(t *testing.T) {
	_, err := CandidateDays("2024-01-07", "2024-01-01")
	require.Error(t, err)
}

// TestNextCandidateDay 验证跨周末推进。
func TestNextCandidateDay(t *testing.T) {
	next, err := NextCandidateDay("2024-01-05") // 周五
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", next) // 跳过周末到周一

	next, err = NextCandidateDay("2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", next)
}

// TestNormalizeDate 验证常见日期写法的标准化。
func TestNormalizeDate(t *testing.T) {
	for _, input := range []string{"2025-01-31", "2025-1-31", "20250131", "2025/01/31"} {
		got, err := NormalizeDate(input)
		require.NoError(t, err, "input=%s", input)
		assert.Equal(t, "2025-01-31", got)
	}

	_, err := NormalizeDate("31/01/2025")
	require.Error(t, err)
}
