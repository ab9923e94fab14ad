package cachestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashare-backtest-go/internal/models"
)

func dayBar(code, day string, close float64) models.Bar {
	ts, _ := time.ParseInLocation(models.DateLayout, day, time.UTC)
	return models.Bar{
		Timestamp: ts.UnixMilli(),
		Date:      day,
		Code:      code,
		Open:      close - 0.1,
		High:      close + 0.2,
		Low:       close - 0.3,
		Close:     close,
		Volume:    10000,
		Amount:    close * 10000,
	}
}

// TestWriteReadSegment 验证段写入后可完整读回。
func TestWriteReadSegment(t *testing.T) {
	s := New(t.TempDir())

	bars := []models.Bar{dayBar("sz.000651", "2024-03-04", 38.5)}
	require.NoError(t, s.WriteSegment("sz.000651", models.FreqDaily, models.AdjustForward, "2024-03-04", bars))

	got, err := s.ReadSegment("sz.000651", models.FreqDaily, models.AdjustForward, "2024-03-04")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bars[0].Date, got[0].Date)
	assert.Equal(t, bars[0].Code, got[0].Code)
	assert.InDelta(t, bars[0].Close, got[0].Close, 1e-9)
}

// TestEmptySegmentIsPresent 验证零行占位段与缺失段可以区分。
func TestEmptySegmentIsPresent(t *testing.T) {
	s := New(t.TempDir())

	// 节假日写零行段
	require.NoError(t, s.WriteSegment("sz.000651", models.FreqDaily, models.AdjustForward, "2024-01-01", nil))

	got, err := s.ReadSegment("sz.000651", models.FreqDaily, models.AdjustForward, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, got)

	// 零行段计入已落盘日期
	days, err := s.ExistingDays("sz.000651", models.FreqDaily, models.AdjustForward)
	require.NoError(t, err)
	assert.True(t, days["2024-01-01"])

	// 未写入的日期读取返回 os.ErrNotExist
	_, err = s.ReadSegment("sz.000651", models.FreqDaily, models.AdjustForward, "2024-01-02")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestCacheKeyIsolation 验证不同周期、不同复权方式的缓存互不可见。
func TestCacheKeyIsolation(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.WriteSegment("sz.000651", models.FreqDaily, models.AdjustForward, "2024-03-04",
		[]models.Bar{dayBar("sz.000651", "2024-03-04", 38.5)}))

	days, err := s.ExistingDays("sz.000651", models.FreqDaily, models.AdjustNone)
	require.NoError(t, err)
	assert.Empty(t, days)

	days, err = s.ExistingDays("sz.000651", models.Freq5Min, models.AdjustForward)
	require.NoError(t, err)
	assert.Empty(t, days)
}

// TestWriteSegmentLeavesNoTempFile 验证写入成功后目录中没有残留临时文件。
func TestWriteSegmentLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.WriteSegment("sh.600000", models.FreqDaily, models.AdjustForward, "2024-03-04",
		[]models.Bar{dayBar("sh.600000", "2024-03-04", 10.0)}))

	entries, err := os.ReadDir(filepath.Join(dir, "sh.600000", "d", "2"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-03-04.parquet", entries[0].Name())
}

// TestReadRangeMergesSorted 验证区间读取按时间升序合并且剔除区间外的段。
func TestReadRangeMergesSorted(t *testing.T) {
	s := New(t.TempDir())

	// 乱序写入三天，外加一个区间外的日期和一个零行占位
	for _, day := range []string{"2024-03-06", "2024-03-04", "2024-03-05", "2024-03-11"} {
		require.NoError(t, s.WriteSegment("sz.000651", models.FreqDaily, models.AdjustForward, day,
			[]models.Bar{dayBar("sz.000651", day, 38.0)}))
	}
	require.NoError(t, s.WriteSegment("sz.000651", models.FreqDaily, models.AdjustForward, "2024-03-07", nil))

	got, err := s.ReadRange("sz.000651", models.FreqDaily, models.AdjustForward, "2024-03-04", "2024-03-08")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-03-04", got[0].Date)
	assert.Equal(t, "2024-03-05", got[1].Date)
	assert.Equal(t, "2024-03-06", got[2].Date)
}
