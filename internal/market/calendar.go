package market

import (
	"fmt"
	"time"

	"ashare-backtest-go/internal/models"
)

// NormalizeDate 将常见的日期写法统一为 YYYY-MM-DD。
func NormalizeDate(s string) (string, error) {
	for _, layout := range []string{models.DateLayout, "2006-1-2", "20060102", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.DateLayout), nil
		}
	}
	return "", fmt.Errorf("无法解析日期: %q", s)
}

// CandidateDays 枚举 [start, end] 内的候选交易日（剔除周末），升序返回。
// 节假日不在本地维护：首次请求后节假日会以空缓存段落盘，之后不再重复拉取。
func CandidateDays(start, end string) ([]string, error) {
	startT, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("起始日期格式错误: %w", err)
	}
	endT, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("结束日期格式错误: %w", err)
	}
	if endT.Before(startT) {
		return nil, fmt.Errorf("结束日期 %s 早于起始日期 %s", end, start)
	}

	var days []string
	for d := startT; !d.After(endT); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		days = append(days, d.Format(models.DateLayout))
	}
	return days, nil
}

// NextCandidateDay 返回指定日期之后的下一个候选交易日。
func NextCandidateDay(day string) (string, error) {
	t, err := time.Parse(models.DateLayout, day)
	if err != nil {
		return "", fmt.Errorf("日期格式错误: %w", err)
	}
	for {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return t.Format(models.DateLayout), nil
		}
	}
}
