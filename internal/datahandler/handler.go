// Package datahandler 是行情数据的统一入口：按请求范围对比本地缓存，
// 只拉取缺失的连续子区间，落盘后合并返回完整有序的数据表。
package datahandler

import (
	"context"
	"fmt"

	"ashare-backtest-go/internal/cachestore"
	"ashare-backtest-go/internal/datasource"
	"ashare-backtest-go/internal/logger"
	"ashare-backtest-go/internal/market"
	"ashare-backtest-go/internal/models"
)

// FetchError 表示某个缺失子区间的远端拉取失败。
// 同一次调用中其他子区间已写入的缓存段保持有效，重试时只会补拉仍缺失的日期。
type FetchError struct {
	Code  string
	Start string
	End   string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("拉取 %s [%s 到 %s] 失败: %v", e.Code, e.Start, e.End, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Handler 组合远端数据源和本地缓存，实现增量更新。
type Handler struct {
	source datasource.Source
	store  *cachestore.Store
}

// New 创建数据处理器。
func New(source datasource.Source, store *cachestore.Store) *Handler {
	return &Handler{source: source, store: store}
}

// dayRun 是候选交易日列表中一段连续的缺失区间。
type dayRun struct {
	days []string
}

func (r dayRun) start() string { return r.days[0] }
func (r dayRun) end() string   { return r.days[len(r.days)-1] }

// GetRange 返回一只证券在 [startDate, endDate] 内的全部K线，按时间升序、无重复。
//
// 流程：
//  1. 补全代码前缀、标准化日期；
//  2. 枚举候选交易日，对比本地已落盘的日期；
//  3. 把缺失日期切成最大连续区间，每个区间发一次远端请求；
//  4. 返回的行按日拆分落盘，区间内没有数据的日期写零行占位段；
//  5. 从本地读出请求范围内的全部段合并返回。
//
// 对分钟线，缓存单位仍是整个交易日。
func (h *Handler) GetRange(ctx context.Context, code, startDate, endDate string,
	freq models.Frequency, adjust models.AdjustFlag) ([]models.Bar, error) {

	fullCode, err := market.ResolveCode(code)
	if err != nil {
		return nil, err
	}
	start, err := market.NormalizeDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := market.NormalizeDate(endDate)
	if err != nil {
		return nil, err
	}

	candidates, err := market.CandidateDays(start, end)
	if err != nil {
		return nil, err
	}

	existing, err := h.store.ExistingDays(fullCode, freq, adjust)
	if err != nil {
		return nil, err
	}

	runs := missingRuns(candidates, existing)
	if len(runs) == 0 {
		logger.S().Debugf("所有数据已缓存: %s [%s 到 %s]", fullCode, start, end)
	}

	for _, run := range runs {
		if err := h.fetchRun(ctx, fullCode, run, freq, adjust); err != nil {
			return nil, err
		}
	}

	return h.store.ReadRange(fullCode, freq, adjust, start, end)
}

// missingRuns 把不在 existing 中的候选日切成最大连续区间。
// “连续”指在候选日列表中相邻，隔着周末的两个工作日仍属同一区间。
func missingRuns(candidates []string, existing map[string]bool) []dayRun {
	var runs []dayRun
	var current []string
	for _, day := range candidates {
		if existing[day] {
			if len(current) > 0 {
				runs = append(runs, dayRun{days: current})
				current = nil
			}
			continue
		}
		current = append(current, day)
	}
	if len(current) > 0 {
		runs = append(runs, dayRun{days: current})
	}
	return runs
}

// fetchRun 拉取一个缺失区间并逐日落盘。
func (h *Handler) fetchRun(ctx context.Context, code string, run dayRun,
	freq models.Frequency, adjust models.AdjustFlag) error {

	logger.S().Infof("正在获取数据: %s [%s 到 %s]", code, run.start(), run.end())

	bars, err := h.source.Fetch(ctx, code, run.start(), run.end(), freq, adjust)
	if err != nil {
		return &FetchError{Code: code, Start: run.start(), End: run.end(), Err: err}
	}

	byDay := make(map[string][]models.Bar, len(run.days))
	for _, bar := range bars {
		byDay[bar.Date] = append(byDay[bar.Date], bar)
	}

	saved := 0
	for _, day := range run.days {
		// 区间内没有返回数据的日期也要落零行占位段，
		// 否则节假日、停牌日会在每次请求时被重复拉取。
		if err := h.store.WriteSegment(code, freq, adjust, day, byDay[day]); err != nil {
			return err
		}
		if len(byDay[day]) > 0 {
			saved++
		}
	}
	logger.S().Infof("已保存 %d 个交易日的数据（区间共 %d 个候选日）: %s [%s 到 %s]",
		saved, len(run.days), code, run.start(), run.end())
	return nil
}
