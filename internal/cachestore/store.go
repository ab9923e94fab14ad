// Package cachestore 实现按天分文件的本地行情缓存。
//
// 存储结构：cache_dir/{code}/{frequency}/{adjustflag}/{date}.parquet，
// 一个文件即一个缓存段：某证券某周期某复权方式下一个交易日的全部K线。
// 段要么不存在、要么完整，不落半天的数据；非交易日以零行文件显式占位，
// 以区分“当日无交易”和“尚未拉取”。
package cachestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"ashare-backtest-go/internal/models"
)

const segmentExt = ".parquet"

// Store 负责缓存段文件的读写。
type Store struct {
	baseDir string
}

// New 创建一个指向 baseDir 的缓存存储。
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// segmentDir 返回某个缓存键对应的目录。
func (s *Store) segmentDir(code string, freq models.Frequency, adjust models.AdjustFlag) string {
	return filepath.Join(s.baseDir, code, string(freq), string(adjust))
}

// SegmentPath 返回某个交易日的缓存段文件路径。
func (s *Store) SegmentPath(code string, freq models.Frequency, adjust models.AdjustFlag, day string) string {
	return filepath.Join(s.segmentDir(code, freq, adjust), day+segmentExt)
}

// ExistingDays 列出某个缓存键下已落盘的全部交易日。
// 零行占位文件同样计入——它代表已确认的非交易日。
func (s *Store) ExistingDays(code string, freq models.Frequency, adjust models.AdjustFlag) (map[string]bool, error) {
	entries, err := os.ReadDir(s.segmentDir(code, freq, adjust))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("读取缓存目录失败: %w", err)
	}

	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, segmentExt) {
			continue
		}
		days[strings.TrimSuffix(name, segmentExt)] = true
	}
	return days, nil
}

// WriteSegment 原子地写入一个交易日的缓存段。
// 先写临时文件再重命名，并发读取方不会观察到写了一半的文件。
// bars 为空时写出零行文件，表示该日确认无交易数据。
func (s *Store) WriteSegment(code string, freq models.Frequency, adjust models.AdjustFlag, day string, bars []models.Bar) error {
	dir := s.segmentDir(code, freq, adjust)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建缓存目录 %s 失败: %w", dir, err)
	}

	final := s.SegmentPath(code, freq, adjust, day)
	tmp := final + ".tmp"
	if bars == nil {
		bars = []models.Bar{}
	}
	if err := parquet.WriteFile(tmp, bars); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("写入缓存段 %s 失败: %w", final, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("提交缓存段 %s 失败: %w", final, err)
	}
	return nil
}

// ReadSegment 读取一个交易日的缓存段。段不存在时返回 os.ErrNotExist。
func (s *Store) ReadSegment(code string, freq models.Frequency, adjust models.AdjustFlag, day string) ([]models.Bar, error) {
	path := s.SegmentPath(code, freq, adjust, day)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	bars, err := parquet.ReadFile[models.Bar](path)
	if err != nil {
		return nil, fmt.Errorf("读取缓存段 %s 失败: %w", path, err)
	}
	return bars, nil
}

// ReadRange 读取 [start, end] 内所有已落盘的段并按时间升序合并。
// 只合并落盘内容，不判断覆盖是否完整——那是上层协调器的职责。
func (s *Store) ReadRange(code string, freq models.Frequency, adjust models.AdjustFlag, start, end string) ([]models.Bar, error) {
	existing, err := s.ExistingDays(code, freq, adjust)
	if err != nil {
		return nil, err
	}

	days := make([]string, 0, len(existing))
	for day := range existing {
		if day >= start && day <= end {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	var all []models.Bar
	for _, day := range days {
		bars, err := s.ReadSegment(code, freq, adjust, day)
		if err != nil {
			return nil, err
		}
		all = append(all, bars...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp < all[j].Timestamp })
	return all, nil
}
