package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ashare-backtest-go/internal/models"
)

const (
	// 单次请求最多返回的行数，超过时分页拉取
	pageLimit = 10000
	// 分钟线时间戳格式：20230101140500000
	intradayTimeLayout = "20060102150405"
)

// HTTPSource 通过行情数据服务的 REST 接口拉取历史K线。
type HTTPSource struct {
	baseURL string
	client  *http.Client
	delay   time.Duration // 相邻分页请求之间的间隔，避免触发限流
}

// NewHTTPSource 创建一个新的数据源客户端实例。
func NewHTTPSource(baseURL string, requestDelay time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		delay:   requestDelay,
	}
}

// historyResponse 是历史K线接口的响应结构。
// error_code 为 "0" 表示成功，rows 的字段均为字符串，需要在本地做类型转换。
type historyResponse struct {
	ErrorCode string      `json:"error_code"`
	ErrorMsg  string      `json:"error_msg"`
	Rows      []remoteRow `json:"rows"`
	HasMore   bool        `json:"has_more"`
}

type remoteRow struct {
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Code        string `json:"code"`
	Open        string `json:"open"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Close       string `json:"close"`
	Preclose    string `json:"preclose,omitempty"`
	Volume      string `json:"volume"`
	Amount      string `json:"amount"`
	Turn        string `json:"turn,omitempty"`
	TradeStatus string `json:"tradestatus,omitempty"`
	PctChg      string `json:"pctChg,omitempty"`
	PeTTM       string `json:"peTTM,omitempty"`
	PbMRQ       string `json:"pbMRQ,omitempty"`
	PsTTM       string `json:"psTTM,omitempty"`
	PcfNcfTTM   string `json:"pcfNcfTTM,omitempty"`
	IsST        string `json:"isST,omitempty"`
}

// Fetch 实现 Source 接口，分页拉取并拼接完整结果。
func (s *HTTPSource) Fetch(ctx context.Context, code, startDate, endDate string,
	freq models.Frequency, adjust models.AdjustFlag) ([]models.Bar, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: 不支持的周期 %q", ErrInvalidRequest, freq)
	}
	if !adjust.Valid() {
		return nil, fmt.Errorf("%w: 不支持的复权方式 %q", ErrInvalidRequest, adjust)
	}

	var bars []models.Bar
	for page := 1; ; page++ {
		resp, err := s.fetchPage(ctx, code, startDate, endDate, freq, adjust, page)
		if err != nil {
			return nil, err
		}

		for _, row := range resp.Rows {
			bar, err := row.toBar(freq)
			if err != nil {
				return nil, fmt.Errorf("解析行情数据失败 (%s %s): %w", code, row.Date, err)
			}
			bars = append(bars, bar)
		}

		if !resp.HasMore {
			break
		}
		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return bars, nil
}

func (s *HTTPSource) fetchPage(ctx context.Context, code, startDate, endDate string,
	freq models.Frequency, adjust models.AdjustFlag, page int) (*historyResponse, error) {
	params := url.Values{}
	params.Set("code", code)
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	params.Set("frequency", string(freq))
	params.Set("adjustflag", string(adjust))
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("page", strconv.Itoa(page))

	reqURL := s.baseURL + "/v1/history?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstreamUnavailable, httpResp.StatusCode)
	case httpResp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", ErrInvalidRequest, httpResp.StatusCode)
	}

	var resp historyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: 响应解析失败: %v", ErrUpstreamUnavailable, err)
	}
	if resp.ErrorCode != "" && resp.ErrorCode != "0" {
		return nil, fmt.Errorf("%w: code=%s msg=%s", ErrInvalidRequest, resp.ErrorCode, resp.ErrorMsg)
	}
	return &resp, nil
}

// toBar 做类型转换。数值字段允许为空串（新股、停牌日等场景），转换失败按零值处理。
func (r remoteRow) toBar(freq models.Frequency) (models.Bar, error) {
	bar := models.Bar{
		Date:   r.Date,
		Code:   r.Code,
		Open:   looseFloat(r.Open),
		High:   looseFloat(r.High),
		Low:    looseFloat(r.Low),
		Close:  looseFloat(r.Close),
		Volume: looseFloat(r.Volume),
		Amount: looseFloat(r.Amount),
	}

	if freq.Intraday() {
		// 分钟线：time 字段形如 20230101140500000，末三位为毫秒
		raw := r.Time
		if len(raw) < len(intradayTimeLayout) {
			return bar, fmt.Errorf("分钟线时间戳异常: %q", raw)
		}
		t, err := time.ParseInLocation(intradayTimeLayout, raw[:len(intradayTimeLayout)], time.UTC)
		if err != nil {
			return bar, err
		}
		bar.Timestamp = t.UnixMilli()
		bar.Time = t.Format("15:04:05")
		return bar, nil
	}

	t, err := time.ParseInLocation(models.DateLayout, r.Date, time.UTC)
	if err != nil {
		return bar, err
	}
	bar.Timestamp = t.UnixMilli()
	bar.Preclose = looseFloat(r.Preclose)
	bar.Turn = looseFloat(r.Turn)
	bar.PctChg = looseFloat(r.PctChg)
	bar.PeTTM = looseFloat(r.PeTTM)
	bar.PbMRQ = looseFloat(r.PbMRQ)
	bar.PsTTM = looseFloat(r.PsTTM)
	bar.PcfNcfTTM = looseFloat(r.PcfNcfTTM)
	if v, err := strconv.ParseInt(r.TradeStatus, 10, 32); err == nil {
		bar.TradeStatus = int32(v)
	}
	bar.IsST = r.IsST == "1"
	return bar, nil
}

// looseFloat 宽松地解析数值字符串，空串或非法值返回 0。
func looseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
