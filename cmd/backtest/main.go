package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ashare-backtest-go/internal/cachestore"
	"ashare-backtest-go/internal/config"
	"ashare-backtest-go/internal/datahandler"
	"ashare-backtest-go/internal/datasource"
	"ashare-backtest-go/internal/engine"
	"ashare-backtest-go/internal/logger"
	"ashare-backtest-go/internal/market"
	"ashare-backtest-go/internal/models"
	"ashare-backtest-go/internal/persistence"
	"ashare-backtest-go/internal/reporter"
	"ashare-backtest-go/internal/strategy"
)

func main() {
	// --- 命令行参数定义 ---
	configPath := flag.String("config", "config.json", "path to the config file")
	code := flag.String("code", "", "security code, e.g. 000651 or sz.000651")
	startDate := flag.String("start", "", "start date (YYYY-MM-DD)")
	endDate := flag.String("end", "", "end date (YYYY-MM-DD)")
	freq := flag.String("freq", "d", "bar frequency: d, w, m, 5, 15, 30, 60")
	adjust := flag.String("adjust", "2", "price adjustment: 1=back, 2=forward, 3=none")
	shortPeriod := flag.Int("short", 5, "short SMA period")
	longPeriod := flag.Int("long", 20, "long SMA period")
	printLog := flag.Bool("printlog", false, "print strategy logs")
	flag.Parse()

	// 在加载配置前先以默认配置初始化日志
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	// --- 加载 .env 文件 ---
	if err := godotenv.Load(); err != nil {
		logger.S().Info("未找到 .env 文件，将从系统环境变量中读取。")
	}

	// --- 加载 JSON 配置 ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("无法加载配置文件: %v", err)
	}
	if url := os.Getenv("DATA_API_URL"); url != "" {
		cfg.DataAPIURL = url
	}

	// --- 使用文件中的配置重新初始化日志 ---
	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	if *code == "" || *startDate == "" || *endDate == "" {
		logger.S().Fatal("必须指定 -code、-start 和 -end 参数。")
	}
	frequency := models.Frequency(*freq)
	if !frequency.Valid() {
		logger.S().Fatalf("不支持的周期: %s", *freq)
	}
	adjustFlag := models.AdjustFlag(*adjust)
	if !adjustFlag.Valid() {
		logger.S().Fatalf("不支持的复权方式: %s", *adjust)
	}
	if cfg.DataAPIURL == "" {
		logger.S().Fatal("未配置行情数据服务地址（config 的 data_api_url 或环境变量 DATA_API_URL）。")
	}

	fullCode, err := market.ResolveCode(*code)
	if err != nil {
		logger.S().Fatalf("证券代码无效: %v", err)
	}

	// --- 准备数据：增量缓存 + 远端补拉 ---
	source := datasource.NewHTTPSource(cfg.DataAPIURL, time.Duration(cfg.RequestDelayMs)*time.Millisecond)
	store := cachestore.New(cfg.CacheDir)
	handler := datahandler.New(source, store)

	bars, err := handler.GetRange(context.Background(), fullCode, *startDate, *endDate, frequency, adjustFlag)
	if err != nil {
		logger.S().Fatalf("获取行情数据失败: %v", err)
	}
	if len(bars) == 0 {
		logger.S().Fatalf("区间内没有行情数据: %s [%s 到 %s]", fullCode, *startDate, *endDate)
	}

	// --- 执行回测 ---
	smaCross, err := strategy.NewSMACross(*shortPeriod, *longPeriod)
	if err != nil {
		logger.S().Fatalf("策略参数错误: %v", err)
	}

	eng := engine.New(cfg, *printLog)
	if err := eng.Run(fullCode, bars, smaCross); err != nil {
		logger.S().Fatalf("回测执行失败: %v", err)
	}

	// --- 汇总并持久化结果 ---
	result := &models.RunResult{
		RunID:       persistence.NewRunID(),
		Code:        fullCode,
		Frequency:   string(frequency),
		AdjustFlag:  string(adjustFlag),
		StartDate:   *startDate,
		EndDate:     *endDate,
		InitialCash: cfg.InitialCash,
		FinalEquity: eng.Broker().Equity(),
		TotalTrades: len(eng.Broker().Trades()),
		TotalFees:   eng.Broker().TotalFees(),
		EquityCurve: eng.Broker().EquityCurve(),
		FinishedAt:  time.Now(),
	}

	metrics := reporter.CalculateMetrics(eng.Broker(), cfg.InitialCash)
	reporter.RenderReport(metrics, result)

	repo, err := persistence.NewBadgerRepository(cfg.DBPath)
	if err != nil {
		logger.S().Errorf("无法打开结果数据库，跳过结果持久化: %v", err)
		return
	}
	defer repo.Close()

	if err := repo.SaveResult(result); err != nil {
		logger.S().Errorf("保存回测结果失败: %v", err)
		return
	}
	logger.S().Infof("回测结果已保存, run_id=%s", result.RunID)
}
