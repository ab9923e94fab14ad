package config

import (
	"encoding/json"
	"os"

	"ashare-backtest-go/internal/models"
)

// LoadConfig 从指定路径加载JSON配置文件并解析到Config结构体中，
// 缺省字段按A股惯例补齐默认值。
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	config := &models.Config{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	applyDefaults(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyDefaults 补齐未配置的参数。费率默认值即A股主流券商水平：
// 手续费万三、印花税千一、最低手续费5元、1手=100股。
func applyDefaults(cfg *models.Config) {
	if cfg.CacheDir == "" {
		cfg.CacheDir = "local_data"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "backtest_results"
	}
	if cfg.CommissionRate == 0 {
		cfg.CommissionRate = 0.0003
	}
	if cfg.StampTaxRate == 0 {
		cfg.StampTaxRate = 0.001
	}
	if cfg.MinCommission == 0 {
		cfg.MinCommission = 5.0
	}
	if cfg.LotSize == 0 {
		cfg.LotSize = 100
	}
	if cfg.InitialCash == 0 {
		cfg.InitialCash = 100000.0
	}
	if cfg.RequestDelayMs == 0 {
		cfg.RequestDelayMs = 200
	}
}
