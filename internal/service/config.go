// internal/service/config.go
package service

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ExchangeConfig 定义了交易所的连接信息
type ExchangeConfig struct {
	Name      string
	APIKey    string `mapstructure:"APIKey"`
	SecretKey string `mapstructure:"SecretKey"`
	RESTURL   string `validate:"required,url"`
	WSURL     string `validate:"omitempty,url"`
}

// TradeConfig 定义了单次交易周期的参数
type TradeConfig struct {
	DefaultAsset        string  `validate:"required,alphanum"` // 默认交易资产，例如 ADA
	QuoteCurrency       string  `validate:"required,alphanum"` // 计价货币，例如 BTC
	DefaultAmount       float64 `validate:"gt=0"`              // 默认投入金额（计价货币）
	EntryThreshold      float64 `validate:"gt=1"`              // 买入腿价格接受区间乘数
	ExitThreshold       float64 `validate:"gt=1"`              // 卖出腿价格接受区间乘数
	WaitTimeoutMinutes  int     `validate:"gt=0"`              // 订单等待超时（分钟）
	PollIntervalSeconds int     `validate:"gt=0"`              // 订单状态轮询间隔（秒）
}

type Config struct {
	Exchange ExchangeConfig `mapstructure:"Exchange"`
	Trade    TradeConfig    `mapstructure:"Trade"`
}

// GlobalConfig 存储加载后的全局配置
var GlobalConfig Config

// LoadConfig 读取、解析并校验配置文件，失败直接终止进程
func LoadConfig(configPath string) *Config {
	cfg, err := readConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	GlobalConfig = *cfg

	return &GlobalConfig
}

// readConfig 是 LoadConfig 的可测试内核
func readConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件的名称、类型和路径
	v.SetConfigName("config") // 文件名是 config
	v.SetConfigType("yaml")   // 文件类型是 yaml
	v.AddConfigPath(configPath)

	// 交易参数的默认值，配置文件可以覆盖
	v.SetDefault("Exchange.RESTURL", "https://api.binance.com/api/v3/")
	v.SetDefault("Trade.DefaultAsset", "ADA")
	v.SetDefault("Trade.QuoteCurrency", "BTC")
	v.SetDefault("Trade.DefaultAmount", 0.01)
	v.SetDefault("Trade.EntryThreshold", 1.2)
	v.SetDefault("Trade.ExitThreshold", 1.1)
	v.SetDefault("Trade.WaitTimeoutMinutes", 10)
	v.SetDefault("Trade.PollIntervalSeconds", 2)

	// API 密钥优先从环境变量读取，避免写入配置文件
	v.BindEnv("Exchange.APIKey", "EXCHANGE_API_KEY")
	v.BindEnv("Exchange.SecretKey", "EXCHANGE_SECRET_KEY")

	// 查找并读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// 配置文件缺失时仅依赖默认值和环境变量
	}

	// 将配置绑定到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 字段级校验，启动前暴露配置问题
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
