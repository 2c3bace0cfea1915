package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/claudiocidade/exchange-agents/internal/api"
	"github.com/claudiocidade/exchange-agents/internal/exchange"
	"github.com/claudiocidade/exchange-agents/internal/model"
	"github.com/claudiocidade/exchange-agents/internal/service"
	"github.com/claudiocidade/exchange-agents/internal/trade"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env 只承载 API 密钥，缺失时忽略
	_ = godotenv.Load()

	service.InitLogger()
	defer service.Logger.Sync()

	cfg := service.LoadConfig("config")

	// 位置参数: [资产] [投入金额]，缺省取配置默认值
	asset := cfg.Trade.DefaultAsset
	if len(os.Args) > 1 {
		asset = os.Args[1]
	}
	symbol := strings.ToUpper(asset) + cfg.Trade.QuoteCurrency

	amount := cfg.Trade.DefaultAmount
	if len(os.Args) > 2 {
		parsed, err := service.StringToFloat(os.Args[2])
		if err != nil || parsed <= 0 {
			service.Logger.Error("Invalid investment amount", zap.String("Arg", os.Args[2]))
			return 1
		}
		amount = parsed
	}

	// 显式装配：客户端 -> 等待器 -> 编排器，不使用任何全局容器
	client := exchange.NewBinanceClient(&exchange.BinanceConfig{
		APIKey:    cfg.Exchange.APIKey,
		SecretKey: cfg.Exchange.SecretKey,
		RESTURL:   cfg.Exchange.RESTURL,
	}, service.Logger)

	waiter := trade.NewFillWaiter(client, service.Logger)
	waiter.Interval = time.Duration(cfg.Trade.PollIntervalSeconds) * time.Second

	trader := trade.NewTrader(client, waiter, &cfg.Trade, service.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 配置了行情地址时启动实时价格监控，仅用于观测
	if cfg.Exchange.WSURL != "" {
		connector := api.NewConnector(cfg.Exchange.WSURL, symbol, service.Logger)
		go connector.Start(ctx)
		go func() {
			for ticker := range connector.GetTickerChannel() {
				service.Logger.Debug("Live price update",
					zap.String("Symbol", ticker.Symbol),
					zap.Float64("Price", ticker.Price))
			}
		}()
	}

	service.Logger.Info("Starting trade cycle",
		zap.String("Symbol", symbol),
		zap.Float64("Amount", amount))

	outcome, err := trader.ExecuteTrade(ctx, symbol, amount)
	if err != nil {
		service.Logger.Error("Trade aborted",
			zap.String("Outcome", outcome.String()),
			zap.Error(err))
		return 1
	}

	service.Logger.Info("Trade cycle finished", zap.String("Outcome", outcome.String()))

	// 退出码反映交易结果，便于脚本化调用
	switch outcome {
	case model.OutcomeSuccess:
		return 0
	case model.OutcomeEntryTimedOut:
		return 2
	case model.OutcomeExitTimedOut:
		return 3
	default:
		return 1
	}
}
