package trade

import (
	"context"
	"errors"
	"time"

	"github.com/claudiocidade/exchange-agents/internal/exchange"
	"github.com/claudiocidade/exchange-agents/internal/metrics"
	"github.com/claudiocidade/exchange-agents/internal/model"
	"github.com/claudiocidade/exchange-agents/internal/service"
	"go.uber.org/zap"
)

// 计划计算只对正数输入有定义，提交计划前先校验
var (
	ErrInvalidAmount = errors.New("investment amount must be positive")
	ErrInvalidPrice  = errors.New("asset price must be positive")
)

// Trader 驱动一次完整的低买高卖交易周期：
// 计划 -> 买入 -> 等待成交 -> 卖出 -> 等待成交
type Trader struct {
	client exchange.Client
	waiter *FillWaiter
	cfg    *service.TradeConfig
	logger *zap.Logger
}

// NewTrader 初始化交易编排器
func NewTrader(client exchange.Client, waiter *FillWaiter, cfg *service.TradeConfig, logger *zap.Logger) *Trader {
	return &Trader{
		client: client,
		waiter: waiter,
		cfg:    cfg,
		logger: logger,
	}
}

// ExecuteTrade 在指定交易对上执行一次自动交易
// 买入腿超时则撤单并放弃，不会建仓；卖出腿超时会留下已持有的仓位，
// 只报告不回滚，由操作者自行处理
func (t *Trader) ExecuteTrade(ctx context.Context, symbol string, amount float64) (model.TradeOutcome, error) {
	if amount <= 0 {
		return t.finish(model.OutcomeAborted, ErrInvalidAmount)
	}

	plan, err := t.createTradePlan(ctx, symbol, amount)
	if err != nil {
		return t.finish(model.OutcomeAborted, err)
	}

	timeout := time.Duration(t.cfg.WaitTimeoutMinutes) * time.Minute

	// --- 买入腿 ---
	buyOrderID, err := t.client.CreateOrder(ctx, symbol, plan.Bid, plan.Quantity, model.SideBuy)
	if err != nil {
		return t.finish(model.OutcomeAborted, err)
	}
	metrics.OrdersSubmitted.WithLabelValues(model.SideBuy.String()).Inc()

	t.logger.Info("Buy order created", zap.Int64("OrderId", buyOrderID))

	result, err := t.waiter.Wait(ctx, symbol, buyOrderID, plan.Bid, t.cfg.EntryThreshold, timeout)
	if err != nil {
		return t.finish(model.OutcomeAborted, err)
	}
	if result.State != model.StateFilled {
		t.logger.Warn("Entry order abandoned, no position taken",
			zap.Int64("OrderId", buyOrderID),
			zap.String("Reason", result.Reason))
		return t.finish(model.OutcomeEntryTimedOut, nil)
	}

	// --- 卖出腿 ---
	sellOrderID, err := t.client.CreateOrder(ctx, symbol, plan.Sell, plan.Quantity, model.SideSell)
	if err != nil {
		return t.finish(model.OutcomeAborted, err)
	}
	metrics.OrdersSubmitted.WithLabelValues(model.SideSell.String()).Inc()

	t.logger.Info("Sell order created", zap.Int64("OrderId", sellOrderID))

	// 卖出腿的接受区间仍然以入场价为基准
	result, err = t.waiter.Wait(ctx, symbol, sellOrderID, plan.Bid, t.cfg.ExitThreshold, timeout)
	if err != nil {
		return t.finish(model.OutcomeAborted, err)
	}
	if result.State != model.StateFilled {
		// 买入已经成交，这里只报告，不尝试平掉已持有的仓位
		t.logger.Error("Exit order abandoned, position is held but unsold",
			zap.Int64("OrderId", sellOrderID),
			zap.Float64("Quantity", plan.Quantity),
			zap.String("Reason", result.Reason))
		return t.finish(model.OutcomeExitTimedOut, nil)
	}

	t.logger.Info("Trade cycle completed",
		zap.String("Symbol", symbol),
		zap.Float64("EntryPrice", plan.Bid),
		zap.Float64("ExitPrice", plan.Sell))

	return t.finish(model.OutcomeSuccess, nil)
}

// createTradePlan 查询市价并计算本次交易的入场/出场价格计划
func (t *Trader) createTradePlan(ctx context.Context, symbol string, amount float64) (model.Plan, error) {
	t.logger.Info("Creating the trade plan",
		zap.String("Symbol", symbol),
		zap.Float64("Amount", amount))

	currentPrice, err := t.client.GetAssetPrice(ctx, symbol)
	if err != nil {
		return model.Plan{}, err
	}
	if currentPrice <= 0 {
		return model.Plan{}, ErrInvalidPrice
	}

	t.logger.Info("Current price", zap.Float64("Price", currentPrice))

	plan := model.NewPlan(currentPrice, amount)

	t.logger.Info("Bid price (5% above current)",
		zap.Float64("Bid", plan.Bid),
		zap.Float64("Quantity", plan.Quantity))
	t.logger.Info("Sell price (70% above bid)", zap.Float64("Sell", plan.Sell))

	return plan, nil
}

// finish 记录交易结果指标后返回
func (t *Trader) finish(outcome model.TradeOutcome, err error) (model.TradeOutcome, error) {
	metrics.TradesCompleted.WithLabelValues(outcome.String()).Inc()
	return outcome, err
}
