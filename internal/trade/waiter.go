package trade

import (
	"context"
	"time"

	"github.com/claudiocidade/exchange-agents/internal/exchange"
	"github.com/claudiocidade/exchange-agents/internal/metrics"
	"github.com/claudiocidade/exchange-agents/internal/model"
	"go.uber.org/zap"
)

// 默认的订单状态轮询间隔
const DefaultPollInterval = 2 * time.Second

// WaitResult 描述一次等待循环的最终结果
type WaitResult struct {
	State  model.WaitState
	Status model.OrderStatus // 最后一次观测到的订单状态
	Polls  int               // 实际执行的轮询次数
	Reason string            // 放弃等待的原因，成交时为空
}

// FillWaiter 阻塞等待订单成交的轮询状态机
// 状态迁移规则：
//   - 订单状态为 FILLED 时进入 StateFilled，这是唯一的成功出口
//   - 价格仍在 [bid*(threshold-1), bid*threshold) 区间内且未超时则保持 StateWaiting
//   - 价格离开区间或超时则进入 StateAbandonedTimeout，并撤销订单
type FillWaiter struct {
	client exchange.Client
	logger *zap.Logger

	// Interval 两次轮询之间的固定间隔，测试时可缩短
	Interval time.Duration
}

// NewFillWaiter 初始化等待器
func NewFillWaiter(client exchange.Client, logger *zap.Logger) *FillWaiter {
	return &FillWaiter{
		client:   client,
		logger:   logger,
		Interval: DefaultPollInterval,
	}
}

// Wait 阻塞直到订单成交、价格离开接受区间、超时或 ctx 被取消
// 轮询期间的网络/交易所错误立即向上传播并结束等待，由上层决定如何处理
func (w *FillWaiter) Wait(ctx context.Context, symbol string, orderID int64, bidPrice, threshold float64, timeout time.Duration) (WaitResult, error) {
	start := time.Now()

	// 接受区间：[bid*(threshold-1), bid*threshold)
	lower := bidPrice * (threshold - 1)
	upper := bidPrice * threshold

	w.logger.Info("Waiting for order fill",
		zap.String("Symbol", symbol),
		zap.Int64("OrderId", orderID),
		zap.Float64("BandLower", lower),
		zap.Float64("BandUpper", upper),
		zap.Duration("Timeout", timeout))

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	polls := 0
	for {
		status, err := w.client.CheckOrderStatus(ctx, symbol, orderID)
		if err != nil {
			return WaitResult{State: model.StateWaiting, Polls: polls}, err
		}
		polls++
		metrics.OrderPolls.Inc()

		if status == model.StatusFilled {
			w.logger.Info("Order filled",
				zap.String("Symbol", symbol),
				zap.Int64("OrderId", orderID),
				zap.Int("Polls", polls))
			return WaitResult{State: model.StateFilled, Status: status, Polls: polls}, nil
		}

		price, err := w.client.GetAssetPrice(ctx, symbol)
		if err != nil {
			return WaitResult{State: model.StateWaiting, Status: status, Polls: polls}, err
		}
		metrics.LastPrice.WithLabelValues(symbol).Set(price)

		if status.IsTerminal() {
			// 订单在交易所侧被终结但没有成交（例如被外部撤销），
			// 按规则继续等待直到超时，撤单对终态订单是幂等的
			w.logger.Warn("Order reached a terminal state without filling",
				zap.Int64("OrderId", orderID),
				zap.String("Status", string(status)))
		}

		if price < lower || price >= upper {
			return w.abandon(ctx, symbol, orderID, status, polls, "price left the acceptance band")
		}

		if time.Since(start) >= timeout {
			return w.abandon(ctx, symbol, orderID, status, polls, "wait timeout elapsed")
		}

		select {
		case <-ctx.Done():
			return WaitResult{State: model.StateWaiting, Status: status, Polls: polls}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// abandon 撤销未成交的订单并返回放弃状态，撤单是尽力而为的
func (w *FillWaiter) abandon(ctx context.Context, symbol string, orderID int64, status model.OrderStatus, polls int, reason string) (WaitResult, error) {
	w.logger.Warn("Abandoning order wait",
		zap.String("Symbol", symbol),
		zap.Int64("OrderId", orderID),
		zap.String("LastStatus", string(status)),
		zap.String("Reason", reason))

	if err := w.client.CancelOrder(ctx, symbol, orderID); err != nil {
		w.logger.Error("Failed to cancel abandoned order",
			zap.Int64("OrderId", orderID),
			zap.Error(err))
	}

	return WaitResult{
		State:  model.StateAbandonedTimeout,
		Status: status,
		Polls:  polls,
		Reason: reason,
	}, nil
}
