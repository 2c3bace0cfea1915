package exchange

import (
	"context"
	"fmt"

	"github.com/claudiocidade/exchange-agents/internal/model"
)

// Client 是交易所操作的通用接口，负责与交易所 REST API 通信
type Client interface {
	// 查询资产当前成交价
	GetAssetPrice(ctx context.Context, symbol string) (float64, error)

	// 以指定价格和数量提交一张 GTC 限价单，返回交易所分配的订单号
	CreateOrder(ctx context.Context, symbol string, price, quantity float64, side model.OrderSide) (int64, error)

	// 查询订单状态，交易所返回的未知状态映射为 StatusUndefined 而不是错误
	CheckOrderStatus(ctx context.Context, symbol string, orderID int64) (model.OrderStatus, error)

	// 撤销订单，尽力而为；订单已成交或已撤销时调用也不算失败
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
}

// TransportError 表示请求未能到达交易所（网络 / HTTP 层故障）
type TransportError struct {
	Op  string // 发生故障的操作，例如 "GetAssetPrice"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ExchangeError 表示交易所返回了业务错误（非 2xx 响应或无法解析的报文）
type ExchangeError struct {
	Op      string
	Code    int64  // 交易所错误码，无法解析时为 0
	Message string // 交易所错误描述
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange error during %s: code=%d msg=%q", e.Op, e.Code, e.Message)
}
