package model

import (
	"fmt"
	"math"
)

// OrderSide 定义了订单方向（买入腿 / 卖出腿）
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

func (s OrderSide) String() string {
	return string(s)
}

// OrderStatus 定义了交易所订单状态的封闭枚举
// 交易所返回的未知状态一律归为 StatusUndefined，不会产生错误
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusUndefined       OrderStatus = "UNDEFINED"
)

// IsTerminal 判断该状态之后是否不会再发生状态迁移
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFilled || s == StatusCanceled
}

// TradeOutcome 定义了一次完整交易周期的最终结果
type TradeOutcome string

const (
	// 买卖两腿全部成交
	OutcomeSuccess TradeOutcome = "SUCCESS"

	// 买入腿超时，订单已撤销，未建仓
	OutcomeEntryTimedOut TradeOutcome = "ENTRY_TIMED_OUT"

	// 卖出腿超时，仓位已持有但未卖出，需要人工处理
	OutcomeExitTimedOut TradeOutcome = "EXIT_TIMED_OUT"

	// 因交易所或网络错误中止
	OutcomeAborted TradeOutcome = "ABORTED"
)

func (o TradeOutcome) String() string {
	return string(o)
}

// WaitState 定义了订单等待循环的状态机状态
type WaitState string

const (
	StateWaiting          WaitState = "WAITING"
	StateFilled           WaitState = "FILLED"
	StateAbandonedTimeout WaitState = "ABANDONED_TIMEOUT"
)

// Plan 是一次交易的入场/出场价格计划，构建后不可变
type Plan struct {
	Current  float64 // 当前市价
	Bid      float64 // 入场限价 = Current * 1.05
	Sell     float64 // 出场限价 = Bid * 1.7
	Amount   float64 // 投入的计价货币数量
	Quantity float64 // 买入数量 = floor(Amount / Bid)
}

// NewPlan 根据当前价格和投入金额构建交易计划
// 买入数量只在比值为正时向下取整，避免交易所拒绝小数手数；
// 非正的比值原样保留，由调用方先行校验输入
func NewPlan(current, amount float64) Plan {
	bid := current * 1.05
	sell := bid * 1.7

	quantity := amount / bid
	if quantity > 0 {
		quantity = math.Floor(quantity)
	}

	return Plan{
		Current:  current,
		Bid:      bid,
		Sell:     sell,
		Amount:   amount,
		Quantity: quantity,
	}
}

func (p Plan) String() string {
	return fmt.Sprintf("PLAN [Current: %.8f | Bid: %.8f | Sell: %.8f | Amount: %.8f | Qty: %.8f]",
		p.Current, p.Bid, p.Sell, p.Amount, p.Quantity)
}
