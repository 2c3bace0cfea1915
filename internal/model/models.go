package model

// Ticker 代表来自行情推送的最小粒度价格快照
type Ticker struct {
	Symbol    string  // 所属交易对，例如 "ADABTC"
	Timestamp int64   // 毫秒时间戳
	Price     float64 // 最新成交价
}
