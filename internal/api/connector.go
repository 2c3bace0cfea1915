package api

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/claudiocidade/exchange-agents/internal/model"
	"github.com/claudiocidade/exchange-agents/internal/service"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

// BinanceMiniTicker 适配 Binance <symbol>@miniTicker 流的数据结构
type BinanceMiniTicker struct {
	Event     string `json:"e"` // 事件类型 "24hrMiniTicker"
	EventTime int64  `json:"E"` // 毫秒时间戳
	Symbol    string `json:"s"`
	LastPrice string `json:"c"` // 最新成交价
}

// Connector 订阅单个交易对的实时价格流，只用于观测，不参与交易决策
type Connector struct {
	wsURL         string
	symbol        string
	tickerChannel chan model.Ticker
	logger        *zap.Logger
}

// NewConnector 初始化行情连接器
func NewConnector(wsURL, symbol string, logger *zap.Logger) *Connector {
	// 缓冲区足够吸收短时的消费延迟
	tickerChan := make(chan model.Ticker, 256)

	logger.Info("Connector initialized", zap.String("Symbol", symbol))

	return &Connector{
		wsURL:         wsURL,
		symbol:        symbol,
		tickerChannel: tickerChan,
		logger:        logger,
	}
}

// Start 维持 WebSocket 连接直到 ctx 被取消，断线后按指数退避重连
func (c *Connector) Start(ctx context.Context) {
	defer close(c.tickerChannel)

	// 流名称使用小写交易对
	streamURL := strings.TrimSuffix(c.wsURL, "/") + "/ws/" + strings.ToLower(c.symbol) + "@miniTicker"

	b := &backoff.Backoff{
		Min:    time.Second,
		Max:    30 * time.Second,
		Jitter: true,
	}

	for {
		if ctx.Err() != nil {
			return
		}

		c.logger.Info("Connecting to ticker stream", zap.String("URL", streamURL))

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
		if err != nil {
			wait := b.Duration()
			c.logger.Error("Failed to connect to WS, retrying...",
				zap.Error(err),
				zap.Duration("Backoff", wait))
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}

		b.Reset()
		c.logger.Info("Subscribed to miniTicker stream", zap.String("Symbol", c.symbol))

		c.readLoop(ctx, conn)
		conn.Close()
	}
}

// readLoop 持续读取 WS 消息并转换为内部 Ticker，连接出错时返回以便重连
func (c *Connector) readLoop(ctx context.Context, conn *websocket.Conn) {
	// ctx 取消时主动关闭连接解除 ReadMessage 阻塞
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Error("Error reading WS message, reconnecting...", zap.Error(err))
			}
			return
		}

		var event BinanceMiniTicker
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		if event.Symbol != c.symbol {
			continue
		}

		price, err := service.StringToFloat(event.LastPrice)
		if err != nil {
			continue
		}

		ticker := model.Ticker{
			Symbol:    event.Symbol,
			Timestamp: event.EventTime,
			Price:     price,
		}

		// 使用 select/default 防止阻塞 Connector
		select {
		case c.tickerChannel <- ticker:
		default:
			c.logger.Debug("Ticker channel full! Dropping price snapshot", zap.String("Symbol", c.symbol))
		}
	}
}

// GetTickerChannel 返回价格快照输出通道
func (c *Connector) GetTickerChannel() <-chan model.Ticker {
	return c.tickerChannel
}
