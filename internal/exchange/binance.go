package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claudiocidade/exchange-agents/internal/model"
	"github.com/claudiocidade/exchange-agents/internal/service"
	"go.uber.org/zap"
)

// API KEY 请求头的键名
const apiKeyHeaderKey = "X-MBX-APIKEY"

// BinanceConfig 定义 Binance 客户端所需的全部配置
type BinanceConfig struct {
	APIKey    string
	SecretKey string
	RESTURL   string
}

// BinanceClient 实现了 Client 接口，对接 Binance REST API v3
type BinanceClient struct {
	cfg        *BinanceConfig
	httpClient *http.Client
	logger     *zap.Logger

	// 可注入的时钟，测试时替换
	now func() time.Time
}

// NewBinanceClient 初始化 Binance 客户端
func NewBinanceClient(cfg *BinanceConfig, logger *zap.Logger) *BinanceClient {
	return &BinanceClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With(zap.String("Exchange", "Binance")),
		now:        time.Now,
	}
}

// GetAssetPrice 查询资产当前成交价
func (c *BinanceClient) GetAssetPrice(ctx context.Context, symbol string) (float64, error) {
	const op = "GetAssetPrice"

	query := newParamList().Add("symbol", symbol).Encode()

	body, err := c.do(ctx, op, http.MethodGet, "ticker/price", query, false)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &ExchangeError{Op: op, Message: "malformed price response: " + err.Error()}
	}

	price, err := service.StringToFloat(resp.Price)
	if err != nil {
		return 0, &ExchangeError{Op: op, Message: "malformed price value: " + resp.Price}
	}

	return price, nil
}

// CreateOrder 提交一张 GTC 限价单，返回交易所分配的订单号
func (c *BinanceClient) CreateOrder(ctx context.Context, symbol string, price, quantity float64, side model.OrderSide) (int64, error) {
	const op = "CreateOrder"

	// 参数顺序即签名顺序，不能调整
	payload := newParamList().
		Add("symbol", symbol).
		Add("side", side.String()).
		Add("type", "LIMIT").
		Add("timeInForce", "GTC").
		Add("quantity", service.FormatQuantity(quantity)).
		Add("price", service.FormatPrice(price)).
		Add("timestamp", c.timestamp()).
		Sign(c.cfg.SecretKey)

	body, err := c.do(ctx, op, http.MethodPost, "order", payload, true)
	if err != nil {
		return 0, err
	}

	var resp struct {
		OrderID int64 `json:"orderId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &ExchangeError{Op: op, Message: "malformed order response: " + err.Error()}
	}

	return resp.OrderID, nil
}

// CheckOrderStatus 查询订单状态并映射到内部状态枚举
func (c *BinanceClient) CheckOrderStatus(ctx context.Context, symbol string, orderID int64) (model.OrderStatus, error) {
	const op = "CheckOrderStatus"

	payload := newParamList().
		Add("symbol", symbol).
		Add("orderId", strconv.FormatInt(orderID, 10)).
		Add("timestamp", c.timestamp()).
		Sign(c.cfg.SecretKey)

	body, err := c.do(ctx, op, http.MethodGet, "order", payload, true)
	if err != nil {
		return model.StatusUndefined, err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.StatusUndefined, &ExchangeError{Op: op, Message: "malformed status response: " + err.Error()}
	}

	return mapOrderStatus(resp.Status), nil
}

// CancelOrder 撤销订单
func (c *BinanceClient) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	const op = "CancelOrder"

	payload := newParamList().
		Add("symbol", symbol).
		Add("orderId", strconv.FormatInt(orderID, 10)).
		Add("timestamp", c.timestamp()).
		Sign(c.cfg.SecretKey)

	_, err := c.do(ctx, op, http.MethodDelete, "order", payload, true)
	return err
}

// mapOrderStatus 将交易所的状态词表映射为封闭枚举
// 未识别的状态一律归为 StatusUndefined，映射本身永不失败
func mapOrderStatus(raw string) model.OrderStatus {
	switch raw {
	case "NEW":
		return model.StatusNew
	case "PARTIALLY_FILLED":
		return model.StatusPartiallyFilled
	case "FILLED":
		return model.StatusFilled
	case "CANCELED":
		return model.StatusCanceled
	default:
		return model.StatusUndefined
	}
}

// timestamp 生成签名所需的毫秒 Unix 时间戳参数
func (c *BinanceClient) timestamp() string {
	return strconv.FormatInt(c.now().UnixMilli(), 10)
}

// do 执行一次请求并返回响应体
// GET/DELETE 的参数放在查询串，POST 的参数放在表单体；
// 网络故障返回 TransportError，非 2xx 响应解析为 ExchangeError
func (c *BinanceClient) do(ctx context.Context, op, method, path, payload string, authenticated bool) ([]byte, error) {
	url := strings.TrimSuffix(c.cfg.RESTURL, "/") + "/" + path

	var reqBody io.Reader
	if method == http.MethodPost {
		reqBody = strings.NewReader(payload)
	} else if payload != "" {
		url += "?" + payload
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if authenticated {
		req.Header.Set(apiKeyHeaderKey, c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Code int64  `json:"code"`
			Msg  string `json:"msg"`
		}
		// 交易所错误报文解析失败时保留原始报文便于排查
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Msg == "" {
			apiErr.Msg = strings.TrimSpace(string(body))
		}
		c.logger.Warn("Exchange rejected request",
			zap.String("Op", op),
			zap.Int("HttpStatus", resp.StatusCode),
			zap.Int64("Code", apiErr.Code),
			zap.String("Msg", apiErr.Msg))
		return nil, &ExchangeError{Op: op, Code: apiErr.Code, Message: apiErr.Msg}
	}

	return body, nil
}
