package trade

import (
	"context"
	"sync"

	"github.com/claudiocidade/exchange-agents/internal/model"
)

// orderRecord 记录一次下单请求的全部参数，供断言使用
type orderRecord struct {
	Symbol   string
	Price    float64
	Quantity float64
	Side     model.OrderSide
}

// mockClient 在内存中实现 exchange.Client
// 价格和订单状态按脚本依次返回，脚本耗尽后重复最后一个值
type mockClient struct {
	mu sync.Mutex

	prices   []float64
	statuses map[int64][]model.OrderStatus

	orders  []orderRecord
	cancels []int64
	nextID  int64

	priceErr  error
	statusErr error
	createErr error
}

func newMockClient() *mockClient {
	return &mockClient{
		statuses: make(map[int64][]model.OrderStatus),
		nextID:   1000,
	}
}

func (m *mockClient) GetAssetPrice(ctx context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.priceErr != nil {
		return 0, m.priceErr
	}
	if len(m.prices) == 0 {
		return 0, nil
	}
	price := m.prices[0]
	if len(m.prices) > 1 {
		m.prices = m.prices[1:]
	}
	return price, nil
}

func (m *mockClient) CreateOrder(ctx context.Context, symbol string, price, quantity float64, side model.OrderSide) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	m.orders = append(m.orders, orderRecord{
		Symbol:   symbol,
		Price:    price,
		Quantity: quantity,
		Side:     side,
	})
	return m.nextID, nil
}

func (m *mockClient) CheckOrderStatus(ctx context.Context, symbol string, orderID int64) (model.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.statusErr != nil {
		return model.StatusUndefined, m.statusErr
	}
	seq := m.statuses[orderID]
	if len(seq) == 0 {
		return model.StatusNew, nil
	}
	status := seq[0]
	if len(seq) > 1 {
		m.statuses[orderID] = seq[1:]
	}
	return status, nil
}

func (m *mockClient) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancels = append(m.cancels, orderID)
	return nil
}

// Orders 返回已提交订单的副本
func (m *mockClient) Orders() []orderRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]orderRecord, len(m.orders))
	copy(out, m.orders)
	return out
}

// Cancels 返回已撤销订单号的副本
func (m *mockClient) Cancels() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]int64, len(m.cancels))
	copy(out, m.cancels)
	return out
}
