package store

import (
	"context"
	"sync"

	"github.com/rushteam/giftkit/core"
)

// MemoryCatalog 是内存实现的目录协作方，同时充当结果聚合器的
// MetricsSink 回写端。测试/示例用；生产目录由外部服务提供。
type MemoryCatalog struct {
	mu    sync.RWMutex
	items map[string]*core.Item
	order []string // 插入顺序，保证目录迭代顺序稳定（tie-break 依赖它）
}

func NewMemoryCatalog(items ...*core.Item) *MemoryCatalog {
	c := &MemoryCatalog{items: make(map[string]*core.Item)}
	for _, it := range items {
		c.Put(it)
	}
	return c
}

// Put 新增或覆盖一个物品。
func (c *MemoryCatalog) Put(it *core.Item) {
	if it == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[it.ID]; !ok {
		c.order = append(c.order, it.ID)
	}
	c.items[it.ID] = it
}

// ListActiveItems 返回满足 AND 过滤条件的上架物品（插入顺序）。
// 返回的是持锁期间的拷贝：并发的 SetSuccessMetrics 回写不会与
// 调用方的字段读取交错。
func (c *MemoryCatalog) ListActiveItems(_ context.Context, filters core.Filters) ([]*core.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Item, 0, len(c.order))
	for _, id := range c.order {
		it := c.items[id]
		if it == nil || !it.Active {
			continue
		}
		if !filters.Match(it) {
			continue
		}
		out = append(out, it.Clone())
	}
	return out, nil
}

// SetSuccessMetrics 实现 MetricsSink：回写成功率统计。
// 未知物品静默忽略（评价可能先于目录同步到达）。
func (c *MemoryCatalog) SetSuccessMetrics(_ context.Context, itemID string, rate *int, reviews int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[itemID]
	if !ok {
		return nil
	}
	it.SuccessRate = rate
	it.TotalReviews = reviews
	return nil
}

// Get 按 ID 取物品；相似面/协同面以它定位锚点物品。
func (c *MemoryCatalog) Get(id string) (*core.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	return it, ok
}

var _ core.CatalogProvider = (*MemoryCatalog)(nil)
var _ core.MetricsSink = (*MemoryCatalog)(nil)
