package store

import (
	"context"
	"sync"

	"github.com/rushteam/giftkit/core"
)

const helpfulHashKey = "rating:helpful"

// RatingStore 是内存实现的评价数据协作方。helpful 计数走
// KeyValueStore 的原子自增（可选注入，nil 时纯内存），评价本体
// 除 helpful 外不可变。
type RatingStore struct {
	KV core.KeyValueStore // 可选：helpful 计数的持久化后端

	mu      sync.RWMutex
	byItem  map[string][]*core.Rating
	byID    map[string]*core.Rating
	helpful map[string]int
}

func NewRatingStore(kv core.KeyValueStore) *RatingStore {
	return &RatingStore{
		KV:      kv,
		byItem:  make(map[string][]*core.Rating),
		byID:    make(map[string]*core.Rating),
		helpful: make(map[string]int),
	}
}

// Add 录入一条评价。重算调度与评价写入并发是预期内的：
// 本轮漏掉的评价由下一轮重算收敛。
func (rs *RatingStore) Add(r *core.Rating) {
	if r == nil {
		return
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.byItem[r.ItemID] = append(rs.byItem[r.ItemID], r)
	rs.byID[r.ID] = r
}

func (rs *RatingStore) ListRatings(_ context.Context, itemID string) ([]*core.Rating, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	src := rs.byItem[itemID]
	out := make([]*core.Rating, len(src))
	copy(out, src)
	return out, nil
}

func (rs *RatingStore) RatedItemIDs(_ context.Context) ([]string, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]string, 0, len(rs.byItem))
	for id, ratings := range rs.byItem {
		if len(ratings) > 0 {
			out = append(out, id)
		}
	}
	return out, nil
}

// IncrementHelpful 对某条评价的 helpful 计数 +1（单调递增），返回新值。
func (rs *RatingStore) IncrementHelpful(ctx context.Context, ratingID string) (int, error) {
	rs.mu.Lock()
	r, ok := rs.byID[ratingID]
	if !ok {
		rs.mu.Unlock()
		return 0, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, "store: rating not found")
	}

	if rs.KV != nil {
		rs.mu.Unlock()
		n, err := rs.KV.HIncrBy(ctx, helpfulHashKey, ratingID, 1)
		if err != nil {
			return 0, err
		}
		rs.mu.Lock()
		r.HelpfulCount = int(n)
		rs.mu.Unlock()
		return int(n), nil
	}

	rs.helpful[ratingID]++
	n := rs.helpful[ratingID]
	r.HelpfulCount = n
	rs.mu.Unlock()
	return n, nil
}

var _ core.RatingProvider = (*RatingStore)(nil)
