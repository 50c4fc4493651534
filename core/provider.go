package core

import (
	"context"
	"time"
)

// Filters 是目录查询的过滤条件集合，各条件之间为 AND 语义；
// 零值字段表示"无约束"。
type Filters struct {
	Category Category
	Occasion string
	Stage    string

	MinPrice *float64
	MaxPrice *float64

	MinSuccessRate *int // 只保留 SuccessRate 非 nil 且 >= 该值的物品
	MinReviews     *int
}

// Match 判断单个物品是否满足全部过滤条件。
func (f Filters) Match(it *Item) bool {
	if it == nil {
		return false
	}
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Occasion != "" && it.Occasion != f.Occasion {
		return false
	}
	if f.Stage != "" && it.Stage != f.Stage {
		return false
	}
	if f.MinPrice != nil && it.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && it.Price > *f.MaxPrice {
		return false
	}
	if f.MinSuccessRate != nil {
		if it.SuccessRate == nil || *it.SuccessRate < *f.MinSuccessRate {
			return false
		}
	}
	if f.MinReviews != nil && it.TotalReviews < *f.MinReviews {
		return false
	}
	return true
}

// CatalogProvider 是目录协作方的读接口。核心把目录视为只读快照。
type CatalogProvider interface {
	// ListActiveItems 返回满足过滤条件的上架物品
	ListActiveItems(ctx context.Context, filters Filters) ([]*Item, error)
}

// MetricsSink 是结果聚合器的回写接口：把重算出的成功率统计
// 写回目录。rate 为 nil 表示"尚无评价"。
type MetricsSink interface {
	SetSuccessMetrics(ctx context.Context, itemID string, rate *int, reviews int) error
}

// RatingProvider 是评价数据协作方的接口。
type RatingProvider interface {
	// ListRatings 返回某物品的全部评价
	ListRatings(ctx context.Context, itemID string) ([]*Rating, error)

	// RatedItemIDs 返回至少有一条评价的物品 ID 列表（全量重算用）
	RatedItemIDs(ctx context.Context) ([]string, error)

	// IncrementHelpful 对某条评价的 helpful 计数 +1，返回新值
	IncrementHelpful(ctx context.Context, ratingID string) (int, error)
}

// ProfileStore 是行为档案的持久化接口。
//
// 约定：Load 在数据损坏时返回全新档案而非错误——档案损坏绝不致命，
// 最坏结果是个性化从零开始；key 不存在返回 NOT_FOUND，由调用方
// 决定新档案的参数（如搜索日志容量）。
type ProfileStore interface {
	Load(ctx context.Context, profileKey string) (*BehaviorProfile, error)
	Save(ctx context.Context, profile *BehaviorProfile) error
}

// Event 是一条行为事件（append-only 通道，at-least-once 可接受，
// 重复事件只会放大计数器，属可容忍范围）。
type Event struct {
	Type      string         `json:"type"` // view / search / category_interest / price_interest / session_start
	ItemID    string         `json:"item_id,omitempty"`
	SessionID string         `json:"session_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	At        time.Time      `json:"at"`
}

// EventSink 是行为事件的追加写接口。写失败只记日志，不阻断追踪调用。
type EventSink interface {
	Append(ctx context.Context, ev Event) error
}
