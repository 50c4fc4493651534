package filter

import (
	"context"

	"github.com/rushteam/giftkit/core"
)

// ActiveFilter 过滤已下架（Active == false）的物品。
// 目录协作方通常只返回上架物品，这里作为链路内的兜底约束。
type ActiveFilter struct{}

func (f *ActiveFilter) Name() string { return "filter.active" }

func (f *ActiveFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return !item.Active, nil
}

// MinSuccessRateFilter 过滤成功率低于阈值的物品（热门面使用）。
// 未评价（SuccessRate == nil）的物品一律过滤：热门面只展示有口碑的礼物。
type MinSuccessRateFilter struct {
	Min int
}

func (f *MinSuccessRateFilter) Name() string { return "filter.min_success_rate" }

func (f *MinSuccessRateFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if item.SuccessRate == nil {
		return true, nil
	}
	return *item.SuccessRate < f.Min, nil
}

// MinReviewsFilter 过滤评价数不足的物品。
type MinReviewsFilter struct {
	Min int
}

func (f *MinReviewsFilter) Name() string { return "filter.min_reviews" }

func (f *MinReviewsFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return item.TotalReviews < f.Min, nil
}
