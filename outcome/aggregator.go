package outcome

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/giftkit/core"
)

// DefaultSuccessThreshold 是 1-5 满意度刻度上的"送礼成功"门槛。
const DefaultSuccessThreshold = 4

// DefaultConcurrency 是全量重算的并发上限。
const DefaultConcurrency = 8

// Aggregator 把原始评价数据聚合为每个物品的成功率统计，
// 并通过 MetricsSink 回写目录。
//
// 一致性模型：重算是幂等的，可与评价写入并发执行；一轮重算可能漏掉
// 中途插入的评价，下一轮调度必然收敛（最终一致，明确不保证读己所写）。
// 单个物品重算失败只记日志并保留上一轮的值（last-good 语义，
// 失败绝不把已有统计清空）。
type Aggregator struct {
	Ratings core.RatingProvider
	Metrics core.MetricsSink
	Log     zerolog.Logger

	// SuccessThreshold: satisfaction >= 该值计为成功；<= 0 用默认值 4。
	SuccessThreshold int

	// Concurrency 是 RecomputeAll 的并发上限；<= 0 用默认值。
	Concurrency int
}

func NewAggregator(ratings core.RatingProvider, metrics core.MetricsSink) *Aggregator {
	return &Aggregator{
		Ratings: ratings,
		Metrics: metrics,
		Log:     zerolog.Nop(),
	}
}

func (a *Aggregator) threshold() int {
	if a.SuccessThreshold <= 0 {
		return DefaultSuccessThreshold
	}
	return a.SuccessThreshold
}

// Recompute 重算单个物品：
//
//	success_rate = round(100 × 成功评价数 / 总评价数)   （四舍五入到整数）
//	total_reviews = 总评价数
//
// 零评价的物品回写 rate = nil、reviews = 0："尚无评价"与
// "有评价且 0% 成功"必须可区分。
func (a *Aggregator) Recompute(ctx context.Context, itemID string) (*int, int, error) {
	ratings, err := a.Ratings.ListRatings(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}

	total := len(ratings)
	if total == 0 {
		if err := a.Metrics.SetSuccessMetrics(ctx, itemID, nil, 0); err != nil {
			return nil, 0, err
		}
		return nil, 0, nil
	}

	succ := 0
	for _, r := range ratings {
		if r != nil && r.Satisfaction >= a.threshold() {
			succ++
		}
	}
	rate := int(math.Floor(100*float64(succ)/float64(total) + 0.5))

	if err := a.Metrics.SetSuccessMetrics(ctx, itemID, &rate, total); err != nil {
		return nil, 0, err
	}
	return &rate, total, nil
}

// RecomputeAll 重算所有至少有一条评价的物品。
// 单个物品失败只记日志，不中断整轮；该物品保留上一轮的值，
// 等下一次调度再收敛。
func (a *Aggregator) RecomputeAll(ctx context.Context) error {
	ids, err := a.Ratings.RatedItemIDs(ctx)
	if err != nil {
		return err
	}

	limit := a.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, id := range ids {
		itemID := id
		eg.Go(func() error {
			if _, _, err := a.Recompute(egCtx, itemID); err != nil {
				a.Log.Warn().Err(err).Str("item", itemID).
					Msg("outcome: recompute failed, keeping last-good metrics")
			}
			return nil
		})
	}
	return eg.Wait()
}
