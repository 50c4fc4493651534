package recommend

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rushteam/giftkit/behavior"
	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/filter"
	"github.com/rushteam/giftkit/pipeline"
	"github.com/rushteam/giftkit/pkg/utils"
	"github.com/rushteam/giftkit/rank"
	"github.com/rushteam/giftkit/recall"
	"github.com/rushteam/giftkit/rerank"
	"github.com/rushteam/giftkit/similarity"
)

// 热门面与协同面的默认参数。
const (
	DefaultLimit           = 10
	DefaultTrendingMinRate = 85
	DefaultTrendingJitter  = 5.0

	collabCategoryWeight = 0.4
	collabPriceWeight    = 0.3
	collabSuccessWeight  = 0.3
)

// Recommender 是排序门面：把行为档案、目录快照与成功率统计组合成
// 各推荐面的有序结果。每次调用都是对不可变快照的纯计算，无跨请求
// 共享可变状态（唯一例外是热门面的随机源，内部加锁）。
//
// 六个推荐面：
//   - Default：成功率降序（未评价垫底），评价数次序
//   - Personalized：回访用户按个性化分，新用户降级为 Default
//   - SimilarTo："更多同款"，委托相似度引擎
//   - Trending：成功率 >= 阈值，叠加可注入种子的抖动避免榜单冻结
//   - Seasonal：命中当月季节关键词的物品
//   - Collaborative：浏览过锚点物品时按类目/价格/成功率混合分
//
// 输出契约：有序、按 ID 去重、受 limit 收口；数据不可用时返回空结果
// 并记日志，绝不向调用方抛失败。
type Recommender struct {
	Catalog core.CatalogProvider
	Scorer  rank.Scorer
	Sim     *similarity.Engine
	Log     zerolog.Logger

	TrendingMinRate int
	TrendingJitter  float64

	// DefaultLimit 在调用方传入 limit <= 0 时生效。
	DefaultLimit int

	// rnd 是热门面抖动的随机源；可注入固定种子让测试断言确定性排序。
	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewRecommender(catalog core.CatalogProvider) *Recommender {
	return &Recommender{
		Catalog:         catalog,
		Scorer:          rank.NewPersonalizedScorer(),
		Sim:             similarity.NewEngine(),
		Log:             zerolog.Nop(),
		TrendingMinRate: DefaultTrendingMinRate,
		TrendingJitter:  DefaultTrendingJitter,
		DefaultLimit:    DefaultLimit,
		rnd:             rand.New(rand.NewSource(rand.Int63())),
	}
}

// SeedTrending 固定热门面抖动的随机种子（测试/复现用）。
func (r *Recommender) SeedTrending(seed int64) {
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	r.rnd = rand.New(rand.NewSource(seed))
}

func (r *Recommender) limitOr(limit int) int {
	if limit > 0 {
		return limit
	}
	if r.DefaultLimit > 0 {
		return r.DefaultLimit
	}
	return DefaultLimit
}

// snapshot 拉取目录快照（拷贝），数据不可用时降级为空集并记日志。
func (r *Recommender) snapshot(ctx context.Context, rctx *core.RecommendContext, filters core.Filters) []*core.Item {
	src := &recall.CatalogRecall{Catalog: r.Catalog, Filters: filters}
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		r.Log.Warn().Err(err).Msg("recommend: catalog unavailable, degrading to empty result")
		return nil
	}
	return items
}

// finish 是所有推荐面的统一收口：按 ID 去重 + limit 截断 + surface 标签。
func (r *Recommender) finish(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
	limit int,
	surface string,
) []*core.Item {
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&rerank.DedupNode{},
		&rerank.TopNNode{N: r.limitOr(limit)},
	}}
	out, err := p.Run(ctx, rctx, items)
	if err != nil {
		return nil
	}
	for _, it := range out {
		it.PutLabel("surface", utils.Label{Value: surface, Source: "surface"})
	}
	return out
}

// Default 按成功率降序排序（未评价垫底），同率按评价数降序。
func (r *Recommender) Default(ctx context.Context, rctx *core.RecommendContext, limit int) []*core.Item {
	items := r.snapshot(ctx, rctx, core.Filters{})
	sortDefault(items)
	return r.finish(ctx, rctx, items, limit, "default")
}

// Personalized 对回访用户按个性化分排序；新用户（会话数 <= 1）
// 的排序与 Default 完全一致。
func (r *Recommender) Personalized(ctx context.Context, rctx *core.RecommendContext, limit int) []*core.Item {
	profile := rctx.GetProfile()
	if !behavior.IsReturningUser(profile) {
		return r.Default(ctx, rctx, limit)
	}

	items := r.snapshot(ctx, rctx, core.Filters{})
	// 先按默认排序再打分：排序节点是稳定排序，个性化分相同的物品
	// 以成功率口碑作 tie-break。
	sortDefault(items)
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&filter.FilterNode{Filters: []filter.Filter{&filter.ActiveFilter{}}},
		&rank.ScorerNode{Scorer: r.Scorer},
	}}
	ranked, err := p.Run(ctx, rctx, items)
	if err != nil {
		r.Log.Warn().Err(err).Msg("recommend: personalized pipeline failed, degrading to default")
		return r.Default(ctx, rctx, limit)
	}
	return r.finish(ctx, rctx, ranked, limit, "personalized")
}

// SimilarTo 返回与锚点物品最相似的物品（"更多同款"）。
func (r *Recommender) SimilarTo(ctx context.Context, rctx *core.RecommendContext, item *core.Item, limit int) []*core.Item {
	if item == nil {
		return nil
	}
	catalog := r.snapshot(ctx, rctx, core.Filters{})
	similar := r.Sim.TopSimilar(item, catalog, r.limitOr(limit))
	return r.finish(ctx, rctx, similar, limit, "similar")
}

// Trending 筛出成功率 >= 阈值的物品，按成功率叠加小幅随机抖动降序。
// 抖动的随机源可注入种子（SeedTrending），测试可断言精确排序。
func (r *Recommender) Trending(ctx context.Context, rctx *core.RecommendContext, limit int) []*core.Item {
	items := r.snapshot(ctx, rctx, core.Filters{})

	fn := &filter.FilterNode{Filters: []filter.Filter{
		&filter.MinSuccessRateFilter{Min: r.TrendingMinRate},
	}}
	hot, err := fn.Process(ctx, rctx, items)
	if err != nil {
		return nil
	}

	r.rndMu.Lock()
	for _, it := range hot {
		it.Score = float64(it.SuccessRateOrZero()) + r.TrendingJitter*r.rnd.Float64()
	}
	r.rndMu.Unlock()

	sort.SliceStable(hot, func(i, j int) bool {
		return hot[i].Score > hot[j].Score
	})
	return r.finish(ctx, rctx, hot, limit, "trending")
}

// Seasonal 返回文本命中当月季节关键词的物品，按默认排序。
// 月份来自 rctx 注入的时钟（未注入时取系统时间）。
func (r *Recommender) Seasonal(ctx context.Context, rctx *core.RecommendContext, limit int) []*core.Item {
	month := rctx.Clock().Month()
	items := r.snapshot(ctx, rctx, core.Filters{})

	seasonal := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if rank.InSeason(it, month) {
			it.PutLabel("season", utils.Label{Value: month.String(), Source: "surface"})
			seasonal = append(seasonal, it)
		}
	}
	sortDefault(seasonal)
	return r.finish(ctx, rctx, seasonal, limit, "seasonal")
}

// Collaborative 是"买过它的人也喜欢"面：
// 档案中没有锚点物品的浏览记录时降级为 SimilarTo；否则对其余物品按
// 类目匹配 0.4 + 价格接近度 0.3 + 成功率接近度 0.3 的混合分排序。
func (r *Recommender) Collaborative(ctx context.Context, rctx *core.RecommendContext, item *core.Item, limit int) []*core.Item {
	if item == nil {
		return nil
	}
	profile := rctx.GetProfile()
	if profile == nil || !profile.HasViewed(item.ID) {
		return r.SimilarTo(ctx, rctx, item, limit)
	}

	catalog := r.snapshot(ctx, rctx, core.Filters{})
	out := make([]*core.Item, 0, len(catalog))
	for _, other := range catalog {
		if other == nil || other.ID == item.ID {
			continue
		}
		out = append(out, other)
		other.Score = collabBlend(item, other) * 100
		other.PutLabel("collaborative_anchor", utils.Label{Value: item.ID, Source: "surface"})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return r.finish(ctx, rctx, out, limit, "collaborative")
}

// collabBlend 计算协同面的混合分 [0,1]。
// 价格接近度与相似度引擎共用同一均值归一化口径。
func collabBlend(anchor, other *core.Item) float64 {
	var blend float64
	if anchor.Category == other.Category {
		blend += collabCategoryWeight
	}
	blend += collabPriceWeight * similarity.PriceCloseness(anchor.Price, other.Price)

	rateDiff := float64(anchor.SuccessRateOrZero() - other.SuccessRateOrZero())
	if rateDiff < 0 {
		rateDiff = -rateDiff
	}
	blend += collabSuccessWeight * (1 - rateDiff/100)
	return blend
}

// sortDefault 是默认排序：成功率降序（nil 垫底），同率按评价数降序。
func sortDefault(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		switch {
		case a.SuccessRate == nil && b.SuccessRate == nil:
			return a.TotalReviews > b.TotalReviews
		case a.SuccessRate == nil:
			return false
		case b.SuccessRate == nil:
			return true
		case *a.SuccessRate != *b.SuccessRate:
			return *a.SuccessRate > *b.SuccessRate
		default:
			return a.TotalReviews > b.TotalReviews
		}
	})
}
