package rank

import (
	"strings"
	"time"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/similarity"
)

// SubWeights 是五个子分的混合权重，和为 1。
type SubWeights struct {
	View     float64 `yaml:"view"`     // 浏览参与度
	Category float64 `yaml:"category"` // 类目亲和度
	Price    float64 `yaml:"price"`    // 价格一致性
	Search   float64 `yaml:"search"`   // 搜索对齐度
	Season   float64 `yaml:"season"`   // 季节性
}

// DefaultSubWeights 是默认混合权重。
func DefaultSubWeights() SubWeights {
	return SubWeights{View: 0.30, Category: 0.25, Price: 0.20, Search: 0.15, Season: 0.10}
}

// 浏览参与度的常数：时长贡献在 3000ms 封顶，频次按 count/5 封顶；
// 两者按 0.7 / 0.3 组合。
const (
	viewDurationCeilingMs = 3000.0
	viewFreqCeiling       = 5.0
	viewDurationWeight    = 0.7
	viewFreqWeight        = 0.3
)

// highlyRatedThreshold 之上的成功率触发"高口碑"兜底理由。
const highlyRatedThreshold = 90

// PersonalizedScorer 是内置的加权启发式打分器（Scorer 的默认实现）。
//
// 五个子分各自归一化到 [0,1]，加权求和后放大 100 并截断到 [0,100]：
//   - 类目亲和度：该类目交互占比 ×3 封顶 1；画像无类目交互时取 0.5（冷启动中性值）
//   - 价格一致性：该价格桶交互占比；无价格交互时取 0.5
//   - 浏览参与度：平均时长（3000ms 封顶线性）×0.7 + 频次（/5 封顶）×0.3；从未浏览为 0
//   - 搜索对齐度：历史查询中词元（长度 > 2）命中物品文本的查询占比；无历史取 0.5
//   - 季节性：当月关键词命中比例；无命中为 0
//
// 对零交互画像，上述中性值保证分数始终可计算（退化计算不是错误）。
type PersonalizedScorer struct {
	Weights SubWeights

	// Now 为季节性子分注入时钟；nil 时取 time.Now。
	Now func() time.Time
}

func NewPersonalizedScorer() *PersonalizedScorer {
	return &PersonalizedScorer{Weights: DefaultSubWeights()}
}

func (s *PersonalizedScorer) Name() string { return "scorer.personalized" }

func (s *PersonalizedScorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Score 实现 Scorer 接口。
func (s *PersonalizedScorer) Score(item *core.Item, profile *core.BehaviorProfile) float64 {
	if item == nil {
		return 0
	}
	w := s.Weights
	sum := w.View*viewEngagement(item, profile) +
		w.Category*categoryAffinity(item, profile) +
		w.Price*priceConsistency(item, profile) +
		w.Search*searchAlignment(item, profile) +
		w.Season*SeasonScore(item, s.now().Month())

	score := sum * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Reason 实现 Reasoner 接口：按固定优先级挑选单条最相关的推荐理由。
// 优先级：类目偏好 > 价格区间匹配 > 历史浏览 > 搜索模式 > 季节相符 >
// 基于成功率的兜底（> 90 视为高口碑）。
func (s *PersonalizedScorer) Reason(item *core.Item, profile *core.BehaviorProfile) string {
	if item == nil {
		return ""
	}
	if profile != nil {
		if profile.CategoryCounts[item.Category] > 0 && isPreferredCategory(profile, item.Category) {
			return "Matches your favorite category: " + string(item.Category)
		}
		if bucket := preferredBucket(profile); bucket != core.BucketAny && bucket == core.BucketForPrice(item.Price) {
			return "Fits your usual price range"
		}
		if profile.HasViewed(item.ID) {
			return "You keep coming back to this one"
		}
		if anySearchMatches(profile, item) {
			return "Matches what you've been searching for"
		}
	}
	if SeasonScore(item, s.now().Month()) > 0 {
		return "A seasonal favorite this month"
	}
	if item.SuccessRate != nil && *item.SuccessRate > highlyRatedThreshold {
		return "Highly rated by other gift givers"
	}
	return "Trending gift pick"
}

func categoryAffinity(item *core.Item, p *core.BehaviorProfile) float64 {
	if p == nil {
		return 0.5
	}
	total := p.TotalCategoryInteractions()
	if total == 0 {
		return 0.5
	}
	frac := float64(p.CategoryCounts[item.Category]) / float64(total) * 3
	if frac > 1 {
		return 1
	}
	return frac
}

func priceConsistency(item *core.Item, p *core.BehaviorProfile) float64 {
	if p == nil {
		return 0.5
	}
	total := p.TotalPriceInteractions()
	if total == 0 {
		return 0.5
	}
	return float64(p.PriceCounts[core.BucketForPrice(item.Price)]) / float64(total)
}

func viewEngagement(item *core.Item, p *core.BehaviorProfile) float64 {
	if p == nil {
		return 0
	}
	st := p.ViewStatFor(item.ID)
	if st.Count == 0 {
		return 0
	}
	avgMs := float64(st.TotalDurationMs) / float64(st.Count)
	durPart := avgMs / viewDurationCeilingMs
	if durPart > 1 {
		durPart = 1
	}
	freqPart := float64(st.Count) / viewFreqCeiling
	if freqPart > 1 {
		freqPart = 1
	}
	return viewDurationWeight*durPart + viewFreqWeight*freqPart
}

func searchAlignment(item *core.Item, p *core.BehaviorProfile) float64 {
	if p == nil {
		return 0.5
	}
	recs := p.Searches.Records()
	if len(recs) == 0 {
		return 0.5
	}
	text := itemSearchText(item)
	matched := 0
	for _, rec := range recs {
		if queryMatches(rec.Query, text) {
			matched++
		}
	}
	frac := float64(matched) / float64(len(recs))
	if frac > 1 {
		return 1
	}
	return frac
}

// itemSearchText 是搜索对齐度的匹配目标：标题 + 描述 + 类目。
func itemSearchText(item *core.Item) string {
	return strings.ToLower(item.Text() + " " + string(item.Category))
}

// queryMatches 判断一次历史查询是否命中物品文本：
// 查询中任意长度 > 2 的词元出现在文本中即视为命中。
func queryMatches(query, text string) bool {
	for _, tok := range similarity.Tokenize(query) {
		if len(tok) > 2 && strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// isPreferredCategory 判断类目是否位于画像的前三偏好之内
// （交互次数降序，首次出现顺序 tie-break）。
func isPreferredCategory(p *core.BehaviorProfile, cate core.Category) bool {
	for _, c := range topCategories(p, 3) {
		if c == cate {
			return true
		}
	}
	return false
}

// topCategories 与 behavior.PreferredCategories 同口径；在 rank 内重算
// 一份以避免包间环依赖。
func topCategories(p *core.BehaviorProfile, k int) []core.Category {
	out := make([]core.Category, 0, len(p.CategoryOrder))
	out = append(out, p.CategoryOrder...)
	// 插入排序：交互次数降序，相同次数保持首次出现顺序
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && p.CategoryCounts[out[j]] > p.CategoryCounts[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func preferredBucket(p *core.BehaviorProfile) core.PriceBucket {
	best := core.BucketAny
	bestCount := 0
	for _, b := range []core.PriceBucket{
		core.BucketUnder25, core.Bucket25To50, core.Bucket50To100, core.Bucket100To200, core.BucketOver200,
	} {
		if c := p.PriceCounts[b]; c > bestCount {
			best, bestCount = b, c
		}
	}
	return best
}

func anySearchMatches(p *core.BehaviorProfile, item *core.Item) bool {
	text := itemSearchText(item)
	for _, rec := range p.Searches.Records() {
		if queryMatches(rec.Query, text) {
			return true
		}
	}
	return false
}

var _ Scorer = (*PersonalizedScorer)(nil)
var _ Reasoner = (*PersonalizedScorer)(nil)
