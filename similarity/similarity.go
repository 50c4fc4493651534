package similarity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/pkg/utils"
)

// Weights 是四个子分的权重。每个子分归一化到 [0,1] 后加权求和，
// 输出上界即权重之和（默认 85）。
type Weights struct {
	Category    float64 `yaml:"category"`     // 类目精确匹配
	Price       float64 `yaml:"price"`        // 价格接近度
	SuccessRate float64 `yaml:"success_rate"` // 成功率接近度
	Text        float64 `yaml:"text"`         // 长词 Jaccard 重叠
}

// DefaultWeights 是默认权重：类目 30、价格 25、成功率 20、文本 10。
func DefaultWeights() Weights {
	return Weights{Category: 30, Price: 25, SuccessRate: 20, Text: 10}
}

// Sum 返回权重之和，即 Similarity 的最大可达值（自身与自身的相似度）。
func (w Weights) Sum() float64 {
	return w.Category + w.Price + w.SuccessRate + w.Text
}

// priceEpsilon 防止两件零价物品造成除零。
const priceEpsilon = 0.01

// Engine 计算物品两两相似度。所有子分都是对称的，
// 因此 Similarity(A,B) == Similarity(B,A) 由构造保证。
type Engine struct {
	Weights Weights
}

func NewEngine() *Engine {
	return &Engine{Weights: DefaultWeights()}
}

// Similarity 计算加权相似度：
//   - 类目精确匹配：1 或 0
//   - 价格接近度：1 - |pa-pb| / avg(pa,pb)，按两价均值归一（全链路统一
//     采用均值而非最大值，小价格下数值更稳定），截断到 [0,1]
//   - 成功率接近度：1 - |ra-rb| / 100，nil 按 0 计
//   - 文本重叠：标题+描述小写化后长词（长度 > 3）的 Jaccard 系数
func (e *Engine) Similarity(a, b *core.Item) float64 {
	if a == nil || b == nil {
		return 0
	}
	// 自身与自身恒为最大值：长词集合为空的物品（如 "Tea set"）
	// 不能因文本子分缺席而自评低于上界
	if a.ID == b.ID {
		return e.Weights.Sum()
	}
	w := e.Weights

	var score float64
	if a.Category == b.Category {
		score += w.Category
	}
	score += w.Price * PriceCloseness(a.Price, b.Price)

	rateDiff := float64(a.SuccessRateOrZero() - b.SuccessRateOrZero())
	if rateDiff < 0 {
		rateDiff = -rateDiff
	}
	score += w.SuccessRate * (1 - rateDiff/100)

	score += w.Text * jaccard(longWords(a.Text()), longWords(b.Text()))
	return score
}

// TopSimilar 返回与 item 最相似的前 k 个物品（排除自身）。
// 稳定排序：相似度相同的物品保持目录迭代顺序。
// 结果写入 Score 与 similar_to 标签。
func (e *Engine) TopSimilar(item *core.Item, catalog []*core.Item, k int) []*core.Item {
	if item == nil || len(catalog) == 0 {
		return nil
	}

	out := make([]*core.Item, 0, len(catalog))
	for _, other := range catalog {
		if other == nil || other.ID == item.ID {
			continue
		}
		cp := other.Clone()
		cp.Score = e.Similarity(item, other)
		cp.PutLabel("similar_to", utils.Label{Value: item.ID, Source: "similarity"})
		out = append(out, cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// PriceCloseness 是统一的价格接近度：1 - |a-b| / avg(a,b)，截断到 [0,1]。
// 协同面与相似面共用同一归一化口径。
func PriceCloseness(a, b float64) float64 {
	avg := (a + b) / 2
	if avg < priceEpsilon {
		avg = priceEpsilon
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	closeness := 1 - diff/avg
	if closeness < 0 {
		return 0
	}
	if closeness > 1 {
		return 1
	}
	return closeness
}

// longWords 提取长度大于 3 的小写词集合（文本重叠子分用）。
func longWords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if len(tok) > 3 {
			set[tok] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Tokenize 把文本切分为小写词（字母数字之外均视为分隔符）。
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
