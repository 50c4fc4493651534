package rank

import (
	"context"
	"sort"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/pipeline"
	"github.com/rushteam/giftkit/pkg/utils"
)

// ScorerNode 是使用 Scorer 的排序 Node（不限定打分策略，
// PersonalizedScorer 只是默认实现之一）。
// - 写入 labels：rank_scorer，以及实现了 Reasoner 时的 reason
// - 更新 item.Score 并按分数降序稳定排序
type ScorerNode struct {
	Scorer Scorer
}

func (n *ScorerNode) Name() string        { return "rank.scorer" }
func (n *ScorerNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScorerNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	profile := rctx.GetProfile()
	reasoner, _ := n.Scorer.(Reasoner)

	for _, it := range items {
		if it == nil {
			continue
		}
		it.Score = n.Scorer.Score(it, profile)
		it.PutLabel("rank_scorer", utils.Label{Value: n.Scorer.Name(), Source: "rank"})
		if reasoner != nil {
			it.PutLabel("reason", utils.Label{Value: reasoner.Reason(it, profile), Source: "rank"})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}
