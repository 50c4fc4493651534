package rerank

import (
	"context"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/pipeline"
)

// DedupNode 按 ID 去重，保留首个出现的物品（顺序稳定）。
// 所有推荐面的输出契约是"无重复标识的有序序列"，由它保证。
type DedupNode struct{}

func (n *DedupNode) Name() string {
	return "rerank.dedup"
}

func (n *DedupNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DedupNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]*core.Item, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			// 合并重复项的 Labels，保留可追踪性
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}
