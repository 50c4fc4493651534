package rerank

import (
	"context"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/pipeline"
)

// TopNNode 是 Top-N 截断节点，用于在排序后截取前 N 个物品。
// 每个推荐面的 limit 都通过它收口。
//
// 如果 N <= 0，则返回所有物品（不截断）。
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}
	if len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
