package pipeline

import (
	"context"

	"github.com/rushteam/giftkit/core"
)

// Pipeline 是核心抽象：把一个推荐面的逻辑拆成可组合的 Node 链
// （Recall → Filter → Rank → ReRank）。所有 Node 都是对不可变
// 目录快照的纯计算，可安全并发执行于多个请求之间。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
