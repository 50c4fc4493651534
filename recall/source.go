package recall

import (
	"context"

	"github.com/rushteam/giftkit/core"
)

// Source 是召回源的抽象：产出候选物品集合。
// 与 Node 的区别：Source 不关心上游输入，只负责"从哪里拿候选"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
