package recall

import (
	"context"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/pipeline"
	"github.com/rushteam/giftkit/pkg/utils"
)

// CatalogRecall 是目录召回源：按过滤条件从 Catalog 协作方拉取上架物品。
// 过滤条件为 AND 语义，零值字段表示无约束（见 core.Filters）。
//
// 降级语义：目录为空或不可用时返回空候选集，不向上抛错——
// 排序面最终表现为空结果（DATA_UNAVAILABLE，见 core/errors.go）。
//
// CatalogRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CatalogRecall struct {
	Catalog core.CatalogProvider
	Filters core.Filters
}

func (r *CatalogRecall) Name() string        { return "recall.catalog" }
func (r *CatalogRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *CatalogRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
// 返回的是目录快照的拷贝：下游节点写 Score / Label 不会污染目录。
func (r *CatalogRecall) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	items, err := r.Catalog.ListActiveItems(ctx, r.Filters)
	if err != nil {
		if core.IsDataUnavailable(err) || core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cp := it.Clone()
		cp.PutLabel("recall_source", utils.Label{Value: "catalog", Source: "recall"})
		out = append(out, cp)
	}
	return out, nil
}
