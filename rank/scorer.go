package rank

import "github.com/rushteam/giftkit/core"

// Scorer 是排序阶段的最小抽象：输入物品与行为画像，输出一个可比较的
// 个性化分数（0-100）。具体实现可以是内置的加权启发式，也可以是
// 外部模型——排序面只依赖此接口，权重与子分可整体替换做 A/B 实验。
//
// 约束：对零交互画像也必须可计算（回退到中性默认分，绝不除零报错）。
type Scorer interface {
	Name() string
	Score(item *core.Item, profile *core.BehaviorProfile) float64
}

// Reasoner 是可选扩展：给出单条人类可读的推荐理由。
// 实现了 Reasoner 的 Scorer 会让排序节点把理由写入 reason 标签。
type Reasoner interface {
	Reason(item *core.Item, profile *core.BehaviorProfile) string
}
