package similarity

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/pkg/utils"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// getCELEnv 获取或创建 CEL 环境，声明簇规则可用的变量。
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("category", cel.StringType),
			cel.Variable("occasion", cel.StringType),
			cel.Variable("stage", cel.StringType),
			cel.Variable("price", cel.DoubleType),
			cel.Variable("text", cel.StringType),
			cel.Variable("words", cel.ListType(cel.StringType)),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是一条主题簇规则：名称 + CEL 布尔表达式。
//
// 表达式可用变量：
//   - category / occasion / stage: string
//   - price: double
//   - text: 小写化的标题+描述
//   - words: 文本切词后的列表，支持 `"her" in words`
//
// 示例：
//   - `price > 150.0` → luxury
//   - `category == "experiences"` → experiential
//   - `"romantic" in words || occasion == "valentines"` → romantic
type Rule struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// DefaultRules 是内置的主题簇规则集。簇之间互不排斥：
// 一件物品可以同时命中多个簇，也可以一个都不命中。
func DefaultRules() []Rule {
	return []Rule{
		{Name: "for-her", Expr: `category == "jewelry" || "her" in words || "women" in words || "woman" in words`},
		{Name: "for-him", Expr: `"him" in words || "men" in words || "man" in words`},
		{Name: "luxury", Expr: `price > 150.0`},
		{Name: "budget-friendly", Expr: `price < 50.0`},
		{Name: "experiential", Expr: `category == "experiences"`},
		{Name: "romantic", Expr: `"romantic" in words || "romance" in words || "love" in words || occasion == "anniversary" || occasion == "valentines"`},
		{Name: "tech-savvy", Expr: `category == "tech" || "smart" in words || "gadget" in words || "tech" in words`},
		{Name: "practical", Expr: `category == "home" || "practical" in words || "useful" in words || "everyday" in words`},
	}
}

type compiledRule struct {
	name string
	prg  cel.Program
}

// ClusterEngine 把物品归入零个或多个命名主题簇。
// 规则在构造时编译一次，之后的求值线程安全、无共享可变状态。
type ClusterEngine struct {
	rules []compiledRule
}

// NewClusterEngine 编译内置规则与附加规则。表达式不合法时报 INVALID_INPUT。
func NewClusterEngine(extra ...Rule) (*ClusterEngine, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}

	all := append(DefaultRules(), extra...)
	compiled := make([]compiledRule, 0, len(all))
	for _, r := range all {
		ast, iss := env.Compile(r.Expr)
		if iss != nil && iss.Err() != nil {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
				fmt.Sprintf("cluster rule %q: %v", r.Name, iss.Err()))
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
				fmt.Sprintf("cluster rule %q: %v", r.Name, err))
		}
		compiled = append(compiled, compiledRule{name: r.Name, prg: prg})
	}
	return &ClusterEngine{rules: compiled}, nil
}

// Clusters 返回物品命中的簇名列表（按规则声明顺序）。
// 单条规则求值失败只跳过该规则，不影响其他簇判定。
func (ce *ClusterEngine) Clusters(item *core.Item) []string {
	if item == nil {
		return nil
	}

	words := Tokenize(item.Text())
	vars := map[string]any{
		"category": string(item.Category),
		"occasion": item.Occasion,
		"stage":    item.Stage,
		"price":    item.Price,
		"text":     joinLower(words),
		"words":    words,
	}

	var out []string
	for _, r := range ce.rules {
		val, _, err := r.prg.Eval(vars)
		if err != nil {
			continue
		}
		if hit, ok := val.Value().(bool); ok && hit {
			out = append(out, r.name)
		}
	}
	return out
}

// Cluster 把整个目录归簇：簇名 -> 成员物品（保持目录迭代顺序）。
// 同时把命中的簇写入物品的 cluster 标签。
func (ce *ClusterEngine) Cluster(catalog []*core.Item) map[string][]*core.Item {
	out := make(map[string][]*core.Item)
	for _, it := range catalog {
		if it == nil {
			continue
		}
		for _, name := range ce.Clusters(it) {
			out[name] = append(out[name], it)
			it.PutLabel("cluster", utils.Label{Value: name, Source: "cluster"})
		}
	}
	return out
}

func joinLower(words []string) string {
	total := 0
	for _, w := range words {
		total += len(w) + 1
	}
	buf := make([]byte, 0, total)
	for i, w := range words {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, w...)
	}
	return string(buf)
}
