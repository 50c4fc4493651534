package core

import "github.com/rushteam/giftkit/pkg/utils"

// Category 是礼物目录的固定类目枚举。
type Category string

const (
	CategoryExperiences Category = "experiences" // 体验类（演出/旅行/课程）
	CategoryJewelry     Category = "jewelry"
	CategoryTech        Category = "tech"
	CategoryHome        Category = "home"
	CategoryFashion     Category = "fashion"
	CategoryBooks       Category = "books"
	CategoryFood        Category = "food"
	CategoryWellness    Category = "wellness"
)

// Item 是推荐链路中的统一承载结构：目录属性、成功率统计、分数、标签。
// 目录属性由 Catalog 协作方拥有，核心只读；Score 由排序节点写入，
// Labels 用于 explain / 观测 / 策略驱动。
//
// SuccessRate 为派生统计：nil 表示"尚无评价"，与"有评价且 0% 成功"
// 严格区分（后者为 *0）。
type Item struct {
	ID          string
	Title       string
	Description string
	Price       float64 // 非负
	Category    Category
	Occasion    string // 场合标签：birthday / anniversary / valentines ...
	Stage       string // 关系阶段标签（可选）：dating / engaged / married ...

	SuccessRate  *int // 0-100 整数百分比；未评价时为 nil
	TotalReviews int
	Active       bool

	Score  float64
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Active: true,
		Labels: make(map[string]utils.Label),
	}
}

// Text 返回用于文本匹配的拼接字段（标题 + 描述）。
func (it *Item) Text() string {
	if it.Description == "" {
		return it.Title
	}
	return it.Title + " " + it.Description
}

// SuccessRateOrZero 把 nil 成功率折算为 0，用于相似度等数值计算。
func (it *Item) SuccessRateOrZero() int {
	if it.SuccessRate == nil {
		return 0
	}
	return *it.SuccessRate
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Clone 返回浅拷贝（Labels 独立），用于各推荐面在同一目录快照上
// 互不干扰地写 Score / Label。
func (it *Item) Clone() *Item {
	cp := *it
	cp.Labels = make(map[string]utils.Label, len(it.Labels))
	for k, v := range it.Labels {
		cp.Labels[k] = v
	}
	return &cp
}
