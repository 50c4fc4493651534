package core

import "time"

// PriceBucket 是价格区间桶，行为信号按桶聚合。
type PriceBucket string

const (
	BucketUnder25  PriceBucket = "under25"
	Bucket25To50   PriceBucket = "25to50"
	Bucket50To100  PriceBucket = "50to100"
	Bucket100To200 PriceBucket = "100to200"
	BucketOver200  PriceBucket = "over200"

	// BucketAny 是"无价格偏好"的哨兵值，用于零交互的冷启动档案。
	BucketAny PriceBucket = "any"
)

// BucketForPrice 把价格映射到固定阈值的桶：<25 / <50 / <100 / <200 / 其余。
func BucketForPrice(price float64) PriceBucket {
	switch {
	case price < 25:
		return BucketUnder25
	case price < 50:
		return Bucket25To50
	case price < 100:
		return Bucket50To100
	case price < 200:
		return Bucket100To200
	default:
		return BucketOver200
	}
}

// ViewStat 是单个物品的累计浏览统计。
type ViewStat struct {
	Count           int   `json:"count"`
	TotalDurationMs int64 `json:"total_duration_ms"`
}

// SearchRecord 是一次历史搜索：查询词、结果数、时间戳。
type SearchRecord struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

// BehaviorProfile 是用户画像：一个用户/会话的累计行为信号。
//
// 它不是某一个 Node，而是被整条推荐链路共享的决策信号源：
//
//	维度          作用
//	浏览统计      view-engagement 子分
//	类目计数      category-affinity 子分
//	价格桶计数    price-consistency 子分
//	搜索日志      search-alignment 子分
//	会话计数      回访判定（冷启动降级）
//
// 约束：所有计数器在会话生命周期内单调不减，只做加法；
// 档案归会话/用户独占，用户之间不共享。
type BehaviorProfile struct {
	Key          string `json:"key"`
	SessionCount int    `json:"session_count"`

	// Views: itemID -> 累计浏览统计
	Views map[string]*ViewStat `json:"views"`

	// CategoryCounts: 类目 -> 交互次数。
	// CategoryOrder 记录类目首次出现的顺序，用于偏好排序的确定性 tie-break。
	CategoryCounts map[Category]int `json:"category_counts"`
	CategoryOrder  []Category       `json:"category_order"`

	// PriceCounts: 价格桶 -> 交互次数
	PriceCounts map[PriceBucket]int `json:"price_counts"`

	// Searches 是有界环形缓冲：容量固定，写满后淘汰最旧记录，
	// 避免长生命周期档案的无界增长。
	Searches SearchLog `json:"searches"`

	UpdateTime time.Time `json:"update_time"`
}

// NewBehaviorProfile 创建一个空档案。searchCap <= 0 时使用默认容量。
func NewBehaviorProfile(key string, searchCap int) *BehaviorProfile {
	return &BehaviorProfile{
		Key:            key,
		Views:          make(map[string]*ViewStat),
		CategoryCounts: make(map[Category]int),
		PriceCounts:    make(map[PriceBucket]int),
		Searches:       NewSearchLog(searchCap),
		UpdateTime:     time.Now(),
	}
}

// AddView 累加一次浏览：次数 +1，时长累加。
func (p *BehaviorProfile) AddView(itemID string, durationMs int64) {
	if p.Views == nil {
		p.Views = make(map[string]*ViewStat)
	}
	st, ok := p.Views[itemID]
	if !ok {
		st = &ViewStat{}
		p.Views[itemID] = st
	}
	st.Count++
	st.TotalDurationMs += durationMs
	p.UpdateTime = time.Now()
}

// AddCategoryInterest 累加一次类目交互，并登记首次出现顺序。
func (p *BehaviorProfile) AddCategoryInterest(cate Category) {
	if p.CategoryCounts == nil {
		p.CategoryCounts = make(map[Category]int)
	}
	if _, ok := p.CategoryCounts[cate]; !ok {
		p.CategoryOrder = append(p.CategoryOrder, cate)
	}
	p.CategoryCounts[cate]++
	p.UpdateTime = time.Now()
}

// AddPriceInterest 按固定阈值分桶后累加一次价格交互。
func (p *BehaviorProfile) AddPriceInterest(price float64) {
	if p.PriceCounts == nil {
		p.PriceCounts = make(map[PriceBucket]int)
	}
	p.PriceCounts[BucketForPrice(price)]++
	p.UpdateTime = time.Now()
}

// AddSearch 追加一条搜索记录（环形缓冲，超容量淘汰最旧）。
func (p *BehaviorProfile) AddSearch(query string, resultCount int, at time.Time) {
	p.Searches.Append(SearchRecord{Query: query, ResultCount: resultCount, At: at})
	p.UpdateTime = time.Now()
}

// StartSession 标记一次新会话开始。
func (p *BehaviorProfile) StartSession() {
	p.SessionCount++
	p.UpdateTime = time.Now()
}

// ViewStatFor 返回某物品的浏览统计；从未浏览时返回零值。
func (p *BehaviorProfile) ViewStatFor(itemID string) ViewStat {
	if p.Views == nil {
		return ViewStat{}
	}
	if st, ok := p.Views[itemID]; ok {
		return *st
	}
	return ViewStat{}
}

// HasViewed 判断档案中是否有某物品的浏览记录。
func (p *BehaviorProfile) HasViewed(itemID string) bool {
	return p.ViewStatFor(itemID).Count > 0
}

// TotalCategoryInteractions 返回所有类目交互的总次数。
func (p *BehaviorProfile) TotalCategoryInteractions() int {
	total := 0
	for _, c := range p.CategoryCounts {
		total += c
	}
	return total
}

// TotalPriceInteractions 返回所有价格桶交互的总次数。
func (p *BehaviorProfile) TotalPriceInteractions() int {
	total := 0
	for _, c := range p.PriceCounts {
		total += c
	}
	return total
}
