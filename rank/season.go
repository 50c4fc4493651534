package rank

import (
	"strings"
	"time"

	"github.com/rushteam/giftkit/core"
)

// monthKeywords 是按月份索引的季节关键词表（1-12）。
// 物品文本命中当月关键词的比例即季节性子分。
var monthKeywords = map[time.Month][]string{
	time.January:   {"winter", "cozy", "new year", "fitness", "planner", "resolution"},
	time.February:  {"valentine", "romantic", "love", "chocolate", "roses", "couple"},
	time.March:     {"spring", "garden", "fresh", "renewal", "outdoor"},
	time.April:     {"spring", "easter", "garden", "pastel", "bloom"},
	time.May:       {"mother", "spring", "flowers", "picnic", "brunch"},
	time.June:      {"father", "summer", "grill", "travel", "beach"},
	time.July:      {"summer", "beach", "travel", "adventure", "sun"},
	time.August:    {"summer", "outdoor", "adventure", "travel", "sunset"},
	time.September: {"autumn", "fall", "cozy", "harvest", "journal"},
	time.October:   {"autumn", "halloween", "pumpkin", "spooky", "candle"},
	time.November:  {"thanksgiving", "gratitude", "autumn", "harvest", "cozy"},
	time.December:  {"christmas", "holiday", "winter", "festive", "snow"},
}

// SeasonKeywords 返回某月的关键词表。
func SeasonKeywords(month time.Month) []string {
	return monthKeywords[month]
}

// SeasonScore 计算季节性子分 [0,1]：当月关键词在物品文本中出现的比例。
// 无命中时为 0（季节性没有中性默认值——不合季就是不合季）。
func SeasonScore(item *core.Item, month time.Month) float64 {
	kws := monthKeywords[month]
	if item == nil || len(kws) == 0 {
		return 0
	}
	text := strings.ToLower(item.Text())
	hits := 0
	for _, kw := range kws {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(kws))
}

// InSeason 判断物品文本是否至少命中一个当月关键词（应季面的过滤条件）。
func InSeason(item *core.Item, month time.Month) bool {
	return SeasonScore(item, month) > 0
}
