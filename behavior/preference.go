package behavior

import (
	"sort"

	"github.com/rushteam/giftkit/core"
)

// 档案读侧的纯函数：对档案快照求偏好，无副作用，可并发调用。

// IsReturningUser 判断是否回访用户：会话计数 > 1。
// 个性化面只对回访用户生效，新用户降级为默认排序。
func IsReturningUser(p *core.BehaviorProfile) bool {
	return p != nil && p.SessionCount > 1
}

// PreferredCategories 返回至多 k 个类目，按交互次数降序；
// 次数相同时保持首次出现的顺序（稳定排序 + CategoryOrder）。
func PreferredCategories(p *core.BehaviorProfile, k int) []core.Category {
	if p == nil || len(p.CategoryOrder) == 0 {
		return nil
	}
	out := make([]core.Category, len(p.CategoryOrder))
	copy(out, p.CategoryOrder)
	sort.SliceStable(out, func(i, j int) bool {
		return p.CategoryCounts[out[i]] > p.CategoryCounts[out[j]]
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// PreferredPriceBucket 返回交互次数最多的价格桶；
// 无任何价格交互时返回哨兵值 BucketAny。
func PreferredPriceBucket(p *core.BehaviorProfile) core.PriceBucket {
	if p == nil {
		return core.BucketAny
	}
	best := core.BucketAny
	bestCount := 0
	for _, b := range []core.PriceBucket{
		core.BucketUnder25, core.Bucket25To50, core.Bucket50To100, core.Bucket100To200, core.BucketOver200,
	} {
		if c := p.PriceCounts[b]; c > bestCount {
			best, bestCount = b, c
		}
	}
	return best
}
