package core

import "time"

// RecommendContext 承载会话/画像/请求级信息，贯穿各推荐面透传。
type RecommendContext struct {
	SessionID string

	// Profile 是当前会话的行为画像；nil 视为全新用户（冷启动）。
	Profile *BehaviorProfile

	// Now 用于季节性计算的时钟注入；零值时取 time.Now()。
	Now time.Time

	// Params 请求级上下文参数，例如 query、occasion、price_max 等。
	Params map[string]any
}

// Clock 返回注入的时钟，未注入时回退到系统时间。
func (rctx *RecommendContext) Clock() time.Time {
	if rctx == nil || rctx.Now.IsZero() {
		return time.Now()
	}
	return rctx.Now
}

// GetProfile 返回画像；nil context 或未加载时返回 nil。
func (rctx *RecommendContext) GetProfile() *BehaviorProfile {
	if rctx == nil {
		return nil
	}
	return rctx.Profile
}
