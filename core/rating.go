package core

import "time"

// Rating 是一条送礼结果记录：某用户对某个礼物的满意度反馈。
// 除 HelpfulCount（通过显式投票单调递增）外不可变。
type Rating struct {
	ID           string
	ItemID       string
	Satisfaction int // 固定序数刻度 1-5
	Comment      string
	HelpfulCount int // 非负，单调递增
	CreatedAt    time.Time
}
