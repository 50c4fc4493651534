package core

import "encoding/json"

// DefaultSearchLogCap 是搜索日志环形缓冲的默认容量。
const DefaultSearchLogCap = 50

// SearchLog 是固定容量的环形缓冲：写满后覆盖最旧记录。
// 设计目的：长生命周期档案的搜索历史必须有界，淘汰策略为 oldest-evicted。
//
// JSON 序列化为"时间顺序的扁平数组 + 容量"，反序列化后恢复环形结构，
// 保证档案持久化往返不丢顺序。
type SearchLog struct {
	cap   int
	buf   []SearchRecord
	start int // 最旧记录的下标
	size  int
}

func NewSearchLog(capacity int) SearchLog {
	if capacity <= 0 {
		capacity = DefaultSearchLogCap
	}
	return SearchLog{cap: capacity, buf: make([]SearchRecord, capacity)}
}

// Append 追加一条记录；缓冲已满时覆盖最旧的一条。
func (l *SearchLog) Append(rec SearchRecord) {
	if l.cap == 0 {
		*l = NewSearchLog(0)
	}
	idx := (l.start + l.size) % l.cap
	l.buf[idx] = rec
	if l.size < l.cap {
		l.size++
		return
	}
	l.start = (l.start + 1) % l.cap
}

// Len 返回当前记录数（<= 容量）。
func (l *SearchLog) Len() int { return l.size }

// Cap 返回固定容量。
func (l *SearchLog) Cap() int { return l.cap }

// Records 按时间顺序（最旧在前）返回所有记录的拷贝。
func (l *SearchLog) Records() []SearchRecord {
	out := make([]SearchRecord, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, l.buf[(l.start+i)%l.cap])
	}
	return out
}

type searchLogJSON struct {
	Cap     int            `json:"cap"`
	Records []SearchRecord `json:"records"`
}

func (l SearchLog) MarshalJSON() ([]byte, error) {
	return json.Marshal(searchLogJSON{Cap: l.cap, Records: l.Records()})
}

func (l *SearchLog) UnmarshalJSON(data []byte) error {
	var raw searchLogJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = NewSearchLog(raw.Cap)
	for _, rec := range raw.Records {
		l.Append(rec)
	}
	return nil
}
