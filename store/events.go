package store

import (
	"context"
	"encoding/json"

	"github.com/rushteam/giftkit/core"
)

const eventKeyPrefix = "events:"

// EventSink 是 core.EventSink 的 KV 实现：事件 JSON 化后追加进
// 按会话分键的有序集合，score 为事件时间戳（纳秒），天然按时间排序。
// 通道语义为 at-least-once：重复事件只会放大计数器，可容忍。
type EventSink struct {
	Store core.KeyValueStore
}

func NewEventSink(s core.KeyValueStore) *EventSink {
	return &EventSink{Store: s}
}

func (es *EventSink) Append(ctx context.Context, ev core.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return es.Store.ZAdd(ctx, eventKeyPrefix+ev.SessionID, float64(ev.At.UnixNano()), string(data))
}

// Recent 返回某会话最近的 n 条事件（新的在前），调试/观测用。
func (es *EventSink) Recent(ctx context.Context, sessionID string, n int64) ([]core.Event, error) {
	if n <= 0 {
		n = 20
	}
	members, err := es.Store.ZRevRange(ctx, eventKeyPrefix+sessionID, 0, n-1)
	if err != nil {
		return nil, err
	}
	out := make([]core.Event, 0, len(members))
	for _, m := range members {
		var ev core.Event
		if json.Unmarshal([]byte(m), &ev) != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

var _ core.EventSink = (*EventSink)(nil)
