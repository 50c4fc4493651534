package behavior

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/giftkit/core"
)

// DefaultViewDurationMs 是未测到停留时长时的哨兵值。
const DefaultViewDurationMs = 1000

// Tracker 是行为信号的写入口：把浏览/搜索/类目/价格交互累加进
// 行为档案并持久化。
//
// 并发模型：同一 profileKey 的 read-modify-write 通过按 key 分配的
// 互斥锁串行化；不同档案之间永不竞争。
//
// 错误语义：
//   - 持久化失败原样向上传播（重试是调用方的责任，内部不重试）
//   - 事件通道写失败只记日志，绝不阻断追踪调用
type Tracker struct {
	Profiles core.ProfileStore
	Events   core.EventSink // 可选；nil 时不镜像事件
	Log      zerolog.Logger

	// SearchLogCap 覆盖新档案的搜索日志容量；<= 0 用默认值。
	SearchLogCap int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTracker(profiles core.ProfileStore, events core.EventSink) *Tracker {
	return &Tracker{
		Profiles: profiles,
		Events:   events,
		Log:      zerolog.Nop(),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (t *Tracker) lockFor(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locks == nil {
		t.locks = make(map[string]*sync.Mutex)
	}
	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	return l
}

// mutate 是所有写路径的骨架：锁 key → 读档案 → 变更 → 写回。
func (t *Tracker) mutate(ctx context.Context, key string, fn func(p *core.BehaviorProfile)) error {
	l := t.lockFor(key)
	l.Lock()
	defer l.Unlock()

	p, err := t.load(ctx, key)
	if err != nil {
		return err
	}
	fn(p)
	return t.Profiles.Save(ctx, p)
}

func (t *Tracker) load(ctx context.Context, key string) (*core.BehaviorProfile, error) {
	p, err := t.Profiles.Load(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) || core.IsNotFound(err) {
			return core.NewBehaviorProfile(key, t.SearchLogCap), nil
		}
		return nil, err
	}
	if p == nil {
		p = core.NewBehaviorProfile(key, t.SearchLogCap)
	}
	return p, nil
}

// Profile 加载当前档案快照（排序面读取用）；不存在时返回全新档案。
func (t *Tracker) Profile(ctx context.Context, key string) (*core.BehaviorProfile, error) {
	return t.load(ctx, key)
}

// StartSession 标记一次新会话：会话计数 +1。
func (t *Tracker) StartSession(ctx context.Context, key string) error {
	err := t.mutate(ctx, key, func(p *core.BehaviorProfile) {
		p.StartSession()
	})
	if err != nil {
		return err
	}
	t.emit(ctx, core.Event{Type: "session_start", SessionID: key, At: time.Now()})
	return nil
}

// RecordView 累加一次浏览；durationMs <= 0 时使用 1000ms 哨兵值。
func (t *Tracker) RecordView(ctx context.Context, key, itemID string, durationMs int64) error {
	if durationMs <= 0 {
		durationMs = DefaultViewDurationMs
	}
	err := t.mutate(ctx, key, func(p *core.BehaviorProfile) {
		p.AddView(itemID, durationMs)
	})
	if err != nil {
		return err
	}
	t.emit(ctx, core.Event{
		Type: "view", ItemID: itemID, SessionID: key,
		Metadata: map[string]any{"duration_ms": durationMs}, At: time.Now(),
	})
	return nil
}

// RecordCategoryInterest 累加一次类目交互。
func (t *Tracker) RecordCategoryInterest(ctx context.Context, key string, cate core.Category) error {
	err := t.mutate(ctx, key, func(p *core.BehaviorProfile) {
		p.AddCategoryInterest(cate)
	})
	if err != nil {
		return err
	}
	t.emit(ctx, core.Event{
		Type: "category_interest", SessionID: key,
		Metadata: map[string]any{"category": string(cate)}, At: time.Now(),
	})
	return nil
}

// RecordPriceInterest 按固定阈值分桶后累加一次价格交互。
func (t *Tracker) RecordPriceInterest(ctx context.Context, key string, price float64) error {
	err := t.mutate(ctx, key, func(p *core.BehaviorProfile) {
		p.AddPriceInterest(price)
	})
	if err != nil {
		return err
	}
	t.emit(ctx, core.Event{
		Type: "price_interest", SessionID: key,
		Metadata: map[string]any{"bucket": string(core.BucketForPrice(price))}, At: time.Now(),
	})
	return nil
}

// RecordSearch 追加一条搜索记录（有界环形缓冲，最旧淘汰）。
func (t *Tracker) RecordSearch(ctx context.Context, key, query string, resultCount int) error {
	now := time.Now()
	err := t.mutate(ctx, key, func(p *core.BehaviorProfile) {
		p.AddSearch(query, resultCount, now)
	})
	if err != nil {
		return err
	}
	t.emit(ctx, core.Event{
		Type: "search", SessionID: key,
		Metadata: map[string]any{"query": query, "result_count": resultCount}, At: now,
	})
	return nil
}

func (t *Tracker) emit(ctx context.Context, ev core.Event) {
	if t.Events == nil {
		return
	}
	if err := t.Events.Append(ctx, ev); err != nil {
		t.Log.Warn().Err(err).Str("event", ev.Type).Str("session", ev.SessionID).
			Msg("behavior: event sink append failed")
	}
}
