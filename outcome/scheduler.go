package outcome

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRecomputeInterval 是全量重算的默认周期。
// 评价写路径是最终一致的，周期性重算免去了每次写入同步重算的成本。
const DefaultRecomputeInterval = 5 * time.Minute

// Scheduler 驱动 Aggregator 的周期性全量重算。
//
// 触发源是注入的 tick 通道而非隐式的墙钟定时器：测试可以手工发 tick
// 断言重算行为，生产用 NewIntervalScheduler 绑定 time.Ticker。
// 重算与请求处理相互独立，排序面只读当前已提交的统计值
// （stale-but-consistent 可接受）。
type Scheduler struct {
	Aggregator *Aggregator
	Ticks      <-chan time.Time
	Log        zerolog.Logger
}

// NewIntervalScheduler 返回按固定间隔触发的调度器及其停止函数。
// interval <= 0 时使用默认 5 分钟。
func NewIntervalScheduler(agg *Aggregator, interval time.Duration) (*Scheduler, func()) {
	if interval <= 0 {
		interval = DefaultRecomputeInterval
	}
	ticker := time.NewTicker(interval)
	s := &Scheduler{Aggregator: agg, Ticks: ticker.C, Log: zerolog.Nop()}
	return s, ticker.Stop
}

// Run 先执行一次启动重算，之后每收到一个 tick 重算一轮；
// 失败只记日志，下一个 tick 自然重试。ctx 取消时退出。
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-s.Ticks:
			if !ok {
				return
			}
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if s.Aggregator == nil {
		return
	}
	if err := s.Aggregator.RecomputeAll(ctx); err != nil {
		s.Log.Warn().Err(err).Msg("outcome: recompute pass failed, will retry next tick")
	}
}
