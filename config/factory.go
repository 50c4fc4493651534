package config

import (
	"github.com/rs/zerolog"

	"github.com/rushteam/giftkit/behavior"
	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/outcome"
	"github.com/rushteam/giftkit/rank"
	"github.com/rushteam/giftkit/recommend"
	"github.com/rushteam/giftkit/similarity"
)

// Deps 是引擎依赖的外部协作方：目录、评价、档案与事件接口。
type Deps struct {
	Catalog  core.CatalogProvider
	Ratings  core.RatingProvider
	Metrics  core.MetricsSink
	Profiles core.ProfileStore
	Events   core.EventSink // 可选
	Log      zerolog.Logger
}

// Engine 是按配置装配好的一整套组件。
type Engine struct {
	Recommender *recommend.Recommender
	Tracker     *behavior.Tracker
	Aggregator  *outcome.Aggregator
	Scheduler   *outcome.Scheduler
	Clusters    *similarity.ClusterEngine

	// StopScheduler 停掉重算定时器（Scheduler.Run 退出后调用）。
	StopScheduler func()
}

// Build 按配置装配推荐引擎。
func Build(cfg *Config, deps Deps) (*Engine, error) {
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scorer := rank.NewPersonalizedScorer()
	scorer.Weights = cfg.Scorer.Weights

	rec := recommend.NewRecommender(deps.Catalog)
	rec.Scorer = scorer
	rec.Sim = &similarity.Engine{Weights: cfg.Similarity}
	rec.Log = deps.Log
	rec.TrendingMinRate = cfg.Trending.MinSuccessRate
	rec.TrendingJitter = cfg.Trending.Jitter
	rec.DefaultLimit = cfg.DefaultLimit
	if cfg.Trending.Seed != nil {
		rec.SeedTrending(*cfg.Trending.Seed)
	}

	tracker := behavior.NewTracker(deps.Profiles, deps.Events)
	tracker.Log = deps.Log
	tracker.SearchLogCap = cfg.SearchLogCapacity

	agg := outcome.NewAggregator(deps.Ratings, deps.Metrics)
	agg.Log = deps.Log
	agg.SuccessThreshold = cfg.Recompute.Threshold
	agg.Concurrency = cfg.Recompute.Concurrency

	sched, stop := outcome.NewIntervalScheduler(agg, cfg.RecomputeInterval())
	sched.Log = deps.Log

	clusters, err := similarity.NewClusterEngine(cfg.Clusters...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Recommender:   rec,
		Tracker:       tracker,
		Aggregator:    agg,
		Scheduler:     sched,
		Clusters:      clusters,
		StopScheduler: stop,
	}, nil
}
