package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/rank"
	"github.com/rushteam/giftkit/similarity"
)

// Config 是引擎的可调参数集合（支持 YAML）。
// 每个参数都有代码内默认值：零配置也能跑起来。
type Config struct {
	Scorer struct {
		Weights rank.SubWeights `yaml:"weights"`
	} `yaml:"scorer"`

	Similarity similarity.Weights `yaml:"similarity"`

	Trending struct {
		MinSuccessRate int     `yaml:"min_success_rate"`
		Jitter         float64 `yaml:"jitter"`
		// Seed 固定抖动随机种子（压测/复现场景）；不设则每进程随机。
		Seed *int64 `yaml:"seed"`
	} `yaml:"trending"`

	Recompute struct {
		// IntervalSeconds 是全量重算周期（秒）；0 表示默认 5 分钟。
		IntervalSeconds int `yaml:"interval_seconds"`
		Threshold       int `yaml:"threshold"`
		Concurrency     int `yaml:"concurrency"`
	} `yaml:"recompute"`

	// SearchLogCapacity 是行为档案搜索日志环形缓冲的容量。
	SearchLogCapacity int `yaml:"search_log_capacity"`

	// Clusters 是附加的主题簇规则（CEL 表达式），与内置规则合并。
	Clusters []similarity.Rule `yaml:"clusters"`

	DefaultLimit int `yaml:"default_limit"`
}

// Default 返回全默认配置。
func Default() *Config {
	cfg := &Config{}
	cfg.Scorer.Weights = rank.DefaultSubWeights()
	cfg.Similarity = similarity.DefaultWeights()
	cfg.Trending.MinSuccessRate = 85
	cfg.Trending.Jitter = 5.0
	cfg.Recompute.Threshold = 4
	cfg.SearchLogCapacity = core.DefaultSearchLogCap
	cfg.DefaultLimit = 10
	return cfg
}

// Load 从 YAML 文件加载配置，未出现的字段保持默认值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置合法性。
func (c *Config) Validate() error {
	invalid := func(msg string) error {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, msg)
	}
	w := c.Scorer.Weights
	if w.View < 0 || w.Category < 0 || w.Price < 0 || w.Search < 0 || w.Season < 0 {
		return invalid("config: scorer weights must be non-negative")
	}
	s := c.Similarity
	if s.Category < 0 || s.Price < 0 || s.SuccessRate < 0 || s.Text < 0 {
		return invalid("config: similarity weights must be non-negative")
	}
	if c.Trending.MinSuccessRate < 0 || c.Trending.MinSuccessRate > 100 {
		return invalid("config: trending.min_success_rate must be in [0,100]")
	}
	if c.Recompute.IntervalSeconds < 0 {
		return invalid("config: recompute.interval_seconds must be >= 0")
	}
	// 0 表示用默认门槛；满意度刻度为 1-5，越界的门槛会让成功率恒为 0% 或 100%
	if t := c.Recompute.Threshold; t < 0 || t > 5 {
		return invalid("config: recompute.threshold must be in [1,5] (0 = default)")
	}
	return nil
}

// RecomputeInterval 返回重算周期；未配置时为默认 5 分钟。
func (c *Config) RecomputeInterval() time.Duration {
	if c.Recompute.IntervalSeconds <= 0 {
		return 0 // NewIntervalScheduler 内部落到默认值
	}
	return time.Duration(c.Recompute.IntervalSeconds) * time.Second
}
