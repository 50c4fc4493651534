// Package giftkit 是一个礼物推荐引擎（Gift Recommender Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐面通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
// - 策略可插拔: 打分器（rank.Scorer）、簇规则（CEL）、随机源、时钟均可注入
// - 永不失败: 数据不可用/档案损坏/退化计算一律降级，最坏结果是
//   个性化程度更低的排序
package giftkit

import "github.com/rushteam/giftkit/pipeline"

// 轻量 facade：便于用户直接 import "giftkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
