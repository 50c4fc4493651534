package store

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/rushteam/giftkit/core"
)

const profileKeyPrefix = "profile:"

// ProfileStore 是 core.ProfileStore 的 KV 实现：档案以 JSON 编码
// 存在 "profile:<key>" 下。
//
// 降级语义：持久化的档案解析失败（PROFILE_CORRUPT）时返回全新档案
// 并记日志，绝不报错——最坏结果是该用户的个性化从零开始。
type ProfileStore struct {
	Store core.Store
	Log   zerolog.Logger

	// SearchLogCap 决定新档案的搜索日志容量；<= 0 用默认值。
	SearchLogCap int
}

func NewProfileStore(s core.Store) *ProfileStore {
	return &ProfileStore{Store: s, Log: zerolog.Nop()}
}

func (ps *ProfileStore) Load(ctx context.Context, profileKey string) (*core.BehaviorProfile, error) {
	data, err := ps.Store.Get(ctx, profileKeyPrefix+profileKey)
	if err != nil {
		// key 不存在原样返回，由调用方（Tracker）决定新档案的参数
		return nil, err
	}

	var p core.BehaviorProfile
	if err := json.Unmarshal(data, &p); err != nil {
		ps.Log.Warn().Err(err).Str("profile", profileKey).
			Msg("store: corrupt profile payload, starting fresh")
		return core.NewBehaviorProfile(profileKey, ps.SearchLogCap), nil
	}
	if p.Key == "" {
		p.Key = profileKey
	}
	return &p, nil
}

func (ps *ProfileStore) Save(ctx context.Context, profile *core.BehaviorProfile) error {
	if profile == nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: nil profile")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return ps.Store.Set(ctx, profileKeyPrefix+profile.Key, data)
}

var _ core.ProfileStore = (*ProfileStore)(nil)
