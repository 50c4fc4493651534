package behavior

import (
	"context"
	"testing"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/store"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	return NewTracker(store.NewProfileStore(kv), store.NewEventSink(kv))
}

func TestTracker_RecordView_DefaultDuration(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	if err := tr.RecordView(ctx, "u1", "g1", 0); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	p, err := tr.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	st := p.ViewStatFor("g1")
	if st.Count != 1 || st.TotalDurationMs != DefaultViewDurationMs {
		t.Errorf("view stat = %+v, want count=1 duration=%d", st, DefaultViewDurationMs)
	}
}

func TestTracker_PersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	_ = tr.StartSession(ctx, "u1")
	_ = tr.RecordCategoryInterest(ctx, "u1", core.CategoryTech)
	_ = tr.RecordPriceInterest(ctx, "u1", 30)
	_ = tr.RecordSearch(ctx, "u1", "watch", 3)

	p, err := tr.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.SessionCount != 1 {
		t.Errorf("session count = %d, want 1", p.SessionCount)
	}
	if p.CategoryCounts[core.CategoryTech] != 1 {
		t.Errorf("category counts = %v", p.CategoryCounts)
	}
	if p.PriceCounts[core.Bucket25To50] != 1 {
		t.Errorf("price counts = %v", p.PriceCounts)
	}
	if p.Searches.Len() != 1 {
		t.Errorf("search log len = %d, want 1", p.Searches.Len())
	}
}

func TestIsReturningUser(t *testing.T) {
	tests := []struct {
		name     string
		sessions int
		want     bool
	}{
		{"nil profile", -1, false},
		{"zero sessions", 0, false},
		{"single session", 1, false},
		{"returning", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p *core.BehaviorProfile
			if tt.sessions >= 0 {
				p = core.NewBehaviorProfile("u", 0)
				p.SessionCount = tt.sessions
			}
			if got := IsReturningUser(p); got != tt.want {
				t.Errorf("IsReturningUser = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreferredCategories_TieBreakByFirstSeen(t *testing.T) {
	p := core.NewBehaviorProfile("u", 0)
	// home 先出现，books 后出现，次数相同；tech 次数最多
	p.AddCategoryInterest(core.CategoryHome)
	p.AddCategoryInterest(core.CategoryBooks)
	p.AddCategoryInterest(core.CategoryTech)
	p.AddCategoryInterest(core.CategoryTech)

	got := PreferredCategories(p, 3)
	want := []core.Category{core.CategoryTech, core.CategoryHome, core.CategoryBooks}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPreferredCategories_LimitsToK(t *testing.T) {
	p := core.NewBehaviorProfile("u", 0)
	p.AddCategoryInterest(core.CategoryHome)
	p.AddCategoryInterest(core.CategoryBooks)
	p.AddCategoryInterest(core.CategoryTech)

	if got := PreferredCategories(p, 2); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if got := PreferredCategories(nil, 2); got != nil {
		t.Errorf("nil profile should yield nil, got %v", got)
	}
}

func TestPreferredPriceBucket(t *testing.T) {
	p := core.NewBehaviorProfile("u", 0)
	if got := PreferredPriceBucket(p); got != core.BucketAny {
		t.Errorf("empty profile bucket = %v, want %v", got, core.BucketAny)
	}

	p.AddPriceInterest(30)
	p.AddPriceInterest(40)
	p.AddPriceInterest(250)
	if got := PreferredPriceBucket(p); got != core.Bucket25To50 {
		t.Errorf("bucket = %v, want %v", got, core.Bucket25To50)
	}
}

func TestTracker_SearchLogBounded(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	tr.SearchLogCap = 2

	_ = tr.RecordSearch(ctx, "u1", "first", 1)
	_ = tr.RecordSearch(ctx, "u1", "second", 2)
	_ = tr.RecordSearch(ctx, "u1", "third", 3)

	p, _ := tr.Profile(ctx, "u1")
	recs := p.Searches.Records()
	if len(recs) != 2 || recs[0].Query != "second" || recs[1].Query != "third" {
		t.Errorf("bounded search log = %+v", recs)
	}
}
