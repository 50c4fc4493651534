package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/giftkit/core"
	"github.com/rushteam/giftkit/rank"
	"github.com/rushteam/giftkit/store"
)

func catalogItem(id string, cate core.Category, price float64, rate *int, reviews int, title string) *core.Item {
	it := core.NewItem(id)
	it.Category = cate
	it.Price = price
	it.SuccessRate = rate
	it.TotalReviews = reviews
	it.Title = title
	return it
}

func ptr(v int) *int { return &v }

func ids(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// 固定在三月的时钟，物品标题刻意避开各月季节关键词。
var march = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestRecommender(items ...*core.Item) *Recommender {
	r := NewRecommender(store.NewMemoryCatalog(items...))
	r.Scorer = &rank.PersonalizedScorer{
		Weights: rank.DefaultSubWeights(),
		Now:     func() time.Time { return march },
	}
	return r
}

func TestDefault_Ordering(t *testing.T) {
	r := newTestRecommender(
		catalogItem("low", core.CategoryHome, 30, ptr(60), 10, "ceramic vase"),
		catalogItem("unrated", core.CategoryBooks, 20, nil, 0, "notebook"),
		catalogItem("high", core.CategoryTech, 100, ptr(95), 50, "wireless earbuds"),
		catalogItem("mid", core.CategoryFood, 40, ptr(80), 30, "tea sampler"),
	)
	rctx := &core.RecommendContext{SessionID: "s1", Now: march}

	got := ids(r.Default(context.Background(), rctx, 10))
	want := []string{"high", "mid", "low", "unrated"}
	if !equalIDs(got, want) {
		t.Errorf("Default() = %v, want %v", got, want)
	}
}

func TestDefault_TieBreakByReviews(t *testing.T) {
	r := newTestRecommender(
		catalogItem("few", core.CategoryHome, 30, ptr(90), 5, "vase"),
		catalogItem("many", core.CategoryTech, 100, ptr(90), 500, "earbuds"),
	)
	rctx := &core.RecommendContext{SessionID: "s1", Now: march}

	got := ids(r.Default(context.Background(), rctx, 10))
	if !equalIDs(got, []string{"many", "few"}) {
		t.Errorf("Default() = %v, want many before few", got)
	}
}

func TestDefault_Limit(t *testing.T) {
	r := newTestRecommender(
		catalogItem("a", core.CategoryHome, 30, ptr(90), 5, "vase"),
		catalogItem("b", core.CategoryTech, 100, ptr(80), 50, "earbuds"),
		catalogItem("c", core.CategoryFood, 40, ptr(70), 30, "tea"),
	)
	rctx := &core.RecommendContext{SessionID: "s1", Now: march}

	if got := r.Default(context.Background(), rctx, 2); len(got) != 2 {
		t.Errorf("limit 2 returned %d items", len(got))
	}
}

func TestPersonalized_NewUserMatchesDefault(t *testing.T) {
	r := newTestRecommender(
		catalogItem("a", core.CategoryTech, 100, ptr(85), 150, "earbuds"),
		catalogItem("b", core.CategoryHome, 30, ptr(95), 300, "vase"),
		catalogItem("c", core.CategoryBooks, 20, nil, 0, "notebook"),
	)

	// 首个会话：SessionCount == 1，不算回访用户
	profile := core.NewBehaviorProfile("u1", 0)
	profile.StartSession()
	for i := 0; i < 5; i++ {
		profile.AddCategoryInterest(core.CategoryTech)
	}
	rctx := &core.RecommendContext{SessionID: "s1", Profile: profile, Now: march}

	def := ids(r.Default(context.Background(), rctx, 10))
	per := ids(r.Personalized(context.Background(), rctx, 10))
	if !equalIDs(def, per) {
		t.Errorf("new-user personalized = %v, default = %v; must match exactly", per, def)
	}
}

func TestPersonalized_TechAffinityDominates(t *testing.T) {
	r := newTestRecommender(
		catalogItem("1", core.CategoryTech, 100, ptr(85), 150, "wireless earbuds"),
		catalogItem("2", core.CategoryTech, 110, ptr(90), 200, "smart speaker"),
		catalogItem("3", core.CategoryHome, 30, ptr(95), 300, "ceramic vase"),
	)

	profile := core.NewBehaviorProfile("u1", 0)
	profile.StartSession()
	profile.StartSession()
	for i := 0; i < 3; i++ {
		profile.AddCategoryInterest(core.CategoryTech)
	}
	rctx := &core.RecommendContext{SessionID: "s1", Profile: profile, Now: march}

	got := ids(r.Personalized(context.Background(), rctx, 3))
	// 类目亲和度压过 item 3 更高的成功率；1 与 2 个性化分相同，
	// 由成功率口碑 tie-break
	want := []string{"2", "1", "3"}
	if !equalIDs(got, want) {
		t.Errorf("Personalized() = %v, want %v", got, want)
	}
}

func TestPersonalized_SkipsInactive(t *testing.T) {
	inactive := catalogItem("dead", core.CategoryTech, 100, ptr(99), 500, "discontinued gadget")
	inactive.Active = false
	r := newTestRecommender(
		inactive,
		catalogItem("live", core.CategoryTech, 100, ptr(80), 50, "earbuds"),
	)

	profile := core.NewBehaviorProfile("u1", 0)
	profile.StartSession()
	profile.StartSession()
	profile.AddCategoryInterest(core.CategoryTech)
	rctx := &core.RecommendContext{SessionID: "s1", Profile: profile, Now: march}

	got := ids(r.Personalized(context.Background(), rctx, 10))
	if !equalIDs(got, []string{"live"}) {
		t.Errorf("Personalized() = %v, inactive item must be excluded", got)
	}
}

func TestSimilarTo(t *testing.T) {
	anchor := catalogItem("a", core.CategoryTech, 100, ptr(90), 50, "smart speaker")
	r := newTestRecommender(
		anchor,
		catalogItem("b", core.CategoryTech, 110, ptr(85), 40, "smart display"),
		catalogItem("c", core.CategoryHome, 25, ptr(70), 20, "ceramic vase"),
	)
	rctx := &core.RecommendContext{SessionID: "s1", Now: march}

	got := ids(r.SimilarTo(context.Background(), rctx, anchor, 10))
	if !equalIDs(got, []string{"b", "c"}) {
		t.Errorf("SimilarTo() = %v, want [b c]", got)
	}

	if got := r.SimilarTo(context.Background(), rctx, nil, 10); got != nil {
		t.Errorf("nil anchor must return nil, got %v", got)
	}
}

func TestTrending_FilterAndSeededOrder(t *testing.T) {
	build := func() *Recommender {
		r := newTestRecommender(
			catalogItem("a", core.CategoryTech, 100, ptr(86), 50, "earbuds"),
			catalogItem("b", core.CategoryHome, 30, ptr(92), 300, "vase"),
			catalogItem("c", core.CategoryFood, 40, ptr(70), 30, "tea"),
			catalogItem("d", core.CategoryBooks, 20, nil, 0, "notebook"),
			catalogItem("e", core.CategoryJewelry, 200, ptr(88), 80, "necklace"),
		)
		r.SeedTrending(42)
		return r
	}
	rctx := &core.RecommendContext{SessionID: "s1", Now: march}

	first := build().Trending(context.Background(), rctx, 10)
	for _, it := range first {
		if it.SuccessRateOrZero() < DefaultTrendingMinRate {
			t.Errorf("item %s with rate %d passed the trending threshold", it.ID, it.SuccessRateOrZero())
		}
	}
	if len(first) != 3 {
		t.Fatalf("trending returned %d items, want 3", len(first))
	}

	// 同种子必然产出同一排序
	second := build().Trending(context.Background(), rctx, 10)
	if !equalIDs(ids(first), ids(second)) {
		t.Errorf("seeded trending not deterministic: %v vs %v", ids(first), ids(second))
	}
}

func TestSeasonal_UsesInjectedClock(t *testing.T) {
	r := newTestRecommender(
		catalogItem("xmas", core.CategoryHome, 30, ptr(80), 50, "festive christmas candle"),
		catalogItem("beach", core.CategoryExperiences, 120, ptr(90), 80, "beach day trip"),
		catalogItem("plain", core.CategoryBooks, 20, ptr(85), 40, "notebook"),
	)

	december := &core.RecommendContext{
		SessionID: "s1",
		Now:       time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC),
	}
	if got := ids(r.Seasonal(context.Background(), december, 10)); !equalIDs(got, []string{"xmas"}) {
		t.Errorf("december seasonal = %v, want [xmas]", got)
	}

	july := &core.RecommendContext{
		SessionID: "s1",
		Now:       time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
	}
	if got := ids(r.Seasonal(context.Background(), july, 10)); !equalIDs(got, []string{"beach"}) {
		t.Errorf("july seasonal = %v, want [beach]", got)
	}
}

func TestCollaborative_FallsBackWithoutView(t *testing.T) {
	anchor := catalogItem("a", core.CategoryTech, 100, ptr(90), 50, "smart speaker")
	r := newTestRecommender(
		anchor,
		catalogItem("b", core.CategoryTech, 110, ptr(85), 40, "smart display"),
		catalogItem("c", core.CategoryHome, 25, ptr(70), 20, "ceramic vase"),
	)

	profile := core.NewBehaviorProfile("u1", 0)
	rctx := &core.RecommendContext{SessionID: "s1", Profile: profile, Now: march}

	got := r.Collaborative(context.Background(), rctx, anchor, 10)
	sim := r.SimilarTo(context.Background(), rctx, anchor, 10)
	if !equalIDs(ids(got), ids(sim)) {
		t.Errorf("no-view collaborative = %v, want similarTo order %v", ids(got), ids(sim))
	}
}

func TestCollaborative_BlendOrdering(t *testing.T) {
	anchor := catalogItem("a", core.CategoryTech, 100, ptr(90), 50, "smart speaker")
	r := newTestRecommender(
		anchor,
		catalogItem("near", core.CategoryTech, 105, ptr(88), 40, "smart display"),
		catalogItem("farcat", core.CategoryHome, 100, ptr(90), 20, "vase"),
		catalogItem("farall", core.CategoryJewelry, 400, ptr(50), 10, "necklace"),
	)

	profile := core.NewBehaviorProfile("u1", 0)
	profile.AddView("a", 2000)
	rctx := &core.RecommendContext{SessionID: "s1", Profile: profile, Now: march}

	got := ids(r.Collaborative(context.Background(), rctx, anchor, 10))
	want := []string{"near", "farcat", "farall"}
	if !equalIDs(got, want) {
		t.Errorf("Collaborative() = %v, want %v", got, want)
	}
	for _, id := range got {
		if id == "a" {
			t.Error("anchor must not appear in its own collaborative list")
		}
	}
}

func TestFinish_DedupAndSurfaceLabel(t *testing.T) {
	r := newTestRecommender(
		catalogItem("a", core.CategoryTech, 100, ptr(90), 50, "earbuds"),
	)
	rctx := &core.RecommendContext{SessionID: "s1", Now: march}

	got := r.Default(context.Background(), rctx, 10)
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	lbl, ok := got[0].Labels["surface"]
	if !ok || lbl.Value != "default" {
		t.Errorf("surface label = %+v, want default", lbl)
	}
}

func TestRecommender_EmptyCatalogDegrades(t *testing.T) {
	r := newTestRecommender()
	rctx := &core.RecommendContext{SessionID: "s1", Now: march}

	if got := r.Default(context.Background(), rctx, 10); len(got) != 0 {
		t.Errorf("empty catalog must yield empty result, got %v", ids(got))
	}
	if got := r.Trending(context.Background(), rctx, 10); len(got) != 0 {
		t.Errorf("empty trending result expected, got %v", ids(got))
	}
}
