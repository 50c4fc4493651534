package filter

import (
	"context"
	"testing"

	"github.com/rushteam/giftkit/core"
)

func TestMinSuccessRateFilter(t *testing.T) {
	f := &MinSuccessRateFilter{Min: 85}
	rate := func(v int) *core.Item {
		it := core.NewItem("x")
		it.SuccessRate = &v
		return it
	}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{"above threshold", rate(90), false},
		{"at threshold", rate(85), false},
		{"below threshold", rate(84), true},
		{"unrated always filtered", core.NewItem("y"), true},
		{"nil item", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), nil, tt.item)
			if err != nil || got != tt.want {
				t.Errorf("ShouldFilter = %v, %v, want %v", got, err, tt.want)
			}
		})
	}
}

func TestFilterNode_LabelsFiltered(t *testing.T) {
	inactive := core.NewItem("dead")
	inactive.Active = false
	live := core.NewItem("live")

	n := &FilterNode{Filters: []Filter{&ActiveFilter{}}}
	out, err := n.Process(context.Background(), nil, []*core.Item{inactive, live})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "live" {
		t.Fatalf("out = %v", out)
	}
	lbl, ok := inactive.Labels["filtered"]
	if !ok || lbl.Source != "filter.active" {
		t.Errorf("filtered label = %+v", lbl)
	}
}
