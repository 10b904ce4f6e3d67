package watering

import (
	"testing"
	"time"
)

func TestIntervalDays(t *testing.T) {
	cases := []struct {
		species string
		want    int
	}{
		{"Weeping Willow", 3},
		{"Red Maple", 5},
		{"Cherry Blossom", 6},
		{"Oak", 7},
		{"Pine", 10},
		{"OAK", 7},
		{"Ginkgo", DefaultIntervalDays},
		{"", DefaultIntervalDays},
	}
	for _, tc := range cases {
		if got := IntervalDays(tc.species); got != tc.want {
			t.Errorf("IntervalDays(%q) = %d, want %d", tc.species, got, tc.want)
		}
	}
}

func TestElapsedDays_FloorsPartialDays(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		last time.Time
		want int
	}{
		{now.Add(-23 * time.Hour), 0},
		{now.Add(-24 * time.Hour), 1},
		{now.Add(-71 * time.Hour), 2},
		{now.Add(-72 * time.Hour), 3},
		{now.Add(time.Hour), 0}, // 未来时间不产生负值
	}
	for _, tc := range cases {
		if got := ElapsedDays(tc.last, now); got != tc.want {
			t.Errorf("ElapsedDays(%v) = %d, want %d", tc.last, got, tc.want)
		}
	}
}

func TestNeedsWatering(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d int) *time.Time {
		ts := now.AddDate(0, 0, -d)
		return &ts
	}

	cases := []struct {
		name    string
		species string
		last    *time.Time
		want    bool
	}{
		{"never watered", "Oak", nil, true},
		{"willow due at boundary", "Weeping Willow", daysAgo(3), true},
		{"willow not yet due", "Weeping Willow", daysAgo(2), false},
		{"oak overdue", "Oak", daysAgo(8), true},
		{"oak fresh", "Oak", daysAgo(1), false},
		{"unknown species default 7", "Ginkgo", daysAgo(7), true},
		{"unknown species not due", "Ginkgo", daysAgo(6), false},
		{"pine slow interval", "Pine", daysAgo(9), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsWatering(tc.species, tc.last, now); got != tc.want {
				t.Errorf("NeedsWatering(%q, %v) = %v, want %v", tc.species, tc.last, got, tc.want)
			}
		})
	}
}
