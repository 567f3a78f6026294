package assignment

import (
	"testing"
	"time"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

func TestSeatingPolicyPartition(t *testing.T) {
	riders := []models.User{
		{Gender: models.GenderMale},
		{Gender: models.GenderFemale},
		{Gender: models.GenderOther},
		{Gender: models.GenderFemale},
		{},
	}

	front, back, rest := DefaultSeatingPolicy().Partition(riders)
	if len(front) != 2 {
		t.Fatalf("expected 2 in front category, got %d", len(front))
	}
	if len(back) != 1 {
		t.Fatalf("expected 1 in back category, got %d", len(back))
	}
	// OTHER and unset genders both land in the residual category
	if len(rest) != 2 {
		t.Fatalf("expected 2 in residual category, got %d", len(rest))
	}
}

func TestMatchesRoute(t *testing.T) {
	bus := &models.Bus{Source: "Erode", Destination: "Campus"}

	cases := []struct {
		home string
		want bool
	}{
		{"Erode Main Road", true},
		{"erode", true},
		{"Ero", true}, // containment runs both directions
		{"Salem", false},
		{"", false},
	}
	for _, tc := range cases {
		rider := &models.User{HomeLocation: tc.home}
		if got := matchesRoute(rider, bus); got != tc.want {
			t.Errorf("matchesRoute(%q) = %v, want %v", tc.home, got, tc.want)
		}
	}
}

func TestMonthEnd(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)}, // leap year
		{time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := monthEnd(tc.in); !got.Equal(tc.want) {
			t.Errorf("monthEnd(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
