package progression

import (
	"reflect"
	"testing"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{xp: 0, want: 1},
		{xp: 99, want: 1},
		{xp: 100, want: 2},
		{xp: 250, want: 3},
		{xp: 5900, want: 60},
	}

	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestLevelMonotone(t *testing.T) {
	prev := Level(0)
	for xp := int64(1); xp <= 10000; xp += 37 {
		got := Level(xp)
		if got < prev {
			t.Fatalf("Level(%d) = %d, less than previous %d", xp, got, prev)
		}
		prev = got
	}
}

func TestBadges(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		xp   int64
		want []string
	}{
		{xp: 0, want: []string{"Beginner"}},
		{xp: 199, want: []string{"Beginner"}},
		{xp: 200, want: []string{"Beginner", "Novice"}},
		{xp: 1000, want: []string{"Beginner", "Novice", "Intermediate"}},
		{xp: 2500, want: []string{"Beginner", "Novice", "Intermediate", "Expert"}},
		{xp: 9999, want: []string{"Beginner", "Novice", "Intermediate", "Expert", "Master"}},
	}

	for _, tt := range tests {
		if got := table.Badges(tt.xp); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Badges(%d) = %v, want %v", tt.xp, got, tt.want)
		}
	}
}

func TestBadgesMonotoneAndIdempotent(t *testing.T) {
	table := DefaultTable()

	prev := 0
	for xp := int64(0); xp <= 6000; xp += 50 {
		got := table.Badges(xp)
		if len(got) < prev {
			t.Fatalf("badge set shrank at xp=%d: %v", xp, got)
		}
		prev = len(got)

		again := table.Badges(xp)
		if !reflect.DeepEqual(got, again) {
			t.Fatalf("Badges(%d) not idempotent: %v vs %v", xp, got, again)
		}
	}
}

func TestTitle(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		level int
		want  string
	}{
		{level: 1, want: "NEOPHYTE"},
		{level: 4, want: "NEOPHYTE"},
		{level: 5, want: "INITIATE"},
		{level: 14, want: "INITIATE"},
		{level: 15, want: "SPECIALIST"},
		{level: 29, want: "SPECIALIST"},
		{level: 30, want: "COMMANDER"},
		{level: 60, want: "LEGENDARY OVERLORD"},
		{level: 100, want: "LEGENDARY OVERLORD"},
	}

	for _, tt := range tests {
		if got := table.Title(tt.level); got != tt.want {
			t.Errorf("Title(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestBadgesCustomThresholds(t *testing.T) {
	table := Table{
		BadgeThresholds: []BadgeThreshold{
			{XP: 0, Name: "Starter"},
			{XP: 50, Name: "Keeper"},
		},
	}

	if got := table.Badges(10); !reflect.DeepEqual(got, []string{"Starter"}) {
		t.Errorf("Badges(10) = %v, want [Starter]", got)
	}
	if got := table.Badges(50); !reflect.DeepEqual(got, []string{"Starter", "Keeper"}) {
		t.Errorf("Badges(50) = %v, want [Starter Keeper]", got)
	}
}

func TestTitleCustomBands(t *testing.T) {
	table := Table{
		Titles: []TitleBand{
			{MinLevel: 1, Title: "ROOKIE"},
			{MinLevel: 10, Title: "VETERAN"},
		},
	}

	if got := table.Title(3); got != "ROOKIE" {
		t.Errorf("Title(3) = %q, want ROOKIE", got)
	}
	if got := table.Title(10); got != "VETERAN" {
		t.Errorf("Title(10) = %q, want VETERAN", got)
	}
}
