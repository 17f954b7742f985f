package streak

import (
	"testing"
	"time"
)

var today = time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestCompute_EmptyHistory(t *testing.T) {
	current, longest := Compute(nil, today)
	if current != 0 || longest != 0 {
		t.Fatalf("Compute(nil) = (%d, %d), want (0, 0)", current, longest)
	}
}

func TestCompute_ThreeConsecutiveDays(t *testing.T) {
	times := []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}

	current, longest := Compute(times, today)
	if current != 3 {
		t.Errorf("current = %d, want 3", current)
	}
	if longest != 3 {
		t.Errorf("longest = %d, want 3", longest)
	}
}

func TestCompute_GapBreaksChain(t *testing.T) {
	// Выполнено сегодня и позавчера, вчера пропущено.
	times := []time.Time{daysAgo(0), daysAgo(2)}

	current, longest := Compute(times, today)
	if current != 1 {
		t.Errorf("current = %d, want 1", current)
	}
	if longest != 1 {
		t.Errorf("longest = %d, want 1", longest)
	}
}

func TestCompute_YesterdayAnchorPreservesStreak(t *testing.T) {
	// Сегодня ещё не выполнено: серия через вчера остаётся активной.
	times := []time.Time{daysAgo(1), daysAgo(2), daysAgo(3)}

	current, longest := Compute(times, today)
	if current != 3 {
		t.Errorf("current = %d, want 3", current)
	}
	if longest != 3 {
		t.Errorf("longest = %d, want 3", longest)
	}
}

func TestCompute_StaleHistoryResetsCurrent(t *testing.T) {
	times := []time.Time{daysAgo(2), daysAgo(3), daysAgo(4)}

	current, longest := Compute(times, today)
	if current != 0 {
		t.Errorf("current = %d, want 0", current)
	}
	if longest != 3 {
		t.Errorf("longest = %d, want 3", longest)
	}
}

func TestCompute_DuplicatesWithinDayCountOnce(t *testing.T) {
	times := []time.Time{
		daysAgo(0),
		daysAgo(0).Add(2 * time.Hour),
		daysAgo(1),
		daysAgo(1).Add(-5 * time.Hour),
	}

	current, longest := Compute(times, today)
	if current != 2 {
		t.Errorf("current = %d, want 2", current)
	}
	if longest != 2 {
		t.Errorf("longest = %d, want 2", longest)
	}
}

func TestCompute_LongestFromOlderRun(t *testing.T) {
	// Старая серия из четырёх дней длиннее текущей из двух.
	times := []time.Time{
		daysAgo(0), daysAgo(1),
		daysAgo(10), daysAgo(11), daysAgo(12), daysAgo(13),
	}

	current, longest := Compute(times, today)
	if current != 2 {
		t.Errorf("current = %d, want 2", current)
	}
	if longest != 4 {
		t.Errorf("longest = %d, want 4", longest)
	}
}

func TestCompute_LongestNeverBelowCurrent(t *testing.T) {
	sets := [][]time.Time{
		{daysAgo(0)},
		{daysAgo(0), daysAgo(1)},
		{daysAgo(1), daysAgo(3), daysAgo(4)},
		{daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(7), daysAgo(20)},
	}

	for i, times := range sets {
		current, longest := Compute(times, today)
		if longest < current {
			t.Errorf("set %d: longest %d < current %d", i, longest, current)
		}
	}
}

func TestCompute_UnsortedInput(t *testing.T) {
	times := []time.Time{daysAgo(2), daysAgo(0), daysAgo(1)}

	current, longest := Compute(times, today)
	if current != 3 || longest != 3 {
		t.Fatalf("Compute(unsorted) = (%d, %d), want (3, 3)", current, longest)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		from time.Time
		to   time.Time
		want int
	}{
		{from: daysAgo(0), to: daysAgo(0), want: 0},
		{from: daysAgo(1), to: daysAgo(0), want: 1},
		{from: daysAgo(2), to: today.Add(11 * time.Hour), want: 2},
	}

	for _, tt := range tests {
		if got := DaysBetween(tt.from, tt.to); got != tt.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}
