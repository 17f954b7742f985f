// Package streak содержит расчёт текущей и максимальной серии выполнений.
package streak

import (
	"sort"
	"time"
)

// Day нормализует момент времени к началу календарного дня в UTC.
func Day(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween возвращает количество календарных дней между двумя датами.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// Compute вычисляет текущую и максимальную серию по множеству отметок
// времени выполнений. Отметки могут идти в любом порядке и повторяться
// в пределах дня: сначала они схлопываются в уникальные календарные
// даты (UTC). today задаёт дату оценки и передаётся явно для
// тестируемости.
//
// Текущая серия — цепочка подряд идущих дней, заканчивающаяся сегодня
// или вчера: ещё не выполненный сегодняшний день не обрывает активную
// серию. Максимальная серия не бывает меньше текущей.
func Compute(timestamps []time.Time, today time.Time) (current, longest int) {
	if len(timestamps) == 0 {
		return 0, 0
	}

	today = Day(today)

	seen := make(map[time.Time]struct{}, len(timestamps))
	for _, ts := range timestamps {
		seen[Day(ts)] = struct{}{}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	// Якорь текущей серии: сегодняшний или вчерашний день.
	anchor := today
	if !days[0].Equal(today) {
		anchor = today.AddDate(0, 0, -1)
	}
	for i, d := range days {
		if !d.Equal(anchor.AddDate(0, 0, -i)) {
			break
		}
		current++
	}

	longest = 1
	run := 1
	for i := 0; i < len(days)-1; i++ {
		if DaysBetween(days[i+1], days[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	if current > longest {
		longest = current
	}

	return current, longest
}
