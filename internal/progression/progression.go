// Package progression содержит чистые функции расчёта уровня, значков и титула по XP.
package progression

// xpPerLevel — количество XP на один уровень.
const xpPerLevel = 100

// BadgeThreshold задаёт порог XP, при достижении которого выдаётся значок.
type BadgeThreshold struct {
	XP   int64
	Name string
}

// TitleBand задаёт титул для диапазона уровней, начиная с MinLevel.
type TitleBand struct {
	MinLevel int
	Title    string
}

// Table содержит конфигурацию прогрессии. Пороги и титулы — данные,
// а не константы: разные развёртывания используют разные наборы.
type Table struct {
	BadgeThresholds []BadgeThreshold
	Titles          []TitleBand
}

// DefaultTable возвращает каноническую таблицу прогрессии.
func DefaultTable() Table {
	return Table{
		BadgeThresholds: []BadgeThreshold{
			{XP: 0, Name: "Beginner"},
			{XP: 200, Name: "Novice"},
			{XP: 1000, Name: "Intermediate"},
			{XP: 2500, Name: "Expert"},
			{XP: 5000, Name: "Master"},
		},
		Titles: []TitleBand{
			{MinLevel: 1, Title: "NEOPHYTE"},
			{MinLevel: 5, Title: "INITIATE"},
			{MinLevel: 15, Title: "SPECIALIST"},
			{MinLevel: 30, Title: "COMMANDER"},
			{MinLevel: 60, Title: "LEGENDARY OVERLORD"},
		},
	}
}

// Level вычисляет уровень по сумме XP. XP должен быть неотрицательным.
func Level(xp int64) int {
	return int(xp/xpPerLevel) + 1
}

// Badges возвращает набор значков для текущего XP. Набор каждый раз
// пересчитывается с нуля: XP может уменьшаться при покупке щита,
// поэтому инкрементальное накопление значков недопустимо.
func (t Table) Badges(xp int64) []string {
	badges := make([]string, 0, len(t.BadgeThresholds))
	for _, b := range t.BadgeThresholds {
		if xp >= b.XP {
			badges = append(badges, b.Name)
		}
	}
	return badges
}

// Title возвращает титул для указанного уровня. Диапазоны в Titles
// должны быть отсортированы по возрастанию MinLevel.
func (t Table) Title(level int) string {
	title := ""
	for _, b := range t.Titles {
		if level >= b.MinLevel {
			title = b.Title
		}
	}
	return title
}
