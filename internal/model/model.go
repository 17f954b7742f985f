// Package model содержит доменные сущности сервиса habitquest.
package model

import "time"

// User представляет зарегистрированного пользователя трекера привычек
// вместе с производными геймификационными полями.
type User struct {
	ID            int64
	Email         string
	Username      *string
	PasswordHash  string
	IsAdmin       bool
	XP            int64
	Level         int
	Shields       int
	CurrentStreak int
	LongestStreak int
	Badges        []string
	PushToken     *string
	CreatedAt     time.Time
	LastActive    time.Time
}

// Habit описывает привычку пользователя и параметры её напоминаний.
type Habit struct {
	ID           int64
	UserID       int64
	Name         string
	Description  *string
	Frequency    string
	ReminderTime *string
	IsActive     bool
	CreatedAt    time.Time
}

// CompletionKind описывает происхождение записи о выполнении привычки.
type CompletionKind string

const (
	// CompletionKindRegular — обычное выполнение, инициированное пользователем.
	CompletionKindRegular CompletionKind = "regular"
	// CompletionKindShieldGrace — синтетическая запись, вставленная механикой щита
	// для закрытия одного пропущенного дня.
	CompletionKindShieldGrace CompletionKind = "shield_grace"
)

// Completion описывает факт выполнения привычки. Записи только добавляются.
type Completion struct {
	HabitID     int64
	UserID      int64
	CompletedAt time.Time
	CompletedOn time.Time
	XPEarned    int64
	Kind        CompletionKind
}

// Stats содержит агрегированную статистику пользователя для эндпоинта /api/stats.
type Stats struct {
	XP             int64    `json:"xp"`
	Level          int      `json:"level"`
	Title          string   `json:"title"`
	Badges         []string `json:"badges"`
	CurrentStreak  int      `json:"current_streak"`
	LongestStreak  int      `json:"longest_streak"`
	Shields        int      `json:"shields"`
	TotalHabits    int64    `json:"total_habits"`
	CompletedToday int64    `json:"completed_today"`
}

// LeaderboardEntry описывает строку таблицы лидеров.
type LeaderboardEntry struct {
	Username string `json:"username"`
	XP       int64  `json:"xp"`
	Level    int    `json:"level"`
}

// SystemEvent описывает запись журнала действий для административного аудита.
type SystemEvent struct {
	ID        int64
	UserID    int64
	Username  string
	Email     string
	Action    string
	Role      string
	CreatedAt time.Time
}

// AdminStats содержит сводные счётчики для административной панели.
type AdminStats struct {
	TotalUsers       int64 `json:"total_users"`
	AdminUsers       int64 `json:"admin_users"`
	InactiveUsers    int64 `json:"inactive_users"`
	TotalHabits      int64 `json:"total_habits"`
	TotalCompletions int64 `json:"total_completions"`
}
