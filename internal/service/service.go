// Package service реализует бизнес-логику сервиса habitquest.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/habitquest-system/internal/metrics"
	"github.com/mmeshcher/habitquest-system/internal/model"
	"github.com/mmeshcher/habitquest-system/internal/progression"
	"github.com/mmeshcher/habitquest-system/internal/push"
	"github.com/mmeshcher/habitquest-system/internal/repository"
	"github.com/mmeshcher/habitquest-system/internal/streak"
)

// historyLimit ограничивает глубину выборки истории выполнений при пересчётах.
const historyLimit = 1000

// ErrInvalidCredentials возвращается при неверной паре почта/пароль.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCannotDeleteAdmin возвращается при попытке удалить администратора.
	ErrCannotDeleteAdmin = errors.New("cannot delete admin user")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateUser(ctx context.Context, email, passwordHash string, badges []string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUsername(ctx context.Context, userID int64, username string) error
	UpdatePushToken(ctx context.Context, userID int64, token string) error
	TouchLastActive(ctx context.Context, userID int64) error
	UpdateUserProgress(ctx context.Context, userID int64, xp int64, level int, badges []string, currentStreak, longestStreak int) error
	UpdateLevelBadges(ctx context.Context, userID int64, level int, badges []string) error
	PurchaseShield(ctx context.Context, userID int64, cost int64) (int64, error)
	ConsumeShield(ctx context.Context, userID int64, graceDay time.Time) (bool, error)
	CreateHabit(ctx context.Context, h *model.Habit) (int64, error)
	GetHabitsByUser(ctx context.Context, userID int64) ([]model.Habit, error)
	GetHabitForUser(ctx context.Context, habitID, userID int64) (*model.Habit, error)
	DeactivateHabit(ctx context.Context, habitID, userID int64) error
	InsertCompletion(ctx context.Context, c model.Completion) error
	GetCompletionTimes(ctx context.Context, userID int64, limit int) ([]time.Time, error)
	CountActiveHabits(ctx context.Context, userID int64) (int64, error)
	CountCompletionsOn(ctx context.Context, userID int64, day time.Time) (int64, error)
	FindDueHabits(ctx context.Context, hhmm string, day time.Time) ([]repository.DueHabit, error)
	ClaimReminder(ctx context.Context, habitID int64, day time.Time) (bool, error)
	TopUsersByXP(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	InsertSystemEvent(ctx context.Context, e model.SystemEvent) error
	GetSystemEvents(ctx context.Context, limit int) ([]model.SystemEvent, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetAdminStats(ctx context.Context, inactiveBefore time.Time) (*model.AdminStats, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// Pusher описывает контракт доставки push-уведомлений.
type Pusher interface {
	Send(ctx context.Context, msg push.Message) error
}

// Options содержит настраиваемые параметры геймификации и диспетчера.
type Options struct {
	Progression  progression.Table
	CompletionXP int64
	ShieldCost   int64
	TZOffset     time.Duration
}

// Service содержит бизнес-логику сервиса habitquest.
type Service struct {
	repo   Repository
	pusher Pusher
	logger *zap.Logger

	table        progression.Table
	completionXP int64
	shieldCost   int64
	tzOffset     time.Duration

	now func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием и клиентом push-шлюза.
func NewService(repo Repository, pusher Pusher, logger *zap.Logger, opts Options) *Service {
	if len(opts.Progression.BadgeThresholds) == 0 {
		opts.Progression = progression.DefaultTable()
	}
	if opts.CompletionXP <= 0 {
		opts.CompletionXP = 20
	}
	if opts.ShieldCost <= 0 {
		opts.ShieldCost = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:         repo,
		pusher:       pusher,
		logger:       logger,
		table:        opts.Progression,
		completionXP: opts.CompletionXP,
		shieldCost:   opts.ShieldCost,
		tzOffset:     opts.TZOffset,
		now:          time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Title возвращает титул для указанного уровня.
func (s *Service) Title(level int) string {
	return s.table.Title(level)
}

// RegisterUser регистрирует нового пользователя и возвращает его профиль.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	badges := s.table.Badges(0)

	id, err := s.repo.CreateUser(ctx, email, string(hash), badges)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, user, "REGISTER")
	return user, nil
}

// AuthenticateUser проверяет почту и пароль пользователя и возвращает его профиль.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.TouchLastActive(ctx, user.ID); err != nil {
		s.logger.Warn("touch last active", zap.Error(err), zap.Int64("userID", user.ID))
	}

	s.logEvent(ctx, user, "LOGIN")
	return user, nil
}

// GetUser возвращает профиль пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// SetUsername устанавливает отображаемое имя пользователя.
func (s *Service) SetUsername(ctx context.Context, userID int64, username string) error {
	if err := s.repo.UpdateUsername(ctx, userID, username); err != nil {
		return err
	}

	if user, err := s.repo.GetUserByID(ctx, userID); err == nil {
		s.logEvent(ctx, user, "IDENTITY_UPDATED: "+username)
	}
	return nil
}

// SetPushToken сохраняет токен мобильного устройства для доставки напоминаний.
func (s *Service) SetPushToken(ctx context.Context, userID int64, token string) error {
	return s.repo.UpdatePushToken(ctx, userID, token)
}

// CreateHabit создаёт новую привычку пользователя.
func (s *Service) CreateHabit(ctx context.Context, h *model.Habit) (*model.Habit, error) {
	id, err := s.repo.CreateHabit(ctx, h)
	if err != nil {
		return nil, err
	}

	h.ID = id
	h.IsActive = true
	return h, nil
}

// GetHabitsByUser возвращает активные привычки пользователя.
func (s *Service) GetHabitsByUser(ctx context.Context, userID int64) ([]model.Habit, error) {
	return s.repo.GetHabitsByUser(ctx, userID)
}

// DeleteHabit помечает привычку неактивной: она выпадает из выполнений и напоминаний.
func (s *Service) DeleteHabit(ctx context.Context, habitID, userID int64) error {
	return s.repo.DeactivateHabit(ctx, habitID, userID)
}

// CompleteHabit записывает выполнение привычки за сегодняшний день и
// пересчитывает производные поля аккаунта. Возвращает начисленный XP и новый уровень.
func (s *Service) CompleteHabit(ctx context.Context, habitID, userID int64) (int64, int, error) {
	habit, err := s.repo.GetHabitForUser(ctx, habitID, userID)
	if err != nil {
		return 0, 0, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	now := s.now().UTC()
	today := streak.Day(now)

	err = s.repo.InsertCompletion(ctx, model.Completion{
		HabitID:     habit.ID,
		UserID:      userID,
		CompletedAt: now,
		CompletedOn: today,
		XPEarned:    s.completionXP,
		Kind:        model.CompletionKindRegular,
	})
	if err != nil {
		return 0, 0, err
	}

	newXP := user.XP + s.completionXP
	level := progression.Level(newXP)
	badges := s.table.Badges(newXP)

	times, err := s.repo.GetCompletionTimes(ctx, userID, historyLimit)
	if err != nil {
		return 0, 0, err
	}

	current, longest := streak.Compute(times, now)
	if user.LongestStreak > longest {
		longest = user.LongestStreak
	}

	if err := s.repo.UpdateUserProgress(ctx, userID, newXP, level, badges, current, longest); err != nil {
		return 0, 0, err
	}

	metrics.CompletionsRecorded.Inc()
	s.logEvent(ctx, user, "HABIT_COMPLETED: "+habit.Name)

	return s.completionXP, level, nil
}

// GetStats возвращает агрегированную статистику пользователя. Перед расчётом
// выполняется проверка защиты серии щитом.
func (s *Service) GetStats(ctx context.Context, userID int64) (*model.Stats, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Shields > 0 {
		user = s.applyShieldGuard(ctx, user)
	}

	s.refreshStreaks(ctx, user)

	today := streak.Day(s.now().UTC())

	totalHabits, err := s.repo.CountActiveHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	completedToday, err := s.repo.CountCompletionsOn(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	return &model.Stats{
		XP:             user.XP,
		Level:          user.Level,
		Title:          s.table.Title(user.Level),
		Badges:         user.Badges,
		CurrentStreak:  user.CurrentStreak,
		LongestStreak:  user.LongestStreak,
		Shields:        user.Shields,
		TotalHabits:    totalHabits,
		CompletedToday: completedToday,
	}, nil
}

// refreshStreaks пересчитывает серии из истории выполнений, чтобы разрыв
// был виден сразу при чтении статистики, а не после следующего выполнения.
// Расхождение с данными аккаунта сохраняется. Сбой пересчёта не прерывает
// чтение статистики.
func (s *Service) refreshStreaks(ctx context.Context, user *model.User) {
	times, err := s.repo.GetCompletionTimes(ctx, user.ID, historyLimit)
	if err != nil {
		s.logger.Warn("refresh streaks: load history", zap.Error(err), zap.Int64("userID", user.ID))
		return
	}

	current, longest := streak.Compute(times, s.now().UTC())
	if user.LongestStreak > longest {
		longest = user.LongestStreak
	}
	if current == user.CurrentStreak && longest == user.LongestStreak {
		return
	}

	if err := s.repo.UpdateUserProgress(ctx, user.ID, user.XP, user.Level, user.Badges, current, longest); err != nil {
		s.logger.Warn("refresh streaks: persist", zap.Error(err), zap.Int64("userID", user.ID))
		return
	}

	user.CurrentStreak = current
	user.LongestStreak = longest
}

// applyShieldGuard закрывает щитом ровно один пропущенный день. Разрыв в два
// дня означает, что пропущен только вчерашний день: щит тратится и вчера
// закрывается синтетической записью, после чего серия пересчитывается.
// Любой сбой здесь не прерывает чтение статистики.
func (s *Service) applyShieldGuard(ctx context.Context, user *model.User) *model.User {
	now := s.now().UTC()

	times, err := s.repo.GetCompletionTimes(ctx, user.ID, historyLimit)
	if err != nil {
		s.logger.Warn("shield guard: load history", zap.Error(err), zap.Int64("userID", user.ID))
		return user
	}
	if len(times) == 0 {
		return user
	}

	latest := times[0]
	for _, ts := range times[1:] {
		if ts.After(latest) {
			latest = ts
		}
	}

	if streak.DaysBetween(latest, now) != 2 {
		return user
	}

	graceDay := streak.Day(now).AddDate(0, 0, -1)

	consumed, err := s.repo.ConsumeShield(ctx, user.ID, graceDay)
	if err != nil {
		s.logger.Warn("shield guard: consume", zap.Error(err), zap.Int64("userID", user.ID))
		return user
	}
	if !consumed {
		return user
	}

	metrics.ShieldsConsumed.Inc()
	s.logEvent(ctx, user, "SHIELD_AUTO_PROTECT")
	s.logger.Info("streak protected by shield", zap.Int64("userID", user.ID))

	user.Shields--

	// Синтетическая запись уже в истории: разрыв стал равен единице,
	// повторный вызов щит не потратит.
	times, err = s.repo.GetCompletionTimes(ctx, user.ID, historyLimit)
	if err != nil {
		s.logger.Warn("shield guard: reload history", zap.Error(err), zap.Int64("userID", user.ID))
		return user
	}

	current, longest := streak.Compute(times, now)
	if user.LongestStreak > longest {
		longest = user.LongestStreak
	}

	if err := s.repo.UpdateUserProgress(ctx, user.ID, user.XP, user.Level, user.Badges, current, longest); err != nil {
		s.logger.Warn("shield guard: persist streaks", zap.Error(err), zap.Int64("userID", user.ID))
		return user
	}

	user.CurrentStreak = current
	user.LongestStreak = longest
	return user
}

// BuyShield списывает фиксированную стоимость щита из XP пользователя и
// начисляет один щит. Возвращает новый XP.
func (s *Service) BuyShield(ctx context.Context, userID int64) (int64, error) {
	newXP, err := s.repo.PurchaseShield(ctx, userID, s.shieldCost)
	if err != nil {
		return 0, err
	}

	// Уровень и значки — производные от XP, пересчитываются после списания.
	if err := s.repo.UpdateLevelBadges(ctx, userID, progression.Level(newXP), s.table.Badges(newXP)); err != nil {
		s.logger.Warn("recompute after shield purchase", zap.Error(err), zap.Int64("userID", userID))
	}

	return newXP, nil
}

// GetLeaderboard возвращает десять лучших пользователей по XP.
func (s *Service) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return s.repo.TopUsersByXP(ctx, 10)
}

// GetAdminStats возвращает сводные счётчики для административной панели.
func (s *Service) GetAdminStats(ctx context.Context) (*model.AdminStats, error) {
	weekAgo := s.now().UTC().AddDate(0, 0, -7)
	return s.repo.GetAdminStats(ctx, weekAgo)
}

// GetAllUsers возвращает всех пользователей для административного списка.
func (s *Service) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// GetSystemEvents возвращает последние записи журнала действий.
func (s *Service) GetSystemEvents(ctx context.Context) ([]model.SystemEvent, error) {
	return s.repo.GetSystemEvents(ctx, 1000)
}

// DeleteUser удаляет пользователя вместе с его привычками и выполнениями.
// Администраторов удалять нельзя.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	target, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return ErrCannotDeleteAdmin
	}
	return s.repo.DeleteUser(ctx, userID)
}

// StartReminderDispatch запускает фоновый диспетчер напоминаний: раз в минуту,
// по границе минуты, он находит привычки с наступившим временем напоминания,
// захватывает дневной слот и отправляет push-уведомление.
func (s *Service) StartReminderDispatch(ctx context.Context) {
	if s.pusher == nil {
		return
	}

	go func() {
		// Выравнивание первого тика по границе минуты.
		timer := time.NewTimer(time.Until(s.now().Truncate(time.Minute).Add(time.Minute)))
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.processDueReminders(ctx)

		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.processDueReminders(ctx)
			}
		}
	}()
}

// processDueReminders обрабатывает один тик диспетчера. Захват слота
// предшествует отправке: неудачная доставка слот не освобождает, поэтому
// на привычку приходится не более одной попытки в день независимо от
// количества реплик и пересекающихся тиков.
func (s *Service) processDueReminders(ctx context.Context) {
	now := s.now().UTC().Add(s.tzOffset)
	hhmm := now.Format("15:04")
	today := streak.Day(now)

	habits, err := s.repo.FindDueHabits(ctx, hhmm, today)
	if err != nil {
		s.logger.Error("find due habits", zap.Error(err))
		return
	}

	for _, h := range habits {
		claimed, err := s.repo.ClaimReminder(ctx, h.ID, today)
		if err != nil {
			s.logger.Error("claim reminder", zap.Error(err), zap.Int64("habitID", h.ID))
			continue
		}
		if !claimed {
			metrics.RemindersProcessed.WithLabelValues("claim_lost").Inc()
			continue
		}

		user, err := s.repo.GetUserByID(ctx, h.UserID)
		if err != nil {
			s.logger.Error("load reminder recipient", zap.Error(err), zap.Int64("habitID", h.ID))
			metrics.RemindersProcessed.WithLabelValues("send_failed").Inc()
			continue
		}

		if user.PushToken == nil || *user.PushToken == "" {
			metrics.RemindersProcessed.WithLabelValues("no_token").Inc()
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = s.pusher.Send(sendCtx, push.Message{
			Token: *user.PushToken,
			Title: "MISSION START: " + h.Name,
			Body:  "Time to execute your daily quest.",
		})
		cancel()

		if err != nil {
			// Слот остаётся захваченным: пропущенное уведомление не повторяется.
			s.logger.Warn("send reminder", zap.Error(err), zap.Int64("habitID", h.ID))
			metrics.RemindersProcessed.WithLabelValues("send_failed").Inc()
			continue
		}

		metrics.RemindersProcessed.WithLabelValues("sent").Inc()
	}
}

// logEvent добавляет запись в журнал действий. Сбой журнала не влияет на операцию.
func (s *Service) logEvent(ctx context.Context, user *model.User, action string) {
	username := ""
	if user.Username != nil {
		username = *user.Username
	}
	if username == "" {
		username = strings.SplitN(user.Email, "@", 2)[0]
	}

	role := "USER"
	if user.IsAdmin {
		role = "ADMIN"
	}

	err := s.repo.InsertSystemEvent(ctx, model.SystemEvent{
		UserID:   user.ID,
		Username: username,
		Email:    user.Email,
		Action:   action,
		Role:     role,
	})
	if err != nil {
		s.logger.Warn("log system event", zap.Error(err), zap.String("action", action))
	}
}
