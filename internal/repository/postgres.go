// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/mmeshcher/habitquest-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUserExists возвращается при попытке создать пользователя с уже существующей почтой.
var (
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken возвращается, если имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrHabitNotFound возвращается, если привычка не найдена или не принадлежит пользователю.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrAlreadyCompleted возвращается при повторном выполнении привычки в течение дня.
	ErrAlreadyCompleted = errors.New("habit already completed today")
	// ErrInsufficientXP возвращается при попытке потратить больше XP, чем накоплено.
	ErrInsufficientXP = errors.New("insufficient xp")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// БД может подниматься одновременно с сервисом, поэтому первый ping с бэкоффом.
	backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		// Если ошибка контекста — выходим сразу
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected {
				if i < len(delays) {
					time.Sleep(delays[i])
					continue
				}
			}
		}

		if isConnectionError(err) {
			if i < len(delays) {
				time.Sleep(delays[i])
				continue
			}
		}

		break
	}
	return err
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser создаёт нового пользователя со стартовым набором значков.
func (r *PostgresRepository) CreateUser(ctx context.Context, email, passwordHash string, badges []string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, badges) VALUES ($1, $2, $3) RETURNING id`,
		email, passwordHash, badges,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

const userColumns = `id, email, username, password_hash, is_admin, xp, level, shields,
	 current_streak, longest_streak, badges, push_token, created_at, last_active`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsAdmin,
		&u.XP, &u.Level, &u.Shields, &u.CurrentStreak, &u.LongestStreak,
		&u.Badges, &u.PushToken, &u.CreatedAt, &u.LastActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail возвращает пользователя по адресу почты.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
}

// UpdateUsername устанавливает имя пользователя. Уникальность без учёта регистра.
func (r *PostgresRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE users SET username = $2 WHERE id = $1`,
		userID, username,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return fmt.Errorf("update username: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePushToken сохраняет токен мобильного устройства пользователя.
func (r *PostgresRepository) UpdatePushToken(ctx context.Context, userID int64, token string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE users SET push_token = $2 WHERE id = $1`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("update push token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TouchLastActive обновляет отметку последней активности пользователя.
func (r *PostgresRepository) TouchLastActive(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_active = now() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}
	return nil
}

// UpdateUserProgress сохраняет пересчитанные производные поля аккаунта.
func (r *PostgresRepository) UpdateUserProgress(ctx context.Context, userID int64, xp int64, level int, badges []string, currentStreak, longestStreak int) error {
	return r.withRetry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE users
			 SET xp = $2, level = $3, badges = $4, current_streak = $5, longest_streak = $6, last_active = now()
			 WHERE id = $1`,
			userID, xp, level, badges, currentStreak, longestStreak,
		)
		if err != nil {
			return fmt.Errorf("update user progress: %w", err)
		}
		return nil
	})
}

// UpdateLevelBadges сохраняет уровень и значки, пересчитанные из текущего XP.
func (r *PostgresRepository) UpdateLevelBadges(ctx context.Context, userID int64, level int, badges []string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET level = $2, badges = $3 WHERE id = $1`,
		userID, level, badges,
	)
	if err != nil {
		return fmt.Errorf("update level and badges: %w", err)
	}
	return nil
}

// PurchaseShield списывает cost XP и начисляет один щит. Использует блокировку
// строки пользователя для сериализации параллельных покупок. Возвращает новый XP.
func (r *PostgresRepository) PurchaseShield(ctx context.Context, userID int64, cost int64) (int64, error) {
	var newXP int64

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var xp int64
		err = tx.QueryRow(ctx, `SELECT xp FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&xp)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return fmt.Errorf("lock user for update: %w", err)
		}

		if xp < cost {
			return ErrInsufficientXP
		}

		newXP = xp - cost
		_, err = tx.Exec(ctx,
			`UPDATE users SET xp = $2, shields = shields + 1 WHERE id = $1`,
			userID, newXP,
		)
		if err != nil {
			return fmt.Errorf("spend xp: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})

	return newXP, err
}

// ConsumeShield атомарно тратит один щит и вставляет синтетическую запись
// о выполнении, датированную graceDay, для последней выполнявшейся привычки.
// Возвращает false без ошибки, если щитов нет или истории выполнений нет.
func (r *PostgresRepository) ConsumeShield(ctx context.Context, userID int64, graceDay time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx,
		`UPDATE users SET shields = shields - 1 WHERE id = $1 AND shields > 0`,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("consume shield: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return false, nil
	}

	cmdTag, err = tx.Exec(ctx,
		`INSERT INTO habit_completions (habit_id, user_id, completed_at, completed_on, xp_earned, kind)
		 SELECT habit_id, user_id, $2, $2::date, 0, $3
		 FROM habit_completions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT 1
		 ON CONFLICT (habit_id, completed_on) DO NOTHING`,
		userID, graceDay, string(model.CompletionKindShieldGrace),
	)
	if err != nil {
		return false, fmt.Errorf("insert grace completion: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Нет истории либо день уже закрыт — щит не тратим, транзакция откатывается.
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}

	return true, nil
}

// CreateHabit сохраняет новую привычку и заполняет её идентификатор и время создания.
func (r *PostgresRepository) CreateHabit(ctx context.Context, h *model.Habit) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO habits (user_id, name, description, frequency, reminder_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		h.UserID, h.Name, h.Description, h.Frequency, h.ReminderTime,
	).Scan(&id, &h.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("create habit: %w", err)
	}
	return id, nil
}

// GetHabitsByUser возвращает активные привычки пользователя.
func (r *PostgresRepository) GetHabitsByUser(ctx context.Context, userID int64) ([]model.Habit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name, description, frequency, reminder_time, is_active, created_at
		 FROM habits
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select habits: %w", err)
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Frequency,
			&h.ReminderTime, &h.IsActive, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return habits, nil
}

// GetHabitForUser возвращает активную привычку, принадлежащую пользователю.
func (r *PostgresRepository) GetHabitForUser(ctx context.Context, habitID, userID int64) (*model.Habit, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, name, description, frequency, reminder_time, is_active, created_at
		 FROM habits
		 WHERE id = $1 AND user_id = $2 AND is_active`,
		habitID, userID,
	)

	var h model.Habit
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Frequency,
		&h.ReminderTime, &h.IsActive, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}

	return &h, nil
}

// DeactivateHabit помечает привычку неактивной. История выполнений сохраняется.
func (r *PostgresRepository) DeactivateHabit(ctx context.Context, habitID, userID int64) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE habits SET is_active = false WHERE id = $1 AND user_id = $2 AND is_active`,
		habitID, userID,
	)
	if err != nil {
		return fmt.Errorf("deactivate habit: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// InsertCompletion вставляет запись о выполнении. Уникальный индекс по
// (habit_id, completed_on) делает проверку и вставку одной атомарной операцией.
func (r *PostgresRepository) InsertCompletion(ctx context.Context, c model.Completion) error {
	cmdTag, err := r.pool.Exec(ctx,
		`INSERT INTO habit_completions (habit_id, user_id, completed_at, completed_on, xp_earned, kind)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (habit_id, completed_on) DO NOTHING`,
		c.HabitID, c.UserID, c.CompletedAt, c.CompletedOn, c.XPEarned, string(c.Kind),
	)
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrAlreadyCompleted
	}
	return nil
}

// GetCompletionTimes возвращает отметки времени последних выполнений пользователя.
func (r *PostgresRepository) GetCompletionTimes(ctx context.Context, userID int64, limit int) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT completed_at
		 FROM habit_completions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select completions: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		times = append(times, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return times, nil
}

// CountActiveHabits возвращает количество активных привычек пользователя.
func (r *PostgresRepository) CountActiveHabits(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM habits WHERE user_id = $1 AND is_active`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count habits: %w", err)
	}
	return count, nil
}

// CountCompletionsOn возвращает количество выполнений пользователя за указанный день.
func (r *PostgresRepository) CountCompletionsOn(ctx context.Context, userID int64, day time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM habit_completions WHERE user_id = $1 AND completed_on = $2`,
		userID, day,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return count, nil
}

// DueHabit описывает привычку, для которой пора отправить напоминание.
type DueHabit struct {
	ID     int64
	UserID int64
	Name   string
}

// FindDueHabits возвращает активные привычки, у которых время напоминания
// совпадает с hhmm и по которым сегодня ещё не было уведомления.
func (r *PostgresRepository) FindDueHabits(ctx context.Context, hhmm string, day time.Time) ([]DueHabit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name
		 FROM habits
		 WHERE reminder_time = $1 AND is_active AND last_notified_date IS DISTINCT FROM $2`,
		hhmm, day,
	)
	if err != nil {
		return nil, fmt.Errorf("select due habits: %w", err)
	}
	defer rows.Close()

	var res []DueHabit
	for rows.Next() {
		var h DueHabit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name); err != nil {
			return nil, fmt.Errorf("scan due habit: %w", err)
		}
		res = append(res, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ClaimReminder помечает привычку уведомлённой за указанный день тем же
// условием, что и выборка. Ноль затронутых строк означает, что слот уже
// захвачен другим тиком или другой репликой диспетчера.
func (r *PostgresRepository) ClaimReminder(ctx context.Context, habitID int64, day time.Time) (bool, error) {
	var claimed bool
	err := r.withRetry(ctx, func() error {
		cmdTag, err := r.pool.Exec(ctx,
			`UPDATE habits SET last_notified_date = $2 WHERE id = $1 AND last_notified_date IS DISTINCT FROM $2`,
			habitID, day,
		)
		if err != nil {
			return fmt.Errorf("claim reminder: %w", err)
		}
		claimed = cmdTag.RowsAffected() == 1
		return nil
	})
	return claimed, err
}

// TopUsersByXP возвращает лучших пользователей по XP, исключая администраторов.
func (r *PostgresRepository) TopUsersByXP(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT COALESCE(username, split_part(email, '@', 1)), xp, level
		 FROM users
		 WHERE NOT is_admin
		 ORDER BY xp DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	defer rows.Close()

	var res []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.XP, &e.Level); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		res = append(res, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// InsertSystemEvent добавляет запись в журнал действий.
func (r *PostgresRepository) InsertSystemEvent(ctx context.Context, e model.SystemEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO system_events (user_id, username, email, action, role) VALUES ($1, $2, $3, $4, $5)`,
		e.UserID, e.Username, e.Email, e.Action, e.Role,
	)
	if err != nil {
		return fmt.Errorf("insert system event: %w", err)
	}
	return nil
}

// GetSystemEvents возвращает последние записи журнала действий, новые первыми.
func (r *PostgresRepository) GetSystemEvents(ctx context.Context, limit int) ([]model.SystemEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, COALESCE(user_id, 0), username, email, action, role, created_at
		 FROM system_events
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select system events: %w", err)
	}
	defer rows.Close()

	var res []model.SystemEvent
	for rows.Next() {
		var e model.SystemEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Email, &e.Action, &e.Role, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan system event: %w", err)
		}
		res = append(res, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetAllUsers возвращает всех пользователей для административного списка.
func (r *PostgresRepository) GetAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var res []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetAdminStats возвращает сводные счётчики. Неактивным считается
// не-администратор без активности после inactiveBefore.
func (r *PostgresRepository) GetAdminStats(ctx context.Context, inactiveBefore time.Time) (*model.AdminStats, error) {
	var s model.AdminStats

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE is_admin),
		        COUNT(*) FILTER (WHERE NOT is_admin AND last_active < $1)
		 FROM users`,
		inactiveBefore,
	).Scan(&s.TotalUsers, &s.AdminUsers, &s.InactiveUsers)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE is_active`).Scan(&s.TotalHabits)
	if err != nil {
		return nil, fmt.Errorf("count habits: %w", err)
	}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM habit_completions`).Scan(&s.TotalCompletions)
	if err != nil {
		return nil, fmt.Errorf("count completions: %w", err)
	}

	return &s, nil
}

// DeleteUser удаляет пользователя. Привычки и выполнения удаляются каскадно.
func (r *PostgresRepository) DeleteUser(ctx context.Context, userID int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
