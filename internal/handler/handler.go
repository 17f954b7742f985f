// Package handler содержит HTTP-обработчики API сервиса habitquest.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/habitquest-system/internal/middleware"
	"github.com/mmeshcher/habitquest-system/internal/model"
	"github.com/mmeshcher/habitquest-system/internal/repository"
	"github.com/mmeshcher/habitquest-system/internal/service"
	"github.com/mmeshcher/habitquest-system/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, email, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	Title(level int) string
	SetUsername(ctx context.Context, userID int64, username string) error
	SetPushToken(ctx context.Context, userID int64, token string) error
	CreateHabit(ctx context.Context, h *model.Habit) (*model.Habit, error)
	GetHabitsByUser(ctx context.Context, userID int64) ([]model.Habit, error)
	DeleteHabit(ctx context.Context, habitID, userID int64) error
	CompleteHabit(ctx context.Context, habitID, userID int64) (int64, int, error)
	GetStats(ctx context.Context, userID int64) (*model.Stats, error)
	BuyShield(ctx context.Context, userID int64) (int64, error)
	GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
	GetAdminStats(ctx context.Context) (*model.AdminStats, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetSystemEvents(ctx context.Context) ([]model.SystemEvent, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// Handler реализует HTTP-обработчики API сервиса habitquest.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID            int64    `json:"id"`
	Email         string   `json:"email"`
	Username      string   `json:"username"`
	IsAdmin       bool     `json:"is_admin"`
	XP            int64    `json:"xp"`
	Level         int      `json:"level"`
	Title         string   `json:"title"`
	Shields       int      `json:"shields"`
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	Badges        []string `json:"badges"`
	CreatedAt     string   `json:"created_at"`
	LastActive    string   `json:"last_active"`
}

func (h *Handler) userToResponse(u *model.User) userResponse {
	username := ""
	if u.Username != nil {
		username = *u.Username
	}

	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      username,
		IsAdmin:       u.IsAdmin,
		XP:            u.XP,
		Level:         u.Level,
		Title:         h.service.Title(u.Level),
		Shields:       u.Shields,
		CurrentStreak: u.CurrentStreak,
		LongestStreak: u.LongestStreak,
		Badges:        u.Badges,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		LastActive:    u.LastActive.Format(time.RFC3339),
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if !validation.IsValidEmail(req.Email) || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("register user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token, err := h.authMiddleware.IssueToken(user.ID)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, authResponse{Token: token, User: h.userToResponse(user)})
}

// Login выполняет аутентификацию пользователя и выдаёт токен.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.logger.Error("login user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token, err := h.authMiddleware.IssueToken(user.ID)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, authResponse{Token: token, User: h.userToResponse(user)})
}

// Me возвращает профиль текущего пользователя.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.logger.Error("get profile error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, h.userToResponse(user))
}

type usernameRequest struct {
	Username string `json:"username"`
}

// SetUsername устанавливает отображаемое имя текущего пользователя.
func (h *Handler) SetUsername(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req usernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.SetUsername(r.Context(), userID, req.Username); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("set username error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{"message": "Updated", "username": req.Username})
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

// SetPushToken сохраняет токен мобильного устройства текущего пользователя.
func (h *Handler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req pushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.SetPushToken(r.Context(), userID, req.Token); err != nil {
		h.logger.Error("set push token error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type habitRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Frequency    string  `json:"frequency"`
	ReminderTime *string `json:"reminder_time"`
}

type habitResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Frequency    string  `json:"frequency"`
	ReminderTime *string `json:"reminder_time,omitempty"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
}

func habitToResponse(hb model.Habit) habitResponse {
	return habitResponse{
		ID:           hb.ID,
		Name:         hb.Name,
		Description:  hb.Description,
		Frequency:    hb.Frequency,
		ReminderTime: hb.ReminderTime,
		IsActive:     hb.IsActive,
		CreatedAt:    hb.CreatedAt.Format(time.RFC3339),
	}
}

// CreateHabit создаёт новую привычку текущего пользователя.
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.ReminderTime != nil && !validation.IsValidReminderTime(*req.ReminderTime) {
		http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
		return
	}

	if req.Frequency == "" {
		req.Frequency = "daily"
	}

	habit, err := h.service.CreateHabit(r.Context(), &model.Habit{
		UserID:       userID,
		Name:         req.Name,
		Description:  req.Description,
		Frequency:    req.Frequency,
		ReminderTime: req.ReminderTime,
	})
	if err != nil {
		h.logger.Error("create habit error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(habitToResponse(*habit)); err != nil {
		h.logger.Error("encode habit error", zap.Error(err))
	}
}

// GetHabits возвращает активные привычки текущего пользователя.
func (h *Handler) GetHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	habits, err := h.service.GetHabitsByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("get habits error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]habitResponse, 0, len(habits))
	for _, hb := range habits {
		resp = append(resp, habitToResponse(hb))
	}

	h.writeJSON(w, resp)
}

// DeleteHabit помечает привычку текущего пользователя неактивной.
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	habitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteHabit(r.Context(), habitID, userID); err != nil {
		if errors.Is(err, repository.ErrHabitNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("delete habit error", zap.Error(err), zap.Int64("habitID", habitID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type completeResponse struct {
	Message  string `json:"message"`
	XPEarned int64  `json:"xp_earned"`
	Level    int    `json:"level"`
}

// CompleteHabit записывает выполнение привычки за сегодняшний день.
func (h *Handler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	habitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	xpEarned, level, err := h.service.CompleteHabit(r.Context(), habitID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHabitNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		case errors.Is(err, repository.ErrAlreadyCompleted):
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		default:
			h.logger.Error("complete habit error", zap.Error(err), zap.Int64("habitID", habitID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, completeResponse{Message: "Completed", XPEarned: xpEarned, Level: level})
}

// GetStats возвращает агрегированную статистику текущего пользователя.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	stats, err := h.service.GetStats(r.Context(), userID)
	if err != nil {
		h.logger.Error("get stats error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, stats)
}

type buyShieldResponse struct {
	Message string `json:"message"`
	NewXP   int64  `json:"new_xp"`
}

// BuyShield покупает один щит за XP для текущего пользователя.
func (h *Handler) BuyShield(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	newXP, err := h.service.BuyShield(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientXP) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		h.logger.Error("buy shield error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, buyShieldResponse{Message: "Shield Secured", NewXP: newXP})
}

// GetLeaderboard возвращает таблицу лидеров по XP.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetLeaderboard(r.Context())
	if err != nil {
		h.logger.Error("get leaderboard error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	h.writeJSON(w, entries)
}

// AdminStats возвращает сводные счётчики для административной панели.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetAdminStats(r.Context())
	if err != nil {
		h.logger.Error("admin stats error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, stats)
}

// AdminUsers возвращает список всех пользователей.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		h.logger.Error("admin users error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, h.userToResponse(&users[i]))
	}

	h.writeJSON(w, resp)
}

type systemEventResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Action    string `json:"action"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
}

// AdminLogs возвращает журнал действий, новые записи первыми.
func (h *Handler) AdminLogs(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.GetSystemEvents(r.Context())
	if err != nil {
		h.logger.Error("admin logs error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]systemEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, systemEventResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Username:  e.Username,
			Email:     e.Email,
			Action:    e.Action,
			Role:      e.Role,
			Timestamp: e.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, resp)
}

// AdminDeleteUser удаляет пользователя вместе с его данными.
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteUser(r.Context(), targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDeleteAdmin):
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		case errors.Is(err, repository.ErrUserNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		default:
			h.logger.Error("delete user error", zap.Error(err), zap.Int64("targetID", targetID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, map[string]string{"message": "Purged"})
}
