package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskquest/internal/auth"
	"taskquest/internal/game"
	"taskquest/internal/model"
	"taskquest/internal/service"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	auth     *auth.Service
	registry *service.Registry
}

func NewHandlers(authSvc *auth.Service, registry *service.Registry) *Handlers {
	return &Handlers{auth: authSvc, registry: registry}
}

// session attaches (or fetches) the live session of the authenticated user.
func (h *Handlers) session(c *fiber.Ctx) *service.Session {
	return h.registry.Attach(c.UserContext(), currentUserID(c))
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.auth.Register(c.UserContext(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Error:   "conflict",
				Message: "Email is already registered",
			})
		}
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid email or password",
			})
		}
		return internalError(c)
	}

	return c.JSON(LoginResponse{
		Token: token,
		User: UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	})
}

// Logout tears down the user's session, flushing pending sync first.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	h.registry.Detach(c.UserContext(), currentUserID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	ses := h.session(c)
	category := c.Query("category")
	includeCompleted := c.QueryBool("includeCompleted", false)
	return c.JSON(toTaskResponses(ses.FilterTasks(category, includeCompleted)))
}

func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	input := service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    model.Priority(req.Priority),
	}
	if req.Recurring != nil {
		input.Recurring = &service.RecurrenceInput{
			Type:             model.RecurrenceType(req.Recurring.Type),
			Interval:         req.Recurring.Interval,
			TotalRepetitions: req.Recurring.TotalRepetitions,
		}
	}

	task, err := h.session(c).AddTask(input)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(task))
}

func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	update := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		update.Priority = &p
	}

	task, err := h.session(c).UpdateTask(c.Params("id"), update)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(toTaskResponse(task))
}

func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.session(c).DeleteTask(c.Params("id")); err != nil {
		return taskError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	task, err := h.session(c).CompleteTask(c.Params("id"))
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(toTaskResponse(task))
}

func (h *Handlers) UndoTask(c *fiber.Ctx) error {
	task, err := h.session(c).UndoTask(c.Params("id"))
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(toTaskResponse(task))
}

func (h *Handlers) GetStats(c *fiber.Ctx) error {
	ses := h.session(c)
	stats := ses.Stats()
	return c.JSON(StatsResponse{
		Level:             stats.Level,
		CurrentPoints:     stats.CurrentPoints,
		TotalPoints:       stats.TotalPoints,
		TasksCompleted:    stats.TasksCompleted,
		Streak:            stats.Streak,
		LastCompletedDate: stats.LastCompletedDate,
		PointsToNextLevel: game.PointsForNextLevel(stats.Level, stats.CurrentPoints),
		LevelProgress:     game.LevelProgressPercent(stats.Level, stats.CurrentPoints),
		Online:            ses.Online(),
	})
}

func (h *Handlers) ListAchievements(c *fiber.Ctx) error {
	return c.JSON(h.session(c).Achievements())
}

func (h *Handlers) ListNotifications(c *fiber.Ctx) error {
	notifications := h.session(c).Notifications()
	if notifications == nil {
		notifications = []game.Notification{}
	}
	return c.JSON(notifications)
}

func (h *Handlers) DismissNotification(c *fiber.Ctx) error {
	if !h.session(c).DismissNotification(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Notification not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sync forces an immediate flush of pending local changes.
func (h *Handlers) Sync(c *fiber.Ctx) error {
	ses := h.session(c)
	ses.Sync(c.UserContext())
	return c.JSON(fiber.Map{"online": ses.Online()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal",
		Message: "Something went wrong",
	})
}

func taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case errors.Is(err, service.ErrTaskCompleted), errors.Is(err, service.ErrTaskNotCompleted):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	default:
		return badRequest(c, err.Error())
	}
}
