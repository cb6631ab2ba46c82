package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskquest/internal/metrics"
	"taskquest/internal/models"
	"taskquest/pkg/logger"
)

// taskRequest accepts the column names used by the web client as well as
// their camelCase forms.
type taskRequest struct {
	ID                string `json:"id" validate:"required,max=255"`
	Title             string `json:"title" validate:"required,max=255"`
	Description       string `json:"description"`
	Difficulty        string `json:"difficulty" validate:"required,max=50"`
	DifficultyText    string `json:"difficulty_text" validate:"required,max=50"`
	Category          string `json:"category" validate:"required,max=50"`
	CategoryText      string `json:"category_text" validate:"required,max=50"`
	CategoryIconClass string `json:"category_icon_class" validate:"required,max=50"`
	Points            *int   `json:"points" validate:"required,min=0,max=2147483647"`
	Completed         bool   `json:"completed"`

	DifficultyTextAlt    string `json:"difficultyText" validate:"-"`
	CategoryTextAlt      string `json:"categoryText" validate:"-"`
	CategoryIconClassAlt string `json:"categoryIconClass" validate:"-"`
}

func (r *taskRequest) normalize() {
	if r.DifficultyText == "" {
		r.DifficultyText = r.DifficultyTextAlt
	}
	if r.CategoryText == "" {
		r.CategoryText = r.CategoryTextAlt
	}
	if r.CategoryIconClass == "" {
		r.CategoryIconClass = r.CategoryIconClassAlt
	}
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
}

func (r *taskRequest) task(ownerID int) *models.Task {
	return &models.Task{
		ID:                r.ID,
		UserID:            ownerID,
		Title:             r.Title,
		Description:       r.Description,
		Difficulty:        r.Difficulty,
		DifficultyText:    r.DifficultyText,
		Category:          r.Category,
		CategoryText:      r.CategoryText,
		CategoryIconClass: r.CategoryIconClass,
		Points:            *r.Points,
		Completed:         r.Completed,
	}
}

// CreateTask stores a task for the caller. A task created as completed is
// stored that way but awards nothing.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	userID := currentUser(c)

	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, msgBadRequest)
	}
	req.normalize()

	if err := h.validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during create task", zap.Int("user_id", userID), zap.Error(err))
		return failValidation(c, taskMessage(err), err)
	}

	ctx := c.UserContext()
	task := req.task(userID)
	if err := h.tasks.Create(ctx, task); err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			return fail(c, fiber.StatusConflict, msgTaskIDTaken)
		case errors.Is(err, models.ErrNotFound):
			return fail(c, fiber.StatusNotFound, msgUserNotFound)
		}
		logger.ErrorLogger.Error("Error creating task", zap.Int("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgTaskAddFailed)
	}
	h.cache.Invalidate(ctx, userID)

	logger.AuditLogger.Info("Task created", zap.Int("user_id", userID), zap.String("task_id", task.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msgTaskAdded,
		"taskId":  task.ID,
	})
}

// ListTasks returns the caller's tasks, open ones first.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	userID := currentUser(c)
	ctx := c.UserContext()

	gen := h.cache.Generation(ctx, userID)
	if tasks, ok := h.cache.Tasks(ctx, gen); ok {
		return c.JSON(tasks)
	}
	tasks, err := h.tasks.ListByOwner(ctx, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Int("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgTasksFetchFailed)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	h.cache.SetTasks(ctx, gen, tasks)
	return c.JSON(tasks)
}

// CompleteTask awards the task's points to the caller.
func (h *Handler) CompleteTask(c *fiber.Ctx) error {
	userID := currentUser(c)
	taskID := strings.Clone(c.Params("id"))
	ctx := c.UserContext()

	out, err := h.completer.CompleteTask(ctx, taskID, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			metrics.CompletionFailures.WithLabelValues("not_found").Inc()
			return fail(c, fiber.StatusNotFound, msgTaskNotFound)
		case errors.Is(err, models.ErrAlreadyCompleted):
			metrics.CompletionFailures.WithLabelValues("already_completed").Inc()
			return fail(c, fiber.StatusBadRequest, msgTaskAlreadyCompleted)
		}
		metrics.CompletionFailures.WithLabelValues("storage").Inc()
		logger.ErrorLogger.Error("Error completing task",
			zap.Int("user_id", userID), zap.String("task_id", taskID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgTaskCompleteFailed)
	}

	h.cache.Invalidate(ctx, userID)
	h.notifier.NotifyCompletion(userID, out)
	metrics.RecordCompletion(out.Task.Category, out.PointsEarned, out.LevelChanged, out.NewLevel)

	logger.AuditLogger.Info("Task completed",
		zap.Int("user_id", userID),
		zap.String("task_id", taskID),
		zap.Int("points", out.PointsEarned),
		zap.Int("level", out.NewLevel),
	)
	return c.JSON(fiber.Map{
		"message":        msgTaskCompleted,
		"pointsEarned":   out.PointsEarned,
		"newTotalPoints": out.NewTotalPoints,
		"newLevel":       out.NewLevel,
		"levelChanged":   out.LevelChanged,
		"updatedStats":   out.UpdatedStats,
	})
}

// DeleteTask removes one of the caller's tasks. Progress already earned
// from it is kept.
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	userID := currentUser(c)
	taskID := strings.Clone(c.Params("id"))
	ctx := c.UserContext()

	if err := h.tasks.Delete(ctx, taskID, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, msgTaskNotFound)
		}
		logger.ErrorLogger.Error("Error deleting task",
			zap.Int("user_id", userID), zap.String("task_id", taskID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgTaskDeleteFailed)
	}
	h.cache.Invalidate(ctx, userID)

	logger.AuditLogger.Info("Task deleted", zap.Int("user_id", userID), zap.String("task_id", taskID))
	return c.JSON(fiber.Map{
		"message":       msgTaskDeleted,
		"deletedTaskId": taskID,
	})
}

func taskMessage(err error) string {
	field, tag := firstViolation(err)
	switch {
	case tag == "required":
		return msgTaskFieldsMissing
	case field == "Points":
		return msgInvalidPoints
	}
	return msgTaskFieldsInvalid
}
