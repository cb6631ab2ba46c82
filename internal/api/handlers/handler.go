package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"taskquest/internal/cache"
	"taskquest/internal/models"
	"taskquest/internal/scoring"
)

type AccountStore interface {
	Create(ctx context.Context, email, passwordHash string) (int, error)
	Get(ctx context.Context, id int) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	ListByOwner(ctx context.Context, ownerID int) ([]models.Task, error)
	Delete(ctx context.Context, id string, ownerID int) error
}

type Completer interface {
	CompleteTask(ctx context.Context, taskID string, ownerID int) (*scoring.Outcome, error)
}

type HealthChecker interface {
	DBTime(ctx context.Context) (time.Time, error)
}

type TokenIssuer interface {
	Issue(userID int, email string) (string, error)
}

// ProgressCache is satisfied by *cache.Cache, including a nil one. Readers
// take the Generation before loading from the store and fill under it.
type ProgressCache interface {
	Generation(ctx context.Context, userID int) cache.Gen
	Progress(ctx context.Context, g cache.Gen) (*models.Account, bool)
	SetProgress(ctx context.Context, g cache.Gen, acc *models.Account)
	Tasks(ctx context.Context, g cache.Gen) ([]models.Task, bool)
	SetTasks(ctx context.Context, g cache.Gen, tasks []models.Task)
	Invalidate(ctx context.Context, userID int)
}

type Notifier interface {
	NotifyCompletion(userID int, out *scoring.Outcome)
}

type Options struct {
	Accounts  AccountStore
	Tasks     TaskStore
	Completer Completer
	Health    HealthChecker
	Tokens    TokenIssuer
	Cache     ProgressCache
	Notifier  Notifier
	Validate  *validator.Validate
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Handler serves the REST API. Every collaborator is injected through Options.
type Handler struct {
	accounts   AccountStore
	tasks      TaskStore
	completer  Completer
	health     HealthChecker
	tokens     TokenIssuer
	cache      ProgressCache
	notifier   Notifier
	validate   *validator.Validate
	bcryptCost int
}

func New(o Options) *Handler {
	h := &Handler{
		accounts:   o.Accounts,
		tasks:      o.Tasks,
		completer:  o.Completer,
		health:     o.Health,
		tokens:     o.Tokens,
		cache:      o.Cache,
		notifier:   o.Notifier,
		validate:   o.Validate,
		bcryptCost: o.BcryptCost,
	}
	if h.cache == nil {
		h.cache = (*cache.Cache)(nil)
	}
	if h.notifier == nil {
		h.notifier = noopNotifier{}
	}
	if h.validate == nil {
		h.validate = validator.New()
	}
	if h.bcryptCost == 0 {
		h.bcryptCost = bcrypt.DefaultCost
	}
	return h
}

type noopNotifier struct{}

func (noopNotifier) NotifyCompletion(int, *scoring.Outcome) {}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   msg,
		"success": false,
		"status":  status,
	})
}

func failValidation(c *fiber.Ctx, msg string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   msg,
		"errors":  err.Error(),
		"success": false,
		"status":  fiber.StatusBadRequest,
	})
}

// currentUser returns the account id set by the token middleware.
func currentUser(c *fiber.Ctx) int {
	id, _ := c.Locals("userID").(int)
	return id
}

// firstViolation returns the field and tag of the first failed rule.
func firstViolation(err error) (field, tag string) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Field(), ve[0].Tag()
	}
	return "", ""
}

// loadProgress reads an account through the cache.
func (h *Handler) loadProgress(ctx context.Context, userID int) (*models.Account, error) {
	gen := h.cache.Generation(ctx, userID)
	if acc, ok := h.cache.Progress(ctx, gen); ok {
		return acc, nil
	}
	acc, err := h.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	h.cache.SetProgress(ctx, gen, acc)
	return acc, nil
}
