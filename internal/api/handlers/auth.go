package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskquest/internal/models"
	"taskquest/pkg/logger"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Signup creates an account with zero points, level 1 and every default
// category at zero, then returns a fresh token.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in signup", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, msgBadRequest)
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during signup", zap.Error(err))
		return failValidation(c, credentialsMessage(err), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgHashFailed)
	}

	ctx := c.UserContext()
	userID, err := h.accounts.Create(ctx, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			logger.AuditLogger.Info("Signup with existing email", zap.String("email", req.Email))
			return fail(c, fiber.StatusConflict, msgEmailTaken)
		}
		logger.ErrorLogger.Error("Error creating account", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgSignupFailed)
	}

	token, err := h.tokens.Issue(userID, req.Email)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Int("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgTokenFailed)
	}

	logger.AuditLogger.Info("Account created", zap.Int("user_id", userID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":  token,
		"userId": userID,
	})
}

// Signin exchanges valid credentials for a token. Unknown email and wrong
// password produce the same answer.
func (h *Handler) Signin(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in signin", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, msgBadRequest)
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, msgCredentialsRequired)
	}

	acc, err := h.accounts.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logger.SecurityLogger.Warn("Signin for unknown email", zap.String("email", req.Email))
			return fail(c, fiber.StatusUnauthorized, msgBadCredentials)
		}
		logger.ErrorLogger.Error("Error loading account for signin", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgSigninFailed)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.Int("user_id", acc.ID))
		return fail(c, fiber.StatusUnauthorized, msgBadCredentials)
	}

	token, err := h.tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Int("user_id", acc.ID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgTokenFailed)
	}

	logger.AuditLogger.Info("Signin", zap.Int("user_id", acc.ID))
	return c.JSON(fiber.Map{
		"token":  token,
		"userId": acc.ID,
	})
}

// Me returns the caller's profile and progress.
func (h *Handler) Me(c *fiber.Ctx) error {
	userID := currentUser(c)
	acc, err := h.loadProgress(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, msgUserNotFound)
		}
		logger.ErrorLogger.Error("Error fetching account", zap.Int("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgUserFetchFailed)
	}
	return c.JSON(acc)
}

func credentialsMessage(err error) string {
	field, tag := firstViolation(err)
	switch {
	case tag == "required":
		return msgCredentialsRequired
	case field == "Email":
		return msgInvalidEmail
	case field == "Password" && tag == "min":
		return msgPasswordTooShort
	case field == "Password" && tag == "max":
		return msgPasswordTooLong
	}
	return msgBadRequest
}
