package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"civic-sense/internal/database"
	"civic-sense/internal/models"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	ID       string          `json:"id" binding:"required"`
	Password string          `json:"password" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Email    *string         `json:"email"`
	Role     models.UserRole `json:"role" binding:"required"`
	Domain   *string         `json:"domain"`
}

// Register creates a user. The password is stored as a bcrypt hash.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}
	if !req.Role.Valid() {
		h.fail(c, ErrInvalidRole)
		return
	}

	hash, err := h.hashPassword(req.Password)
	if err != nil {
		h.fail(c, fmt.Errorf("hash password: %w", err))
		return
	}

	u := &models.User{
		ID:       req.ID,
		Password: hash,
		Name:     req.Name,
		Email:    nilIfEmpty(req.Email),
		Role:     req.Role,
		Domain:   nilIfEmpty(req.Domain),
	}
	if err := h.store.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			h.fail(c, ErrDuplicateUser)
			return
		}
		h.fail(c, err)
		return
	}

	h.metrics.Registrations.WithLabelValues(string(u.Role)).Inc()
	h.log.Info("user registered", "user", u.ID, "role", u.Role)
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful"})
}

type loginRequest struct {
	ID       string          `json:"id"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

// Login checks credentials first and the claimed role second, so a wrong
// password never reveals whether the role would have matched.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, ErrInvalidRequest)
		return
	}
	ctx := c.Request.Context()

	u, err := h.store.GetUser(ctx, req.ID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			h.metrics.LoginFailures.WithLabelValues("credentials").Inc()
			h.fail(c, ErrInvalidCredentials)
			return
		}
		h.fail(c, err)
		return
	}

	ok, legacy := checkPassword(u.Password, req.Password)
	switch {
	case ok:
		if legacy {
			h.upgradePassword(c, u.ID, req.Password)
		}
		if u.PendingPassword != nil {
			h.clearPendingPassword(c, u.ID)
		}
	case u.PendingPassword != nil && checkHash(*u.PendingPassword, req.Password):
		if err := h.store.RedeemPendingPassword(ctx, u.ID, *u.PendingPassword); err != nil {
			if !errors.Is(err, database.ErrUserNotFound) {
				h.fail(c, err)
				return
			}
			// replaced by a newer reset between the read and the redeem
			h.metrics.LoginFailures.WithLabelValues("credentials").Inc()
			h.fail(c, ErrInvalidCredentials)
			return
		}
		h.log.Info("temporary password redeemed", "user", u.ID)
	default:
		h.metrics.LoginFailures.WithLabelValues("credentials").Inc()
		h.fail(c, ErrInvalidCredentials)
		return
	}

	// role is optional; only a supplied role must match
	if req.Role != "" && req.Role != u.Role {
		h.metrics.LoginFailures.WithLabelValues("role").Inc()
		h.fail(c, ErrRoleMismatch)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    u.Profile(),
	})
}

// upgradePassword replaces a clear-text password with its hash. Failure is
// logged and the login proceeds.
func (h *Handlers) upgradePassword(c *gin.Context, id, plain string) {
	hash, err := h.hashPassword(plain)
	if err == nil {
		err = h.store.UpdatePassword(c.Request.Context(), id, hash)
	}
	if err != nil {
		h.log.Warn("password upgrade failed", "user", id, "error", err)
		return
	}
	h.log.Info("legacy password upgraded", "user", id)
}

// clearPendingPassword drops an unused reset once the owner has logged in
// with the current password.
func (h *Handlers) clearPendingPassword(c *gin.Context, id string) {
	if err := h.store.ClearPendingPassword(c.Request.Context(), id); err != nil {
		h.log.Warn("clearing pending password failed", "user", id, "error", err)
	}
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword mails a fresh temporary password. The current password stays
// valid until the temporary one is used, so a request made by someone else
// cannot lock the owner out.
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, ErrInvalidRequest)
		return
	}
	if req.Email == "" {
		h.fail(c, ErrMissingEmail)
		return
	}
	ctx := c.Request.Context()

	u, err := h.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			h.fail(c, ErrEmailNotRegistered)
			return
		}
		h.fail(c, err)
		return
	}

	temp, err := generateTempPassword()
	if err != nil {
		h.fail(c, fmt.Errorf("generate temporary password: %w", err))
		return
	}
	hash, err := h.hashPassword(temp)
	if err != nil {
		h.fail(c, fmt.Errorf("hash password: %w", err))
		return
	}

	err = h.store.ResetPassword(ctx, u.ID, hash, func() error {
		return h.mailer.SendPasswordRecovery(ctx, req.Email, u.Name, temp)
	})
	if err != nil {
		h.fail(c, fmt.Errorf("password recovery for %s: %w", u.ID, err))
		return
	}

	h.log.Info("password recovery sent", "user", u.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Password sent to " + req.Email})
}
