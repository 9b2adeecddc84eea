package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/config"
	"github.com/inkwelldev/inkwell/internal/domain/user"
	"github.com/inkwelldev/inkwell/internal/http/middlewares"
	"github.com/inkwelldev/inkwell/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

type SignUpRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authPayload struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)

	defer cancel()

	// pre-checks give the documented conflict ordering; the unique
	// indexes remain the real guard under concurrent signups.

	emailTaken, err := h.users.EmailExists(cctx, req.Email)

	if err != nil {
		RespondInternal(ctx, "Server error during signup", err)
		return
	}

	if emailTaken {
		RespondConflict(ctx, "Email already registered")
		return
	}

	usernameTaken, err := h.users.UsernameExists(cctx, req.Username)

	if err != nil {
		RespondInternal(ctx, "Server error during signup", err)
		return
	}

	if usernameTaken {
		RespondConflict(ctx, "Username already taken")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Server error during signup", err)
		return
	}

	u, err := h.users.Create(cctx, req.Username, req.Email, hash)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "Email already registered")
			return
		}

		if errors.Is(err, user.ErrUsernameTaken) {
			RespondConflict(ctx, "Username already taken")
			return
		}

		RespondInternal(ctx, "Server error during signup", err)
		return
	}

	token, err := h.jwt.Issue(u.ID, u.Email)

	if err != nil {
		RespondInternal(ctx, "Server error during signup", err)
		return
	}

	RespondSuccess(ctx, http.StatusCreated, "User registered successfully", authPayload{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Token:    token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// burn a hash comparison so the unknown-email path takes as
			// long as a wrong-password one
			security.DummyCompare(req.Password)

			RespondUnauthorized(ctx, "Invalid email or password")
			return
		}

		RespondInternal(ctx, "Server error during login", err)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		// same generic message as the unknown-email case
		RespondUnauthorized(ctx, "Invalid email or password")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Email)

	if err != nil {
		RespondInternal(ctx, "Server error during login", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "Login successful", authPayload{
		UserID:   foundUser.ID,
		Username: foundUser.Username,
		Email:    foundUser.Email,
		Token:    token,
	})
}

// Profile echoes the verified identity back to the caller.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Token is valid",
		"user": gin.H{
			"id":    claims.UserID,
			"email": claims.Email,
			"iat":   claims.IssuedAt.Unix(),
			"exp":   claims.ExpiresAt.Unix(),
		},
	})
}
