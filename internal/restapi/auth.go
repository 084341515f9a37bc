package restapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/nbbcoffee/coffeehub/internal/domain"
	"github.com/nbbcoffee/coffeehub/pkg/common"
	"github.com/nbbcoffee/coffeehub/pkg/mailer"
	"go.uber.org/zap"
)

// TokenClaims is the bearer token payload: subject username plus role.
// Validation checks signature and expiry only, role changes after issuance
// take effect at the next login.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

func (h *handler) createAccessToken(username string, role domain.Role) (string, error) {
	claims := TokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.tokenSecret)
}

func (h *handler) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	var user domain.User
	if err := GetDB(c).Where("username = ?", payload.Username).First(&user).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Incorrect username or password")
	}
	if !common.CheckPassword(user.Password, payload.Password) {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Incorrect username or password")
	}

	token, err := h.createAccessToken(user.Username, user.Role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue access token")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"role":         user.Role,
	})
}

func (h *handler) register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse register parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(payload.Role)))
	if !role.Valid() {
		return fail(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be petani, pembeli or admin")
	}

	var exists int64
	GetDB(c).Model(&domain.User{}).
		Where("username = ? OR email = ?", payload.Username, payload.Email).
		Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusBadRequest, "DUPLICATE_USER", "Email or username already registered")
	}

	hashed, err := common.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password")
	}

	user := domain.User{
		ID:       common.UUIDint64(),
		Email:    payload.Email,
		Username: payload.Username,
		Password: hashed,
		Role:     role,
		Verified: true,
	}
	if err := GetDB(c).Create(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user")
	}

	if h.mail != nil {
		go func(m *mailer.Mailer, email, username string) {
			_ = m.SendWelcome(email, username)
		}(h.mail, user.Email, user.Username)
	}

	zap.L().Info("registered new account",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, echo.Map{"message": "User created"})
}
