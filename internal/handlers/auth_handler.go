package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/reportmitra/admin-hub/configs"
	"github.com/reportmitra/admin-hub/internal/auth"
	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/internal/services"
	"github.com/reportmitra/admin-hub/pkg/utils"
)

const tokenLifetime = 24 * time.Hour

// AuthHandler serves login, logout, and the current-principal endpoint.
type AuthHandler struct {
	users    services.UserService
	activity services.ActivityLogService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(users services.UserService, activity services.ActivityLogService) *AuthHandler {
	return &AuthHandler{users: users, activity: activity}
}

type LoginRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	UserID     string `json:"userId"`
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	IsRoot     bool   `json:"isRoot"`
}

// Login godoc
// @Summary Staff login
// @Description Verifies staff credentials and returns a JWT.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} utils.SuccessResponse{data=LoginResponse} "Token and user info"
// @Failure 400 {object} utils.APIErrorResponse "Invalid request parameters"
// @Failure 401 {object} utils.APIErrorResponse "Invalid userid or password, or account deactivated"
// @Failure 500 {object} utils.APIErrorResponse "Could not generate token"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	user, err := h.users.Authenticate(req.UserID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondUnauthorizedError(c, services.ErrInvalidCredentials.Error())
		case errors.Is(err, services.ErrAccountDeactivated):
			utils.RespondUnauthorizedError(c, services.ErrAccountDeactivated.Error())
		default:
			utils.RespondInternalServerError(c, "Login failed", err.Error())
		}
		return
	}

	expirationTime := time.Now().Add(tokenLifetime)
	claims := &auth.Claims{
		UserID:     user.UserID,
		Department: user.Department,
		IsRoot:     user.IsRoot,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			Issuer:    "admin_hub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(configs.AppConfig.JWTSecret))
	if err != nil {
		utils.RespondInternalServerError(c, "Could not generate token", err.Error())
		return
	}

	h.activity.Record(user.UserID, user.UserID, models.ActionLogin, "", c.ClientIP())

	resp := LoginResponse{
		Token: tokenString,
		User: UserInfo{
			UserID:     user.UserID,
			FullName:   user.FullName,
			Department: user.Department,
			IsRoot:     user.IsRoot,
		},
	}
	utils.RespondSuccess(c, http.StatusOK, resp, "Login successful")
}

// Logout godoc
// @Summary Staff logout
// @Description Logs out the current user by denylisting their token's JTI.
// @Tags auth
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} utils.SuccessResponse "Logged out"
// @Failure 400 {object} utils.APIErrorResponse "Missing JTI or expiry in context"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	jtiVal, jtiExists := c.Get(auth.CtxJTI)
	expVal, expExists := c.Get(auth.CtxExp)
	if !jtiExists || !expExists {
		utils.RespondAPIError(c, http.StatusBadRequest, "Logout context error: JTI or expiry not found", nil)
		return
	}

	jti, okJTI := jtiVal.(string)
	exp, okEXP := expVal.(time.Time)
	if !okJTI || jti == "" || !okEXP {
		utils.RespondAPIError(c, http.StatusBadRequest, "Logout context error: invalid JTI or expiry", nil)
		return
	}

	auth.AddToDenylist(jti, exp)

	principal := auth.PrincipalFromContext(c)
	h.activity.Record(principal.UserID, principal.UserID, models.ActionLogout, "", c.ClientIP())

	utils.RespondSuccess(c, http.StatusOK, nil, "Logged out")
}

// Me godoc
// @Summary Current principal
// @Description Returns the authenticated user's identity and department.
// @Tags auth
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} utils.SuccessResponse{data=UserInfo}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal := auth.PrincipalFromContext(c)
	utils.RespondSuccess(c, http.StatusOK, UserInfo{
		UserID:     principal.UserID,
		Department: principal.Department,
		IsRoot:     principal.IsRoot,
	}, "")
}
