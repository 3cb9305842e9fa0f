package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reportmitra/admin-hub/internal/auth"
	"github.com/reportmitra/admin-hub/internal/repositories"
	"github.com/reportmitra/admin-hub/internal/services"
	"github.com/reportmitra/admin-hub/pkg/storage"
	"github.com/reportmitra/admin-hub/pkg/utils"
)

const defaultActivityLogLimit = 200

// UserHandler serves the root-only account-management endpoints plus the
// presigned-upload endpoint available to all staff.
type UserHandler struct {
	users    services.UserService
	activity services.ActivityLogService
	signer   *storage.Signer
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users services.UserService, activity services.ActivityLogService, signer *storage.Signer) *UserHandler {
	return &UserHandler{users: users, activity: activity, signer: signer}
}

type CreateUserPayload struct {
	UserID     string `json:"userId" binding:"required,len=6"`
	Password   string `json:"password" binding:"required"`
	FullName   string `json:"fullName" binding:"omitempty,max=150"`
	Email      string `json:"email" binding:"omitempty,max=255"`
	Department string `json:"department" binding:"required,max=100"`
	IsRoot     bool   `json:"isRoot"`
}

// CreateUser godoc
// @Summary Create a staff account
// @Description Registers a new department staff account. Root only.
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body CreateUserPayload true "Account details"
// @Success 201 {object} utils.SuccessResponse{data=models.User}
// @Failure 400 {object} utils.APIErrorResponse "Invalid userid, email, or password"
// @Failure 403 {object} utils.APIErrorResponse "Root privileges required"
// @Failure 409 {object} utils.APIErrorResponse "Userid already taken"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var payload CreateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	actor := auth.PrincipalFromContext(c)
	user, err := h.users.CreateUser(services.CreateUserInput{
		UserID:     payload.UserID,
		Password:   payload.Password,
		FullName:   payload.FullName,
		Email:      payload.Email,
		Department: payload.Department,
		IsRoot:     payload.IsRoot,
	}, actor, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserIDExists):
			utils.RespondConflictError(c, err.Error())
		case errors.Is(err, utils.ErrInvalidUserIDFormat),
			errors.Is(err, utils.ErrInvalidEmailFormat),
			errors.Is(err, services.ErrPasswordTooShort):
			utils.RespondAPIError(c, http.StatusBadRequest, err.Error(), nil)
		default:
			utils.RespondInternalServerError(c, "Could not create account", err.Error())
		}
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, user, "Account created")
}

// ListUsers godoc
// @Summary List staff accounts
// @Description Returns all accounts, newest first. Root only.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]models.User}
// @Failure 403 {object} utils.APIErrorResponse "Root privileges required"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers()
	if err != nil {
		utils.RespondInternalServerError(c, "Could not list accounts", err.Error())
		return
	}
	utils.RespondSuccess(c, http.StatusOK, users, "")
}

// DeleteUser godoc
// @Summary Delete a staff account
// @Description Soft-deletes an account. Root accounts cannot be deleted. Root only.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Login userid of the account"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.APIErrorResponse "Target is a root account"
// @Failure 403 {object} utils.APIErrorResponse "Root privileges required"
// @Failure 404 {object} utils.APIErrorResponse "User not found"
// @Router /users/{user_id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor := auth.PrincipalFromContext(c)
	err := h.users.DeleteUser(c.Param("user_id"), actor, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondNotFoundError(c, "User")
		case errors.Is(err, services.ErrCannotModifyRoot):
			utils.RespondAPIError(c, http.StatusBadRequest, err.Error(), nil)
		default:
			utils.RespondInternalServerError(c, "Could not delete account", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "Account deleted")
}

// ToggleUserStatus godoc
// @Summary Activate or deactivate a staff account
// @Description Flips the account's active flag. Deactivated accounts cannot log in. Root only.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Login userid of the account"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.APIErrorResponse "Target is a root account"
// @Failure 403 {object} utils.APIErrorResponse "Root privileges required"
// @Failure 404 {object} utils.APIErrorResponse "User not found"
// @Router /users/{user_id}/toggle-status [patch]
func (h *UserHandler) ToggleUserStatus(c *gin.Context) {
	actor := auth.PrincipalFromContext(c)
	active, err := h.users.ToggleUserActive(c.Param("user_id"), actor, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondNotFoundError(c, "User")
		case errors.Is(err, services.ErrCannotModifyRoot):
			utils.RespondAPIError(c, http.StatusBadRequest, err.Error(), nil)
		default:
			utils.RespondInternalServerError(c, "Could not update account", err.Error())
		}
		return
	}

	message := "Account deactivated"
	if active {
		message = "Account activated"
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"isActive": active}, message)
}

// ActivityLogs godoc
// @Summary Recent audit entries
// @Description Returns the audit trail, newest first. Root only.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum entries" default(200)
// @Success 200 {object} utils.SuccessResponse{data=[]models.ActivityLog}
// @Failure 403 {object} utils.APIErrorResponse "Root privileges required"
// @Router /activity-logs [get]
func (h *UserHandler) ActivityLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultActivityLogLimit)))
	if err != nil || limit < 1 {
		limit = defaultActivityLogLimit
	}

	logs, err := h.activity.ListLogs(limit)
	if err != nil {
		utils.RespondInternalServerError(c, "Could not list activity logs", err.Error())
		return
	}
	utils.RespondSuccess(c, http.StatusOK, logs, "")
}

type PresignUploadPayload struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required,max=100"`
}

// PresignUpload godoc
// @Summary Presign an evidence upload
// @Description Returns a short-lived signed PUT URL plus the object key the client must report back. Keys are namespaced by the caller's department.
// @Tags Uploads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body PresignUploadPayload true "Upload descriptor"
// @Success 200 {object} utils.SuccessResponse{data=storage.UploadTarget}
// @Failure 400 {object} utils.APIErrorResponse "Missing file name or content type"
// @Failure 500 {object} utils.APIErrorResponse "Storage not configured"
// @Router /uploads/presign [post]
func (h *UserHandler) PresignUpload(c *gin.Context) {
	var payload PresignUploadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	principal := auth.PrincipalFromContext(c)
	target, err := h.signer.PresignUpload(c.Request.Context(), payload.FileName, payload.ContentType, principal.Department)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileNameRequired), errors.Is(err, storage.ErrContentTypeRequired):
			utils.RespondAPIError(c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, storage.ErrNotConfigured):
			utils.RespondInternalServerError(c, storage.ErrNotConfigured.Error())
		default:
			utils.RespondInternalServerError(c, "Could not presign upload", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, target, "")
}
