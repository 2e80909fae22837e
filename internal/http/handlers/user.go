package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/http/response"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
	"github.com/yungbote/styleswipe-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
	avatars     services.AvatarService
}

type UserHandlerDeps struct {
	Log         *logger.Logger
	UserService services.UserService
	Avatars     services.AvatarService
}

func NewUserHandlerWithDeps(deps UserHandlerDeps) *UserHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: deps.UserService,
		avatars:     deps.Avatars,
	}
}

// POST /api/users/onboarding
func (h *UserHandler) Onboarding(c *gin.Context) {
	var req struct {
		Gender      string            `json:"gender"`
		Preferences types.Preferences `json:"preferences"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.userService.Onboard(c.Request.Context(), services.OnboardingInput{
		Gender:      req.Gender,
		Preferences: req.Preferences,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Onboarding completed", "profile": view})
}

// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	view, err := h.userService.GetProfile(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// PUT /api/users/profile
// Absent fields are left unchanged.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name           *string            `json:"name"`
		Bio            *string            `json:"bio"`
		Gender         *string            `json:"gender"`
		DateOfBirth    *string            `json:"dateOfBirth"`
		ProfilePicture *string            `json:"profilePicture"`
		Preferences    *types.Preferences `json:"preferences"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.userService.UpdateProfile(c.Request.Context(), services.ProfileUpdate{
		Name:           req.Name,
		Bio:            req.Bio,
		Gender:         req.Gender,
		DateOfBirth:    req.DateOfBirth,
		ProfilePicture: req.ProfilePicture,
		Preferences:    req.Preferences,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/users/account
func (h *UserHandler) GetAccount(c *gin.Context) {
	view, err := h.userService.GetAccount(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// PUT /api/users/account
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req struct {
		Username        *string `json:"username"`
		Email           *string `json:"email"`
		CurrentPassword string  `json:"currentPassword"`
		NewPassword     string  `json:"newPassword"`
		ConfirmPassword string  `json:"confirmPassword"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.userService.UpdateAccount(c.Request.Context(), services.AccountUpdate{
		Username:        req.Username,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Account updated successfully", "account": view})
}

// GET /api/users/account/liked-items?page=&limit=
func (h *UserHandler) ListLikedItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.userService.ListLikedItems(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/users/account/liked-items
// body: { "itemIds": ["...", "..."] }
func (h *UserHandler) DeleteLikedItems(c *gin.Context) {
	var req struct {
		ItemIDs []string `json:"itemIds"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ids := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, ok := parseID(c, raw, "invalid_item_ids", "itemIds")
		if !ok {
			return
		}
		ids = append(ids, id)
	}
	res, err := h.userService.DeleteLikedItems(c.Request.Context(), ids)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":         "Liked items removed",
		"removed":         res.Removed,
		"likedItemsCount": res.LikedCount,
	})
}

// GET /api/users/me/avatar
func (h *UserHandler) GetAvatar(c *gin.Context) {
	raw, err := h.avatars.RenderForCurrentUser(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", raw)
}
