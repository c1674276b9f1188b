package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/userprofile/backend/internal/logger"
	"github.com/pageza/userprofile/backend/internal/middleware"
	"github.com/pageza/userprofile/backend/internal/service"
	"github.com/pageza/userprofile/backend/internal/types"
	"github.com/pageza/userprofile/backend/internal/validation"
)

// maxRequestBody bounds a create-profile request: the largest accepted
// avatar plus room for the text fields and multipart framing.
const maxRequestBody = validation.MaxAvatarSize + 64<<10

const (
	msgInvalidUserID  = "Invalid user id."
	msgInvalidForm    = "Invalid form data."
	msgForbidden      = "You don't have permission to edit this profile."
	msgUserNotFound   = "User not found or not active."
	msgProfileExists  = "User already has a profile."
	msgUploadFailed   = "Failed to upload avatar. Please try again later."
	msgInternalError  = "Internal Server Error"
	msgAvatarTooLarge = "image size exceeds 1 MB"
)

type ProfileHandler struct {
	profileService service.IProfileService
	now            func() time.Time
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		now:            time.Now,
	}
}

// RegisterRoutes mounts the profile routes behind the given middleware,
// which must include authentication.
func (h *ProfileHandler) RegisterRoutes(router gin.IRoutes, middlewares ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, middlewares...), h.CreateProfile)
	router.POST("/users/:user_id/profile/", handlers...)
}

// CreateProfile handles POST /users/:user_id/profile/.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	actorID := c.GetUint(middleware.ContextUserID)
	if actorID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": middleware.MsgInvalidToken})
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, strconv.IntSize)
	if err != nil || targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidUserID})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)

	var form types.CreateProfileForm
	if err := c.ShouldBind(&form); err != nil {
		h.badForm(c, err)
		return
	}

	avatar, err := readAvatar(c)
	if err != nil {
		h.badForm(c, err)
		return
	}

	in, verr := types.NewCreateProfileInput(form, avatar, h.now())
	if verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		return
	}

	resp, err := h.profileService.CreateProfile(c.Request.Context(), actorID, uint(targetID), in)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// readAvatar returns the uploaded avatar bytes, or nil when none was sent.
// At most one byte over the size limit is read so the validator can reject
// oversized files.
func readAvatar(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, validation.MaxAvatarSize+1))
}

func (h *ProfileHandler) badForm(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar: " + msgAvatarTooLarge, "field": "avatar"})
		return
	}
	logger.FromContext(c.Request.Context()).Debug("unreadable profile form", "error", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidForm})
}

func (h *ProfileHandler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": msgForbidden})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUserNotFound})
	case errors.Is(err, service.ErrProfileExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgProfileExists})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUploadFailed})
	default:
		logger.FromContext(c.Request.Context()).Error("failed to create profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
	}
}
