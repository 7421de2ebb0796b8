package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/service"
	"artist-platform/internal/shared/middleware"
	"artist-platform/internal/shared/response"
	"artist-platform/pkg/logger"
)

// ContentUploader hands out presigned upload targets for work content
type ContentUploader interface {
	PresignUpload(ctx context.Context, objectKey, contentType string) (uploadURL, publicURL string, expiresAt time.Time, err error)
}

// =====================================================
// ARTIST HANDLER
// =====================================================

type ArtistHandler struct {
	artistService service.ServiceInterface
	uploader      ContentUploader
}

// NewArtistHandler - uploader may be nil, which disables the upload-url endpoint
func NewArtistHandler(artistService service.ServiceInterface, uploader ContentUploader) *ArtistHandler {
	return &ArtistHandler{
		artistService: artistService,
		uploader:      uploader,
	}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

var errMissingCaller = errors.New("missing caller identity")

// getCaller reads the key the auth middleware put in the context
func getCaller(c *gin.Context) (model.Key, error) {
	raw, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return model.Key{}, errMissingCaller
	}
	s, ok := raw.(string)
	if !ok {
		return model.Key{}, errMissingCaller
	}
	return model.ParseKey(s)
}

// keyParam parses a hex key path parameter
func keyParam(c *gin.Context, name string) (model.Key, bool) {
	k, err := model.ParseKey(c.Param(name))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_KEY", name+": "+err.Error())
		return model.Key{}, false
	}
	return k, true
}

// profileParam resolves :address, where "me" stands for the caller's own profile
func (h *ArtistHandler) profileParam(c *gin.Context, caller model.Key) (model.Address, bool) {
	if c.Param("address") != "me" {
		return keyParam(c, "address")
	}
	if caller.IsZero() {
		response.Unauthorized(c, "authentication required for /me")
		return model.Address{}, false
	}
	addr, err := h.artistService.ProfileAddress(caller)
	if err != nil {
		respondServiceError(c, err)
		return model.Address{}, false
	}
	return addr, true
}

// mustCaller writes 401 and returns false when no caller is present
func mustCaller(c *gin.Context) (model.Key, bool) {
	caller, err := getCaller(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return model.Key{}, false
	}
	return caller, true
}

// bindJSON reports decode failures that carry a domain code (bad enum text) with that code
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		if model.CodeOf(err) != "" {
			respondServiceError(c, err)
			return false
		}
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

func respondServiceError(c *gin.Context, err error) {
	status, code := mapArtistError(err)
	if status == http.StatusInternalServerError {
		logger.Error("artist request failed", err)
		response.ErrorResponse(c, status, code, "internal server error")
		return
	}
	response.ErrorResponse(c, status, code, err.Error())
}

// mapArtistError maps a domain error code to an HTTP status
func mapArtistError(err error) (int, string) {
	code := model.CodeOf(err)
	switch code {
	case model.ErrCodeNameTooLong,
		model.ErrCodeBioTooLong,
		model.ErrCodeTooManyLinks,
		model.ErrCodeLinkTooLong,
		model.ErrCodeTitleTooLong,
		model.ErrCodeDescriptionTooLong,
		model.ErrCodeContentURLTooLong,
		model.ErrCodeInvalidAmount,
		model.ErrCodeCommentRequired,
		model.ErrCodeCommentTooLong,
		model.ErrCodeInvalidCollabStatus,
		model.ErrCodeInvalidInteractionType,
		model.ErrCodeRecordTooLarge:
		return http.StatusBadRequest, code
	case model.ErrCodeAlreadyFollowing,
		model.ErrCodeAlreadyLiked,
		model.ErrCodeCollabAlreadyResolved,
		model.ErrCodeAccountExists,
		model.ErrCodeNotAWallet:
		return http.StatusConflict, code
	case model.ErrCodeInsufficientFunds, model.ErrCodeNumericalOverflow:
		return http.StatusUnprocessableEntity, code
	case model.ErrCodeUnauthorized, model.ErrCodeFaucetDisabled:
		return http.StatusForbidden, code
	case model.ErrCodeAccountNotFound:
		return http.StatusNotFound, code
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
