package handler

import (
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/shared/response"
)

// =====================================================
// PROFILE ENDPOINTS
// =====================================================

// CreateProfile creates the caller's profile
// POST /api/v1/artists
func (h *ArtistHandler) CreateProfile(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req model.CreateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.CreateArtistProfile(c.Request.Context(), caller, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// UpdateProfile
// PATCH /api/v1/artists/:address
func (h *ArtistHandler) UpdateProfile(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := h.profileParam(c, caller)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.UpdateArtistProfile(c.Request.Context(), caller, profile, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// CloseProfile returns the owner wallet after the sweep
// DELETE /api/v1/artists/:address
func (h *ArtistHandler) CloseProfile(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := h.profileParam(c, caller)
	if !ok {
		return
	}

	resp, err := h.artistService.CloseArtistProfile(c.Request.Context(), caller, profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// GetProfile
// GET /api/v1/artists/:address
func (h *ArtistHandler) GetProfile(c *gin.Context) {
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}

	resp, err := h.artistService.GetProfile(c.Request.Context(), profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// VAULT & TIPS
// =====================================================

// CreateVault
// POST /api/v1/artists/:address/vault
func (h *ArtistHandler) CreateVault(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := h.profileParam(c, caller)
	if !ok {
		return
	}

	resp, err := h.artistService.CreateTipsVault(c.Request.Context(), caller, profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// GetVault
// GET /api/v1/artists/:address/vault
func (h *ArtistHandler) GetVault(c *gin.Context) {
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}

	resp, err := h.artistService.GetVault(c.Request.Context(), profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Tip
// POST /api/v1/artists/:address/tips
func (h *ArtistHandler) Tip(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}

	var req model.AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.TipArtist(c.Request.Context(), caller, profile, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Withdraw
// POST /api/v1/artists/:address/withdrawals
func (h *ArtistHandler) Withdraw(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := h.profileParam(c, caller)
	if !ok {
		return
	}

	var req model.AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.WithdrawTips(c.Request.Context(), caller, profile, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// FOLLOW
// =====================================================

// Follow
// POST /api/v1/artists/:address/follow
func (h *ArtistHandler) Follow(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}

	resp, err := h.artistService.FollowArtist(c.Request.Context(), caller, profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// GetFollow
// GET /api/v1/artists/:address/followers/:follower
func (h *ArtistHandler) GetFollow(c *gin.Context) {
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}
	follower, ok := keyParam(c, "follower")
	if !ok {
		return
	}

	resp, err := h.artistService.GetFollow(c.Request.Context(), profile, follower)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// WORKS
// =====================================================

// PostWork
// POST /api/v1/artists/:address/works
func (h *ArtistHandler) PostWork(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := h.profileParam(c, caller)
	if !ok {
		return
	}

	var req model.PostWorkRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.PostWork(c.Request.Context(), caller, profile, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// ListWorks
// GET /api/v1/artists/:address/works
func (h *ArtistHandler) ListWorks(c *gin.Context) {
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}

	works, err := h.artistService.ListWorks(c.Request.Context(), profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, works, &response.Meta{Total: len(works)})
}

// GetWork
// GET /api/v1/artists/:address/works/:index
func (h *ArtistHandler) GetWork(c *gin.Context) {
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}
	index, err := strconv.ParseUint(c.Param("index"), 10, 8)
	if err != nil {
		response.BadRequest(c, "index must be between 0 and 255")
		return
	}

	resp, err := h.artistService.GetWork(c.Request.Context(), profile, uint8(index))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// UploadURL presigns a content upload; the returned content_url goes into PostWork
// POST /api/v1/works/upload-url
func (h *ArtistHandler) UploadURL(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	if h.uploader == nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_DISABLED", "object storage is not configured")
		return
	}

	var req model.UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	objectKey := path.Join("works", caller.String(), uuid.NewString(), path.Base(req.Filename))
	uploadURL, publicURL, expiresAt, err := h.uploader.PresignUpload(c.Request.Context(), objectKey, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(publicURL) > model.MaxContentURLLength {
		respondServiceError(c, model.NewArtistErrorf(model.ErrContentURLTooLong, "shorten the file name"))
		return
	}

	response.Success(c, http.StatusOK, model.UploadURLResponse{
		UploadURL:  uploadURL,
		ContentURL: publicURL,
		ExpiresAt:  expiresAt,
	})
}

// =====================================================
// INTERACTIONS
// =====================================================

// Interact likes or comments on a work
// POST /api/v1/works/:work/interactions
func (h *ArtistHandler) Interact(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	work, ok := keyParam(c, "work")
	if !ok {
		return
	}

	var req model.InteractRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.InteractWithWork(c.Request.Context(), caller, work, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// GetInteraction
// GET /api/v1/works/:work/interactions/:user
func (h *ArtistHandler) GetInteraction(c *gin.Context) {
	work, ok := keyParam(c, "work")
	if !ok {
		return
	}
	user, ok := keyParam(c, "user")
	if !ok {
		return
	}

	resp, err := h.artistService.GetInteraction(c.Request.Context(), work, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// COLLABORATION
// =====================================================

// CreateCollab
// POST /api/v1/artists/:address/collabs
func (h *ArtistHandler) CreateCollab(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}

	var req model.CreateCollabRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.CreateCollabRequest(c.Request.Context(), caller, profile, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// GetCollab
// GET /api/v1/artists/:address/collabs/:requester
func (h *ArtistHandler) GetCollab(c *gin.Context) {
	profile, ok := keyParam(c, "address")
	if !ok {
		return
	}
	requester, ok := keyParam(c, "requester")
	if !ok {
		return
	}

	resp, err := h.artistService.GetCollabRequest(c.Request.Context(), profile, requester)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// UpdateCollabStatus
// PATCH /api/v1/artists/:address/collabs/:requester
func (h *ArtistHandler) UpdateCollabStatus(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	profile, ok := h.profileParam(c, caller)
	if !ok {
		return
	}
	requester, ok := keyParam(c, "requester")
	if !ok {
		return
	}

	var req model.UpdateCollabStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.UpdateCollabStatus(c.Request.Context(), caller, profile, requester, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// WALLETS & RANKING
// =====================================================

// GetWallet
// GET /api/v1/wallets/:key
func (h *ArtistHandler) GetWallet(c *gin.Context) {
	wallet, ok := keyParam(c, "key")
	if !ok {
		return
	}

	resp, err := h.artistService.GetWallet(c.Request.Context(), wallet)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Fund credits a wallet from the dev faucet
// POST /api/v1/wallets/:key/fund
func (h *ArtistHandler) Fund(c *gin.Context) {
	wallet, ok := keyParam(c, "key")
	if !ok {
		return
	}

	var req model.AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.artistService.Fund(c.Request.Context(), wallet, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Leaderboard
// GET /api/v1/leaderboard?limit=10
func (h *ArtistHandler) Leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		response.BadRequest(c, "limit must be a number")
		return
	}

	entries, err := h.artistService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, entries, &response.Meta{Limit: limit, Total: len(entries)})
}
