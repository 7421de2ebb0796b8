package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateProfileRequest request to create the caller's artist profile
type CreateProfileRequest struct {
	Name  string   `json:"name"`
	Bio   string   `json:"bio"`
	Links []string `json:"links"`
}

func (r CreateProfileRequest) Validate() error {
	return firstInvalid(
		validation.Validate(r.Name, maxBytes(MaxNameLength, ErrNameTooLong)),
		validation.Validate(r.Bio, maxBytes(MaxBioLength, ErrBioTooLong)),
		validation.Validate(r.Links, linksRule),
	)
}

// UpdateProfileRequest - nil fields are left untouched
type UpdateProfileRequest struct {
	Name  *string   `json:"name"`
	Bio   *string   `json:"bio"`
	Links *[]string `json:"links"`
}

func (r UpdateProfileRequest) Validate() error {
	return firstInvalid(
		validation.Validate(r.Name, validation.When(r.Name != nil, maxBytes(MaxNameLength, ErrNameTooLong))),
		validation.Validate(r.Bio, validation.When(r.Bio != nil, maxBytes(MaxBioLength, ErrBioTooLong))),
		validation.Validate(r.Links, validation.When(r.Links != nil, linksRule)),
	)
}

// PostWorkRequest request to publish a work under the caller's profile
type PostWorkRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentURL  string `json:"content_url"`
}

func (r PostWorkRequest) Validate() error {
	return firstInvalid(
		validation.Validate(r.Title, maxBytes(MaxTitleLength, ErrTitleTooLong)),
		validation.Validate(r.Description, maxBytes(MaxDescriptionLength, ErrDescriptionTooLong)),
		validation.Validate(r.ContentURL, maxBytes(MaxContentURLLength, ErrContentURLTooLong)),
	)
}

// AmountRequest carries a lamport amount (tip, withdrawal, faucet)
type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

func (r AmountRequest) Validate() error {
	return validation.Validate(r.Amount, validation.By(func(value interface{}) error {
		if value.(uint64) == 0 {
			return NewArtistError(ErrInvalidAmount)
		}
		return nil
	}))
}

// InteractRequest like or comment on a work
type InteractRequest struct {
	Type    InteractionType `json:"type"`
	Comment *string         `json:"comment"`
}

func (r InteractRequest) Validate() error {
	if !r.Type.Valid() {
		return NewArtistError(ErrInvalidInteractionType)
	}
	if r.Type == InteractionLike {
		return nil
	}
	return validation.Validate(r.Comment, validation.By(func(value interface{}) error {
		comment := value.(*string)
		if comment == nil || *comment == "" {
			return NewArtistError(ErrCommentRequired)
		}
		return nil
	}), maxBytes(MaxCommentLength, ErrCommentTooLong))
}

// CreateCollabRequest - description is not bounded here, only by record capacity
type CreateCollabRequest struct {
	Description string `json:"description"`
}

func (r CreateCollabRequest) Validate() error {
	return nil
}

// UpdateCollabStatusRequest resolves a pending request
type UpdateCollabStatusRequest struct {
	Status CollabStatus `json:"status"`
}

func (r UpdateCollabStatusRequest) Validate() error {
	return validation.Validate(r.Status, validation.By(func(value interface{}) error {
		switch value.(CollabStatus) {
		case CollabAccepted, CollabRejected:
			return nil
		default:
			return NewArtistError(ErrInvalidCollabStatus)
		}
	}))
}

// UploadURLRequest asks for a presigned upload target for work content
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

func (r UploadURLRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Filename, validation.Required, validation.Length(1, 100), is.PrintableASCII),
		validation.Field(&r.ContentType, validation.Length(0, 100), is.PrintableASCII),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ProfileResponse struct {
	Address  Address `json:"address"`
	Lamports uint64  `json:"lamports"`
	ArtistProfile
}

type BalanceResponse struct {
	Address  Address         `json:"address"`
	Kind     string          `json:"kind"`
	Lamports uint64          `json:"lamports"`
	Amount   decimal.Decimal `json:"amount"`
	Reserve  uint64          `json:"reserve"`
}

type FollowResponse struct {
	Address Address `json:"address"`
	FollowerAccount
}

type WorkResponse struct {
	Address Address `json:"address"`
	Index   uint8   `json:"index"`
	Work
}

type InteractionResponse struct {
	Address Address `json:"address"`
	Interaction
}

type CollabResponse struct {
	Address Address `json:"address"`
	CollabRequest
}

type LeaderboardEntry struct {
	Rank      int             `json:"rank"`
	Artist    Address         `json:"artist"`
	TotalTips uint64          `json:"total_tips"`
	Amount    decimal.Decimal `json:"amount"`
}

type UploadURLResponse struct {
	UploadURL  string    `json:"upload_url"`
	ContentURL string    `json:"content_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// =====================================================
// RULES
// =====================================================

// maxBytes bounds the byte length of a string or *string
func maxBytes(limit int, sentinel error) validation.Rule {
	return validation.By(func(value interface{}) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		}
		if len(s) > limit {
			return NewArtistErrorf(sentinel, "%d bytes, max %d", len(s), limit)
		}
		return nil
	})
}

var linksRule = validation.By(func(value interface{}) error {
	var links []string
	switch v := value.(type) {
	case []string:
		links = v
	case *[]string:
		if v == nil {
			return nil
		}
		links = *v
	}
	if len(links) > MaxLinks {
		return NewArtistErrorf(ErrTooManyLinks, "%d links, max %d", len(links), MaxLinks)
	}
	for i, link := range links {
		if len(link) > MaxLinkLength {
			return NewArtistErrorf(ErrLinkTooLong, "link %d is %d bytes, max %d", i, len(link), MaxLinkLength)
		}
	}
	return nil
})

func firstInvalid(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
