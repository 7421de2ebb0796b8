package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeNameTooLong            = "ART001"
	ErrCodeBioTooLong             = "ART002"
	ErrCodeTooManyLinks           = "ART003"
	ErrCodeAlreadyFollowing       = "ART004"
	ErrCodeTitleTooLong           = "ART005"
	ErrCodeDescriptionTooLong     = "ART006"
	ErrCodeInvalidAmount          = "ART007"
	ErrCodeAlreadyLiked           = "ART008"
	ErrCodeCommentRequired        = "ART009"
	ErrCodeCommentTooLong         = "ART010"
	ErrCodeCollabAlreadyResolved  = "ART011"
	ErrCodeInsufficientFunds      = "ART012"
	ErrCodeNumericalOverflow      = "ART013"
	ErrCodeUnauthorized           = "ART014"
	ErrCodeLinkTooLong            = "ART015"
	ErrCodeContentURLTooLong      = "ART016"
	ErrCodeInvalidCollabStatus    = "ART017"
	ErrCodeInvalidInteractionType = "ART018"

	ErrCodeAccountExists   = "ART100"
	ErrCodeAccountNotFound = "ART101"
	ErrCodeRecordTooLarge  = "ART102"
	ErrCodeFaucetDisabled  = "ART103"
	ErrCodeNotAWallet      = "ART104"
)

// Errors
var (
	ErrNameTooLong            = errors.New("name is too long")
	ErrBioTooLong             = errors.New("bio is too long")
	ErrTooManyLinks           = errors.New("too many links")
	ErrAlreadyFollowing       = errors.New("already following this artist")
	ErrTitleTooLong           = errors.New("title is too long")
	ErrDescriptionTooLong     = errors.New("description is too long")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrAlreadyLiked           = errors.New("already liked this work")
	ErrCommentRequired        = errors.New("comment is required")
	ErrCommentTooLong         = errors.New("comment is too long")
	ErrCollabAlreadyResolved  = errors.New("collaboration request already resolved")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrNumericalOverflow      = errors.New("numerical overflow")
	ErrUnauthorized           = errors.New("caller is not the record owner")
	ErrLinkTooLong            = errors.New("link is too long")
	ErrContentURLTooLong      = errors.New("content url is too long")
	ErrInvalidCollabStatus    = errors.New("collaboration status must be accepted or rejected")
	ErrInvalidInteractionType = errors.New("unknown interaction type")

	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRecordTooLarge     = errors.New("record exceeds its storage capacity")
	ErrRecordCorrupt      = errors.New("record data is truncated or corrupt")
	ErrRecordKindMismatch = errors.New("record discriminator mismatch")
	ErrFaucetDisabled     = errors.New("faucet is disabled")
	ErrNotAWallet         = errors.New("account is not a wallet")
)

// ArtistError carries a stable code for every failure a caller can observe
type ArtistError struct {
	Code    string
	Message string
	Err     error
}

func (e *ArtistError) Error() string {
	if e.Err != nil && !strings.HasPrefix(e.Message, e.Err.Error()) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ArtistError) Unwrap() error {
	return e.Err
}

var errorCodes = map[error]string{
	ErrNameTooLong:            ErrCodeNameTooLong,
	ErrBioTooLong:             ErrCodeBioTooLong,
	ErrTooManyLinks:           ErrCodeTooManyLinks,
	ErrAlreadyFollowing:       ErrCodeAlreadyFollowing,
	ErrTitleTooLong:           ErrCodeTitleTooLong,
	ErrDescriptionTooLong:     ErrCodeDescriptionTooLong,
	ErrInvalidAmount:          ErrCodeInvalidAmount,
	ErrAlreadyLiked:           ErrCodeAlreadyLiked,
	ErrCommentRequired:        ErrCodeCommentRequired,
	ErrCommentTooLong:         ErrCodeCommentTooLong,
	ErrCollabAlreadyResolved:  ErrCodeCollabAlreadyResolved,
	ErrInsufficientFunds:      ErrCodeInsufficientFunds,
	ErrNumericalOverflow:      ErrCodeNumericalOverflow,
	ErrUnauthorized:           ErrCodeUnauthorized,
	ErrLinkTooLong:            ErrCodeLinkTooLong,
	ErrContentURLTooLong:      ErrCodeContentURLTooLong,
	ErrInvalidCollabStatus:    ErrCodeInvalidCollabStatus,
	ErrInvalidInteractionType: ErrCodeInvalidInteractionType,
	ErrAccountExists:          ErrCodeAccountExists,
	ErrAccountNotFound:        ErrCodeAccountNotFound,
	ErrRecordTooLarge:         ErrCodeRecordTooLarge,
	ErrFaucetDisabled:         ErrCodeFaucetDisabled,
	ErrNotAWallet:             ErrCodeNotAWallet,
}

// NewArtistError wraps one of the sentinel errors above with its code
func NewArtistError(sentinel error) *ArtistError {
	return &ArtistError{
		Code:    errorCodes[sentinel],
		Message: sentinel.Error(),
		Err:     sentinel,
	}
}

// NewArtistErrorf is NewArtistError with extra detail in the message
func NewArtistErrorf(sentinel error, format string, args ...interface{}) *ArtistError {
	return &ArtistError{
		Code:    errorCodes[sentinel],
		Message: fmt.Sprintf("%s: %s", sentinel.Error(), fmt.Sprintf(format, args...)),
		Err:     sentinel,
	}
}

// CodeOf returns the code of err, or "" when err is not a domain error
func CodeOf(err error) string {
	var artistErr *ArtistError
	if errors.As(err, &artistErr) {
		return artistErr.Code
	}
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
