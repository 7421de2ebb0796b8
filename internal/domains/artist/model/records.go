package model

import (
	"fmt"
	"strings"
	"time"
)

// RecordKind tags every stored account with the record type it holds
type RecordKind uint8

const (
	KindWallet RecordKind = iota
	KindArtistProfile
	KindTipsVault
	KindFollowerAccount
	KindWork
	KindInteraction
	KindCollabRequest
	KindClosedProfile
)

// RecordKinds lists every kind in tag order
func RecordKinds() []RecordKind {
	kinds := make([]RecordKind, 0, int(KindClosedProfile)+1)
	for k := KindWallet; k <= KindClosedProfile; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k RecordKind) String() string {
	switch k {
	case KindWallet:
		return "wallet"
	case KindArtistProfile:
		return "artist_profile"
	case KindTipsVault:
		return "tips_vault"
	case KindFollowerAccount:
		return "follower"
	case KindWork:
		return "work"
	case KindInteraction:
		return "interaction"
	case KindCollabRequest:
		return "collab_request"
	case KindClosedProfile:
		return "closed_profile"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseRecordKind accepts the names String returns
func ParseRecordKind(s string) (RecordKind, error) {
	for _, k := range RecordKinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown record kind %q", s)
}

// Account is the unit of storage: an address, its balance and the encoded record
type Account struct {
	Address   Address    `json:"address"`
	Kind      RecordKind `json:"kind"`
	Lamports  uint64     `json:"lamports"`
	Data      []byte     `json:"-"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone returns a deep copy
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Data != nil {
		clone.Data = append([]byte(nil), a.Data...)
	}
	return &clone
}

// =====================================================
// ENUMS
// =====================================================

// CollabStatus is the state of a collaboration request
type CollabStatus uint8

const (
	CollabPending CollabStatus = iota
	CollabAccepted
	CollabRejected
)

func (s CollabStatus) String() string {
	switch s {
	case CollabPending:
		return "pending"
	case CollabAccepted:
		return "accepted"
	case CollabRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

func (s CollabStatus) valid() bool {
	return s <= CollabRejected
}

func (s CollabStatus) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, ErrInvalidCollabStatus
	}
	return []byte(s.String()), nil
}

func (s *CollabStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "pending":
		*s = CollabPending
	case "accepted":
		*s = CollabAccepted
	case "rejected":
		*s = CollabRejected
	default:
		return NewArtistErrorf(ErrInvalidCollabStatus, "%q", string(text))
	}
	return nil
}

// InteractionType selects the branch of an interaction; the zero value is invalid
type InteractionType uint8

const (
	InteractionLike InteractionType = iota + 1
	InteractionComment
)

func (t InteractionType) String() string {
	switch t {
	case InteractionLike:
		return "like"
	case InteractionComment:
		return "comment"
	default:
		return fmt.Sprintf("interaction(%d)", uint8(t))
	}
}

func (t InteractionType) Valid() bool {
	return t == InteractionLike || t == InteractionComment
}

func (t InteractionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidInteractionType
	}
	return []byte(t.String()), nil
}

func (t *InteractionType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "like":
		*t = InteractionLike
	case "comment":
		*t = InteractionComment
	default:
		return NewArtistErrorf(ErrInvalidInteractionType, "%q", string(text))
	}
	return nil
}

// =====================================================
// RECORDS
// =====================================================

// ArtistProfile is created once per owner key
type ArtistProfile struct {
	Owner         Key      `json:"owner"`
	Name          string   `json:"name"`
	Bio           string   `json:"bio"`
	Links         []string `json:"links"`
	FollowerCount uint64   `json:"follower_count"`
	TotalTips     uint64   `json:"total_tips"` // cumulative, never decremented by withdrawals
	WorkCount     uint8    `json:"work_count"`
	Bump          uint8    `json:"bump"`
}

func (*ArtistProfile) Kind() RecordKind { return KindArtistProfile }

// FollowerAccount is the one-way follow edge (follower -> artist profile)
type FollowerAccount struct {
	Follower    Key     `json:"follower"`
	Artist      Address `json:"artist"`
	IsFollowing bool    `json:"is_following"`
	Bump        uint8   `json:"bump"`
}

func (*FollowerAccount) Kind() RecordKind { return KindFollowerAccount }

// Work is a posted creative work, indexed by the artist's work_count at creation
type Work struct {
	Artist       Address `json:"artist"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	ContentURL   string  `json:"content_url"`
	Likes        uint64  `json:"likes"`
	CommentCount uint64  `json:"comment_count"`
	Timestamp    int64   `json:"timestamp"`
	Bump         uint8   `json:"bump"`
}

func (*Work) Kind() RecordKind { return KindWork }

// Interaction is the single record a user holds for a work
type Interaction struct {
	User      Key     `json:"user"`
	Work      Address `json:"work"`
	HasLiked  bool    `json:"has_liked"`
	Comment   *string `json:"comment,omitempty"`
	Timestamp int64   `json:"timestamp"`
	Bump      uint8   `json:"bump"`
}

func (*Interaction) Kind() RecordKind { return KindInteraction }

// CollabRequest is resolved exactly once by the artist owner
type CollabRequest struct {
	Requester   Key          `json:"requester"`
	Artist      Address      `json:"artist"`
	Description string       `json:"description"`
	Status      CollabStatus `json:"status"`
	Timestamp   int64        `json:"timestamp"`
	Bump        uint8        `json:"bump"`
}

func (*CollabRequest) Kind() RecordKind { return KindCollabRequest }

// ClosedProfile survives a closed profile while its works and followers remain,
// so a reopened profile continues their numbering
type ClosedProfile struct {
	Owner         Key    `json:"owner"`
	FollowerCount uint64 `json:"follower_count"`
	WorkCount     uint8  `json:"work_count"`
	ClosedAt      int64  `json:"closed_at"`
	Bump          uint8  `json:"bump"`
}

func (*ClosedProfile) Kind() RecordKind { return KindClosedProfile }

// IsResolved reports whether the request left Pending
func (c *CollabRequest) IsResolved() bool {
	return c.Status != CollabPending
}
