package model

import (
	"time"

	"github.com/google/uuid"
)

// Event subjects
const (
	SubjectArtistCreated   = "artist.created"
	SubjectArtistUpdated   = "artist.updated"
	SubjectArtistClosed    = "artist.closed"
	SubjectArtistFollowed  = "artist.followed"
	SubjectArtistTipped    = "artist.tipped"
	SubjectVaultCreated    = "vault.created"
	SubjectVaultWithdrawn  = "vault.withdrawn"
	SubjectWorkPosted      = "work.posted"
	SubjectWorkLiked       = "work.liked"
	SubjectWorkCommented   = "work.commented"
	SubjectCollabRequested = "collab.requested"
	SubjectCollabResolved  = "collab.resolved"
	SubjectWalletFunded    = "wallet.funded"
)

// Event is published after a unit of work commits
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Artist     Address   `json:"artist"`
	Actor      Key       `json:"actor"`
	Subject    *Address  `json:"subject,omitempty"` // the record acted on, when it is not the profile
	Amount     uint64    `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, artist Address, actor Key, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Artist:     artist,
		Actor:      actor,
		OccurredAt: at,
	}
}

// WithSubject sets the record the event refers to
func (e Event) WithSubject(addr Address) Event {
	e.Subject = &addr
	return e
}

func (e Event) WithAmount(amount uint64) Event {
	e.Amount = amount
	return e
}

// =====================================================
// TASK PAYLOADS
// =====================================================

// TipReceivedPayload is enqueued after a tip commits
type TipReceivedPayload struct {
	Artist    Address `json:"artist"`
	Tipper    Key     `json:"tipper"`
	Amount    uint64  `json:"amount"`
	TotalTips uint64  `json:"total_tips"`
}

// ProfileClosedPayload is enqueued after a profile is closed
type ProfileClosedPayload struct {
	Artist Address `json:"artist"`
	Owner  Key     `json:"owner"`
}
