package model

const (
	// Profile limits
	MaxNameLength = 50
	MaxBioLength  = 500
	MaxLinks      = 5
	MaxLinkLength = 100

	// Work limits
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxContentURLLength  = 200

	// Interaction / collab limits
	MaxCommentLength           = 500
	MaxCollabDescriptionLength = 500

	// Reserved bytes for forward-compatible fields
	ProfilePadding     = 200
	WorkPadding        = 200
	FollowerPadding    = 64
	InteractionPadding = 100
	CollabPadding      = 100
	ClosedPadding      = 32
)

// Derivation seed labels
const (
	SeedArtistProfile = "artist_profile"
	SeedTipsVault     = "tips_vault"
	SeedFollower      = "follower"
	SeedWork          = "work"
	SeedInteraction   = "interaction"
	SeedCollabRequest = "collab_request"
	SeedClosedProfile = "closed_profile"
)
