package model

import "crypto/sha256"

const (
	discriminatorSize = 8
	keySize           = KeyLength
	lengthPrefixSize  = 4
	optionTagSize     = 1
	u64Size           = 8
	i64Size           = 8
	u8Size            = 1
	boolSize          = 1
	enumTagSize       = 1
)

// Fixed storage sizes per record kind, in bytes
const (
	ArtistProfileSize = discriminatorSize +
		keySize + // owner
		lengthPrefixSize + MaxNameLength +
		lengthPrefixSize + MaxBioLength +
		lengthPrefixSize + (lengthPrefixSize+MaxLinkLength)*MaxLinks +
		u64Size + // follower_count
		u64Size + // total_tips
		u8Size + // work_count
		u8Size + // bump
		ProfilePadding

	FollowerAccountSize = discriminatorSize +
		keySize + // follower
		keySize + // artist
		boolSize +
		u8Size +
		FollowerPadding

	WorkSize = discriminatorSize +
		keySize +
		lengthPrefixSize + MaxTitleLength +
		lengthPrefixSize + MaxDescriptionLength +
		lengthPrefixSize + MaxContentURLLength +
		u64Size + // likes
		u64Size + // comment_count
		i64Size + // timestamp
		u8Size +
		WorkPadding

	InteractionSize = discriminatorSize +
		keySize + // user
		keySize + // work
		boolSize +
		optionTagSize + lengthPrefixSize + MaxCommentLength +
		i64Size +
		u8Size +
		InteractionPadding

	CollabRequestSize = discriminatorSize +
		keySize + // requester
		keySize + // artist
		lengthPrefixSize + MaxCollabDescriptionLength +
		enumTagSize +
		i64Size +
		u8Size +
		CollabPadding

	ClosedProfileSize = discriminatorSize +
		keySize + // owner
		u64Size + // follower_count
		u8Size + // work_count
		i64Size + // closed_at
		u8Size +
		ClosedPadding
)

// MaxSize is the fixed byte capacity reserved for a record kind.
// Wallets and vaults hold a balance only.
func MaxSize(kind RecordKind) int {
	switch kind {
	case KindArtistProfile:
		return ArtistProfileSize
	case KindFollowerAccount:
		return FollowerAccountSize
	case KindWork:
		return WorkSize
	case KindInteraction:
		return InteractionSize
	case KindCollabRequest:
		return CollabRequestSize
	case KindClosedProfile:
		return ClosedProfileSize
	default:
		return 0
	}
}

var discriminators = map[RecordKind][discriminatorSize]byte{
	KindArtistProfile:   discriminatorFor("ArtistProfile"),
	KindFollowerAccount: discriminatorFor("FollowerAccount"),
	KindWork:            discriminatorFor("Work"),
	KindInteraction:     discriminatorFor("Interaction"),
	KindCollabRequest:   discriminatorFor("CollabRequest"),
	KindClosedProfile:   discriminatorFor("ClosedProfile"),
}

func discriminatorFor(name string) [discriminatorSize]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [discriminatorSize]byte
	copy(d[:], sum[:discriminatorSize])
	return d
}
