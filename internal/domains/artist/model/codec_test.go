package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) Key {
	var k Key
	for i := range k {
		k[i] = b
	}
	return k
}

func TestMaxSize_Constants(t *testing.T) {
	assert.Equal(t, 1340, MaxSize(KindArtistProfile))
	assert.Equal(t, 138, MaxSize(KindFollowerAccount))
	assert.Equal(t, 1577, MaxSize(KindWork))
	assert.Equal(t, 687, MaxSize(KindInteraction))
	assert.Equal(t, 686, MaxSize(KindCollabRequest))
	assert.Equal(t, 90, MaxSize(KindClosedProfile))
	assert.Equal(t, 0, MaxSize(KindTipsVault))
	assert.Equal(t, 0, MaxSize(KindWallet))
}

func TestEncodeRecord_FullyLoadedProfileFits(t *testing.T) {
	links := make([]string, MaxLinks)
	for i := range links {
		links[i] = strings.Repeat("l", MaxLinkLength)
	}
	profile := &ArtistProfile{
		Owner:         testKey(1),
		Name:          strings.Repeat("n", MaxNameLength),
		Bio:           strings.Repeat("b", MaxBioLength),
		Links:         links,
		FollowerCount: ^uint64(0),
		TotalTips:     ^uint64(0),
		WorkCount:     255,
		Bump:          254,
	}

	data, err := EncodeRecord(profile)
	require.NoError(t, err)
	assert.Len(t, data, ArtistProfileSize)

	var decoded ArtistProfile
	require.NoError(t, DecodeRecord(data, &decoded))
	assert.Equal(t, *profile, decoded)
}

func TestEncodeRecord_PadsToMaxSize(t *testing.T) {
	work := &Work{Artist: testKey(2), Title: "T", Description: "D", ContentURL: "url", Timestamp: -5, Bump: 9}

	data, err := EncodeRecord(work)
	require.NoError(t, err)
	require.Len(t, data, WorkSize)
	assert.Equal(t, byte(0), data[len(data)-1])

	var decoded Work
	require.NoError(t, DecodeRecord(data, &decoded))
	assert.Equal(t, *work, decoded)
}

func TestEncodeRecord_CapacityGuard(t *testing.T) {
	// the collab description is unbounded at validation, so only capacity stops it
	collab := &CollabRequest{
		Requester:   testKey(3),
		Artist:      testKey(4),
		Description: strings.Repeat("x", CollabRequestSize),
	}

	_, err := EncodeRecord(collab)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecordTooLarge))
	assert.Equal(t, ErrCodeRecordTooLarge, CodeOf(err))
}

func TestEncodeRecord_CollabDescriptionUsesPadding(t *testing.T) {
	collab := &CollabRequest{
		Requester:   testKey(3),
		Artist:      testKey(4),
		Description: strings.Repeat("x", MaxCollabDescriptionLength+50),
		Status:      CollabAccepted,
	}

	data, err := EncodeRecord(collab)
	require.NoError(t, err)

	var decoded CollabRequest
	require.NoError(t, DecodeRecord(data, &decoded))
	assert.Equal(t, *collab, decoded)
}

func TestDecodeRecord_OptionalComment(t *testing.T) {
	comment := "nice"
	cases := []*Interaction{
		{User: testKey(5), Work: testKey(6), HasLiked: true},
		{User: testKey(5), Work: testKey(6), Comment: &comment, Timestamp: 42},
	}

	for _, in := range cases {
		data, err := EncodeRecord(in)
		require.NoError(t, err)

		var out Interaction
		require.NoError(t, DecodeRecord(data, &out))
		assert.Equal(t, *in, out)
	}
}

func TestDecodeRecord_KindMismatch(t *testing.T) {
	data, err := EncodeRecord(&FollowerAccount{Follower: testKey(1), Artist: testKey(2), IsFollowing: true})
	require.NoError(t, err)

	var work Work
	err = DecodeRecord(data, &work)
	assert.True(t, errors.Is(err, ErrRecordKindMismatch))
}

func TestDecodeRecord_Truncated(t *testing.T) {
	data, err := EncodeRecord(&ArtistProfile{Owner: testKey(1), Name: "Alice"})
	require.NoError(t, err)

	var profile ArtistProfile
	err = DecodeRecord(data[:20], &profile)
	assert.True(t, errors.Is(err, ErrRecordCorrupt))
}

func TestDecodeRecord_BadStatusTag(t *testing.T) {
	data, err := EncodeRecord(&CollabRequest{Requester: testKey(1), Artist: testKey(2), Description: ""})
	require.NoError(t, err)

	// discriminator + two keys + empty string prefix puts the status tag here
	data[discriminatorSize+2*KeyLength+lengthPrefixSize] = 7

	var collab CollabRequest
	err = DecodeRecord(data, &collab)
	assert.True(t, errors.Is(err, ErrRecordCorrupt))
}

func TestDecodeRecord_ClosedProfile(t *testing.T) {
	in := &ClosedProfile{Owner: testKey(3), FollowerCount: 12, WorkCount: 255, ClosedAt: 1700000000, Bump: 254}
	data, err := EncodeRecord(in)
	require.NoError(t, err)
	require.Len(t, data, ClosedProfileSize)

	var out ClosedProfile
	require.NoError(t, DecodeRecord(data, &out))
	assert.Equal(t, *in, out)
}

func TestParseRecordKind_EveryKind(t *testing.T) {
	for _, kind := range RecordKinds() {
		parsed, err := ParseRecordKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
	_, err := ParseRecordKind("vault")
	assert.Error(t, err)
}
