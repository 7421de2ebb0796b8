package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateProfileRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateProfileRequest
		want error
	}{
		{"valid", CreateProfileRequest{Name: "Alice", Bio: "bio"}, nil},
		{"name at limit", CreateProfileRequest{Name: strings.Repeat("a", MaxNameLength)}, nil},
		{"name too long", CreateProfileRequest{Name: strings.Repeat("a", MaxNameLength+1)}, ErrNameTooLong},
		{"bio too long", CreateProfileRequest{Bio: strings.Repeat("b", MaxBioLength+1)}, ErrBioTooLong},
		{"too many links", CreateProfileRequest{Links: []string{"1", "2", "3", "4", "5", "6"}}, ErrTooManyLinks},
		{"link too long", CreateProfileRequest{Links: []string{strings.Repeat("l", MaxLinkLength+1)}}, ErrLinkTooLong},
		{
			"name reported before bio",
			CreateProfileRequest{Name: strings.Repeat("a", 51), Bio: strings.Repeat("b", 501)},
			ErrNameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	assert.NoError(t, UpdateProfileRequest{}.Validate())

	err := UpdateProfileRequest{Bio: strPtr(strings.Repeat("b", MaxBioLength+1))}.Validate()
	assert.True(t, errors.Is(err, ErrBioTooLong))

	links := []string{"1", "2", "3", "4", "5", "6"}
	err = UpdateProfileRequest{Links: &links}.Validate()
	assert.True(t, errors.Is(err, ErrTooManyLinks))
}

func TestInteractRequest_Validate(t *testing.T) {
	assert.NoError(t, InteractRequest{Type: InteractionLike}.Validate())
	assert.NoError(t, InteractRequest{Type: InteractionComment, Comment: strPtr("hi")}.Validate())

	err := InteractRequest{}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidInteractionType))

	err = InteractRequest{Type: InteractionComment}.Validate()
	assert.True(t, errors.Is(err, ErrCommentRequired))

	err = InteractRequest{Type: InteractionComment, Comment: strPtr("")}.Validate()
	assert.True(t, errors.Is(err, ErrCommentRequired))

	err = InteractRequest{Type: InteractionComment, Comment: strPtr(strings.Repeat("c", MaxCommentLength+1))}.Validate()
	assert.True(t, errors.Is(err, ErrCommentTooLong))
	assert.Equal(t, ErrCodeCommentTooLong, CodeOf(err))
}

func TestInteractRequest_UnmarshalJSON(t *testing.T) {
	var req InteractRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"comment","comment":"great"}`), &req))
	assert.Equal(t, InteractionComment, req.Type)
	require.NotNil(t, req.Comment)
	assert.Equal(t, "great", *req.Comment)

	err := json.Unmarshal([]byte(`{"type":"share"}`), &req)
	assert.True(t, errors.Is(err, ErrInvalidInteractionType))
}

func TestUpdateCollabStatusRequest_Validate(t *testing.T) {
	assert.NoError(t, UpdateCollabStatusRequest{Status: CollabAccepted}.Validate())
	assert.NoError(t, UpdateCollabStatusRequest{Status: CollabRejected}.Validate())

	err := UpdateCollabStatusRequest{Status: CollabPending}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidCollabStatus))
}

func TestAmountRequest_Validate(t *testing.T) {
	assert.NoError(t, AmountRequest{Amount: 1}.Validate())
	err := AmountRequest{}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Equal(t, ErrCodeInvalidAmount, CodeOf(err))
}

func TestPostWorkRequest_Validate(t *testing.T) {
	assert.NoError(t, PostWorkRequest{Title: "T", Description: "D", ContentURL: "url"}.Validate())

	err := PostWorkRequest{Title: strings.Repeat("t", MaxTitleLength+1)}.Validate()
	assert.True(t, errors.Is(err, ErrTitleTooLong))

	err = PostWorkRequest{Description: strings.Repeat("d", MaxDescriptionLength+1)}.Validate()
	assert.True(t, errors.Is(err, ErrDescriptionTooLong))

	err = PostWorkRequest{ContentURL: strings.Repeat("u", MaxContentURLLength+1)}.Validate()
	assert.True(t, errors.Is(err, ErrContentURLTooLong))
}

func TestDecimalToLamports(t *testing.T) {
	n, err := DecimalToLamports(LamportsDecimal(^uint64(0)))
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), n)

	assert.Equal(t, "1.5", LamportsToDecimal(1_500_000_000, DefaultDecimals).String())

	_, err = DecimalToLamports(LamportsDecimal(1).Neg())
	assert.Error(t, err)
}

func TestKey_ParseRoundTrip(t *testing.T) {
	k := testKey(0xab)
	parsed, err := ParseKey("0x" + k.String())
	require.NoError(t, err)
	assert.Equal(t, k, parsed)

	_, err = ParseKey("abc")
	assert.Error(t, err)
}

func TestUploadURLRequest_Validate(t *testing.T) {
	assert.NoError(t, UploadURLRequest{Filename: "dawn.png", ContentType: "image/png"}.Validate())
	assert.NoError(t, UploadURLRequest{Filename: "dawn.png"}.Validate())

	assert.Error(t, UploadURLRequest{}.Validate())
	assert.Error(t, UploadURLRequest{Filename: "café.png"}.Validate())
	assert.Error(t, UploadURLRequest{Filename: "a.png", ContentType: "image/png\n"}.Validate())
}
