package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"artist-platform/internal/domains/artist/model"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "platform.artist.tipped", Subject("platform", model.SubjectArtistTipped))
	assert.Equal(t, "work.liked", Subject("", model.SubjectWorkLiked))
	assert.Equal(t, "platform.>", Subject("platform", ">"))
}
