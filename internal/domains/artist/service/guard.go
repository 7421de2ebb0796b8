package service

import "artist-platform/internal/domains/artist/model"

// AuthorizationGuard decides whether caller may mutate a record owned by owner
type AuthorizationGuard interface {
	Authorize(caller, owner model.Key) error
}

// OwnerGuard admits only the recorded owner
type OwnerGuard struct{}

func (OwnerGuard) Authorize(caller, owner model.Key) error {
	if caller.IsZero() || caller != owner {
		return model.NewArtistError(model.ErrUnauthorized)
	}
	return nil
}
