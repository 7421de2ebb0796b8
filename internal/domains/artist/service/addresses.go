package service

import (
	"fmt"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/pkg/derive"
)

// Addresses resolves every record location from its seeds
type Addresses struct {
	deriver derive.Deriver
}

func NewAddresses(deriver derive.Deriver) *Addresses {
	return &Addresses{deriver: deriver}
}

func (a *Addresses) derive(label string, parts ...[]byte) (model.Address, uint8, error) {
	seeds := make([][]byte, 0, len(parts)+1)
	seeds = append(seeds, []byte(label))
	seeds = append(seeds, parts...)
	addr, bump, err := a.deriver.Derive(seeds...)
	if err != nil {
		return model.Address{}, 0, fmt.Errorf("derive %s address: %w", label, err)
	}
	return model.Address(addr), bump, nil
}

func (a *Addresses) Profile(owner model.Key) (model.Address, uint8, error) {
	return a.derive(model.SeedArtistProfile, owner[:])
}

func (a *Addresses) Vault(profile model.Address) (model.Address, uint8, error) {
	return a.derive(model.SeedTipsVault, profile[:])
}

func (a *Addresses) Follower(profile model.Address, follower model.Key) (model.Address, uint8, error) {
	return a.derive(model.SeedFollower, profile[:], follower[:])
}

// Work is indexed by the artist's work count at posting time
func (a *Addresses) Work(profile model.Address, index uint8) (model.Address, uint8, error) {
	return a.derive(model.SeedWork, profile[:], []byte{index})
}

func (a *Addresses) Interaction(work model.Address, user model.Key) (model.Address, uint8, error) {
	return a.derive(model.SeedInteraction, work[:], user[:])
}

func (a *Addresses) Collab(profile model.Address, requester model.Key) (model.Address, uint8, error) {
	return a.derive(model.SeedCollabRequest, profile[:], requester[:])
}

func (a *Addresses) ClosedProfile(profile model.Address) (model.Address, uint8, error) {
	return a.derive(model.SeedClosedProfile, profile[:])
}

// Verify recomputes addr from the seeds and bump stored in rec. A record that
// does not derive to the address it was read from is treated as missing.
// Works carry no index, so they are not checked.
func (a *Addresses) Verify(addr model.Address, rec model.Record) error {
	var (
		label string
		parts [][]byte
		bump  uint8
	)
	switch r := rec.(type) {
	case *model.ArtistProfile:
		label, parts, bump = model.SeedArtistProfile, [][]byte{r.Owner[:]}, r.Bump
	case *model.FollowerAccount:
		label, parts, bump = model.SeedFollower, [][]byte{r.Artist[:], r.Follower[:]}, r.Bump
	case *model.Interaction:
		label, parts, bump = model.SeedInteraction, [][]byte{r.Work[:], r.User[:]}, r.Bump
	case *model.CollabRequest:
		label, parts, bump = model.SeedCollabRequest, [][]byte{r.Artist[:], r.Requester[:]}, r.Bump
	default:
		return nil
	}

	seeds := append([][]byte{[]byte(label)}, parts...)
	expected, err := a.deriver.CreateAddress(bump, seeds...)
	if err != nil || model.Address(expected) != addr {
		return model.NewArtistErrorf(model.ErrAccountNotFound, "%s does not derive from its %s seeds", addr, label)
	}
	return nil
}

// ByKind derives the address of a record kind from raw key parts; used by tooling
func (a *Addresses) ByKind(kind model.RecordKind, keys []model.Key, index uint8) (model.Address, uint8, error) {
	need := map[model.RecordKind]int{
		model.KindArtistProfile:   1,
		model.KindTipsVault:       1,
		model.KindFollowerAccount: 2,
		model.KindWork:            1,
		model.KindInteraction:     2,
		model.KindCollabRequest:   2,
		model.KindClosedProfile:   1,
	}
	n, ok := need[kind]
	if !ok {
		return model.Address{}, 0, fmt.Errorf("%s is not a derived record", kind)
	}
	if len(keys) != n {
		return model.Address{}, 0, fmt.Errorf("%s needs %d keys, got %d", kind, n, len(keys))
	}

	switch kind {
	case model.KindArtistProfile:
		return a.Profile(keys[0])
	case model.KindTipsVault:
		return a.Vault(keys[0])
	case model.KindFollowerAccount:
		return a.Follower(keys[0], keys[1])
	case model.KindWork:
		return a.Work(keys[0], index)
	case model.KindInteraction:
		return a.Interaction(keys[0], keys[1])
	case model.KindClosedProfile:
		return a.ClosedProfile(keys[0])
	default:
		return a.Collab(keys[0], keys[1])
	}
}
