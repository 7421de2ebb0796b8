package service

import (
	"context"
	"errors"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/pkg/logger"
)

// =====================================================
// CREATE PROFILE
// =====================================================

func (s *artistService) CreateArtistProfile(
	ctx context.Context,
	owner model.Key,
	req model.CreateProfileRequest,
) (*model.ProfileResponse, error) {
	// Step 1: Bounds
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Resolve addresses
	addr, bump, err := s.addresses.Profile(owner)
	if err != nil {
		return nil, err
	}
	closedAddr, _, err := s.addresses.ClosedProfile(addr)
	if err != nil {
		return nil, err
	}

	links := req.Links
	if links == nil {
		links = []string{}
	}
	profile := &model.ArtistProfile{
		Owner: owner,
		Name:  req.Name,
		Bio:   req.Bio,
		Links: links,
		Bump:  bump,
	}

	var lamports uint64
	err = s.run(ctx, func(u *unit) error {
		if err := u.ensureAbsent(addr); err != nil {
			return err
		}

		// Step 3: A reopened profile picks up the works and followers it left behind
		var closed model.ClosedProfile
		_, err := u.load(closedAddr, &closed)
		switch {
		case err == nil:
			profile.WorkCount = closed.WorkCount
			profile.FollowerCount = closed.FollowerCount
			if _, err := u.reclaim(closedAddr, owner); err != nil {
				return err
			}
		case !errors.Is(err, model.ErrAccountNotFound):
			return err
		}

		// Step 4: Create, owner pays the reserve
		if err := u.create(addr, model.KindArtistProfile, profile, owner); err != nil {
			return err
		}
		lamports, err = u.ledger.BalanceOf(u.ctx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("artist profile created", map[string]interface{}{
		"profile": addr.String(),
		"owner":   owner.String(),
	})
	s.publish(ctx, model.NewEvent(model.SubjectArtistCreated, addr, owner, s.clock()))

	return &model.ProfileResponse{Address: addr, Lamports: lamports, ArtistProfile: *profile}, nil
}

// =====================================================
// UPDATE PROFILE
// =====================================================

func (s *artistService) UpdateArtistProfile(
	ctx context.Context,
	caller model.Key,
	addr model.Address,
	req model.UpdateProfileRequest,
) (*model.ProfileResponse, error) {
	// Step 1: Bounds on the fields that are present
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		profile  model.ArtistProfile
		lamports uint64
	)
	err := s.run(ctx, func(u *unit) error {
		// Step 2: Load and authorize
		account, err := u.load(addr, &profile)
		if err != nil {
			return err
		}
		if err := s.guard.Authorize(caller, profile.Owner); err != nil {
			return err
		}

		// Step 3: Apply present fields only
		if req.Name != nil {
			profile.Name = *req.Name
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.Links != nil {
			profile.Links = append([]string{}, (*req.Links)...)
		}
		lamports = account.Lamports
		return u.save(addr, &profile)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProfile(ctx, addr)
	s.publish(ctx, model.NewEvent(model.SubjectArtistUpdated, addr, caller, s.clock()))

	return &model.ProfileResponse{Address: addr, Lamports: lamports, ArtistProfile: profile}, nil
}

// =====================================================
// CREATE VAULT
// =====================================================

func (s *artistService) CreateTipsVault(
	ctx context.Context,
	payer model.Key,
	profileAddr model.Address,
) (*model.BalanceResponse, error) {
	vaultAddr, _, err := s.addresses.Vault(profileAddr)
	if err != nil {
		return nil, err
	}

	var vault *model.Account
	err = s.run(ctx, func(u *unit) error {
		var profile model.ArtistProfile
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		if err := u.ensureAbsent(vaultAddr); err != nil {
			return err
		}
		if err := u.create(vaultAddr, model.KindTipsVault, nil, payer); err != nil {
			return err
		}
		vault, err = u.loadBalance(vaultAddr, model.KindTipsVault)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.NewEvent(model.SubjectVaultCreated, profileAddr, payer, s.clock()).WithSubject(vaultAddr))

	return s.balanceResponse(vault, s.reserve.MinimumReserve(model.KindTipsVault)), nil
}

// =====================================================
// CLOSE PROFILE
// =====================================================

func (s *artistService) CloseArtistProfile(
	ctx context.Context,
	caller model.Key,
	profileAddr model.Address,
) (*model.BalanceResponse, error) {
	vaultAddr, _, err := s.addresses.Vault(profileAddr)
	if err != nil {
		return nil, err
	}
	closedAddr, closedBump, err := s.addresses.ClosedProfile(profileAddr)
	if err != nil {
		return nil, err
	}

	var (
		profile model.ArtistProfile
		swept   uint64
		wallet  *model.Account
	)
	err = s.run(ctx, func(u *unit) error {
		// Step 1: Load and authorize
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		if err := s.guard.Authorize(caller, profile.Owner); err != nil {
			return err
		}

		// Step 2: Sweep the whole vault; a missing vault sweeps nothing
		_, err := u.loadBalance(vaultAddr, model.KindTipsVault)
		switch {
		case err == nil:
			if swept, err = u.reclaim(vaultAddr, profile.Owner); err != nil {
				return err
			}
		case !errors.Is(err, model.ErrAccountNotFound):
			return err
		}

		// Step 3: Reclaim profile storage
		if _, err := u.reclaim(profileAddr, profile.Owner); err != nil {
			return err
		}

		// Step 4: Works and follow edges outlive the profile; remember their counts
		if profile.WorkCount > 0 || profile.FollowerCount > 0 {
			closed := &model.ClosedProfile{
				Owner:         profile.Owner,
				FollowerCount: profile.FollowerCount,
				WorkCount:     profile.WorkCount,
				ClosedAt:      s.now(),
				Bump:          closedBump,
			}
			if err := u.create(closedAddr, model.KindClosedProfile, closed, profile.Owner); err != nil {
				return err
			}
		}

		wallet, err = u.tx.Get(u.ctx, profile.Owner)
		if errors.Is(err, model.ErrAccountNotFound) {
			wallet, err = &model.Account{Address: profile.Owner, Kind: model.KindWallet}, nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("artist profile closed", map[string]interface{}{
		"profile": profileAddr.String(),
		"swept":   swept,
	})
	s.invalidateProfile(ctx, profileAddr)
	s.publish(ctx, model.NewEvent(model.SubjectArtistClosed, profileAddr, caller, s.clock()).WithAmount(swept))
	if err := s.tasks.EnqueueProfileClosed(ctx, model.ProfileClosedPayload{Artist: profileAddr, Owner: profile.Owner}); err != nil {
		logger.Error("failed to enqueue profile closed task", err)
	}

	return s.balanceResponse(wallet, 0), nil
}
