package service

import (
	"context"
	"errors"

	"artist-platform/internal/domains/artist/ledger"
	"artist-platform/internal/domains/artist/model"
)

// =====================================================
// FOLLOW
// =====================================================

func (s *artistService) FollowArtist(
	ctx context.Context,
	follower model.Key,
	profileAddr model.Address,
) (*model.FollowResponse, error) {
	followAddr, bump, err := s.addresses.Follower(profileAddr, follower)
	if err != nil {
		return nil, err
	}

	edge := &model.FollowerAccount{Follower: follower, Artist: profileAddr, Bump: bump}
	err = s.run(ctx, func(u *unit) error {
		var profile model.ArtistProfile
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		// Step 1: One edge per (artist, follower)
		if err := u.ensureAbsent(followAddr); err != nil {
			return err
		}
		if edge.IsFollowing {
			return model.NewArtistError(model.ErrAlreadyFollowing)
		}

		// Step 2: Count it
		count, err := ledger.CheckedAdd(profile.FollowerCount, 1)
		if err != nil {
			return err
		}
		profile.FollowerCount = count
		edge.IsFollowing = true

		if err := u.create(followAddr, model.KindFollowerAccount, edge, follower); err != nil {
			return err
		}
		return u.save(profileAddr, &profile)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProfile(ctx, profileAddr)
	s.publish(ctx, model.NewEvent(model.SubjectArtistFollowed, profileAddr, follower, s.clock()).WithSubject(followAddr))

	return &model.FollowResponse{Address: followAddr, FollowerAccount: *edge}, nil
}

// =====================================================
// INTERACT WITH WORK
// =====================================================

func (s *artistService) InteractWithWork(
	ctx context.Context,
	user model.Key,
	workAddr model.Address,
	req model.InteractRequest,
) (*model.InteractionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	interactionAddr, bump, err := s.addresses.Interaction(workAddr, user)
	if err != nil {
		return nil, err
	}

	var (
		work        model.Work
		interaction model.Interaction
	)
	err = s.run(ctx, func(u *unit) error {
		if _, err := u.load(workAddr, &work); err != nil {
			return err
		}

		// Step 1: Load or open the user's record for this work
		_, err := u.load(interactionAddr, &interaction)
		isNew := errors.Is(err, model.ErrAccountNotFound)
		if err != nil && !isNew {
			return err
		}

		// Step 2: Apply the branch
		switch req.Type {
		case model.InteractionLike:
			if interaction.HasLiked {
				return model.NewArtistError(model.ErrAlreadyLiked)
			}
			likes, err := ledger.CheckedAdd(work.Likes, 1)
			if err != nil {
				return err
			}
			work.Likes = likes
			interaction.HasLiked = true
		case model.InteractionComment:
			count, err := ledger.CheckedAdd(work.CommentCount, 1)
			if err != nil {
				return err
			}
			work.CommentCount = count
			comment := *req.Comment
			interaction.Comment = &comment
		default:
			return model.NewArtistError(model.ErrInvalidInteractionType)
		}

		// Step 3: Stamp
		interaction.User = user
		interaction.Work = workAddr
		interaction.Timestamp = s.now()
		interaction.Bump = bump

		if isNew {
			if err := u.create(interactionAddr, model.KindInteraction, &interaction, user); err != nil {
				return err
			}
		} else if err := u.save(interactionAddr, &interaction); err != nil {
			return err
		}
		return u.save(workAddr, &work)
	})
	if err != nil {
		return nil, err
	}

	subject := model.SubjectWorkLiked
	if req.Type == model.InteractionComment {
		subject = model.SubjectWorkCommented
	}
	s.publish(ctx, model.NewEvent(subject, work.Artist, user, s.clock()).WithSubject(workAddr))

	return &model.InteractionResponse{Address: interactionAddr, Interaction: interaction}, nil
}

// =====================================================
// COLLABORATION
// =====================================================

func (s *artistService) CreateCollabRequest(
	ctx context.Context,
	requester model.Key,
	profileAddr model.Address,
	req model.CreateCollabRequest,
) (*model.CollabResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	collabAddr, bump, err := s.addresses.Collab(profileAddr, requester)
	if err != nil {
		return nil, err
	}

	collab := &model.CollabRequest{
		Requester:   requester,
		Artist:      profileAddr,
		Description: req.Description,
		Status:      model.CollabPending,
		Timestamp:   s.now(),
		Bump:        bump,
	}
	err = s.run(ctx, func(u *unit) error {
		var profile model.ArtistProfile
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		if err := u.ensureAbsent(collabAddr); err != nil {
			return err
		}
		return u.create(collabAddr, model.KindCollabRequest, collab, requester)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.NewEvent(model.SubjectCollabRequested, profileAddr, requester, s.clock()).WithSubject(collabAddr))

	return &model.CollabResponse{Address: collabAddr, CollabRequest: *collab}, nil
}

func (s *artistService) UpdateCollabStatus(
	ctx context.Context,
	caller model.Key,
	profileAddr model.Address,
	requester model.Key,
	req model.UpdateCollabStatusRequest,
) (*model.CollabResponse, error) {
	// Step 1: Only Accepted or Rejected may be set
	if err := req.Validate(); err != nil {
		return nil, err
	}

	collabAddr, _, err := s.addresses.Collab(profileAddr, requester)
	if err != nil {
		return nil, err
	}

	var collab model.CollabRequest
	err = s.run(ctx, func(u *unit) error {
		// Step 2: The artist's owner resolves, not the requester
		var profile model.ArtistProfile
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		if _, err := u.load(collabAddr, &collab); err != nil {
			return err
		}
		if err := s.guard.Authorize(caller, profile.Owner); err != nil {
			return err
		}

		// Step 3: Pending resolves exactly once
		if collab.IsResolved() {
			return model.NewArtistErrorf(model.ErrCollabAlreadyResolved, "status is %s", collab.Status)
		}
		collab.Status = req.Status
		return u.save(collabAddr, &collab)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.NewEvent(model.SubjectCollabResolved, profileAddr, caller, s.clock()).WithSubject(collabAddr))

	return &model.CollabResponse{Address: collabAddr, CollabRequest: collab}, nil
}
