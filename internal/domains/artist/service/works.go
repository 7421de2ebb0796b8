package service

import (
	"context"

	"artist-platform/internal/domains/artist/ledger"
	"artist-platform/internal/domains/artist/model"
	"artist-platform/pkg/logger"
)

// =====================================================
// POST WORK
// =====================================================

func (s *artistService) PostWork(
	ctx context.Context,
	caller model.Key,
	profileAddr model.Address,
	req model.PostWorkRequest,
) (*model.WorkResponse, error) {
	// Step 1: Bounds
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		work     *model.Work
		workAddr model.Address
		index    uint8
	)
	err := s.run(ctx, func(u *unit) error {
		// Step 2: Load and authorize
		var profile model.ArtistProfile
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		if err := s.guard.Authorize(caller, profile.Owner); err != nil {
			return err
		}

		// Step 3: The address uses the count before it is bumped
		index = profile.WorkCount
		next, err := ledger.CheckedIncU8(profile.WorkCount)
		if err != nil {
			return err
		}
		addr, bump, err := s.addresses.Work(profileAddr, index)
		if err != nil {
			return err
		}
		if err := u.ensureAbsent(addr); err != nil {
			return err
		}

		work = &model.Work{
			Artist:      profileAddr,
			Title:       req.Title,
			Description: req.Description,
			ContentURL:  req.ContentURL,
			Timestamp:   s.now(),
			Bump:        bump,
		}
		if err := u.create(addr, model.KindWork, work, caller); err != nil {
			return err
		}

		profile.WorkCount = next
		workAddr = addr
		return u.save(profileAddr, &profile)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("work posted", map[string]interface{}{
		"profile": profileAddr.String(),
		"work":    workAddr.String(),
		"index":   index,
	})
	s.invalidateProfile(ctx, profileAddr)
	s.publish(ctx, model.NewEvent(model.SubjectWorkPosted, profileAddr, caller, s.clock()).WithSubject(workAddr))

	return &model.WorkResponse{Address: workAddr, Index: index, Work: *work}, nil
}
