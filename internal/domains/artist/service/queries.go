package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/pkg/logger"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

// =====================================================
// RECORD READS
// =====================================================

func (s *artistService) GetProfile(ctx context.Context, addr model.Address) (*model.ProfileResponse, error) {
	key := ProfileCacheKey(addr)
	if s.cache != nil {
		var cached model.ProfileResponse
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Error("profile cache read failed", err)
		} else if found {
			return &cached, nil
		}
	}

	var profile model.ArtistProfile
	account, err := s.readRecord(ctx, addr, &profile)
	if err != nil {
		return nil, err
	}
	resp := &model.ProfileResponse{Address: addr, Lamports: account.Lamports, ArtistProfile: profile}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, profileCacheTTL); err != nil {
			logger.Error("profile cache write failed", err)
		}
	}
	return resp, nil
}

func (s *artistService) GetVault(ctx context.Context, profile model.Address) (*model.BalanceResponse, error) {
	vaultAddr, _, err := s.addresses.Vault(profile)
	if err != nil {
		return nil, err
	}
	account, err := s.store.Get(ctx, vaultAddr)
	if err != nil {
		return nil, err
	}
	if account.Kind != model.KindTipsVault {
		return nil, model.NewArtistErrorf(model.ErrAccountNotFound, "%s is not a vault", vaultAddr)
	}
	return s.balanceResponse(account, s.reserve.MinimumReserve(model.KindTipsVault)), nil
}

// GetWallet reports a zero balance for a wallet that was never credited
func (s *artistService) GetWallet(ctx context.Context, wallet model.Key) (*model.BalanceResponse, error) {
	account, err := s.store.Get(ctx, wallet)
	if errors.Is(err, model.ErrAccountNotFound) {
		account, err = &model.Account{Address: wallet, Kind: model.KindWallet}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.balanceResponse(account, 0), nil
}

func (s *artistService) GetFollow(ctx context.Context, profile model.Address, follower model.Key) (*model.FollowResponse, error) {
	addr, _, err := s.addresses.Follower(profile, follower)
	if err != nil {
		return nil, err
	}
	var edge model.FollowerAccount
	if _, err := s.readRecord(ctx, addr, &edge); err != nil {
		return nil, err
	}
	return &model.FollowResponse{Address: addr, FollowerAccount: edge}, nil
}

func (s *artistService) GetWork(ctx context.Context, profile model.Address, index uint8) (*model.WorkResponse, error) {
	addr, _, err := s.addresses.Work(profile, index)
	if err != nil {
		return nil, err
	}
	var work model.Work
	if _, err := s.readRecord(ctx, addr, &work); err != nil {
		return nil, err
	}
	return &model.WorkResponse{Address: addr, Index: index, Work: work}, nil
}

// ListWorks walks indexes 0..work_count-1
func (s *artistService) ListWorks(ctx context.Context, profileAddr model.Address) ([]model.WorkResponse, error) {
	var profile model.ArtistProfile
	if _, err := s.readRecord(ctx, profileAddr, &profile); err != nil {
		return nil, err
	}

	works := make([]model.WorkResponse, 0, profile.WorkCount)
	for i := 0; i < int(profile.WorkCount); i++ {
		work, err := s.GetWork(ctx, profileAddr, uint8(i))
		if err != nil {
			return nil, fmt.Errorf("work %d: %w", i, err)
		}
		works = append(works, *work)
	}
	return works, nil
}

func (s *artistService) GetInteraction(ctx context.Context, work model.Address, user model.Key) (*model.InteractionResponse, error) {
	addr, _, err := s.addresses.Interaction(work, user)
	if err != nil {
		return nil, err
	}
	var interaction model.Interaction
	if _, err := s.readRecord(ctx, addr, &interaction); err != nil {
		return nil, err
	}
	return &model.InteractionResponse{Address: addr, Interaction: interaction}, nil
}

func (s *artistService) GetCollabRequest(ctx context.Context, profile model.Address, requester model.Key) (*model.CollabResponse, error) {
	addr, _, err := s.addresses.Collab(profile, requester)
	if err != nil {
		return nil, err
	}
	var collab model.CollabRequest
	if _, err := s.readRecord(ctx, addr, &collab); err != nil {
		return nil, err
	}
	return &model.CollabResponse{Address: addr, CollabRequest: collab}, nil
}

func (s *artistService) readRecord(ctx context.Context, addr model.Address, rec model.Record) (*model.Account, error) {
	account, err := s.store.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	if account.Kind != rec.Kind() {
		return nil, model.NewArtistErrorf(model.ErrAccountNotFound, "%s holds a %s, not a %s", addr, account.Kind, rec.Kind())
	}
	if err := model.DecodeRecord(account.Data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s at %s: %w", rec.Kind(), addr.Short(), err)
	}
	if err := s.addresses.Verify(addr, rec); err != nil {
		return nil, err
	}
	return account, nil
}

// =====================================================
// LEADERBOARD
// =====================================================

// Leaderboard serves from the ranking store and falls back to a scan of stored profiles
func (s *artistService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	var scores []LeaderboardScore
	if s.leaderboard != nil {
		top, err := s.leaderboard.Top(ctx, limit)
		if err != nil {
			logger.Error("leaderboard read failed, scanning profiles", err)
		}
		scores = top
	}
	if len(scores) == 0 {
		all, err := s.scanScores(ctx)
		if err != nil {
			return nil, err
		}
		if len(all) > limit {
			all = all[:limit]
		}
		scores = all
	}

	entries := make([]model.LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		entries = append(entries, model.LeaderboardEntry{
			Rank:      i + 1,
			Artist:    score.Artist,
			TotalTips: score.TotalTips,
			Amount:    model.LamportsToDecimal(score.TotalTips, s.decimals),
		})
	}
	return entries, nil
}

// RebuildLeaderboard replaces the ranking store from stored profiles
func (s *artistService) RebuildLeaderboard(ctx context.Context) (int, error) {
	if s.leaderboard == nil {
		return 0, nil
	}
	scores, err := s.scanScores(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.leaderboard.Replace(ctx, scores); err != nil {
		return 0, fmt.Errorf("failed to replace leaderboard: %w", err)
	}
	return len(scores), nil
}

// SyncLeaderboardEntry reads the profile from the store, so a late or retried
// task can neither bring back a closed artist nor record a stale total
func (s *artistService) SyncLeaderboardEntry(ctx context.Context, artist model.Address) (uint64, bool, error) {
	var profile model.ArtistProfile
	_, err := s.readRecord(ctx, artist, &profile)
	switch {
	case errors.Is(err, model.ErrAccountNotFound):
		if s.leaderboard != nil {
			if err := s.leaderboard.Remove(ctx, artist); err != nil {
				return 0, false, fmt.Errorf("failed to drop closed artist: %w", err)
			}
		}
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.Record(ctx, artist, profile.TotalTips); err != nil {
			return 0, true, fmt.Errorf("failed to record leaderboard score: %w", err)
		}
	}
	return profile.TotalTips, true, nil
}

// scanScores ranks every profile by total tips, ties broken by address
func (s *artistService) scanScores(ctx context.Context) ([]LeaderboardScore, error) {
	accounts, err := s.store.List(ctx, model.KindArtistProfile)
	if err != nil {
		return nil, err
	}

	scores := make([]LeaderboardScore, 0, len(accounts))
	for _, account := range accounts {
		var profile model.ArtistProfile
		if err := model.DecodeRecord(account.Data, &profile); err != nil {
			logger.Error(fmt.Sprintf("skipping undecodable profile %s", account.Address.Short()), err)
			continue
		}
		scores = append(scores, LeaderboardScore{Artist: account.Address, TotalTips: profile.TotalTips})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalTips > scores[j].TotalTips
	})
	return scores, nil
}
