package service

import (
	"context"

	"artist-platform/internal/domains/artist/model"
)

// =====================================================
// ARTIST SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// PROFILE
	// ========================================

	CreateArtistProfile(ctx context.Context, owner model.Key, req model.CreateProfileRequest) (*model.ProfileResponse, error)
	UpdateArtistProfile(ctx context.Context, caller model.Key, profile model.Address, req model.UpdateProfileRequest) (*model.ProfileResponse, error)

	// CloseArtistProfile sweeps the vault and the profile balance to the owner
	// wallet and deletes both accounts. Returns the owner wallet.
	CloseArtistProfile(ctx context.Context, caller model.Key, profile model.Address) (*model.BalanceResponse, error)

	// ========================================
	// VALUE TRANSFER
	// ========================================

	CreateTipsVault(ctx context.Context, payer model.Key, profile model.Address) (*model.BalanceResponse, error)
	TipArtist(ctx context.Context, tipper model.Key, profile model.Address, req model.AmountRequest) (*model.BalanceResponse, error)
	WithdrawTips(ctx context.Context, caller model.Key, profile model.Address, req model.AmountRequest) (*model.BalanceResponse, error)

	// Fund credits a wallet from the dev faucet
	Fund(ctx context.Context, wallet model.Key, req model.AmountRequest) (*model.BalanceResponse, error)

	// ========================================
	// SOCIAL
	// ========================================

	FollowArtist(ctx context.Context, follower model.Key, profile model.Address) (*model.FollowResponse, error)
	PostWork(ctx context.Context, caller model.Key, profile model.Address, req model.PostWorkRequest) (*model.WorkResponse, error)
	InteractWithWork(ctx context.Context, user model.Key, work model.Address, req model.InteractRequest) (*model.InteractionResponse, error)
	CreateCollabRequest(ctx context.Context, requester model.Key, profile model.Address, req model.CreateCollabRequest) (*model.CollabResponse, error)
	UpdateCollabStatus(ctx context.Context, caller model.Key, profile model.Address, requester model.Key, req model.UpdateCollabStatusRequest) (*model.CollabResponse, error)

	// ========================================
	// READS
	// ========================================

	ProfileAddress(owner model.Key) (model.Address, error)
	GetProfile(ctx context.Context, profile model.Address) (*model.ProfileResponse, error)
	GetVault(ctx context.Context, profile model.Address) (*model.BalanceResponse, error)
	GetWallet(ctx context.Context, wallet model.Key) (*model.BalanceResponse, error)
	GetFollow(ctx context.Context, profile model.Address, follower model.Key) (*model.FollowResponse, error)
	GetWork(ctx context.Context, profile model.Address, index uint8) (*model.WorkResponse, error)
	ListWorks(ctx context.Context, profile model.Address) ([]model.WorkResponse, error)
	GetInteraction(ctx context.Context, work model.Address, user model.Key) (*model.InteractionResponse, error)
	GetCollabRequest(ctx context.Context, profile model.Address, requester model.Key) (*model.CollabResponse, error)

	// Leaderboard ranks artists by cumulative tips
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	RebuildLeaderboard(ctx context.Context) (int, error)
	// SyncLeaderboardEntry ranks an artist by the stored total, or drops a closed one
	SyncLeaderboardEntry(ctx context.Context, artist model.Address) (totalTips uint64, open bool, err error)
}
