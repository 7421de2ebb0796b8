package service

import (
	"context"

	"artist-platform/internal/domains/artist/ledger"
	"artist-platform/internal/domains/artist/model"
	"artist-platform/pkg/logger"
)

// =====================================================
// TIP
// =====================================================

func (s *artistService) TipArtist(
	ctx context.Context,
	tipper model.Key,
	profileAddr model.Address,
	req model.AmountRequest,
) (*model.BalanceResponse, error) {
	// Step 1: Amount must be positive
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vaultAddr, _, err := s.addresses.Vault(profileAddr)
	if err != nil {
		return nil, err
	}

	var (
		profile model.ArtistProfile
		vault   *model.Account
	)
	err = s.run(ctx, func(u *unit) error {
		// Step 2: Both the profile and its vault must exist
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		if _, err := u.loadBalance(vaultAddr, model.KindTipsVault); err != nil {
			return err
		}

		// Step 3: Cumulative counter, then the transfer
		total, err := ledger.CheckedAdd(profile.TotalTips, req.Amount)
		if err != nil {
			return err
		}
		if err := u.ledger.Transfer(u.ctx, tipper, vaultAddr, req.Amount); err != nil {
			return err
		}
		profile.TotalTips = total
		if err := u.save(profileAddr, &profile); err != nil {
			return err
		}

		vault, err = u.loadBalance(vaultAddr, model.KindTipsVault)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("artist tipped", map[string]interface{}{
		"profile":    profileAddr.String(),
		"tipper":     tipper.String(),
		"amount":     req.Amount,
		"total_tips": profile.TotalTips,
	})
	s.invalidateProfile(ctx, profileAddr)
	s.publish(ctx, model.NewEvent(model.SubjectArtistTipped, profileAddr, tipper, s.clock()).WithAmount(req.Amount))
	payload := model.TipReceivedPayload{
		Artist:    profileAddr,
		Tipper:    tipper,
		Amount:    req.Amount,
		TotalTips: profile.TotalTips,
	}
	if err := s.tasks.EnqueueTipReceived(ctx, payload); err != nil {
		logger.Error("failed to enqueue tip received task", err)
	}

	return s.balanceResponse(vault, s.reserve.MinimumReserve(model.KindTipsVault)), nil
}

// =====================================================
// WITHDRAW
// =====================================================

// WithdrawTips moves amount from the vault to the owner wallet. The vault must keep its reserve.
// An amount of 0 is accepted and moves nothing.
func (s *artistService) WithdrawTips(
	ctx context.Context,
	caller model.Key,
	profileAddr model.Address,
	req model.AmountRequest,
) (*model.BalanceResponse, error) {
	vaultAddr, _, err := s.addresses.Vault(profileAddr)
	if err != nil {
		return nil, err
	}

	reserve := s.reserve.MinimumReserve(model.KindTipsVault)
	var vault *model.Account
	err = s.run(ctx, func(u *unit) error {
		// Step 1: Load and authorize
		var profile model.ArtistProfile
		if _, err := u.load(profileAddr, &profile); err != nil {
			return err
		}
		current, err := u.loadBalance(vaultAddr, model.KindTipsVault)
		if err != nil {
			return err
		}
		if err := s.guard.Authorize(caller, profile.Owner); err != nil {
			return err
		}

		// Step 2: Cover the amount and keep the reserve
		if req.Amount > current.Lamports {
			return model.NewArtistErrorf(model.ErrInsufficientFunds,
				"vault holds %d, requested %d", current.Lamports, req.Amount)
		}
		if current.Lamports-req.Amount < reserve {
			return model.NewArtistErrorf(model.ErrInsufficientFunds,
				"vault must keep %d, would keep %d", reserve, current.Lamports-req.Amount)
		}

		// Step 3: Move it
		if err := u.ledger.Transfer(u.ctx, vaultAddr, profile.Owner, req.Amount); err != nil {
			return err
		}
		vault, err = u.loadBalance(vaultAddr, model.KindTipsVault)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("tips withdrawn", map[string]interface{}{
		"profile": profileAddr.String(),
		"amount":  req.Amount,
	})
	s.publish(ctx, model.NewEvent(model.SubjectVaultWithdrawn, profileAddr, caller, s.clock()).
		WithSubject(vaultAddr).
		WithAmount(req.Amount))

	return s.balanceResponse(vault, reserve), nil
}

// =====================================================
// FAUCET
// =====================================================

func (s *artistService) Fund(
	ctx context.Context,
	wallet model.Key,
	req model.AmountRequest,
) (*model.BalanceResponse, error) {
	if !s.faucetEnabled {
		return nil, model.NewArtistError(model.ErrFaucetDisabled)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var account *model.Account
	err := s.run(ctx, func(u *unit) error {
		if err := u.ledger.Mint(u.ctx, wallet, req.Amount); err != nil {
			return err
		}
		var err error
		account, err = u.tx.Get(u.ctx, wallet)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.NewEvent(model.SubjectWalletFunded, model.ZeroKey, wallet, s.clock()).WithAmount(req.Amount))

	return s.balanceResponse(account, 0), nil
}
