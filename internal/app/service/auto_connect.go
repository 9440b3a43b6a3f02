package service

import (
	"context"
	"errors"

	"likedao_wallet/internal/domain/entity"
)

// AutoConnectWalletKey is the preference key holding the kind of the last
// successfully connected wallet.
const AutoConnectWalletKey = "LS/AutoConnectWalletType"

// AutoConnect reconnects the wallet remembered in the preference store. It only
// acts while idle and only for kinds that can reconnect without user interaction.
// A failed reconnect goes through the regular Connect failure path.
func (s *WalletService) AutoConnect(ctx context.Context) error {
	s.mu.Lock()
	idle := s.status == entity.ConnectionStatusIdle && s.wallet == nil
	s.mu.Unlock()
	if !idle {
		return nil
	}

	value, err := s.prefs.Get(ctx, AutoConnectWalletKey)
	if err != nil {
		if errors.Is(err, entity.ErrPreferenceNotFound) {
			return nil
		}
		s.logger.Warn("Failed to read auto-connect wallet kind", "error", err)
		return nil
	}

	kind := entity.WalletKind(value)
	if !kind.AutoReconnectable() {
		s.logger.Debug("Remembered wallet kind does not auto-connect", "kind", value)
		return nil
	}

	s.logger.Info("Auto-connecting remembered wallet", "kind", kind)
	return s.Connect(ctx, kind)
}
