package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const connectFailedMessage = "Failed to connect wallet. Please try again."

// WalletState is a snapshot of the wallet connection. It is one of IdleWallet,
// ConnectingWallet or ConnectedWallet.
type WalletState interface {
	Status() entity.ConnectionStatus
}

// IdleWallet means no wallet is connected.
type IdleWallet struct {
	ModalOpen bool
}

// ConnectingWallet means a handshake is in progress.
type ConnectingWallet struct {
	Kind entity.WalletKind
}

// ConnectedWallet exposes the live session.
type ConnectedWallet struct {
	Kind     entity.WalletKind
	Provider port.SignerProvider
	Account  entity.Account
}

func (IdleWallet) Status() entity.ConnectionStatus       { return entity.ConnectionStatusIdle }
func (ConnectingWallet) Status() entity.ConnectionStatus { return entity.ConnectionStatusConnecting }
func (ConnectedWallet) Status() entity.ConnectionStatus  { return entity.ConnectionStatusConnected }

// WalletService owns the wallet connection state machine:
// Idle -> Connecting -> Connected | Idle, and Connected -> Idle on disconnect.
type WalletService struct {
	chainInfo  entity.ChainInfo
	connectors map[entity.WalletKind]port.WalletConnector
	auth       port.AuthClient
	prefs      port.PreferenceStore
	notifier   port.Notifier
	events     port.KeyStoreEvents
	logger     port.Logger

	mu            sync.Mutex
	status        entity.ConnectionStatus
	modalOpen     bool
	connecting    entity.WalletKind
	wallet        port.Wallet
	account       entity.Account
	session       uint64
	disconnecting bool
}

// NewWalletService creates an idle WalletService. events may be nil when no
// connector emits key store notifications.
func NewWalletService(
	chainInfo entity.ChainInfo,
	connectors []port.WalletConnector,
	auth port.AuthClient,
	prefs port.PreferenceStore,
	notifier port.Notifier,
	events port.KeyStoreEvents,
	l port.Logger,
) *WalletService {
	byKind := make(map[entity.WalletKind]port.WalletConnector, len(connectors))
	for _, c := range connectors {
		byKind[c.Kind()] = c
	}
	return &WalletService{
		chainInfo:  chainInfo,
		connectors: byKind,
		auth:       auth,
		prefs:      prefs,
		notifier:   notifier,
		events:     events,
		logger:     l,
		status:     entity.ConnectionStatusIdle,
	}
}

// Snapshot returns the current state. Account data is only present in ConnectedWallet.
func (s *WalletService) Snapshot() WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case entity.ConnectionStatusConnecting:
		return ConnectingWallet{Kind: s.connecting}
	case entity.ConnectionStatusConnected:
		if s.wallet != nil {
			return ConnectedWallet{Kind: s.wallet.Kind(), Provider: s.wallet.Provider(), Account: s.account}
		}
	}
	return IdleWallet{ModalOpen: s.modalOpen}
}

// ConnectedAccount implements port.AccountSource.
func (s *WalletService) ConnectedAccount() (entity.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != entity.ConnectionStatusConnected || s.wallet == nil {
		return entity.Account{}, false
	}
	return s.account, true
}

// OpenConnectWalletModal opens the wallet picker. Only valid while idle.
func (s *WalletService) OpenConnectWalletModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == entity.ConnectionStatusIdle {
		s.modalOpen = true
	}
}

// CloseConnectWalletModal closes the wallet picker. Only valid while idle.
func (s *WalletService) CloseConnectWalletModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == entity.ConnectionStatusIdle {
		s.modalOpen = false
	}
}

// Connect runs the handshake of the given wallet kind. It is a no-op unless the
// service is idle. On failure the user is notified, the auto-connect preference
// is cleared and the returned error wraps entity.ErrConnectionFailed.
func (s *WalletService) Connect(ctx context.Context, kind entity.WalletKind) error {
	connector, ok := s.connectors[kind]
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrUnsupportedWallet, kind)
	}

	s.mu.Lock()
	if s.status != entity.ConnectionStatusIdle {
		status := s.status
		s.mu.Unlock()
		s.logger.Warn("Ignoring connect request, wallet is not idle", "kind", kind, "status", status)
		return nil
	}
	s.status = entity.ConnectionStatusConnecting
	s.connecting = kind
	s.modalOpen = false
	s.session++
	session := s.session
	s.mu.Unlock()
	metrics.WalletTransitions.WithLabelValues(string(entity.ConnectionStatusConnecting), string(kind)).Inc()

	s.logger.Info("Connecting wallet", "kind", kind, "chain_id", s.chainInfo.ChainID)
	hooks := port.SessionHooks{
		OnDisconnect: func() { s.onSessionEnded(session) },
	}

	wallet, account, err := s.handshake(ctx, connector, hooks)
	if err != nil {
		s.logger.Error("Failed to connect wallet", "kind", kind, "error", err)
		s.notifier.Error(ctx, connectFailedMessage)

		s.mu.Lock()
		s.status = entity.ConnectionStatusIdle
		s.connecting = ""
		s.mu.Unlock()
		s.clearAutoConnect(ctx)
		metrics.WalletTransitions.WithLabelValues(string(entity.ConnectionStatusIdle), string(kind)).Inc()
		return fmt.Errorf("%w: %s: %w", entity.ErrConnectionFailed, kind, err)
	}

	if err := s.prefs.Set(ctx, AutoConnectWalletKey, string(kind)); err != nil {
		s.logger.Warn("Failed to persist auto-connect wallet kind", "kind", kind, "error", err)
	}

	s.mu.Lock()
	s.wallet = wallet
	s.account = account
	s.status = entity.ConnectionStatusConnected
	s.connecting = ""
	s.mu.Unlock()
	metrics.WalletTransitions.WithLabelValues(string(entity.ConnectionStatusConnected), string(kind)).Inc()
	s.logger.Info("Wallet connected", "kind", kind, "address", account.Address)

	// The authenticated session may belong to another address, drop it.
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Warn("Failed to logout after connecting wallet", "kind", kind, "error", err)
	}
	return nil
}

func (s *WalletService) handshake(ctx context.Context, connector port.WalletConnector, hooks port.SessionHooks) (port.Wallet, entity.Account, error) {
	wallet, err := connector.Connect(ctx, s.chainInfo, hooks)
	if err != nil {
		return nil, entity.Account{}, err
	}

	account, err := firstAccount(ctx, wallet)
	if err != nil {
		if derr := wallet.Disconnect(ctx); derr != nil {
			s.logger.Warn("Failed to tear down wallet after handshake error", "kind", connector.Kind(), "error", derr)
		}
		return nil, entity.Account{}, err
	}
	return wallet, account, nil
}

func firstAccount(ctx context.Context, wallet port.Wallet) (entity.Account, error) {
	accounts, err := wallet.OfflineSigner().GetAccounts(ctx)
	if err != nil {
		return entity.Account{}, fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 {
		return entity.Account{}, errors.New("wallet returned no accounts")
	}
	return accounts[0], nil
}

// Disconnect tears down the connected session. Logout and wallet teardown run
// concurrently; their errors are logged and the service always ends up idle
// with the auto-connect preference cleared. No-op unless connected.
func (s *WalletService) Disconnect(ctx context.Context) {
	s.mu.Lock()
	if s.status != entity.ConnectionStatusConnected || s.wallet == nil || s.disconnecting {
		s.mu.Unlock()
		return
	}
	s.disconnecting = true
	wallet := s.wallet
	s.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Error("Failed to logout while disconnecting wallet, discarding anyway", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := wallet.Disconnect(ctx); err != nil {
			s.logger.Error("Failed to disconnect wallet, discarding anyway", "kind", wallet.Kind(), "error", err)
		}
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	s.wallet = nil
	s.account = entity.Account{}
	s.status = entity.ConnectionStatusIdle
	s.disconnecting = false
	s.mu.Unlock()
	s.clearAutoConnect(ctx)

	metrics.WalletTransitions.WithLabelValues(string(entity.ConnectionStatusIdle), string(wallet.Kind())).Inc()
	s.logger.Info("Wallet disconnected", "kind", wallet.Kind())
}

// onSessionEnded handles a wallet-side disconnect of the given session. Stale
// sessions are ignored so an old pairing cannot drop a newer connection.
func (s *WalletService) onSessionEnded(session uint64) {
	s.mu.Lock()
	current := s.session == session
	s.mu.Unlock()
	if !current {
		return
	}
	s.logger.Info("Wallet ended the session", "session", session)
	s.Disconnect(context.Background())
}

// RefreshAccounts re-reads the first account of the connected wallet.
// Silent no-op when not connected.
func (s *WalletService) RefreshAccounts(ctx context.Context) error {
	s.mu.Lock()
	if s.status != entity.ConnectionStatusConnected || s.wallet == nil {
		s.mu.Unlock()
		return nil
	}
	wallet := s.wallet
	s.mu.Unlock()

	account, err := firstAccount(ctx, wallet)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wallet == wallet {
		s.account = account
	}
	return nil
}

// Run listens for key store changes until ctx is done. Each change drops the
// authenticated session and refreshes the account; errors are only logged.
func (s *WalletService) Run(ctx context.Context) {
	if s.events == nil {
		<-ctx.Done()
		return
	}

	changes, unsubscribe := s.events.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			s.handleKeyStoreChange(ctx)
		}
	}
}

func (s *WalletService) handleKeyStoreChange(ctx context.Context) {
	s.logger.Info("Wallet key store changed, refreshing account")
	// one failing call must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Error("Failed to logout after key store change", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.RefreshAccounts(ctx); err != nil {
			s.logger.Error("Failed to refresh accounts", "error", err)
		}
		return nil
	})
	_ = g.Wait()
}

func (s *WalletService) clearAutoConnect(ctx context.Context) {
	if err := s.prefs.Delete(ctx, AutoConnectWalletKey); err != nil && !errors.Is(err, entity.ErrPreferenceNotFound) {
		s.logger.Warn("Failed to clear auto-connect wallet kind", "error", err)
	}
}
