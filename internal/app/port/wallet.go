package port

import (
	"context"

	"likedao_wallet/internal/domain/entity"
)

// OfflineSigner exposes the accounts of a wallet and its signing capability.
type OfflineSigner interface {
	GetAccounts(ctx context.Context) ([]entity.Account, error)
	SignDirect(ctx context.Context, signerAddress string, signDoc []byte) ([]byte, error)
}

// SignerProvider is the raw handle of the wallet backend behind an adapter.
type SignerProvider interface {
	Name() string
	ChainID() string
}

// Wallet is a live wallet session produced by a WalletConnector.
type Wallet interface {
	Kind() entity.WalletKind
	OfflineSigner() OfflineSigner
	Provider() SignerProvider
	Disconnect(ctx context.Context) error
}

// SessionHooks lets a connector report session events initiated on the wallet side.
type SessionHooks struct {
	OnDisconnect func()
}

// WalletConnector performs the connect handshake of one wallet kind.
type WalletConnector interface {
	Kind() entity.WalletKind
	Connect(ctx context.Context, chain entity.ChainInfo, hooks SessionHooks) (Wallet, error)
}

// KeyStoreEvents notifies that the user switched accounts inside the wallet.
// The returned function unsubscribes and closes the channel.
type KeyStoreEvents interface {
	Subscribe() (<-chan struct{}, func())
}

// AccountSource exposes the currently connected account, if any.
type AccountSource interface {
	ConnectedAccount() (entity.Account, bool)
}

// PreferenceStore is a durable string key-value store.
// Get returns entity.ErrPreferenceNotFound for a missing key.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Notifier shows fire-and-forget messages to the user.
type Notifier interface {
	Error(ctx context.Context, message string)
	Info(ctx context.Context, message string)
}
