package keplr

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/infrastructure/wallet/wsrpc"

	"go.uber.org/zap"
)

const (
	methodSuggestChain   = "experimentalSuggestChain"
	methodEnable         = "enable"
	methodGetKey         = "getKey"
	methodSignDirect     = "signDirect"
	notifyKeyStoreChange = "keystorechange"
)

type keyResult struct {
	Name          string `json:"name"`
	Algo          string `json:"algo"`
	PubKey        []byte `json:"pubKey"`
	Bech32Address string `json:"bech32Address"`
}

type signDirectParams struct {
	ChainID string `json:"chainId"`
	Signer  string `json:"signer"`
	SignDoc []byte `json:"signDoc"`
}

type signDirectResult struct {
	Signature []byte `json:"signature"`
}

// Connector connects to the extension wallet through its local signer agent.
type Connector struct {
	agentURL string
	events   *EventHub
	logger   *zap.Logger
}

var _ port.WalletConnector = (*Connector)(nil)

// NewConnector creates a connector for the agent listening at agentURL.
func NewConnector(agentURL string, logger *zap.Logger) *Connector {
	return &Connector{
		agentURL: agentURL,
		events:   NewEventHub(),
		logger:   logger.Named("KeplrConnector"),
	}
}

// Events exposes key store changes of every session opened by this connector.
func (c *Connector) Events() *EventHub {
	return c.events
}

func (c *Connector) Kind() entity.WalletKind {
	return entity.WalletKindKeplr
}

// Connect suggests the chain to the wallet, asks the user to enable it and
// returns the live session. hooks.OnDisconnect fires when the agent drops the
// connection on its own.
func (c *Connector) Connect(ctx context.Context, chain entity.ChainInfo, hooks port.SessionHooks) (port.Wallet, error) {
	rpc, err := wsrpc.Dial(ctx, c.agentURL, c.logger)
	if err != nil {
		return nil, err
	}

	if err := rpc.Call(ctx, methodSuggestChain, chain, nil); err != nil {
		_ = rpc.Close()
		return nil, fmt.Errorf("failed to suggest chain %s: %w", chain.ChainID, err)
	}
	if err := rpc.Call(ctx, methodEnable, []string{chain.ChainID}, nil); err != nil {
		_ = rpc.Close()
		return nil, fmt.Errorf("failed to enable chain %s: %w", chain.ChainID, err)
	}

	rpc.Handle(notifyKeyStoreChange, func([]byte) {
		c.logger.Debug("Key store changed")
		c.events.Publish()
	})

	w := &wallet{rpc: rpc, chainID: chain.ChainID, logger: c.logger}
	go w.watch(hooks)
	c.logger.Info("Connected to signer agent", zap.String("chainId", chain.ChainID))
	return w, nil
}

type wallet struct {
	rpc     *wsrpc.Client
	chainID string
	closed  atomic.Bool
	logger  *zap.Logger
}

func (w *wallet) Kind() entity.WalletKind          { return entity.WalletKindKeplr }
func (w *wallet) OfflineSigner() port.OfflineSigner { return w }
func (w *wallet) Provider() port.SignerProvider     { return w }
func (w *wallet) Name() string                      { return string(entity.WalletKindKeplr) }
func (w *wallet) ChainID() string                   { return w.chainID }

func (w *wallet) GetAccounts(ctx context.Context) ([]entity.Account, error) {
	var key keyResult
	if err := w.rpc.Call(ctx, methodGetKey, []string{w.chainID}, &key); err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	if key.Bech32Address == "" {
		return nil, errors.New("signer returned a key without address")
	}
	return []entity.Account{{Address: key.Bech32Address, Algo: key.Algo, PubKey: key.PubKey}}, nil
}

func (w *wallet) SignDirect(ctx context.Context, signerAddress string, signDoc []byte) ([]byte, error) {
	var res signDirectResult
	params := signDirectParams{ChainID: w.chainID, Signer: signerAddress, SignDoc: signDoc}
	if err := w.rpc.Call(ctx, methodSignDirect, params, &res); err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return res.Signature, nil
}

// Disconnect closes the agent connection. The extension itself keeps no session.
func (w *wallet) Disconnect(context.Context) error {
	w.closed.Store(true)
	return w.rpc.Close()
}

func (w *wallet) watch(hooks port.SessionHooks) {
	<-w.rpc.Done()
	if w.closed.Load() {
		return
	}
	w.logger.Warn("Signer agent connection lost", zap.Error(w.rpc.Err()))
	if hooks.OnDisconnect != nil {
		hooks.OnDisconnect()
	}
}
