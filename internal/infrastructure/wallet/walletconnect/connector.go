package walletconnect

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/infrastructure/wallet/wsrpc"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	methodSubscribe    = "irn_subscribe"
	methodUnsubscribe  = "irn_unsubscribe"
	methodPublish      = "irn_publish"
	methodRequest      = "irn_request"
	notifySubscription = "irn_subscription"

	peerSessionPropose = "wc_sessionPropose"
	peerSessionSettle  = "wc_sessionSettle"
	peerSessionReject  = "wc_sessionReject"
	peerSessionDelete  = "wc_sessionDelete"

	peerGetAccounts = "cosmos_getAccounts"
	peerSignDirect  = "cosmos_signDirect"

	userDisconnectedCode = 6000
)

// ErrSessionRejected is returned when the peer declines the session proposal.
var ErrSessionRejected = errors.New("session rejected by peer")

// PairingPresenter shows the pairing URI to the user, e.g. as a QR code.
type PairingPresenter interface {
	ShowPairingURI(ctx context.Context, uri string)
}

// Metadata describes this application to the peer wallet.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Config configures the relay connection.
type Config struct {
	RelayURL        string
	ProjectID       string
	Metadata        Metadata
	ApprovalTimeout time.Duration
}

// Connector pairs with a remote wallet through a relay server.
type Connector struct {
	cfg     Config
	pairing PairingPresenter
	logger  *zap.Logger
}

var _ port.WalletConnector = (*Connector)(nil)

// NewConnector creates a connector. pairing receives the URI of every new pairing.
func NewConnector(cfg Config, pairing PairingPresenter, logger *zap.Logger) *Connector {
	if cfg.ApprovalTimeout <= 0 {
		cfg.ApprovalTimeout = 5 * time.Minute
	}
	return &Connector{cfg: cfg, pairing: pairing, logger: logger.Named("WalletConnectConnector")}
}

func (c *Connector) Kind() entity.WalletKind {
	return entity.WalletKindWalletConnect
}

type envelope struct {
	Method string              `json:"method"`
	Params jsoniter.RawMessage `json:"params,omitempty"`
}

type subscriptionParams struct {
	ID   string `json:"id"`
	Data struct {
		Topic   string `json:"topic"`
		Message string `json:"message"`
	} `json:"data"`
}

type settleParams struct {
	Accounts []string `json:"accounts"`
	Peer     Metadata `json:"peer"`
}

type reasonParams struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Connect publishes a session proposal on a fresh topic, shows the pairing URI
// and waits for the peer to settle or reject the session.
func (c *Connector) Connect(ctx context.Context, chain entity.ChainInfo, hooks port.SessionHooks) (port.Wallet, error) {
	relayURL, err := c.relayURL()
	if err != nil {
		return nil, err
	}
	rpc, err := wsrpc.Dial(ctx, relayURL, c.logger)
	if err != nil {
		return nil, err
	}

	s := &session{
		rpc:     rpc,
		topic:   strings.ReplaceAll(uuid.NewString(), "-", ""),
		chainID: chain.ChainID,
		hooks:   hooks,
		settled: make(chan settleParams, 1),
		ended:   make(chan error, 1),
		logger:  c.logger,
	}
	rpc.Handle(notifySubscription, s.onMessage)

	wallet, err := c.pair(ctx, s, chain)
	if err != nil {
		_ = rpc.Close()
		return nil, err
	}
	return wallet, nil
}

func (c *Connector) pair(ctx context.Context, s *session, chain entity.ChainInfo) (port.Wallet, error) {
	if err := s.rpc.Call(ctx, methodSubscribe, map[string]string{"topic": s.topic}, &s.subscriptionID); err != nil {
		return nil, fmt.Errorf("failed to subscribe to pairing topic: %w", err)
	}

	proposal := map[string]any{
		"proposer": c.cfg.Metadata,
		"namespaces": map[string]any{
			"cosmos": map[string]any{
				"chains":  []string{caipChainID(chain.ChainID)},
				"methods": []string{peerGetAccounts, peerSignDirect},
				"events":  []string{},
			},
		},
	}
	if err := s.publish(ctx, peerSessionPropose, proposal); err != nil {
		return nil, fmt.Errorf("failed to publish session proposal: %w", err)
	}

	uri := fmt.Sprintf("wc:%s@2?relay-protocol=irn&projectId=%s", s.topic, url.QueryEscape(c.cfg.ProjectID))
	c.pairing.ShowPairingURI(ctx, uri)
	c.logger.Info("Waiting for session approval", zap.String("topic", s.topic))

	timer := time.NewTimer(c.cfg.ApprovalTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("session approval timed out after %s", c.cfg.ApprovalTimeout)
	case <-s.rpc.Done():
		return nil, fmt.Errorf("relay connection closed while pairing: %w", s.rpc.Err())
	case err := <-s.ended:
		return nil, err
	case settle := <-s.settled:
		accounts := accountsForChain(settle.Accounts, chain.ChainID)
		if len(accounts) == 0 {
			return nil, fmt.Errorf("peer approved no account on %s", chain.ChainID)
		}
		s.approved.Store(true)
		c.logger.Info("Session settled", zap.String("topic", s.topic), zap.String("peer", settle.Peer.Name))
		return s, nil
	}
}

func (c *Connector) relayURL() (string, error) {
	u, err := url.Parse(c.cfg.RelayURL)
	if err != nil {
		return "", fmt.Errorf("invalid relay url %q: %w", c.cfg.RelayURL, err)
	}
	if c.cfg.ProjectID != "" {
		q := u.Query()
		q.Set("projectId", c.cfg.ProjectID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

type session struct {
	rpc            *wsrpc.Client
	topic          string
	subscriptionID string
	chainID        string
	hooks          port.SessionHooks
	logger         *zap.Logger

	settled  chan settleParams
	ended    chan error
	approved atomic.Bool
	closed   atomic.Bool
	endOnce  sync.Once
}

func (s *session) Kind() entity.WalletKind          { return entity.WalletKindWalletConnect }
func (s *session) OfflineSigner() port.OfflineSigner { return s }
func (s *session) Provider() port.SignerProvider     { return s }
func (s *session) Name() string                      { return string(entity.WalletKindWalletConnect) }
func (s *session) ChainID() string                   { return s.chainID }

func (s *session) GetAccounts(ctx context.Context) ([]entity.Account, error) {
	var accounts []entity.Account
	if err := s.request(ctx, peerGetAccounts, struct{}{}, &accounts); err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accounts, nil
}

func (s *session) SignDirect(ctx context.Context, signerAddress string, signDoc []byte) ([]byte, error) {
	params := map[string]any{"signerAddress": signerAddress, "signDoc": signDoc}
	var res struct {
		Signature []byte `json:"signature"`
	}
	if err := s.request(ctx, peerSignDirect, params, &res); err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return res.Signature, nil
}

// Disconnect tells the peer the session is over and releases the relay subscription.
func (s *session) Disconnect(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	reason := reasonParams{Code: userDisconnectedCode, Message: "User disconnected."}
	if err := s.publish(ctx, peerSessionDelete, reason); err != nil {
		errs = append(errs, fmt.Errorf("failed to publish session delete: %w", err))
	}
	unsubscribe := map[string]string{"topic": s.topic, "id": s.subscriptionID}
	if err := s.rpc.Call(ctx, methodUnsubscribe, unsubscribe, nil); err != nil {
		errs = append(errs, fmt.Errorf("failed to unsubscribe: %w", err))
	}
	if err := s.rpc.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *session) request(ctx context.Context, method string, params, result any) error {
	req := map[string]any{
		"topic":   s.topic,
		"chainId": caipChainID(s.chainID),
		"request": map[string]any{"method": method, "params": params},
	}
	return s.rpc.Call(ctx, methodRequest, req, result)
}

func (s *session) publish(ctx context.Context, method string, params any) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(envelope{Method: method, Params: payload})
	if err != nil {
		return err
	}
	return s.rpc.Call(ctx, methodPublish, map[string]string{"topic": s.topic, "message": string(msg)}, nil)
}

func (s *session) onMessage(raw []byte) {
	var sub subscriptionParams
	if err := json.Unmarshal(raw, &sub); err != nil {
		s.logger.Warn("Dropping malformed relay message", zap.Error(err))
		return
	}
	if sub.Data.Topic != s.topic {
		return
	}
	var env envelope
	if err := json.Unmarshal([]byte(sub.Data.Message), &env); err != nil {
		s.logger.Warn("Dropping malformed peer message", zap.String("topic", s.topic), zap.Error(err))
		return
	}

	switch env.Method {
	case peerSessionSettle:
		var settle settleParams
		if err := json.Unmarshal(env.Params, &settle); err != nil {
			s.end(fmt.Errorf("malformed session settlement: %w", err))
			return
		}
		select {
		case s.settled <- settle:
		default:
		}
	case peerSessionReject:
		var reason reasonParams
		_ = json.Unmarshal(env.Params, &reason)
		s.end(fmt.Errorf("%w: %s", ErrSessionRejected, reason.Message))
	case peerSessionDelete:
		if !s.approved.Load() {
			s.end(ErrSessionRejected)
			return
		}
		if s.closed.Load() {
			return
		}
		s.logger.Info("Peer ended the session", zap.String("topic", s.topic))
		if s.hooks.OnDisconnect != nil {
			s.hooks.OnDisconnect()
		}
	default:
		s.logger.Debug("Ignoring peer message", zap.String("method", env.Method))
	}
}

func (s *session) end(err error) {
	s.endOnce.Do(func() { s.ended <- err })
}

func caipChainID(chainID string) string {
	return "cosmos:" + chainID
}

// accountsForChain keeps the addresses of CAIP-10 account ids on chainID.
func accountsForChain(ids []string, chainID string) []string {
	prefix := caipChainID(chainID) + ":"
	var out []string
	for _, id := range ids {
		if addr, ok := strings.CutPrefix(id, prefix); ok && addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
