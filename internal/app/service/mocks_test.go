package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

const (
	testAddress      = "like1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukdv7d99"
	testDesmosAddr   = "desmos1zyvp7f3dxsa5yj2s2a0x2mrn02qc3ruk2g0l3x"
	otherAddress     = "like1yg5nqde7g4x9xknpdphhvlvy3wffng98vygvwh"
	validatorAlpha   = "likevaloper1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukmrgn4k"
	validatorBeta    = "likevaloper1yg5nqde7g4x9xknpdphhvlvy3wffng986t7j7y"
	validatorUnnamed = "likevaloper1xvayzjz02ewkg6mj0xqg0r54nj364vdcl9ym3s"
	testDenom        = "nanoekil"
)

type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) GetAccount(ctx context.Context, address string) (*entity.AccountRecord, error) {
	args := m.Called(ctx, address)
	rec, _ := args.Get(0).(*entity.AccountRecord)
	return rec, args.Error(1)
}

func (m *MockChainClient) GetBalance(ctx context.Context, address string) (entity.Coin, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(entity.Coin), args.Error(1)
}

func (m *MockChainClient) GetStakedBalance(ctx context.Context, address string) (entity.Coin, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(entity.Coin), args.Error(1)
}

func (m *MockChainClient) GetUnstakingBalance(ctx context.Context, address string) (entity.Coin, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(entity.Coin), args.Error(1)
}

func (m *MockChainClient) GetCommission(ctx context.Context, address string) (entity.Coin, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(entity.Coin), args.Error(1)
}

func (m *MockChainClient) GetRewards(ctx context.Context, address string) (entity.Coin, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(entity.Coin), args.Error(1)
}

func (m *MockChainClient) GetDelegations(ctx context.Context, delegator string) ([]entity.Delegation, error) {
	args := m.Called(ctx, delegator)
	ds, _ := args.Get(0).([]entity.Delegation)
	return ds, args.Error(1)
}

func (m *MockChainClient) GetDelegationRewards(ctx context.Context, delegator string, validators []string) ([]entity.Coin, error) {
	args := m.Called(ctx, delegator, validators)
	coins, _ := args.Get(0).([]entity.Coin)
	return coins, args.Error(1)
}

func (m *MockChainClient) GetValidators(ctx context.Context, operatorAddresses []string) (map[string]entity.Validator, error) {
	args := m.Called(ctx, operatorAddresses)
	vs, _ := args.Get(0).(map[string]entity.Validator)
	return vs, args.Error(1)
}

type MockProfileClient struct {
	mock.Mock
}

func (m *MockProfileClient) GetProfile(ctx context.Context, address string) (*entity.Profile, error) {
	args := m.Called(ctx, address)
	p, _ := args.Get(0).(*entity.Profile)
	return p, args.Error(1)
}

type MockAuthClient struct {
	mock.Mock
	logouts atomic.Int32
}

func (m *MockAuthClient) Logout(ctx context.Context) error {
	m.logouts.Add(1)
	return m.Called(ctx).Error(0)
}

// staticAccounts is an AccountSource with a fixed answer.
type staticAccounts struct {
	account   entity.Account
	connected bool
}

func (s staticAccounts) ConnectedAccount() (entity.Account, bool) { return s.account, s.connected }

type fakeWallet struct {
	kind          entity.WalletKind
	chainID       string
	disconnectErr error

	mu           sync.Mutex
	accounts     []entity.Account
	accountsErr  error
	disconnected int
}

func (w *fakeWallet) Kind() entity.WalletKind           { return w.kind }
func (w *fakeWallet) OfflineSigner() port.OfflineSigner { return w }
func (w *fakeWallet) Provider() port.SignerProvider     { return w }
func (w *fakeWallet) Name() string                      { return string(w.kind) }
func (w *fakeWallet) ChainID() string                   { return w.chainID }

func (w *fakeWallet) GetAccounts(context.Context) ([]entity.Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accounts, w.accountsErr
}

func (w *fakeWallet) SignDirect(context.Context, string, []byte) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (w *fakeWallet) Disconnect(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disconnected++
	return w.disconnectErr
}

func (w *fakeWallet) setAccounts(accounts []entity.Account) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accounts = accounts
}

func (w *fakeWallet) disconnectCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disconnected
}

// fakeConnector hands out a new fakeWallet per Connect built from its template.
type fakeConnector struct {
	kind       entity.WalletKind
	connectErr error
	accounts   []entity.Account
	accountErr error

	mu      sync.Mutex
	wallets []*fakeWallet
	hooks   []port.SessionHooks
}

func (c *fakeConnector) Kind() entity.WalletKind { return c.kind }

func (c *fakeConnector) Connect(_ context.Context, chain entity.ChainInfo, hooks port.SessionHooks) (port.Wallet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hooks)
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	w := &fakeWallet{kind: c.kind, chainID: chain.ChainID, accounts: c.accounts, accountsErr: c.accountErr}
	c.wallets = append(c.wallets, w)
	return w, nil
}

func (c *fakeConnector) connectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hooks)
}

func (c *fakeConnector) lastWallet() *fakeWallet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.wallets) == 0 {
		return nil
	}
	return c.wallets[len(c.wallets)-1]
}

func (c *fakeConnector) hook(i int) port.SessionHooks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hooks[i]
}

type memPrefs struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: map[string]string{}}
}

func (p *memPrefs) Get(_ context.Context, key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.getErr != nil {
		return "", p.getErr
	}
	v, ok := p.values[key]
	if !ok {
		return "", entity.ErrPreferenceNotFound
	}
	return v, nil
}

func (p *memPrefs) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return nil
}

func (p *memPrefs) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
	return nil
}

func (p *memPrefs) lookup(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok
}

type recordingNotifier struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (n *recordingNotifier) Error(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) Info(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, message)
}

func (n *recordingNotifier) errorMessages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

type chanEvents struct {
	ch chan struct{}
}

func (e *chanEvents) Subscribe() (<-chan struct{}, func()) {
	return e.ch, func() {}
}
