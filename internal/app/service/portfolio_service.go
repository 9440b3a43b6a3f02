package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/pkg/metrics"
	"likedao_wallet/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// PortfolioConfig carries the chain parameters the aggregator needs.
type PortfolioConfig struct {
	Denom        string
	Bech32Prefix string
	DesmosPrefix string
}

// PortfolioServiceImpl implements port.PortfolioService.
type PortfolioServiceImpl struct {
	chain    port.ChainQueryClient
	profiles port.ProfileQueryClient
	accounts port.AccountSource
	cfg      PortfolioConfig
	logger   port.Logger
}

// NewPortfolioService creates a new instance of PortfolioServiceImpl.
func NewPortfolioService(
	chain port.ChainQueryClient,
	profiles port.ProfileQueryClient,
	accounts port.AccountSource,
	cfg PortfolioConfig,
	l port.Logger,
) port.PortfolioService {
	return &PortfolioServiceImpl{
		chain:    chain,
		profiles: profiles,
		accounts: accounts,
		cfg:      cfg,
		logger:   l,
	}
}

// FetchPortfolio aggregates the holdings of address. An empty address means the
// connected account. Explicit addresses must have an on-chain account record.
// All reads run concurrently and the first failure fails the whole fetch.
func (s *PortfolioServiceImpl) FetchPortfolio(ctx context.Context, address string) (*entity.Portfolio, error) {
	target, err := s.resolveAddress(ctx, address)
	if err != nil {
		metrics.PortfolioFetches.WithLabelValues(portfolioResult(err)).Inc()
		return nil, err
	}

	s.logger.Debug("Fetching portfolio", "address", target)
	portfolio, err := s.aggregate(ctx, target)
	if err != nil {
		s.logger.Error("Failed to aggregate portfolio", "address", target, "error", err)
		metrics.PortfolioFetches.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %w", entity.ErrAggregationFailed, err)
	}

	metrics.PortfolioFetches.WithLabelValues("loaded").Inc()
	s.logger.Info("Successfully fetched portfolio", "address", target, "available", portfolio.AvailableBalance.String())
	return portfolio, nil
}

func (s *PortfolioServiceImpl) resolveAddress(ctx context.Context, address string) (string, error) {
	if address == "" {
		account, ok := s.accounts.ConnectedAccount()
		if !ok {
			return "", entity.ErrWalletNotConnected
		}
		return account.Address, nil
	}

	if err := utils.ValidateAddress(address, s.cfg.Bech32Prefix); err != nil {
		s.logger.Debug("Rejecting malformed address", "address", address, "error", err)
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidAddress, address)
	}

	if _, err := s.chain.GetAccount(ctx, address); err != nil {
		if errors.Is(err, entity.ErrAccountNotFound) {
			return "", fmt.Errorf("%w: %s", entity.ErrInvalidAddress, address)
		}
		return "", fmt.Errorf("%w: failed to query account: %w", entity.ErrAggregationFailed, err)
	}
	return address, nil
}

func (s *PortfolioServiceImpl) aggregate(ctx context.Context, address string) (*entity.Portfolio, error) {
	var (
		balance, staked, unstaking, commission, reward entity.Coin
		profile                                        *entity.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	coinRead := func(dst *entity.Coin, name string, read func(context.Context, string) (entity.Coin, error)) {
		g.Go(func() error {
			c, err := read(gctx, address)
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", name, err)
			}
			*dst = c
			return nil
		})
	}
	coinRead(&balance, "balance", s.chain.GetBalance)
	coinRead(&staked, "staked balance", s.chain.GetStakedBalance)
	coinRead(&unstaking, "unstaking balance", s.chain.GetUnstakingBalance)
	coinRead(&commission, "commission", s.chain.GetCommission)
	coinRead(&reward, "rewards", s.chain.GetRewards)
	g.Go(func() error {
		desmosAddress, err := utils.TranslateAddress(address, s.cfg.DesmosPrefix)
		if err != nil {
			return err
		}
		p, err := s.profiles.GetProfile(gctx, desmosAddress)
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}
		profile = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	available, err := entity.AvailableBalance(balance, staked, unstaking)
	if err != nil {
		return nil, err
	}

	return &entity.Portfolio{
		Address:          address,
		Profile:          profile,
		Balance:          s.withDenom(balance),
		StakedBalance:    s.withDenom(staked),
		UnstakingBalance: s.withDenom(unstaking),
		AvailableBalance: s.withDenom(available),
		Commission:       s.withDenom(commission),
		Reward:           s.withDenom(reward),
	}, nil
}

func (s *PortfolioServiceImpl) withDenom(c entity.Coin) entity.Coin {
	if c.Denom == "" {
		c.Denom = s.cfg.Denom
	}
	return c
}

func portfolioResult(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, entity.ErrWalletNotConnected):
		return "not_connected"
	default:
		return "failed"
	}
}

// PortfolioQuery is the request state cell of one portfolio view. The latest
// Fetch wins; results of superseded fetches are dropped.
type PortfolioQuery struct {
	svc port.PortfolioService

	mu         sync.Mutex
	state      entity.RequestState[*entity.Portfolio]
	lastLoaded *entity.Portfolio
	seq        uint64
}

// NewPortfolioQuery creates a query cell in the Initial state.
func NewPortfolioQuery(svc port.PortfolioService) *PortfolioQuery {
	return &PortfolioQuery{svc: svc, state: entity.Initial[*entity.Portfolio]{}}
}

// Fetch moves the cell to Loading, then to Loaded or Failed.
func (q *PortfolioQuery) Fetch(ctx context.Context, address string) entity.RequestState[*entity.Portfolio] {
	q.mu.Lock()
	q.seq++
	seq := q.seq
	q.state = entity.Loading[*entity.Portfolio]{}
	q.mu.Unlock()

	portfolio, err := q.svc.FetchPortfolio(ctx, address)

	var next entity.RequestState[*entity.Portfolio]
	if err != nil {
		next = entity.Failed[*entity.Portfolio]{Err: err}
	} else {
		next = entity.Loaded[*entity.Portfolio]{Value: portfolio}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if seq != q.seq {
		return next
	}
	q.state = next
	if portfolio != nil {
		q.lastLoaded = portfolio
	}
	return next
}

// State returns the current request state.
func (q *PortfolioQuery) State() entity.RequestState[*entity.Portfolio] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// LastLoaded returns the most recent successfully fetched portfolio, if any.
func (q *PortfolioQuery) LastLoaded() (*entity.Portfolio, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastLoaded, q.lastLoaded != nil
}
