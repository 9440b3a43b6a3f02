package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StakeConfig configures the stake service.
type StakeConfig struct {
	SortLocale       string
	ValidatorTTL     time.Duration
	ValidatorCleanup time.Duration
}

// stakeServiceImpl implements port.StakeService.
type stakeServiceImpl struct {
	chain      port.ChainQueryClient
	accounts   port.AccountSource
	validators *cache.Cache
	logger     port.Logger

	// collate.Collator keeps internal buffers and is not safe for concurrent use.
	collatorMu sync.Mutex
	collator   *collate.Collator
}

// NewStakeService creates a new instance of the stake service.
func NewStakeService(chain port.ChainQueryClient, accounts port.AccountSource, cfg StakeConfig, l port.Logger) port.StakeService {
	tag, err := language.Parse(cfg.SortLocale)
	if err != nil {
		l.Warn("Unknown sort locale, falling back to English", "locale", cfg.SortLocale, "error", err)
		tag = language.English
	}
	if cfg.ValidatorTTL <= 0 {
		cfg.ValidatorTTL = 10 * time.Minute
	}
	if cfg.ValidatorCleanup <= 0 {
		cfg.ValidatorCleanup = 2 * cfg.ValidatorTTL
	}
	return &stakeServiceImpl{
		chain:      chain,
		accounts:   accounts,
		validators: cache.New(cfg.ValidatorTTL, cfg.ValidatorCleanup),
		logger:     l,
		collator:   collate.New(tag, collate.IgnoreCase),
	}
}

// FetchStakes lists the delegations of address merged with their pending rewards.
// An empty address means the connected account.
func (s *stakeServiceImpl) FetchStakes(ctx context.Context, address string) ([]entity.Stake, error) {
	if address == "" {
		account, ok := s.accounts.ConnectedAccount()
		if !ok {
			metrics.StakeFetches.WithLabelValues("not_connected").Inc()
			return nil, entity.ErrWalletNotConnected
		}
		address = account.Address
	}

	stakes, err := s.fetchStakes(ctx, address)
	if err != nil {
		metrics.StakeFetches.WithLabelValues("failed").Inc()
		s.logger.Error("Failed to fetch stakes", "address", address, "error", err)
		return nil, err
	}
	metrics.StakeFetches.WithLabelValues("loaded").Inc()
	return stakes, nil
}

func (s *stakeServiceImpl) fetchStakes(ctx context.Context, address string) ([]entity.Stake, error) {
	delegations, err := s.chain.GetDelegations(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get delegations: %w", err)
	}
	if len(delegations) == 0 {
		return []entity.Stake{}, nil
	}

	validatorAddrs := entity.ValidatorAddresses(delegations)
	rewards, err := s.chain.GetDelegationRewards(ctx, address, validatorAddrs)
	if err != nil {
		return nil, fmt.Errorf("failed to get delegation rewards: %w", err)
	}

	stakes, err := entity.MergeStakes(delegations, rewards, s.lookupValidators(ctx, validatorAddrs))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Fetched stakes", "address", address, "count", len(stakes))
	return stakes, nil
}

// lookupValidators serves validator descriptions from the cache and fetches the
// misses. A failed lookup only costs the monikers.
func (s *stakeServiceImpl) lookupValidators(ctx context.Context, addrs []string) map[string]entity.Validator {
	found := make(map[string]entity.Validator, len(addrs))
	var missing []string
	for _, addr := range addrs {
		if v, ok := s.validators.Get(addr); ok {
			found[addr] = v.(entity.Validator)
			continue
		}
		missing = append(missing, addr)
	}
	if len(missing) == 0 {
		return found
	}

	fetched, err := s.chain.GetValidators(ctx, missing)
	if err != nil {
		s.logger.Warn("Failed to get validators, using truncated addresses", "count", len(missing), "error", err)
		return found
	}
	for addr, v := range fetched {
		s.validators.SetDefault(addr, v)
		found[addr] = v
	}
	return found
}

func (s *stakeServiceImpl) SortStakes(stakes []entity.Stake, column entity.StakeSortColumn, order entity.SortOrder) []entity.Stake {
	s.collatorMu.Lock()
	defer s.collatorMu.Unlock()
	return entity.SortStakes(stakes, column, order, s.collator)
}

// StakeList is the request state cell of a stake table. Sorting re-projects the
// fetched rows and never hits the network.
type StakeList struct {
	svc port.StakeService

	mu     sync.Mutex
	state  entity.RequestState[[]entity.Stake]
	column entity.StakeSortColumn
	order  entity.SortOrder
	seq    uint64
}

// NewStakeList creates a list sorted by name ascending, in the Initial state.
func NewStakeList(svc port.StakeService) *StakeList {
	return &StakeList{
		svc:    svc,
		state:  entity.Initial[[]entity.Stake]{},
		column: entity.StakeSortByName,
		order:  entity.SortAscending,
	}
}

// Fetch loads the stakes of address and applies the current sort.
func (l *StakeList) Fetch(ctx context.Context, address string) entity.RequestState[[]entity.Stake] {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.state = entity.Loading[[]entity.Stake]{}
	l.mu.Unlock()

	stakes, err := l.svc.FetchStakes(ctx, address)

	l.mu.Lock()
	defer l.mu.Unlock()
	var next entity.RequestState[[]entity.Stake]
	if err != nil {
		next = entity.Failed[[]entity.Stake]{Err: err}
	} else {
		next = entity.Loaded[[]entity.Stake]{Value: l.svc.SortStakes(stakes, l.column, l.order)}
	}
	if seq == l.seq {
		l.state = next
	}
	return next
}

// Sort changes the sort and re-sorts loaded rows. Other states only remember the sort.
func (l *StakeList) Sort(column entity.StakeSortColumn, order entity.SortOrder) entity.RequestState[[]entity.Stake] {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.column, l.order = column, order
	if loaded, ok := l.state.(entity.Loaded[[]entity.Stake]); ok {
		l.state = entity.Loaded[[]entity.Stake]{Value: l.svc.SortStakes(loaded.Value, column, order)}
	}
	return l.state
}

// State returns the current request state.
func (l *StakeList) State() entity.RequestState[[]entity.Stake] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// SortKey returns the current sort column and order.
func (l *StakeList) SortKey() (entity.StakeSortColumn, entity.SortOrder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.column, l.order
}
