package port

import (
	"context"

	"likedao_wallet/internal/domain/entity"
)

// PortfolioService aggregates the holdings of an address.
type PortfolioService interface {
	// FetchPortfolio aggregates address, or the connected account when address is empty.
	FetchPortfolio(ctx context.Context, address string) (*entity.Portfolio, error)
}

// StakeService lists the delegations of an address merged with their rewards.
type StakeService interface {
	FetchStakes(ctx context.Context, address string) ([]entity.Stake, error)
	// SortStakes returns a sorted copy of stakes using the configured name collation.
	SortStakes(stakes []entity.Stake, column entity.StakeSortColumn, order entity.SortOrder) []entity.Stake
}
