package port

import (
	"context"

	"likedao_wallet/internal/domain/entity"
)

// ChainQueryClient reads account, bank, staking and distribution state of the chain.
// Every amount is returned in the chain's minimal denomination.
type ChainQueryClient interface {
	// GetAccount returns entity.ErrAccountNotFound when the chain has no record for address.
	GetAccount(ctx context.Context, address string) (*entity.AccountRecord, error)

	GetBalance(ctx context.Context, address string) (entity.Coin, error)
	GetStakedBalance(ctx context.Context, address string) (entity.Coin, error)
	GetUnstakingBalance(ctx context.Context, address string) (entity.Coin, error)

	// GetCommission returns the outstanding commission of the validator operated by address.
	// Addresses that do not operate a validator report zero.
	GetCommission(ctx context.Context, address string) (entity.Coin, error)
	// GetRewards returns the total pending delegation rewards of address.
	GetRewards(ctx context.Context, address string) (entity.Coin, error)

	GetDelegations(ctx context.Context, delegator string) ([]entity.Delegation, error)
	// GetDelegationRewards looks up the pending reward of delegator with each of validators
	// in a single round trip. The result has the same length and order as validators.
	GetDelegationRewards(ctx context.Context, delegator string, validators []string) ([]entity.Coin, error)
	// GetValidators returns the known validators among operatorAddresses, keyed by operator address.
	GetValidators(ctx context.Context, operatorAddresses []string) (map[string]entity.Validator, error)
}

// ProfileQueryClient resolves social profiles. A missing profile is (nil, nil).
type ProfileQueryClient interface {
	GetProfile(ctx context.Context, address string) (*entity.Profile, error)
}

// AuthClient ends the server-side authenticated session. Logout is idempotent.
type AuthClient interface {
	Logout(ctx context.Context) error
}
