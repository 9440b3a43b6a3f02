package lcd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/infrastructure/httpclient"
	"likedao_wallet/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const pageLimit = 100

// Config describes the chain served by the LCD endpoint.
type Config struct {
	Denom         string
	ValoperPrefix string
}

// Client implements port.ChainQueryClient against a Cosmos SDK LCD (REST) endpoint.
type Client struct {
	http   *httpclient.JSONClient
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a new LCD client.
func NewClient(http *httpclient.JSONClient, cfg Config, logger *zap.Logger) *Client {
	return &Client{
		http:   http,
		cfg:    cfg,
		logger: logger.Named("LCDClient"),
	}
}

var _ port.ChainQueryClient = (*Client)(nil)

// GetAccount implements port.ChainQueryClient.
func (c *Client) GetAccount(ctx context.Context, address string) (*entity.AccountRecord, error) {
	var resp accountResponse
	if err := c.http.GetJSON(ctx, "/cosmos/auth/v1beta1/accounts/"+url.PathEscape(address), &resp); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", entity.ErrAccountNotFound, address)
		}
		return nil, fmt.Errorf("failed to query account %s: %w", address, err)
	}

	acc := resp.Account
	addr, number, sequence := acc.Address, acc.AccountNumber, acc.Sequence
	switch {
	case acc.BaseAccount != nil:
		addr, number, sequence = acc.BaseAccount.Address, acc.BaseAccount.AccountNumber, acc.BaseAccount.Sequence
	case acc.BaseVestingAccount != nil:
		base := acc.BaseVestingAccount.BaseAccount
		addr, number, sequence = base.Address, base.AccountNumber, base.Sequence
	}
	if addr == "" {
		addr = address
	}

	record := &entity.AccountRecord{Type: acc.Type, Address: addr}
	if number != "" {
		n, err := strconv.ParseUint(number, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse account number %q: %w", number, err)
		}
		record.AccountNumber = n
	}
	if sequence != "" {
		n, err := strconv.ParseUint(sequence, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sequence %q: %w", sequence, err)
		}
		record.Sequence = n
	}
	return record, nil
}

// GetBalance implements port.ChainQueryClient.
func (c *Client) GetBalance(ctx context.Context, address string) (entity.Coin, error) {
	var resp balanceResponse
	path := fmt.Sprintf("/cosmos/bank/v1beta1/balances/%s/by_denom?denom=%s", url.PathEscape(address), url.QueryEscape(c.cfg.Denom))
	if err := c.http.GetJSON(ctx, path, &resp); err != nil {
		return entity.Coin{}, fmt.Errorf("failed to query balance of %s: %w", address, err)
	}
	return entity.ParseCoin(c.cfg.Denom, resp.Balance.Amount)
}

// GetStakedBalance implements port.ChainQueryClient.
func (c *Client) GetStakedBalance(ctx context.Context, address string) (entity.Coin, error) {
	delegations, err := c.GetDelegations(ctx, address)
	if err != nil {
		return entity.Coin{}, err
	}
	total := entity.ZeroCoin(c.cfg.Denom)
	for _, d := range delegations {
		if d.Balance.Denom != c.cfg.Denom {
			continue
		}
		if total, err = total.Add(d.Balance); err != nil {
			return entity.Coin{}, err
		}
	}
	return total, nil
}

// GetUnstakingBalance implements port.ChainQueryClient.
func (c *Client) GetUnstakingBalance(ctx context.Context, address string) (entity.Coin, error) {
	total := entity.ZeroCoin(c.cfg.Denom)
	err := c.paginate(ctx, fmt.Sprintf("/cosmos/staking/v1beta1/delegators/%s/unbonding_delegations", url.PathEscape(address)),
		func(raw []byte) (string, error) {
			var resp unbondingDelegationsResponse
			if err := jsoniter.Unmarshal(raw, &resp); err != nil {
				return "", err
			}
			for _, ub := range resp.UnbondingResponses {
				for _, entry := range ub.Entries {
					coin, err := entity.ParseCoin(c.cfg.Denom, entry.Balance)
					if err != nil {
						return "", err
					}
					if total, err = total.Add(coin); err != nil {
						return "", err
					}
				}
			}
			return resp.Pagination.NextKey, nil
		})
	if err != nil {
		return entity.Coin{}, fmt.Errorf("failed to query unbonding delegations of %s: %w", address, err)
	}
	return total, nil
}

// GetCommission implements port.ChainQueryClient. The address is translated to the
// validator operator prefix; addresses that do not operate a validator report zero.
func (c *Client) GetCommission(ctx context.Context, address string) (entity.Coin, error) {
	valoper, err := utils.TranslateAddress(address, c.cfg.ValoperPrefix)
	if err != nil {
		return entity.Coin{}, err
	}

	var resp commissionResponse
	if err := c.http.GetJSON(ctx, "/cosmos/distribution/v1beta1/validators/"+url.PathEscape(valoper)+"/commission", &resp); err != nil {
		if httpclient.IsNotFound(err) {
			return entity.ZeroCoin(c.cfg.Denom), nil
		}
		return entity.Coin{}, fmt.Errorf("failed to query commission of %s: %w", valoper, err)
	}
	return c.pickDenom(resp.Commission.Commission)
}

// GetRewards implements port.ChainQueryClient.
func (c *Client) GetRewards(ctx context.Context, address string) (entity.Coin, error) {
	resp, err := c.rewards(ctx, address)
	if err != nil {
		return entity.Coin{}, err
	}
	return c.pickDenom(resp.Total)
}

// GetDelegations implements port.ChainQueryClient.
func (c *Client) GetDelegations(ctx context.Context, delegator string) ([]entity.Delegation, error) {
	var delegations []entity.Delegation
	err := c.paginate(ctx, "/cosmos/staking/v1beta1/delegations/"+url.PathEscape(delegator),
		func(raw []byte) (string, error) {
			var resp delegationsResponse
			if err := jsoniter.Unmarshal(raw, &resp); err != nil {
				return "", err
			}
			for _, dr := range resp.DelegationResponses {
				d, err := toDelegation(dr)
				if err != nil {
					return "", err
				}
				delegations = append(delegations, d)
			}
			return resp.Pagination.NextKey, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query delegations of %s: %w", delegator, err)
	}
	return delegations, nil
}

// GetDelegationRewards implements port.ChainQueryClient. All rewards of the
// delegator are read in one request and laid out in the order of validators;
// validators without a pending reward report zero.
func (c *Client) GetDelegationRewards(ctx context.Context, delegator string, validators []string) ([]entity.Coin, error) {
	resp, err := c.rewards(ctx, delegator)
	if err != nil {
		return nil, err
	}

	byValidator := make(map[string]entity.Coin, len(resp.Rewards))
	for _, r := range resp.Rewards {
		coin, err := c.pickDenom(r.Reward)
		if err != nil {
			return nil, err
		}
		byValidator[r.ValidatorAddress] = coin
	}

	out := make([]entity.Coin, len(validators))
	for i, v := range validators {
		if coin, ok := byValidator[v]; ok {
			out[i] = coin
		} else {
			out[i] = entity.ZeroCoin(c.cfg.Denom)
		}
	}
	return out, nil
}

// GetValidators implements port.ChainQueryClient.
func (c *Client) GetValidators(ctx context.Context, operatorAddresses []string) (map[string]entity.Validator, error) {
	wanted := make(map[string]struct{}, len(operatorAddresses))
	for _, a := range operatorAddresses {
		wanted[a] = struct{}{}
	}

	found := make(map[string]entity.Validator, len(operatorAddresses))
	err := c.paginate(ctx, "/cosmos/staking/v1beta1/validators", func(raw []byte) (string, error) {
		var resp validatorsResponse
		if err := jsoniter.Unmarshal(raw, &resp); err != nil {
			return "", err
		}
		for _, v := range resp.Validators {
			if _, ok := wanted[v.OperatorAddress]; !ok {
				continue
			}
			rate, err := parseDecimal(v.Commission.CommissionRates.Rate)
			if err != nil {
				return "", err
			}
			found[v.OperatorAddress] = entity.Validator{
				OperatorAddress: v.OperatorAddress,
				Moniker:         v.Description.Moniker,
				Jailed:          v.Jailed,
				CommissionRate:  rate,
			}
		}
		if len(found) == len(wanted) {
			return "", nil
		}
		return resp.Pagination.NextKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query validators: %w", err)
	}
	return found, nil
}

func (c *Client) rewards(ctx context.Context, delegator string) (*rewardsResponse, error) {
	var resp rewardsResponse
	if err := c.http.GetJSON(ctx, "/cosmos/distribution/v1beta1/delegators/"+url.PathEscape(delegator)+"/rewards", &resp); err != nil {
		return nil, fmt.Errorf("failed to query rewards of %s: %w", delegator, err)
	}
	return &resp, nil
}

// paginate walks a paginated list endpoint. page decodes one page and returns its next key.
func (c *Client) paginate(ctx context.Context, path string, page func(raw []byte) (string, error)) error {
	key := ""
	for {
		query := url.Values{}
		query.Set("pagination.limit", strconv.Itoa(pageLimit))
		if key != "" {
			query.Set("pagination.key", key)
		}

		var raw jsoniter.RawMessage
		if err := c.http.GetJSON(ctx, path+"?"+query.Encode(), &raw); err != nil {
			return err
		}
		next, err := page(raw)
		if err != nil {
			return fmt.Errorf("failed to decode page of %s: %w", path, err)
		}
		if next == "" {
			return nil
		}
		c.logger.Debug("Fetching next page", zap.String("path", path))
		key = next
	}
}

// pickDenom returns the configured denomination out of a multi-denom amount list.
// Reward and commission amounts are decimals and are kept exact.
func (c *Client) pickDenom(coins []coinDTO) (entity.Coin, error) {
	for _, coin := range coins {
		if coin.Denom == c.cfg.Denom {
			return entity.ParseCoin(c.cfg.Denom, coin.Amount)
		}
	}
	return entity.ZeroCoin(c.cfg.Denom), nil
}

func toDelegation(dr delegationResponse) (entity.Delegation, error) {
	shares, err := parseDecimal(dr.Delegation.Shares)
	if err != nil {
		return entity.Delegation{}, err
	}
	balance, err := entity.ParseCoin(dr.Balance.Denom, dr.Balance.Amount)
	if err != nil {
		return entity.Delegation{}, err
	}
	return entity.Delegation{
		DelegatorAddress: dr.Delegation.DelegatorAddress,
		ValidatorAddress: dr.Delegation.ValidatorAddress,
		Shares:           shares,
		Balance:          balance,
	}, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
