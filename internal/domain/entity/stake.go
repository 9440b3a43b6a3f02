package entity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	displayNamePrefixLen = 10
	displayNameSuffixLen = 6
)

// Delegation is a delegator's stake with one validator.
type Delegation struct {
	DelegatorAddress string          `json:"delegatorAddress"`
	ValidatorAddress string          `json:"validatorAddress"`
	Shares           decimal.Decimal `json:"shares"`
	Balance          Coin            `json:"balance"`
}

// Validator carries the display data of a validator.
type Validator struct {
	OperatorAddress string          `json:"operatorAddress"`
	Moniker         string          `json:"moniker"`
	Jailed          bool            `json:"jailed"`
	CommissionRate  decimal.Decimal `json:"commissionRate"`
}

// Stake is a delegation merged with its pending reward.
type Stake struct {
	Delegation Delegation `json:"delegation"`
	Reward     Coin       `json:"reward"`
	Name       string     `json:"name"`
}

// StakeSortColumn selects the sort key of a stake list.
type StakeSortColumn string

const (
	StakeSortByName    StakeSortColumn = "name"
	StakeSortByStaked  StakeSortColumn = "staked"
	StakeSortByRewards StakeSortColumn = "rewards"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseStakeSort validates user supplied sort parameters. Empty values fall back to
// name ascending.
func ParseStakeSort(column, order string) (StakeSortColumn, SortOrder, error) {
	col := StakeSortColumn(strings.ToLower(column))
	switch col {
	case "":
		col = StakeSortByName
	case StakeSortByName, StakeSortByStaked, StakeSortByRewards:
	default:
		return "", "", fmt.Errorf("unknown sort column %q", column)
	}

	ord := SortOrder(strings.ToLower(order))
	switch ord {
	case "":
		ord = SortAscending
	case SortAscending, SortDescending:
	default:
		return "", "", fmt.Errorf("unknown sort order %q", order)
	}
	return col, ord, nil
}

// StringComparer compares display names. *collate.Collator satisfies it.
type StringComparer interface {
	CompareString(a, b string) int
}

// TruncateAddress shortens an address to a fixed-width prefix and suffix joined
// by an ellipsis. Short addresses are returned unchanged.
func TruncateAddress(address string) string {
	if len(address) <= displayNamePrefixLen+displayNameSuffixLen+3 {
		return address
	}
	return address[:displayNamePrefixLen] + "..." + address[len(address)-displayNameSuffixLen:]
}

// StakeDisplayName is the validator moniker when known, else the truncated operator address.
func StakeDisplayName(validatorAddress string, validator *Validator) string {
	if validator != nil && strings.TrimSpace(validator.Moniker) != "" {
		return validator.Moniker
	}
	return TruncateAddress(validatorAddress)
}

// MergeStakes pairs delegations with rewards by position. rewards must have been
// requested for the validators of delegations, in the same order.
func MergeStakes(delegations []Delegation, rewards []Coin, validators map[string]Validator) ([]Stake, error) {
	if len(delegations) != len(rewards) {
		return nil, fmt.Errorf("reward count %d does not match delegation count %d", len(rewards), len(delegations))
	}

	stakes := make([]Stake, 0, len(delegations))
	for i, d := range delegations {
		var v *Validator
		if found, ok := validators[d.ValidatorAddress]; ok {
			v = &found
		}
		stakes = append(stakes, Stake{
			Delegation: d,
			Reward:     rewards[i],
			Name:       StakeDisplayName(d.ValidatorAddress, v),
		})
	}
	return stakes, nil
}

// ValidatorAddresses lists the validator of each delegation, in order.
func ValidatorAddresses(delegations []Delegation) []string {
	addrs := make([]string, len(delegations))
	for i, d := range delegations {
		addrs[i] = d.ValidatorAddress
	}
	return addrs
}

// SortStakes returns a stably sorted copy of stakes. The input is left untouched.
// names is only consulted for StakeSortByName; nil falls back to byte order.
func SortStakes(stakes []Stake, column StakeSortColumn, order SortOrder, names StringComparer) []Stake {
	sorted := slices.Clone(stakes)

	var cmp func(a, b Stake) int
	switch column {
	case StakeSortByStaked:
		cmp = func(a, b Stake) int { return a.Delegation.Balance.Cmp(b.Delegation.Balance) }
	case StakeSortByRewards:
		cmp = func(a, b Stake) int { return a.Reward.Cmp(b.Reward) }
	default:
		if names != nil {
			cmp = func(a, b Stake) int { return names.CompareString(a.Name, b.Name) }
		} else {
			cmp = func(a, b Stake) int { return strings.Compare(a.Name, b.Name) }
		}
	}

	if order == SortDescending {
		asc := cmp
		cmp = func(a, b Stake) int { return asc(b, a) }
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}
