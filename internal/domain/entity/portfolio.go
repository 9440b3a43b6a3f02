package entity

import "time"

// Profile is the social identity attached to an address on Desmos.
type Profile struct {
	Address        string    `json:"address"`
	DTag           string    `json:"dtag"`
	Nickname       string    `json:"nickname"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
	CoverPicture   string    `json:"coverPicture"`
	CreationDate   time.Time `json:"creationDate"`
}

// Portfolio is the aggregated view of an address.
type Portfolio struct {
	Address          string   `json:"address"`
	Profile          *Profile `json:"profile,omitempty"`
	Balance          Coin     `json:"balance"`
	StakedBalance    Coin     `json:"stakedBalance"`
	UnstakingBalance Coin     `json:"unstakingBalance"`
	AvailableBalance Coin     `json:"availableBalance"`
	Commission       Coin     `json:"commission"`
	Reward           Coin     `json:"reward"`
}

// AvailableBalance derives the spendable part of balance:
// balance - staked - unstaking.
func AvailableBalance(balance, staked, unstaking Coin) (Coin, error) {
	rest, err := balance.Sub(staked)
	if err != nil {
		return Coin{}, err
	}
	return rest.Sub(unstaking)
}
