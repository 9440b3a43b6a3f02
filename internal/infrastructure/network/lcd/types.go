package lcd

type coinDTO struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type paginationDTO struct {
	NextKey string `json:"next_key"`
	Total   string `json:"total"`
}

type accountResponse struct {
	Account struct {
		Type          string `json:"@type"`
		Address       string `json:"address"`
		AccountNumber string `json:"account_number"`
		Sequence      string `json:"sequence"`
		// vesting and module accounts nest the base account
		BaseAccount *struct {
			Address       string `json:"address"`
			AccountNumber string `json:"account_number"`
			Sequence      string `json:"sequence"`
		} `json:"base_account"`
		BaseVestingAccount *struct {
			BaseAccount struct {
				Address       string `json:"address"`
				AccountNumber string `json:"account_number"`
				Sequence      string `json:"sequence"`
			} `json:"base_account"`
		} `json:"base_vesting_account"`
	} `json:"account"`
}

type balanceResponse struct {
	Balance coinDTO `json:"balance"`
}

type delegationResponse struct {
	Delegation struct {
		DelegatorAddress string `json:"delegator_address"`
		ValidatorAddress string `json:"validator_address"`
		Shares           string `json:"shares"`
	} `json:"delegation"`
	Balance coinDTO `json:"balance"`
}

type delegationsResponse struct {
	DelegationResponses []delegationResponse `json:"delegation_responses"`
	Pagination          paginationDTO        `json:"pagination"`
}

type unbondingDelegationsResponse struct {
	UnbondingResponses []struct {
		DelegatorAddress string `json:"delegator_address"`
		ValidatorAddress string `json:"validator_address"`
		Entries          []struct {
			Balance string `json:"balance"`
		} `json:"entries"`
	} `json:"unbonding_responses"`
	Pagination paginationDTO `json:"pagination"`
}

type rewardsResponse struct {
	Rewards []struct {
		ValidatorAddress string    `json:"validator_address"`
		Reward           []coinDTO `json:"reward"`
	} `json:"rewards"`
	Total []coinDTO `json:"total"`
}

type commissionResponse struct {
	Commission struct {
		Commission []coinDTO `json:"commission"`
	} `json:"commission"`
}

type validatorDTO struct {
	OperatorAddress string `json:"operator_address"`
	Jailed          bool   `json:"jailed"`
	Description     struct {
		Moniker string `json:"moniker"`
	} `json:"description"`
	Commission struct {
		CommissionRates struct {
			Rate string `json:"rate"`
		} `json:"commission_rates"`
	} `json:"commission"`
}

type validatorsResponse struct {
	Validators []validatorDTO `json:"validators"`
	Pagination paginationDTO  `json:"pagination"`
}
