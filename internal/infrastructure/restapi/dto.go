package restapi

import (
	"time"

	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/pkg/utils"
)

// CoinDTO is an exact amount in minimal denomination plus its display form.
type CoinDTO struct {
	Denom         string `json:"denom"`
	Amount        string `json:"amount"`
	DisplayDenom  string `json:"displayDenom"`
	DisplayAmount string `json:"displayAmount"`
}

// ProfileDTO is the social profile of an address.
type ProfileDTO struct {
	Address        string     `json:"address"`
	DTag           string     `json:"dtag"`
	Nickname       string     `json:"nickname"`
	Bio            string     `json:"bio"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	CoverPicture   string     `json:"coverPicture,omitempty"`
	CreationDate   *time.Time `json:"creationDate,omitempty"`
}

// PortfolioDTO is the API shape of entity.Portfolio.
type PortfolioDTO struct {
	Address          string      `json:"address"`
	Profile          *ProfileDTO `json:"profile"`
	Balance          CoinDTO     `json:"balance"`
	StakedBalance    CoinDTO     `json:"stakedBalance"`
	UnstakingBalance CoinDTO     `json:"unstakingBalance"`
	AvailableBalance CoinDTO     `json:"availableBalance"`
	Commission       CoinDTO     `json:"commission"`
	Reward           CoinDTO     `json:"reward"`
}

// StakeDTO is one row of a stake table.
type StakeDTO struct {
	ValidatorAddress string  `json:"validatorAddress"`
	Name             string  `json:"name"`
	Staked           CoinDTO `json:"staked"`
	Reward           CoinDTO `json:"reward"`
}

// AccountDTO is the connected signer account.
type AccountDTO struct {
	Address string `json:"address"`
	Algo    string `json:"algo"`
	PubKey  []byte `json:"pubKey"`
}

// WalletStateDTO is the API shape of the wallet state machine.
type WalletStateDTO struct {
	Status    entity.ConnectionStatus `json:"status"`
	Kind      entity.WalletKind       `json:"kind,omitempty"`
	ModalOpen bool                    `json:"modalOpen"`
	ChainID   string                  `json:"chainId,omitempty"`
	Account   *AccountDTO             `json:"account,omitempty"`
}

// RequestStateDTO wraps the request state of a cell.
type RequestStateDTO[T any] struct {
	Status string `json:"status"`
	Data   *T     `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// coinFormatter renders coins of the configured currency.
type coinFormatter struct {
	currency entity.Currency
}

func (f coinFormatter) coin(c entity.Coin) CoinDTO {
	dto := CoinDTO{Denom: c.Denom, Amount: c.Amount.String()}
	if c.Denom == f.currency.CoinMinimalDenom {
		dto.DisplayDenom = f.currency.CoinDenom
		dto.DisplayAmount = utils.FormatAmount(c.Amount, f.currency.CoinDecimals)
	} else {
		dto.DisplayDenom = c.Denom
		dto.DisplayAmount = c.Amount.String()
	}
	return dto
}

func (f coinFormatter) portfolio(p *entity.Portfolio) PortfolioDTO {
	dto := PortfolioDTO{
		Address:          p.Address,
		Balance:          f.coin(p.Balance),
		StakedBalance:    f.coin(p.StakedBalance),
		UnstakingBalance: f.coin(p.UnstakingBalance),
		AvailableBalance: f.coin(p.AvailableBalance),
		Commission:       f.coin(p.Commission),
		Reward:           f.coin(p.Reward),
	}
	if p.Profile != nil {
		dto.Profile = &ProfileDTO{
			Address:        p.Profile.Address,
			DTag:           p.Profile.DTag,
			Nickname:       p.Profile.Nickname,
			Bio:            p.Profile.Bio,
			ProfilePicture: p.Profile.ProfilePicture,
			CoverPicture:   p.Profile.CoverPicture,
		}
		if !p.Profile.CreationDate.IsZero() {
			created := p.Profile.CreationDate
			dto.Profile.CreationDate = &created
		}
	}
	return dto
}

func (f coinFormatter) stakes(stakes []entity.Stake) []StakeDTO {
	out := make([]StakeDTO, len(stakes))
	for i, s := range stakes {
		out[i] = StakeDTO{
			ValidatorAddress: s.Delegation.ValidatorAddress,
			Name:             s.Name,
			Staked:           f.coin(s.Delegation.Balance),
			Reward:           f.coin(s.Reward),
		}
	}
	return out
}

// requestStateDTO renders a cell through every variant of its request state.
func requestStateDTO[T, D any](s entity.RequestState[T], render func(T) D) RequestStateDTO[D] {
	return entity.MatchRequestState(s, entity.RequestStateMatcher[T, RequestStateDTO[D]]{
		Initial: func() RequestStateDTO[D] { return RequestStateDTO[D]{Status: "initial"} },
		Loading: func() RequestStateDTO[D] { return RequestStateDTO[D]{Status: "loading"} },
		Loaded: func(v T) RequestStateDTO[D] {
			d := render(v)
			return RequestStateDTO[D]{Status: "loaded", Data: &d}
		},
		Failed: func(err error) RequestStateDTO[D] { return RequestStateDTO[D]{Status: "error", Error: err.Error()} },
	})
}
