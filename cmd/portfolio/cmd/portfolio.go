package cmd

import (
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/pkg/utils"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type portfolioResult struct {
	Address   string            `json:"address"`
	Portfolio *entity.Portfolio `json:"portfolio,omitempty"`
	Display   map[string]string `json:"display,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func newPortfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio <address>...",
		Short: "Aggregate the portfolio of one or more addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := loadServices()
			if err != nil {
				return err
			}
			currency := svcs.cfg.Chain.Currency

			results := make([]portfolioResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(svcs.cfg.Performance.MaxConcurrentRoutines)
			for i, address := range args {
				g.Go(func() error {
					results[i] = portfolioResult{Address: address}
					p, err := svcs.portfolio.FetchPortfolio(ctx, address)
					if err != nil {
						// one bad address must not hide the others
						results[i].Error = err.Error()
						return nil
					}
					results[i].Portfolio = p
					results[i].Display = displayAmounts(p, currency)
					return nil
				})
			}
			_ = g.Wait()
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
}

func displayAmounts(p *entity.Portfolio, currency entity.Currency) map[string]string {
	format := func(c entity.Coin) string {
		if c.Denom != currency.CoinMinimalDenom {
			return c.String()
		}
		return utils.FormatAmount(c.Amount, currency.CoinDecimals) + " " + currency.CoinDenom
	}
	return map[string]string{
		"balance":    format(p.Balance),
		"staked":     format(p.StakedBalance),
		"unstaking":  format(p.UnstakingBalance),
		"available":  format(p.AvailableBalance),
		"commission": format(p.Commission),
		"reward":     format(p.Reward),
	}
}
