package cmd

import (
	"likedao_wallet/internal/domain/entity"

	"github.com/spf13/cobra"
)

func newStakesCmd() *cobra.Command {
	var column, order string
	c := &cobra.Command{
		Use:   "stakes <address>",
		Short: "List the delegations of an address with pending rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sortColumn, sortOrder, err := entity.ParseStakeSort(column, order)
			if err != nil {
				return err
			}
			svcs, err := loadServices()
			if err != nil {
				return err
			}
			stakes, err := svcs.stakes.FetchStakes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), svcs.stakes.SortStakes(stakes, sortColumn, sortOrder))
		},
	}
	c.Flags().StringVar(&column, "sort", string(entity.StakeSortByName), "sort column: name, staked or rewards")
	c.Flags().StringVar(&order, "order", string(entity.SortAscending), "sort order: asc or desc")
	return c
}
