package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func likeCoin(n int64) Coin {
	return NewCoin("nanoekil", decimal.NewFromInt(n))
}

func TestTruncateAddress(t *testing.T) {
	assert.Equal(t, "likevalope...mrgn4k", TruncateAddress("likevaloper1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukmrgn4k"))
	assert.Equal(t, "short", TruncateAddress("short"))
}

func TestStakeDisplayName(t *testing.T) {
	addr := "likevaloper1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukmrgn4k"
	assert.Equal(t, "Oursky", StakeDisplayName(addr, &Validator{Moniker: "Oursky"}))
	assert.Equal(t, "likevalope...mrgn4k", StakeDisplayName(addr, &Validator{Moniker: "  "}))
	assert.Equal(t, "likevalope...mrgn4k", StakeDisplayName(addr, nil))
}

func TestMergeStakes(t *testing.T) {
	delegations := []Delegation{
		{ValidatorAddress: "likevaloper1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukmrgn4k", Balance: likeCoin(100)},
		{ValidatorAddress: "likevaloper1yg5nqde7g4x9xknpdphhvlvy3wffng986t7j7y", Balance: likeCoin(50)},
	}
	rewards := []Coin{likeCoin(7), likeCoin(3)}
	validators := map[string]Validator{
		"likevaloper1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukmrgn4k": {Moniker: "Alpha"},
	}

	stakes, err := MergeStakes(delegations, rewards, validators)
	require.NoError(t, err)
	require.Len(t, stakes, 2)

	assert.Equal(t, "Alpha", stakes[0].Name)
	assert.Equal(t, "7nanoekil", stakes[0].Reward.String())
	assert.Equal(t, "likevalope...6t7j7y", stakes[1].Name)
	assert.Equal(t, "3nanoekil", stakes[1].Reward.String())

	_, err = MergeStakes(delegations, rewards[:1], validators)
	assert.Error(t, err)
}

func TestValidatorAddresses(t *testing.T) {
	got := ValidatorAddresses([]Delegation{{ValidatorAddress: "b"}, {ValidatorAddress: "a"}})
	assert.Equal(t, []string{"b", "a"}, got)
}

func TestSortStakes(t *testing.T) {
	stakes := []Stake{
		{Name: "beta", Delegation: Delegation{Balance: likeCoin(10)}, Reward: likeCoin(2)},
		{Name: "Alpha", Delegation: Delegation{Balance: likeCoin(30)}, Reward: likeCoin(1)},
		{Name: "gamma", Delegation: Delegation{Balance: likeCoin(20)}, Reward: likeCoin(3)},
	}
	names := func(s []Stake) []string {
		out := make([]string, len(s))
		for i, st := range s {
			out[i] = st.Name
		}
		return out
	}

	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, names(SortStakes(stakes, StakeSortByName, SortAscending, nil)))
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, names(SortStakes(stakes, StakeSortByName, SortDescending, nil)))
	assert.Equal(t, []string{"beta", "gamma", "Alpha"}, names(SortStakes(stakes, StakeSortByStaked, SortAscending, nil)))
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, names(SortStakes(stakes, StakeSortByRewards, SortDescending, nil)))

	// input is left untouched
	assert.Equal(t, []string{"beta", "Alpha", "gamma"}, names(stakes))
}

func TestSortStakesIsStable(t *testing.T) {
	stakes := []Stake{
		{Name: "first", Reward: likeCoin(1)},
		{Name: "second", Reward: likeCoin(1)},
		{Name: "third", Reward: likeCoin(0)},
	}
	sorted := SortStakes(stakes, StakeSortByRewards, SortDescending, nil)
	assert.Equal(t, "first", sorted[0].Name)
	assert.Equal(t, "second", sorted[1].Name)
	assert.Equal(t, "third", sorted[2].Name)
}

func TestParseStakeSort(t *testing.T) {
	col, ord, err := ParseStakeSort("", "")
	require.NoError(t, err)
	assert.Equal(t, StakeSortByName, col)
	assert.Equal(t, SortAscending, ord)

	col, ord, err = ParseStakeSort("Rewards", "DESC")
	require.NoError(t, err)
	assert.Equal(t, StakeSortByRewards, col)
	assert.Equal(t, SortDescending, ord)

	_, _, err = ParseStakeSort("commission", "asc")
	assert.Error(t, err)
	_, _, err = ParseStakeSort("name", "up")
	assert.Error(t, err)
}
