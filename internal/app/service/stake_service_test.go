package service

import (
	"context"
	"errors"
	"testing"

	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testDelegations() []entity.Delegation {
	return []entity.Delegation{
		{DelegatorAddress: testAddress, ValidatorAddress: validatorBeta, Balance: coin(50)},
		{DelegatorAddress: testAddress, ValidatorAddress: validatorAlpha, Balance: coin(100)},
		{DelegatorAddress: testAddress, ValidatorAddress: validatorUnnamed, Balance: coin(10)},
	}
}

var testValidatorAddrs = []string{validatorBeta, validatorAlpha, validatorUnnamed}

func stakeNames(stakes []entity.Stake) []string {
	out := make([]string, len(stakes))
	for i, s := range stakes {
		out[i] = s.Name
	}
	return out
}

func newTestStakeService(chain *MockChainClient, accounts staticAccounts) *stakeServiceImpl {
	return NewStakeService(chain, accounts, StakeConfig{SortLocale: "en"}, logger.Nop()).(*stakeServiceImpl)
}

func TestFetchStakes(t *testing.T) {
	chain := new(MockChainClient)
	chain.On("GetDelegations", mock.Anything, testAddress).Return(testDelegations(), nil)
	chain.On("GetDelegationRewards", mock.Anything, testAddress, testValidatorAddrs).Return([]entity.Coin{coin(2), coin(9), coin(0)}, nil)
	chain.On("GetValidators", mock.Anything, testValidatorAddrs).Return(map[string]entity.Validator{
		validatorAlpha: {OperatorAddress: validatorAlpha, Moniker: "alpha"},
		validatorBeta:  {OperatorAddress: validatorBeta, Moniker: "Beta"},
	}, nil).Once()

	svc := newTestStakeService(chain, staticAccounts{})
	stakes, err := svc.FetchStakes(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, stakes, 3)

	assert.Equal(t, []string{"Beta", "alpha", "likevalope...l9ym3s"}, stakeNames(stakes))
	assert.Equal(t, "9nanoekil", stakes[1].Reward.String())
	assert.Equal(t, "100nanoekil", stakes[1].Delegation.Balance.String())

	// known validators come from the cache, only the unknown one is looked up again
	chain.On("GetValidators", mock.Anything, []string{validatorUnnamed}).Return(map[string]entity.Validator{}, nil).Once()
	_, err = svc.FetchStakes(context.Background(), testAddress)
	require.NoError(t, err)
	chain.AssertExpectations(t)
}

func TestFetchStakes_NoDelegations(t *testing.T) {
	chain := new(MockChainClient)
	chain.On("GetDelegations", mock.Anything, testAddress).Return(nil, nil)

	svc := newTestStakeService(chain, staticAccounts{})
	stakes, err := svc.FetchStakes(context.Background(), testAddress)
	require.NoError(t, err)
	assert.NotNil(t, stakes)
	assert.Empty(t, stakes)
	chain.AssertNotCalled(t, "GetDelegationRewards", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetchStakes_ValidatorLookupFailure(t *testing.T) {
	chain := new(MockChainClient)
	chain.On("GetDelegations", mock.Anything, testAddress).Return(testDelegations()[:1], nil)
	chain.On("GetDelegationRewards", mock.Anything, testAddress, []string{validatorBeta}).Return([]entity.Coin{coin(1)}, nil)
	chain.On("GetValidators", mock.Anything, []string{validatorBeta}).Return(nil, errors.New("lcd down"))

	svc := newTestStakeService(chain, staticAccounts{})
	stakes, err := svc.FetchStakes(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.TruncateAddress(validatorBeta)}, stakeNames(stakes))
}

func TestFetchStakes_RewardsFailure(t *testing.T) {
	chain := new(MockChainClient)
	chain.On("GetDelegations", mock.Anything, testAddress).Return(testDelegations(), nil)
	chain.On("GetDelegationRewards", mock.Anything, testAddress, testValidatorAddrs).Return(nil, errors.New("lcd down"))

	svc := newTestStakeService(chain, staticAccounts{})
	_, err := svc.FetchStakes(context.Background(), testAddress)
	assert.ErrorContains(t, err, "lcd down")
}

func TestFetchStakes_ConnectedAccount(t *testing.T) {
	chain := new(MockChainClient)
	chain.On("GetDelegations", mock.Anything, testAddress).Return(nil, nil)

	svc := newTestStakeService(chain, staticAccounts{account: entity.Account{Address: testAddress}, connected: true})
	_, err := svc.FetchStakes(context.Background(), "")
	require.NoError(t, err)

	svc = newTestStakeService(chain, staticAccounts{})
	_, err = svc.FetchStakes(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrWalletNotConnected)
}

func TestSortStakes_CollatesNames(t *testing.T) {
	svc := newTestStakeService(new(MockChainClient), staticAccounts{})
	stakes := []entity.Stake{{Name: "beta"}, {Name: "Zeta"}, {Name: "Alpha"}, {Name: "éclair"}}

	sorted := svc.SortStakes(stakes, entity.StakeSortByName, entity.SortAscending)
	assert.Equal(t, []string{"Alpha", "beta", "éclair", "Zeta"}, stakeNames(sorted))

	sorted = svc.SortStakes(stakes, entity.StakeSortByName, entity.SortDescending)
	assert.Equal(t, []string{"Zeta", "éclair", "beta", "Alpha"}, stakeNames(sorted))
}

func TestStakeList(t *testing.T) {
	chain := new(MockChainClient)
	chain.On("GetDelegations", mock.Anything, testAddress).Return(testDelegations(), nil)
	chain.On("GetDelegationRewards", mock.Anything, testAddress, testValidatorAddrs).Return([]entity.Coin{coin(2), coin(9), coin(5)}, nil)
	chain.On("GetValidators", mock.Anything, testValidatorAddrs).Return(map[string]entity.Validator{
		validatorAlpha:   {Moniker: "alpha"},
		validatorBeta:    {Moniker: "Beta"},
		validatorUnnamed: {Moniker: "gamma"},
	}, nil)

	list := NewStakeList(newTestStakeService(chain, staticAccounts{}))
	column, order := list.SortKey()
	assert.Equal(t, entity.StakeSortByName, column)
	assert.Equal(t, entity.SortAscending, order)

	// sorting before anything is loaded only remembers the key
	assert.Equal(t, "initial", entity.RequestStatus(list.Sort(entity.StakeSortByStaked, entity.SortDescending)))
	list.Sort(entity.StakeSortByName, entity.SortAscending)

	state := list.Fetch(context.Background(), testAddress)
	loaded, ok := state.(entity.Loaded[[]entity.Stake])
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "Beta", "gamma"}, stakeNames(loaded.Value))

	state = list.Sort(entity.StakeSortByRewards, entity.SortDescending)
	loaded, ok = state.(entity.Loaded[[]entity.Stake])
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "gamma", "Beta"}, stakeNames(loaded.Value))

	state = list.Sort(entity.StakeSortByStaked, entity.SortAscending)
	loaded = state.(entity.Loaded[[]entity.Stake])
	assert.Equal(t, []string{"gamma", "Beta", "alpha"}, stakeNames(loaded.Value))

	chain.AssertNumberOfCalls(t, "GetDelegations", 1)
}

func TestStakeList_Failure(t *testing.T) {
	chain := new(MockChainClient)
	list := NewStakeList(newTestStakeService(chain, staticAccounts{}))

	state := list.Fetch(context.Background(), "")
	failed, ok := state.(entity.Failed[[]entity.Stake])
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, entity.ErrWalletNotConnected)

	// re-sorting a failed list keeps the failure
	assert.Equal(t, "error", entity.RequestStatus(list.Sort(entity.StakeSortByRewards, entity.SortAscending)))
}
