package lcd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/infrastructure/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	delegator  = "like1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukdv7d99"
	valoper    = "likevaloper1zyvp7f3dxsa5yj2s2a0x2mrn02qc3rukmrgn4k"
	valoperTwo = "likevaloper1yg5nqde7g4x9xknpdphhvlvy3wffng986t7j7y"
	denom      = "nanoekil"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	jc := httpclient.NewJSONClient(httpclient.Options{Name: "lcd", BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	return NewClient(jc, Config{Denom: denom, ValoperPrefix: "likevaloper"}, zap.NewNop())
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestGetAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/auth/v1beta1/accounts/"+delegator, respond(`{"account":{
		"@type":"/cosmos.auth.v1beta1.BaseAccount","address":"`+delegator+`","account_number":"12","sequence":"3"}}`))
	mux.HandleFunc("/cosmos/auth/v1beta1/accounts/like1vesting", respond(`{"account":{
		"@type":"/cosmos.vesting.v1beta1.DelayedVestingAccount",
		"base_vesting_account":{"base_account":{"address":"like1vesting","account_number":"7","sequence":"0"}}}}`))
	mux.HandleFunc("/cosmos/auth/v1beta1/accounts/like1missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":5,"message":"account like1missing not found"}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	acc, err := c.GetAccount(ctx, delegator)
	require.NoError(t, err)
	assert.Equal(t, delegator, acc.Address)
	assert.Equal(t, uint64(12), acc.AccountNumber)
	assert.Equal(t, uint64(3), acc.Sequence)

	acc, err = c.GetAccount(ctx, "like1vesting")
	require.NoError(t, err)
	assert.Equal(t, "like1vesting", acc.Address)
	assert.Equal(t, uint64(7), acc.AccountNumber)

	_, err = c.GetAccount(ctx, "like1missing")
	assert.True(t, errors.Is(err, entity.ErrAccountNotFound))
}

func TestGetBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/bank/v1beta1/balances/"+delegator+"/by_denom", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, denom, r.URL.Query().Get("denom"))
		respond(`{"balance":{"denom":"nanoekil","amount":"300"}}`)(w, r)
	})
	c := newTestClient(t, mux)

	balance, err := c.GetBalance(context.Background(), delegator)
	require.NoError(t, err)
	assert.Equal(t, "300nanoekil", balance.String())
}

func TestGetDelegationsAndStakedBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/delegations/"+delegator, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("pagination.limit"))
		if r.URL.Query().Get("pagination.key") == "" {
			respond(`{"delegation_responses":[
				{"delegation":{"delegator_address":"` + delegator + `","validator_address":"` + valoper + `","shares":"100.000000000000000000"},
				 "balance":{"denom":"nanoekil","amount":"100"}}],
				"pagination":{"next_key":"page2"}}`)(w, r)
			return
		}
		assert.Equal(t, "page2", r.URL.Query().Get("pagination.key"))
		respond(`{"delegation_responses":[
			{"delegation":{"delegator_address":"` + delegator + `","validator_address":"` + valoperTwo + `","shares":"20"},
			 "balance":{"denom":"nanoekil","amount":"20"}}],
			"pagination":{"next_key":null}}`)(w, r)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	delegations, err := c.GetDelegations(ctx, delegator)
	require.NoError(t, err)
	require.Len(t, delegations, 2)
	assert.Equal(t, valoper, delegations[0].ValidatorAddress)
	assert.Equal(t, "100", delegations[0].Shares.String())
	assert.Equal(t, valoperTwo, delegations[1].ValidatorAddress)

	staked, err := c.GetStakedBalance(ctx, delegator)
	require.NoError(t, err)
	assert.Equal(t, "120nanoekil", staked.String())
}

func TestGetUnstakingBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/delegators/"+delegator+"/unbonding_delegations", respond(`{
		"unbonding_responses":[
			{"validator_address":"`+valoper+`","entries":[{"balance":"10"},{"balance":"15"}]},
			{"validator_address":"`+valoperTwo+`","entries":[{"balance":"5"}]}],
		"pagination":{"next_key":null}}`))
	c := newTestClient(t, mux)

	unstaking, err := c.GetUnstakingBalance(context.Background(), delegator)
	require.NoError(t, err)
	assert.Equal(t, "30nanoekil", unstaking.String())
}

func TestGetCommission(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/distribution/v1beta1/validators/"+valoper+"/commission", respond(`{
		"commission":{"commission":[{"denom":"uatom","amount":"1.5"},{"denom":"nanoekil","amount":"12.345"}]}}`))
	mux.HandleFunc("/cosmos/distribution/v1beta1/validators/"+valoperTwo+"/commission", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":5,"message":"validator does not exist"}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	commission, err := c.GetCommission(ctx, delegator)
	require.NoError(t, err)
	assert.Equal(t, "12.345nanoekil", commission.String())

	commission, err = c.GetCommission(ctx, "like1yg5nqde7g4x9xknpdphhvlvy3wffng98vygvwh")
	require.NoError(t, err)
	assert.True(t, commission.IsZero())
}

func TestRewards(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/distribution/v1beta1/delegators/"+delegator+"/rewards", respond(`{
		"rewards":[
			{"validator_address":"`+valoper+`","reward":[{"denom":"nanoekil","amount":"7.5"}]},
			{"validator_address":"likevaloper1other","reward":[{"denom":"nanoekil","amount":"1"}]}],
		"total":[{"denom":"nanoekil","amount":"8.5"}]}`))
	c := newTestClient(t, mux)
	ctx := context.Background()

	total, err := c.GetRewards(ctx, delegator)
	require.NoError(t, err)
	assert.Equal(t, "8.5nanoekil", total.String())

	rewards, err := c.GetDelegationRewards(ctx, delegator, []string{valoperTwo, valoper})
	require.NoError(t, err)
	require.Len(t, rewards, 2)
	assert.True(t, rewards[0].IsZero())
	assert.Equal(t, denom, rewards[0].Denom)
	assert.Equal(t, "7.5nanoekil", rewards[1].String())
}

func TestGetValidators(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/validators", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("pagination.key") == "" {
			respond(`{"validators":[
				{"operator_address":"likevaloper1unrelated","description":{"moniker":"Other"}},
				{"operator_address":"` + valoper + `","jailed":true,"description":{"moniker":"Alpha"},
				 "commission":{"commission_rates":{"rate":"0.050000000000000000"}}}],
				"pagination":{"next_key":"next"}}`)(w, r)
			return
		}
		respond(`{"validators":[{"operator_address":"` + valoperTwo + `","description":{"moniker":"Beta"}}],
			"pagination":{"next_key":"more"}}`)(w, r)
	})
	c := newTestClient(t, mux)

	validators, err := c.GetValidators(context.Background(), []string{valoper, valoperTwo})
	require.NoError(t, err)
	require.Len(t, validators, 2)
	assert.Equal(t, "Alpha", validators[valoper].Moniker)
	assert.True(t, validators[valoper].Jailed)
	assert.Equal(t, "0.05", validators[valoper].CommissionRate.String())
	assert.Equal(t, "Beta", validators[valoperTwo].Moniker)
	// stops paging once every wanted validator is found
	assert.Equal(t, int32(2), calls.Load())
}

func TestServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/bank/v1beta1/balances/"+delegator+"/by_denom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestClient(t, mux)

	_, err := c.GetBalance(context.Background(), delegator)
	assert.Error(t, err)
}
