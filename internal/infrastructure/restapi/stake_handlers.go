package restapi

import (
	"net/http"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/app/service"
	"likedao_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// SortRequest selects the sort of a stake table.
type SortRequest struct {
	Column string `json:"column" form:"sort"`
	Order  string `json:"order" form:"order"`
}

// StakeHandler serves stake tables.
type StakeHandler struct {
	stakeService port.StakeService
	walletList   *service.StakeList
	format       coinFormatter
}

// NewStakeHandler creates a new StakeHandler. walletList holds the stakes of the
// connected wallet.
func NewStakeHandler(ss port.StakeService, walletList *service.StakeList, currency entity.Currency) *StakeHandler {
	return &StakeHandler{stakeService: ss, walletList: walletList, format: coinFormatter{currency: currency}}
}

// GetAddressStakesHandler lists the stakes of the address in the path, sorted by
// the sort and order query parameters.
func (h *StakeHandler) GetAddressStakesHandler(c *gin.Context) {
	var req SortRequest
	_ = c.ShouldBindQuery(&req)
	column, order, err := entity.ParseStakeSort(req.Column, req.Order)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	stakes, err := h.stakeService.FetchStakes(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.format.stakes(h.stakeService.SortStakes(stakes, column, order)))
}

// WalletStakesResponse is the state of the connected wallet's stake table.
type WalletStakesResponse struct {
	RequestStateDTO[[]StakeDTO]
	Sort  entity.StakeSortColumn `json:"sort"`
	Order entity.SortOrder       `json:"order"`
}

// GetWalletStakesHandler returns the connected wallet's stake table.
func (h *StakeHandler) GetWalletStakesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.walletStakesResponse(h.walletList.State()))
}

// RefreshWalletStakesHandler fetches the connected wallet's stakes again.
func (h *StakeHandler) RefreshWalletStakesHandler(c *gin.Context) {
	state := h.walletList.Fetch(c.Request.Context(), "")
	status := http.StatusOK
	if failed, ok := state.(entity.Failed[[]entity.Stake]); ok {
		status = statusFor(failed.Err)
	}
	c.JSON(status, h.walletStakesResponse(state))
}

// SortWalletStakesHandler re-sorts the loaded stake table without refetching.
func (h *StakeHandler) SortWalletStakesHandler(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	column, order, err := entity.ParseStakeSort(req.Column, req.Order)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.walletStakesResponse(h.walletList.Sort(column, order)))
}

func (h *StakeHandler) walletStakesResponse(state entity.RequestState[[]entity.Stake]) WalletStakesResponse {
	column, order := h.walletList.SortKey()
	return WalletStakesResponse{
		RequestStateDTO: requestStateDTO(state, h.format.stakes),
		Sort:            column,
		Order:           order,
	}
}
