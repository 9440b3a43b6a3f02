package restapi

import (
	"net/http"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/app/service"
	"likedao_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves portfolio requests.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	walletQuery      *service.PortfolioQuery
	format           coinFormatter
}

// NewPortfolioHandler creates a new PortfolioHandler. walletQuery holds the
// portfolio of the connected wallet.
func NewPortfolioHandler(ps port.PortfolioService, walletQuery *service.PortfolioQuery, currency entity.Currency) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		walletQuery:      walletQuery,
		format:           coinFormatter{currency: currency},
	}
}

// GetAddressPortfolioHandler aggregates the portfolio of the address in the path.
func (h *PortfolioHandler) GetAddressPortfolioHandler(c *gin.Context) {
	portfolio, err := h.portfolioService.FetchPortfolio(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.format.portfolio(portfolio))
}

// GetWalletPortfolioHandler returns the request state of the connected wallet's
// portfolio together with the last loaded value.
func (h *PortfolioHandler) GetWalletPortfolioHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.walletPortfolioResponse(h.walletQuery.State()))
}

// RefreshWalletPortfolioHandler fetches the connected wallet's portfolio again.
func (h *PortfolioHandler) RefreshWalletPortfolioHandler(c *gin.Context) {
	state := h.walletQuery.Fetch(c.Request.Context(), "")
	resp := h.walletPortfolioResponse(state)
	status := http.StatusOK
	if failed, ok := state.(entity.Failed[*entity.Portfolio]); ok {
		status = statusFor(failed.Err)
	}
	c.JSON(status, resp)
}

// WalletPortfolioResponse is the state of the connected wallet's portfolio.
type WalletPortfolioResponse struct {
	RequestStateDTO[PortfolioDTO]
	LastLoaded *PortfolioDTO `json:"lastLoaded,omitempty"`
}

func (h *PortfolioHandler) walletPortfolioResponse(state entity.RequestState[*entity.Portfolio]) WalletPortfolioResponse {
	resp := WalletPortfolioResponse{RequestStateDTO: requestStateDTO(state, h.format.portfolio)}
	if last, ok := h.walletQuery.LastLoaded(); ok {
		dto := h.format.portfolio(last)
		resp.LastLoaded = &dto
	}
	return resp
}
