package restapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/app/service"
	"likedao_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// WalletController is the wallet state machine as seen by the API.
type WalletController interface {
	Snapshot() service.WalletState
	OpenConnectWalletModal()
	CloseConnectWalletModal()
	Connect(ctx context.Context, kind entity.WalletKind) error
	Disconnect(ctx context.Context)
	RefreshAccounts(ctx context.Context) error
}

// ConnectRequest selects the wallet to connect.
type ConnectRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// WalletHandler serves the wallet connection endpoints.
type WalletHandler struct {
	wallet         WalletController
	baseCtx        context.Context
	connectTimeout time.Duration
	logger         port.Logger
}

// NewWalletHandler creates a WalletHandler. Connect handshakes outlive their
// request and run under baseCtx, bounded by connectTimeout.
func NewWalletHandler(baseCtx context.Context, wallet WalletController, connectTimeout time.Duration, l port.Logger) *WalletHandler {
	return &WalletHandler{wallet: wallet, baseCtx: baseCtx, connectTimeout: connectTimeout, logger: l}
}

// GetStateHandler returns the current wallet state.
func (h *WalletHandler) GetStateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, walletStateDTO(h.wallet.Snapshot()))
}

// OpenModalHandler opens the wallet picker.
func (h *WalletHandler) OpenModalHandler(c *gin.Context) {
	h.wallet.OpenConnectWalletModal()
	c.JSON(http.StatusOK, walletStateDTO(h.wallet.Snapshot()))
}

// CloseModalHandler closes the wallet picker.
func (h *WalletHandler) CloseModalHandler(c *gin.Context) {
	h.wallet.CloseConnectWalletModal()
	c.JSON(http.StatusOK, walletStateDTO(h.wallet.Snapshot()))
}

// ConnectHandler starts the handshake of the requested wallet kind and returns
// at once. Progress is visible through the state endpoint and failures through
// the notification stream.
func (h *WalletHandler) ConnectHandler(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	kind := entity.WalletKind(req.Kind)
	if !kind.Valid() {
		abortWithError(c, fmt.Errorf("%w: %s", entity.ErrUnsupportedWallet, req.Kind))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(h.baseCtx, h.connectTimeout)
		defer cancel()
		if err := h.wallet.Connect(ctx, kind); err != nil {
			h.logger.Warn("Wallet connect request failed", "kind", kind, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, walletStateDTO(h.wallet.Snapshot()))
}

// DisconnectHandler tears down the connected wallet. It never fails.
func (h *WalletHandler) DisconnectHandler(c *gin.Context) {
	h.wallet.Disconnect(c.Request.Context())
	c.JSON(http.StatusOK, walletStateDTO(h.wallet.Snapshot()))
}

// RefreshAccountsHandler re-reads the connected account.
func (h *WalletHandler) RefreshAccountsHandler(c *gin.Context) {
	if err := h.wallet.RefreshAccounts(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, walletStateDTO(h.wallet.Snapshot()))
}

func walletStateDTO(s service.WalletState) WalletStateDTO {
	dto := WalletStateDTO{Status: s.Status()}
	switch v := s.(type) {
	case service.IdleWallet:
		dto.ModalOpen = v.ModalOpen
	case service.ConnectingWallet:
		dto.Kind = v.Kind
	case service.ConnectedWallet:
		dto.Kind = v.Kind
		if v.Provider != nil {
			dto.ChainID = v.Provider.ChainID()
		}
		dto.Account = &AccountDTO{Address: v.Account.Address, Algo: v.Account.Algo, PubKey: v.Account.PubKey}
	}
	return dto
}
