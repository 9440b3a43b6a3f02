package restapi

import (
	"errors"
	"net/http"

	"likedao_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidAddress), errors.Is(err, entity.ErrUnsupportedWallet):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrWalletNotConnected):
		return http.StatusConflict
	case errors.Is(err, entity.ErrAggregationFailed), errors.Is(err, entity.ErrConnectionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{Error: err.Error()})
}
