package rest

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fairlaunch/curve-registry/internal/api/shared/errors"
	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, errors.NewValidationError(message))
}

// respondInternalError responds with an internal server error
func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err)
	c.JSON(http.StatusInternalServerError, errors.NewInternalError(message))
}

// respondOperationError maps a registry operation error to an HTTP response
func respondOperationError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, domain.ErrSaleNotFound):
		respondNotFound(c, "Sale not found")
	case stderrors.Is(err, domain.ErrInvalidAddress),
		stderrors.Is(err, domain.ErrInsufficientFee),
		stderrors.Is(err, domain.ErrQuantityOutOfRange),
		stderrors.Is(err, domain.ErrInsufficientPayment),
		stderrors.Is(err, domain.ErrInsufficientFunds),
		stderrors.Is(err, domain.ErrAmountOverflow):
		respondValidationError(c, err.Error())
	case stderrors.Is(err, domain.ErrSaleClosed),
		stderrors.Is(err, domain.ErrSaleOpen),
		stderrors.Is(err, domain.ErrSettlementInProgress):
		c.JSON(http.StatusConflict, errors.NewConflictError(err.Error()))
	case stderrors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, errors.NewForbiddenError("Caller is not the registry owner"))
	case stderrors.Is(err, domain.ErrPayoutFailed):
		logger.ErrorCtx(c.Request.Context(), err)
		c.JSON(http.StatusBadGateway, errors.NewPayoutError("Payout was rejected", err.Error()))
	default:
		respondInternalError(c, err, "Operation failed")
	}
}
