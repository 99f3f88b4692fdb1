package api

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// publicErrors бизнес-ошибки, которые показываются клиенту, и их http статусы.
var publicErrors = []struct {
	err    error
	status int
}{
	{domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{domain.ErrInvalidAddress, http.StatusUnprocessableEntity},
	{domain.ErrInvalidWinner, http.StatusUnprocessableEntity},
	{domain.ErrInvalidState, http.StatusConflict},
	{domain.ErrDuplicateKey, http.StatusConflict},
	{domain.ErrNotParty, http.StatusForbidden},
	{domain.ErrUnauthorized, http.StatusForbidden},
	{domain.ErrAccountSuspended, http.StatusForbidden},
	{domain.ErrUnknownAccount, http.StatusNotFound},
	{domain.ErrUnknownTransaction, http.StatusNotFound},
	{domain.ErrUnknownDeal, http.StatusNotFound},
	{domain.ErrGatewayUnavailable, http.StatusBadGateway},
}

// abortWithServiceError переводит ошибку сервисного слоя в ответ. Исходная ошибка сохраняется в контексте
// как приватная и попадает в лог.
func abortWithServiceError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypePrivate)

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": valErr.Error(),
			"field": valErr.Field,
		})
		return
	}
	for _, pe := range publicErrors {
		if errors.Is(err, pe.err) {
			c.AbortWithStatusJSON(pe.status, gin.H{"error": pe.err.Error()})
			return
		}
	}
	c.AbortWithStatus(http.StatusInternalServerError)
}

// abortWithBindError отвечает на ошибку разбора тела запроса.
func abortWithBindError(c *gin.Context, err error) {
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		fields := make(map[string]string, len(valErrs))
		for _, fe := range valErrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	_ = c.AbortWithError(http.StatusBadRequest, err).SetType(gin.ErrorTypeBind)
}
