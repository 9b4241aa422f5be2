package api

import (
	"errors"
	"github.com/Koushikachar/phone-case-E-commerce/internal/api/messages"
	"github.com/Koushikachar/phone-case-E-commerce/service"
	"github.com/go-openapi/runtime"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"net/http"
)

// Webhook outcomes that are not produced by the order service.
const (
	outcomeInvalidSignature  = "invalid_signature"
	outcomeInvalidPayload    = "invalid_payload"
	outcomeOrderNotFound     = "order_not_found"
	outcomePersistenceFailed = "persistence_failed"
	outcomeTooLarge          = "too_large"
	outcomeUnreadable        = "unreadable"
	outcomeInternalError     = "internal_error"
)

type failure struct {
	status    int
	outcome   string
	message   string
	retryable bool
}

// classify maps a pipeline error onto the acknowledgment sent to the provider.
// Only sentinel text reaches the response body.
func classify(err error) failure {
	switch {
	case service.IsSignatureError(err):
		message := "webhook signature verification failed"
		if errors.Is(err, service.ErrMissingSignature) {
			message = service.ErrMissingSignature.Error()
		}
		return failure{http.StatusBadRequest, outcomeInvalidSignature, message, false}
	case service.IsValidationError(err):
		if errors.Is(err, service.ErrMalformedPayload) {
			return failure{http.StatusBadRequest, outcomeInvalidPayload, service.ErrMalformedPayload.Error(), false}
		}
		return failure{http.StatusBadRequest, outcomeInvalidPayload, err.Error(), false}
	case errors.Is(err, service.ErrOrderNotFound):
		return failure{http.StatusNotFound, outcomeOrderNotFound, service.ErrOrderNotFound.Error(), false}
	case service.IsRetryable(err):
		return failure{http.StatusInternalServerError, outcomePersistenceFailed, service.ErrPersistence.Error(), true}
	default:
		return failure{http.StatusInternalServerError, outcomeInternalError, "internal error", true}
	}
}

func (a *API) fail(w http.ResponseWriter, f failure) {
	a.encode(w, f.status, &messages.Response{
		OK:        false,
		Error:     f.message,
		Retryable: lo.ToPtr(f.retryable),
	})
}

func (a *API) encode(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", runtime.JSONMime)
	w.WriteHeader(status)

	if err := runtime.JSONProducer().Produce(w, body); err != nil {
		a.logger.Error("failed to encode response", zap.Error(err))
	}
}
