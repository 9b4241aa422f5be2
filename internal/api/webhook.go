package api

import (
	"errors"
	"github.com/Koushikachar/phone-case-E-commerce/internal/api/messages"
	"go.uber.org/zap"
	"io"
	"net/http"
)

func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxBodyBytes)

	// The signature covers the exact bytes, so the body is read raw before any parsing.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.logger.Warn("webhook body too large", zap.Int64("limit", maxErr.Limit))
			a.metrics.ObserveWebhookEvent("", outcomeTooLarge)
			a.fail(w, failure{http.StatusRequestEntityTooLarge, outcomeTooLarge, "request body too large", false})
			return
		}

		a.logger.Error("failed to read webhook body", zap.Error(err))
		a.metrics.ObserveWebhookEvent("", outcomeUnreadable)
		a.fail(w, failure{http.StatusBadRequest, outcomeUnreadable, "failed to read request body", true})
		return
	}

	result, err := a.orders.HandleWebhook(r.Context(), body, r.Header.Get(stripeSignatureHeader))

	var eventType string
	if result != nil {
		eventType = result.EventType
	}

	if err != nil {
		f := classify(err)
		a.metrics.ObserveWebhookEvent(eventType, f.outcome)
		a.fail(w, f)
		return
	}

	a.metrics.ObserveWebhookEvent(eventType, string(result.Outcome))
	a.encode(w, http.StatusOK, &messages.Response{OK: true, Outcome: string(result.Outcome)})
}
