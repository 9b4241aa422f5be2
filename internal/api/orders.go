package api

import (
	"errors"
	"github.com/Koushikachar/phone-case-E-commerce/internal/api/messages"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"github.com/Koushikachar/phone-case-E-commerce/service"
	"github.com/go-openapi/strfmt"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"net/http"
)

func (a *API) getPaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	userID := r.URL.Query().Get("userId")

	if userID == "" {
		a.fail(w, failure{status: http.StatusBadRequest, message: "missing userId"})
		return
	}

	status, err := a.orders.GetPaymentStatus(r.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			a.fail(w, failure{status: http.StatusNotFound, message: service.ErrOrderNotFound.Error()})
			return
		}

		a.logger.Error("failed to get payment status", zap.String("order_id", orderID), zap.Error(err))
		a.fail(w, failure{status: http.StatusInternalServerError, message: "internal error", retryable: true})
		return
	}

	a.encode(w, http.StatusOK, &messages.PaymentStatusResponse{
		OK:              true,
		OrderID:         status.OrderID,
		IsPaid:          status.IsPaid,
		CreatedAt:       strfmt.DateTime(status.CreatedAt),
		ShippingAddress: toMessageAddress(status.ShippingAddress),
		BillingAddress:  toMessageAddress(status.BillingAddress),
	})
}

func toMessageAddress(address *db.Address) *messages.Address {
	if address == nil {
		return nil
	}

	return &messages.Address{
		Name:        address.Name,
		Street:      address.Street,
		City:        address.City,
		State:       address.State,
		PostalCode:  address.PostalCode,
		Country:     address.Country,
		PhoneNumber: address.PhoneNumber,
	}
}
