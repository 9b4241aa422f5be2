package email

import (
	"context"
	"fmt"
	"github.com/Koushikachar/phone-case-E-commerce/internal/client/resend"
	"github.com/Koushikachar/phone-case-E-commerce/internal/service"
)

// Sender is the part of the Resend client the dispatcher needs.
type Sender interface {
	SendEmail(ctx context.Context, req *resend.SendEmailRequest, idempotencyKey string) (*resend.SendEmailResponse, error)
}

var _ Sender = (*resend.Client)(nil)
var _ service.Notifier = (*Dispatcher)(nil)

type Dispatcher struct {
	sender   Sender
	renderer *Renderer
	from     string
	subject  string
}

func NewDispatcher(sender Sender, renderer *Renderer, from, subject string) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		renderer: renderer,
		from:     from,
		subject:  subject,
	}
}

func (d *Dispatcher) SendOrderConfirmation(ctx context.Context, confirmation service.OrderConfirmation) (string, error) {
	html, err := d.renderer.Render(NewOrderReceivedData(confirmation.OrderID, confirmation.OrderDate, confirmation.ShippingAddress))
	if err != nil {
		return "", err
	}

	resp, err := d.sender.SendEmail(ctx, &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{confirmation.To},
		Subject: d.subject,
		Html:    html,
		Tags:    []resend.Tag{{Name: "category", Value: "order_confirmation"}},
	}, fmt.Sprintf("order-confirmation/%s", confirmation.OrderID))
	if err != nil {
		return "", err
	}

	return resp.Id, nil
}
