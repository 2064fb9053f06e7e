package storefront

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	models "shopfront/model"
)

// DefaultWhatsAppNumber receives order summaries.
const DefaultWhatsAppNumber = "9182345999"

// Launcher opens the checkout link, e.g. in a browser. The storefront does
// not wait for or expect any answer beyond the error.
type Launcher interface {
	Open(ctx context.Context, link string) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, link string) error

func (f LauncherFunc) Open(ctx context.Context, link string) error { return f(ctx, link) }

// Checkout turns the cart into an order summary and hands its WhatsApp link
// to the Launcher. The cart is left as is.
func (s *Storefront) Checkout(ctx context.Context) (models.Order, error) {
	cart := s.Cart()
	if len(cart) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order := buildOrder(cart, s.opts.WhatsAppNumber)
	if s.opts.Launcher != nil {
		if err := s.opts.Launcher.Open(ctx, order.Link); err != nil {
			return order, errors.Wrap(err, "open checkout link")
		}
	}
	return order, nil
}

func buildOrder(cart []models.CartLine, number string) models.Order {
	lines := make([]models.OrderLine, 0, len(cart))
	text := make([]string, 0, len(cart)+2)
	text = append(text, "Order Summary:")
	for _, l := range cart {
		sub := lineSubtotal(l).StringFixed(2)
		lines = append(lines, models.OrderLine{
			ProductID: l.Product.ID,
			Title:     l.Product.Title,
			Quantity:  l.Quantity,
			Subtotal:  sub,
		})
		text = append(text, fmt.Sprintf("%s (x%d) - ₹%s", l.Product.Title, l.Quantity, sub))
	}
	total := cartTotal(cart).StringFixed(2)
	text = append(text, "Total: ₹"+total)

	msg := strings.Join(text, "\n")
	return models.Order{
		Lines:   lines,
		Total:   total,
		Message: msg,
		Link:    whatsAppLink(number, msg),
	}
}

func lineSubtotal(l models.CartLine) decimal.Decimal {
	return decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func cartTotal(cart []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range cart {
		total = total.Add(lineSubtotal(l))
	}
	return total.Round(2)
}

// whatsAppLink percent-encodes msg with spaces as %20, which wa.me expects.
func whatsAppLink(number, msg string) string {
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
