// Package whatsapp composes customer notifications and builds wa.me hand-off
// links. Nothing here performs network I/O; the caller's device opens the
// link and the messaging app owns the actual send.
package whatsapp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/hemaperikala/is-it-ready/internal/models"
)

type Kind string

const (
	KindCreated  Kind = "created"
	KindReady    Kind = "ready"
	KindExtended Kind = "extended"
)

const (
	handoffBase     = "https://wa.me/"
	defaultShopName = "our shop"
)

const createdTemplate = `Hello %s! ✨

Your order has been received at %s.

📦 Items: %s
📅 Expected Delivery: %s
💰 Total: ₹%s
✅ Advance Paid: ₹%s

We'll notify you when your order is ready for pickup. Thank you! 🙏`

const readyTemplate = `Good news %s! 🎉

Your order is now ready for pickup at %s! ✅

📦 Items: %s
💰 Balance Due: ₹%s

Please collect it at your earliest convenience. We're open and waiting for you! 😊`

const extendedTemplate = `Hello %s,

We apologize for the delay. Your order at %s needs a little more time to ensure perfect quality. 🎯

📦 Items: %s
📅 New Delivery Date: %s

We appreciate your patience and promise it will be worth the wait! Thank you for understanding. 🙏`

// ComposeMessage renders the fixed template for a transition from the
// supplied order snapshot. The ready message's balance due comes from that
// snapshot, not from a fresh read.
func ComposeMessage(kind Kind, order models.Order, shopName string) string {
	if shopName == "" {
		shopName = defaultShopName
	}

	switch kind {
	case KindCreated:
		return fmt.Sprintf(createdTemplate,
			order.CustomerName, shopName, order.Items, order.DeliveryDate,
			formatAmount(order.Price), formatAmount(order.AdvancePayment))
	case KindReady:
		return fmt.Sprintf(readyTemplate,
			order.CustomerName, shopName, order.Items,
			formatAmount(order.BalanceDue()))
	case KindExtended:
		return fmt.Sprintf(extendedTemplate,
			order.CustomerName, shopName, order.Items, order.DeliveryDate)
	default:
		return ""
	}
}

// BuildHandoffURI strips the phone number down to digits and encodes the
// message into a wa.me deep link.
func BuildHandoffURI(phone, message string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", fmt.Errorf("phone number %q contains no digits", phone)
	}

	query := url.Values{}
	query.Set("text", message)
	return handoffBase + digits + "?" + query.Encode(), nil
}

// QRCode renders a hand-off link as a PNG so the owner can scan it with the
// phone that has WhatsApp installed.
func QRCode(uri string) ([]byte, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
