// Package checkout turns a priced cart into the outbound order message.
// There is no payment processing: the order leaves the system as a single
// WhatsApp message to the store's contact number.
package checkout

import (
	"strconv"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/whatsapp"
	"github.com/jafarshop/storefront/pkg/errors"
	"github.com/jafarshop/storefront/pkg/money"
)

// PaymentMethods the store accepts, in display order
var PaymentMethods = []string{
	"COD",
	"QRIS",
	"Transfer BRI",
	"Transfer SeaBank",
	"ShopeePay",
	"DANA",
}

// IsValidPaymentMethod checks membership in PaymentMethods. Empty is
// allowed: the payment method is optional on the composed message.
func IsValidPaymentMethod(method string) bool {
	if method == "" {
		return true
	}
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Line is one resolved order line: the product as it exists right now,
// the selected variant id (may no longer resolve) and the quantity.
type Line struct {
	Product   domain.Product
	VariantID string
	Quantity  int
}

// Order is the composed handoff payload
type Order struct {
	Message string
	Link    string
	Total   float64
}

// Compose builds the itemized order message and its wa.me link. It
// validates its inputs before touching anything else: a blank customer
// name or an unset contact channel is rejected with no side effects.
func Compose(customerName, waNumber string, lines []Line, notes, paymentMethod string) (Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return Order{}, &errors.ValidationError{Field: "customerName", Message: "customer name is required"}
	}

	number, err := whatsapp.NormalizeNumber(waNumber)
	if err != nil {
		return Order{}, err
	}

	if !IsValidPaymentMethod(paymentMethod) {
		return Order{}, &errors.ValidationError{Field: "paymentMethod", Message: "unknown payment method: " + paymentMethod}
	}

	total := 0.0
	for _, line := range lines {
		total += domain.LineTotal(line.Product, line.VariantID, line.Quantity)
	}

	var b strings.Builder
	b.WriteString("Halo, saya mau pesan:\n\n")
	b.WriteString("*Nama Pemesan:* " + strings.TrimSpace(customerName) + "\n")
	if paymentMethod != "" {
		b.WriteString("*Metode Pembayaran:* " + paymentMethod + "\n")
	}
	b.WriteString("\n*DAFTAR PESANAN:*\n")

	for _, line := range lines {
		b.WriteString("----------------------------------\n")
		b.WriteString("*" + line.Product.Name + "*\n")
		if variant, ok := line.Product.Variant(line.VariantID); ok {
			b.WriteString("Varian: " + variant.Name + "\n")
		}
		b.WriteString("Jumlah: " + strconv.Itoa(line.Quantity) + "\n")
		imageURL := line.Product.WhatsAppImageURL
		if imageURL == "" {
			imageURL = line.Product.ImageURL
		}
		b.WriteString("Link Gambar: " + imageURL + "\n")
	}

	b.WriteString("----------------------------------\n\n")
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		b.WriteString("*Catatan:* " + trimmed + "\n\n")
	}
	b.WriteString("*TOTAL: " + money.Format(total) + "*")

	message := b.String()
	return Order{
		Message: message,
		Link:    whatsapp.OrderLink(number, message),
		Total:   total,
	}, nil
}
