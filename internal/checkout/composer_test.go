package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/domain"
	pkgerrors "github.com/jafarshop/storefront/pkg/errors"
)

func orderLines() []Line {
	return []Line{
		{
			Product: domain.Product{
				ID:    "p1",
				Name:  "T-Shirt Keren",
				Price: 120000,
				Variants: []domain.Variant{
					{ID: "l", Name: "L", PriceModifier: 5000},
				},
				ImageURL: "https://img.example/tshirt.jpg",
			},
			VariantID: "l",
			Quantity:  2,
		},
		{
			Product: domain.Product{
				ID:               "p2",
				Name:             "Topi Gaul",
				Price:            85000,
				ImageURL:         "https://img.example/topi.jpg",
				WhatsAppImageURL: "https://wa-img.example/topi.jpg",
			},
			Quantity: 1,
		},
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	for _, m := range PaymentMethods {
		assert.True(t, IsValidPaymentMethod(m), m)
	}
	assert.True(t, IsValidPaymentMethod(""))
	assert.False(t, IsValidPaymentMethod("Cek"))
}

func TestCompose(t *testing.T) {
	t.Run("rejects a blank customer name", func(t *testing.T) {
		_, err := Compose("   ", "628111", orderLines(), "", "")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects an unset contact channel", func(t *testing.T) {
		_, err := Compose("Budi", "", orderLines(), "", "")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects an unknown payment method", func(t *testing.T) {
		_, err := Compose("Budi", "628111", orderLines(), "", "Cek")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("totals include variant modifiers", func(t *testing.T) {
		order, err := Compose("Budi", "628111", orderLines(), "", "")
		require.NoError(t, err)
		// 2 x 125000 + 1 x 85000
		assert.Equal(t, 335000.0, order.Total)
		assert.True(t, strings.HasSuffix(order.Message, "*TOTAL: Rp 335.000*"))
	})

	t.Run("message carries every order detail", func(t *testing.T) {
		order, err := Compose("Budi", "628111", orderLines(), "Kirim sore ya", "QRIS")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(order.Message, "Halo, saya mau pesan:\n\n"))
		assert.Contains(t, order.Message, "*Nama Pemesan:* Budi\n")
		assert.Contains(t, order.Message, "*Metode Pembayaran:* QRIS\n")
		assert.Contains(t, order.Message, "*DAFTAR PESANAN:*\n")
		assert.Contains(t, order.Message, "*T-Shirt Keren*\nVarian: L\nJumlah: 2\n")
		assert.Contains(t, order.Message, "*Topi Gaul*\nJumlah: 1\n")
		assert.Contains(t, order.Message, "*Catatan:* Kirim sore ya\n")
	})

	t.Run("omits the optional sections when empty", func(t *testing.T) {
		order, err := Compose("Budi", "628111", orderLines(), "  ", "")
		require.NoError(t, err)
		assert.NotContains(t, order.Message, "Metode Pembayaran")
		assert.NotContains(t, order.Message, "Catatan")
	})

	t.Run("prefers the dedicated messaging image", func(t *testing.T) {
		order, err := Compose("Budi", "628111", orderLines(), "", "")
		require.NoError(t, err)
		assert.Contains(t, order.Message, "Link Gambar: https://wa-img.example/topi.jpg\n")
		assert.Contains(t, order.Message, "Link Gambar: https://img.example/tshirt.jpg\n")
	})

	t.Run("skips the variant line when the id no longer resolves", func(t *testing.T) {
		lines := orderLines()
		lines[0].VariantID = "ghost"
		order, err := Compose("Budi", "628111", lines, "", "")
		require.NoError(t, err)
		assert.NotContains(t, order.Message, "Varian:")
		// an unknown variant prices at the base
		assert.Equal(t, 325000.0, order.Total)
	})

	t.Run("normalizes the contact number into the link", func(t *testing.T) {
		order, err := Compose("Budi", "+62 811-1", orderLines(), "", "")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(order.Link, "https://wa.me/628111?text="))
		// spaces travel as %20, never +
		assert.NotContains(t, order.Link, "+")
		assert.Contains(t, order.Link, "%20")
	})

	t.Run("an empty cart still composes, totalling zero", func(t *testing.T) {
		order, err := Compose("Budi", "628111", nil, "", "")
		require.NoError(t, err)
		assert.Equal(t, 0.0, order.Total)
		assert.Contains(t, order.Message, "*TOTAL: Rp 0*")
	})
}
