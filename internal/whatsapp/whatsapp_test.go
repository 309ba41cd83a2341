package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jafarshop/storefront/pkg/errors"
)

func TestNormalizeNumber(t *testing.T) {
	t.Run("strips formatting characters", func(t *testing.T) {
		got, err := NormalizeNumber("+62 (812) 3456-78.90")
		require.NoError(t, err)
		assert.Equal(t, "6281234567890", got)
	})

	t.Run("passes a clean number through", func(t *testing.T) {
		got, err := NormalizeNumber("6281234567890")
		require.NoError(t, err)
		assert.Equal(t, "6281234567890", got)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := NormalizeNumber("   ")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects letters", func(t *testing.T) {
		_, err := NormalizeNumber("62abc")
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestOrderLink(t *testing.T) {
	link := OrderLink("628111", "Halo, saya mau pesan: *TOTAL: Rp 120.000*")

	assert.True(t, len(link) > 0)
	assert.Contains(t, link, "https://wa.me/628111?text=")
	// WhatsApp expects %20 for spaces in the text parameter
	assert.Contains(t, link, "Halo%2C%20saya%20mau%20pesan")
	assert.NotContains(t, link, "+")
}
