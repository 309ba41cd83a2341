package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/store"
	pkgerrors "github.com/jafarshop/storefront/pkg/errors"
)

// fakeSettingsAdapter implements the settings half of store.Adapter over a
// map; the product operations are never reached from this package.
type fakeSettingsAdapter struct {
	settings     map[string][]byte
	failLoad     bool
	failLoadKeys map[string]bool
	failUpsert   bool

	// block makes every settings call hang until the context expires
	block bool
}

func newFakeSettingsAdapter() *fakeSettingsAdapter {
	return &fakeSettingsAdapter{settings: make(map[string][]byte)}
}

func (f *fakeSettingsAdapter) Name() string     { return "fake" }
func (f *fakeSettingsAdapter) AssignsIDs() bool { return false }

func (f *fakeSettingsAdapter) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeSettingsAdapter) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	return p, nil
}

func (f *fakeSettingsAdapter) UpdateProduct(ctx context.Context, id string, p domain.Product) error {
	return nil
}

func (f *fakeSettingsAdapter) DeleteProduct(ctx context.Context, id string) error { return nil }

func (f *fakeSettingsAdapter) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	return nil
}

func (f *fakeSettingsAdapter) LoadSetting(ctx context.Context, key string) ([]byte, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.failLoad || f.failLoadKeys[key] {
		return nil, fmt.Errorf("load refused")
	}
	data, ok := f.settings[key]
	if !ok {
		return nil, &pkgerrors.ErrNotFound{Resource: "setting", ID: key}
	}
	return data, nil
}

func (f *fakeSettingsAdapter) UpsertSetting(ctx context.Context, key string, value []byte) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.failUpsert {
		return fmt.Errorf("upsert refused")
	}
	f.settings[key] = value
	return nil
}

func newTestStore(adapter *fakeSettingsAdapter) *Store {
	return NewStore(adapter, time.Second, "6281234567890", zap.NewNop())
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestStoreLoad(t *testing.T) {
	t.Run("missing records fall back to defaults", func(t *testing.T) {
		s := newTestStore(newFakeSettingsAdapter())
		require.NoError(t, s.Load(context.Background()))

		assert.Equal(t, domain.DefaultThemeSettings(), s.Theme())
		assert.Equal(t, "6281234567890", s.WhatsAppNumber())
	})

	t.Run("stored values replace defaults", func(t *testing.T) {
		adapter := newFakeSettingsAdapter()
		saved := domain.DefaultThemeSettings()
		saved.StoreName = "Toko Lain"
		data, err := json.Marshal(saved)
		require.NoError(t, err)
		adapter.settings[store.SettingKeyTheme] = data

		number, err := json.Marshal("628999")
		require.NoError(t, err)
		adapter.settings[store.SettingKeyWhatsAppNumber] = number

		s := newTestStore(adapter)
		require.NoError(t, s.Load(context.Background()))
		assert.Equal(t, "Toko Lain", s.Theme().StoreName)
		assert.Equal(t, "628999", s.WhatsAppNumber())
	})

	t.Run("a failing theme load does not hide the stored number", func(t *testing.T) {
		adapter := newFakeSettingsAdapter()
		adapter.failLoadKeys = map[string]bool{store.SettingKeyTheme: true}
		number, err := json.Marshal("628999")
		require.NoError(t, err)
		adapter.settings[store.SettingKeyWhatsAppNumber] = number

		s := newTestStore(adapter)
		loadErr := s.Load(context.Background())
		var le *pkgerrors.LoadError
		require.ErrorAs(t, loadErr, &le)
		assert.Equal(t, domain.DefaultThemeSettings(), s.Theme())
		assert.Equal(t, "628999", s.WhatsAppNumber())
	})

	t.Run("a store failure keeps defaults and reports a load error", func(t *testing.T) {
		adapter := newFakeSettingsAdapter()
		adapter.failLoad = true

		s := newTestStore(adapter)
		err := s.Load(context.Background())
		require.Error(t, err)
		var loadErr *pkgerrors.LoadError
		assert.ErrorAs(t, err, &loadErr)
		assert.Equal(t, domain.DefaultThemeSettings(), s.Theme())
	})
}

func TestUpdateTheme(t *testing.T) {
	t.Run("patches only the named fields", func(t *testing.T) {
		adapter := newFakeSettingsAdapter()
		s := newTestStore(adapter)

		err := s.UpdateTheme(context.Background(), ThemePatch{StoreName: strptr("Toko Baru")})
		require.NoError(t, err)

		theme := s.Theme()
		assert.Equal(t, "Toko Baru", theme.StoreName)
		assert.Equal(t, domain.DefaultThemeSettings().StoreDescription, theme.StoreDescription)

		// the merged theme was persisted
		var saved domain.ThemeSettings
		require.NoError(t, json.Unmarshal(adapter.settings[store.SettingKeyTheme], &saved))
		assert.Equal(t, "Toko Baru", saved.StoreName)
	})

	t.Run("popup patch merges one level deep", func(t *testing.T) {
		s := newTestStore(newFakeSettingsAdapter())

		require.NoError(t, s.UpdateTheme(context.Background(), ThemePatch{
			PopupSettings: &PopupPatch{
				ImageURL:      strptr("https://img.example/promo.jpg"),
				LinkProductID: strptr("p1"),
			},
		}))

		// flipping Enabled alone keeps the image and linked product
		require.NoError(t, s.UpdateTheme(context.Background(), ThemePatch{
			PopupSettings: &PopupPatch{Enabled: boolptr(true)},
		}))

		popup := s.Theme().PopupSettings
		assert.True(t, popup.Enabled)
		assert.Equal(t, "https://img.example/promo.jpg", popup.ImageURL)
		assert.Equal(t, "p1", popup.LinkProductID)
	})

	t.Run("rollback restores the prior theme", func(t *testing.T) {
		adapter := newFakeSettingsAdapter()
		s := newTestStore(adapter)
		before := s.Theme()

		adapter.failUpsert = true
		err := s.UpdateTheme(context.Background(), ThemePatch{StoreName: strptr("Gagal")})
		require.Error(t, err)
		var actionErr *pkgerrors.ActionError
		assert.ErrorAs(t, err, &actionErr)
		assert.Equal(t, before, s.Theme())
	})
}

func TestResetBackgroundImage(t *testing.T) {
	s := newTestStore(newFakeSettingsAdapter())
	require.NoError(t, s.UpdateTheme(context.Background(), ThemePatch{
		BackgroundImage: strptr("https://img.example/bg.jpg"),
	}))

	require.NoError(t, s.ResetBackgroundImage(context.Background()))
	assert.Empty(t, s.Theme().BackgroundImage)
}

func TestSetWhatsAppNumber(t *testing.T) {
	t.Run("persists the new number", func(t *testing.T) {
		adapter := newFakeSettingsAdapter()
		s := newTestStore(adapter)

		require.NoError(t, s.SetWhatsAppNumber(context.Background(), "628111"))
		assert.Equal(t, "628111", s.WhatsAppNumber())
		assert.Contains(t, adapter.settings, store.SettingKeyWhatsAppNumber)
	})

	t.Run("rejects a blank number", func(t *testing.T) {
		s := newTestStore(newFakeSettingsAdapter())
		err := s.SetWhatsAppNumber(context.Background(), "   ")
		assert.True(t, pkgerrors.IsValidation(err))
		assert.Equal(t, "6281234567890", s.WhatsAppNumber())
	})

	t.Run("rollback restores the prior number", func(t *testing.T) {
		adapter := newFakeSettingsAdapter()
		s := newTestStore(adapter)
		adapter.failUpsert = true

		err := s.SetWhatsAppNumber(context.Background(), "628111")
		require.Error(t, err)
		assert.Equal(t, "6281234567890", s.WhatsAppNumber())
	})
}

func TestStoreSyncTimeout(t *testing.T) {
	adapter := newFakeSettingsAdapter()
	adapter.block = true
	s := NewStore(adapter, 20*time.Millisecond, "6281234567890", zap.NewNop())

	t.Run("a hung load surfaces a load error", func(t *testing.T) {
		err := s.Load(context.Background())
		var loadErr *pkgerrors.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, domain.DefaultThemeSettings(), s.Theme())
	})

	t.Run("a hung theme update times out and rolls back", func(t *testing.T) {
		before := s.Theme()

		err := s.UpdateTheme(context.Background(), ThemePatch{StoreName: strptr("Macet")})
		var actionErr *pkgerrors.ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, before, s.Theme())
	})
}

func TestValidatePopup(t *testing.T) {
	err := ValidatePopup(domain.PopupSettings{Enabled: true})
	assert.True(t, pkgerrors.IsValidation(err))

	assert.NoError(t, ValidatePopup(domain.PopupSettings{Enabled: true, LinkProductID: "p1"}))
	assert.NoError(t, ValidatePopup(domain.PopupSettings{Enabled: false}))
}

func TestPreview(t *testing.T) {
	s := newTestStore(newFakeSettingsAdapter())

	preview := s.Preview(ThemePatch{StoreName: strptr("Pratinjau")})
	assert.Equal(t, "Pratinjau", preview.StoreName)
	// previewing never commits
	assert.Equal(t, domain.DefaultThemeSettings().StoreName, s.Theme().StoreName)
}
