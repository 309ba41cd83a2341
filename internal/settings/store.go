// Package settings holds the store's two global singletons: the theme
// (appearance, socials, promotional popup) and the admin contact channel.
// Writes follow the same optimistic-update-with-rollback protocol as the
// product repository, against the adapter's keyed upsert.
package settings

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/store"
	"github.com/jafarshop/storefront/pkg/errors"
)

// ThemePatch is a partial theme update. Nil fields keep their current
// value; PopupSettings merges one level deep so a caller can flip Enabled
// without clobbering the image or linked product.
type ThemePatch struct {
	StoreName        *string     `json:"storeName,omitempty"`
	StoreDescription *string     `json:"storeDescription,omitempty"`
	InstagramURL     *string     `json:"instagramUrl,omitempty"`
	FacebookURL      *string     `json:"facebookUrl,omitempty"`
	TikTokURL        *string     `json:"tiktokUrl,omitempty"`
	BackgroundImage  *string     `json:"backgroundImage,omitempty"`
	PopupSettings    *PopupPatch `json:"popupSettings,omitempty"`
}

type PopupPatch struct {
	Enabled       *bool   `json:"enabled,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	LinkProductID *string `json:"linkProductId,omitempty"`
}

type Store struct {
	adapter  store.Adapter
	timeout  time.Duration
	logger   *zap.Logger
	defaults domain.ThemeSettings

	mu             sync.Mutex
	theme          domain.ThemeSettings
	whatsAppNumber string
}

// NewStore creates the settings store. defaultNumber seeds the contact
// channel until the admin saves one.
func NewStore(adapter store.Adapter, timeout time.Duration, defaultNumber string, logger *zap.Logger) *Store {
	defaults := domain.DefaultThemeSettings()
	return &Store{
		adapter:        adapter,
		timeout:        timeout,
		logger:         logger,
		defaults:       defaults,
		theme:          defaults,
		whatsAppNumber: defaultNumber,
	}
}

// Load fetches both singletons. Missing records fall back to defaults; a
// store failure keeps defaults and reports a LoadError. Both keys are
// always attempted, so one failing load cannot hide the other's value.
func (s *Store) Load(ctx context.Context) error {
	ctx, cancel := s.syncContext(ctx)
	defer cancel()

	return goerrors.Join(s.loadTheme(ctx), s.loadWhatsAppNumber(ctx))
}

func (s *Store) loadTheme(ctx context.Context) error {
	data, err := s.adapter.LoadSetting(ctx, store.SettingKeyTheme)
	if errors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return &errors.LoadError{Source: "theme settings", Err: err}
	}

	// merge over defaults so keys added since the save are present
	theme := s.defaults
	if err := json.Unmarshal(data, &theme); err != nil {
		return &errors.LoadError{Source: "theme settings", Err: err}
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	return nil
}

func (s *Store) loadWhatsAppNumber(ctx context.Context) error {
	data, err := s.adapter.LoadSetting(ctx, store.SettingKeyWhatsAppNumber)
	if errors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return &errors.LoadError{Source: "whatsapp number", Err: err}
	}

	var number string
	if err := json.Unmarshal(data, &number); err != nil {
		return &errors.LoadError{Source: "whatsapp number", Err: err}
	}

	s.mu.Lock()
	s.whatsAppNumber = number
	s.mu.Unlock()
	return nil
}

// Theme returns the current theme settings
func (s *Store) Theme() domain.ThemeSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// WhatsAppNumber returns the store's contact channel identifier
func (s *Store) WhatsAppNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.whatsAppNumber
}

// Preview returns the theme as it would look after applying patch,
// without saving. Callers use it to validate before committing.
func (s *Store) Preview(patch ThemePatch) domain.ThemeSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return applyPatch(s.theme, patch)
}

// UpdateTheme merges the patch into the current theme, applies it
// optimistically, and persists. On failure the prior theme is restored.
func (s *Store) UpdateTheme(ctx context.Context, patch ThemePatch) error {
	s.mu.Lock()
	snapshot := s.theme
	merged := applyPatch(s.theme, patch)
	s.theme = merged
	s.mu.Unlock()

	data, err := json.Marshal(merged)
	if err != nil {
		s.mu.Lock()
		s.theme = snapshot
		s.mu.Unlock()
		return &errors.ActionError{Op: "update theme", Err: err}
	}

	ctx, cancel := s.syncContext(ctx)
	defer cancel()

	if err := s.adapter.UpsertSetting(ctx, store.SettingKeyTheme, data); err != nil {
		s.mu.Lock()
		s.theme = snapshot
		s.mu.Unlock()
		return &errors.ActionError{Op: "update theme", Err: err}
	}

	return nil
}

// ResetBackgroundImage clears the background image
func (s *Store) ResetBackgroundImage(ctx context.Context) error {
	empty := ""
	return s.UpdateTheme(ctx, ThemePatch{BackgroundImage: &empty})
}

// SetWhatsAppNumber replaces the contact channel, optimistically
func (s *Store) SetWhatsAppNumber(ctx context.Context, number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return &errors.ValidationError{Field: "whatsAppNumber", Message: "whatsapp number cannot be empty"}
	}

	s.mu.Lock()
	snapshot := s.whatsAppNumber
	s.whatsAppNumber = number
	s.mu.Unlock()

	data, _ := json.Marshal(number)

	ctx, cancel := s.syncContext(ctx)
	defer cancel()

	if err := s.adapter.UpsertSetting(ctx, store.SettingKeyWhatsAppNumber, data); err != nil {
		s.mu.Lock()
		s.whatsAppNumber = snapshot
		s.mu.Unlock()
		return &errors.ActionError{Op: "update whatsapp number", Err: err}
	}

	return nil
}

// ValidatePopup enforces the save precondition: an enabled popup must
// link to a product. The caller checks this before committing a patch.
func ValidatePopup(popup domain.PopupSettings) error {
	if popup.Enabled && popup.LinkProductID == "" {
		return &errors.ValidationError{
			Field:   "popupSettings.linkProductId",
			Message: "an enabled popup must link to a product",
		}
	}
	return nil
}

func applyPatch(theme domain.ThemeSettings, patch ThemePatch) domain.ThemeSettings {
	if patch.StoreName != nil {
		theme.StoreName = *patch.StoreName
	}
	if patch.StoreDescription != nil {
		theme.StoreDescription = *patch.StoreDescription
	}
	if patch.InstagramURL != nil {
		theme.InstagramURL = *patch.InstagramURL
	}
	if patch.FacebookURL != nil {
		theme.FacebookURL = *patch.FacebookURL
	}
	if patch.TikTokURL != nil {
		theme.TikTokURL = *patch.TikTokURL
	}
	if patch.BackgroundImage != nil {
		theme.BackgroundImage = *patch.BackgroundImage
	}
	if patch.PopupSettings != nil {
		if patch.PopupSettings.Enabled != nil {
			theme.PopupSettings.Enabled = *patch.PopupSettings.Enabled
		}
		if patch.PopupSettings.ImageURL != nil {
			theme.PopupSettings.ImageURL = *patch.PopupSettings.ImageURL
		}
		if patch.PopupSettings.LinkProductID != nil {
			theme.PopupSettings.LinkProductID = *patch.PopupSettings.LinkProductID
		}
	}
	return theme
}

func (s *Store) syncContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
