// Package settings manages user-facing preferences, currently the UI theme.
package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stockpilot/stockpilot/internal/kv"
)

// Theme names recognised by the stylesheet.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Service reads and writes the persisted theme preference. The preference is
// global, not per session, matching the single-operator deployment model.
type Service struct {
	client *kv.Client
	logger *slog.Logger
}

// NewService builds a Service.
func NewService(client *kv.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Theme returns the persisted theme, defaulting to dark when unset or
// unreadable.
func (s *Service) Theme(ctx context.Context) string {
	data, ok, err := s.client.Get(ctx, kv.KeyTheme)
	if err != nil {
		s.logger.Error("load theme", slog.Any("error", err))
		return ThemeDark
	}
	if !ok {
		return ThemeDark
	}
	if theme := string(data); theme == ThemeLight {
		return theme
	}
	return ThemeDark
}

// SetTheme persists the preference. Only known theme names are accepted.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("settings: unknown theme %q", theme)
	}
	return s.client.Set(ctx, kv.KeyTheme, []byte(theme))
}

// Toggle flips between dark and light and persists the result.
func (s *Service) Toggle(ctx context.Context) (string, error) {
	next := ThemeDark
	if s.Theme(ctx) == ThemeDark {
		next = ThemeLight
	}
	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
