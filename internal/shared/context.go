package shared

import "context"

type sessionContextKey struct{}
type themeContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithTheme stores the resolved UI theme in context.
func ContextWithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeContextKey{}, theme)
}

// ThemeFromContext extracts the UI theme, defaulting to dark.
func ThemeFromContext(ctx context.Context) string {
	if theme, ok := ctx.Value(themeContextKey{}).(string); ok && theme != "" {
		return theme
	}
	return "dark"
}
