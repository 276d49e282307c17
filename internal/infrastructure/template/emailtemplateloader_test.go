package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/shared/logger"
)

func TestEmailTemplateLoader_Defaults(t *testing.T) {
	l := NewEmailTemplateLoader("", logger.NewNop())
	require.NoError(t, l.Load())

	out, err := l.Render(KindCancellation, Data{
		Name:         "Ada",
		Subject:      "Go Basics",
		EndDate:      "March 1, 2024",
		Reason:       "too busy",
		DashboardURL: "http://localhost:3000/subscriptions",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Hi Ada,")
	assert.Contains(t, out, "_too busy_")
	assert.Contains(t, out, "You keep access until **March 1, 2024**.")

	out, err = l.Render(KindCancellation, Data{Name: "Ada", Subject: "Go Basics", Immediate: true})
	require.NoError(t, err)
	assert.Contains(t, out, "Access ended immediately.")
	assert.NotContains(t, out, "Reason given")
}

func TestEmailTemplateLoader_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.expiration.md"), []byte("Bye {{.Name}}"), 0o600))

	l := NewEmailTemplateLoader(dir, logger.NewNop())
	require.NoError(t, l.Load())

	out, err := l.Render(KindExpiration, Data{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Bye Ada", out)

	out, err = l.Render(KindActivation, Data{Name: "Ada", Amount: "$25.00"})
	require.NoError(t, err)
	assert.Contains(t, out, "$25.00")
}

func TestEmailTemplateLoader_BrokenOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.activation.md"), []byte("{{.Name"), 0o600))

	l := NewEmailTemplateLoader(dir, logger.NewNop())
	assert.Error(t, l.Load())
}

func TestEmailTemplateLoader_UnknownKind(t *testing.T) {
	l := NewEmailTemplateLoader("", logger.NewNop())
	require.NoError(t, l.Load())

	_, err := l.Render("welcome", Data{})
	assert.Error(t, err)
}
