package localization_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samadhan/backend/internal/localization"
)

func writeCatalogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	en := `{"complaint.created": "Complaint filed successfully", "error.generic": "Something went wrong"}`
	hi := `{"complaint.created": "शिकायत सफलतापूर्वक दर्ज की गई"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(en), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hi.json"), []byte(hi), 0o644))
	return dir
}

func TestGetString(t *testing.T) {
	l, err := localization.NewLocalizer(writeCatalogs(t))
	require.NoError(t, err)

	assert.Equal(t, "Complaint filed successfully", l.GetString("en", "complaint.created"))
	assert.Equal(t, "शिकायत सफलतापूर्वक दर्ज की गई", l.GetString("hi", "complaint.created"))

	// Missing in hi falls back to English, unknown keys fall back to the key.
	assert.Equal(t, "Something went wrong", l.GetString("hi", "error.generic"))
	assert.Equal(t, "error.unmapped", l.GetString("en", "error.unmapped"))
	assert.Equal(t, "Complaint filed successfully", l.GetString("fr", "complaint.created"))
}

func TestResolveLanguage(t *testing.T) {
	l, err := localization.NewLocalizer(writeCatalogs(t))
	require.NoError(t, err)

	assert.Equal(t, "hi", l.ResolveLanguage("hi-IN,hi;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", l.ResolveLanguage("fr-FR,de;q=0.5"))
	assert.Equal(t, "en", l.ResolveLanguage(""))
}

func TestNewLocalizerMissingDir(t *testing.T) {
	_, err := localization.NewLocalizer("does-not-exist")
	assert.Error(t, err)
}
