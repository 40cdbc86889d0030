package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "Report not found", tr.Translate("en", "ErrorNotFound", map[string]any{"Resource": "Report"}))
	assert.Equal(t, "Rapport introuvable", tr.Translate("fr", "ErrorNotFound", map[string]any{"Resource": "Rapport"}))
	assert.Equal(t, "title is required", tr.Translate("en", "ValidationRequired", map[string]any{"Field": "title"}))
	assert.Equal(t, "Internal server error", tr.Translate("de", "ErrorInternal", nil))
	assert.Equal(t, "NoSuchMessage", tr.Translate("en", "NoSuchMessage", nil))
}

func TestNegotiate(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	cases := []struct {
		xlang, accept, want string
	}{
		{"", "", "en"},
		{"", "fr-CA,fr;q=0.9,en;q=0.8", "fr"},
		{"", "de-DE,de;q=0.9", "en"},
		{"", "en-US", "en"},
		{"fr", "en-US", "fr"},
		{"not a tag!!", "fr", "fr"},
		{"", ";;;", "en"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tr.Negotiate(tc.xlang, tc.accept), "xlang=%q accept=%q", tc.xlang, tc.accept)
	}
}

func TestNew_DefaultLanguage(t *testing.T) {
	tr, err := New("fr")
	require.NoError(t, err)
	assert.Equal(t, "fr", tr.Default())
	assert.Equal(t, "fr", tr.Negotiate("", "de"))
	assert.Equal(t, "Erreur interne du serveur", tr.Translate("de", "ErrorInternal", nil))

	tr, err = New("klingon")
	require.NoError(t, err)
	assert.Equal(t, "en", tr.Default())
}
