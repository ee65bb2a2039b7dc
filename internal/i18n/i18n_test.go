package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("should load embedded defaults without a locales directory", func(t *testing.T) {
		trans, err := NewTranslations("en", "")

		require.NoError(t, err)
		assert.NotNil(t, trans)
	})
}

func TestTranslations_GetMessage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("should resolve a simple message", func(t *testing.T) {
		msg := trans.GetMessage("connecting_to_github", 0, nil)

		assert.Equal(t, "Connecting to GitHub...", msg)
	})

	t.Run("should interpolate template data", func(t *testing.T) {
		msg := trans.GetMessage("fetching_issues", 0, map[string]interface{}{
			"Owner": "acme",
			"Repo":  "app",
		})

		assert.Equal(t, "Fetching issues from acme/app...", msg)
	})

	t.Run("should pick the singular plural form", func(t *testing.T) {
		msg := trans.GetMessage("issues_found", 1, map[string]interface{}{
			"Count": 1,
			"Owner": "acme",
			"Repo":  "app",
		})

		assert.Equal(t, "Found 1 open issue in acme/app", msg)
	})

	t.Run("should pick the plural form", func(t *testing.T) {
		msg := trans.GetMessage("issues_found", 3, map[string]interface{}{
			"Count": 3,
			"Owner": "acme",
			"Repo":  "app",
		})

		assert.Equal(t, "Found 3 open issues in acme/app", msg)
	})

	t.Run("should flag missing message ids", func(t *testing.T) {
		msg := trans.GetMessage("does_not_exist", 0, nil)

		assert.Contains(t, msg, "Translation missing")
	})
}

func TestTranslations_SetLanguage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("should reject unsupported languages", func(t *testing.T) {
		assert.Error(t, trans.SetLanguage("xx"))
	})

	t.Run("should accept a registered language", func(t *testing.T) {
		assert.NoError(t, trans.SetLanguage("en"))
	})
}
