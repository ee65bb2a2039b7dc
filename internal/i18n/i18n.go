package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

func NewTranslations(defaultLang string, localesDir string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	if localesDir != "" {
		files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
		if err != nil {
			return nil, fmt.Errorf("error reading locales: %w", err)
		}
		for _, file := range files {
			if _, err := bundle.LoadMessageFile(file); err != nil {
				return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
			}
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[connecting_to_github]
	other = "Connecting to GitHub..."

	[parsing_repository]
	other = "Parsing repository URL..."

	[fetching_issues]
	other = "Fetching issues from {{.Owner}}/{{.Repo}}..."

	[issues_found]
	one = "Found {{.Count}} open issue in {{.Owner}}/{{.Repo}}"
	other = "Found {{.Count}} open issues in {{.Owner}}/{{.Repo}}"

	[no_open_issues]
	other = "No open issues found in this repository"

	[starting_analysis]
	other = "Starting AI analysis..."

	[analyzing_issue]
	other = "Analyzing issue {{.Current}}/{{.Total}}: {{.Title}}..."

	[analyzing_repository]
	other = "Analyzing repository {{.Current}}/{{.Total}}: {{.Repo}}"

	[analysis_started]
	other = "Analysis started"

	[analysis_complete]
	other = "Analysis complete!"

	[analysis_cancelled]
	other = "Analysis cancelled"

	[session_not_found]
	other = "Session not found"

	[no_export_data]
	other = "No data available for CSV generation"
	`
