// Package localization provides the user-facing strings of the bot.
// Translations are JSON files named after the language code (e.g. "en.json")
// and are embedded into the binary.
package localization

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// DefaultLanguage is used when a key is missing in the requested language.
const DefaultLanguage = "en"

// Message keys.
const (
	Welcome         = "welcome"
	Help            = "help"
	SubscribePrompt = "subscribe_prompt"
	JoinButton      = "join_button"
	DownloadButton  = "download_button"
	NoResults       = "no_results"
	FetchFailed     = "fetch_failed"
	InvalidButton   = "invalid_button"
	TypeLabel       = "type_label"
	RecordHeader    = "record_header"
	DateLabel       = "date_label"
	CountryLabel    = "country_label"
	DurationLabel   = "duration_label"
	GenresLabel     = "genres_label"
	TelegramLinks   = "telegram_links"
	DriveLinks      = "drive_links"
	OtherLinks      = "other_links"
	NoLinks         = "no_links"
	DownloadLink    = "download_link"
	LinkTooLong     = "link_too_long"
)

//go:embed locales/*.json
var locales embed.FS

// Localizer manages the translations for the application.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// Default returns a Localizer over the embedded locales.
func Default() *Localizer {
	l, err := NewLocalizer(locales, "locales")
	if err != nil {
		// The embedded files are part of the build.
		panic(err)
	}
	return l
}

// NewLocalizer loads every *.json file in dir of fsys.
func NewLocalizer(fsys fs.FS, dir string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[lang] = translations
	}

	return l, nil
}

// GetString returns the localized string for a given key and language.
// It falls back to DefaultLanguage and then to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[Normalize(lang)]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if enTranslations, ok := l.translations[DefaultLanguage]; ok {
		if value, ok := enTranslations[key]; ok {
			return value
		}
	}

	return key
}

// Normalize reduces an IETF tag such as "en-US" to its base language.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if base, _, ok := strings.Cut(lang, "-"); ok {
		return base
	}
	return lang
}
