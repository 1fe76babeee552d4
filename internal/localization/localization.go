// Package localization serves the user-facing message catalog. Catalogs are
// JSON files named by language code (en.json, hi.json); lookups fall back to
// English and finally to the key itself, so a missing translation never
// breaks a response.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Localizer holds the loaded catalogs, keyed by language then message key.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer loads every *.json catalog from dir.
func NewLocalizer(dir string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", file.Name(), err)
		}

		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", file.Name(), err)
		}
		l.translations[lang] = messages
	}

	return l, nil
}

// GetString returns the message for key in lang, falling back to English and
// then to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if messages, ok := l.translations[lang]; ok {
		if value, ok := messages[key]; ok {
			return value
		}
	}
	if lang != "en" {
		if messages, ok := l.translations["en"]; ok {
			if value, ok := messages[key]; ok {
				return value
			}
		}
	}
	return key
}

// ResolveLanguage picks the first supported language from an Accept-Language
// header value, defaulting to English.
func (l *Localizer) ResolveLanguage(acceptLanguage string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		if _, ok := l.translations[lang]; ok {
			return lang
		}
	}
	return "en"
}
