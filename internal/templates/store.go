package templates

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spec-kit/support-agent/internal/domain"
)

// Store maps template keys to reply text with an {anrede} placeholder.
// A Store is immutable after construction and safe for concurrent use.
type Store struct {
	source  string
	entries map[domain.TemplateKey]string
}

type fileEntry struct {
	Text string `toml:"text"`
}

// Builtin returns a store backed only by the compiled-in table.
func Builtin() *Store {
	return &Store{source: "builtin", entries: map[domain.TemplateKey]string{}}
}

// Load reads a TOML file of the form
//
//	[refund_allowed]
//	text = "..."
//
// Keys missing from the file resolve from the built-in table.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates %s: %w", path, err)
	}
	return Parse(path, raw)
}

// Parse decodes TOML template data; source names it in diagnostics.
func Parse(source string, raw []byte) (*Store, error) {
	var doc map[string]fileEntry
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode templates %s: %w", source, err)
	}
	entries := make(map[domain.TemplateKey]string, len(doc))
	for name, entry := range doc {
		if strings.TrimSpace(entry.Text) == "" {
			continue
		}
		entries[domain.TemplateKey(name)] = entry.Text
	}
	return &Store{source: source, entries: entries}, nil
}

// LoadOrBuiltin loads path, returning the built-in store and the load error
// when the file is unavailable. An empty path selects the built-in store.
func LoadOrBuiltin(path string) (*Store, error) {
	if path == "" {
		return Builtin(), nil
	}
	store, err := Load(path)
	if err != nil {
		return Builtin(), err
	}
	return store, nil
}

// Source names where the store's entries came from.
func (s *Store) Source() string {
	return s.source
}

// Resolve returns the text for key, preferring loaded entries over the
// built-in table.
func (s *Store) Resolve(key domain.TemplateKey) (string, bool) {
	if s != nil {
		if text, ok := s.entries[key]; ok {
			return text, true
		}
	}
	text, ok := builtin[key]
	return text, ok
}

// ErrMissingTemplates reports keys that resolve to no text.
var ErrMissingTemplates = errors.New("templates missing")

// CheckCoverage verifies that every key resolves to non-empty text.
func (s *Store) CheckCoverage(keys []domain.TemplateKey) error {
	var missing []string
	for _, key := range keys {
		if text, ok := s.Resolve(key); !ok || strings.TrimSpace(text) == "" {
			missing = append(missing, string(key))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingTemplates, strings.Join(missing, ", "))
}
