package i18n

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lang/*.yaml
var languageFiles embed.FS

// FallbackLanguage provides every key; other packs may be partial
const FallbackLanguage = "en"

// Catalog holds the response strings of every bundled language, keyed by
// slash-separated paths such as "prefix/success".
type Catalog struct {
	languages map[string]map[string]string
}

// Load parses the embedded language packs
func Load() (*Catalog, error) {
	entries, err := languageFiles.ReadDir("lang")
	if err != nil {
		return nil, fmt.Errorf("failed to list language packs: %w", err)
	}

	catalog := &Catalog{languages: make(map[string]map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}

		data, err := languageFiles.ReadFile(path.Join("lang", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read language pack %s: %w", entry.Name(), err)
		}

		strs, err := parsePack(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse language pack %s: %w", entry.Name(), err)
		}

		catalog.languages[strings.TrimSuffix(entry.Name(), ".yaml")] = strs
	}

	if _, ok := catalog.languages[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback language pack %q is missing", FallbackLanguage)
	}

	return catalog, nil
}

func parsePack(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	strs := make(map[string]string)
	flatten("", raw, strs)
	return strs, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "/" + key
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(fullKey, v, out)
		case string:
			out[fullKey] = strings.TrimRight(v, "\n")
		default:
			out[fullKey] = fmt.Sprint(v)
		}
	}
}

// Supports reports whether a language pack with that code is bundled
func (c *Catalog) Supports(language string) bool {
	_, ok := c.languages[language]
	return ok
}

// Languages returns the bundled language codes in sorted order
func (c *Catalog) Languages() []string {
	codes := make([]string, 0, len(c.languages))
	for code := range c.languages {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Get returns the string for key in the language, falling back to English per key.
// Unknown keys are returned as-is so a missing translation is visible rather than empty.
func (c *Catalog) Get(language, key string) string {
	if strs, ok := c.languages[language]; ok {
		if value, ok := strs[key]; ok {
			return value
		}
	}
	if value, ok := c.languages[FallbackLanguage][key]; ok {
		return value
	}
	return key
}

// Format looks up key and substitutes {name} placeholders from the given pairs
func (c *Catalog) Format(language, key string, replacements ...string) string {
	value := c.Get(language, key)
	if len(replacements) < 2 {
		return value
	}

	oldnew := make([]string, 0, len(replacements))
	for i := 0; i+1 < len(replacements); i += 2 {
		oldnew = append(oldnew, "{"+replacements[i]+"}", replacements[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(value)
}
