package rules

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/playperu/geoquiz/internal/textnorm"
)

//go:embed data/*.yaml
var dataFS embed.FS

type set = map[string]struct{}

// Tables holds the curated policy data. Keys and values are stored in the
// form the matchers compare against: language names, currency names and
// profanity entries normalized with textnorm.Text, currency codes uppercased.
type Tables struct {
	LanguageSynonyms map[string]set
	CurrencyAliases  map[string]set
	BareWordDefaults map[string]string
	SymbolChars      string
	Profanity        []string
}

// Loaded once at startup; the matchers only read it.
var tables = mustLoadTables()

func mustLoadTables() *Tables {
	t, err := LoadTables(dataFS)
	if err != nil {
		panic(fmt.Sprintf("rules: loading embedded tables: %v", err))
	}
	return t
}

type languagesFile struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

type currenciesFile struct {
	Aliases          map[string][]string `yaml:"aliases"`
	BareWordDefaults map[string]string   `yaml:"bare_word_defaults"`
	SymbolChars      string              `yaml:"symbol_chars"`
}

type profanityFile struct {
	Blocked []string `yaml:"blocked"`
}

// LoadTables parses data/languages.yaml, data/currencies.yaml and
// data/profanity.yaml from fsys.
func LoadTables(fsys fs.FS) (*Tables, error) {
	var langs languagesFile
	if err := decode(fsys, "data/languages.yaml", &langs); err != nil {
		return nil, err
	}
	var curs currenciesFile
	if err := decode(fsys, "data/currencies.yaml", &curs); err != nil {
		return nil, err
	}
	var prof profanityFile
	if err := decode(fsys, "data/profanity.yaml", &prof); err != nil {
		return nil, err
	}

	t := &Tables{
		LanguageSynonyms: make(map[string]set, len(langs.Synonyms)),
		CurrencyAliases:  make(map[string]set, len(curs.Aliases)),
		BareWordDefaults: make(map[string]string, len(curs.BareWordDefaults)),
		SymbolChars:      curs.SymbolChars,
	}

	for k, vs := range langs.Synonyms {
		key := textnorm.Text(k)
		if key == "" {
			return nil, fmt.Errorf("languages.yaml: empty synonym key %q", k)
		}
		if t.LanguageSynonyms[key] == nil {
			t.LanguageSynonyms[key] = set{}
		}
		for _, v := range vs {
			if n := textnorm.Text(v); n != "" {
				t.LanguageSynonyms[key][n] = struct{}{}
			}
		}
	}

	for code, vs := range curs.Aliases {
		key := strings.ToUpper(strings.TrimSpace(code))
		if t.CurrencyAliases[key] == nil {
			t.CurrencyAliases[key] = set{}
		}
		for _, v := range vs {
			if n := textnorm.Text(v); n != "" {
				t.CurrencyAliases[key][n] = struct{}{}
			}
		}
	}

	for word, code := range curs.BareWordDefaults {
		w := textnorm.Text(word)
		if w == "" || strings.Contains(w, " ") {
			return nil, fmt.Errorf("currencies.yaml: bare word %q must be a single word", word)
		}
		t.BareWordDefaults[w] = strings.ToUpper(strings.TrimSpace(code))
	}

	for _, p := range prof.Blocked {
		if n := textnorm.Text(p); n != "" {
			t.Profanity = append(t.Profanity, n)
		}
	}

	return t, nil
}

func decode(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
