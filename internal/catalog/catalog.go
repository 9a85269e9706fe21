// Package catalog provides the category -> word/tip lookup used to seed a
// round. The dataset is read-only at runtime; an embedded list is used when
// no external file is configured or the configured file cannot be read.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/impeter-app/impeter-server/internal/dependencies/random"
)

//go:embed words.json
var builtinWords []byte

var ErrEmptyCatalog = errors.New("empty word catalog")

// Entry pairs the secret word with the hint shown to imposters.
type Entry struct {
	Word string `json:"word"`
	Tip  string `json:"tip"`
}

type Catalog map[string][]Entry

// Builtin returns the embedded fallback dataset.
func Builtin() Catalog {
	c, err := parse(builtinWords)
	if err != nil {
		// The embedded file is compiled in; a parse failure is a build defect.
		panic(fmt.Sprintf("catalog: embedded words.json: %v", err))
	}
	return c
}

// Load reads a catalog from a JSON file shaped {"Category": [{"word","tip"}]}.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// LoadOrBuiltin tries the configured file and falls back to the embedded
// dataset, logging why.
func LoadOrBuiltin(path string, log *zap.Logger) Catalog {
	if path == "" {
		return Builtin()
	}
	c, err := Load(path)
	if err != nil {
		log.Warn("falling back to builtin word catalog",
			zap.String("path", path), zap.Error(err))
		return Builtin()
	}
	log.Info("loaded word catalog",
		zap.String("path", path), zap.Int("categories", len(c)))
	return c
}

func parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	for name, entries := range c {
		if len(entries) == 0 {
			return nil, fmt.Errorf("category %q has no entries", name)
		}
	}
	return c, nil
}

// Pick selects a uniformly random category, then a uniformly random entry
// within it.
func (c Catalog) Pick(rnd random.Random) (string, Entry, error) {
	if len(c) == 0 {
		return "", Entry{}, ErrEmptyCatalog
	}

	// Map iteration order is not stable; sort keys so the same rng script
	// always lands on the same category.
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	name := names[rnd.Intn(len(names))]
	entries := c[name]
	return name, entries[rnd.Intn(len(entries))], nil
}
