// Package kb loads knowledge base catalogs: the question/answer content
// that review engines schedule. A knowledge base is one JSON file in the
// knowledge directory, named <name>.json, holding an array of items.
// Review state never lives here; the catalog is content only.
package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quizfolkco/rote/pkg/review"
)

// ErrNotFound is returned when no knowledge base exists under a name.
var ErrNotFound = errors.New("kb: knowledge base not found")

const catalogExt = ".json"

// Item is one question/answer pair in a knowledge base file. The id is
// optional in the file; missing ids are derived from the content on load.
type Item struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Catalog reads knowledge bases from a directory.
type Catalog struct {
	dir string
}

// NewCatalog returns a catalog over dir, creating the directory if it does
// not exist.
func NewCatalog(dir string) (*Catalog, error) {
	if dir == "" {
		return nil, errors.New("knowledge directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating knowledge directory: %w", err)
	}

	return &Catalog{dir: dir}, nil
}

// Dir returns the catalog directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Path returns the file a knowledge base name maps to.
func (c *Catalog) Path(name string) string {
	return filepath.Join(c.dir, name+catalogExt)
}

// List returns the knowledge base names, sorted.
func (c *Catalog) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), catalogExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), catalogExt))
	}
	sort.Strings(names)

	return names, nil
}

// Load reads the named knowledge base. Items with a blank question or
// answer are skipped, missing ids are derived from the content, and
// duplicate ids keep their first item.
func (c *Catalog) Load(name string) ([]Item, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(c.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base %s: %w", name, err)
	}

	var raw []Item
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decoding knowledge base %s: %w", name, err)
	}

	items := make([]Item, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			continue
		}
		if item.ID == "" {
			item.ID = review.ItemID(item.Question, item.Answer)
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}

	return items, nil
}

// Save writes items as the named knowledge base, replacing any previous
// file.
func (c *Catalog) Save(name string, items []Item) error {
	if err := validateName(name); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding knowledge base %s: %w", name, err)
	}

	if err := os.WriteFile(c.Path(name), payload, 0o644); err != nil {
		return fmt.Errorf("writing knowledge base %s: %w", name, err)
	}

	return nil
}

// Exists reports whether a knowledge base file is present under the name.
func (c *Catalog) Exists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	_, err := os.Stat(c.Path(name))
	return err == nil
}

// validateName keeps knowledge base names inside the knowledge directory.
func validateName(name string) error {
	if name == "" {
		return errors.New("knowledge base name is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid knowledge base name: %q", name)
	}
	return nil
}
