package support

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed faq.yaml
var defaultFAQ []byte

type FAQ struct {
	ID       string   `yaml:"id" json:"id"`
	Category string   `yaml:"category" json:"category"`
	Question string   `yaml:"question" json:"question"`
	Answer   string   `yaml:"answer" json:"answer"`
	Tags     []string `yaml:"tags" json:"tags"`
}

// Catalog is a read-only FAQ list, safe for concurrent use.
type Catalog struct {
	faqs []FAQ
}

// NewCatalog parses a YAML list of FAQs.
func NewCatalog(data []byte) (*Catalog, error) {
	var faqs []FAQ
	if err := yaml.Unmarshal(data, &faqs); err != nil {
		return nil, fmt.Errorf("parse faq catalog: %w", err)
	}
	seen := make(map[string]bool, len(faqs))
	for i, f := range faqs {
		if f.ID == "" || f.Question == "" || f.Category == "" {
			return nil, fmt.Errorf("faq %d: id, category and question are required", i)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("faq %q: duplicate id", f.ID)
		}
		seen[f.ID] = true
	}
	return &Catalog{faqs: faqs}, nil
}

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(defaultFAQ)
}

// Search returns FAQs in catalog order where every word of query starts some
// word of the question, answer or tags, ignoring case. An empty query matches
// everything. category, when set, must match ignoring case.
func (c *Catalog) Search(query, category string) []FAQ {
	words := split(query)
	out := []FAQ{}
	for _, f := range c.faqs {
		if category != "" && !strings.EqualFold(f.Category, category) {
			continue
		}
		if matchesAll(tokens(f), words) {
			out = append(out, f)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	out := []string{}
	for _, f := range c.faqs {
		if !slices.Contains(out, f.Category) {
			out = append(out, f.Category)
		}
	}
	return out
}

func tokens(f FAQ) []string {
	return split(f.Question + " " + f.Answer + " " + strings.Join(f.Tags, " "))
}

func split(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func matchesAll(toks, words []string) bool {
	for _, w := range words {
		found := slices.ContainsFunc(toks, func(t string) bool { return strings.HasPrefix(t, w) })
		if !found {
			return false
		}
	}
	return true
}
