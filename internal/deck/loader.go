package deck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidConfig marks malformed or inconsistent card data. It is always
// wrapped in a *ConfigError.
var ErrInvalidConfig = errors.New("invalid card configuration")

// ConfigError describes why a card set was rejected. Record is the zero-based
// index of the offending record, or -1 when the problem is not tied to one.
type ConfigError struct {
	Record int
	Name   string
	Err    error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Record < 0:
		return fmt.Sprintf("%s: %v", ErrInvalidConfig, e.Err)
	case e.Name != "":
		return fmt.Sprintf("%s: record %d (%q): %v", ErrInvalidConfig, e.Record, e.Name, e.Err)
	default:
		return fmt.Sprintf("%s: record %d: %v", ErrInvalidConfig, e.Record, e.Err)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidConfig) hold for every ConfigError
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

type cardRecord struct {
	Name       string         `json:"name"`
	Categories *orderedScores `json:"categories"`
}

// orderedScores decodes a JSON object while keeping its key order, which
// map decoding would lose.
type orderedScores struct {
	keys   []string
	values []int
}

func (o *orderedScores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("categories must be an object")
	}

	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		if seen[key] {
			return fmt.Errorf("duplicate category %q", key)
		}
		seen[key] = true

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		v, err := n.Int64()
		if err != nil {
			return fmt.Errorf("category %q: score %q is not an integer", key, n.String())
		}
		o.keys = append(o.keys, key)
		o.values = append(o.values, int(v))
	}

	_, err = dec.Token()
	return err
}

// Load reads a card set from JSON: a list of {"name", "categories"} records
// where categories maps category name to integer score. Every record must
// list the same categories in the same order.
func Load(r io.Reader) (*Deck, error) {
	var records []cardRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, &ConfigError{Record: -1, Err: fmt.Errorf("failed to decode card data: %w", err)}
	}
	if len(records) == 0 {
		return nil, &ConfigError{Record: -1, Err: errors.New("card set is empty")}
	}

	var categories *Categories
	cards := make([]Card, 0, len(records))
	for i, rec := range records {
		if rec.Name == "" {
			return nil, &ConfigError{Record: i, Err: errors.New("missing card name")}
		}
		if rec.Categories == nil || len(rec.Categories.keys) == 0 {
			return nil, &ConfigError{Record: i, Name: rec.Name, Err: errors.New("missing categories")}
		}

		if categories == nil {
			c, err := NewCategories(rec.Categories.keys...)
			if err != nil {
				return nil, &ConfigError{Record: i, Name: rec.Name, Err: err}
			}
			categories = c
		} else if err := matchCategories(categories, rec.Categories.keys); err != nil {
			return nil, &ConfigError{Record: i, Name: rec.Name, Err: err}
		}

		card, err := NewCard(i, rec.Name, categories, rec.Categories.values)
		if err != nil {
			return nil, &ConfigError{Record: i, Name: rec.Name, Err: err}
		}
		cards = append(cards, card)
	}

	return &Deck{cards: cards, categories: categories}, nil
}

// LoadFile reads a card set from a JSON file
func LoadFile(filename string) (*Deck, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open card file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func matchCategories(want *Categories, keys []string) error {
	if len(keys) != want.Len() {
		return fmt.Errorf("has %d categories, want %d (%s)", len(keys), want.Len(), want)
	}
	for i, key := range keys {
		if key != want.Name(i) {
			return fmt.Errorf("category %d is %q, want %q", i, key, want.Name(i))
		}
	}
	return nil
}
