package deck

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCards = `[
  {"name": "Ferrari", "categories": {"speed": 9, "power": 7, "price": 10}},
  {"name": "Mini", "categories": {"speed": 4, "power": 3, "price": 2}}
]`

func TestLoad(t *testing.T) {
	d, err := Load(strings.NewReader(validCards))
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"speed", "power", "price"}, d.Categories().Names())

	cards := d.Cards()
	assert.Equal(t, "Ferrari", cards[0].Name)
	assert.Equal(t, 0, cards[0].ID)
	assert.Equal(t, 1, cards[1].ID)
	v, _ := cards[1].Score("price")
	assert.Equal(t, 2, v)
}

func TestLoadPreservesCategoryOrder(t *testing.T) {
	// Alphabetical map order would put "alpha" first and pick it as best
	data := `[{"name": "x", "categories": {"zulu": 5, "alpha": 5}}]`
	d, err := Load(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"zulu", "alpha"}, d.Categories().Names())
	assert.Equal(t, "zulu", d.Cards()[0].BestCategory())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		record int
	}{
		{name: "not json", data: `{`, record: -1},
		{name: "empty list", data: `[]`, record: -1},
		{name: "missing name", data: `[{"categories": {"a": 1}}]`, record: 0},
		{name: "missing categories", data: `[{"name": "x"}]`, record: 0},
		{name: "empty categories", data: `[{"name": "x", "categories": {}}]`, record: 0},
		{name: "non-integer score", data: `[{"name": "x", "categories": {"a": 1.5}}]`, record: -1},
		{name: "mismatched keys", data: `[{"name": "x", "categories": {"a": 1, "b": 2}}, {"name": "y", "categories": {"a": 1, "c": 2}}]`, record: 1},
		{name: "mismatched order", data: `[{"name": "x", "categories": {"a": 1, "b": 2}}, {"name": "y", "categories": {"b": 2, "a": 1}}]`, record: 1},
		{name: "missing category", data: `[{"name": "x", "categories": {"a": 1, "b": 2}}, {"name": "y", "categories": {"a": 1}}]`, record: 1},
		{name: "duplicate key", data: `[{"name": "x", "categories": {"a": 1, "a": 2}}]`, record: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.record, cfgErr.Record)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(validCards), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
