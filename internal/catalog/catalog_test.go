package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type seqRandom struct {
	vals []int
	i    int
}

func (r *seqRandom) Intn(n int) int {
	if n <= 0 || len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func (r *seqRandom) String(length int, alphabet string) string { return "" }

func TestBuiltin(t *testing.T) {
	c := Builtin()
	require.NotEmpty(t, c)
	for name, entries := range c {
		require.NotEmpty(t, entries, "category %q", name)
		for _, e := range entries {
			assert.NotEmpty(t, e.Word)
			assert.NotEmpty(t, e.Tip)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	data := `{"Movies": [{"word": "Titanic", "tip": "It sinks"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, Entry{Word: "Titanic", Tip: "It sinks"}, c["Movies"][0])
}

func TestLoad_RejectsEmptyCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Empty": []}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadOrBuiltin_FallsBack(t *testing.T) {
	c := LoadOrBuiltin("/does/not/exist.json", zap.NewNop())
	assert.Equal(t, Builtin(), c)

	assert.Equal(t, Builtin(), LoadOrBuiltin("", zap.NewNop()))
}

func TestPick_Deterministic(t *testing.T) {
	c := Catalog{
		"Alpha": {{Word: "a1", Tip: "t1"}, {Word: "a2", Tip: "t2"}},
		"Beta":  {{Word: "b1", Tip: "t3"}},
	}

	// Keys sort to [Alpha, Beta]; script picks Beta then its only entry.
	name, entry, err := c.Pick(&seqRandom{vals: []int{1, 0}})
	require.NoError(t, err)
	assert.Equal(t, "Beta", name)
	assert.Equal(t, Entry{Word: "b1", Tip: "t3"}, entry)

	name, entry, err = c.Pick(&seqRandom{vals: []int{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", name)
	assert.Equal(t, Entry{Word: "a2", Tip: "t2"}, entry)
}

func TestPick_EmptyCatalog(t *testing.T) {
	_, _, err := Catalog{}.Pick(&seqRandom{})
	require.ErrorIs(t, err, ErrEmptyCatalog)
}
