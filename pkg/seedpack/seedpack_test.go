// pkg/seedpack/seedpack_test.go
package seedpack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPack = `{
	"name": "starter-en",
	"language": "en",
	"snippets": [
		{
			"category": "crops",
			"title": "Rice sowing window",
			"content": "Transplant 20-25 day old seedlings with the monsoon onset.",
			"keywords": ["rice", "sowing", "kharif"]
		},
		{
			"category": "pests",
			"title": "Stem borer control",
			"content": "Install pheromone traps at 5 per acre."
		}
	]
}`

func TestParse_ValidPack(t *testing.T) {
	pack, err := Parse([]byte(validPack))
	require.NoError(t, err)

	assert.Equal(t, "starter-en", pack.Name)
	require.Len(t, pack.Snippets, 2)
	assert.Equal(t, []string{"rice", "sowing", "kharif"}, pack.Snippets[0].Keywords)

	// Snippets without an explicit language inherit the pack language.
	assert.Equal(t, "en", pack.Snippets[1].Language)
}

func TestParse_MissingRequiredField(t *testing.T) {
	_, err := Parse([]byte(`{"name": "broken", "language": "en", "snippets": [{"title": "no category", "content": "x"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestParse_EmptySnippets(t *testing.T) {
	_, err := Parse([]byte(`{"name": "empty", "language": "en", "snippets": []}`))
	require.Error(t, err)
}

func TestParse_UnknownCategory(t *testing.T) {
	_, err := Parse([]byte(`{
		"name": "bad-category",
		"language": "en",
		"snippets": [{"category": "astrology", "title": "t", "content": "c"}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse([]byte("not json at all"))
	require.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.json")
	require.NoError(t, os.WriteFile(path, []byte(validPack), 0o644))

	pack, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, pack.Snippets, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
