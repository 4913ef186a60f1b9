package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortd/internal/models"
)

func TestNewValidatesPaths(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"absolute", "/work/documents"},
		{"parent escape", "../elsewhere"},
		{"dot", "."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New([]Category{{Path: tc.path}}, DefaultFallback)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrValidation))
		})
	}
}

func TestNewRejectsDuplicatePaths(t *testing.T) {
	_, err := New([]Category{
		{Path: "work/documents"},
		{Path: "work/documents"},
	}, DefaultFallback)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNewNormalizes(t *testing.T) {
	tax, err := New([]Category{{
		Path:       "Work//Documents/",
		Keywords:   []string{" Memo ", "AGENDA"},
		Extensions: []string{"PDF", ".Doc"},
	}}, DefaultFallback)
	require.NoError(t, err)

	c, ok := tax.Resolve("Work/Documents")
	require.True(t, ok)
	assert.Equal(t, "Work/Documents", c.Path)
	assert.Equal(t, []string{"memo", "agenda"}, c.Keywords)
	assert.Equal(t, []string{".pdf", ".doc"}, c.Extensions)
	assert.Equal(t, defaultPriority, c.Priority)
}

func TestResolveUnknownPath(t *testing.T) {
	tax := Default()
	_, ok := tax.Resolve("no/such/category")
	assert.False(t, ok)
}

func TestDefaultTree(t *testing.T) {
	tax := Default()
	require.NotEmpty(t, tax.Categories())

	for _, want := range []string{"medical/imaging", "work/contracts", "personal/finances", "development/code"} {
		_, ok := tax.Resolve(want)
		assert.True(t, ok, "missing %s", want)
	}
	assert.Equal(t, "documents/misc", tax.Fallback())
	assert.Contains(t, tax.Paths(), "documents/misc")
}

func TestCategoriesForToken(t *testing.T) {
	tax := Default()

	assert.Contains(t, tax.CategoriesForToken("radiology"), "medical/imaging")
	assert.Contains(t, tax.CategoriesForToken("labs"), "medical/pathology")
	assert.Contains(t, tax.CategoriesForToken("medical"), "medical/imaging")
	assert.Contains(t, tax.CategoriesForToken("medical"), "medical/clinical")
	assert.Empty(t, tax.CategoriesForToken("zebra"))

	// docs names both the work and development flavors
	docs := tax.CategoriesForToken("docs")
	assert.Contains(t, docs, "work/documents")
	assert.Contains(t, docs, "development/documentation")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	data := `
fallback: other/misc
categories:
  - path: invoices
    keywords: [invoice, rechnung]
    extensions: [pdf]
    priority: 10
  - path: music/live
    keywords: [concert]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	tax, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "other/misc", tax.Fallback())
	inv, ok := tax.Resolve("invoices")
	require.True(t, ok)
	assert.Equal(t, 10, inv.Priority)
	assert.Equal(t, []string{".pdf"}, inv.Extensions)

	live, ok := tax.Resolve("music/live")
	require.True(t, ok)
	assert.Equal(t, defaultPriority, live.Priority)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("categories: {not: a list}"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
