package xmlevents

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rngtools/internal/issues"
	"github.com/erraggy/rngtools/loader"
	"github.com/erraggy/rngtools/patterns"
	"github.com/erraggy/rngtools/rngerrors"
)

// loadGrammar compiles a schema literal for the tests.
func loadGrammar(t *testing.T, schema string) *patterns.Grammar {
	t.Helper()
	result, err := loader.LoadWithOptions(loader.WithReader(strings.NewReader(schema)))
	require.NoError(t, err)
	return result.Grammar
}

// element library { oneOrMore { element book { attribute isbn { text },
// element title { text } } } }
const librarySchema = `{"v":3,"o":1,"d":["Grammar",
  ["Element", ["Name", "", "library"],
    ["OneOrMore",
      ["Element", ["Name", "", "book"],
        ["Group",
          ["Attribute", ["Name", "", "isbn"], ["Text"]],
          ["Element", ["Name", "", "title"], ["Text"]]]]]],
  []]}`

// element ns:doc { empty } with ns = "http://example.com/ns"
const nsSchema = `{"v":3,"o":1,"d":["Grammar",
  ["Element", ["Name", "http://example.com/ns", "doc"], ["Empty"]],
  []]}`

func TestValidateReaderValidDocument(t *testing.T) {
	g := loadGrammar(t, librarySchema)
	doc := `<library>
  <book isbn="123"><title>One</title></book>
  <book isbn="456"><title>Two</title></book>
</library>`

	result, err := ValidateReader(g, strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Issues)
	assert.Zero(t, result.ErrorCount)
	assert.Equal(t, "<reader>", result.SourcePath)
}

func TestValidateReaderMissingAttribute(t *testing.T) {
	g := loadGrammar(t, librarySchema)
	doc := `<library>
  <book isbn="1"><title>One</title></book>
  <book><title>Two</title></book>
</library>`

	result, err := ValidateReader(g, strings.NewReader(doc))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)

	issue := result.Issues[0]
	assert.Equal(t, issues.KindAttributeName, issue.Kind)
	assert.Equal(t, "/library/book[2]", issue.Path, "sibling index distinguishes repeated names")
	assert.Equal(t, 3, issue.Line)
	assert.Contains(t, issue.Message, "isbn")
}

func TestValidateReaderUnknownElement(t *testing.T) {
	g := loadGrammar(t, librarySchema)
	doc := `<library><magazine/></library>`

	result, err := ValidateReader(g, strings.NewReader(doc))
	require.NoError(t, err)
	assert.False(t, result.Valid)

	var found bool
	for _, issue := range result.Issues {
		if issue.Kind == issues.KindElementName {
			found = true
			assert.Equal(t, "/library/magazine", issue.Path)
			assert.Equal(t, "magazine", issue.Name)
		}
	}
	assert.True(t, found, "expected an element-name issue")
}

func TestValidateReaderNamespaces(t *testing.T) {
	g := loadGrammar(t, nsSchema)

	t.Run("prefixed", func(t *testing.T) {
		doc := `<p:doc xmlns:p="http://example.com/ns"/>`
		result, err := ValidateReader(g, strings.NewReader(doc))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("default namespace", func(t *testing.T) {
		doc := `<doc xmlns="http://example.com/ns"/>`
		result, err := ValidateReader(g, strings.NewReader(doc))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("no namespace rejected", func(t *testing.T) {
		result, err := ValidateReader(g, strings.NewReader(`<doc/>`))
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})
}

func TestValidateReaderEntitiesMergedIntoOneTextEvent(t *testing.T) {
	// element v { value "a&b" } — the entity must not split the value.
	schema := `{"v":3,"o":1,"d":["Grammar",
	  ["Element", ["Name", "", "v"], ["Value", "", "token", "a&b", ""]],
	  []]}`
	g := loadGrammar(t, schema)

	result, err := ValidateReader(g, strings.NewReader(`<v>a&amp;b</v>`))
	require.NoError(t, err)
	assert.True(t, result.Valid, "character data around an entity is one text event")
}

func TestValidateReaderMalformedXML(t *testing.T) {
	g := loadGrammar(t, librarySchema)

	_, err := ValidateReader(g, strings.NewReader(`<library><book>`))
	assert.Error(t, err, "malformed XML is an error, not a validation issue")
}

func TestValidateFile(t *testing.T) {
	g := loadGrammar(t, librarySchema)
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<library><book/></library>`), 0o644))

	result, err := ValidateFile(g, path)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, path, result.SourcePath)
	for _, issue := range result.Issues {
		assert.Equal(t, path, issue.File)
	}
}

func TestValidateWithOptions(t *testing.T) {
	g := loadGrammar(t, librarySchema)

	t.Run("reader source", func(t *testing.T) {
		result, err := ValidateWithOptions(
			WithGrammar(g),
			WithReader(strings.NewReader(`<library><book isbn="1"><title>T</title></book></library>`)),
		)
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("grammar required", func(t *testing.T) {
		_, err := ValidateWithOptions(WithReader(strings.NewReader(`<x/>`)))
		assert.ErrorIs(t, err, rngerrors.ErrConfig)
	})

	t.Run("exactly one source", func(t *testing.T) {
		_, err := ValidateWithOptions(WithGrammar(g))
		assert.ErrorIs(t, err, rngerrors.ErrConfig)

		_, err = ValidateWithOptions(WithGrammar(g),
			WithFilePath("x"), WithReader(strings.NewReader("<x/>")))
		assert.ErrorIs(t, err, rngerrors.ErrConfig)
	})
}

func TestValidationContinuesPastErrors(t *testing.T) {
	g := loadGrammar(t, librarySchema)
	doc := `<library>
  <book><title>One</title></book>
  <book><title>Two</title></book>
</library>`

	result, err := ValidateReader(g, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, result.Issues, 2, "each book should report its own missing attribute")
}
