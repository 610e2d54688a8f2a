package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{"v":3,"o":1,"d":["Grammar",
  ["Element", ["Name", "", "foo"],
    ["Attribute", ["Name", "", "a"], ["Text"]]],
  []]}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHandleValidate(t *testing.T) {
	schema := writeTemp(t, "schema.json", testSchema)

	t.Run("valid inline document", func(t *testing.T) {
		result, output, err := handleValidate(context.Background(), nil, validateInput{
			SchemaPath:      schema,
			DocumentContent: `<foo a="1"/>`,
		})
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.True(t, output.Valid)
		assert.Zero(t, output.ErrorCount)
	})

	t.Run("invalid document reports issues", func(t *testing.T) {
		_, output, err := handleValidate(context.Background(), nil, validateInput{
			SchemaPath:      schema,
			DocumentContent: `<foo/>`,
		})
		require.NoError(t, err)
		assert.False(t, output.Valid)
		require.NotEmpty(t, output.Issues)
		assert.Equal(t, "attribute-name", output.Issues[0].Kind)
		assert.Equal(t, len(output.Issues), output.Returned)
	})

	t.Run("document file path", func(t *testing.T) {
		doc := writeTemp(t, "doc.xml", `<foo a="x"/>`)
		_, output, err := handleValidate(context.Background(), nil, validateInput{
			SchemaPath:   schema,
			DocumentPath: doc,
		})
		require.NoError(t, err)
		assert.True(t, output.Valid)
	})

	t.Run("limit truncates issues", func(t *testing.T) {
		_, output, err := handleValidate(context.Background(), nil, validateInput{
			SchemaPath:      schema,
			DocumentContent: `<bar/>`,
			Limit:           1,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, output.Returned)
	})

	t.Run("schema path required", func(t *testing.T) {
		result, _, err := handleValidate(context.Background(), nil, validateInput{
			DocumentContent: `<foo/>`,
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})

	t.Run("exactly one document source", func(t *testing.T) {
		result, _, err := handleValidate(context.Background(), nil, validateInput{
			SchemaPath: schema,
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})

	t.Run("bad schema is a tool error", func(t *testing.T) {
		bad := writeTemp(t, "bad.json", `{"v":9}`)
		result, _, err := handleValidate(context.Background(), nil, validateInput{
			SchemaPath:      bad,
			DocumentContent: `<foo/>`,
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})
}

func TestHandleInspect(t *testing.T) {
	schema := writeTemp(t, "schema.json", testSchema)

	t.Run("summary", func(t *testing.T) {
		result, output, err := handleInspect(context.Background(), nil, inspectInput{
			SchemaPath: schema,
		})
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, 1, output.Patterns["element"])
		assert.Equal(t, 1, output.Patterns["attribute"])
		assert.Equal(t, 1, output.Patterns["text"])
		assert.Zero(t, output.Defines)
	})

	t.Run("schema path required", func(t *testing.T) {
		result, _, err := handleInspect(context.Background(), nil, inspectInput{})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})
}
