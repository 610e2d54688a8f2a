package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/rngtools/internal/severity"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindGeneral, "general"},
		{KindElementName, "element-name"},
		{KindAttributeName, "attribute-name"},
		{KindAttributeValue, "attribute-value"},
		{KindText, "text"},
		{KindChoice, "choice"},
		{KindIncompleteType, "incomplete-type"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestIssueString(t *testing.T) {
	t.Run("error with location", func(t *testing.T) {
		issue := Issue{
			Kind:     KindElementName,
			Path:     "/library/book",
			Message:  `element "chapter" not allowed here`,
			Severity: severity.SeverityError,
			Line:     12,
			Column:   5,
		}
		assert.Equal(t, `✗ /library/book (line 12, col 5): element "chapter" not allowed here`, issue.String())
	})

	t.Run("error without location", func(t *testing.T) {
		issue := Issue{
			Kind:     KindGeneral,
			Path:     "/library",
			Message:  "element incomplete",
			Severity: severity.SeverityError,
		}
		assert.Equal(t, "✗ /library: element incomplete", issue.String())
	})

	t.Run("warning symbol", func(t *testing.T) {
		issue := Issue{
			Kind:     KindIncompleteType,
			Message:  "type ENTITY degraded to token",
			Severity: severity.SeverityWarning,
		}
		assert.Equal(t, "⚠ document: type ENTITY degraded to token", issue.String())
	})

	t.Run("info symbol", func(t *testing.T) {
		issue := Issue{
			Path:     "/doc",
			Message:  "note",
			Severity: severity.SeverityInfo,
		}
		assert.Equal(t, "ℹ /doc: note", issue.String())
	})

	t.Run("unknown severity symbol", func(t *testing.T) {
		issue := Issue{
			Path:     "/doc",
			Message:  "odd",
			Severity: severity.Severity(99),
		}
		assert.Equal(t, "? /doc: odd", issue.String())
	})
}

func TestIssueLocation(t *testing.T) {
	t.Run("file line column", func(t *testing.T) {
		issue := Issue{File: "doc.xml", Line: 3, Column: 7, Path: "/a"}
		assert.Equal(t, "doc.xml:3:7", issue.Location())
	})

	t.Run("line column only", func(t *testing.T) {
		issue := Issue{Line: 3, Column: 7, Path: "/a"}
		assert.Equal(t, "3:7", issue.Location())
	})

	t.Run("path fallback", func(t *testing.T) {
		issue := Issue{Path: "/a/b"}
		assert.Equal(t, "/a/b", issue.Location())
	})
}

func TestIssueHasLocation(t *testing.T) {
	assert.True(t, Issue{Line: 1}.HasLocation())
	assert.False(t, Issue{}.HasLocation())
}
