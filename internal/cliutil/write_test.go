package cliutil

import (
	"bytes"
	"testing"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "validated %d document%s", 2, Plural(2))
	if got := buf.String(); got != "validated 2 documents" {
		t.Errorf("Writef() = %q", got)
	}
}

func TestWritef_NoArgs(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "plain")
	if got := buf.String(); got != "plain" {
		t.Errorf("Writef() = %q", got)
	}
}

func TestPlural(t *testing.T) {
	if Plural(1) != "" {
		t.Error("Plural(1) should be empty")
	}
	if Plural(0) != "s" || Plural(2) != "s" {
		t.Error("Plural(n != 1) should be \"s\"")
	}
}

// errorWriter is a writer that always returns an error
type errorWriter struct{}

func (e errorWriter) Write(p []byte) (n int, err error) {
	return 0, &writeError{}
}

type writeError struct{}

func (e *writeError) Error() string {
	return "simulated write error"
}

func TestWritef_WriteError(t *testing.T) {
	// Writef must handle write errors gracefully rather than panicking.
	var ew errorWriter
	Writef(ew, "This will fail")
}
