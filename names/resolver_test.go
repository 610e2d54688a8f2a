package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverImplicitBindings(t *testing.T) {
	r := NewResolver()

	name, err := r.ResolveName("xml:lang", true)
	require.NoError(t, err)
	assert.Equal(t, ExpandedName{NS: XMLNamespace, Local: "lang"}, name)

	name, err = r.ResolveName("xmlns:foo", true)
	require.NoError(t, err)
	assert.Equal(t, ExpandedName{NS: XMLNSNamespace, Local: "foo"}, name)
}

func TestResolverElementVsAttributeDefault(t *testing.T) {
	r := NewResolver()
	r.EnterContext()
	r.DefinePrefix("", "urn:default")

	// Unprefixed element takes the default namespace.
	name, err := r.ResolveName("book", false)
	require.NoError(t, err)
	assert.Equal(t, ExpandedName{NS: "urn:default", Local: "book"}, name)

	// Unprefixed attribute has no namespace.
	name, err = r.ResolveName("id", true)
	require.NoError(t, err)
	assert.Equal(t, ExpandedName{NS: "", Local: "id"}, name)
}

func TestResolverScoping(t *testing.T) {
	r := NewResolver()
	r.EnterContext()
	r.DefinePrefix("p", "urn:outer")

	r.EnterContext()
	r.DefinePrefix("p", "urn:inner")

	name, err := r.ResolveName("p:x", false)
	require.NoError(t, err)
	assert.Equal(t, "urn:inner", name.NS)

	require.NoError(t, r.LeaveContext())

	name, err = r.ResolveName("p:x", false)
	require.NoError(t, err)
	assert.Equal(t, "urn:outer", name.NS)

	require.NoError(t, r.LeaveContext())

	_, err = r.ResolveName("p:x", false)
	assert.Error(t, err, "binding should be gone once its context is left")
}

func TestResolverUnknownPrefix(t *testing.T) {
	r := NewResolver()
	_, err := r.ResolveName("nope:x", false)
	assert.ErrorContains(t, err, `unknown prefix "nope"`)
}

func TestResolverMalformedQName(t *testing.T) {
	r := NewResolver()

	for _, qname := range []string{"a:b:c", ":x", "a:"} {
		t.Run(qname, func(t *testing.T) {
			_, err := r.ResolveName(qname, false)
			assert.Error(t, err)
		})
	}
}

func TestResolverLeaveRootContext(t *testing.T) {
	r := NewResolver()
	assert.Error(t, r.LeaveContext())
}

func TestResolverUndeclareDefault(t *testing.T) {
	r := NewResolver()
	r.EnterContext()
	r.DefinePrefix("", "urn:default")
	r.EnterContext()
	r.DefinePrefix("", "")

	name, err := r.ResolveName("book", false)
	require.NoError(t, err)
	assert.Equal(t, "", name.NS, "default namespace should be undeclared")
}

func TestResolverPrefixFromURI(t *testing.T) {
	r := NewResolver()
	r.EnterContext()
	r.DefinePrefix("a", "urn:one")
	r.EnterContext()
	r.DefinePrefix("b", "urn:one")

	prefix, ok := r.PrefixFromURI("urn:one")
	require.True(t, ok)
	assert.Equal(t, "b", prefix, "innermost binding wins")

	_, ok = r.PrefixFromURI("urn:absent")
	assert.False(t, ok)
}

func TestResolverPrefixFromURIShadowed(t *testing.T) {
	r := NewResolver()
	r.EnterContext()
	r.DefinePrefix("p", "urn:one")
	r.EnterContext()
	r.DefinePrefix("p", "urn:two")

	// "p" now means urn:two, so it must not be reported for urn:one.
	_, ok := r.PrefixFromURI("urn:one")
	assert.False(t, ok)
}

func TestResolverClone(t *testing.T) {
	r := NewResolver()
	r.EnterContext()
	r.DefinePrefix("p", "urn:one")

	clone := r.Clone()
	clone.DefinePrefix("p", "urn:two")

	name, err := r.ResolveName("p:x", false)
	require.NoError(t, err)
	assert.Equal(t, "urn:one", name.NS, "clone mutation must not affect the original")

	name, err = clone.ResolveName("p:x", false)
	require.NoError(t, err)
	assert.Equal(t, "urn:two", name.NS)
}

func TestResolverDepth(t *testing.T) {
	r := NewResolver()
	assert.Equal(t, 1, r.Depth())
	r.EnterContext()
	assert.Equal(t, 2, r.Depth())
	require.NoError(t, r.LeaveContext())
	assert.Equal(t, 1, r.Depth())
}
