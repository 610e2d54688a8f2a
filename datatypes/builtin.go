package datatypes

// The built-in Relax NG library has exactly two types. Neither accepts
// parameters: facets belong to the XSD library.
//
//   - string compares values with whitespace preserved
//   - token collapses whitespace before comparing
func init() {
	parseIdentity := func(_ *simpleType, norm string, _ *Context) (Value, error) {
		return norm, nil
	}
	lib := newLibrary(BuiltinLibrary, []*simpleType{
		{
			name:       "string",
			builtin:    true,
			whiteSpace: wsPreserve,
			parse:      parseIdentity,
		},
		{
			name:       "token",
			builtin:    true,
			whiteSpace: wsCollapse,
			parse:      parseIdentity,
		},
	})
	libraries[lib.uri] = lib
}
