// Package docview implements the enhanced document view syntax for content
// repository property values.
//
// In a document view every property of a node is an XML attribute. The
// enhanced syntax keeps the property type, multiplicity and binary
// references inside that single attribute value:
//
//	prop  := [ "{" type "}" ] ( value | "[" [ value { "," value } ] "]" )
//	type  := type name | "BinaryRef"
//	value := characters, with "\\", "\,", "\[", "\{", "\uHHHH" and "\0" escapes
//
// The type tag is left out for String properties and for jcr:primaryType and
// jcr:mixinTypes. The escape \0 stands for a property holding exactly one
// empty value, which distinguishes it from a multi-value property with no
// values.
//
// # Basic Usage
//
// Writing a property value:
//
//	p, err := docview.FromValues("tags", []docview.Value{
//		docview.StringValue("b"), docview.StringValue("a,c"),
//	}, docview.TypeString, true, docview.WithSort(true))
//	s := p.FormatValue() // [a\,c,b]
//
// Reading it back and applying it to a repository node:
//
//	p, err := docview.Parse("tags", s)
//	changed, err := p.Apply(ctx, node)
//
// Parse is lenient about malformed brackets and escapes, and only fails for
// an unknown type tag.
//
// # Bundles
//
// EncodeBundle and DecodeBundle store the properties of one node as a
// compact, optionally compressed container of name and docview string pairs.
package docview
