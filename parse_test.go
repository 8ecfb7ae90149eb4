package docview

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		desc  string
		name  string
		in    string
		want  []string
		multi bool
		typ   PropertyType
		ref   bool
	}{
		{"empty input", "p", "", []string{""}, false, TypeUndefined, false},
		{"plain", "p", "abc", []string{"abc"}, false, TypeUndefined, false},
		{"empty sentinel", "p", `\0`, []string{""}, false, TypeUndefined, false},
		{"empty array", "p", "[]", []string{}, true, TypeUndefined, false},
		{"array with empty value", "p", `[\0]`, []string{""}, true, TypeUndefined, false},
		{"array", "p", "[a,b]", []string{"a", "b"}, true, TypeUndefined, false},
		{"escaped comma", "p", `[a\,b,c]`, []string{"a,b", "c"}, true, TypeUndefined, false},
		{"comma in single", "p", "a,b", []string{"a,b"}, false, TypeUndefined, false},
		{"trailing empty", "p", "[a,]", []string{"a", ""}, true, TypeUndefined, false},
		{"two empties", "p", "[,]", []string{"", ""}, true, TypeUndefined, false},
		{"missing bracket", "p", "[a,b", []string{"a", "b"}, true, TypeUndefined, false},
		{"inner bracket", "p", "[a]b", []string{"a]b"}, true, TypeUndefined, false},
		{"closing bracket in value", "p", "[a]]", []string{"a]"}, true, TypeUndefined, false},
		{"leading bracket escape", "p", `\[x`, []string{"[x"}, false, TypeUndefined, false},
		{"leading brace escape", "p", `\{x`, []string{"{x"}, false, TypeUndefined, false},
		{"bracket after text", "p", "x[a]", []string{"x[a]"}, false, TypeUndefined, false},
		{"backslash", "p", `a\\b`, []string{`a\b`}, false, TypeUndefined, false},
		{"name tag", "bar", "{Name}nt:base", []string{"nt:base"}, false, TypeName, false},
		{"string tag", "p", "{String}abc", []string{"abc"}, false, TypeString, false},
		{"long array", "n", "{Long}[1,2]", []string{"1", "2"}, true, TypeLong, false},
		{"escape after tag", "p", `{Name}\{x`, []string{"{x"}, false, TypeName, false},
		{"brace after tag", "p", "{Name}{x", []string{"{x"}, false, TypeName, false},
		{"binary reference", "b", "{BinaryRef}abc:1", []string{"abc:1"}, false, TypeBinary, true},
		{"binary references", "b", "{BinaryRef}[r1,r2]", []string{"r1", "r2"}, true, TypeBinary, true},
		{"binary untouched", "b", `{Binary}\0`, []string{""}, false, TypeBinary, false},
		{"reserved name", PrimaryTypeName, "nt:base", []string{"nt:base"}, false, TypeName, false},
		{"reserved multi", MixinTypesName, "[mix:a,mix:b]", []string{"mix:a", "mix:b"}, true, TypeName, false},
		{"unterminated tag", "p", "{abc", []string{"abc"}, false, TypeUndefined, false},
		{"dangling escape", "p", `abc\`, []string{"abc"}, false, TypeUndefined, false},
		{"incomplete unicode", "p", `a\u00`, []string{"a"}, false, TypeUndefined, false},
		{"unicode", "p", `\u0041b`, []string{"Ab"}, false, TypeUndefined, false},
		{"lowercase hex", "p", `\u00e9`, []string{"\u00e9"}, false, TypeUndefined, false},
		{"surrogate pair", "p", `\uD83D\uDE00`, []string{"\U0001F600"}, false, TypeUndefined, false},
		{"lone high surrogate", "p", `\uD83Dx`, []string{"\uFFFDx"}, false, TypeUndefined, false},
		{"lone high at end", "p", `\uD83D`, []string{"\uFFFD"}, false, TypeUndefined, false},
		{"lone low surrogate", "p", `\uDE00`, []string{"\uFFFD"}, false, TypeUndefined, false},
		{"bad hex", "p", `\uZZZZ!`, []string{"\uFFFD!"}, false, TypeUndefined, false},
		{"unicode in array", "p", `[\u002C,b]`, []string{",", "b"}, true, TypeUndefined, false},
		{"sentinel inside array", "p", `[a\0,b]`, []string{"a", "b"}, true, TypeUndefined, false},
		{"multibyte", "p", "[größe,√]", []string{"größe", "√"}, true, TypeUndefined, false},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			p, err := Parse(tc.name, tc.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.in, err)
			}
			if !reflect.DeepEqual(p.Values(), tc.want) {
				t.Fatalf("values: got %#v want %#v", p.Values(), tc.want)
			}
			if p.IsMulti() != tc.multi || p.Type() != tc.typ || p.IsReference() != tc.ref || p.Name() != tc.name {
				t.Fatalf("got %v", p)
			}
		})
	}
}

func TestParseUnknownTypeTag(t *testing.T) {
	for _, in := range []string{"{NotAType}x", "{string}x", "{}x", "{BinaryReference}[a]"} {
		_, err := Parse("p", in)
		if !errors.Is(err, ErrUnknownTypeName) {
			t.Fatalf("Parse(%q): expected ErrUnknownTypeName, got %v", in, err)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustParse("p", "{Nope}x")
}

func TestRoundTrip(t *testing.T) {
	tricky := []string{
		"", "a", "a,b", "[x", "{x", "x]", `\`, `\0`, `\u0041`, "]", "[", "{", "}",
		",", "a\x01b", "\U0001F600", "\uFFFE", "tab\tnewline\n", "gr\u00f6\u00dfe",
	}
	var props []*Property
	for _, typ := range []PropertyType{TypeString, TypeName, TypePath} {
		for _, v := range tricky {
			props = append(props, MustProperty("p", []string{v}, false, typ, false))
			props = append(props, MustProperty("p", []string{v}, true, typ, false))
			props = append(props, MustProperty("p", []string{v, v}, true, typ, false))
			props = append(props, MustProperty("p", []string{"x", v}, true, typ, false))
		}
		props = append(props, MustProperty("p", nil, true, typ, false))
		props = append(props, MustProperty("p", tricky, true, typ, false))
	}
	props = append(props,
		MustProperty(PrimaryTypeName, []string{"nt:unstructured"}, false, TypeName, false),
		MustProperty(MixinTypesName, []string{"mix:a", "mix:b"}, true, TypeName, false),
		MustProperty("n", []string{"1", "-2", "3"}, true, TypeLong, false),
		MustProperty("d", []string{"2024-01-02T03:04:05.006Z"}, false, TypeDate, false),
		MustProperty("flag", []string{"true"}, false, TypeBoolean, false),
		MustProperty("b", []string{"r1", "r2"}, true, TypeBinary, true),
		MustProperty("b", []string{""}, false, TypeBinary, false),
		MustProperty("b", []string{"", ""}, true, TypeBinary, false),
		MustProperty("u", []string{"undefined"}, false, TypeUndefined, false),
	)

	for _, p := range props {
		s := p.FormatValue()
		got, err := Parse(p.Name(), s)
		if err != nil {
			t.Fatalf("%v: Parse(%q): %v", p, s, err)
		}
		want := p
		if p.Type() == TypeString {
			// String is the implied type and is not tagged.
			want = MustProperty(p.Name(), p.Values(), p.IsMulti(), TypeUndefined, p.IsReference())
		}
		if !got.Equal(want) {
			t.Fatalf("round trip of %v via %q gave %v", p, s, got)
		}
		if again := got.FormatValue(); p.Type() != TypeString && again != s {
			t.Fatalf("reformat of %q gave %q", s, again)
		}
	}
}
