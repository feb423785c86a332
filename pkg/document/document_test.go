package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/composer-merge/pkg/document"
	"github.com/arthur-debert/composer-merge/pkg/errors"
)

const composerJSON = `{
    "name": "acme/app",
    "description": "Ünïcødé app / with slashes",
    "require": {
        "php": ">=8.1",
        "monolog/monolog": "^3.0"
    },
    "autoload": {
        "psr-4": {
            "Acme\\": "src/"
        }
    },
    "keywords": [],
    "extra": {},
    "minimum-stability": null,
    "prefer-stable": true,
    "config": {
        "process-timeout": 600,
        "ratio": 1.50
    }
}`

func TestParse_RoundTrip(t *testing.T) {
	v, err := document.Parse([]byte(composerJSON))
	require.NoError(t, err)

	out, err := document.Marshal(v, "    ")
	require.NoError(t, err)
	assert.Equal(t, composerJSON, out)
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	v, err := document.Parse([]byte(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, v.Keys())
}

func TestParse_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	v, err := document.Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Keys())

	a, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", a.Literal())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "truncated", input: `{"a": 1`},
		{name: "trailing comma", input: `{"a": 1,}`},
		{name: "string root", input: `"hello"`},
		{name: "number root", input: `42`},
		{name: "null root", input: `null`},
		{name: "bool root", input: `true`},
		{name: "invalid utf-8", input: "{\"a\": \"\xff\xfe\"}"},
		{name: "lone high surrogate", input: `{"a": "\ud800"}`},
		{name: "lone low surrogate", input: `{"a": "\udc00"}`},
		{name: "high surrogate before other escape", input: `{"a": "\ud800\u0041"}`},
		{name: "lone surrogate in key", input: `{"\uDBFF": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := document.Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
		})
	}
}

func TestParse_SurrogateEscapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"pair", `{"a": "\ud83d\ude00"}`, "\U0001F600"},
		{"escaped backslash", `{"a": "\\ud800"}`, `\ud800`},
		{"plain escape", `{"a": "\u00e9"}`, "\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := document.Parse([]byte(tt.input))
			require.NoError(t, err)
			a, _ := v.Get("a")
			assert.Equal(t, tt.expected, a.Str())
		})
	}
}

func TestParse_Bools(t *testing.T) {
	v, err := document.Parse([]byte(`[true, false]`))
	require.NoError(t, err)
	require.Len(t, v.Items(), 2)
	assert.True(t, v.Items()[0].BoolValue())
	assert.False(t, v.Items()[1].BoolValue())

	out, err := document.MarshalCompact(v)
	require.NoError(t, err)
	assert.Equal(t, `[true,false]`, out)
}

func TestParse_ListRoot(t *testing.T) {
	v, err := document.Parse([]byte(`[1, "two", null]`))
	require.NoError(t, err)
	require.True(t, v.IsList())
	require.Len(t, v.Items(), 3)
	assert.Equal(t, document.KindNumber, v.Items()[0].Kind())
	assert.Equal(t, "two", v.Items()[1].Str())
	assert.True(t, v.Items()[2].IsNull())
}

func TestMarshal_IndentUnits(t *testing.T) {
	v := document.Map(
		document.Entry{Key: "a", Value: document.List(document.Number("1"), document.Bool(false))},
		document.Entry{Key: "b", Value: document.Map()},
	)

	twoSpaces, err := document.Marshal(v, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    false\n  ],\n  \"b\": {}\n}", twoSpaces)

	tabs, err := document.Marshal(v, "\t")
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": [\n\t\t1,\n\t\tfalse\n\t],\n\t\"b\": {}\n}", tabs)
}

func TestMarshalCompact(t *testing.T) {
	v := document.Map(
		document.Entry{Key: "name", Value: document.String("vendor/pkg")},
		document.Entry{Key: "require", Value: document.Map(
			document.Entry{Key: "php", Value: document.String(">=7")},
		)},
		document.Entry{Key: "tags", Value: document.List(document.String("a"), document.String("b"))},
	)

	out, err := document.MarshalCompact(v)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"vendor/pkg","require":{"php":">=7"},"tags":["a","b"]}`, out)
}

func TestMarshal_Escaping(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "slash", input: "a/b", want: `"a/b"`},
		{name: "unicode", input: "héllo ✓", want: `"héllo ✓"`},
		{name: "quote and backslash", input: `say "hi" \o/`, want: `"say \"hi\" \\o/"`},
		{name: "newline and tab", input: "a\nb\tc", want: `"a\nb\tc"`},
		{name: "control character", input: "\x01", want: `"\u0001"`},
		{name: "line separator", input: "\u2028", want: `"\u2028"`},
		{name: "html characters", input: "<a href='x'>&</a>", want: `"<a href='x'>&</a>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := document.MarshalCompact(document.String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMarshal_ConflictWithoutWriter(t *testing.T) {
	v := document.Map(document.Entry{Key: "a", Value: document.Conflict(0)})
	_, err := document.Marshal(v, "    ")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    document.Value
		b    document.Value
		want bool
	}{
		{name: "nulls", a: document.Null(), b: document.Null(), want: true},
		{name: "null vs false", a: document.Null(), b: document.Bool(false), want: false},
		{name: "number literals differ", a: document.Number("1"), b: document.Number("1.0"), want: false},
		{name: "string vs number", a: document.String("1"), b: document.Number("1"), want: false},
		{
			name: "map order ignored",
			a: document.Map(
				document.Entry{Key: "a", Value: document.Number("1")},
				document.Entry{Key: "b", Value: document.Number("2")},
			),
			b: document.Map(
				document.Entry{Key: "b", Value: document.Number("2")},
				document.Entry{Key: "a", Value: document.Number("1")},
			),
			want: true,
		},
		{
			name: "map extra key",
			a:    document.Map(document.Entry{Key: "a", Value: document.Null()}),
			b: document.Map(
				document.Entry{Key: "a", Value: document.Null()},
				document.Entry{Key: "b", Value: document.Null()},
			),
			want: false,
		},
		{
			name: "list order matters",
			a:    document.List(document.String("a"), document.String("b")),
			b:    document.List(document.String("b"), document.String("a")),
			want: false,
		},
		{name: "empty list vs empty map", a: document.List(), b: document.Map(), want: false},
		{name: "same conflict", a: document.Conflict(2), b: document.Conflict(2), want: true},
		{name: "different conflict", a: document.Conflict(1), b: document.Conflict(2), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, document.Equal(tt.a, tt.b))
		})
	}
}

func TestSlot(t *testing.T) {
	assert.True(t, document.Absent().Equal(document.Absent()))
	assert.False(t, document.Absent().Equal(document.Present(document.Null())),
		"an absent key must not equal a present null")
	assert.True(t, document.Present(document.String("x")).Equal(document.Present(document.String("x"))))

	m := document.Map(document.Entry{Key: "k", Value: document.Null()})
	assert.True(t, m.Lookup("k").Present)
	assert.False(t, m.Lookup("missing").Present)
	assert.False(t, document.String("x").Lookup("k").Present)
}

func TestClone(t *testing.T) {
	orig := document.Map(document.Entry{Key: "a", Value: document.Number("1")})
	cp := orig.Clone()
	cp.Set("b", document.Number("2"))

	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, 2, cp.Len())
}
