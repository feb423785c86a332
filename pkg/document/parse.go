package document

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/arthur-debert/composer-merge/pkg/errors"
)

// Parse reads a JSON document into a Value tree. The top level must be an
// object or an array; anything else fails with an ErrParse error.
func Parse(data []byte) (Value, error) {
	if !utf8.Valid(data) {
		return Value{}, errors.New(errors.ErrParse, "document is not valid UTF-8")
	}
	if !gjson.ValidBytes(data) {
		return Value{}, errors.New(errors.ErrParse, "document is not valid JSON")
	}
	if offset, ok := loneSurrogate(data); ok {
		return Value{}, errors.Newf(errors.ErrParse, "unpaired surrogate escape at offset %d", offset).
			WithDetail("offset", offset)
	}

	res := gjson.ParseBytes(data)
	if !res.IsObject() && !res.IsArray() {
		return Value{}, errors.Newf(errors.ErrParse, "top level must be an object or array, got %s", res.Type)
	}

	return fromResult(res), nil
}

func fromResult(res gjson.Result) Value {
	switch res.Type {
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.Number:
		return Number(res.Raw)
	case gjson.String:
		return String(res.Str)
	case gjson.JSON:
		if res.IsArray() {
			items := []Value{}
			res.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return List(items...)
		}
		m := Map()
		res.ForEach(func(key, item gjson.Result) bool {
			m.Set(key.Str, fromResult(item))
			return true
		})
		return m
	}
	return Null()
}

// loneSurrogate reports the offset of the first \u escape in a string that
// encodes half of a surrogate pair without its other half. data must already
// be valid JSON.
func loneSurrogate(data []byte) (int, bool) {
	inString := false
	for i := 0; i < len(data); i++ {
		switch c := data[i]; {
		case c == '"':
			inString = !inString
		case c == '\\' && inString:
			if data[i+1] != 'u' {
				i++
				continue
			}
			r := escapedRune(data, i)
			switch {
			case utf16.IsSurrogate(r) && r < 0xdc00:
				if i+12 > len(data) || data[i+6] != '\\' || data[i+7] != 'u' {
					return i, true
				}
				if utf16.DecodeRune(r, escapedRune(data, i+6)) == utf8.RuneError {
					return i, true
				}
				i += 11
			case utf16.IsSurrogate(r):
				return i, true
			default:
				i += 5
			}
		}
	}
	return 0, false
}

// escapedRune decodes the four hex digits of the \u escape starting at i
func escapedRune(data []byte, i int) rune {
	if i+6 > len(data) {
		return utf8.RuneError
	}
	n, err := strconv.ParseUint(string(data[i+2:i+6]), 16, 16)
	if err != nil {
		return utf8.RuneError
	}
	return rune(n)
}
