package quill

// Char built-in methods, mirroring the classification and conversion
// helpers scripts expect on a single code point.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func charPredicate(name string, pred func(rune) bool) *NativeFunction {
	return method(name, 0, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(pred(c)), nil
	})
}

func charMap(name string, fn func(rune) rune) *NativeFunction {
	return method(name, 0, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		return CharVal(fn(c)), nil
	})
}

func isASCIIGraphic(c rune) bool { return c >= '!' && c <= '~' }

func isASCIIPunctuation(c rune) bool {
	return isASCIIGraphic(c) && !unicode.IsLetter(c) && !unicode.IsDigit(c)
}

var charMethods = map[string]*NativeFunction{
	"is_alphabetic":         charPredicate("is_alphabetic", unicode.IsLetter),
	"is_alphanumeric":       charPredicate("is_alphanumeric", func(c rune) bool { return unicode.IsLetter(c) || unicode.IsNumber(c) }),
	"is_ascii":              charPredicate("is_ascii", func(c rune) bool { return c <= unicode.MaxASCII }),
	"is_ascii_alphabetic":   charPredicate("is_ascii_alphabetic", func(c rune) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }),
	"is_ascii_alphanumeric": charPredicate("is_ascii_alphanumeric", func(c rune) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' }),
	"is_ascii_control":      charPredicate("is_ascii_control", func(c rune) bool { return c < 0x20 || c == 0x7f }),
	"is_ascii_digit":        charPredicate("is_ascii_digit", func(c rune) bool { return c >= '0' && c <= '9' }),
	"is_ascii_graphic":      charPredicate("is_ascii_graphic", isASCIIGraphic),
	"is_ascii_lowercase":    charPredicate("is_ascii_lowercase", func(c rune) bool { return c >= 'a' && c <= 'z' }),
	"is_ascii_punctuation":  charPredicate("is_ascii_punctuation", isASCIIPunctuation),
	"is_ascii_uppercase":    charPredicate("is_ascii_uppercase", func(c rune) bool { return c >= 'A' && c <= 'Z' }),
	"is_ascii_whitespace":   charPredicate("is_ascii_whitespace", func(c rune) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == 0x0c }),
	"is_control":            charPredicate("is_control", unicode.IsControl),
	"is_digit":              charPredicate("is_digit", func(c rune) bool { return c >= '0' && c <= '9' }),
	"is_lowercase":          charPredicate("is_lowercase", unicode.IsLower),
	"is_numeric":            charPredicate("is_numeric", unicode.IsNumber),
	"is_uppercase":          charPredicate("is_uppercase", unicode.IsUpper),
	"is_whitespace":         charPredicate("is_whitespace", unicode.IsSpace),

	"to_ascii_lowercase": charMap("to_ascii_lowercase", func(c rune) rune {
		if c >= 'A' && c <= 'Z' {
			return c + ('a' - 'A')
		}
		return c
	}),
	"to_ascii_uppercase": charMap("to_ascii_uppercase", func(c rune) rune {
		if c >= 'a' && c <= 'z' {
			return c - ('a' - 'A')
		}
		return c
	}),
	"to_lowercase": charMap("to_lowercase", unicode.ToLower),
	"to_uppercase": charMap("to_uppercase", unicode.ToUpper),

	"is_digit_in_base": method("is_digit_in_base", 1, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		base, err := wantInt(args, 1)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(digitValue(c) >= 0 && int64(digitValue(c)) < base), nil
	}),
	"escape_default": method("escape_default", 0, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		quoted := strconv.QuoteRune(c)
		return StrVal(strings.Trim(quoted, "'")), nil
	}),
	"escape_unicode": method("escape_unicode", 0, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StrVal(fmt.Sprintf("\\u{%x}", c)), nil
	}),
	"from_digit": method("from_digit", 2, func(args []Value) (Value, error) {
		digit, err := wantInt(args, 1)
		if err != nil {
			return Value{}, err
		}
		base, err := wantInt(args, 2)
		if err != nil {
			return Value{}, err
		}
		if digit < 0 || digit >= base || base < 2 || base > 36 {
			return NullVal(), nil
		}
		if digit < 10 {
			return CharVal(rune('0' + digit)), nil
		}
		return CharVal(rune('a' + digit - 10)), nil
	}),
	"len_utf8": method("len_utf8", 0, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		return IntVal(int64(utf8.RuneLen(c))), nil
	}),
	"to_string": method("to_string", 0, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StrVal(string(c)), nil
	}),
	"to_int": method("to_int", 0, func(args []Value) (Value, error) {
		c, err := wantChar(args, 0)
		if err != nil {
			return Value{}, err
		}
		return IntVal(int64(c)), nil
	}),
}

// digitValue returns the numeric value of a digit rune in bases up to
// 36, or -1 for a non-digit.
func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return -1
	}
}
