package stringz

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// PhonePreset selects the regional rule IsPhone applies. The enumeration
// is closed; PhoneDefault has no generic rule and always fails.
type PhonePreset string

// Phone presets.
const (
	PhoneUS      PhonePreset = "US"
	PhoneUG      PhonePreset = "UG"
	PhoneDefault PhonePreset = "DEFAULT"
)

// Precompiled predicate patterns. All are locale-naive ASCII rules.
var (
	alphaRE    = regexp.MustCompile(`^[A-Za-z]+$`)
	alphaNumRE = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	upperRE    = regexp.MustCompile(`^[A-Z]+$`)
	lowerRE    = regexp.MustCompile(`^[a-z]+$`)
	digitRE    = regexp.MustCompile(`^[0-9]+$`)
	numericRE  = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	emailRE    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlRE      = regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#][^\s]*$`)
	urlSafeRE  = regexp.MustCompile(`^[A-Za-z0-9\-._~]*$`)
	base64RE   = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)
	phoneUSRE  = regexp.MustCompile(`^(\+1[ -]?)?(\([0-9]{3}\)|[0-9]{3})[ -]?[0-9]{3}[ -]?[0-9]{4}$`)
	phoneUGRE  = regexp.MustCompile(`^(\+?256|0)7[0-9]{8}$`)
)

// Has passes when the subject contains str.
func (a *Asserter) Has(str string) *Asserter {
	return a.addCheck("has", func(v string) (bool, error) {
		return strings.Contains(v, str), nil
	})
}

// DoesNotHave passes when the subject does not contain str.
func (a *Asserter) DoesNotHave(str string) *Asserter {
	return a.addCheck("doesNotHave", func(v string) (bool, error) {
		return !strings.Contains(v, str), nil
	})
}

// StartsWith passes when the subject begins with str.
func (a *Asserter) StartsWith(str string) *Asserter {
	return a.addCheck("startsWith", func(v string) (bool, error) {
		return strings.HasPrefix(v, str), nil
	})
}

// EndsWith passes when the subject ends with str.
func (a *Asserter) EndsWith(str string) *Asserter {
	return a.addCheck("endsWith", func(v string) (bool, error) {
		return strings.HasSuffix(v, str), nil
	})
}

// IsExactly passes when the subject equals str.
func (a *Asserter) IsExactly(str string) *Asserter {
	return a.addCheck("isExactly", func(v string) (bool, error) {
		return v == str, nil
	})
}

// IsAlpha passes when the subject is one or more ASCII letters.
func (a *Asserter) IsAlpha() *Asserter {
	return a.addCheck("isAlpha", func(v string) (bool, error) {
		return alphaRE.MatchString(v), nil
	})
}

// IsAlphaNumeric passes when the subject is one or more ASCII letters or
// digits.
func (a *Asserter) IsAlphaNumeric() *Asserter {
	return a.addCheck("isAlphaNumeric", func(v string) (bool, error) {
		return alphaNumRE.MatchString(v), nil
	})
}

// HasAllUppercase passes when the subject consists solely of uppercase
// ASCII letters.
func (a *Asserter) HasAllUppercase() *Asserter {
	return a.addCheck("hasAllUppercase", func(v string) (bool, error) {
		return upperRE.MatchString(v), nil
	})
}

// HasAllLowercase passes when the subject consists solely of lowercase
// ASCII letters.
func (a *Asserter) HasAllLowercase() *Asserter {
	return a.addCheck("hasAllLowercase", func(v string) (bool, error) {
		return lowerRE.MatchString(v), nil
	})
}

// IsUpperCase passes when the subject equals its uppercase form.
func (a *Asserter) IsUpperCase() *Asserter {
	return a.addCheck("isUpperCase", func(v string) (bool, error) {
		return v == strings.ToUpper(v), nil
	})
}

// IsLowerCase passes when the subject equals its lowercase form.
func (a *Asserter) IsLowerCase() *Asserter {
	return a.addCheck("isLowerCase", func(v string) (bool, error) {
		return v == strings.ToLower(v), nil
	})
}

// IsDigit passes when the subject is one or more ASCII digits.
func (a *Asserter) IsDigit() *Asserter {
	return a.addCheck("isDigit", func(v string) (bool, error) {
		return digitRE.MatchString(v), nil
	})
}

// IsNumeric passes when the subject is a plain decimal number, optionally
// signed and with a fractional part.
func (a *Asserter) IsNumeric() *Asserter {
	return a.addCheck("isNumeric", func(v string) (bool, error) {
		return numericRE.MatchString(v), nil
	})
}

// IsWhitespace passes when the subject is non-empty and contains only
// whitespace.
func (a *Asserter) IsWhitespace() *Asserter {
	return a.addCheck("isWhitespace", func(v string) (bool, error) {
		return v != "" && strings.TrimSpace(v) == "", nil
	})
}

// IsEmail passes when the subject looks like an email address.
func (a *Asserter) IsEmail() *Asserter {
	return a.addCheck("isEmail", func(v string) (bool, error) {
		return emailRE.MatchString(v), nil
	})
}

// IsUrl passes when the subject looks like an http, https, or ftp URL.
func (a *Asserter) IsUrl() *Asserter {
	return a.addCheck("isUrl", func(v string) (bool, error) {
		return urlRE.MatchString(v), nil
	})
}

// IsUrlSafe passes when the subject contains only unreserved URL
// characters.
func (a *Asserter) IsUrlSafe() *Asserter {
	return a.addCheck("isUrlSafe", func(v string) (bool, error) {
		return urlSafeRE.MatchString(v), nil
	})
}

// IsPhone passes when the subject matches the preset's phone format.
// PhoneDefault, and any preset outside the enumeration, always fails: no
// generic phone rule is defined.
func (a *Asserter) IsPhone(preset PhonePreset) *Asserter {
	return a.addCheck("isPhone", func(v string) (bool, error) {
		switch preset {
		case PhoneUS:
			return phoneUSRE.MatchString(v), nil
		case PhoneUG:
			return phoneUGRE.MatchString(v), nil
		default:
			return false, nil
		}
	})
}

// IsNumberConvertible passes when the subject parses as a floating-point
// number.
func (a *Asserter) IsNumberConvertible() *Asserter {
	return a.addCheck("isNumberConvertible", func(v string) (bool, error) {
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil, nil
	})
}

// PassesRegex passes when the subject matches the regular expression
// pattern. The check raises if pattern does not compile.
func (a *Asserter) PassesRegex(pattern string) *Asserter {
	re, compileErr := regexp.Compile(pattern)
	return a.addCheck("passesRegex", func(v string) (bool, error) {
		if compileErr != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, compileErr)
		}
		return re.MatchString(v), nil
	})
}

// FailsRegex passes when the subject does not match the regular expression
// pattern. The check raises if pattern does not compile.
func (a *Asserter) FailsRegex(pattern string) *Asserter {
	re, compileErr := regexp.Compile(pattern)
	return a.addCheck("failsRegex", func(v string) (bool, error) {
		if compileErr != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, compileErr)
		}
		return !re.MatchString(v), nil
	})
}

// AnyOf passes when the subject equals any of values.
func (a *Asserter) AnyOf(values ...string) *Asserter {
	return a.addCheck("anyOf", func(v string) (bool, error) {
		for _, candidate := range values {
			if v == candidate {
				return true, nil
			}
		}
		return false, nil
	})
}

// LengthIs passes when the subject is exactly n characters long (counted
// in runes).
func (a *Asserter) LengthIs(n int) *Asserter {
	return a.addCheck("lengthIs", func(v string) (bool, error) {
		return len([]rune(v)) == n, nil
	})
}

// LengthAtLeast passes when the subject is at least n characters long.
func (a *Asserter) LengthAtLeast(n int) *Asserter {
	return a.addCheck("lengthAtLeast", func(v string) (bool, error) {
		return len([]rune(v)) >= n, nil
	})
}

// LengthAtMost passes when the subject is at most n characters long.
func (a *Asserter) LengthAtMost(n int) *Asserter {
	return a.addCheck("lengthAtMost", func(v string) (bool, error) {
		return len([]rune(v)) <= n, nil
	})
}

// IsBetween passes when the subject contains prefix followed, strictly
// after the prefix's end, by suffix.
func (a *Asserter) IsBetween(prefix, suffix string) *Asserter {
	return a.addCheck("isBetween", func(v string) (bool, error) {
		_, err := between(v, prefix, suffix)
		return err == nil, nil
	})
}

// HasNoEmoji passes when the subject contains no emoji code points.
func (a *Asserter) HasNoEmoji() *Asserter {
	return a.addCheck("hasNoEmoji", func(v string) (bool, error) {
		for _, r := range v {
			if isEmoji(r) {
				return false, nil
			}
		}
		return true, nil
	})
}

// Anagram passes when the subject and other contain exactly the same
// characters.
func (a *Asserter) Anagram(other string) *Asserter {
	return a.addCheck("anagram", func(v string) (bool, error) {
		return sortRunes(v) == sortRunes(other), nil
	})
}

// IsPalindrome passes when the subject reads the same forwards and
// backwards.
func (a *Asserter) IsPalindrome() *Asserter {
	return a.addCheck("isPalindrome", func(v string) (bool, error) {
		runes := []rune(v)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			if runes[i] != runes[j] {
				return false, nil
			}
		}
		return true, nil
	})
}

// HasUniqueCharacters passes when no character repeats in the subject.
func (a *Asserter) HasUniqueCharacters() *Asserter {
	return a.addCheck("hasUniqueCharacters", func(v string) (bool, error) {
		seen := make(map[rune]struct{}, len(v))
		for _, r := range v {
			if _, dup := seen[r]; dup {
				return false, nil
			}
			seen[r] = struct{}{}
		}
		return true, nil
	})
}

// ValueAtClause is the intermediate returned by WhereValueAt. No check is
// recorded until Is is invoked.
type ValueAtClause struct {
	a     *Asserter
	index int
}

// WhereValueAt prepares a positional check on the character at index i
// (counted in runes). The check itself is recorded by Is.
func (a *Asserter) WhereValueAt(i int) *ValueAtClause {
	return &ValueAtClause{a: a, index: i}
}

// Is records the positional check: it passes when the character at the
// prepared index equals val, and raises if the index is out of range.
func (c *ValueAtClause) Is(val string) *Asserter {
	index := c.index
	return c.a.addCheck("whereValueAt", func(v string) (bool, error) {
		runes := []rune(v)
		if index < 0 || index >= len(runes) {
			return false, fmt.Errorf("index %d out of range for length %d", index, len(runes))
		}
		return string(runes[index]) == val, nil
	})
}

// WordCountClause is the intermediate returned by WordCount. No check is
// recorded until Is is invoked.
type WordCountClause struct {
	a *Asserter
}

// WordCount prepares a check on the subject's word count. The check itself
// is recorded by Is.
func (a *Asserter) WordCount() *WordCountClause {
	return &WordCountClause{a: a}
}

// Is records the word-count check: it passes when the subject contains
// exactly n whitespace-separated words.
func (c *WordCountClause) Is(n int) *Asserter {
	return c.a.addCheck("wordCount", func(v string) (bool, error) {
		return len(strings.Fields(v)) == n, nil
	})
}

// IsBase64 passes when the subject is canonical standard base64.
func (a *Asserter) IsBase64() *Asserter {
	return a.addCheck("isBase64", func(v string) (bool, error) {
		if v == "" || len(v)%4 != 0 || !base64RE.MatchString(v) {
			return false, nil
		}
		_, err := base64.StdEncoding.DecodeString(v)
		return err == nil, nil
	})
}

// IsStrongPassword passes when the subject is at least eight characters
// and mixes uppercase, lowercase, a digit, and a special character.
func (a *Asserter) IsStrongPassword() *Asserter {
	return a.addCheck("isStrongPassword", func(v string) (bool, error) {
		if len([]rune(v)) < 8 {
			return false, nil
		}
		var hasUpper, hasLower, hasDigit, hasSpecial bool
		for _, r := range v {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			case unicode.IsDigit(r):
				hasDigit = true
			default:
				hasSpecial = true
			}
		}
		return hasUpper && hasLower && hasDigit && hasSpecial, nil
	})
}

// CustomCheck records a user-supplied predicate. A returned error or a
// panic inside fn is wrapped as a predicate evaluation error; the original
// error stays reachable via errors.Unwrap.
func (a *Asserter) CustomCheck(fn func(string) (bool, error)) *Asserter {
	return a.addCheck("customCheck", func(v string) (ok bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
				if e, isErr := r.(error); isErr {
					err = fmt.Errorf("error evaluating predicate: %w", e)
				} else {
					err = fmt.Errorf("error evaluating predicate: %v", r)
				}
			}
		}()
		if fn == nil {
			return false, errors.New("error evaluating predicate: nil check function")
		}
		ok, err = fn(v)
		if err != nil {
			return false, fmt.Errorf("error evaluating predicate: %w", err)
		}
		return ok, nil
	})
}

// isEmoji reports whether r falls in the common emoji blocks: pictographs
// and symbols, dingbats, regional indicators, and the variation selector.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF:
		return true
	case r == 0xFE0F || r == 0x200D:
		return true
	}
	return false
}
