package stringz

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// PadSide selects which side of the value Pad fills.
type PadSide string

// Pad sides.
const (
	PadEnd   PadSide = "end"
	PadStart PadSide = "start"
	PadBoth  PadSide = "both"
)

// Affixes carries the optional prefix and suffix for Add. Empty fields are
// skipped.
type Affixes struct {
	Prefix string
	Suffix string
}

// SanitizeOptions selects which character classes Sanitize strips.
type SanitizeOptions struct {
	RemoveSpaces  bool
	RemoveDigits  bool
	RemoveSpecial bool
}

// ToUpperCase uppercases the value.
func (t *Transformer) ToUpperCase() *Transformer {
	return t.addStep("toUpperCase", func(v string) (string, error) {
		return strings.ToUpper(v), nil
	})
}

// ToLowerCase lowercases the value.
func (t *Transformer) ToLowerCase() *Transformer {
	return t.addStep("toLowerCase", func(v string) (string, error) {
		return strings.ToLower(v), nil
	})
}

// ToPascalCase rewrites the value as PascalCase. Word boundaries are
// locale-naive ASCII splits: runs of non-alphanumerics and lower-to-upper
// transitions.
func (t *Transformer) ToPascalCase() *Transformer {
	return t.addStep("toPascalCase", func(v string) (string, error) {
		return joinPascal(splitWords(v)), nil
	})
}

// ToSnakeCase rewrites the value as snake_case.
func (t *Transformer) ToSnakeCase() *Transformer {
	return t.addStep("toSnakeCase", func(v string) (string, error) {
		words := splitWords(v)
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
		return strings.Join(words, "_"), nil
	})
}

// ToCamelCase rewrites the value as camelCase.
func (t *Transformer) ToCamelCase() *Transformer {
	return t.addStep("toCamelCase", func(v string) (string, error) {
		pascal := joinPascal(splitWords(v))
		if pascal == "" {
			return "", nil
		}
		runes := []rune(pascal)
		runes[0] = unicode.ToLower(runes[0])
		return string(runes), nil
	})
}

// Trim removes leading and trailing whitespace.
func (t *Transformer) Trim() *Transformer {
	return t.addStep("trim", func(v string) (string, error) {
		return strings.TrimSpace(v), nil
	})
}

// SplitChain is the intermediate returned by Split. No step is recorded
// until one of its continuations is invoked.
type SplitChain struct {
	t   *Transformer
	sep string
}

// Split prepares to split the value around sep. The split itself is
// recorded by the continuation: TakeThatAt keeps one segment, Join rejoins
// the segments with a different separator.
func (t *Transformer) Split(sep string) *SplitChain {
	return &SplitChain{t: t, sep: sep}
}

// TakeThatAt records a step that splits the value and keeps the segment at
// index i. The step raises if i is out of range for the resulting segments.
func (s *SplitChain) TakeThatAt(i int) *Transformer {
	sep := s.sep
	return s.t.addStep("split", func(v string) (string, error) {
		parts := strings.Split(v, sep)
		if i < 0 || i >= len(parts) {
			return "", fmt.Errorf("index %d out of range for %d segments", i, len(parts))
		}
		return parts[i], nil
	})
}

// Join records a step that splits the value around the prepared separator
// and rejoins the segments with sep.
func (s *SplitChain) Join(sep string) *Transformer {
	splitSep := s.sep
	return s.t.addStep("split", func(v string) (string, error) {
		return strings.Join(strings.Split(v, splitSep), sep), nil
	})
}

// ToHex encodes the value's bytes as lowercase hexadecimal.
func (t *Transformer) ToHex() *Transformer {
	return t.addStep("toHex", func(v string) (string, error) {
		return hex.EncodeToString([]byte(v)), nil
	})
}

// ToBinary renders each byte of the value as 8 binary digits, separated by
// spaces.
func (t *Transformer) ToBinary() *Transformer {
	return t.addStep("toBinary", func(v string) (string, error) {
		parts := make([]string, len(v))
		for i := 0; i < len(v); i++ {
			parts[i] = fmt.Sprintf("%08b", v[i])
		}
		return strings.Join(parts, " "), nil
	})
}

// ToURLSafe percent-encodes the value so it can be used in a query string.
func (t *Transformer) ToURLSafe() *Transformer {
	return t.addStep("toURLSafe", func(v string) (string, error) {
		return url.QueryEscape(v), nil
	})
}

// GetCharacterAt reduces the value to the single character at index i
// (counted in runes). The step raises if i is out of range.
func (t *Transformer) GetCharacterAt(i int) *Transformer {
	return t.addStep("getCharacterAt", func(v string) (string, error) {
		runes := []rune(v)
		if i < 0 || i >= len(runes) {
			return "", fmt.Errorf("index %d out of range for length %d", i, len(runes))
		}
		return string(runes[i]), nil
	})
}

// GetRandomFrom reduces the value to one of its characters, chosen at
// random. The step raises on an empty value.
func (t *Transformer) GetRandomFrom() *Transformer {
	return t.addStep("getRandomFrom", func(v string) (string, error) {
		runes := []rune(v)
		if len(runes) == 0 {
			return "", errors.New("cannot pick from an empty string")
		}
		return string(runes[rand.IntN(len(runes))]), nil
	})
}

// Sanitize strips the character classes selected by opts. Special means
// anything that is not a letter, digit, or space.
func (t *Transformer) Sanitize(opts SanitizeOptions) *Transformer {
	return t.addStep("sanitize", func(v string) (string, error) {
		var b strings.Builder
		for _, r := range v {
			switch {
			case opts.RemoveSpaces && unicode.IsSpace(r):
			case opts.RemoveDigits && r >= '0' && r <= '9':
			case opts.RemoveSpecial && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r):
			default:
				b.WriteRune(r)
			}
		}
		return b.String(), nil
	})
}

// Anagram merges the value with other and sorts the combined characters,
// producing the canonical anagram form of the pair.
func (t *Transformer) Anagram(other string) *Transformer {
	return t.addStep("anagram", func(v string) (string, error) {
		return sortRunes(v + other), nil
	})
}

// Replace replaces the first occurrence of search with rep.
func (t *Transformer) Replace(search, rep string) *Transformer {
	return t.addStep("replace", func(v string) (string, error) {
		return strings.Replace(v, search, rep, 1), nil
	})
}

// ReplaceAll replaces every occurrence of search with rep.
func (t *Transformer) ReplaceAll(search, rep string) *Transformer {
	return t.addStep("replaceAll", func(v string) (string, error) {
		return strings.ReplaceAll(v, search, rep), nil
	})
}

// RemoveFirst deletes the first match of the regular expression pattern.
// The step raises if pattern does not compile.
func (t *Transformer) RemoveFirst(pattern string) *Transformer {
	re, compileErr := regexp.Compile(pattern)
	return t.addStep("removeFirst", func(v string) (string, error) {
		if compileErr != nil {
			return "", fmt.Errorf("invalid pattern %q: %w", pattern, compileErr)
		}
		loc := re.FindStringIndex(v)
		if loc == nil {
			return v, nil
		}
		return v[:loc[0]] + v[loc[1]:], nil
	})
}

// RemoveAll deletes every match of the regular expression pattern.
// The step raises if pattern does not compile.
func (t *Transformer) RemoveAll(pattern string) *Transformer {
	re, compileErr := regexp.Compile(pattern)
	return t.addStep("removeAll", func(v string) (string, error) {
		if compileErr != nil {
			return "", fmt.Errorf("invalid pattern %q: %w", pattern, compileErr)
		}
		return re.ReplaceAllString(v, ""), nil
	})
}

// Add wraps the value with the given affixes.
func (t *Transformer) Add(affixes Affixes) *Transformer {
	return t.addStep("add", func(v string) (string, error) {
		return affixes.Prefix + v + affixes.Suffix, nil
	})
}

// Pad grows the value to length characters by repeating char on the given
// side. An empty char pads with spaces. Padding on both sides floor-divides
// the deficit, giving the right side any odd remainder. Values already at
// or beyond length pass through unchanged.
func (t *Transformer) Pad(length int, char string, side PadSide) *Transformer {
	return t.addStep("pad", func(v string) (string, error) {
		fill := char
		if fill == "" {
			fill = " "
		}
		deficit := length - len([]rune(v))
		if deficit <= 0 {
			return v, nil
		}
		switch side {
		case PadStart:
			return padding(fill, deficit) + v, nil
		case PadBoth:
			left := deficit / 2
			return padding(fill, left) + v + padding(fill, deficit-left), nil
		case PadEnd:
			return v + padding(fill, deficit), nil
		default:
			return "", fmt.Errorf("unknown pad side %q", side)
		}
	})
}

// Randomize shuffles the value's characters.
func (t *Transformer) Randomize() *Transformer {
	return t.addStep("randomize", func(v string) (string, error) {
		runes := []rune(v)
		rand.Shuffle(len(runes), func(i, j int) {
			runes[i], runes[j] = runes[j], runes[i]
		})
		return string(runes), nil
	})
}

// Chunk splits the value into groups of size characters joined by sep.
// The step raises if size is not positive.
func (t *Transformer) Chunk(size int, sep string) *Transformer {
	return t.addStep("chunk", func(v string) (string, error) {
		if size <= 0 {
			return "", fmt.Errorf("chunk size must be positive, got %d", size)
		}
		runes := []rune(v)
		var parts []string
		for start := 0; start < len(runes); start += size {
			end := start + size
			if end > len(runes) {
				end = len(runes)
			}
			parts = append(parts, string(runes[start:end]))
		}
		return strings.Join(parts, sep), nil
	})
}

// BreakToLines rewraps the value to at most n words per line.
// The step raises if n is not positive.
func (t *Transformer) BreakToLines(n int) *Transformer {
	return t.addStep("breakToLines", func(v string) (string, error) {
		if n <= 0 {
			return "", fmt.Errorf("words per line must be positive, got %d", n)
		}
		words := strings.Fields(v)
		var lines []string
		for start := 0; start < len(words); start += n {
			end := start + n
			if end > len(words) {
				end = len(words)
			}
			lines = append(lines, strings.Join(words[start:end], " "))
		}
		return strings.Join(lines, "\n"), nil
	})
}

// Extract reduces the value to the first match of the regular expression
// pattern. The step raises if pattern does not compile or has no match.
func (t *Transformer) Extract(pattern string) *Transformer {
	re, compileErr := regexp.Compile(pattern)
	return t.addStep("extract", func(v string) (string, error) {
		if compileErr != nil {
			return "", fmt.Errorf("invalid pattern %q: %w", pattern, compileErr)
		}
		loc := re.FindStringIndex(v)
		if loc == nil {
			return "", fmt.Errorf("no match for pattern %q", pattern)
		}
		return v[loc[0]:loc[1]], nil
	})
}

// ExtractInRange reduces the value to the characters in [start, end),
// counted in runes. The step raises if the range is invalid.
func (t *Transformer) ExtractInRange(start, end int) *Transformer {
	return t.addStep("extractInRange", func(v string) (string, error) {
		runes := []rune(v)
		if start < 0 || end < start || end > len(runes) {
			return "", fmt.Errorf("range [%d, %d) out of bounds for length %d", start, end, len(runes))
		}
		return string(runes[start:end]), nil
	})
}

// ExtractWhenBetween reduces the value to the text between prefix and
// suffix, where suffix must occur strictly after the end of prefix.
// The step raises if either marker is absent or misordered.
func (t *Transformer) ExtractWhenBetween(prefix, suffix string) *Transformer {
	return t.addStep("extractWhenBetween", func(v string) (string, error) {
		return between(v, prefix, suffix)
	})
}

// EscapeString backslash-escapes every regex metacharacter in the value.
func (t *Transformer) EscapeString() *Transformer {
	return t.addStep("escapeString", func(v string) (string, error) {
		var b strings.Builder
		for _, r := range v {
			if strings.ContainsRune(regexMetaChars, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		return b.String(), nil
	})
}

// UnEscapeString removes the backslashes EscapeString inserted. Only
// backslashes directly preceding a metacharacter are removed, so the pair
// round-trips any value.
func (t *Transformer) UnEscapeString() *Transformer {
	return t.addStep("unEscapeString", func(v string) (string, error) {
		var b strings.Builder
		runes := []rune(v)
		for i := 0; i < len(runes); i++ {
			if runes[i] == '\\' && i+1 < len(runes) && strings.ContainsRune(regexMetaChars, runes[i+1]) {
				b.WriteRune(runes[i+1])
				i++
				continue
			}
			b.WriteRune(runes[i])
		}
		return b.String(), nil
	})
}

// ToHash reduces the value to its djb2 hash, rendered as a decimal string.
// The hash is deterministic and uses 32-bit wraparound arithmetic; it is
// not cryptographic.
func (t *Transformer) ToHash() *Transformer {
	return t.addStep("toHash", func(v string) (string, error) {
		return strconv.FormatUint(uint64(djb2(v)), 10), nil
	})
}

// CustomTransform records a user-supplied step. A returned error or a
// panic inside fn is wrapped as a transform evaluation error; the original
// error stays reachable via errors.Unwrap.
func (t *Transformer) CustomTransform(fn func(string) (string, error)) *Transformer {
	return t.addStep("customTransform", func(v string) (result string, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = ""
				if e, isErr := r.(error); isErr {
					err = fmt.Errorf("error evaluating transform: %w", e)
				} else {
					err = fmt.Errorf("error evaluating transform: %v", r)
				}
			}
		}()
		if fn == nil {
			return "", errors.New("error evaluating transform: nil transform function")
		}
		result, err = fn(v)
		if err != nil {
			return "", fmt.Errorf("error evaluating transform: %w", err)
		}
		return result, nil
	})
}

// regexMetaChars is the metacharacter set EscapeString and UnEscapeString
// agree on.
const regexMetaChars = `\.+*?()|[]{}^$`

// splitWords breaks s into ASCII words: runs of non-alphanumerics separate
// words, and a lower-to-upper (or digit-to-upper) transition starts a new
// one.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case !isASCIIAlnum(r):
			flush()
		case r >= 'A' && r <= 'Z' && isLowerOrDigit(prev):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()
	return words
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isLowerOrDigit(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func joinPascal(words []string) string {
	var b strings.Builder
	for _, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// padding repeats fill until it covers count characters, truncating any
// overshoot from a multi-character fill.
func padding(fill string, count int) string {
	fillRunes := []rune(fill)
	repeats := (count + len(fillRunes) - 1) / len(fillRunes)
	return string([]rune(strings.Repeat(fill, repeats))[:count])
}

func sortRunes(s string) string {
	runes := []rune(s)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

// between extracts the text bounded by prefix and suffix, requiring the
// suffix to appear strictly after the prefix's end.
func between(v, prefix, suffix string) (string, error) {
	start := strings.Index(v, prefix)
	if start < 0 {
		return "", fmt.Errorf("prefix %q not found", prefix)
	}
	innerStart := start + len(prefix)
	offset := strings.Index(v[innerStart:], suffix)
	if offset < 0 {
		return "", fmt.Errorf("suffix %q not found after prefix %q", suffix, prefix)
	}
	return v[innerStart : innerStart+offset], nil
}

// djb2 is the classic non-cryptographic rolling hash: seed 5381,
// multiply-by-33-and-add per character, with 32-bit wraparound.
func djb2(s string) uint32 {
	var h uint32 = 5381
	for _, r := range s {
		h = h*33 + uint32(r)
	}
	return h
}
