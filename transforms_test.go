package stringz

import (
	"errors"
	"strings"
	"testing"
)

func TestCaseConversions(t *testing.T) {
	t.Run("ToUpperCase", func(t *testing.T) {
		result, err := StringTransform("hello").ToUpperCase().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "HELLO" {
			t.Errorf("expected 'HELLO', got %q", result)
		}
	})

	t.Run("ToUpperCase Is Idempotent", func(t *testing.T) {
		once, err := StringTransform("MiXeD 123").ToUpperCase().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		twice, err := StringTransform("MiXeD 123").ToUpperCase().ToUpperCase().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if once != twice {
			t.Errorf("expected %q, got %q", once, twice)
		}
	})

	t.Run("ToLowerCase", func(t *testing.T) {
		result, err := StringTransform("HeLLo").ToLowerCase().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "hello" {
			t.Errorf("expected 'hello', got %q", result)
		}
	})

	t.Run("Word Splitting Cases", func(t *testing.T) {
		testCases := []struct {
			name    string
			input   string
			pascal  string
			snake   string
			camel   string
		}{
			{"spaced", "hello world", "HelloWorld", "hello_world", "helloWorld"},
			{"snake input", "foo_bar_baz", "FooBarBaz", "foo_bar_baz", "fooBarBaz"},
			{"camel input", "fooBar", "FooBar", "foo_bar", "fooBar"},
			{"kebab input", "foo-bar", "FooBar", "foo_bar", "fooBar"},
			{"digits", "chapter 2 intro", "Chapter2Intro", "chapter_2_intro", "chapter2Intro"},
			{"empty", "", "", "", ""},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				pascal, err := StringTransform(tc.input).ToPascalCase().Try()
				if err != nil {
					t.Fatalf("pascal: %v", err)
				}
				if pascal != tc.pascal {
					t.Errorf("pascal: expected %q, got %q", tc.pascal, pascal)
				}

				snake, err := StringTransform(tc.input).ToSnakeCase().Try()
				if err != nil {
					t.Fatalf("snake: %v", err)
				}
				if snake != tc.snake {
					t.Errorf("snake: expected %q, got %q", tc.snake, snake)
				}

				camel, err := StringTransform(tc.input).ToCamelCase().Try()
				if err != nil {
					t.Fatalf("camel: %v", err)
				}
				if camel != tc.camel {
					t.Errorf("camel: expected %q, got %q", tc.camel, camel)
				}
			})
		}
	})
}

func TestSplit(t *testing.T) {
	t.Run("TakeThatAt", func(t *testing.T) {
		result, err := StringTransform("a,b,c").Split(",").TakeThatAt(1).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "b" {
			t.Errorf("expected 'b', got %q", result)
		}
	})

	t.Run("TakeThatAt Out Of Range", func(t *testing.T) {
		_, err := StringTransform("a,b").Split(",").TakeThatAt(5).Try()
		var chainErr *ChainError
		if !errors.As(err, &chainErr) {
			t.Fatal("expected *ChainError")
		}
		if chainErr.Step != "split" {
			t.Errorf("expected step 'split', got %q", chainErr.Step)
		}
	})

	t.Run("Join", func(t *testing.T) {
		result, err := StringTransform("a,b,c").Split(",").Join("-").Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "a-b-c" {
			t.Errorf("expected 'a-b-c', got %q", result)
		}
	})

	t.Run("No Step Until Continuation", func(t *testing.T) {
		chain := StringTransform("a,b")
		chain.Split(",")
		if chain.Len() != 0 {
			t.Errorf("Split alone recorded %d steps", chain.Len())
		}

		chain.Split(",").TakeThatAt(0)
		if chain.Len() != 1 {
			t.Errorf("expected 1 step after continuation, got %d", chain.Len())
		}
	})
}

func TestEncodings(t *testing.T) {
	t.Run("ToHex", func(t *testing.T) {
		result, err := StringTransform("foo").ToHex().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "666f6f" {
			t.Errorf("expected '666f6f', got %q", result)
		}
	})

	t.Run("ToBinary", func(t *testing.T) {
		result, err := StringTransform("ab").ToBinary().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "01100001 01100010" {
			t.Errorf("expected '01100001 01100010', got %q", result)
		}
	})

	t.Run("ToURLSafe", func(t *testing.T) {
		result, err := StringTransform("a b&c").ToURLSafe().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "a+b%26c" {
			t.Errorf("expected 'a+b%%26c', got %q", result)
		}
	})

	t.Run("ToHash Is Deterministic djb2", func(t *testing.T) {
		first, err := StringTransform("foo").ToHash().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := StringTransform("foo").ToHash().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Errorf("hash not deterministic: %q vs %q", first, second)
		}
		// djb2("foo"): ((5381*33+102)*33+111)*33+111
		if first != "193491849" {
			t.Errorf("expected '193491849', got %q", first)
		}
	})
}

func TestCharacterAccess(t *testing.T) {
	t.Run("GetCharacterAt", func(t *testing.T) {
		result, err := StringTransform("abc").GetCharacterAt(1).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "b" {
			t.Errorf("expected 'b', got %q", result)
		}
	})

	t.Run("GetCharacterAt Out Of Range", func(t *testing.T) {
		_, err := StringTransform("abc").GetCharacterAt(3).Try()
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("GetRandomFrom Picks A Member", func(t *testing.T) {
		result, err := StringTransform("abcdef").GetRandomFrom().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result) != 1 || !strings.Contains("abcdef", result) {
			t.Errorf("expected one character of the subject, got %q", result)
		}
	})

	t.Run("GetRandomFrom Empty", func(t *testing.T) {
		_, err := StringTransform("").GetRandomFrom().Try()
		if err == nil {
			t.Fatal("expected error on empty subject")
		}
	})
}

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name     string
		opts     SanitizeOptions
		expected string
	}{
		{"spaces", SanitizeOptions{RemoveSpaces: true}, "ab1c!"},
		{"digits", SanitizeOptions{RemoveDigits: true}, "a bc!"},
		{"special", SanitizeOptions{RemoveSpecial: true}, "a b1c"},
		{"all", SanitizeOptions{RemoveSpaces: true, RemoveDigits: true, RemoveSpecial: true}, "abc"},
		{"none", SanitizeOptions{}, "a b1c!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := StringTransform("a b1c!").Sanitize(tc.opts).Try()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestReplaceAndRemove(t *testing.T) {
	t.Run("Replace First Only", func(t *testing.T) {
		result, err := StringTransform("aaa").Replace("a", "b").Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "baa" {
			t.Errorf("expected 'baa', got %q", result)
		}
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		result, err := StringTransform("aaa").ReplaceAll("a", "b").Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "bbb" {
			t.Errorf("expected 'bbb', got %q", result)
		}
	})

	t.Run("RemoveFirst", func(t *testing.T) {
		result, err := StringTransform("a1b2").RemoveFirst(`\d`).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "ab2" {
			t.Errorf("expected 'ab2', got %q", result)
		}
	})

	t.Run("RemoveFirst No Match Passes Through", func(t *testing.T) {
		result, err := StringTransform("abc").RemoveFirst(`\d`).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "abc" {
			t.Errorf("expected 'abc', got %q", result)
		}
	})

	t.Run("RemoveAll", func(t *testing.T) {
		result, err := StringTransform("a1b2").RemoveAll(`\d`).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "ab" {
			t.Errorf("expected 'ab', got %q", result)
		}
	})

	t.Run("Bad Pattern Raises", func(t *testing.T) {
		_, err := StringTransform("abc").RemoveAll(`[`).Try()
		var chainErr *ChainError
		if !errors.As(err, &chainErr) {
			t.Fatal("expected *ChainError")
		}
		if chainErr.Step != "removeAll" {
			t.Errorf("expected step 'removeAll', got %q", chainErr.Step)
		}
	})
}

func TestAddAndPad(t *testing.T) {
	t.Run("Add Prefix And Suffix", func(t *testing.T) {
		result, err := StringTransform("b").Add(Affixes{Prefix: "a", Suffix: "c"}).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "abc" {
			t.Errorf("expected 'abc', got %q", result)
		}
	})

	t.Run("Pad", func(t *testing.T) {
		testCases := []struct {
			name     string
			length   int
			char     string
			side     PadSide
			expected string
		}{
			{"both even split", 7, "*", PadBoth, "**foo**"},
			{"both odd remainder goes right", 6, "*", PadBoth, "*foo**"},
			{"start", 5, "-", PadStart, "--foo"},
			{"end", 5, "-", PadEnd, "foo--"},
			{"already long enough", 3, "-", PadEnd, "foo"},
			{"empty char pads spaces", 5, "", PadEnd, "foo  "},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				result, err := StringTransform("foo").Pad(tc.length, tc.char, tc.side).Try()
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result != tc.expected {
					t.Errorf("expected %q, got %q", tc.expected, result)
				}
			})
		}
	})

	t.Run("Pad Unknown Side Raises", func(t *testing.T) {
		_, err := StringTransform("foo").Pad(5, "-", PadSide("middle")).Try()
		if err == nil {
			t.Fatal("expected error for unknown side")
		}
	})
}

func TestShapeTransforms(t *testing.T) {
	t.Run("Randomize Is A Permutation", func(t *testing.T) {
		result, err := StringTransform("abcdef").Randomize().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sortRunes(result) != "abcdef" {
			t.Errorf("expected a permutation of 'abcdef', got %q", result)
		}
	})

	t.Run("Anagram Merges And Sorts", func(t *testing.T) {
		result, err := StringTransform("ca").Anagram("b").Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "abc" {
			t.Errorf("expected 'abc', got %q", result)
		}
	})

	t.Run("Chunk", func(t *testing.T) {
		result, err := StringTransform("abcdef").Chunk(2, "|").Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "ab|cd|ef" {
			t.Errorf("expected 'ab|cd|ef', got %q", result)
		}
	})

	t.Run("Chunk Uneven Tail", func(t *testing.T) {
		result, err := StringTransform("abcde").Chunk(2, "|").Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "ab|cd|e" {
			t.Errorf("expected 'ab|cd|e', got %q", result)
		}
	})

	t.Run("Chunk Invalid Size Raises", func(t *testing.T) {
		_, err := StringTransform("abc").Chunk(0, "|").Try()
		if err == nil {
			t.Fatal("expected error for zero size")
		}
	})

	t.Run("BreakToLines", func(t *testing.T) {
		result, err := StringTransform("a b c d e").BreakToLines(2).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "a b\nc d\ne" {
			t.Errorf("expected 'a b\\nc d\\ne', got %q", result)
		}
	})
}

func TestExtraction(t *testing.T) {
	t.Run("Extract First Match", func(t *testing.T) {
		result, err := StringTransform("abc123def").Extract(`\d+`).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "123" {
			t.Errorf("expected '123', got %q", result)
		}
	})

	t.Run("Extract No Match Raises", func(t *testing.T) {
		_, err := StringTransform("abc").Extract(`\d+`).Try()
		var chainErr *ChainError
		if !errors.As(err, &chainErr) {
			t.Fatal("expected *ChainError")
		}
		if chainErr.Step != "extract" {
			t.Errorf("expected step 'extract', got %q", chainErr.Step)
		}
	})

	t.Run("ExtractInRange", func(t *testing.T) {
		result, err := StringTransform("abcdef").ExtractInRange(1, 4).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "bcd" {
			t.Errorf("expected 'bcd', got %q", result)
		}
	})

	t.Run("ExtractInRange Invalid Raises", func(t *testing.T) {
		_, err := StringTransform("abc").ExtractInRange(2, 10).Try()
		if err == nil {
			t.Fatal("expected error for out-of-bounds range")
		}
	})

	t.Run("ExtractWhenBetween", func(t *testing.T) {
		result, err := StringTransform("<a>x</a>").ExtractWhenBetween("<a>", "</a>").Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "x" {
			t.Errorf("expected 'x', got %q", result)
		}
	})

	t.Run("ExtractWhenBetween Missing Or Misordered", func(t *testing.T) {
		testCases := []struct {
			name    string
			subject string
		}{
			{"missing prefix", "x</a>"},
			{"missing suffix", "<a>x"},
			{"suffix before prefix", "</a>x<a>"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := StringTransform(tc.subject).ExtractWhenBetween("<a>", "</a>").Try()
				if err == nil {
					t.Fatal("expected error")
				}
			})
		}
	})
}

func TestEscaping(t *testing.T) {
	t.Run("EscapeString", func(t *testing.T) {
		result, err := StringTransform("a.b*c").EscapeString().Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != `a\.b\*c` {
			t.Errorf("expected 'a\\.b\\*c', got %q", result)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		subjects := []string{"a.b*c", `(x|y)+`, `plain`, `[a-z]{2}$`, `back\slash`}
		for _, subject := range subjects {
			result, err := StringTransform(subject).EscapeString().UnEscapeString().Try()
			if err != nil {
				t.Fatalf("%q: unexpected error: %v", subject, err)
			}
			if result != subject {
				t.Errorf("round trip broke %q: got %q", subject, result)
			}
		}
	})
}

func TestCustomTransform(t *testing.T) {
	t.Run("Applies The Function", func(t *testing.T) {
		result, err := StringTransform("ab").CustomTransform(func(v string) (string, error) {
			return v + v, nil
		}).Try()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "abab" {
			t.Errorf("expected 'abab', got %q", result)
		}
	})

	t.Run("Wraps Returned Errors", func(t *testing.T) {
		sentinel := errors.New("boom")
		_, err := StringTransform("x").CustomTransform(func(string) (string, error) {
			return "", sentinel
		}).Try()

		if !strings.Contains(err.Error(), "error evaluating transform: boom") {
			t.Errorf("unexpected message: %v", err)
		}
		if !errors.Is(err, sentinel) {
			t.Error("original error should stay reachable via errors.Is")
		}
	})

	t.Run("Wraps Panics", func(t *testing.T) {
		_, err := StringTransform("x").CustomTransform(func(string) (string, error) {
			panic("x")
		}).Try()

		if !strings.Contains(err.Error(), "error evaluating transform: x") {
			t.Errorf("unexpected message: %v", err)
		}
	})

	t.Run("Nil Function Raises", func(t *testing.T) {
		_, err := StringTransform("x").CustomTransform(nil).Try()
		if err == nil {
			t.Fatal("expected error for nil function")
		}
	})
}
