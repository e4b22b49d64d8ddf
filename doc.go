// Package stringz provides fluent, lazily-evaluated chains for transforming
// and asserting strings.
//
// # Overview
//
// stringz records a sequence of named string operations without executing
// them, then evaluates the whole chain on demand with a single Try call.
// Two symmetric builders share one design:
//
//   - Transformer: string -> string steps, built with StringTransform
//   - Asserter: string -> bool checks, built with AssertThat
//
// Calling a catalog method never runs the operation; it appends a named step
// and returns the same builder so calls compose. Evaluation is a fail-fast
// left fold over the recorded steps: the first error (or, for assertions,
// the first false result) stops the chain.
//
//	out, err := stringz.StringTransform("  hello world  ").
//	    Trim().
//	    ToPascalCase().
//	    Try()
//	// out: "HelloWorld"
//
//	ok, err := stringz.AssertThat("foobar").
//	    IsNot().Has("baz").
//	    Has("foo").
//	    Try()
//	// ok: true
//
// # Error Recovery
//
// TryWith accepts a handler that receives a *ChainError identifying exactly
// which step failed and the value the chain held immediately before that
// step. With a handler, the chain result is the zero value and ok == false
// instead of a returned error:
//
//	out, ok := stringz.StringTransform("abc").
//	    Extract(`\d+`).
//	    TryWith(func(e *stringz.ChainError) {
//	        log.Printf("step %s failed on %q: %v", e.Step, e.Value, e.Err)
//	    })
//	// out: "", ok: false, handler called with Step "extract", Value "abc"
//
// For assertions this distinguishes "evaluated false" (false, true) from
// "could not be evaluated" (false, false).
//
// # Mode Bridges
//
// A chain can switch modes mid-expression. Transformer.AssertThat evaluates
// the transform steps and seeds a new assertion chain with the result;
// Asserter.StringTransform requires every check to pass and seeds a new
// transform chain with the original subject. Bridge failures are fatal at
// the seam: they panic with a *BridgeError and are never delegated to a
// handler.
//
//	out, err := stringz.AssertThat("foo").
//	    IsExactly("foo").
//	    StringTransform().
//	    ToUpperCase().
//	    Try()
//	// out: "FOO"
//
// # Observability
//
// Both builders carry the same observability surface as any connector:
// a metricz registry (processed/success/failure counters, step gauges),
// tracez spans for the evaluation and each step, and hookz events via
// OnStep and OnComplete. Time is supplied by an injectable clockz.Clock,
// so tests can drive timestamps with a fake clock.
//
// # Concurrency
//
// Each chain owns its own step list, subject, and negation flag; there is
// no package-level state. A chain is not safe for concurrent mutation, but
// independent chains never interfere with each other.
package stringz

// Name identifies a step in a chain. Step names are catalog keys ("extract",
// "isEmail") and appear in errors, events, and span tags.
type Name = string
