package stringz

import (
	"context"
	"strconv"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the assertion chain.
const (
	// Metrics.
	AssertProcessedTotal = metricz.Key("assert.processed.total")
	AssertPassedTotal    = metricz.Key("assert.passed.total")
	AssertFailedTotal    = metricz.Key("assert.failed.total")
	AssertErrorsTotal    = metricz.Key("assert.errors.total")
	AssertStepsCompleted = metricz.Key("assert.steps.completed")
	AssertStepsTotal     = metricz.Key("assert.steps.total")
	AssertDurationMs     = metricz.Key("assert.duration.ms")

	// Spans.
	AssertTrySpan  = tracez.Key("assert.try")
	AssertStepSpan = tracez.Key("assert.step")

	// Tags.
	AssertTagStepCount  = tracez.Tag("assert.step_count")
	AssertTagStepNumber = tracez.Tag("assert.step_number")
	AssertTagStepName   = tracez.Tag("assert.step_name")
	AssertTagNegated    = tracez.Tag("assert.negated")
	AssertTagResult     = tracez.Tag("assert.result")
	AssertTagError      = tracez.Tag("assert.error")

	// Hook event keys.
	AssertEventStepComplete = hookz.Key("assert.step_complete")
	AssertEventComplete     = hookz.Key("assert.complete")
)

// checkStep is one recorded assertion. negated is bound when the step is
// added, consuming a pending IsNot exactly once.
type checkStep struct {
	fn      func(string) (bool, error)
	name    Name
	negated bool
}

// Asserter accumulates named string -> bool checks against a subject and
// evaluates them lazily. Checks never transform the subject; every step
// reads the same string the chain was created with.
//
// Evaluation short-circuits: the first check that (after any negation)
// yields false ends the chain with a false result, and the first check
// that raises ends it with an error. Like Transformer, each Asserter owns
// its state outright and is single-owner by design.
type Asserter struct {
	metrics    *metricz.Registry
	tracer     *tracez.Tracer
	hooks      *hookz.Hooks[StepEvent]
	clock      clockz.Clock
	subject    string
	steps      []checkStep
	negateNext bool
}

// AssertThat starts a new assertion chain seeded with subject.
func AssertThat(subject string) *Asserter {
	metrics := metricz.New()
	metrics.Counter(AssertProcessedTotal)
	metrics.Counter(AssertPassedTotal)
	metrics.Counter(AssertFailedTotal)
	metrics.Counter(AssertErrorsTotal)
	metrics.Gauge(AssertStepsCompleted)
	metrics.Gauge(AssertStepsTotal)
	metrics.Gauge(AssertDurationMs)

	return &Asserter{
		subject: subject,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[StepEvent](),
	}
}

// addCheck appends a named check, binding and clearing any pending
// negation. It never executes the predicate and never fails.
func (a *Asserter) addCheck(name Name, fn func(string) (bool, error)) *Asserter {
	a.steps = append(a.steps, checkStep{name: name, fn: fn, negated: a.negateNext})
	a.negateNext = false
	return a
}

// IsNot flips the result of the next check added to the chain, then
// resets. It is a modifier, not a step: it is never recorded, and if no
// further check follows it the flag is simply discarded.
func (a *Asserter) IsNot() *Asserter {
	a.negateNext = true
	return a
}

// runCheckStep executes one check with panic containment.
func runCheckStep(step checkStep, value string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = normalizePanic(r)
		}
	}()
	return step.fn(value)
}

// evaluate runs the recorded checks against the subject in insertion
// order. It is the single evaluation primitive consumed by Try, TryWith,
// and the StringTransform bridge. The three outcomes are: (true, nil) when
// every check passed, (false, nil) when a check evaluated false, and
// (false, *ChainError) when a check raised.
func (a *Asserter) evaluate(ctx context.Context) (bool, *ChainError) {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := a.getClock()

	a.metrics.Counter(AssertProcessedTotal).Inc()
	a.metrics.Gauge(AssertStepsTotal).Set(float64(len(a.steps)))
	start := clock.Now()

	ctx, span := a.tracer.StartSpan(ctx, AssertTrySpan)
	span.SetTag(AssertTagStepCount, strconv.Itoa(len(a.steps)))

	outcome := "pass"
	var chainErr *ChainError
	defer func() {
		a.metrics.Gauge(AssertDurationMs).Set(float64(clock.Since(start).Milliseconds()))
		span.SetTag(AssertTagResult, outcome)
		switch {
		case chainErr != nil:
			span.SetTag(AssertTagError, chainErr.Error())
			a.metrics.Counter(AssertErrorsTotal).Inc()
		case outcome == "pass":
			a.metrics.Counter(AssertPassedTotal).Inc()
		default:
			a.metrics.Counter(AssertFailedTotal).Inc()
		}
		span.Finish()
	}()

	completed := 0

	for i, step := range a.steps {
		_, stepSpan := a.tracer.StartSpan(ctx, AssertStepSpan)
		stepSpan.SetTag(AssertTagStepNumber, strconv.Itoa(i+1))
		stepSpan.SetTag(AssertTagStepName, string(step.name))
		stepSpan.SetTag(AssertTagNegated, strconv.FormatBool(step.negated))

		stepStart := clock.Now()
		ok, err := runCheckStep(step, a.subject)
		stepDuration := clock.Since(stepStart)

		if err == nil && step.negated {
			ok = !ok
		}
		if err != nil {
			stepSpan.SetTag(AssertTagError, err.Error())
		} else {
			stepSpan.SetTag(AssertTagResult, strconv.FormatBool(ok))
		}
		stepSpan.Finish()

		_ = a.hooks.Emit(ctx, AssertEventStepComplete, StepEvent{ //nolint:errcheck
			Chain:      ChainAssert,
			Step:       step.name,
			StepNumber: i + 1,
			TotalSteps: len(a.steps),
			Input:      a.subject,
			Success:    err == nil && ok,
			Error:      err,
			Duration:   stepDuration,
			Timestamp:  clock.Now(),
		})

		if err != nil {
			outcome = "error"
			chainErr = &ChainError{
				Step:      step.name,
				Value:     a.subject,
				Err:       err,
				Timestamp: clock.Now(),
				Duration:  stepDuration,
			}
			return false, chainErr
		}
		if !ok {
			outcome = "fail"
			return false, nil
		}

		completed++
		a.metrics.Gauge(AssertStepsCompleted).Set(float64(completed))
	}

	_ = a.hooks.Emit(ctx, AssertEventComplete, StepEvent{ //nolint:errcheck
		Chain:          ChainAssert,
		TotalSteps:     len(a.steps),
		CompletedSteps: completed,
		Success:        true,
		TotalDuration:  clock.Since(start),
		Timestamp:      clock.Now(),
	})

	return true, nil
}

// Try evaluates the chain. It returns true when every check passed and
// false when any check evaluated false; both are normal outcomes with a
// nil error. A check that raises surfaces as a *ChainError.
func (a *Asserter) Try() (bool, error) {
	ok, chainErr := a.evaluate(context.Background())
	if chainErr != nil {
		return false, chainErr
	}
	return ok, nil
}

// TryWith evaluates the chain, delegating any raised error to handler.
// The second return reports whether the chain could be evaluated at all:
// (true, true) every check passed, (false, true) a check evaluated false
// (the handler is not called; false is not an error), and (false, false)
// a check raised and the handler (if non-nil) received the *ChainError.
func (a *Asserter) TryWith(handler func(*ChainError)) (bool, bool) {
	ok, chainErr := a.evaluate(context.Background())
	if chainErr != nil {
		if handler != nil {
			handler(chainErr)
		}
		return false, false
	}
	return ok, true
}

// StringTransform switches the chain into transform mode. It forces
// evaluation of the recorded checks; every check must pass. On success it
// seeds a new transform chain with the original assertion subject (not a
// boolean).
//
// A failure at the bridge is fatal and never delegated to a handler:
// a raised check panics with a *BridgeError carrying the step context,
// and a false result panics with a *BridgeError naming the last-added
// step ("assertion failed at step ...").
func (a *Asserter) StringTransform() *Transformer {
	ok, chainErr := a.evaluate(context.Background())
	if chainErr != nil {
		panic(&BridgeError{Step: chainErr.Step, Value: chainErr.Value, Err: chainErr.Err})
	}
	if !ok {
		panic(&BridgeError{Step: a.lastStepName(), Value: a.subject})
	}
	t := StringTransform(a.subject)
	t.clock = a.clock
	return t
}

func (a *Asserter) lastStepName() Name {
	if len(a.steps) == 0 {
		return ""
	}
	return a.steps[len(a.steps)-1].name
}

// Subject returns the string the chain was created with.
func (a *Asserter) Subject() string {
	return a.subject
}

// Len returns the number of recorded checks.
func (a *Asserter) Len() int {
	return len(a.steps)
}

// Steps returns the names of all recorded checks in evaluation order.
func (a *Asserter) Steps() []Name {
	names := make([]Name, len(a.steps))
	for i, step := range a.steps {
		names[i] = step.name
	}
	return names
}

// Metrics returns the metrics registry for this chain.
func (a *Asserter) Metrics() *metricz.Registry {
	return a.metrics
}

// Tracer returns the tracer for this chain.
func (a *Asserter) Tracer() *tracez.Tracer {
	return a.tracer
}

// WithClock sets a custom clock for testing.
func (a *Asserter) WithClock(clock clockz.Clock) *Asserter {
	a.clock = clock
	return a
}

// getClock returns the clock to use.
func (a *Asserter) getClock() clockz.Clock {
	if a.clock == nil {
		return clockz.RealClock
	}
	return a.clock
}

// Close gracefully shuts down observability components.
func (a *Asserter) Close() error {
	if a.tracer != nil {
		a.tracer.Close()
	}
	a.hooks.Close()
	return nil
}

// OnStep registers a handler fired as each check completes, whether it
// passes, fails, or raises. Handlers run asynchronously.
func (a *Asserter) OnStep(handler func(context.Context, StepEvent) error) error {
	_, err := a.hooks.Hook(AssertEventStepComplete, handler)
	return err
}

// OnComplete registers a handler fired after every check has passed.
// Handlers run asynchronously.
func (a *Asserter) OnComplete(handler func(context.Context, StepEvent) error) error {
	_, err := a.hooks.Hook(AssertEventComplete, handler)
	return err
}
