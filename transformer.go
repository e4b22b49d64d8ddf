package stringz

import (
	"context"
	"strconv"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the transform chain.
const (
	// Metrics.
	TransformProcessedTotal = metricz.Key("transform.processed.total")
	TransformSuccessesTotal = metricz.Key("transform.successes.total")
	TransformFailuresTotal  = metricz.Key("transform.failures.total")
	TransformStepsCompleted = metricz.Key("transform.steps.completed")
	TransformStepsTotal     = metricz.Key("transform.steps.total")
	TransformDurationMs     = metricz.Key("transform.duration.ms")

	// Spans.
	TransformTrySpan  = tracez.Key("transform.try")
	TransformStepSpan = tracez.Key("transform.step")

	// Tags.
	TransformTagStepCount  = tracez.Tag("transform.step_count")
	TransformTagStepNumber = tracez.Tag("transform.step_number")
	TransformTagStepName   = tracez.Tag("transform.step_name")
	TransformTagSuccess    = tracez.Tag("transform.success")
	TransformTagError      = tracez.Tag("transform.error")

	// Hook event keys.
	TransformEventStepComplete = hookz.Key("transform.step_complete")
	TransformEventComplete     = hookz.Key("transform.complete")
)

// Chain identifiers carried in StepEvent.Chain.
const (
	ChainTransform Name = "transform"
	ChainAssert    Name = "assert"
)

// StepEvent represents a chain evaluation event.
// It is emitted via hookz as individual steps complete and when a whole
// chain evaluates cleanly, providing visibility into chain progress.
type StepEvent struct {
	Chain          Name          // ChainTransform or ChainAssert
	Step           Name          // Name of the step
	StepNumber     int           // Current step number (1-based)
	TotalSteps     int           // Total number of recorded steps
	Input          string        // Value the step received
	Success        bool          // Whether the step passed (no error; for checks, a true result)
	Error          error         // Error if the step raised one
	Duration       time.Duration // How long this step took
	CompletedSteps int           // Number of steps completed (for complete events)
	TotalDuration  time.Duration // Total evaluation time (for complete events)
	Timestamp      time.Time     // When the event occurred
}

// transformStep is one recorded transform operation. The name is assigned
// when the step is created and never changes; fn closes over any arguments
// captured at call time.
type transformStep struct {
	fn   func(string) (string, error)
	name Name
}

// Transformer accumulates named string -> string steps against a subject
// and evaluates them lazily. Every catalog method appends a step and
// returns the same builder; nothing runs until Try, TryWith, or a bridge.
//
// Each Transformer owns its subject and step list outright. The subject is
// set once by StringTransform and never mutated; evaluation folds the steps
// over it and leaves the builder unchanged, so a chain may be evaluated
// more than once. A single chain is meant to be driven by one call sequence
// and is not safe for concurrent mutation.
type Transformer struct {
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[StepEvent]
	clock   clockz.Clock
	subject string
	steps   []transformStep
}

// StringTransform starts a new transform chain seeded with subject.
// The returned builder carries its own step list, metrics registry,
// tracer, and hooks; starting a second chain never disturbs the first.
func StringTransform(subject string) *Transformer {
	metrics := metricz.New()
	metrics.Counter(TransformProcessedTotal)
	metrics.Counter(TransformSuccessesTotal)
	metrics.Counter(TransformFailuresTotal)
	metrics.Gauge(TransformStepsCompleted)
	metrics.Gauge(TransformStepsTotal)
	metrics.Gauge(TransformDurationMs)

	return &Transformer{
		subject: subject,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[StepEvent](),
	}
}

// addStep appends a named step. It never executes the operation and never
// fails; catalog methods are sugar over it.
func (t *Transformer) addStep(name Name, fn func(string) (string, error)) *Transformer {
	t.steps = append(t.steps, transformStep{name: name, fn: fn})
	return t
}

// runTransformStep executes one step with panic containment. A panicking
// operation becomes an ordinary step error instead of taking down the
// caller of Try.
func runTransformStep(step transformStep, value string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = ""
			err = normalizePanic(r)
		}
	}()
	return step.fn(value)
}

// evaluate folds the recorded steps over the subject, in insertion order,
// stopping at the first error. It is the single evaluation primitive
// consumed by Try, TryWith, and the AssertThat bridge, returning either
// the resolved value or a ChainError naming the failing step and the value
// immediately before it.
func (t *Transformer) evaluate(ctx context.Context) (string, *ChainError) {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := t.getClock()

	t.metrics.Counter(TransformProcessedTotal).Inc()
	t.metrics.Gauge(TransformStepsTotal).Set(float64(len(t.steps)))
	start := clock.Now()

	ctx, span := t.tracer.StartSpan(ctx, TransformTrySpan)
	span.SetTag(TransformTagStepCount, strconv.Itoa(len(t.steps)))

	var chainErr *ChainError
	defer func() {
		t.metrics.Gauge(TransformDurationMs).Set(float64(clock.Since(start).Milliseconds()))
		if chainErr == nil {
			span.SetTag(TransformTagSuccess, "true")
			t.metrics.Counter(TransformSuccessesTotal).Inc()
		} else {
			span.SetTag(TransformTagSuccess, "false")
			span.SetTag(TransformTagError, chainErr.Error())
			t.metrics.Counter(TransformFailuresTotal).Inc()
		}
		span.Finish()
	}()

	value := t.subject
	completed := 0

	for i, step := range t.steps {
		_, stepSpan := t.tracer.StartSpan(ctx, TransformStepSpan)
		stepSpan.SetTag(TransformTagStepNumber, strconv.Itoa(i+1))
		stepSpan.SetTag(TransformTagStepName, string(step.name))

		stepStart := clock.Now()
		next, err := runTransformStep(step, value)
		stepDuration := clock.Since(stepStart)

		if err != nil {
			stepSpan.SetTag(TransformTagError, err.Error())
		}
		stepSpan.Finish()

		_ = t.hooks.Emit(ctx, TransformEventStepComplete, StepEvent{ //nolint:errcheck
			Chain:      ChainTransform,
			Step:       step.name,
			StepNumber: i + 1,
			TotalSteps: len(t.steps),
			Input:      value,
			Success:    err == nil,
			Error:      err,
			Duration:   stepDuration,
			Timestamp:  clock.Now(),
		})

		if err != nil {
			chainErr = &ChainError{
				Step:      step.name,
				Value:     value,
				Err:       err,
				Timestamp: clock.Now(),
				Duration:  stepDuration,
			}
			return "", chainErr
		}

		value = next
		completed++
		t.metrics.Gauge(TransformStepsCompleted).Set(float64(completed))
	}

	_ = t.hooks.Emit(ctx, TransformEventComplete, StepEvent{ //nolint:errcheck
		Chain:          ChainTransform,
		TotalSteps:     len(t.steps),
		CompletedSteps: completed,
		Success:        true,
		TotalDuration:  clock.Since(start),
		Timestamp:      clock.Now(),
	})

	return value, nil
}

// Try evaluates the chain and returns the transformed string. With zero
// recorded steps the subject is returned unchanged. On failure the result
// is empty and the error is a *ChainError carrying the failing step name,
// the value immediately before it, and the original error via Unwrap.
func (t *Transformer) Try() (string, error) {
	value, chainErr := t.evaluate(context.Background())
	if chainErr != nil {
		return "", chainErr
	}
	return value, nil
}

// TryWith evaluates the chain, delegating any step failure to handler
// instead of returning it. On success it returns the transformed string
// and true. On failure the handler (if non-nil) receives the full
// *ChainError and TryWith returns the empty string and false.
func (t *Transformer) TryWith(handler func(*ChainError)) (string, bool) {
	value, chainErr := t.evaluate(context.Background())
	if chainErr != nil {
		if handler != nil {
			handler(chainErr)
		}
		return "", false
	}
	return value, true
}

// AssertThat switches the chain into assertion mode. It forces evaluation
// of the recorded transform steps and seeds a new assertion chain with the
// resolved string.
//
// A failure at the bridge is fatal: AssertThat panics with a *BridgeError
// carrying the failing step name, the pre-failure value, and the underlying
// error. Bridge failures are never delegated to a handler.
func (t *Transformer) AssertThat() *Asserter {
	value, chainErr := t.evaluate(context.Background())
	if chainErr != nil {
		panic(&BridgeError{Step: chainErr.Step, Value: chainErr.Value, Err: chainErr.Err})
	}
	a := AssertThat(value)
	a.clock = t.clock
	return a
}

// Subject returns the string the chain was created with.
func (t *Transformer) Subject() string {
	return t.subject
}

// Len returns the number of recorded steps.
func (t *Transformer) Len() int {
	return len(t.steps)
}

// Steps returns the names of all recorded steps in evaluation order.
func (t *Transformer) Steps() []Name {
	names := make([]Name, len(t.steps))
	for i, step := range t.steps {
		names[i] = step.name
	}
	return names
}

// Metrics returns the metrics registry for this chain.
func (t *Transformer) Metrics() *metricz.Registry {
	return t.metrics
}

// Tracer returns the tracer for this chain.
func (t *Transformer) Tracer() *tracez.Tracer {
	return t.tracer
}

// WithClock sets a custom clock for testing.
func (t *Transformer) WithClock(clock clockz.Clock) *Transformer {
	t.clock = clock
	return t
}

// getClock returns the clock to use.
func (t *Transformer) getClock() clockz.Clock {
	if t.clock == nil {
		return clockz.RealClock
	}
	return t.clock
}

// Close gracefully shuts down observability components.
func (t *Transformer) Close() error {
	if t.tracer != nil {
		t.tracer.Close()
	}
	t.hooks.Close()
	return nil
}

// OnStep registers a handler fired as each step completes, whether it
// succeeds or fails. Handlers run asynchronously.
func (t *Transformer) OnStep(handler func(context.Context, StepEvent) error) error {
	_, err := t.hooks.Hook(TransformEventStepComplete, handler)
	return err
}

// OnComplete registers a handler fired after the whole chain evaluates
// without error. Handlers run asynchronously.
func (t *Transformer) OnComplete(handler func(context.Context, StepEvent) error) error {
	_, err := t.hooks.Hook(TransformEventComplete, handler)
	return err
}
