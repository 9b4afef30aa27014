package wrapper

import (
	"sync"
	"time"
)

// Mode tags which of the three completion channels a lifecycle context
// call used (spec §4.5: "done-with-error-and-result, fail-with-error,
// succeed-with-result").
type Mode int

const (
	ModeDone Mode = iota
	ModeFail
	ModeSucceed
)

// LifecycleContext is the worker's completion surface, replacing the
// platform-provided per-invocation context the original worker entry
// point receives. A user handler calls exactly one of these — the wrapper
// guarantees finalization runs exactly once regardless of how many times
// (or which) the handler actually calls.
type LifecycleContext interface {
	Done(err error, result map[string]any)
	Fail(err error)
	Succeed(result map[string]any)
	TimeRemaining() time.Duration
}

// completion records one lifecycle call for the finalize pipeline.
type completion struct {
	mode   Mode
	err    error
	result map[string]any
}

// guardedContext wraps the original LifecycleContext so that each of its
// three completion channels is replaced by a forwarder that records its
// mode and arguments and then drives finalization exactly once (spec
// §4.5.1 step 3). First-writer-wins: subsequent calls are silently
// ignored.
type guardedContext struct {
	original LifecycleContext
	once     sync.Once
	onFinal  func(completion)
}

func newGuardedContext(original LifecycleContext, onFinal func(completion)) *guardedContext {
	return &guardedContext{original: original, onFinal: onFinal}
}

func (g *guardedContext) fire(c completion) {
	g.once.Do(func() { g.onFinal(c) })
}

func (g *guardedContext) Done(err error, result map[string]any) {
	g.fire(completion{mode: ModeDone, err: err, result: result})
}

func (g *guardedContext) Fail(err error) {
	g.fire(completion{mode: ModeFail, err: err})
}

func (g *guardedContext) Succeed(result map[string]any) {
	g.fire(completion{mode: ModeSucceed, result: result})
}

// TimeRemaining passes through to the original context unchanged (spec
// §4.5.1 step 3).
func (g *guardedContext) TimeRemaining() time.Duration {
	return g.original.TimeRemaining()
}

var _ LifecycleContext = (*guardedContext)(nil)
