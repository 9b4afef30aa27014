package wrapper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/ledger"
	"github.com/riverflow-io/riverflow/internal/objectgw"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/routing"
	"github.com/riverflow-io/riverflow/internal/wfcore"
	"github.com/stretchr/testify/require"
)

// fakeLC is a LifecycleContext that records every call it receives, used
// to assert finalize ran exactly once and forwarded the right outcome.
type fakeLC struct {
	calls []completion
}

func (f *fakeLC) Done(err error, result map[string]any) {
	f.calls = append(f.calls, completion{mode: ModeDone, err: err, result: result})
}
func (f *fakeLC) Fail(err error) {
	f.calls = append(f.calls, completion{mode: ModeFail, err: err})
}
func (f *fakeLC) Succeed(result map[string]any) {
	f.calls = append(f.calls, completion{mode: ModeSucceed, result: result})
}
func (f *fakeLC) TimeRemaining() time.Duration { return 30 * time.Second }

// echoHandler mirrors examples/sampleworker.Handle: it echoes its input
// back as the result. Kept local to avoid an import cycle (that example
// imports this package).
func echoHandler(_ context.Context, event map[string]any, lc LifecycleContext) {
	lc.Succeed(event)
}

func setup(t *testing.T, comp wfcore.Component, rm map[string]string) (*Wrapper, *queuegw.MemBackend) {
	t.Helper()
	const rmKey = "arnMap.json"

	objBackend := objectgw.NewMemBackend()
	objgw := objectgw.New(objBackend)
	v := make(map[string]any, len(rm))
	for k, id := range rm {
		v[k] = id
	}
	require.NoError(t, objgw.PutJson(context.Background(), rmKey, v))
	loader := resourcemap.New(objgw)

	qBackend := queuegw.NewMemBackend()
	qgw := queuegw.New(qBackend)

	ldgr := ledger.New(qgw, func(component string) (string, error) {
		return resourcemap.NewResolver(toResourceMap(rm)).LedgerQueue(component)
	})

	resolver := resourcemap.NewResolver(toResourceMap(rm))
	engine := routing.New(qgw, invokegw.New(invokegw.NewMemBackend()), resolver)

	components := map[string]wfcore.Component{comp.Name: comp}
	w := New(comp, components, loader, rmKey, qgw, ldgr)
	w.Routing = engine
	return w, qBackend
}

func toResourceMap(rm map[string]string) wfcore.ResourceMap {
	out := make(wfcore.ResourceMap, len(rm))
	for k, v := range rm {
		out[k] = v
	}
	return out
}

func TestHandleFromInvocationSucceeds(t *testing.T) {
	comp := wfcore.Component{Name: "worker-a", Kind: wfcore.KindFromInvocation, Routing: wfcore.NoRouting()}
	rm := map[string]string{
		resourcemap.LedgerSymbol("worker-a"): "ledger-a",
	}
	w, _ := setup(t, comp, rm)

	lc := &fakeLC{}
	w.Handle(context.Background(), map[string]any{"in": 1}, echoHandler, lc)

	require.Len(t, lc.calls, 1)
	require.Equal(t, ModeSucceed, lc.calls[0].mode)
	require.Equal(t, map[string]any{"in": 1}, lc.calls[0].result)
}

func TestHandleOnlyFinalizesOnce(t *testing.T) {
	comp := wfcore.Component{Name: "worker-a", Kind: wfcore.KindFromInvocation, Routing: wfcore.NoRouting()}
	rm := map[string]string{resourcemap.LedgerSymbol("worker-a"): "ledger-a"}
	w, _ := setup(t, comp, rm)

	lc := &fakeLC{}
	handler := func(ctx context.Context, event map[string]any, wctx LifecycleContext) {
		wctx.Succeed(event)
		wctx.Fail(errors.New("too late"))
		wctx.Done(errors.New("also too late"), nil)
	}
	w.Handle(context.Background(), map[string]any{}, handler, lc)

	require.Len(t, lc.calls, 1)
	require.Equal(t, ModeSucceed, lc.calls[0].mode)
}

func TestHandlePanicIsCaughtByLastResortHandler(t *testing.T) {
	comp := wfcore.Component{Name: "worker-a", Kind: wfcore.KindFromInvocation, Routing: wfcore.NoRouting()}
	rm := map[string]string{resourcemap.LedgerSymbol("worker-a"): "ledger-a"}
	w, _ := setup(t, comp, rm)

	lc := &fakeLC{}
	handler := func(ctx context.Context, event map[string]any, wctx LifecycleContext) {
		panic("boom")
	}
	w.Handle(context.Background(), map[string]any{}, handler, lc)

	require.Len(t, lc.calls, 1)
	require.Equal(t, ModeFail, lc.calls[0].mode)
	require.ErrorContains(t, lc.calls[0].err, "boom")
}

func TestHandleFromMessageDeletesInputOnSuccess(t *testing.T) {
	comp := wfcore.Component{
		Name: "worker-b", Kind: wfcore.KindFromMessage, Routing: wfcore.NoRouting(),
		QueueWaitSeconds: 1,
		Worker:           wfcore.WorkerSpec{TimeoutSecs: 30},
	}
	rm := map[string]string{
		resourcemap.LedgerSymbol("worker-b"): "ledger-b",
		resourcemap.InputSymbol("worker-b"):  "input-b",
	}
	w, qBackend := setup(t, comp, rm)
	require.NoError(t, qBackend.Send(context.Background(), "input-b", `{"payload":true}`))

	lc := &fakeLC{}
	w.Handle(context.Background(), nil, echoHandler, lc)

	require.Len(t, lc.calls, 1)
	require.Equal(t, ModeSucceed, lc.calls[0].mode)
	require.Empty(t, qBackend.Peek("input-b"))
}

func TestHandleFromMessageNoInputFails(t *testing.T) {
	comp := wfcore.Component{
		Name: "worker-b", Kind: wfcore.KindFromMessage, Routing: wfcore.NoRouting(),
		QueueWaitSeconds: 0,
		Worker:           wfcore.WorkerSpec{TimeoutSecs: 30},
	}
	rm := map[string]string{
		resourcemap.LedgerSymbol("worker-b"): "ledger-b",
		resourcemap.InputSymbol("worker-b"):  "input-b",
	}
	w, _ := setup(t, comp, rm)

	lc := &fakeLC{}
	w.Handle(context.Background(), nil, echoHandler, lc)

	require.Len(t, lc.calls, 1)
	require.Equal(t, ModeFail, lc.calls[0].mode)
	require.ErrorIs(t, lc.calls[0].err, wfcore.ErrNoInputMessage)
}

func TestHandleResourceMapLoadFailureIsFatal(t *testing.T) {
	comp := wfcore.Component{Name: "worker-a", Kind: wfcore.KindFromInvocation, Routing: wfcore.NoRouting()}
	objgw := objectgw.New(objectgw.NewMemBackend())
	loader := resourcemap.New(objgw) // nothing ever published at this key
	qgw := queuegw.New(queuegw.NewMemBackend())
	ldgr := ledger.New(qgw, func(string) (string, error) { return "", nil })
	w := New(comp, map[string]wfcore.Component{comp.Name: comp}, loader, "missing.json", qgw, ldgr)

	lc := &fakeLC{}
	w.Handle(context.Background(), map[string]any{}, echoHandler, lc)

	require.Len(t, lc.calls, 1)
	require.Equal(t, ModeFail, lc.calls[0].mode)
	require.ErrorIs(t, lc.calls[0].err, wfcore.ErrResourceMapLoadFailed)
}

func TestHandleRoutingFailureUpgradesSuccessToFail(t *testing.T) {
	comp := wfcore.Component{Name: "worker-a", Kind: wfcore.KindFromInvocation, Routing: wfcore.RouteToOne("ghost")}
	rm := map[string]string{resourcemap.LedgerSymbol("worker-a"): "ledger-a"}
	w, _ := setup(t, comp, rm)

	lc := &fakeLC{}
	w.Handle(context.Background(), map[string]any{}, echoHandler, lc)

	require.Len(t, lc.calls, 1)
	require.Equal(t, ModeFail, lc.calls[0].mode)
	require.ErrorIs(t, lc.calls[0].err, wfcore.ErrInvalidRoutingDestination)
}
