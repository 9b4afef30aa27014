package resourcemap

import (
	"fmt"

	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// Symbolic name suffixes used to look up concrete queue/function
// identifiers in the ResourceMap (spec §6: "mapping {symbolic output
// name -> opaque identifier string}").
const (
	ledgerSuffix = "-ledger"
	inputSuffix  = "-input"
)

// LedgerSymbol returns the symbolic ResourceMap key for a component's
// ledger queue.
func LedgerSymbol(component string) string { return component + ledgerSuffix }

// InputSymbol returns the symbolic ResourceMap key for a FromMessage
// component's input queue.
func InputSymbol(component string) string { return component + inputSuffix }

// Resolver looks up concrete identifiers from a loaded ResourceMap.
type Resolver struct {
	rm wfcore.ResourceMap
}

// NewResolver wraps a loaded ResourceMap for symbol lookups.
func NewResolver(rm wfcore.ResourceMap) *Resolver {
	return &Resolver{rm: rm}
}

func (r *Resolver) lookup(symbol string) (string, error) {
	id, ok := r.rm[symbol]
	if !ok {
		return "", fmt.Errorf("%w: resource map has no entry for %q", wfcore.ErrUnknownComponent, symbol)
	}
	return id, nil
}

// LedgerQueue resolves a component's ledger queue identifier. Its
// signature matches ledger.QueueNameFunc.
func (r *Resolver) LedgerQueue(component string) (string, error) {
	return r.lookup(LedgerSymbol(component))
}

// InputQueue resolves a FromMessage component's input queue identifier.
func (r *Resolver) InputQueue(component string) (string, error) {
	return r.lookup(InputSymbol(component))
}

// Function resolves a component's worker function identifier (the
// symbolic name is simply the component name).
func (r *Resolver) Function(component string) (string, error) {
	return r.lookup(component)
}
