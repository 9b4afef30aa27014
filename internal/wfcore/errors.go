package wfcore

import "errors"

// Error kinds surfaced by the core (spec §7). Fatal ones abort an
// invocation immediately; the rest are logged and either swallowed or
// surfaced depending on context, as each call site documents.
var (
	// ErrResourceMapLoadFailed is fatal: abort invocation, no ledger touch.
	ErrResourceMapLoadFailed = errors.New("resource map load failed")

	// ErrQueueOperationFailed names the exhausted-retry queue failure kind.
	// The Queue Gateway returns the backend's last error as is and does
	// not wrap it with this value.
	ErrQueueOperationFailed = errors.New("queue operation failed")

	// ErrNoInputMessage is wrapper-internal; converted to a fail outcome.
	ErrNoInputMessage = errors.New("no input message available")

	// ErrInvalidRoutingDestination is surfaced to finalization.
	ErrInvalidRoutingDestination = errors.New("invalid routing destination")

	// ErrFinalizationSubstepFailed names the logged, non-short-circuiting
	// finalization step failure kind. The wrapper logs such failures with
	// their original error and does not wrap them with this value.
	ErrFinalizationSubstepFailed = errors.New("finalization substep failed")

	// ErrChainInvocationFailed tags a logged coordinator self-chain failure.
	ErrChainInvocationFailed = errors.New("chain invocation failed")

	// ErrUnknownComponent is returned when a component's queue or function
	// symbol has no entry in the loaded ResourceMap.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrComponentNameReserved flags a component using a reserved internal name.
	ErrComponentNameReserved = errors.New("component name is reserved")
)
