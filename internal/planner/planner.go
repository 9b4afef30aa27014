// Package planner implements the Invocation Plan Splitter (spec §4.8):
// it turns a coordinator's measured ApplicationStatus into an
// InvocationPlan, first computing each FromMessage component's
// fair share of its backlog, then bin-packing the raw counts into a
// local batch and zero or more fixed-size remote Invoker bins.
package planner

import (
	"sort"

	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// Split computes the InvocationPlan for one coordinator pass.
// coordinatorConcurrency is the configured number of coordinators sharing
// the backlog (each contributes its ceiling-divided share, so over- not
// under-pursuit is the tolerated error, spec §4.8). maxInvocationCount is
// the bin size B used both as the local ceiling and the remote bin size.
func Split(status wfcore.ApplicationStatus, components map[string]wfcore.Component, coordinatorConcurrency, maxInvocationCount int) wfcore.InvocationPlan {
	counts := rawCounts(status, components, coordinatorConcurrency)
	return pack(counts, maxInvocationCount)
}

// rawCounts computes, for every FromMessage component with both
// measurements present, headroom = max(0, maxConcurrency-concurrency),
// count = min(queuedMessages, headroom), ceiling-divided across
// coordinatorConcurrency coordinators. Components missing either
// measurement, non-FromMessage components, and zero counts are omitted.
// The result is sorted by component name for deterministic packing.
func rawCounts(status wfcore.ApplicationStatus, components map[string]wfcore.Component, coordinatorConcurrency int) []wfcore.InvocationCount {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]wfcore.InvocationCount, 0, len(names))
	for _, name := range names {
		comp := components[name]
		if comp.Kind != wfcore.KindFromMessage {
			continue
		}
		st, ok := status.Components[name]
		if !ok || st.Concurrency == nil || st.QueuedMessages == nil {
			continue
		}
		headroom := max(0, comp.MaxConcurrency-*st.Concurrency)
		raw := min(*st.QueuedMessages, headroom)
		count := ceilDiv(raw, coordinatorConcurrency)
		if count > 0 {
			out = append(out, wfcore.InvocationCount{Component: name, Count: count})
		}
	}
	return out
}

func ceilDiv(n, d int) int {
	if d <= 0 {
		return n
	}
	return (n + d - 1) / d
}

func sum(counts []wfcore.InvocationCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

// pack bin-packs raw per-component counts (spec §4.8 "Packing"). If the
// total fits within B it all goes local. Otherwise it greedily fills
// fixed-size-B remote bins, splitting any oversized single-component
// count across bins, until either the remainder fits alongside the
// already-placed remote bins (it becomes local) or B-1 remote bins have
// already been placed (the remainder becomes one final remote bin, with
// no local dispatch at all — spec §9 open question (c)).
func pack(counts []wfcore.InvocationCount, maxInvocationCount int) wfcore.InvocationPlan {
	total := sum(counts)
	if total <= maxInvocationCount {
		return wfcore.InvocationPlan{Local: counts}
	}

	remaining := make([]wfcore.InvocationCount, len(counts))
	copy(remaining, counts)

	var remote [][]wfcore.InvocationCount
	for {
		remTotal := sum(remaining)
		if remTotal <= maxInvocationCount-len(remote) {
			break
		}
		if len(remote) == maxInvocationCount-1 {
			remote = append(remote, nonZero(remaining))
			remaining = nil
			break
		}
		remote = append(remote, fillBin(remaining, maxInvocationCount))
	}
	return wfcore.InvocationPlan{Local: nonZero(remaining), Remote: remote}
}

// fillBin consumes up to exactly size units from remaining (in place,
// in order), splitting an oversized component's count across bins as
// needed, and returns the bin's contents.
func fillBin(remaining []wfcore.InvocationCount, size int) []wfcore.InvocationCount {
	bin := make([]wfcore.InvocationCount, 0, len(remaining))
	need := size
	for i := range remaining {
		if need == 0 {
			break
		}
		if remaining[i].Count == 0 {
			continue
		}
		take := min(remaining[i].Count, need)
		bin = append(bin, wfcore.InvocationCount{Component: remaining[i].Component, Count: take})
		remaining[i].Count -= take
		need -= take
	}
	return bin
}

func nonZero(counts []wfcore.InvocationCount) []wfcore.InvocationCount {
	out := make([]wfcore.InvocationCount, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}
