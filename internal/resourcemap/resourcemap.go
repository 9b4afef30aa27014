// Package resourcemap loads the ResourceMap (spec §3, §4.5.1, §4.7 step 1):
// an immutable symbolic-name -> ARN table, read once per invocation. A
// load failure is fatal and surfaced verbatim — nothing else is safe to
// attempt (spec §4.5.1).
package resourcemap

import (
	"context"
	"fmt"
	"path"

	"github.com/riverflow-io/riverflow/internal/objectgw"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// FileName is the well-known object key name for the resource map under
// <s3KeyPrefix>/<name>/<deployId>/ (spec §6).
const FileName = "arnMap.json"

// Key builds the full object-store key for a deployment's resource map.
func Key(prefix, appName, deployID string) string {
	return path.Join(prefix, appName, deployID, FileName)
}

// Loader loads a ResourceMap via the Object Store Gateway.
type Loader struct {
	gw *objectgw.Gateway
}

// New builds a Loader over the given Object Store Gateway.
func New(gw *objectgw.Gateway) *Loader {
	return &Loader{gw: gw}
}

// Load fetches and decodes the resource map at key. Any failure is
// wrapped in wfcore.ErrResourceMapLoadFailed, which callers treat as
// fatal (spec §4.5.1, §4.7 step 1).
func (l *Loader) Load(ctx context.Context, key string) (wfcore.ResourceMap, error) {
	raw, err := l.gw.GetJson(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wfcore.ErrResourceMapLoadFailed, err)
	}
	rm := make(wfcore.ResourceMap, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value for %q is not a string", wfcore.ErrResourceMapLoadFailed, k)
		}
		rm[k] = s
	}
	return rm, nil
}

// Publish writes a resource map to key (used by the Switchover Controller,
// spec §4.11 step (b)).
func Publish(ctx context.Context, gw *objectgw.Gateway, key string, rm wfcore.ResourceMap) error {
	v := make(map[string]any, len(rm))
	for k, id := range rm {
		v[k] = id
	}
	return gw.PutJson(ctx, key, v)
}
