package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validDoc = `
name: riverflow
version: "1.0.0"
deployId: "42"
deployment:
  region: us-east-1
  s3Bucket: riverflow-artifacts
  s3KeyPrefix: apps
coordinator:
  coordinatorConcurrency: 2
  maxApiConcurrency: 10
  maxInvocationCount: 50
  minInterval: 30
roles:
  - name: default
components:
  - name: ingest
    kind: FromMessage
    maxConcurrency: 10
    queueWaitSeconds: 5
    worker:
      handler: ingest.Handle
      memoryMiB: 256
      timeoutSecs: 30
      role: default
    routing: transform
  - name: transform
    kind: FromInvocation
    worker:
      handler: transform.Handle
      memoryMiB: 512
      timeoutSecs: 60
      role: default
    routing:
      - ingest
      - transform
`

func TestParseValidDocument(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	require.Equal(t, "riverflow", cfg.Name)
	require.Len(t, cfg.Components, 2)
	require.Equal(t, "transform", cfg.Components[0].Routing.One)
	require.Equal(t, []string{"ingest", "transform"}, cfg.Components[1].Routing.Many)
}

func TestParseRejectsUnrecognizedTopLevelKey(t *testing.T) {
	_, err := Parse([]byte(validDoc + "\nbogusKey: true\n"))
	require.Error(t, err)
}

func TestParseRejectsReservedComponentName(t *testing.T) {
	doc := `
name: riverflow
version: "1.0.0"
deployId: "1"
deployment: {region: us-east-1, s3Bucket: b, s3KeyPrefix: p}
coordinator: {coordinatorConcurrency: 1, maxApiConcurrency: 1, maxInvocationCount: 1, minInterval: 0}
roles: [{name: default}]
components:
  - name: Coordinator
    kind: FromInvocation
    worker: {handler: x.Handle, memoryMiB: 128, timeoutSecs: 3, role: default}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestParseRejectsOutOfRangeTimeout(t *testing.T) {
	doc := `
name: riverflow
version: "1.0.0"
deployId: "1"
deployment: {region: us-east-1, s3Bucket: b, s3KeyPrefix: p}
coordinator: {coordinatorConcurrency: 1, maxApiConcurrency: 1, maxInvocationCount: 1, minInterval: 0}
roles: [{name: default}]
components:
  - name: a
    kind: FromInvocation
    worker: {handler: x.Handle, memoryMiB: 128, timeoutSecs: 301, role: default}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestToWorkflowComponentsTranslatesRouting(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	components := ToWorkflowComponents(cfg)
	require.Equal(t, "transform", components["ingest"].Routing.One)
	require.ElementsMatch(t, []string{"ingest", "transform"}, components["transform"].Routing.Many)
}
