package cli

import (
	"bytes"
	"os"
	"path/filepath"
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
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rivulet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestValidateCommandAcceptsValidConfig(t *testing.T) {
	path := writeTemp(t, validDoc)
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"validate", "--config-path", path})

	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "valid")
}

func TestValidateCommandRejectsInvalidConfig(t *testing.T) {
	path := writeTemp(t, "name: riverflow\nunknownKey: true\n")
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", "--config-path", path})

	require.Error(t, cmd.Execute())
}

func TestBuildCommandStopsAfterValidation(t *testing.T) {
	path := writeTemp(t, validDoc)
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"build", "--config-path", path})

	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "not implemented")
}

const skipDeployDoc = `
name: riverflow
version: "1.0.0"
deployId: "42"
deployment:
  region: us-east-1
  s3Bucket: riverflow-artifacts
  s3KeyPrefix: apps
  skipDeploy: true
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
`

func TestDeployCommandHonorsSkipDeploy(t *testing.T) {
	path := writeTemp(t, skipDeployDoc)
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"deploy", "--config-path", path})

	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "skipDeploy")
}
