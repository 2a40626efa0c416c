package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeStub creates an executable shell script standing in for the
// platform collection shell. It scans its arguments for -OutputFile the
// same way the real script declares its parameters.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub.sh")
	script := "#!/bin/sh\n" + `
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-OutputFile" ]; then
    out="$2"
    shift
  fi
  shift
done
` + body
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestCollect_ParsesStubOutput(t *testing.T) {
	stub := writeStub(t, `
cat > "$out" <<'JSON'
{
  "CollectionTime": "2026-08-20T12:00:00",
  "TimeRange": {"StartTime": "2026-08-18T12:00:00", "EndTime": "2026-08-20T12:00:00"},
  "SystemInfo": {"ComputerName": "STUB-01"},
  "Events": [
    {"LogName": "System", "TimeCreated": "2026-08-20T10:00:00", "Level": "Warning", "EventID": 51, "ProviderName": "Disk", "Message": "m"}
  ]
}
JSON
`)

	col := New(stub, nil)
	outPath := filepath.Join(t.TempDir(), "snapshot.json")

	snap, err := col.Collect(context.Background(), Options{
		OutputPath: outPath,
		HoursBack:  48,
		MaxEvents:  500,
	})
	require.NoError(t, err)

	assert.Equal(t, "STUB-01", snap.SystemFacts.ComputerName)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, 51, snap.Events[0].EventID)

	// The snapshot file stays on disk for later report/ask runs.
	_, err = os.Stat(outPath)
	assert.NoError(t, err)
}

func TestCollect_SubprocessFailureSurfacesStderr(t *testing.T) {
	stub := writeStub(t, `
echo "access denied reading Security log" >&2
exit 1
`)

	col := New(stub, nil)
	_, err := col.Collect(context.Background(), Options{
		OutputPath: filepath.Join(t.TempDir(), "snapshot.json"),
		HoursBack:  48,
		MaxEvents:  500,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestCollect_EmptyOutputFile(t *testing.T) {
	stub := writeStub(t, `: > "$out"`)

	col := New(stub, nil)
	_, err := col.Collect(context.Background(), Options{
		OutputPath: filepath.Join(t.TempDir(), "snapshot.json"),
		HoursBack:  48,
		MaxEvents:  500,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestCollect_RequiresOutputPath(t *testing.T) {
	col := New("/bin/true", nil)
	_, err := col.Collect(context.Background(), Options{})
	assert.Error(t, err)
}

func TestCollect_ContextCancellation(t *testing.T) {
	stub := writeStub(t, `sleep 30`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	col := New(stub, nil)
	_, err := col.Collect(ctx, Options{
		OutputPath: filepath.Join(t.TempDir(), "snapshot.json"),
		HoursBack:  48,
		MaxEvents:  500,
	})
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o600))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.EventCount())
}

func TestNew_Defaults(t *testing.T) {
	col := New("", nil)
	assert.Equal(t, "powershell.exe", col.command)
	assert.NotNil(t, col.clock)
	assert.NotNil(t, col.log)
}
