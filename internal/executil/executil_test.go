package executil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartCapturesStdout(t *testing.T) {
	h, err := Start("sh", "echo hello", nil)
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	require.Equal(t, "hello\n", h.Stdout())
}

func TestStartCapturesStderrSeparately(t *testing.T) {
	h, err := Start("sh", "echo oops 1>&2", nil)
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	require.Equal(t, "", h.Stdout())
	require.True(t, strings.Contains(h.Stderr(), "oops"))
}

func TestStartNonZeroExitErrorsOnlyOnWait(t *testing.T) {
	h, err := Start("sh", "exit 3", nil)
	require.NoError(t, err)
	waitErr := h.Wait()
	require.Error(t, waitErr)
}

func TestTerminateKillsLongRunningProcess(t *testing.T) {
	h, err := Start("sh", "sleep 30", nil)
	require.NoError(t, err)

	start := time.Now()
	h.Terminate(2 * time.Second)
	elapsed := time.Since(start)

	require.Less(t, elapsed, 3*time.Second, "expected SIGTERM to end the sleep well before the grace period elapsed")
}

func TestEnvOverlayIsVisibleToCommand(t *testing.T) {
	h, err := Start("sh", "echo $FZF_PREVIEW_LINES", []string{"FZF_PREVIEW_LINES=42"})
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	require.Equal(t, "42\n", h.Stdout())
}
