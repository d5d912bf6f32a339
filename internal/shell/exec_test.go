package shell

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	o := Apply(WithArgs("-a"), WithArgs("-b", "c"), WithEnv("K", "V"), WithStream())
	assert.Equal(t, []string{"-a", "-b", "c"}, o.Args)
	assert.Equal(t, map[string]string{"K": "V"}, o.Env)
	assert.True(t, o.Stream)
}

func TestExecMissingCommand(t *testing.T) {
	_, err := NewExec(nil).Run(context.Background(), "assimpsys-no-such-tool")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotRan)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.False(t, cmdErr.Ran)
}

func TestExecCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	out, err := NewExec(nil).Run(context.Background(), "sh", WithArgs("-c", "echo hello; echo oops >&2"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestExecFailureCarriesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	_, err := NewExec(nil).Run(context.Background(), "sh", WithArgs("-c", "echo broken >&2; exit 3"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRan)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.True(t, cmdErr.Ran)
	assert.Equal(t, 3, cmdErr.Code)
	assert.Contains(t, err.Error(), "broken")
}

func TestExecCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExec(nil).Run(ctx, "sh")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecPassesDollarArgsVerbatim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	out, err := NewExec(nil).Run(context.Background(), "sh",
		WithArgs("-c", `printf '%s' "$1"`, "sh", "/tmp/out$dir/lib"),
		WithEnv("dir", "EXPANDED"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out$dir/lib", out)
}

func TestExecEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	out, err := NewExec(nil).Run(context.Background(), "sh",
		WithArgs("-c", `printf '%s' "$PKG_CONFIG_PATH"`),
		WithEnv("PKG_CONFIG_PATH", "/out/lib/pkgconfig"))
	require.NoError(t, err)
	assert.Equal(t, "/out/lib/pkgconfig", out)
}

func TestExecCancelStopsRunningCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewExec(nil).Run(ctx, "sleep", WithArgs("10"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
