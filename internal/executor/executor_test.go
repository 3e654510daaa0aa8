package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compose")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		args       []string
		success    bool
		output     string
		errText    string
		exitCode   int
		wantNoCode bool
	}{
		{
			name:    "success returns stdout",
			script:  `echo "$@"`,
			args:    []string{"up", "-d"},
			success: true,
			output:  "up -d\n",
		},
		{
			name:     "stderr passed through",
			script:   "echo ignored; printf 'port already in use' >&2; exit 1",
			args:     []string{"up", "-d"},
			errText:  "port already in use",
			exitCode: 1,
		},
		{
			name:     "stdout used when stderr empty",
			script:   "printf 'no such service'; exit 3",
			errText:  "no such service",
			exitCode: 3,
		},
		{
			name:     "silent failure",
			script:   "exit 2",
			errText:  "",
			exitCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(writeScript(t, tt.script))
			res := e.Run(context.Background(), t.TempDir(), tt.args, tt.name, 10*time.Second)

			assert.Equal(t, tt.success, res.Success)
			if tt.success {
				assert.Equal(t, tt.output, res.Output)
				assert.Nil(t, res.ExitCode)
				return
			}
			assert.Equal(t, tt.errText, res.Error)
			require.NotNil(t, res.ExitCode)
			assert.Equal(t, tt.exitCode, *res.ExitCode)
		})
	}
}

func TestRunPrefixArguments(t *testing.T) {
	script := writeScript(t, `echo "$@"`)
	e := New(script, "compose", "--ansi", "never")

	res := e.Run(context.Background(), t.TempDir(), []string{"stop"}, "stop", time.Second*10)
	require.True(t, res.Success)
	assert.Equal(t, "compose --ansi never stop\n", res.Output)
}

func TestRunWorkDir(t *testing.T) {
	dir := t.TempDir()
	e := New(writeScript(t, "pwd"))

	res := e.Run(context.Background(), dir, nil, "pwd", 10*time.Second)
	require.True(t, res.Success)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(res.Output[:len(res.Output)-1])
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunMissingBinary(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "does-not-exist"))

	res := e.Run(context.Background(), t.TempDir(), []string{"up", "-d"}, "install", time.Second)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Nil(t, res.ExitCode)
}

func TestRunNoCommand(t *testing.T) {
	res := (&Executor{}).Run(context.Background(), t.TempDir(), nil, "empty", time.Second)
	assert.False(t, res.Success)
	assert.Equal(t, "no command configured", res.Error)
}

func TestRunTimeout(t *testing.T) {
	e := New(writeScript(t, "sleep 30"))

	start := time.Now()
	res := e.Run(context.Background(), t.TempDir(), nil, "slow", 200*time.Millisecond)

	assert.False(t, res.Success)
	assert.Equal(t, TimedOutMessage, res.Error)
	assert.Nil(t, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}
