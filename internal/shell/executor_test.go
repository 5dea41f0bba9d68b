package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "bower install --save", CommandLine("bower", "install", "--save"))
	assert.Equal(t, "polymer", CommandLine("polymer"))
}

func TestExecutorRunMissingTool(t *testing.T) {
	e := NewExecutor(t.TempDir())

	err := e.Run(context.Background(), "udes-definitely-not-installed", "build")
	require.Error(t, err)

	var subErr *SubprocessError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, "udes-definitely-not-installed build", subErr.Command)
	assert.Equal(t, -1, subErr.ExitCode)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	assert.Contains(t, err.Error(), "not found in PATH")
}

func TestExecutorRunExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	var stdout bytes.Buffer
	e := NewExecutor(t.TempDir(), WithOutput(&stdout, &stdout))

	require.NoError(t, e.Run(context.Background(), "sh", "-c", "echo hello"))
	assert.Equal(t, "hello\n", stdout.String())

	err := e.Run(context.Background(), "sh", "-c", "exit 3")
	var subErr *SubprocessError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, 3, subErr.ExitCode)
	assert.Equal(t, `command "sh -c exit 3" failed with exit code 3`, err.Error())
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  *SubprocessError
		want string
	}{
		{
			name: "known tool missing",
			err:  &SubprocessError{Command: "polymer build", Err: &exec.Error{Name: "polymer", Err: exec.ErrNotFound}},
			want: "polymer not found in PATH, install it with 'npm install -g polymer-cli'",
		},
		{
			name: "unknown tool missing",
			err:  &SubprocessError{Command: "foo", Err: &exec.Error{Name: "foo", Err: exec.ErrNotFound}},
			want: "foo not found in PATH",
		},
		{
			name: "non-zero exit",
			err:  &SubprocessError{Command: "eslint .", ExitCode: 1, Err: errors.New("exit status 1")},
			want: "",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hint(tt.err))
		})
	}
}
