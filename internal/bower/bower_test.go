package bower

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udes/udes-cli/internal/shell/shelltest"
)

func TestParseArgs(t *testing.T) {
	req, err := ParseArgs("install", []string{"polymer", "--save", "paper-button#^2", "-F"})
	require.NoError(t, err)

	assert.Equal(t, CommandInstall, req.Command)
	assert.Equal(t, []string{"polymer", "paper-button#^2"}, req.Packages)
	assert.Equal(t, []string{"--save", "-F"}, req.Options)
}

func TestParseArgsInvalidCommand(t *testing.T) {
	_, err := ParseArgs("link", nil)

	var invalid *InvalidCommandError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "link", invalid.Name)
	assert.Contains(t, err.Error(), "install, lock, status, uninstall, unlock, update, validate")
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want []string
	}{
		{
			name: "install",
			req:  &Request{Command: CommandInstall, Packages: []string{"polymer"}, Options: []string{"--save"}},
			want: []string{"bower-locker unlock", "bower install polymer --save", "bower-locker lock"},
		},
		{
			name: "install all",
			req:  &Request{Command: CommandInstall},
			want: []string{"bower-locker unlock", "bower install", "bower-locker lock"},
		},
		{
			name: "uninstall",
			req:  &Request{Command: CommandUninstall, Packages: []string{"a", "b"}},
			want: []string{"bower-locker unlock", "bower uninstall a b", "bower-locker lock"},
		},
		{
			name: "update",
			req:  &Request{Command: CommandUpdate},
			want: []string{"bower-locker unlock", "bower update", "bower-locker lock"},
		},
		{name: "lock", req: &Request{Command: CommandLock}, want: []string{"bower-locker lock"}},
		{name: "unlock", req: &Request{Command: CommandUnlock}, want: []string{"bower-locker unlock"}},
		{name: "status", req: &Request{Command: CommandStatus}, want: []string{"bower-locker status"}},
		{name: "validate", req: &Request{Command: CommandValidate}, want: []string{"bower-locker validate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := shelltest.NewRecorder()
			require.NoError(t, NewRunner(rec, nil).Run(context.Background(), tt.req))
			assert.Equal(t, tt.want, rec.Commands())
		})
	}
}

func TestRunBowerFailureRelocks(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.FailOn("bower install", 1)

	err := NewRunner(rec, nil).Run(context.Background(), &Request{Command: CommandInstall})
	require.Error(t, err)
	assert.Equal(t, []string{"bower-locker unlock", "bower install", "bower-locker lock"}, rec.Commands())
}

func TestRunUnlockFailureStops(t *testing.T) {
	rec := shelltest.NewRecorder()
	rec.FailOn("bower-locker unlock", 2)

	err := NewRunner(rec, nil).Run(context.Background(), &Request{Command: CommandUpdate})
	require.Error(t, err)
	assert.Equal(t, []string{"bower-locker unlock"}, rec.Commands())
}

func TestRunUnknownCommand(t *testing.T) {
	rec := shelltest.NewRecorder()
	err := NewRunner(rec, nil).Run(context.Background(), &Request{Command: "prune"})
	require.Error(t, err)
	assert.Empty(t, rec.Commands())
}
