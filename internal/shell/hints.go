package shell

import (
	"errors"
	"os/exec"
	"strings"
)

// installHints tells the user how to get a missing tool.
var installHints = map[string]string{
	"polymer":      "install it with 'npm install -g polymer-cli'",
	"bower":        "install it with 'npm install -g bower'",
	"bower-locker": "install it with 'npm install -g bower-locker'",
	"eslint":       "install it with 'npm install -g eslint'",
	"htmlhint":     "install it with 'npm install -g htmlhint'",
	"npm":          "install Node.js from https://nodejs.org",
	"git":          "install git from https://git-scm.com",
}

// Hint converts a subprocess failure into a user-facing suggestion.
// It returns an empty string when there is nothing useful to add.
func Hint(err *SubprocessError) string {
	if err == nil || err.Err == nil {
		return ""
	}

	tool := strings.Fields(err.Command)
	if len(tool) == 0 {
		return ""
	}

	if errors.Is(err.Err, exec.ErrNotFound) {
		if hint, ok := installHints[tool[0]]; ok {
			return tool[0] + " not found in PATH, " + hint
		}
		return tool[0] + " not found in PATH"
	}

	return ""
}
