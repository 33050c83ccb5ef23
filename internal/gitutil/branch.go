// Package gitutil answers small questions about the surrounding git checkout.
package gitutil

import (
	"os/exec"
	"strings"
)

// DefaultBranch is used when the current directory is not a git checkout or
// the branch cannot be determined (detached HEAD, fresh repo).
const DefaultBranch = "main"

// CurrentBranch returns the checked-out branch name, falling back to
// DefaultBranch when git is unavailable or reports nothing useful.
func CurrentBranch() string {
	out, err := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return DefaultBranch
	}
	branch := strings.TrimSpace(string(out))
	if branch == "" || branch == "HEAD" {
		return DefaultBranch
	}
	return branch
}
