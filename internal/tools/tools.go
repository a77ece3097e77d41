// Package tools knows how each package manager under test is driven: which
// executable must exist, how an isolated environment is created, and the one
// shell command string per (tool, mode) that the trial executor measures.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkgbench/internal/design"
)

// Env is the explicit handle for the shared mutable isolated environment of
// one tool. The trial executor's CLEAN/PRIME steps are the only code that
// touches it.
type Env struct {
	Tool design.ToolID
	Dir  string
}

func NewEnv(workRoot string, tool design.ToolID) Env {
	return Env{Tool: tool, Dir: filepath.Join(workRoot, "envs", string(tool))}
}

// Remove deletes the isolated environment, leftover or not. Missing is fine.
func (e Env) Remove() error {
	return os.RemoveAll(e.Dir)
}

func (e Env) Exists() bool {
	_, err := os.Stat(e.Dir)
	return err == nil
}

// Commands builds the per-tool shell command strings. Python is the
// interpreter used for venv creation (pip, poetry).
type Commands struct {
	Tool   design.ToolID
	Python string
}

// Binary is the executable whose presence VALIDATE checks for this tool.
func (c Commands) Binary() string {
	switch c.Tool {
	case design.ToolUv:
		return "uv"
	case design.ToolPoetry:
		return "poetry"
	default:
		return c.Python
	}
}

// CreateEnv builds the unmeasured command that creates an empty isolated
// environment at envDir.
func (c Commands) CreateEnv(envDir string) string {
	switch c.Tool {
	case design.ToolUv:
		return fmt.Sprintf("uv venv %s", shellQuote(envDir))
	default:
		return fmt.Sprintf("%s -m venv %s", shellQuote(c.Python), shellQuote(envDir))
	}
}

// Install builds the measured install command: install the requirements
// manifest of the project (the process workdir) into envDir.
func (c Commands) Install(envDir string) string {
	switch c.Tool {
	case design.ToolUv:
		return fmt.Sprintf("uv pip install --python %s -r requirements.txt", shellQuote(filepath.Join(envDir, "bin", "python")))
	case design.ToolPoetry:
		return fmt.Sprintf("VIRTUAL_ENV=%s poetry install --no-root --no-interaction", shellQuote(envDir))
	default:
		return fmt.Sprintf("%s install -r requirements.txt", shellQuote(filepath.Join(envDir, "bin", "pip")))
	}
}

// Lock builds the resolve-only command, run in a scratch project workdir.
// Lock trials never touch the shared environment.
func (c Commands) Lock() string {
	switch c.Tool {
	case design.ToolUv:
		return "uv pip compile requirements.txt -o requirements.lock"
	case design.ToolPoetry:
		return "poetry lock --no-interaction"
	default:
		return fmt.Sprintf("%s -m pip install --dry-run --ignore-installed --quiet --report pip-lock.json -r requirements.txt", shellQuote(c.Python))
	}
}

// PurgeCache builds the unmeasured command that empties the tool's
// persistent package cache (cold trials only).
func (c Commands) PurgeCache() string {
	switch c.Tool {
	case design.ToolUv:
		return "uv cache clean"
	case design.ToolPoetry:
		return "poetry cache clear --all pypi --no-interaction"
	default:
		return fmt.Sprintf("%s -m pip cache purge", shellQuote(c.Python))
	}
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " '\"\\$`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
