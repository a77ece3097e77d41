package tools

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"pkgbench/internal/design"
	"pkgbench/internal/store"
)

type pyprojectPoetry struct {
	Name         string            `toml:"name"`
	Version      string            `toml:"version"`
	Description  string            `toml:"description"`
	Authors      []string          `toml:"authors"`
	Dependencies map[string]string `toml:"dependencies"`
}

type pyprojectBuildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

type pyproject struct {
	Tool struct {
		Poetry pyprojectPoetry `toml:"poetry"`
	} `toml:"tool"`
	BuildSystem pyprojectBuildSystem `toml:"build-system"`
}

// WriteManifests materializes the dependency manifests for one trial's
// project dir: requirements.txt for pip and uv, plus a minimal
// pyproject.toml when the tool is poetry.
func WriteManifests(dir string, tool design.ToolID, packages []string) error {
	reqs := strings.Join(packages, "\n") + "\n"
	if err := store.WriteFileAtomic(filepath.Join(dir, "requirements.txt"), []byte(reqs)); err != nil {
		return err
	}
	if tool != design.ToolPoetry {
		return nil
	}

	var p pyproject
	p.Tool.Poetry = pyprojectPoetry{
		Name:         "pkgbench-project",
		Version:      "0.1.0",
		Authors:      []string{},
		Dependencies: map[string]string{"python": "^3.10"},
	}
	for _, pkg := range packages {
		p.Tool.Poetry.Dependencies[pkg] = "*"
	}
	p.BuildSystem = pyprojectBuildSystem{
		Requires:     []string{"poetry-core"},
		BuildBackend: "poetry.core.masonry.api",
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return err
	}
	return store.WriteFileAtomic(filepath.Join(dir, "pyproject.toml"), buf.Bytes())
}
