// Package registry loads the declarative table of managed paths: one
// {system, repo, kind, category} tuple per entry, shared by every
// platform. The table is configuration, not code; entries are never
// created or destroyed at runtime.
package registry

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/inspect"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/types"
)

//go:embed registry.toml
var defaultRegistry []byte

// Registry is the loaded, validated table of managed paths
type Registry struct {
	// RepoRoot is the directory holding canonical copies; relative repo
	// paths resolve against it
	RepoRoot string

	// Entries are the managed paths in file order; reconciliation
	// processes them in exactly this order
	Entries []types.ManagedPath
}

type rawEntry struct {
	Name     string `koanf:"name"`
	System   string `koanf:"system"`
	Repo     string `koanf:"repo"`
	Kind     string `koanf:"kind"`
	Category string `koanf:"category"`
}

type rawRegistry struct {
	RepoRoot string     `koanf:"repo_root"`
	Paths    []rawEntry `koanf:"paths"`
}

// Load reads the registry at path, layered over the embedded defaults.
// An empty path loads the defaults alone.
func Load(path string) (*Registry, error) {
	logger := logging.GetLogger("registry")
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultRegistry), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrRegistryLoad, "loading built-in registry defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRegistryLoad, "loading registry from %s", path)
		}
		logger.Debug().Str("path", path).Msg("loaded registry file")
	}

	var raw rawRegistry
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrRegistryInvalid, "decoding registry")
	}

	reg, err := build(raw)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("repoRoot", reg.RepoRoot).
		Int("entries", len(reg.Entries)).
		Msg("registry loaded")
	return reg, nil
}

func build(raw rawRegistry) (*Registry, error) {
	if raw.RepoRoot == "" {
		return nil, errors.New(errors.ErrRegistryInvalid, "registry has no repo_root")
	}

	repoRoot := expand(raw.RepoRoot)
	if !filepath.IsAbs(repoRoot) {
		return nil, errors.Newf(errors.ErrRegistryInvalid,
			"repo_root %q does not resolve to an absolute path", raw.RepoRoot)
	}

	reg := &Registry{RepoRoot: repoRoot}
	seen := make(map[string]bool)

	for _, e := range raw.Paths {
		entry, err := buildEntry(e, repoRoot)
		if err != nil {
			return nil, err
		}
		if seen[entry.Name] {
			return nil, errors.Newf(errors.ErrRegistryInvalid,
				"duplicate registry entry %q", entry.Name)
		}
		seen[entry.Name] = true
		reg.Entries = append(reg.Entries, entry)
	}

	return reg, nil
}

func buildEntry(e rawEntry, repoRoot string) (types.ManagedPath, error) {
	if e.System == "" {
		return types.ManagedPath{}, errors.Newf(errors.ErrRegistryInvalid,
			"registry entry %q has no system path", e.Name)
	}
	if e.Repo == "" {
		return types.ManagedPath{}, errors.Newf(errors.ErrRegistryInvalid,
			"registry entry %q has no repo path", e.Name)
	}

	system := expand(e.System)
	if !filepath.IsAbs(system) {
		return types.ManagedPath{}, errors.Newf(errors.ErrRegistryInvalid,
			"system path %q for entry %q is not absolute", e.System, e.Name)
	}

	repo := expand(e.Repo)
	if !filepath.IsAbs(repo) {
		repo = filepath.Join(repoRoot, repo)
	}

	kind := types.PathKind(e.Kind)
	if e.Kind == "" {
		kind = types.KindFile
	}
	if !kind.Valid() {
		return types.ManagedPath{}, errors.Newf(errors.ErrRegistryInvalid,
			"entry %q has unknown kind %q", e.Name, e.Kind)
	}

	category := types.Category(e.Category)
	if !category.Valid() {
		return types.ManagedPath{}, errors.Newf(errors.ErrRegistryInvalid,
			"entry %q has unknown category %q", e.Name, e.Category)
	}

	name := e.Name
	if name == "" {
		name = filepath.Base(system)
	}

	return types.ManagedPath{
		Name:       name,
		SystemPath: system,
		RepoPath:   repo,
		Kind:       kind,
		Category:   category,
	}, nil
}

// CheckRepoRoot fails if the repository's backing directory does not
// exist. This runs before any path processing.
func (r *Registry) CheckRepoRoot(fsys types.FS) error {
	exists, err := inspect.Exists(fsys, r.RepoRoot)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Newf(errors.ErrRepoRootMissing,
			"repository root %s does not exist", r.RepoRoot)
	}
	return nil
}

// expand resolves ~ and environment variables in a configured path
func expand(path string) string {
	return paths.ExpandHome(os.ExpandEnv(path))
}
