// Package synchronizer makes declared links real.
//
// For each enabled spec it resolves the source and the destination's parent
// directory, then decides from (dest exists, force, update-only) whether to
// create the link, leave dest alone, or remove dest and relink:
//
//	exists  force  update   action
//	no      -      -        create
//	yes     no     -        skip
//	yes     yes    yes      skip
//	yes     yes    no       remove, then create
//
// Existence is checked with lstat, so a dangling symlink counts as present.
// Removal followed by creation is not atomic.
package synchronizer

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/arthur-debert/envsync/pkg/paths"
	"github.com/arthur-debert/envsync/pkg/report"
	"github.com/arthur-debert/envsync/pkg/types"
	"github.com/rs/zerolog"
)

// Synchronizer applies link specs through a types.FS.
type Synchronizer struct {
	fs        types.FS
	reporter  report.Reporter
	protected []string
	home      *string
	logger    zerolog.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithProtectedPaths forbids forced removal at or below any of roots.
func WithProtectedPaths(roots []string) Option {
	return func(s *Synchronizer) {
		s.protected = append(s.protected, roots...)
	}
}

// WithHome expands ~ in link paths to home instead of $HOME. An empty home
// leaves ~ paths unexpanded, so they fail to resolve.
func WithHome(home string) Option {
	return func(s *Synchronizer) {
		s.home = &home
	}
}

// New creates a synchronizer. A nil reporter discards events.
func New(fs types.FS, reporter report.Reporter, opts ...Option) *Synchronizer {
	if reporter == nil {
		reporter = report.Nop{}
	}
	s := &Synchronizer{
		fs:       fs,
		reporter: reporter,
		logger:   logging.GetLogger("synchronizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyAll applies specs in order and reports every failure. It never
// aborts: each spec's outcome is independent of the others.
func (s *Synchronizer) ApplyAll(specs []types.LinkSpec, update bool) Summary {
	done := logging.LogOperationStart(s.logger, "apply links")
	defer done()

	var summary Summary
	for _, spec := range specs {
		outcome, err := s.Apply(spec, update)
		if err != nil {
			s.reporter.Failed(err)
		}
		summary.Add(outcome)
	}

	s.logger.Info().
		Int("created", summary.Created).
		Int("replaced", summary.Replaced).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("disabled", summary.Disabled).
		Msg("Links applied")
	return summary
}

// Apply reconciles a single spec. Progress (creating, overwriting, skipped)
// is reported here; a returned error has not been reported yet.
func (s *Synchronizer) Apply(spec types.LinkSpec, update bool) (Outcome, error) {
	logger := s.logger.With().Str("link", spec.Name).Logger()

	if !spec.Enable {
		logger.Debug().Msg("Link disabled, skipping")
		return Disabled, nil
	}

	src, err := s.fs.Canonicalize(s.expand(spec.Src))
	if err != nil {
		logger.Debug().Err(err).Str("src", spec.Src).Msg("Source not resolvable")
		return Failed, errors.LocationNotFound("src", spec.Name, spec.Src)
	}

	dest, err := s.resolveDest(spec)
	if err != nil {
		logger.Debug().Err(err).Str("dest", spec.Dest).Msg("Destination parent not resolvable")
		return Failed, errors.LocationNotFound("dest", spec.Name, spec.Dest)
	}

	logger = logger.With().Str("src", src).Str("dest", dest).Logger()

	info, err := s.fs.Lstat(dest)
	if err != nil && !os.IsNotExist(err) {
		return Failed, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot inspect destination of link %q", spec.Name).
			WithDetail("name", spec.Name).
			WithDetail("dest", dest)
	}
	exists := err == nil

	switch {
	case !exists:
		s.reporter.Creating(spec.Name, dest)
		if err := s.link(spec, src, dest); err != nil {
			return Failed, err
		}
		logger.Info().Msg("Link created")
		return Created, nil

	case !spec.Force:
		logger.Debug().Msg("Destination exists, not forced")
		s.reporter.Skipped(spec.Name, dest, report.ReasonExists)
		return Skipped, nil

	case update:
		logger.Debug().Msg("Destination exists, update only")
		s.reporter.Skipped(spec.Name, dest, report.ReasonUpdateOnly)
		return Skipped, nil
	}

	if root, ok := s.protectedRoot(dest); ok {
		return Failed, errors.Newf(errors.ErrProtectedPath, "refusing to replace protected path %s for link %q, skipping", dest, spec.Name).
			WithDetail("name", spec.Name).
			WithDetail("dest", dest).
			WithDetail("protected", root)
	}

	s.reporter.Overwriting(spec.Name, dest)
	if err := s.remove(dest, info); err != nil {
		return Failed, errors.Wrapf(err, errors.ErrRemove, "failed to remove %s for link %q", dest, spec.Name).
			WithDetail("name", spec.Name).
			WithDetail("dest", dest)
	}
	if err := s.link(spec, src, dest); err != nil {
		return Failed, err
	}
	logger.Info().Msg("Link replaced")
	return Replaced, nil
}

func (s *Synchronizer) expand(path string) string {
	if s.home != nil {
		return paths.ExpandHomeDir(path, *s.home)
	}
	return paths.ExpandHome(path)
}

// resolveDest canonicalizes the parent of dest and rejoins the final
// component. dest itself may not exist.
func (s *Synchronizer) resolveDest(spec types.LinkSpec) (string, error) {
	dest := s.expand(spec.Dest)
	if dest == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty destination")
	}
	dest = filepath.Clean(dest)

	base := filepath.Base(dest)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", errors.Newf(errors.ErrInvalidInput, "destination %s has no final component", dest)
	}

	parent, err := s.fs.Canonicalize(filepath.Dir(dest))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, base), nil
}

func (s *Synchronizer) link(spec types.LinkSpec, src, dest string) error {
	if err := s.fs.Symlink(src, dest); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s for link %q", dest, spec.Name).
			WithDetail("name", spec.Name).
			WithDetail("src", src).
			WithDetail("dest", dest)
	}
	return nil
}

// remove deletes real directories recursively; files and symlinks
// (including links to directories) are unlinked.
func (s *Synchronizer) remove(dest string, info os.FileInfo) error {
	if info.IsDir() {
		s.logger.Debug().Str("dest", dest).Msg("Removing directory tree")
		return s.fs.RemoveAll(dest)
	}
	return s.fs.Remove(dest)
}

func (s *Synchronizer) protectedRoot(dest string) (string, bool) {
	for _, root := range s.protected {
		if paths.IsWithin(root, dest) {
			return root, true
		}
		if canonical, err := s.fs.Canonicalize(root); err == nil && paths.IsWithin(canonical, dest) {
			return root, true
		}
	}
	return "", false
}
