// Package walk enumerates the directories of a repository bottom-up.
//
// Every non-ignored directory is emitted once, after all of its non-ignored
// subdirectories, together with its summarizable files and child directories in
// lexical order. The exclusion predicate for the entries of a directory is built
// from the configured base rules and that directory's own .gitignore.
package walk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/autodoc/internal/config"
	"github.com/temirov/autodoc/internal/ignore"
	"github.com/temirov/autodoc/internal/utils"
)

const (
	rootRelativePath            = "."
	readDirectoryErrorFormat    = "walk: read directory %s: %w"
	gitignoreLoadErrorFormat    = "walk: %w"
	rootValidationErrorFormat   = "walk: repository root %s: %w"
	rootNotDirectoryErrorFormat = "walk: repository root %s is not a directory"
)

// Options configures a traversal.
type Options struct {
	// Root is the absolute path of the repository.
	Root string
	// BaseRules are the configured ignore fragments.
	BaseRules []string
	// ReadmeName is the per-directory summary file, never reported as a file.
	ReadmeName string
	Logger     *zap.Logger
}

// Directory is one visited directory. Paths in Files and Subdirectories are
// relative to the repository root and slash-separated.
type Directory struct {
	AbsolutePath   string
	RelativePath   string
	Depth          int
	Files          []string
	Subdirectories []string
}

// IsRoot reports whether the directory is the repository root.
func (directory Directory) IsRoot() bool {
	return directory.RelativePath == rootRelativePath
}

type emitter struct {
	ctx context.Context
	out chan<- Directory
}

func (e *emitter) send(directory Directory) error {
	if e.out == nil {
		return fmt.Errorf("walk: directory channel is nil")
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- directory:
		return nil
	}
}

// Stream sends every non-ignored directory under options.Root to out in post-order.
// It returns the first filesystem error or the context error when cancelled.
func Stream(ctx context.Context, options Options, out chan<- Directory) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateRoot(options.Root); err != nil {
		return err
	}
	walker := &walker{options: normalizeOptions(options), emitter: &emitter{ctx: ctx, out: out}}
	return walker.visit(options.Root, rootRelativePath, 0)
}

// Dispatch streams directories to consume one at a time. The producer and the
// consumer run under one errgroup so a consumer error or a cancelled context stops both.
func Dispatch(ctx context.Context, options Options, consume func(Directory) error) error {
	group, streamCtx := errgroup.WithContext(ctx)
	directories := make(chan Directory)

	group.Go(func() error {
		defer close(directories)
		return Stream(streamCtx, options, directories)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case directory, ok := <-directories:
				if !ok {
					return nil
				}
				if err := consume(directory); err != nil {
					return err
				}
			}
		}
	})

	return group.Wait()
}

// Collect returns the post-order directory list.
func Collect(ctx context.Context, options Options) ([]Directory, error) {
	var directories []Directory
	err := Dispatch(ctx, options, func(directory Directory) error {
		directories = append(directories, directory)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return directories, nil
}

type walker struct {
	options Options
	emitter *emitter
}

func (w *walker) visit(absolutePath, relativePath string, depth int) error {
	if err := w.emitter.ctx.Err(); err != nil {
		return err
	}
	entries, readErr := os.ReadDir(absolutePath)
	if readErr != nil {
		return fmt.Errorf(readDirectoryErrorFormat, absolutePath, readErr)
	}
	localLines, loadErr := config.LoadGitignoreLines(absolutePath)
	if loadErr != nil {
		return fmt.Errorf(gitignoreLoadErrorFormat, loadErr)
	}
	matcher := ignore.Build(w.options.BaseRules, localLines, relativePath)

	directory := Directory{AbsolutePath: absolutePath, RelativePath: relativePath, Depth: depth}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		name := entry.Name()
		childRelativePath := utils.JoinRelative(relativePath, name)
		switch {
		case entry.IsDir():
			if matcher.Ignored(childRelativePath, true) {
				w.options.Logger.Debug("Ignoring directory", zap.String("path", childRelativePath))
				continue
			}
			directory.Subdirectories = append(directory.Subdirectories, childRelativePath)
		case entry.Type().IsRegular():
			if name == w.options.ReadmeName || name == utils.GitIgnoreFileName {
				continue
			}
			if matcher.Ignored(childRelativePath, false) {
				w.options.Logger.Debug("Ignoring file", zap.String("path", childRelativePath))
				continue
			}
			directory.Files = append(directory.Files, childRelativePath)
		}
	}

	for _, childRelativePath := range directory.Subdirectories {
		childAbsolutePath := filepath.Join(w.options.Root, filepath.FromSlash(childRelativePath))
		if err := w.visit(childAbsolutePath, childRelativePath, depth+1); err != nil {
			return err
		}
	}
	return w.emitter.send(directory)
}

func normalizeOptions(options Options) Options {
	if options.ReadmeName == "" {
		options.ReadmeName = utils.DefaultReadmeFileName
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return options
}

func validateRoot(root string) error {
	info, statErr := os.Stat(root)
	if statErr != nil {
		return fmt.Errorf(rootValidationErrorFormat, root, statErr)
	}
	if !info.IsDir() {
		return fmt.Errorf(rootNotDirectoryErrorFormat, root)
	}
	return nil
}
