package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/modfile"

	"github.com/temirov/autodoc/internal/outline"
	"github.com/temirov/autodoc/internal/snapshot"
	"github.com/temirov/autodoc/internal/tokenizer"
	"github.com/temirov/autodoc/internal/utils"
	"github.com/temirov/autodoc/internal/walk"
)

const (
	passHeaderFormat       = "\n## Summary: %s\n"
	directorySectionFormat = "\n### Directory Summary: %s\n%s\n"
	fileSectionFormat      = "\n### File Summary: %s\n%s\n"
	outlineHeading         = "Declarations:\n"
	headHeading            = "Beginning of file:\n"
	outlineSeparator       = "\n\n"

	openReadmeErrorFormat      = "open %s: %w"
	writeReadmeErrorFormat     = "write %s: %w"
	closeReadmeErrorFormat     = "close %s: %w"
	fitPromptErrorFormat       = "fit prompt for %s: %w"
	summarizeFileErrorFormat   = "%s: %w"
	summarizeDirErrorFormat    = "%s: %w"
	captureSnapshotErrorFormat = "capture snapshot: %w"

	logFieldDirectory = "directory"
	logFieldPath      = "path"
	logFieldSize      = "size"
	logFieldMimeType  = "mime"
	logFieldTokens    = "tokens"
	logFieldDepth     = "depth"

	rootCacheKey = "."
)

// Summarizer writes the two kinds of summaries a run needs.
type Summarizer interface {
	SummarizeFile(ctx context.Context, filePrompt string) (string, error)
	SummarizeDirectory(ctx context.Context, readmeText string) (string, error)
}

// GenerateOptions configures a generate run.
type GenerateOptions struct {
	Walk       walk.Options
	Summarizer Summarizer
	// Budget caps each file prompt. A nil Budget sends files whole.
	Budget *tokenizer.Budget
	// Outlines supplies declaration lists for files over the budget.
	Outlines *outline.Registry
	// Snapshots, when set, receives the pre-run README state before anything is written.
	Snapshots *snapshot.Store
	Logger    *zap.Logger
}

// RunReport summarizes a finished generate run.
type RunReport struct {
	DirectoriesProcessed int
	FilesSummarized      int
	FilesSkipped         int
	FilesTruncated       int
	RootSummary          string
	// DirectorySummaries holds the summary of every processed directory, keyed
	// by relative path with "." for the root.
	DirectorySummaries map[string]string
	// SummaryOrder lists the keys of DirectorySummaries in completion order.
	SummaryOrder []string
}

type aggregator struct {
	options   GenerateOptions
	logger    *zap.Logger
	cache     *SummaryCache
	report    RunReport
	rootLabel string
}

// Generate appends a summary pass to the README of every non-ignored directory,
// deepest directories first, and returns the repository-level summary in the report.
func Generate(ctx context.Context, options GenerateOptions) (RunReport, error) {
	if options.Summarizer == nil {
		return RunReport{}, errors.New("generate: summarizer is nil")
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.Walk.ReadmeName == "" {
		options.Walk.ReadmeName = utils.DefaultReadmeFileName
	}
	if options.Walk.Logger == nil {
		options.Walk.Logger = logger
	}

	if options.Snapshots != nil {
		captured, captureErr := snapshot.Capture(ctx, options.Walk)
		if captureErr != nil {
			return RunReport{}, fmt.Errorf(captureSnapshotErrorFormat, captureErr)
		}
		if saveErr := options.Snapshots.Save(options.Walk.Root, captured); saveErr != nil {
			return RunReport{}, saveErr
		}
		logger.Debug("Saved snapshot", zap.String(logFieldPath, options.Snapshots.Path(options.Walk.Root)), zap.Int("records", len(captured.Records)))
	}

	runner := &aggregator{
		options:   options,
		logger:    logger,
		cache:     NewSummaryCache(),
		rootLabel: RootLabel(options.Walk.Root),
	}
	dispatchErr := walk.Dispatch(ctx, options.Walk, func(directory walk.Directory) error {
		return runner.processDirectory(ctx, directory)
	})
	runner.report.DirectorySummaries = runner.cache.Entries()
	runner.report.SummaryOrder = runner.cache.Order()
	if dispatchErr != nil {
		return runner.report, dispatchErr
	}
	runner.report.RootSummary, _ = runner.cache.Lookup(rootCacheKey)
	return runner.report, nil
}

// RootLabel names the repository in the root pass header: the module path from a
// go.mod at the root, otherwise the directory name.
//
// #nosec G304
func RootLabel(root string) string {
	fallback := filepath.Base(filepath.Clean(root))
	goModBytes, readError := os.ReadFile(filepath.Join(root, utils.GoModuleFileName))
	if readError != nil {
		return fallback
	}
	moduleFile, parseError := modfile.Parse(utils.GoModuleFileName, goModBytes, nil)
	if parseError != nil || moduleFile.Module == nil || moduleFile.Module.Mod.Path == "" {
		return fallback
	}
	return moduleFile.Module.Mod.Path
}

func (runner *aggregator) processDirectory(ctx context.Context, directory walk.Directory) (returnedErr error) {
	readmePath := filepath.Join(directory.AbsolutePath, runner.options.Walk.ReadmeName)
	readme, openErr := os.OpenFile(readmePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		return fmt.Errorf(openReadmeErrorFormat, readmePath, openErr)
	}
	defer func() {
		if closeErr := readme.Close(); closeErr != nil && returnedErr == nil {
			returnedErr = fmt.Errorf(closeReadmeErrorFormat, readmePath, closeErr)
		}
	}()

	var written strings.Builder
	writeSection := func(section string) error {
		if _, err := readme.WriteString(section); err != nil {
			return fmt.Errorf(writeReadmeErrorFormat, readmePath, err)
		}
		if err := readme.Sync(); err != nil {
			return fmt.Errorf(writeReadmeErrorFormat, readmePath, err)
		}
		written.WriteString(section)
		return nil
	}

	label := directory.RelativePath
	if directory.IsRoot() {
		label = runner.rootLabel
	}
	runner.logger.Info("Started summary of", zap.String(logFieldDirectory, label), zap.Int(logFieldDepth, directory.Depth))
	if err := writeSection(fmt.Sprintf(passHeaderFormat, label)); err != nil {
		return err
	}

	for _, childRelativePath := range directory.Subdirectories {
		childSummary, found := runner.cache.Lookup(childRelativePath)
		if !found {
			continue
		}
		runner.logger.Info("Summarizing Seen Directory", zap.String(logFieldPath, childRelativePath))
		if err := writeSection(fmt.Sprintf(directorySectionFormat, childRelativePath, childSummary)); err != nil {
			return err
		}
	}

	for _, fileRelativePath := range directory.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		fileAbsolutePath := filepath.Join(runner.options.Walk.Root, filepath.FromSlash(fileRelativePath))
		source, readErr := ReadSource(fileAbsolutePath, fileRelativePath)
		if errors.Is(readErr, ErrUndecodable) {
			runner.logger.Warn("Skipping undecodable file", zap.String(logFieldPath, fileRelativePath))
			runner.report.FilesSkipped++
			continue
		}
		if readErr != nil {
			return readErr
		}
		runner.logger.Info("Summarizing File",
			zap.String(logFieldPath, fileRelativePath),
			zap.String(logFieldSize, utils.FormatFileSize(source.SizeBytes)),
			zap.String(logFieldMimeType, source.MimeType),
		)
		prompt, promptErr := runner.filePrompt(source)
		if promptErr != nil {
			return promptErr
		}
		fileSummary, summarizeErr := runner.options.Summarizer.SummarizeFile(ctx, prompt)
		if summarizeErr != nil {
			return fmt.Errorf(summarizeFileErrorFormat, fileRelativePath, summarizeErr)
		}
		if err := writeSection(fmt.Sprintf(fileSectionFormat, fileRelativePath, fileSummary)); err != nil {
			return err
		}
		runner.report.FilesSummarized++
	}

	directorySummary, summarizeErr := runner.options.Summarizer.SummarizeDirectory(ctx, written.String())
	if summarizeErr != nil {
		return fmt.Errorf(summarizeDirErrorFormat, label, summarizeErr)
	}
	runner.cache.Store(directory.RelativePath, directorySummary)
	runner.report.DirectoriesProcessed++
	return nil
}

// filePrompt returns the prompt for source, replacing an oversize file with its
// declaration outline followed by as much of its beginning as fits.
func (runner *aggregator) filePrompt(source Source) (string, error) {
	prompt := source.Prompt()
	budget := runner.options.Budget
	if budget == nil || budget.Counter == nil {
		return prompt, nil
	}
	exceeds, exceedsErr := budget.Exceeds(prompt)
	if exceedsErr != nil {
		return "", fmt.Errorf(fitPromptErrorFormat, source.RelativePath, exceedsErr)
	}
	if !exceeds {
		return prompt, nil
	}
	runner.report.FilesTruncated++

	prefix := ""
	declarations, outlineErr := runner.options.Outlines.Outline(source.RelativePath, []byte(source.Content))
	if outlineErr != nil {
		runner.logger.Warn("Outline unavailable", zap.String(logFieldPath, source.RelativePath), zap.Error(outlineErr))
	} else if declarations != "" {
		prefix = outlineHeading + declarations + outlineSeparator + headHeading
	}

	overhead, countErr := budget.Counter.CountString(FormatFilePrompt(source.RelativePath, prefix))
	if countErr != nil {
		return "", fmt.Errorf(fitPromptErrorFormat, source.RelativePath, countErr)
	}
	if overhead >= budget.MaxTokens {
		fitted, fitErr := budget.Fit(FormatFilePrompt(source.RelativePath, prefix))
		if fitErr != nil {
			return "", fmt.Errorf(fitPromptErrorFormat, source.RelativePath, fitErr)
		}
		runner.logger.Warn("Truncated file prompt", zap.String(logFieldPath, source.RelativePath), zap.Int(logFieldTokens, fitted.Tokens))
		return fitted.Text, nil
	}

	head, fitErr := tokenizer.Budget{Counter: budget.Counter, MaxTokens: budget.MaxTokens - overhead}.Fit(source.Content)
	if fitErr != nil {
		return "", fmt.Errorf(fitPromptErrorFormat, source.RelativePath, fitErr)
	}
	runner.logger.Warn("Truncated file prompt", zap.String(logFieldPath, source.RelativePath), zap.Int(logFieldTokens, overhead+head.Tokens))
	return FormatFilePrompt(source.RelativePath, prefix+head.Text), nil
}
