// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/autodoc/internal/commands"
	"github.com/temirov/autodoc/internal/config"
	"github.com/temirov/autodoc/internal/llm"
	"github.com/temirov/autodoc/internal/outline"
	"github.com/temirov/autodoc/internal/services/clipboard"
	"github.com/temirov/autodoc/internal/snapshot"
	"github.com/temirov/autodoc/internal/tokenizer"
	"github.com/temirov/autodoc/internal/utils"
	"github.com/temirov/autodoc/internal/walk"
)

const (
	restoreFlagName      = "restore"
	deleteFlagName       = "delete"
	configFlagName       = "config"
	copyFlagName         = "copy"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"
	versionTemplate      = "autodoc version: %s\n"
	rootUse              = "autodoc [repository]"
	rootShortDescription = "write LLM summaries into README files"
	rootLongDescription  = `autodoc walks a repository bottom-up and appends a summary pass to the README.md of
every directory: one section per child directory and one per readable file, followed by a
one-sentence directory summary that feeds the parent's pass.
The README state before each run is snapshotted; use --restore to revert the last run
and --delete to remove every README the traversal reaches.`
	rootUsageExample = `  # Summarize the current directory
  autodoc

  # Summarize a repository and copy its summary to the clipboard
  autodoc --copy ~/src/project

  # Undo the last run
  autodoc --restore ~/src/project`

	restoreFlagDescription = "restore README files from the last snapshot"
	deleteFlagDescription  = "delete every README file in the repository"
	configFlagDescription  = "path to a configuration file"
	copyFlagDescription    = "copy the repository summary to the clipboard"
	verboseFlagDescription = "log debug details"
	versionFlagDescription = "display application version"

	repositorySummaryTemplate   = "%s\n"
	generateReportTemplate      = "Summarized %d files in %d directories (%d skipped, %d truncated)\n"
	restoreReportTemplate       = "Restored %d README files, removed %d, skipped %d\n"
	deleteReportTemplate        = "Deleted %d README files\n"
	missingSnapshotMessage      = "No snapshot found; nothing restored\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"
	errorNotDirectoryFormat     = "path '%s' is not a directory"
	errorCopyFormat             = "copy summary to clipboard: %w"
)

// SummarizerFactory builds the summarizer for resolved LLM settings.
type SummarizerFactory func(ctx context.Context, settings config.LLMSettings) (commands.Summarizer, error)

// Dependencies are the collaborators the commands reach outside the process.
type Dependencies struct {
	NewSummarizer SummarizerFactory
	NewCounter    func(model string) (tokenizer.Counter, error)
	Copier        clipboard.Copier
	NewLogger     func(verbose bool) (*zap.Logger, error)
}

// DefaultDependencies wires the real LLM backends and the system clipboard.
func DefaultDependencies() Dependencies {
	return Dependencies{
		NewSummarizer: newLLMSummarizer,
		NewCounter:    tokenizer.NewCounter,
		Copier:        clipboard.NewService(),
		NewLogger:     utils.NewApplicationLogger,
	}
}

// Execute runs the autodoc application. An interrupt cancels the run after the
// section being written.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCommand := NewRootCommand(DefaultDependencies())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

type rootOptions struct {
	configPath  string
	restore     bool
	delete      bool
	copy        bool
	verbose     bool
	showVersion bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return runRoot(command, arguments, options, dependencies)
		},
	}
	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &options.restore, restoreFlagName, false, restoreFlagDescription)
	registerBooleanFlag(flagSet, &options.delete, deleteFlagName, false, deleteFlagDescription)
	registerBooleanFlag(flagSet, &options.copy, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &options.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.MarkFlagsMutuallyExclusive(restoreFlagName, deleteFlagName)

	rootCommand.AddCommand(createConfigCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func runRoot(command *cobra.Command, arguments []string, options rootOptions, dependencies Dependencies) error {
	repositoryRoot, resolveErr := resolveRepositoryPath(arguments)
	if resolveErr != nil {
		return resolveErr
	}

	newLogger := dependencies.NewLogger
	if newLogger == nil {
		newLogger = utils.NewApplicationLogger
	}
	logger, loggerErr := newLogger(options.verbose)
	if loggerErr != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerErr)
	}
	defer func() { _ = logger.Sync() }()

	applicationConfiguration, configErr := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if configErr != nil {
		return configErr
	}
	settings := applicationConfiguration.Resolve()
	if err := settings.EnsureMemoryLocation(); err != nil {
		return err
	}

	walkOptions := walk.Options{
		Root:       repositoryRoot,
		BaseRules:  settings.IgnorePaths,
		ReadmeName: settings.ReadmeName,
		Logger:     logger,
	}
	store := snapshot.NewStore(settings.MemoryLocation)
	output := command.OutOrStdout()
	ctx := command.Context()

	switch {
	case options.restore:
		return runRestore(output, repositoryRoot, store, logger)
	case options.delete:
		return runDelete(ctx, output, walkOptions)
	default:
		return runGenerate(ctx, output, walkOptions, store, settings, options.copy, dependencies, logger)
	}
}

func runGenerate(
	ctx context.Context,
	output io.Writer,
	walkOptions walk.Options,
	store snapshot.Store,
	settings config.Settings,
	copyToClipboard bool,
	dependencies Dependencies,
	logger *zap.Logger,
) error {
	newSummarizer := dependencies.NewSummarizer
	if newSummarizer == nil {
		newSummarizer = newLLMSummarizer
	}
	summarizer, summarizerErr := newSummarizer(ctx, settings.LLM)
	if summarizerErr != nil {
		return summarizerErr
	}

	newCounter := dependencies.NewCounter
	if newCounter == nil {
		newCounter = tokenizer.NewCounter
	}
	var budget *tokenizer.Budget
	if counter, counterErr := newCounter(settings.LLM.Model); counterErr != nil {
		logger.Warn("Token budget disabled", zap.Error(counterErr))
	} else {
		budget = &tokenizer.Budget{Counter: counter, MaxTokens: settings.LLM.MaxInputTokens}
	}

	report, generateErr := commands.Generate(ctx, commands.GenerateOptions{
		Walk:       walkOptions,
		Summarizer: summarizer,
		Budget:     budget,
		Outlines:   outline.NewRegistry(),
		Snapshots:  &store,
		Logger:     logger,
	})
	if generateErr != nil {
		return generateErr
	}

	if _, err := fmt.Fprintf(output, generateReportTemplate, report.FilesSummarized, report.DirectoriesProcessed, report.FilesSkipped, report.FilesTruncated); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(output, repositorySummaryTemplate, report.RootSummary); err != nil {
		return err
	}
	if copyToClipboard && dependencies.Copier != nil {
		if err := dependencies.Copier.Copy(report.RootSummary); err != nil {
			return fmt.Errorf(errorCopyFormat, err)
		}
	}
	return nil
}

func runRestore(output io.Writer, repositoryRoot string, store snapshot.Store, logger *zap.Logger) error {
	report, err := commands.Restore(commands.RestoreOptions{Root: repositoryRoot, Store: store, Logger: logger})
	if err != nil {
		return err
	}
	if report.SnapshotMissing {
		_, writeErr := fmt.Fprint(output, missingSnapshotMessage)
		return writeErr
	}
	_, writeErr := fmt.Fprintf(output, restoreReportTemplate, report.Restored, report.Removed, report.Skipped)
	return writeErr
}

func runDelete(ctx context.Context, output io.Writer, walkOptions walk.Options) error {
	report, err := commands.Delete(ctx, walkOptions)
	if err != nil {
		return err
	}
	_, writeErr := fmt.Fprintf(output, deleteReportTemplate, report.Removed)
	return writeErr
}

func newLLMSummarizer(ctx context.Context, settings config.LLMSettings) (commands.Summarizer, error) {
	client, err := llm.NewRegistry().NewClient(ctx, llm.Settings{
		Provider:      settings.Provider,
		Model:         settings.Model,
		BaseURL:       settings.BaseURL,
		APIKey:        settings.APIKey,
		ContextWindow: settings.ContextWindow,
		Temperature:   settings.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return llm.NewSummarizer(client), nil
}

// resolveRepositoryPath returns the absolute repository directory named by the
// optional argument, defaulting to the working directory.
func resolveRepositoryPath(arguments []string) (string, error) {
	inputPath := ""
	if len(arguments) > 0 {
		inputPath = arguments[0]
	}
	if inputPath == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		inputPath = workingDirectory
	}
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return "", fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return "", fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return cleanPath, nil
}
