package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/autodoc/internal/snapshot"
	"github.com/temirov/autodoc/internal/utils"
)

const (
	restoreWriteErrorFormat  = "restore %s: %w"
	restoreRemoveErrorFormat = "remove %s: %w"
	restoreStatErrorFormat   = "inspect %s: %w"
	restoreEscapeErrorFormat = "restore %s: path escapes %s"
)

// RestoreOptions configures a restore run.
type RestoreOptions struct {
	Root   string
	Store  snapshot.Store
	Logger *zap.Logger
}

// RestoreReport counts what a restore run changed.
type RestoreReport struct {
	Restored        int
	Removed         int
	Skipped         int
	SnapshotMissing bool
}

// Restore returns every README recorded in the last snapshot to its recorded
// state. A README that no longer exists is left alone. A missing snapshot is
// logged as a warning and is not an error.
func Restore(options RestoreOptions) (RestoreReport, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var report RestoreReport

	loaded, loadErr := options.Store.Load(options.Root)
	if errors.Is(loadErr, snapshot.ErrRootMismatch) {
		logger.Warn("Snapshot belongs to another repository", zap.String(logFieldDirectory, options.Root), zap.Error(loadErr))
	}
	if errors.Is(loadErr, snapshot.ErrSnapshotNotFound) {
		logger.Warn("No snapshot to restore", zap.String(logFieldDirectory, options.Root), zap.String(logFieldPath, options.Store.Path(options.Root)))
		report.SnapshotMissing = true
		return report, nil
	}
	if loadErr != nil {
		return report, loadErr
	}
	if snapshotInfo, statErr := os.Stat(options.Store.Path(options.Root)); statErr == nil {
		logger.Debug("Loaded snapshot", zap.String(logFieldPath, options.Store.Path(options.Root)), zap.String("taken", utils.FormatTimestamp(snapshotInfo.ModTime())))
	}

	for _, record := range loaded.Records {
		targetPath := filepath.Join(options.Root, filepath.FromSlash(record.Path))
		if !utils.IsWithinRoot(targetPath, options.Root) {
			return report, fmt.Errorf(restoreEscapeErrorFormat, record.Path, options.Root)
		}
		if _, statErr := os.Stat(targetPath); statErr != nil {
			if errors.Is(statErr, os.ErrNotExist) {
				logger.Debug("Skipping absent README", zap.String(logFieldPath, record.Path))
				report.Skipped++
				continue
			}
			return report, fmt.Errorf(restoreStatErrorFormat, targetPath, statErr)
		}
		if record.Existed {
			if err := os.WriteFile(targetPath, []byte(record.Content), 0o644); err != nil {
				return report, fmt.Errorf(restoreWriteErrorFormat, targetPath, err)
			}
			logger.Info("Restored README", zap.String(logFieldPath, record.Path))
			report.Restored++
			continue
		}
		if err := os.Remove(targetPath); err != nil {
			return report, fmt.Errorf(restoreRemoveErrorFormat, targetPath, err)
		}
		logger.Info("Removed README", zap.String(logFieldPath, record.Path))
		report.Removed++
	}
	return report, nil
}
