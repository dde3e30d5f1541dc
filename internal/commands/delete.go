package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/autodoc/internal/utils"
	"github.com/temirov/autodoc/internal/walk"
)

const deleteReadmeErrorFormat = "delete %s: %w"

// DeleteReport counts the README files a delete run removed.
type DeleteReport struct {
	Removed int
	Missing int
}

// Delete removes the README of every directory the traversal reaches. It never
// touches the snapshot and never leaves the repository root.
func Delete(ctx context.Context, options walk.Options) (DeleteReport, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	readmeName := options.ReadmeName
	if readmeName == "" {
		readmeName = utils.DefaultReadmeFileName
	}

	var report DeleteReport
	directories, err := walk.Collect(ctx, options)
	if err != nil {
		return report, err
	}
	for _, directory := range directories {
		readmePath := filepath.Join(directory.AbsolutePath, readmeName)
		if !utils.IsWithinRoot(readmePath, options.Root) {
			continue
		}
		removeErr := os.Remove(readmePath)
		switch {
		case removeErr == nil:
			logger.Info("Deleted README", zap.String(logFieldPath, utils.JoinRelative(directory.RelativePath, readmeName)))
			report.Removed++
		case errors.Is(removeErr, os.ErrNotExist):
			report.Missing++
		default:
			return report, fmt.Errorf(deleteReadmeErrorFormat, readmePath, removeErr)
		}
	}
	return report, nil
}
