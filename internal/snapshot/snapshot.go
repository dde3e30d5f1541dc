// Package snapshot records the README files a run is about to modify so that the
// run can be reverted exactly.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/temirov/autodoc/internal/utils"
	"github.com/temirov/autodoc/internal/walk"
)

const (
	snapshotFileExtension        = ".jsonl"
	snapshotNameSeparator        = "-"
	rootDigestLength             = 12
	temporaryFilePattern         = ".autodoc-snapshot-*"
	captureReadErrorFormat       = "snapshot: read %s: %w"
	saveErrorFormat              = "snapshot: save %s: %w"
	loadErrorFormat              = "snapshot: load %s: %w"
	notFoundErrorFormat          = "%w for %s at %s"
	recordOutsideRootErrorFormat = "snapshot: record %s escapes %s"
	rootMismatchErrorFormat      = "%w: %s was recorded for %s"
	missingHeaderErrorFormat     = "snapshot: load %s: missing repository header"
)

var (
	// ErrSnapshotNotFound indicates that no snapshot exists for a repository.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrRootMismatch indicates a snapshot file recorded for another repository.
	// It wraps ErrSnapshotNotFound.
	ErrRootMismatch = fmt.Errorf("%w: repository root mismatch", ErrSnapshotNotFound)
)

// header is the first line of a snapshot file.
type header struct {
	Root string `json:"root"`
}

// Record is the state of one README before a run. Path is relative to the
// repository root and slash-separated.
type Record struct {
	Path    string `json:"path"`
	Existed bool   `json:"existed"`
	Content string `json:"content,omitempty"`
}

// Snapshot is the pre-run state of every README a run may touch. Root is the
// absolute repository path the records belong to.
type Snapshot struct {
	Root    string
	Records []Record
}

// Capture walks the repository with the same options a generate run uses and
// records each directory's README once.
func Capture(ctx context.Context, options walk.Options) (Snapshot, error) {
	directories, err := walk.Collect(ctx, options)
	if err != nil {
		return Snapshot{}, err
	}
	readmeName := options.ReadmeName
	if readmeName == "" {
		readmeName = utils.DefaultReadmeFileName
	}

	snapshot := Snapshot{Root: canonicalRoot(options.Root)}
	seen := map[string]struct{}{}
	for _, directory := range directories {
		relativePath := utils.JoinRelative(directory.RelativePath, readmeName)
		if _, duplicate := seen[relativePath]; duplicate {
			continue
		}
		seen[relativePath] = struct{}{}

		content, readErr := os.ReadFile(filepath.Join(directory.AbsolutePath, readmeName))
		switch {
		case readErr == nil:
			snapshot.Records = append(snapshot.Records, Record{Path: relativePath, Existed: true, Content: string(content)})
		case errors.Is(readErr, os.ErrNotExist):
			snapshot.Records = append(snapshot.Records, Record{Path: relativePath})
		default:
			return Snapshot{}, fmt.Errorf(captureReadErrorFormat, relativePath, readErr)
		}
	}
	return snapshot, nil
}

// Store keeps one snapshot per repository under Directory.
type Store struct {
	Directory string
}

// NewStore returns a Store rooted at directory.
func NewStore(directory string) Store {
	return Store{Directory: directory}
}

// Path returns the snapshot file for repositoryRoot: the directory name followed
// by a digest of the absolute root, so repositories sharing a name never share a file.
func (store Store) Path(repositoryRoot string) string {
	root := canonicalRoot(repositoryRoot)
	digest := sha256.Sum256([]byte(root))
	fileName := filepath.Base(root) + snapshotNameSeparator + hex.EncodeToString(digest[:])[:rootDigestLength] + snapshotFileExtension
	return filepath.Join(store.Directory, fileName)
}

func canonicalRoot(repositoryRoot string) string {
	absoluteRoot, err := filepath.Abs(repositoryRoot)
	if err != nil {
		return filepath.Clean(repositoryRoot)
	}
	return filepath.Clean(absoluteRoot)
}

// Save replaces the snapshot for repositoryRoot. The file is written to a
// temporary name and renamed into place.
func (store Store) Save(repositoryRoot string, snapshot Snapshot) error {
	destinationPath := store.Path(repositoryRoot)
	if err := os.MkdirAll(store.Directory, 0o755); err != nil {
		return fmt.Errorf(saveErrorFormat, destinationPath, err)
	}
	temporaryFile, createErr := os.CreateTemp(store.Directory, temporaryFilePattern)
	if createErr != nil {
		return fmt.Errorf(saveErrorFormat, destinationPath, createErr)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	encoder := json.NewEncoder(temporaryFile)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(header{Root: canonicalRoot(repositoryRoot)}); err != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf(saveErrorFormat, destinationPath, err)
	}
	for _, record := range snapshot.Records {
		if err := encoder.Encode(record); err != nil {
			_ = temporaryFile.Close()
			return fmt.Errorf(saveErrorFormat, destinationPath, err)
		}
	}
	if err := temporaryFile.Sync(); err != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf(saveErrorFormat, destinationPath, err)
	}
	if err := temporaryFile.Close(); err != nil {
		return fmt.Errorf(saveErrorFormat, destinationPath, err)
	}
	if err := os.Rename(temporaryPath, destinationPath); err != nil {
		return fmt.Errorf(saveErrorFormat, destinationPath, err)
	}
	committed = true
	return nil
}

// Load reads the snapshot for repositoryRoot. It returns ErrSnapshotNotFound
// when none was saved and ErrRootMismatch when the file names another root.
//
// #nosec G304
func (store Store) Load(repositoryRoot string) (Snapshot, error) {
	sourcePath := store.Path(repositoryRoot)
	fileHandle, openErr := os.Open(sourcePath)
	if openErr != nil {
		if errors.Is(openErr, os.ErrNotExist) {
			return Snapshot{}, fmt.Errorf(notFoundErrorFormat, ErrSnapshotNotFound, repositoryRoot, sourcePath)
		}
		return Snapshot{}, fmt.Errorf(loadErrorFormat, sourcePath, openErr)
	}
	defer fileHandle.Close()

	root := canonicalRoot(repositoryRoot)
	decoder := json.NewDecoder(fileHandle)
	var recorded header
	if decodeErr := decoder.Decode(&recorded); decodeErr != nil {
		if errors.Is(decodeErr, io.EOF) {
			return Snapshot{}, fmt.Errorf(missingHeaderErrorFormat, sourcePath)
		}
		return Snapshot{}, fmt.Errorf(loadErrorFormat, sourcePath, decodeErr)
	}
	if recorded.Root == "" {
		return Snapshot{}, fmt.Errorf(missingHeaderErrorFormat, sourcePath)
	}
	if recorded.Root != root {
		return Snapshot{}, fmt.Errorf(rootMismatchErrorFormat, ErrRootMismatch, sourcePath, recorded.Root)
	}

	snapshot := Snapshot{Root: root}
	for {
		var record Record
		decodeErr := decoder.Decode(&record)
		if errors.Is(decodeErr, io.EOF) {
			break
		}
		if decodeErr != nil {
			return Snapshot{}, fmt.Errorf(loadErrorFormat, sourcePath, decodeErr)
		}
		if !utils.IsWithinRoot(filepath.Join(root, filepath.FromSlash(record.Path)), root) {
			return Snapshot{}, fmt.Errorf(recordOutsideRootErrorFormat, record.Path, root)
		}
		snapshot.Records = append(snapshot.Records, record)
	}
	return snapshot, nil
}
