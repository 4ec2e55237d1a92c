package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/linksnap/internal/platform"
	"github.com/sdejongh/linksnap/pkg/ignore"
	"github.com/sdejongh/linksnap/pkg/models"
	"github.com/sdejongh/linksnap/pkg/storage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func sameFile(t *testing.T, a, b string) bool {
	t.Helper()
	ai, err := os.Lstat(a)
	require.NoError(t, err)
	bi, err := os.Lstat(b)
	require.NoError(t, err)
	return os.SameFile(ai, bi)
}

func newRotator() *Rotator {
	return NewRotator(storage.NewLocal(), nil)
}

func backupOp(source, latest string, kind models.LinkKind, ignored ...string) *models.BackupOperation {
	return &models.BackupOperation{
		ID:             "test-op",
		SourcePath:     source,
		LatestPath:     latest,
		LinkKind:       kind,
		IgnorePatterns: ignored,
		Shallow:        true,
	}
}

func TestArchiveName(t *testing.T) {
	created := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)

	assert.Equal(t, "photos_2024-03-01-14h05m09s", ArchiveName("photos", created))
	assert.Equal(t,
		filepath.Join("/backups", "photos_2024-03-01-14h05m09s"),
		ArchivePath("/data/photos", "/backups/latest", created))
	assert.Equal(t,
		filepath.Join("/backups", "root_2024-03-01-14h05m09s"),
		ArchivePath("/", "/backups/latest", created))
}

func TestCloneHardLinks(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "archive")
	dst := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	writeFile(t, filepath.Join(src, "b", "c.txt"), "y")
	writeFile(t, filepath.Join(src, "b", "skip.log"), "log")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0755))

	cloner := NewCloner(storage.NewLocal(), ignore.New([]string{"*.log"}), nil)
	result, err := cloner.Clone(context.Background(), src, dst, models.LinkHard)
	require.NoError(t, err)

	assert.False(t, result.Resumed)
	assert.Equal(t, 2, result.Stats.FilesLinked)
	assert.Equal(t, 3, result.Stats.DirsCreated)
	assert.True(t, sameFile(t, filepath.Join(src, "a.txt"), filepath.Join(dst, "a.txt")))
	assert.True(t, sameFile(t, filepath.Join(src, "b", "c.txt"), filepath.Join(dst, "b", "c.txt")))
	assert.DirExists(t, filepath.Join(dst, "empty"))
	assert.NoFileExists(t, filepath.Join(dst, "b", "skip.log"))
}

func TestCloneSymbolicLinks(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "archive")
	dst := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(src, "b", "c.txt"), "y")

	cloner := NewCloner(storage.NewLocal(), nil, nil)
	if _, err := cloner.Clone(context.Background(), src, dst, models.LinkSymbolic); err != nil {
		if errors.Is(err, models.ErrLinkCreation) {
			t.Skipf("symlinks unavailable: %v", err)
		}
		t.Fatalf("Clone() error = %v", err)
	}

	target, err := os.Readlink(filepath.Join(dst, "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(src, "b", "c.txt"), target)
	assert.Equal(t, "y", readFile(t, filepath.Join(dst, "b", "c.txt")))
}

func TestCloneResumesExistingDestination(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "archive")
	dst := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	writeFile(t, filepath.Join(src, "b", "c.txt"), "y")
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "b"), 0755))
	require.NoError(t, os.Link(filepath.Join(src, "b", "c.txt"), filepath.Join(dst, "b", "c.txt")))

	cloner := NewCloner(storage.NewLocal(), nil, nil)
	result, err := cloner.Clone(context.Background(), src, dst, models.LinkHard)
	require.NoError(t, err)

	assert.True(t, result.Resumed)
	assert.Equal(t, 1, result.Stats.FilesLinked)
	assert.Equal(t, 0, result.Stats.DirsCreated)
	assert.True(t, sameFile(t, filepath.Join(src, "a.txt"), filepath.Join(dst, "a.txt")))
}

func TestCloneDestinationIsFile(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "archive")
	dst := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	writeFile(t, dst, "not a dir")

	cloner := NewCloner(storage.NewLocal(), nil, nil)
	_, err := cloner.Clone(context.Background(), src, dst, models.LinkHard)
	assert.Error(t, err)
}

// failingExists reports an inspection failure for every existence check
type failingExists struct {
	storage.Backend
	err error
}

func (f failingExists) Exists(ctx context.Context, path string) (bool, error) {
	return false, f.err
}

func TestCloneExistenceCheckFails(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "archive")
	dst := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(src, "a.txt"), "x")

	denied := errors.New("permission denied")
	cloner := NewCloner(failingExists{Backend: storage.NewLocal(), err: denied}, nil, nil)
	result, err := cloner.Clone(context.Background(), src, dst, models.LinkHard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, denied))
	assert.False(t, errors.Is(err, models.ErrLinkCreation))
	assert.Equal(t, 0, result.Stats.FilesLinked)
	assert.NoFileExists(t, filepath.Join(dst, "a.txt"))
}

func TestRotateExampleCycle(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "backups", "latest")
	writeFile(t, filepath.Join(source, "a.txt"), "x")
	writeFile(t, filepath.Join(source, "b", "c.txt"), "y")
	require.NoError(t, os.MkdirAll(filepath.Dir(latest), 0755))

	rotator := newRotator().WithClock(clockwork.NewFakeClock())
	ctx := context.Background()

	first, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard))
	require.NoError(t, err)
	assert.True(t, first.FirstRun)
	assert.True(t, first.Changed)
	assert.Empty(t, first.ArchivePath)
	assert.Equal(t, "x", readFile(t, filepath.Join(latest, "a.txt")))
	assert.Equal(t, "y", readFile(t, filepath.Join(latest, "b", "c.txt")))

	writeFile(t, filepath.Join(source, "a.txt"), "x2")

	second, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard))
	require.NoError(t, err)
	assert.False(t, second.FirstRun)
	assert.True(t, second.Changed)
	assert.Equal(t, models.StatusChanged, second.Status)
	require.NotEmpty(t, second.ArchivePath)

	archive := second.ArchivePath
	assert.Equal(t, filepath.Dir(latest), filepath.Dir(archive))
	assert.True(t, strings.HasPrefix(filepath.Base(archive), "src_"))

	assert.Equal(t, "x", readFile(t, filepath.Join(archive, "a.txt")))
	assert.Equal(t, "x2", readFile(t, filepath.Join(latest, "a.txt")))
	assert.True(t, sameFile(t, filepath.Join(archive, "b", "c.txt"), filepath.Join(latest, "b", "c.txt")))
	assert.Equal(t, 1, second.Stats.FilesReplaced)
	assert.Equal(t, 2, second.Stats.FilesLinked)
}

func TestRotateUnchangedSource(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(source, "a.txt"), "x")

	rotator := newRotator()
	ctx := context.Background()

	_, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard))
	require.NoError(t, err)

	report, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard))
	require.NoError(t, err)
	assert.False(t, report.Changed)
	assert.Equal(t, models.StatusIdentical, report.Status)
	assert.Empty(t, report.Actions)
	assert.True(t, sameFile(t, filepath.Join(report.ArchivePath, "a.txt"), filepath.Join(latest, "a.txt")))
}

func TestRotateFirstRunHonoursIgnore(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(source, "a.txt"), "x")
	writeFile(t, filepath.Join(source, "debug.log"), "log")

	report, err := newRotator().Rotate(context.Background(), backupOp(source, latest, models.LinkHard, "*.log"))
	require.NoError(t, err)
	assert.True(t, report.FirstRun)
	assert.FileExists(t, filepath.Join(latest, "a.txt"))
	assert.NoFileExists(t, filepath.Join(latest, "debug.log"))
}

func TestRotateIgnoredSourceOnlyFile(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(source, "a.txt"), "x")

	rotator := newRotator()
	ctx := context.Background()
	_, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard, "*.log"))
	require.NoError(t, err)

	writeFile(t, filepath.Join(source, "debug.log"), "new log")
	report, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard, "*.log"))
	require.NoError(t, err)
	assert.False(t, report.Changed)
	assert.NoFileExists(t, filepath.Join(latest, "debug.log"))
}

func TestRotateSymbolicLinks(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(source, "b", "c.txt"), "y")

	rotator := newRotator()
	ctx := context.Background()
	_, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkSymbolic))
	require.NoError(t, err)

	report, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkSymbolic))
	if errors.Is(err, models.ErrLinkCreation) {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, err)
	assert.False(t, report.Changed)

	target, err := os.Readlink(filepath.Join(latest, "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(report.ArchivePath, "b", "c.txt"), target)
}

func TestRotateDryRun(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(source, "a.txt"), "x")
	ctx := context.Background()

	t.Run("MissingLatest", func(t *testing.T) {
		op := backupOp(source, latest, models.LinkHard)
		op.DryRun = true
		report, err := newRotator().Rotate(ctx, op)
		require.NoError(t, err)
		assert.True(t, report.FirstRun)
		assert.NoDirExists(t, latest)
		assert.Equal(t, 1, report.Status.ExitCode(true))
	})

	t.Run("ExistingLatest", func(t *testing.T) {
		_, err := newRotator().Rotate(ctx, backupOp(source, latest, models.LinkHard))
		require.NoError(t, err)
		writeFile(t, filepath.Join(source, "a.txt"), "changed")

		op := backupOp(source, latest, models.LinkHard)
		op.DryRun = true
		report, err := newRotator().Rotate(ctx, op)
		require.NoError(t, err)
		assert.True(t, report.Changed)
		assert.Empty(t, report.ArchivePath)
		assert.Equal(t, "x", readFile(t, filepath.Join(latest, "a.txt")))

		entries, err := os.ReadDir(tempDir)
		require.NoError(t, err)
		assert.Len(t, entries, 2, "no archive may be created in dry-run")
	})
}

func TestRotateArchiveCollision(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(source, "a.txt"), "x")

	rotator := newRotator()
	ctx := context.Background()
	_, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard))
	require.NoError(t, err)

	created, err := platform.CreationTime(latest)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(ArchivePath(source, latest, created), 0755))

	report, err := rotator.Rotate(ctx, backupOp(source, latest, models.LinkHard))
	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, report.Status)
	assert.FileExists(t, filepath.Join(latest, "a.txt"))
}

func TestRotateSourceNotDirectory(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "file.txt")
	writeFile(t, source, "x")

	_, err := newRotator().Rotate(context.Background(), backupOp(source, filepath.Join(tempDir, "latest"), models.LinkHard))
	assert.Error(t, err)
}

func TestRotateComparisonFollowsOperation(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "src")
	latest := filepath.Join(tempDir, "latest")
	writeFile(t, filepath.Join(source, "a.txt"), "abc")
	writeFile(t, filepath.Join(source, "debug.log"), "log")

	ctx := context.Background()
	_, err := newRotator().Rotate(ctx, backupOp(source, latest, models.LinkHard, "*.log"))
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(latest, "debug.log"))

	// same size and modification time, different content
	info, err := os.Stat(filepath.Join(source, "a.txt"))
	require.NoError(t, err)
	writeFile(t, filepath.Join(source, "a.txt"), "xyz")
	require.NoError(t, os.Chtimes(filepath.Join(source, "a.txt"), info.ModTime(), info.ModTime()))

	shallow := backupOp(source, latest, models.LinkHard, "*.log")
	shallow.DryRun = true
	report, err := newRotator().Rotate(ctx, shallow)
	require.NoError(t, err)
	assert.False(t, report.Changed)

	deep := backupOp(source, latest, models.LinkHard, "*.log")
	deep.DryRun = true
	deep.Shallow = false
	report, err = newRotator().Rotate(ctx, deep)
	require.NoError(t, err)
	assert.True(t, report.Changed)
	require.Len(t, report.Actions, 1)
	assert.Equal(t, models.ActionReplace, report.Actions[0].Action)

	unfiltered := backupOp(source, latest, models.LinkHard)
	unfiltered.DryRun = true
	report, err = newRotator().Rotate(ctx, unfiltered)
	require.NoError(t, err)
	assert.True(t, report.Changed)
}
