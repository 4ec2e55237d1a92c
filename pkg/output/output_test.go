package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/linksnap/pkg/models"
)

func sampleBackup() *models.BackupReport {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.BackupReport{
		OperationID: "op-1",
		SourcePath:  "/data/src",
		LatestPath:  "/backups/latest",
		ArchivePath: "/backups/src_2024-03-01-09h00m00s",
		LinkKind:    models.LinkHard,
		StartTime:   start,
		EndTime:     start.Add(1500 * time.Millisecond),
		Duration:    1500 * time.Millisecond,
		Changed:     true,
		Status:      models.StatusChanged,
		Stats:       models.Statistics{FilesLinked: 2, FilesReplaced: 1, DirsCompared: 2},
		Actions: []models.FileAction{
			{Action: models.ActionReplace, Path: "/backups/latest/a.txt", Source: "/data/src/a.txt", Applied: true},
			{Action: models.ActionDelete, Path: "/backups/latest/old", IsDir: true, Applied: true},
		},
	}
}

func samplePurge() *models.PurgeReport {
	return &models.PurgeReport{
		OperationID: "op-2",
		RootPath:    "/backups",
		Kept:        "/backups/s4",
		Scanned:     []string{"/backups/s1", "/backups/s2", "/backups/s3"},
		Redundant:   []string{"/backups/s2"},
		Comparisons: 2,
		Status:      models.StatusChanged,
	}
}

func TestNew(t *testing.T) {
	f, err := New("human", false)
	require.NoError(t, err)
	assert.Equal(t, "human", f.Name())

	f, err = New("json", false)
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	_, err = New("xml", false)
	assert.Error(t, err)
}

func TestHumanFormatterBackup(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter(true)
	require.NoError(t, f.Start(&buf, "backup"))
	require.NoError(t, f.Backup(sampleBackup()))

	out := buf.String()
	assert.Contains(t, out, "Starting backup")
	assert.Contains(t, out, "Archived:   /backups/src_2024-03-01-09h00m00s")
	assert.Contains(t, out, "Files replaced:     1")
	assert.Contains(t, out, "replace /backups/latest/a.txt with /data/src/a.txt")
	assert.Contains(t, out, "delete dir /backups/latest/old")
	assert.Contains(t, out, "Status: changed")
	assert.NotContains(t, out, "identical")
}

func TestHumanFormatterIdenticalAndFirstRun(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter(false)
	require.NoError(t, f.Start(&buf, ""))

	report := sampleBackup()
	report.Changed = false
	report.Actions = nil
	report.Status = models.StatusIdentical
	require.NoError(t, f.Backup(report))
	assert.Contains(t, buf.String(), "[ Directories are identical. ]")

	buf.Reset()
	first := &models.BackupReport{FirstRun: true, DryRun: true, Changed: true, Status: models.StatusChanged}
	require.NoError(t, f.Backup(first))
	assert.Contains(t, buf.String(), "nothing to compare")
	assert.Contains(t, buf.String(), "Differences: true")
}

func TestHumanFormatterPurge(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.PurgeReport)
		want   string
	}{
		{"TestingMode", func(r *models.PurgeReport) {}, "Testing mode"},
		{"Declined", func(r *models.PurgeReport) { r.Destroy = true }, "Deletion declined"},
		{"Deleted", func(r *models.PurgeReport) {
			r.Destroy, r.Confirmed, r.Removed = true, true, []string{"/backups/s2"}
		}, "Deleted 1 of 1 directories"},
		{"NoDuplicates", func(r *models.PurgeReport) { r.Redundant = nil }, "No duplicate directories found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewHumanFormatter(false)
			require.NoError(t, f.Start(&buf, ""))
			report := samplePurge()
			tt.modify(report)
			require.NoError(t, f.Purge(report))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()
	require.NoError(t, f.Start(&buf, "backup"))
	require.NoError(t, f.Backup(sampleBackup()))

	var backup JSONBackupData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &backup))
	assert.Equal(t, "op-1", backup.OperationID)
	assert.Equal(t, "changed", backup.Status)
	assert.Equal(t, int64(1500), backup.DurationMs)
	assert.Len(t, backup.Actions, 2)

	buf.Reset()
	report := samplePurge()
	report.Removed = nil
	require.NoError(t, f.Purge(report))
	assert.Contains(t, buf.String(), `"removed": []`)

	buf.Reset()
	require.NoError(t, f.Error(errors.New("boom")))
	var failure JSONErrorData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &failure))
	assert.Equal(t, "failed", failure.Status)
	assert.Equal(t, "boom", failure.Error)
}

func TestWriteActionsReport(t *testing.T) {
	origFS := fs
	fs = afero.NewMemMapFs()
	t.Cleanup(func() { fs = origFS })

	t.Run("Human", func(t *testing.T) {
		require.NoError(t, WriteActionsReport(sampleBackup(), "/report.txt", "human"))
		data, err := afero.ReadFile(fs, "/report.txt")
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, "Total Actions: 2")
		assert.Contains(t, out, "Replaced (1 entries)")
		assert.Contains(t, out, "  /backups/latest/old/")
		// deletions come before replacements
		assert.Less(t, strings.Index(out, "Deleted"), strings.Index(out, "Replaced"))
	})

	t.Run("JSON", func(t *testing.T) {
		require.NoError(t, WriteActionsReport(sampleBackup(), "/report.json", "json"))
		data, err := afero.ReadFile(fs, "/report.json")
		require.NoError(t, err)
		var doc struct {
			TotalCount int                 `json:"total_count"`
			Actions    []models.FileAction `json:"actions"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, 2, doc.TotalCount)
		assert.Equal(t, models.ActionReplace, doc.Actions[0].Action)
	})

	t.Run("NoActions", func(t *testing.T) {
		report := sampleBackup()
		report.Actions = nil
		require.NoError(t, WriteActionsReport(report, "/empty.txt", "human"))
		exists, err := afero.Exists(fs, "/empty.txt")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)
	assert.False(t, IsTerminal(&buf))

	bar.Advance("a", "b") // before Start is a no-op
	bar.Start(3)
	bar.Advance("/backups/s1", "/backups/s2")
	bar.Advance("/backups/s1", "/backups/s3")
	assert.Equal(t, int64(2), bar.Current())
	bar.Finish()
	assert.Equal(t, int64(0), bar.Current())
}
