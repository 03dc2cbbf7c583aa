package main

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/config"
	"github.com/winterwar/wwlauncher/internal/domain"
)

// TestRenderPurgeSummary verifies rows and totals
func TestRenderPurgeSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := domain.PurgeSummary{
		Results: []domain.PurgeResult{
			{Candidate: domain.CandidatePath{Path: "/data/Cache/42", Rule: domain.RuleMarker}, Outcome: domain.PurgeRemoved},
			{Candidate: domain.CandidatePath{Path: "/data/x.ini", Rule: domain.RuleOverrideConfig}, Outcome: domain.PurgeFailed, Reason: errors.New("in use")},
		},
		Removed: 1,
		Failed:  1,
	}

	require.NoError(t, renderPurgeSummary(&buf, summary))

	out := buf.String()
	assert.Contains(t, out, "/data/Cache/42")
	assert.Contains(t, out, "in use")
	assert.Contains(t, out, "Removed 1, failed 1")
}

// TestRenderPurgeSummary_DryRun verifies the dry run totals line
func TestRenderPurgeSummary_DryRun(t *testing.T) {
	var buf bytes.Buffer
	summary := domain.PurgeSummary{
		Results: []domain.PurgeResult{
			{Candidate: domain.CandidatePath{Path: "/data/Cache/42"}, Outcome: domain.PurgeSkipped},
		},
		Skipped: 1,
		DryRun:  true,
	}

	require.NoError(t, renderPurgeSummary(&buf, summary))
	assert.Contains(t, buf.String(), "Dry run: 1 path(s) would be removed")
}

// TestRenderPurgeSummary_Empty verifies the nothing-found message
func TestRenderPurgeSummary_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, renderPurgeSummary(&buf, domain.PurgeSummary{}))
	assert.Contains(t, buf.String(), "No Winter War artifacts found.")
}

// TestRenderPolicies verifies the package table and locations
func TestRenderPolicies(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, renderPolicies(&buf, catalog.NewRegistry().GetAll(), "/docs/ROGame"))

	out := buf.String()
	assert.Contains(t, out, "winterwar")
	assert.Contains(t, out, "WinterWar.u")
	assert.Contains(t, out, "1758494341")
	assert.Contains(t, out, "locations under /docs/ROGame")
}

// TestPrintFatal verifies the error line and log hint
func TestPrintFatal(t *testing.T) {
	var buf bytes.Buffer

	printFatal(&buf, domain.NewError(domain.KindLaunchFailed, "could not launch", nil), "/logs/LaunchWinterWar.log")

	out := buf.String()
	assert.Contains(t, out, "could not launch")
	assert.Contains(t, out, "Check /logs/LaunchWinterWar.log for details.")
}

// TestCreateLogger_NoOutputs verifies a silent logger when console and file are off
func TestCreateLogger_NoOutputs(t *testing.T) {
	logger := createLogger(config.LogConfig{Level: "info", Console: false}, "")
	require.NotNil(t, logger)
	logger.Info("discarded")
}

// TestCreateLogger_FileOnlyWhenLogsDirExists verifies the launch log placement
func TestCreateLogger_FileOnlyWhenLogsDirExists(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "LaunchWinterWar.log")

	logger := createLogger(config.LogConfig{Level: "debug", Console: false}, logPath)
	logger.Info("written to file")
	_ = logger.Sync()
	assert.FileExists(t, logPath)

	missing := filepath.Join(dir, "missing", "LaunchWinterWar.log")
	logger = createLogger(config.LogConfig{Level: "debug", Console: false}, missing)
	logger.Info("not written")
	assert.NoFileExists(t, missing)
}

// TestRenderPurgeSummary_PermissionHint verifies locked files get a hint
func TestRenderPurgeSummary_PermissionHint(t *testing.T) {
	var buf bytes.Buffer
	summary := domain.PurgeSummary{
		Results: []domain.PurgeResult{
			{
				Candidate: domain.CandidatePath{Path: "/data/Cache/42"},
				Outcome:   domain.PurgeFailed,
				Reason:    &fs.PathError{Op: "remove", Path: "/data/Cache/42", Err: fs.ErrPermission},
			},
		},
		Failed: 1,
	}

	require.NoError(t, renderPurgeSummary(&buf, summary))
	assert.Contains(t, buf.String(), "run the launcher as administrator")
}
