package llmdispatch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/llmdispatch"
)

func TestCallLogRecordsToTodaysFile(t *testing.T) {
	dir := t.TempDir()
	log, err := llmdispatch.NewCallLog(dir)
	require.NoError(t, err)

	now := time.Now()
	log.Record(llmdispatch.CallLogEntry{
		Timestamp: now,
		Model:     "test-model",
		PromptLen: 10,
	})

	path := filepath.Join(dir, now.Format("2006-01-02")+".jsonl")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "test-model")
}

func TestNewCallLogPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -llmdispatch.RetentionDays-1)
	oldPath := filepath.Join(dir, old.Format("2006-01-02")+".jsonl")
	require.NoError(t, os.WriteFile(oldPath, []byte("{}\n"), 0o644))

	_, err := llmdispatch.NewCallLog(dir)
	require.NoError(t, err)

	_, err = os.Stat(oldPath)
	require.True(t, os.IsNotExist(err))
}
