package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func TestLoggerWritesEntries(t *testing.T) {
	logger, path := newTestLogger(t)

	logger.Info("dataset loaded")
	logger.Warning("duplicate airline")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "] INFO: dataset loaded")
	assert.Contains(t, lines[1], "] WARNING: duplicate airline")
	assert.True(t, strings.HasPrefix(lines[0], "["))
}

func TestLoggerSubscribe(t *testing.T) {
	logger, _ := newTestLogger(t)

	sub := logger.Subscribe()
	logger.Error("boom")

	select {
	case msg := <-sub:
		assert.Contains(t, msg, "ERROR: boom")
	case <-time.After(time.Second):
		t.Fatal("no log entry delivered")
	}

	logger.Unsubscribe(sub)
	_, ok := <-sub
	assert.False(t, ok)

	// 取消订阅后继续写日志不应阻塞或 panic
	logger.Info("after unsubscribe")
}

func TestLoggerReopen(t *testing.T) {
	logger, path := newTestLogger(t)
	logger.Info("before")

	// 模拟 logrotate 把文件移走后发送 SIGHUP
	moved := path + ".1"
	require.NoError(t, os.Rename(path, moved))
	require.NoError(t, logger.Reopen(""))
	logger.Info("after")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after")
	assert.NotContains(t, string(data), "before")
}

func TestLoggerClosed(t *testing.T) {
	logger, path := newTestLogger(t)
	sub := logger.Subscribe()
	require.NoError(t, logger.Close())

	logger.Info("after close")
	select {
	case msg := <-sub:
		assert.Contains(t, msg, "INFO: after close")
	case <-time.After(time.Second):
		t.Fatal("no log entry delivered")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "after close")

	rotated, err := logger.CheckRotate("1")
	require.NoError(t, err)
	assert.False(t, rotated)
}

func TestCheckRotate(t *testing.T) {
	logger, path := newTestLogger(t)

	rotated, err := logger.CheckRotate("1024")
	require.NoError(t, err)
	assert.False(t, rotated)

	logger.Info(strings.Repeat("x", 2048))
	rotated, err = logger.CheckRotate("1 * 1024")
	require.NoError(t, err)
	assert.True(t, rotated)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "app.*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	_, err = logger.CheckRotate("ten")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	n, err := ParseSize("10 * 1024 * 1024")
	require.NoError(t, err)
	assert.Equal(t, int64(10*1024*1024), n)

	n, err = ParseSize("512")
	require.NoError(t, err)
	assert.Equal(t, int64(512), n)

	_, err = ParseSize("")
	assert.Error(t, err)
}

func TestRotatedName(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "logs/app.20240301123000.log", RotatedName("logs/app.log", ts))
	assert.Equal(t, "app.20240301123000", RotatedName("app", ts))
}
