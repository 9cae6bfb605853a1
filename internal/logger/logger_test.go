package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/config"
)

func TestNewWritesJSONFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	dir := t.TempDir()
	log, err := New(Options{Dir: dir, Level: "debug"})
	require.NoError(t, err)

	zap.L().Debug("tenant online", zap.String("host", "card.example"))
	_ = log.Sync()

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"msg":"logger online"`)
	require.Contains(t, string(raw), `"host":"card.example"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Dir: t.TempDir(), Level: "chatty"})
	require.Error(t, err)
}

func TestFromConfigResolvesRelativeDir(t *testing.T) {
	c := &config.Config{}
	c.Paths.Root = "/srv/linkcard"
	require.Equal(t, "/srv/linkcard/logs", FromConfig(c).Dir)

	c.Log.Dir = "/var/log/linkcard"
	c.Log.Level = "warn"
	o := FromConfig(c)
	require.Equal(t, "/var/log/linkcard", o.Dir)
	require.Equal(t, "warn", o.Level)
}
