package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ncobase/pagekit/ctxutil"
	"github.com/ncobase/pagekit/logging/logger/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryCarriesTraceAndVersion(t *testing.T) {
	l := New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetVersion("1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Infof(ctx, "page %d", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "page 2", line["msg"])
	assert.Equal(t, "trace-1", line[ctxutil.TraceIDKey])
	assert.Equal(t, "1.2.3", line[VersionKey])
}

func TestInit(t *testing.T) {
	l := New()
	cleanup, err := l.Init(&config.Config{Level: int(logrus.DebugLevel), Format: "text", Output: "stdout"})
	require.NoError(t, err)
	cleanup()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	_, err = l.Init(&config.Config{Output: "file"})
	assert.Error(t, err)

	_, err = l.Init(&config.Config{Output: "syslog"})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "logs", "pagekit.log")
	cleanup, err = l.Init(&config.Config{Output: "file", OutputFile: path})
	require.NoError(t, err)
	l.Warnf(context.Background(), "written")
	cleanup()
	assert.FileExists(t, path)

	cleanup, err = l.Init(nil)
	require.NoError(t, err)
	cleanup()
}
