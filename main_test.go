package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logadapter "github.com/MyCarrier-DevOps/repouri/internal/adapters/logger"
	"github.com/MyCarrier-DevOps/repouri/internal/infrastructure/config"
)

type recordingLogger struct {
	fields []map[string]interface{}
}

func (r *recordingLogger) Info(_ context.Context, _ string, f map[string]interface{}) {
	r.fields = append(r.fields, f)
}
func (r *recordingLogger) Debug(_ context.Context, _ string, f map[string]interface{}) {
	r.fields = append(r.fields, f)
}
func (r *recordingLogger) Warn(_ context.Context, _ string, f map[string]interface{}) {
	r.fields = append(r.fields, f)
}
func (r *recordingLogger) Error(_ context.Context, _ string, _ error, f map[string]interface{}) {
	r.fields = append(r.fields, f)
}

func TestToAppConfig(t *testing.T) {
	cfg := &config.Config{
		BaseURL:    "https://sourcegraph.example.com",
		Remote:     "upstream",
		LogLevel:   "debug",
		LogAppName: "repouri",
	}

	app := toAppConfig(cfg)

	assert.Equal(t, cfg.BaseURL, app.BaseURL)
	assert.Equal(t, cfg.Remote, app.Remote)
	assert.Equal(t, cfg.LogLevel, app.LogLevel)
	assert.Equal(t, cfg.LogAppName, app.LogAppName)
}

func TestWithComponent_RetagsZapAdapter(t *testing.T) {
	rec := &recordingLogger{}
	cli := logadapter.NewZapAdapter(rec).WithComponent("cli")

	tagged := withComponent(cli, "git")
	tagged.Info(context.Background(), "opened", nil)

	require.Len(t, rec.fields, 1)
	assert.Equal(t, "git", rec.fields[0][logadapter.ComponentField])
}

func TestWithComponent_OtherLoggerUnchanged(t *testing.T) {
	rec := &recordingLogger{}

	assert.Same(t, rec, withComponent(rec, "git"))
}

func TestNewDependencies_AllSet(t *testing.T) {
	deps := newDependencies()

	assert.NotNil(t, deps.LoggerFactory)
	assert.NotNil(t, deps.ConfigLoader)
	assert.NotNil(t, deps.GitRepoFactory)
	assert.NotNil(t, deps.ResolverFactory)
	assert.NotNil(t, deps.OutputWriterFactory)
	assert.NotNil(t, deps.Stdout)
	assert.NotNil(t, deps.Stderr)
}
