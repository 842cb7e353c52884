package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/contraption/engine/scene"
	"github.com/Carmen-Shannon/contraption/internal/config"
	"github.com/Carmen-Shannon/contraption/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoScene = filepath.Join("..", "..", "engine", "loader", "testdata", "demo.yaml")

// copyDemo copies the demo scene and its model into a temporary directory.
func copyDemo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"demo.yaml", "arm.gltf"} {
		data, err := os.ReadFile(filepath.Join(filepath.Dir(demoScene), name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return filepath.Join(dir, "demo.yaml")
}

func rename(t *testing.T, path, name string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.Replace(string(data), "name: demo", "name: "+name, 1)
	require.NotEqual(t, string(data), edited)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
}

func testConfig(scenePath string) config.Config {
	cfg := config.Default()
	cfg.Scene = scenePath
	cfg.TickRate = 1000
	cfg.Workers = 2
	return cfg
}

func TestNewAppRequiresScene(t *testing.T) {
	_, err := newApp(config.Default(), logging.NewNop())
	assert.ErrorIs(t, err, errNoScene)

	cfg := testConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = newApp(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	cfg := testConfig(demoScene)
	cfg.FrameLimit = 3
	cfg.InspectorAddr = "127.0.0.1:0"
	cfg.Profiling = true

	a, err := newApp(cfg, logging.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.run(context.Background()))
	assert.Equal(t, uint64(3), a.engine.Frames())
	assert.Equal(t, uint64(3), a.backend.Submitted())
}

func TestReload(t *testing.T) {
	path := copyDemo(t)
	a, err := newApp(testConfig(path), logging.NewNop())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.engine.Step(0)
	require.NoError(t, err)

	rename(t, path, "edited")
	require.NoError(t, a.reload())
	_, err = a.engine.Step(0)
	require.NoError(t, err)

	snap, ok := a.engine.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "edited", snap.Name)
	assert.Equal(t, 2, a.engine.Animator().Count())
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := copyDemo(t)
	cfg := testConfig(path)
	cfg.Watch = true

	a, err := newApp(cfg, logging.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	require.Eventually(t, func() bool { return a.engine.Frames() > 0 }, 2*time.Second, 5*time.Millisecond)
	// the watcher registers after the engine starts; give it a moment
	time.Sleep(50 * time.Millisecond)
	rename(t, path, "watched")

	assert.Eventually(t, func() bool {
		snap, ok := a.engine.Snapshot()
		return ok && snap.Name == "watched"
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestInspectCommandJSON(t *testing.T) {
	out := execute(t, "inspect", demoScene, "--frames", "2", "--format", "json", "--dump=false")

	var snap scene.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "demo", snap.Name)
	assert.Len(t, snap.Cameras, 2)
	assert.Len(t, snap.Lights, 2)
}

func TestInspectCommandYAMLAndDump(t *testing.T) {
	out := execute(t, "inspect", demoScene, "--format", "yaml", "--dump=false")
	assert.Contains(t, out, "name: demo")

	out = execute(t, "inspect", demoScene, "--dump")
	assert.Contains(t, out, "scene.Snapshot")
	assert.Contains(t, out, `"demo"`)
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "contraption version dev\n", execute(t, "version"))
}
