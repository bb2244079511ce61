package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadre-oss/pilot/internal/agent"
	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/provider"
	"github.com/cadre-oss/pilot/internal/testutil"
)

func TestChatLoop(t *testing.T) {
	h := testutil.NewTestHarness(t)
	h.SetResponses(&provider.Response{Content: "first"}, &provider.Response{Content: "second"})
	rt, err := agent.NewRuntimeWithProvider(h.Config, h.Provider, h.Logger, h.Metrics)
	require.NoError(t, err)

	var out bytes.Buffer
	err = chatLoop(context.Background(), rt, strings.NewReader("hello\n\n  \nrefund?\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, 2, h.Provider.CallCount(), "blank lines are skipped")
	assert.Equal(t, 2, rt.Agent().Memory().Len())
	assert.Contains(t, out.String(), "Pilot Support Agent: first")
	assert.Contains(t, out.String(), "Pilot Support Agent: second")
	assert.Contains(t, out.String(), "provider: mock")
}

func TestChatLoop_CancelledContext(t *testing.T) {
	h := testutil.NewTestHarness(t)
	rt, err := agent.NewRuntimeWithProvider(h.Config, h.Provider, h.Logger, h.Metrics)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	defer r.Close()

	var out bytes.Buffer
	require.NoError(t, chatLoop(ctx, rt, r, &out))
	assert.Equal(t, 0, h.Provider.CallCount())
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pilot.yaml")
	t.Setenv("OPENAI_API_KEY", "sk-very-secret")

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	require.NoError(t, runConfigInit(configInitCmd, []string{path}))
	assert.Contains(t, out.String(), "Wrote "+path)
	assert.Error(t, runConfigInit(configInitCmd, []string{path}), "must not overwrite")

	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	out.Reset()
	configShowCmd.SetOut(&out)
	require.NoError(t, runConfigShow(configShowCmd, nil))
	assert.Contains(t, out.String(), "Pilot Support Agent")
	assert.NotContains(t, out.String(), "sk-very-secret")
	assert.Contains(t, out.String(), "Config file: "+path)

	out.Reset()
	configValidateCmd.SetOut(&out)
	require.NoError(t, runConfigValidate(configValidateCmd, nil))
	assert.Contains(t, out.String(), "OK")
}

func TestConfigValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent:\n  memory_window: -1\n"), 0644))

	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	err := runConfigValidate(configValidateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory_window")
}

func TestDoctor_MissingKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PILOT_PROVIDER_API_KEY", "")

	var out bytes.Buffer
	doctorCmd.SetOut(&out)
	require.NoError(t, runDoctor(doctorCmd, nil))
	assert.Contains(t, out.String(), "API key:    NOT SET")
	assert.Contains(t, out.String(), "Frontend:")
	assert.Contains(t, out.String(), "Some checks failed")
}

func TestDoctor_SimulatedWithFrontend(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PILOT_PROVIDER_API_KEY", config.DevAPIKey)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "frontend"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frontend", "index.html"), []byte("<html></html>"), 0644))

	var out bytes.Buffer
	doctorCmd.SetOut(&out)
	require.NoError(t, runDoctor(doctorCmd, nil))
	assert.Contains(t, out.String(), "simulated")
	assert.Contains(t, out.String(), "All checks passed!")
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "pilot "+Version))
}
