package pilot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SimulatedAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
agent:
  name: Embedded Agent
provider:
  name: simulated
`), 0644))

	a, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "Embedded Agent", a.Name())
	assert.NotEmpty(t, a.ID())

	reply := a.Respond(context.Background(), "Can I get a refund?")
	assert.Contains(t, reply, "refund policy")

	history := a.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Can I get a refund?", history[0].User)
	assert.Equal(t, reply, history[0].Reply)
	assert.False(t, history[0].Timestamp.IsZero())
}

func TestNew_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  temperature: 9\n"), 0644))

	_, err := New(path)
	assert.Error(t, err)
}
