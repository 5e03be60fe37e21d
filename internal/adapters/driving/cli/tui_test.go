package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/keymap"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

func TestTUICmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"tui"})
	require.NoError(t, err)
	assert.Equal(t, tuiCmd, cmd)
	assert.Equal(t, "Launch the interactive terminal UI", cmd.Short)
}

func TestControlsHelp(t *testing.T) {
	help := controlsHelp(keymap.Default())

	assert.Contains(t, help, "new question")
	assert.Contains(t, help, "enter")
	assert.Equal(t, 1, strings.Count(help, "↑/k"), "bindings shared by views are listed once")
}

func TestTUICmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "interactive terminal user interface")
	assert.Contains(t, out, "Controls:")
	assert.Contains(t, out, "--hybrid")
}

func TestNewTUIApp(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	app, err := newTUIApp(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestNewTUIApp_RequiresOrg(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	defaultOrg = ""

	_, err := newTUIApp(context.Background())
	assert.ErrorIs(t, err, errNoOrg)
}

func TestNewTUIApp_MissingServices(t *testing.T) {
	tests := []struct {
		name  string
		unset func()
		want  error
	}{
		{"retrieval", func() { retrievalService = nil }, tui.ErrMissingRetrievalService},
		{"instruction", func() { instructionService = nil }, tui.ErrMissingInstructionService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices(t)
			defer cleanup()
			tt.unset()

			_, err := newTUIApp(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// stubScheduler records Start and Stop calls.
type stubScheduler struct {
	started chan struct{}
	stopped bool
}

var _ driving.Scheduler = (*stubScheduler)(nil)

func (s *stubScheduler) Start(ctx context.Context) error {
	close(s.started)
	<-ctx.Done()
	return nil
}

func (s *stubScheduler) Stop() error {
	s.stopped = true
	return nil
}

func TestStartScheduler(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	stub := &stubScheduler{started: make(chan struct{})}
	scheduler = stub

	ctx, cancel := context.WithCancel(context.Background())
	stop := startScheduler(ctx)
	<-stub.started
	stop()
	cancel()

	assert.True(t, stub.stopped)
}

func TestStartScheduler_Nil(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	scheduler = nil

	stop := startScheduler(context.Background())
	assert.NotPanics(t, stop)
}
