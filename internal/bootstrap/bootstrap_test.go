package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raykavin/fxbootstrap/internal/instructions"
	"github.com/raykavin/fxbootstrap/internal/layout"
	"github.com/raykavin/fxbootstrap/internal/prompt"
	"github.com/raykavin/fxbootstrap/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBootstrapper(t *testing.T, root string, stdin string, logs *bytes.Buffer) (*Bootstrapper, *bytes.Buffer) {
	t.Helper()

	log, err := zerolog.New(zerolog.Options{Out: logs, Level: "debug", JSON: true})
	require.NoError(t, err)

	var out bytes.Buffer
	return New(log, WithRoot(root), WithIO(strings.NewReader(stdin), &out)), &out
}

func TestRun_EmptyDirectory(t *testing.T) {
	root := t.TempDir()
	var logs bytes.Buffer
	b, out := newTestBootstrapper(t, root, "\n", &logs)

	require.NoError(t, b.Run())

	for _, dir := range []string{layout.ChartsDir, layout.DataDir} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Contains(t, out.String(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, out.String(), "TELEGRAM_CHAT_ID")
	assert.True(t, strings.HasSuffix(out.String(), prompt.Message+"\n"))
	assert.Contains(t, logs.String(), `"state":"created"`)
}

func TestRun_ExistingDataDirectory(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, layout.DataDir)
	require.NoError(t, os.Mkdir(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "balance.json"), []byte(`{"balance":10000}`), 0o644))

	var logs bytes.Buffer
	b, _ := newTestBootstrapper(t, root, "", &logs)
	require.NoError(t, b.Run())

	_, err := os.Stat(filepath.Join(root, layout.ChartsDir))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(data, "balance.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"balance":10000}`, string(content))
	assert.Contains(t, logs.String(), `"state":"exists"`)
}

func TestRun_CollisionStopsBeforeInstructions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, layout.ChartsDir), []byte("not a dir"), 0o644))

	var logs bytes.Buffer
	b, out := newTestBootstrapper(t, root, "", &logs)

	err := b.Run()
	var fsErr *layout.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, layout.ChartsDir, fsErr.Path)
	assert.Empty(t, out.String())

	_, statErr := os.Stat(filepath.Join(root, layout.DataDir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_WithoutPause(t *testing.T) {
	var logs, want bytes.Buffer
	instructions.PrintInstructions(&want)

	b, out := newTestBootstrapper(t, t.TempDir(), "", &logs)
	WithoutPause()(b)

	require.NoError(t, b.Run())
	assert.Equal(t, want.String(), out.String())
}

func TestRun_Twice(t *testing.T) {
	root := t.TempDir()

	for i := 0; i < 2; i++ {
		var logs bytes.Buffer
		b, _ := newTestBootstrapper(t, root, "", &logs)
		require.NoError(t, b.Run())
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{layout.ChartsDir, layout.DataDir}, names)
}
