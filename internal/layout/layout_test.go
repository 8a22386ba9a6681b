package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir(), "%s is not a directory", path)
}

func TestEnsureLayout_CreatesDefaultDirs(t *testing.T) {
	root := t.TempDir()

	results, err := Default(root).Ensure()
	require.NoError(t, err)
	require.Equal(t, []Result{
		{Path: ChartsDir, Created: true},
		{Path: DataDir, Created: true},
	}, results)

	requireDir(t, filepath.Join(root, ChartsDir))
	requireDir(t, filepath.Join(root, DataDir))
}

func TestEnsureLayout_Idempotent(t *testing.T) {
	root := t.TempDir()

	_, err := EnsureLayout(root, ChartsDir, DataDir)
	require.NoError(t, err)

	marker := filepath.Join(root, DataDir, "journal.json")
	require.NoError(t, os.WriteFile(marker, []byte(`{"trades":[]}`), 0o644))

	results, err := EnsureLayout(root, ChartsDir, DataDir)
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Created, "%s should already exist", r.Path)
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, `{"trades":[]}`, string(content))
}

func TestEnsureLayout_KeepsExistingDataDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, DataDir), 0o700))

	results, err := Default(root).Ensure()
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{Path: ChartsDir, Created: true},
		{Path: DataDir, Created: false},
	}, results)

	info, err := os.Stat(filepath.Join(root, DataDir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestEnsureLayout_FileCollisionFailsFast(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ChartsDir), nil, 0o644))

	results, err := Default(root).Ensure()
	require.Error(t, err)
	require.Empty(t, results)

	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, ChartsDir, fsErr.Path)
	assert.ErrorIs(t, err, ErrNotDirectory)
	assert.Contains(t, err.Error(), ChartsDir)

	_, statErr := os.Stat(filepath.Join(root, DataDir))
	assert.True(t, os.IsNotExist(statErr), "data must not be created after a failure")
}

func TestEnsureLayout_NestedPaths(t *testing.T) {
	root := t.TempDir()

	results, err := EnsureLayout(root, filepath.Join("data", "exports", "daily"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Created)
	requireDir(t, filepath.Join(root, "data", "exports", "daily"))
}

func TestEnsureLayout_ParentIsFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "data"), nil, 0o644))

	_, err := EnsureLayout(root, filepath.Join("data", "exports"))
	require.ErrorIs(t, err, ErrNotDirectory)
}

func TestEnsureLayout_RejectsInvalidPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "empty", path: "", want: ErrEmptyPath},
		{name: "blank", path: "  ", want: ErrEmptyPath},
		{name: "parent", path: "..", want: ErrOutsideRoot},
		{name: "escape", path: filepath.Join("..", "charts"), want: ErrOutsideRoot},
		{name: "cleaned escape", path: filepath.Join("data", "..", "..", "x"), want: ErrOutsideRoot},
		{name: "current", path: ".", want: ErrOutsideRoot},
		{name: "absolute", path: string(filepath.Separator) + "tmp", want: ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()

			_, err := EnsureLayout(root, ChartsDir, tt.path)
			require.ErrorIs(t, err, tt.want)

			// validation happens before anything is created
			_, statErr := os.Stat(filepath.Join(root, ChartsDir))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRuntimeLayout_Dir(t *testing.T) {
	l := Default("/srv/bot")
	assert.Equal(t, filepath.Join("/srv/bot", "charts"), l.Dir(ChartsDir))
}
