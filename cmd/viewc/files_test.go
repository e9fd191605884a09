package main

import (
	"context"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectTemplates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ui", "app.rs.mkp"), "")
	writeFile(t, filepath.Join(dir, "ui", "view.rs.mkp"), "")
	writeFile(t, filepath.Join(dir, "ui", "nested", "deep.rs.mkp"), "")
	writeFile(t, filepath.Join(dir, "ui", "notes.txt"), "")
	t.Chdir(dir)

	type tc struct {
		paths []string
		want  []string
	}

	tests := map[string]tc{
		"directory is not recursive": {
			paths: []string{"ui"},
			want:  []string{"ui/app.rs.mkp", "ui/view.rs.mkp"},
		},
		"recursive pattern": {
			paths: []string{"./..."},
			want:  []string{"ui/app.rs.mkp", "ui/nested/deep.rs.mkp", "ui/view.rs.mkp"},
		},
		"overlapping paths are listed once": {
			paths: []string{"ui", "ui/app.rs.mkp", "./ui/app.rs.mkp"},
			want:  []string{"ui/app.rs.mkp", "ui/view.rs.mkp"},
		},
		"directory and recursive pattern overlap": {
			paths: []string{"ui", "ui/..."},
			want:  []string{"ui/app.rs.mkp", "ui/nested/deep.rs.mkp", "ui/view.rs.mkp"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := collectTemplates(tt.paths, ".mkp")
			require.NoError(t, err)

			for i := range got {
				got[i] = filepath.ToSlash(filepath.Clean(got[i]))
			}
			sort.Strings(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectTemplates_NoTemplates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	_, err := collectTemplates([]string{dir}, ".mkp")
	require.ErrorIs(t, err, errNoTemplates)
}

func TestProcessFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.rs.mkp")
	b := filepath.Join(dir, "b.rs.mkp")
	writeFile(t, a, "A")
	writeFile(t, b, "B")
	missing := filepath.Join(dir, "missing.rs.mkp")

	var calls atomic.Int32
	results, err := (&app{}).processFiles(context.Background(), []string{a, missing, b}, 2, func(_ context.Context, res *fileResult) {
		calls.Add(1)
		res.blocks = len(res.source)
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "A", results[0].source)
	assert.Error(t, results[1].err)
	assert.Equal(t, "B", results[2].source)
}

func TestProcessFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rs.mkp")
	writeFile(t, path, "A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := (&app{}).processFiles(ctx, []string{path}, 1, func(context.Context, *fileResult) {
		t.Error("no file should be processed after cancellation")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
