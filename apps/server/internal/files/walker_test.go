package files_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	githubadapter "github.com/tilsley/shelf/apps/server/internal/adapters/github"
	"github.com/tilsley/shelf/apps/server/internal/files"
)

// scriptedLister answers List from a fixed map of directory listings.
func scriptedLister(tree map[string][]files.FileDescriptor) *stubRemote {
	return &stubRemote{
		listFn: func(_ context.Context, path string) ([]files.FileDescriptor, error) {
			entries, ok := tree[path]
			if !ok {
				return nil, files.PathNotFoundError{Path: path}
			}
			return entries, nil
		},
	}
}

func TestWalker_Walk(t *testing.T) {
	ctx := context.Background()

	t.Run("flat directory yields its files in listing order", func(t *testing.T) {
		tree := map[string][]files.FileDescriptor{
			"docs": {
				{Name: "b.txt", Path: "docs/b.txt", Kind: files.KindFile},
				{Name: "a.txt", Path: "docs/a.txt", Kind: files.KindFile},
			},
		}
		walker := files.NewWalker(scriptedLister(tree))

		out, err := walker.Walk(ctx, "docs")

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "docs/b.txt", out[0].Path)
		assert.Equal(t, "docs/a.txt", out[1].Path)
	})

	t.Run("descends depth-first and returns only leaf files", func(t *testing.T) {
		tree := map[string][]files.FileDescriptor{
			"docs": {
				{Name: "sub", Path: "docs/sub", Kind: files.KindDir},
				{Name: "a.txt", Path: "docs/a.txt", Kind: files.KindFile},
			},
			"docs/sub": {
				{Name: "deep", Path: "docs/sub/deep", Kind: files.KindDir},
				{Name: "b.txt", Path: "docs/sub/b.txt", Kind: files.KindFile},
			},
			"docs/sub/deep": {
				{Name: "c.txt", Path: "docs/sub/deep/c.txt", Kind: files.KindFile},
			},
		}
		walker := files.NewWalker(scriptedLister(tree))

		out, err := walker.Walk(ctx, "docs")

		require.NoError(t, err)
		var paths []string
		for _, d := range out {
			require.Equal(t, files.KindFile, d.Kind, "directories must not leak into the result")
			paths = append(paths, d.Path)
		}
		assert.Equal(t, []string{"docs/sub/deep/c.txt", "docs/sub/b.txt", "docs/a.txt"}, paths)
	})

	t.Run("a listing failure at depth aborts the whole walk", func(t *testing.T) {
		remote := &stubRemote{
			listFn: func(_ context.Context, path string) ([]files.FileDescriptor, error) {
				switch path {
				case "docs":
					return []files.FileDescriptor{
						{Name: "ok.txt", Path: "docs/ok.txt", Kind: files.KindFile},
						{Name: "sub", Path: "docs/sub", Kind: files.KindDir},
					}, nil
				default:
					return nil, files.TransportError{Op: "list contents", Path: path, Err: errors.New("upstream timeout")}
				}
			},
		}
		walker := files.NewWalker(remote)

		out, err := walker.Walk(ctx, "docs")

		require.ErrorContains(t, err, "upstream timeout")
		assert.Nil(t, out, "no partial result on failure")
	})

	t.Run("missing root surfaces as PathNotFoundError", func(t *testing.T) {
		walker := files.NewWalker(&stubRemote{})

		_, err := walker.Walk(ctx, "nowhere")

		var notFound files.PathNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("successive walks over a stable remote agree", func(t *testing.T) {
		remote := githubadapter.NewInMem()
		remote.SetFile("docs/a.txt", []byte("hello"))
		remote.SetFile("docs/sub/b.txt", []byte("world"))
		walker := files.NewWalker(remote)

		first, err := walker.Walk(ctx, "docs")
		require.NoError(t, err)
		second, err := walker.Walk(ctx, "docs")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		require.Len(t, first, 2)
		assert.Equal(t, "docs/a.txt", first[0].Path)
		assert.Equal(t, "docs/sub/b.txt", first[1].Path)
	})

	t.Run("tolerates wide trees", func(t *testing.T) {
		remote := githubadapter.NewInMem()
		for i := range 50 {
			remote.SetFile(fmt.Sprintf("bulk/dir%02d/file.txt", i), []byte("x"))
		}
		walker := files.NewWalker(remote)

		out, err := walker.Walk(ctx, "bulk")

		require.NoError(t, err)
		assert.Len(t, out, 50)
	})
}
