package session

import (
	"chatbot/domain"
	"chatbot/errors"
	"chatbot/mocks"
	"chatbot/repositories"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newBadgerGateway(t *testing.T) *Gateway {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	store := repositories.NewBadgerSessionStore(db, slog.Default())
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return NewGateway(slog.Default(), store, nil)
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, content, 0o600))
}

// tree maps every relative path under root to its content, directories to nil.
func tree(t *testing.T, root string) map[string][]byte {
	t.Helper()
	res := map[string][]byte{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || p == root {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		if d.IsDir() {
			res[filepath.ToSlash(rel)+"/"] = nil
			return nil
		}
		content, err := os.ReadFile(p)
		res[filepath.ToSlash(rel)] = content
		return err
	})
	require.NoError(t, err)
	return res
}

func TestGateway_RoundTripEmptyFolder(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	gateway := newBadgerGateway(t)
	folder := filepath.Join(t.TempDir(), "wwebjs_auth")

	// Given a first boot with nothing stored
	req.NoError(gateway.Download(ctx, folder))
	req.Empty(tree(t, folder))

	// When the empty folder is uploaded
	req.NoError(gateway.Upload(ctx, folder))

	// Then a fresh download rebuilds an empty folder
	req.NoError(os.RemoveAll(folder))
	req.NoError(gateway.Download(ctx, folder))
	info, err := os.Stat(folder)
	req.NoError(err)
	req.True(info.IsDir())
	req.Empty(tree(t, folder))
}

func TestGateway_RoundTripNestedFiles(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	gateway := newBadgerGateway(t)
	folder := filepath.Join(t.TempDir(), "wwebjs_auth")
	req.NoError(gateway.Download(ctx, folder))

	binary := []byte{0x00, 0xff, 0x10, 0x80, '\n'}
	writeFile(t, filepath.Join(folder, "session", "token"), []byte("resume-me"))
	writeFile(t, filepath.Join(folder, "session", "Default", "Cookies"), binary)
	writeFile(t, filepath.Join(folder, "top.json"), []byte(`{"a":1}`))
	req.NoError(os.MkdirAll(filepath.Join(folder, "session", "Default", "Cache"), 0o700))
	want := tree(t, folder)

	req.NoError(gateway.Upload(ctx, folder))

	// A stale local file must vanish on download
	writeFile(t, filepath.Join(folder, "stale"), []byte("x"))
	req.NoError(gateway.Download(ctx, folder))

	req.Equal(want, tree(t, folder))
}

func TestGateway_UploadRequiresCompletedDownload(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)

	// The store must never be touched
	store.EXPECT().Drop(gomock.Any(), gomock.Any()).Times(0)
	store.EXPECT().InsertMany(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	gateway := NewGateway(slog.Default(), store, nil)
	err := gateway.Upload(context.Background(), t.TempDir())

	req.ErrorIs(err, errors.ErrDownloadNotCompleted)
}

func TestGateway_UploadReplacesWholeCollection(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	folder := filepath.Join(t.TempDir(), "auth")

	store.EXPECT().Find(gomock.Any(), "auth").Return(nil, nil)
	gomock.InOrder(
		store.EXPECT().Drop(gomock.Any(), "auth").Return(nil),
		store.EXPECT().InsertMany(gomock.Any(), "auth", []domain.SessionRecord{
			{Filename: "a.txt", ContentBase64: "aGk="},
		}).Return(nil),
	)

	gateway := NewGateway(slog.Default(), store, nil)
	req.NoError(gateway.Download(context.Background(), folder))
	writeFile(t, filepath.Join(folder, "a.txt"), []byte("hi"))

	req.NoError(gateway.Upload(context.Background(), folder))
}

func TestGateway_DownloadFailureKeepsFlagDown(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("unreachable"))

	gateway := NewGateway(slog.Default(), store, nil)
	err := gateway.Download(context.Background(), filepath.Join(t.TempDir(), "auth"))

	req.Error(err)
	req.False(gateway.DownloadCompleted())
}

func TestGateway_DownloadRejectsEscapingPaths(t *testing.T) {
	for _, filename := range []string{"../evil", "/etc/passwd", "a/../../evil", `..\evil`, ""} {
		t.Run(filename, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			store := mocks.NewMockSessionStore(ctrl)
			store.EXPECT().Find(gomock.Any(), gomock.Any()).
				Return([]domain.SessionRecord{{Filename: filename, ContentBase64: "eA=="}}, nil)

			gateway := NewGateway(slog.Default(), store, nil)
			err := gateway.Download(context.Background(), filepath.Join(t.TempDir(), "auth"))

			req.ErrorIs(err, errors.ErrUnsafeRecordPath)
			req.False(gateway.DownloadCompleted())
		})
	}
}

func TestSnapshot_EmptyRootIsOneMarker(t *testing.T) {
	req := require.New(t)
	records, err := Snapshot(t.TempDir())
	req.NoError(err)
	req.Equal([]domain.SessionRecord{{Filename: EmptyDirMarker}}, records)
}
