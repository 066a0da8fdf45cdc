package runtime

import (
	"chatbot/domain"
	"chatbot/mocks"
	"chatbot/session"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type botFixture struct {
	app        *AppContext
	transport  *mocks.MockTransport
	store      *mocks.MockSessionStore
	supervisor *mocks.MockISupervisor
	authDir    string
}

func newBotFixture(t *testing.T) *botFixture {
	ctrl := gomock.NewController(t)
	return &botFixture{
		app:        NewAppContext(nil),
		transport:  mocks.NewMockTransport(ctrl),
		store:      mocks.NewMockSessionStore(ctrl),
		supervisor: mocks.NewMockISupervisor(ctrl),
		authDir:    filepath.Join(t.TempDir(), "wwebjs_auth"),
	}
}

func (f *botFixture) bot(skipDownload bool) *Bot {
	log := slog.Default()
	gateway := session.NewGateway(log, f.store, nil)
	return NewBot(log, f.app, f.transport, gateway, f.store, f.supervisor, f.authDir, skipDownload)
}

func TestBot_LifecycleOrder(t *testing.T) {
	req := require.New(t)
	f := newBotFixture(t)
	token := domain.SessionRecord{Filename: "session/token", ContentBase64: base64.StdEncoding.EncodeToString([]byte("abc"))}

	var released atomic.Bool
	gomock.InOrder(
		f.store.EXPECT().Find(gomock.Any(), "wwebjs_auth").Return([]domain.SessionRecord{token}, nil),
		f.transport.EXPECT().Connect(gomock.Any()).Return(nil),
		f.transport.EXPECT().Close().DoAndReturn(func() error {
			// Then the transport is closed only after the running command ended
			req.True(released.Load())
			return nil
		}),
		f.store.EXPECT().Drop(gomock.Any(), "wwebjs_auth").Return(nil),
		f.store.EXPECT().InsertMany(gomock.Any(), "wwebjs_auth", []domain.SessionRecord{token}).Return(nil),
		f.store.EXPECT().Close(gomock.Any()).Return(nil),
		f.supervisor.EXPECT().Stop(),
	)
	f.supervisor.EXPECT().Run(gomock.Any())

	bot := f.bot(false)

	// Given a started bot with a restored session
	req.NoError(bot.Start(context.Background()))
	content, err := os.ReadFile(filepath.Join(f.authDir, "session", "token"))
	req.NoError(err)
	req.Equal("abc", string(content))

	// And a command still running
	done := f.app.Track()
	go func() {
		time.Sleep(50 * time.Millisecond)
		released.Store(true)
		done()
	}()

	// When shutting down
	bot.Shutdown(time.Second)

	// Then new messages are refused
	req.False(f.app.Accepting())
}

func TestBot_NoUploadWithoutDownload(t *testing.T) {
	req := require.New(t)
	f := newBotFixture(t)

	gomock.InOrder(
		f.transport.EXPECT().Connect(gomock.Any()).Return(nil),
		f.transport.EXPECT().Close().Return(nil),
		f.store.EXPECT().Close(gomock.Any()).Return(nil),
		f.supervisor.EXPECT().Stop(),
	)
	f.supervisor.EXPECT().Run(gomock.Any())

	// Given the download was explicitly skipped
	bot := f.bot(true)
	req.NoError(bot.Start(context.Background()))

	// When shutting down, then the store is never written
	bot.Shutdown(10 * time.Millisecond)
}

func TestBot_DownloadFailureAbortsStart(t *testing.T) {
	req := require.New(t)
	f := newBotFixture(t)

	// Given an unreachable store
	f.store.EXPECT().Find(gomock.Any(), "wwebjs_auth").Return(nil, fmt.Errorf("connection refused"))

	// When starting
	err := f.bot(false).Start(context.Background())

	// Then the transport is never connected
	req.ErrorContains(err, "connection refused")
}

func TestBot_ShutdownFailuresAreSwallowed(t *testing.T) {
	f := newBotFixture(t)

	f.store.EXPECT().Find(gomock.Any(), "wwebjs_auth").Return(nil, nil)
	f.transport.EXPECT().Connect(gomock.Any()).Return(nil)
	f.supervisor.EXPECT().Run(gomock.Any())
	gomock.InOrder(
		f.transport.EXPECT().Close().Return(fmt.Errorf("already closed")),
		f.store.EXPECT().Drop(gomock.Any(), "wwebjs_auth").Return(fmt.Errorf("timeout")),
		f.store.EXPECT().Close(gomock.Any()).Return(fmt.Errorf("timeout")),
		f.supervisor.EXPECT().Stop(),
	)

	bot := f.bot(false)
	require.NoError(t, bot.Start(context.Background()))
	bot.Shutdown(10 * time.Millisecond)

	// A second signal is a no-op
	bot.Shutdown(10 * time.Millisecond)
}
