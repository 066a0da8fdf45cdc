package admin

import (
	"chatbot/commands"
	"chatbot/domain"
	"chatbot/mocks"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type sized int

func (s sized) Categories() []string                 { return nil }
func (s sized) ByCategory(string) []commands.Command { return nil }
func (s sized) Len() int                             { return int(s) }

func TestStatus(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnection(ctrl)

	startedAt := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	env := commands.NewEnv("!", "", startedAt)
	env.Bind(sized(4))
	now := func() time.Time { return startedAt.Add(90*time.Minute + 1500*time.Millisecond) }

	owner := domain.NewUserAddress("5511987654321")
	message := domain.NewTextMessage(owner, owner, "!status")
	conn.EXPECT().Reply(gomock.Any(), message, "up 1h30m1s, 4 commands loaded").Return(nil)

	cmd := Status(env, now)
	req.Equal(domain.Owner, cmd.Permissions.For(domain.PrivateChat))
	req.Equal(domain.Admin, cmd.Permissions.For(domain.GroupChat))
	req.NoError(cmd.Handler(context.Background(), conn, message, domain.KindText, nil))
}
