package admin

import (
	"chatbot/commands"
	"chatbot/contract"
	"chatbot/domain"
	"context"
	"fmt"
	"time"
)

// Status reports uptime and the number of loaded commands.
// Owner only in private chats, group admins and above in groups.
func Status(env *commands.Env, now func() time.Time) commands.Command {
	if now == nil {
		now = time.Now
	}
	return commands.Command{
		Key:         "status",
		Description: "uptime and loaded commands",
		Kinds:       []domain.ContentKind{domain.KindText},
		Permissions: domain.Permissions{PrivateChat: domain.Owner, GroupChat: domain.Admin},
		Handler: func(ctx context.Context, conn contract.Connection, message domain.Message, _ domain.ContentKind, _ []string) error {
			loaded := 0
			if env.Directory() != nil {
				loaded = env.Directory().Len()
			}
			uptime := now().Sub(env.StartedAt).Truncate(time.Second)
			return conn.Reply(ctx, message, fmt.Sprintf("up %s, %d commands loaded", uptime, loaded))
		},
	}
}
