package other

import (
	"chatbot/commands"
	"chatbot/contract"
	"chatbot/domain"
	"context"
)

// Code replies with the source repository URL.
func Code(env *commands.Env) commands.Command {
	return commands.Command{
		Key:         "code",
		Description: "where my source lives",
		Kinds:       []domain.ContentKind{domain.KindText},
		Permissions: domain.Permissions{PrivateChat: domain.Everyone, GroupChat: domain.Everyone},
		Handler: func(ctx context.Context, conn contract.Connection, message domain.Message, _ domain.ContentKind, args []string) error {
			if len(args) > 0 {
				return nil
			}
			return conn.Reply(ctx, message, env.SourceURL)
		},
	}
}

// Ping answers "pong", handy to check the bot is alive.
func Ping() commands.Command {
	return commands.Command{
		Key:         "ping",
		Kinds:       []domain.ContentKind{domain.KindText},
		Permissions: domain.Permissions{PrivateChat: domain.Everyone, GroupChat: domain.Everyone},
		Handler: func(ctx context.Context, conn contract.Connection, message domain.Message, _ domain.ContentKind, _ []string) error {
			return conn.Reply(ctx, message, "pong")
		},
	}
}
