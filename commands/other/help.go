package other

import (
	"chatbot/commands"
	"chatbot/contract"
	"chatbot/domain"
	"context"
	"fmt"
	"strings"
)

const helpHeader = "*Hi, I'm the bot 👋*\nHere are my commands:\n"

// Help lists every loaded command grouped by category.
func Help(env *commands.Env) commands.Command {
	return commands.Command{
		Key:         "help",
		Description: "list available commands",
		Kinds:       []domain.ContentKind{domain.KindText},
		Permissions: domain.Permissions{PrivateChat: domain.Everyone, GroupChat: domain.Everyone},
		Handler: func(ctx context.Context, conn contract.Connection, message domain.Message, _ domain.ContentKind, args []string) error {
			if len(args) > 0 {
				return nil
			}
			return conn.Reply(ctx, message, helpText(env))
		},
	}
}

func helpText(env *commands.Env) string {
	var b strings.Builder
	b.WriteString(helpHeader)
	directory := env.Directory()
	if directory == nil {
		return b.String()
	}
	for _, category := range directory.Categories() {
		fmt.Fprintf(&b, "\n_%s_\n", category)
		for _, cmd := range directory.ByCategory(category) {
			fmt.Fprintf(&b, "* %s%s", env.Prefix, cmd.Key)
			if cmd.Description != "" {
				fmt.Fprintf(&b, " - %s", cmd.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
