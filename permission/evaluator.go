// Package permission decides whether a sender may run a command.
package permission

import (
	"chatbot/commands"
	"chatbot/contract"
	"chatbot/domain"
	"context"
	"fmt"
)

// ResolveSenderRole computes the sender's effective role in the message's chat.
//
// In private chats only the owner is distinguished. In groups the owner is
// recognized locally; anyone else costs a lookup against the network. A nil
// lookup degrades every non-owner group member to Everyone. When the lookup
// fails the role is Everyone and the error is returned for logging.
func ResolveSenderRole(ctx context.Context, message domain.Message, owner domain.Address, lookup contract.GroupRoleLookup) (domain.Role, error) {
	if message.Author().Equals(owner) {
		return domain.Owner, nil
	}
	if !message.InGroup() {
		return domain.Everyone, nil
	}
	if lookup == nil {
		return domain.Everyone, nil
	}

	groupRole, err := lookup.FetchGroupRole(ctx, message.Chat(), message.Author())
	if err != nil {
		return domain.Everyone, fmt.Errorf("group role lookup for %s in %s: %w", message.Author(), message.Chat(), err)
	}
	if groupRole.IsAdmin || groupRole.IsSuperAdmin {
		return domain.Admin, nil
	}
	return domain.Everyone, nil
}

// Authorize reports whether role meets the command's requirement for the chat kind.
func Authorize(cmd commands.Command, kind domain.ChatKind, role domain.Role) bool {
	return role >= cmd.Permissions.For(kind)
}
