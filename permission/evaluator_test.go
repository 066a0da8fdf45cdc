package permission

import (
	"chatbot/commands"
	"chatbot/domain"
	"chatbot/mocks"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	owner    = domain.NewUserAddress("972501111111")
	stranger = domain.NewUserAddress("972502222222")
	group    = domain.NewGroupAddress("120363000000")
)

func TestResolveSenderRole_PrivateChat(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockGroupRoleLookup(ctrl)

	// Private chats never hit the network
	lookup.EXPECT().FetchGroupRole(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	role, err := ResolveSenderRole(context.Background(), domain.NewTextMessage(owner, owner, "!x"), owner, lookup)
	req.NoError(err)
	req.Equal(domain.Owner, role)

	role, err = ResolveSenderRole(context.Background(), domain.NewTextMessage(stranger, stranger, "!x"), owner, lookup)
	req.NoError(err)
	req.Equal(domain.Everyone, role)
}

func TestResolveSenderRole_GroupChat(t *testing.T) {
	tests := []struct {
		name      string
		groupRole domain.GroupRole
		want      domain.Role
	}{
		{name: "member", groupRole: domain.GroupRole{}, want: domain.Everyone},
		{name: "admin", groupRole: domain.GroupRole{IsAdmin: true}, want: domain.Admin},
		{name: "super admin", groupRole: domain.GroupRole{IsSuperAdmin: true}, want: domain.Admin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			lookup := mocks.NewMockGroupRoleLookup(ctrl)
			lookup.EXPECT().
				FetchGroupRole(gomock.Any(), group, stranger).
				Return(tt.groupRole, nil).
				Times(1)

			role, err := ResolveSenderRole(context.Background(), domain.NewTextMessage(stranger, group, "!x"), owner, lookup)

			req.NoError(err)
			req.Equal(tt.want, role)
		})
	}
}

func TestResolveSenderRole_GroupOwnerSkipsLookup(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockGroupRoleLookup(ctrl)
	lookup.EXPECT().FetchGroupRole(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	role, err := ResolveSenderRole(context.Background(), domain.NewTextMessage(owner, group, "!x"), owner, lookup)

	req.NoError(err)
	req.Equal(domain.Owner, role)
}

func TestResolveSenderRole_LookupFailureIsEveryone(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockGroupRoleLookup(ctrl)
	boom := fmt.Errorf("boom")
	lookup.EXPECT().FetchGroupRole(gomock.Any(), group, stranger).Return(domain.GroupRole{}, boom)

	role, err := ResolveSenderRole(context.Background(), domain.NewTextMessage(stranger, group, "!x"), owner, lookup)

	req.ErrorIs(err, boom)
	req.Equal(domain.Everyone, role)
}

func TestResolveSenderRole_NilLookup(t *testing.T) {
	req := require.New(t)
	role, err := ResolveSenderRole(context.Background(), domain.NewTextMessage(stranger, group, "!x"), owner, nil)
	req.NoError(err)
	req.Equal(domain.Everyone, role)
}

func TestAuthorize(t *testing.T) {
	cmd := commands.Command{Permissions: domain.Permissions{PrivateChat: domain.Owner, GroupChat: domain.Admin}}
	tests := []struct {
		kind domain.ChatKind
		role domain.Role
		want bool
	}{
		{domain.PrivateChat, domain.Everyone, false},
		{domain.PrivateChat, domain.Owner, true},
		{domain.GroupChat, domain.Everyone, false},
		{domain.GroupChat, domain.Admin, true},
		{domain.GroupChat, domain.Owner, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.kind, tt.role), func(t *testing.T) {
			require.Equal(t, tt.want, Authorize(cmd, tt.kind, tt.role))
		})
	}
}
