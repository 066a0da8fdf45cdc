// Package catalog is the static registration table of every command the
// bot ships with.
package catalog

import (
	"chatbot/commands"
	"chatbot/commands/admin"
	"chatbot/commands/other"
)

// Categories maps a command directory to the label shown in help.
var Categories = map[string]string{
	"other": "Other",
	"admin": "Administration",
}

// Entries returns the registration table in scan order.
func Entries(env *commands.Env) []commands.Entry {
	return []commands.Entry{
		{Path: "admin/status", Command: admin.Status(env, nil)},
		{Path: "other/code", Command: other.Code(env)},
		{Path: "other/help", Command: other.Help(env)},
		{Path: "other/ping", Command: other.Ping()},
	}
}
