package runtime

import (
	"chatbot/commands"
	"chatbot/errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

// Registry is the read-only command table built once at startup.
// It is safe for concurrent use because nothing mutates it after LoadRegistry.
type Registry struct {
	byKey      map[string]commands.Command
	keys       []string
	byCategory map[string][]commands.Command
	categories []string
}

var _ commands.Directory = (*Registry)(nil)

// LoadRegistry validates the registration table and builds the key and
// category indexes, in table order.
// Every entry must live under a directory mapped in categories; the
// directory directly under the root decides the category. Deeper nesting
// is accepted but logged.
func LoadRegistry(entries []commands.Entry, categories map[string]string, log *slog.Logger) (*Registry, error) {
	r := &Registry{
		byKey:      make(map[string]commands.Command, len(entries)),
		byCategory: make(map[string][]commands.Command),
	}

	for _, entry := range entries {
		cmd := entry.Command
		if cmd.Key == "" {
			return nil, fmt.Errorf("%w: %s", errors.ErrEmptyCommandKey, entry.Path)
		}
		if _, exists := r.byKey[cmd.Key]; exists {
			return nil, fmt.Errorf("%w: %q (%s)", errors.ErrDuplicateCommand, cmd.Key, entry.Path)
		}

		dirs := directories(entry.Path)
		if len(dirs) == 0 {
			return nil, fmt.Errorf("%w: %q is not inside a category directory", errors.ErrUnmappedCategory, entry.Path)
		}
		category, ok := categories[dirs[0]]
		if !ok || category == "" {
			return nil, fmt.Errorf("%w: %s", errors.ErrUnmappedCategory, dirs[0])
		}
		if len(dirs) > 1 {
			log.Warn("Command nested deeper than one directory", "path", entry.Path, "category", category)
		}

		r.byKey[cmd.Key] = cmd
		r.keys = append(r.keys, cmd.Key)
		if _, seen := r.byCategory[category]; !seen {
			r.categories = append(r.categories, category)
		}
		r.byCategory[category] = append(r.byCategory[category], cmd)
		log.Debug("Loaded command", "key", cmd.Key, "path", entry.Path)
	}

	log.Info(fmt.Sprintf("%d commands loaded [%s]", len(r.keys), strings.Join(r.keys, ",")))
	return r, nil
}

// directories returns the directory segments of a registration path,
// without the leaf.
func directories(path string) []string {
	parts := lo.Filter(strings.Split(path, "/"), func(s string, _ int) bool { return s != "" })
	if len(parts) < 2 {
		return nil
	}
	return parts[:len(parts)-1]
}

// Lookup finds a command by its invocation key.
func (r *Registry) Lookup(key string) (commands.Command, bool) {
	cmd, ok := r.byKey[key]
	return cmd, ok
}

// Keys returns invocation keys in load order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Categories returns category labels in the order they were first seen.
func (r *Registry) Categories() []string {
	return append([]string(nil), r.categories...)
}

// ByCategory returns the commands of a category in load order.
func (r *Registry) ByCategory(category string) []commands.Command {
	return append([]commands.Command(nil), r.byCategory[category]...)
}

func (r *Registry) Len() int {
	return len(r.keys)
}
