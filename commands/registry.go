// Package commands holds the command registry and the builtin command set.
package commands

import (
	"log"
	"sort"
	"strings"

	"groovebot/model"
)

// Registry maps command names and aliases to their descriptors. It is
// populated once during startup and read-only afterwards.
type Registry struct {
	byName map[string]*model.Command
	canon  []*model.Command
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*model.Command)}
}

// Register adds a descriptor under its name and every alias. Duplicate
// names are a wiring bug, not a runtime condition.
func (r *Registry) Register(cmd *model.Command) {
	name := strings.ToLower(cmd.Name)
	if _, exists := r.byName[name]; exists {
		log.Panicf("command %q registered twice", name)
	}
	r.byName[name] = cmd
	r.canon = append(r.canon, cmd)

	for _, alias := range cmd.Aliases {
		alias = strings.ToLower(alias)
		if _, exists := r.byName[alias]; exists {
			log.Panicf("alias %q of command %q collides with an existing entry", alias, name)
		}
		r.byName[alias] = cmd
	}
}

// Resolve looks up a descriptor by name or alias.
func (r *Registry) Resolve(name string) (*model.Command, bool) {
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// All returns the registered descriptors sorted by name, aliases excluded.
func (r *Registry) All() []*model.Command {
	out := make([]*model.Command, len(r.canon))
	copy(out, r.canon)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
