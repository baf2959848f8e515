package acl

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

const wildcard = "*"

type rulesFile struct {
	Roles map[string][]grantSpec `yaml:"roles"`
}

type grantSpec struct {
	Resources []string `yaml:"resources"`
	Actions   []string `yaml:"actions"`
	Scope     string   `yaml:"scope"`
}

type ruleKey struct {
	role     Role
	resource Resource
	action   Action
}

// Table is the immutable (Role, Resource, Action) -> Scope mapping
type Table struct {
	rules map[ruleKey]Scope
}

// DefaultTable parses the embedded permission table
func DefaultTable() (*Table, error) {
	return LoadTable(defaultRules)
}

// MustDefaultTable is DefaultTable that panics on a malformed embedded file
func MustDefaultTable() *Table {
	t, err := DefaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTable parses a permission table in the rules.yaml format.
// A triple granted twice with different scopes is rejected.
func LoadTable(data []byte) (*Table, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse permission table: %w", err)
	}

	t := &Table{rules: make(map[ruleKey]Scope)}
	for roleName, grants := range file.Roles {
		role, err := ParseRole(roleName)
		if err != nil {
			return nil, err
		}
		for i, g := range grants {
			scope, err := ParseScope(g.Scope)
			if err != nil {
				return nil, fmt.Errorf("role %s grant %d: %w", role, i, err)
			}
			resources, err := expandResources(g.Resources)
			if err != nil {
				return nil, fmt.Errorf("role %s grant %d: %w", role, i, err)
			}
			actions, err := expandActions(g.Actions)
			if err != nil {
				return nil, fmt.Errorf("role %s grant %d: %w", role, i, err)
			}
			for _, res := range resources {
				for _, act := range actions {
					key := ruleKey{role: role, resource: res, action: act}
					if existing, ok := t.rules[key]; ok && existing != scope {
						return nil, fmt.Errorf("conflicting scopes %s and %s for %s on %s:%s", existing, scope, role, res, act)
					}
					t.rules[key] = scope
				}
			}
		}
	}
	return t, nil
}

func expandResources(names []string) ([]Resource, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("grant names no resources")
	}
	var out []Resource
	for _, n := range names {
		if n == wildcard {
			return Resources, nil
		}
		r, err := ParseResource(n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func expandActions(names []string) ([]Action, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("grant names no actions")
	}
	var out []Action
	for _, n := range names {
		if n == wildcard {
			return Actions, nil
		}
		a, err := ParseAction(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Lookup returns the scope a single role grants for a resource and action
func (t *Table) Lookup(role Role, resource Resource, action Action) Scope {
	return t.rules[ruleKey{role: role, resource: resource, action: action}]
}

// MaxScope returns the most permissive scope granted by any of the roles
func (t *Table) MaxScope(roles []Role, resource Resource, action Action) Scope {
	best := ScopeNone
	for _, role := range roles {
		if s := t.Lookup(role, resource, action); s > best {
			best = s
			if best == ScopeAll {
				break
			}
		}
	}
	return best
}

// Grants lists the permissions a role holds with their scopes
func (t *Table) Grants(role Role) map[Permission]Scope {
	out := make(map[Permission]Scope)
	for k, s := range t.rules {
		if k.role == role {
			out[Permission{Resource: k.resource, Action: k.action}] = s
		}
	}
	return out
}
