package domain

import (
	"os"
	"strings"
)

// EnvScope controls when an environment mutation is visible.
type EnvScope int

const (
	// ScopeBuild makes a mutation visible to build-time processes only.
	ScopeBuild EnvScope = iota
	// ScopeLaunch makes a mutation visible to the launched application only.
	ScopeLaunch
	// ScopeAll makes a mutation visible at build time and launch time.
	ScopeAll
)

// EnvOp is the kind of mutation applied to a variable.
type EnvOp int

const (
	// EnvSet replaces the variable's value.
	EnvSet EnvOp = iota
	// EnvPrepend prefixes the value using the OS path list separator.
	EnvPrepend
)

// EnvVar is a single scoped environment mutation.
type EnvVar struct {
	Key   string
	Value string
	Op    EnvOp
	Scope EnvScope
}

// Environment is an ordered set of environment mutations produced by
// installing a tool. It composes with a base environment by explicit merge;
// process-global environment state is never mutated.
type Environment []EnvVar

// Prepend appends a path-prepend mutation.
func (e Environment) Prepend(key, value string, scope EnvScope) Environment {
	return append(e, EnvVar{Key: key, Value: value, Op: EnvPrepend, Scope: scope})
}

// Set appends a set mutation.
func (e Environment) Set(key, value string, scope EnvScope) Environment {
	return append(e, EnvVar{Key: key, Value: value, Op: EnvSet, Scope: scope})
}

// Apply merges the mutations visible in the given scope into base and
// returns a new "KEY=VALUE" slice. The base slice is not modified.
func (e Environment) Apply(scope EnvScope, base []string) []string {
	envMap := make(map[string]string, len(base))
	order := make([]string, 0, len(base))
	for _, entry := range base {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for _, ev := range e {
		if ev.Scope != ScopeAll && ev.Scope != scope {
			continue
		}
		prev, seen := envMap[ev.Key]
		if !seen {
			order = append(order, ev.Key)
		}
		switch ev.Op {
		case EnvPrepend:
			if seen && prev != "" {
				envMap[ev.Key] = ev.Value + string(os.PathListSeparator) + prev
			} else {
				envMap[ev.Key] = ev.Value
			}
		case EnvSet:
			envMap[ev.Key] = ev.Value
		}
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}
