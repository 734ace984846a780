package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/mo"

	"remindbot/utils"
)

var (
	ErrDuplicateCommand   = errors.New("command already registered")
	ErrInvalidCommandName = errors.New("invalid command name")
	ErrRegistryBuilt      = errors.New("registry already built")
	ErrMissingHandler     = errors.New("command has no handler")
)

// MaxCachedPatterns bounds the number of prefixes with a compiled pattern kept in memory
const MaxCachedPatterns = 256

var commandNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Handler runs a matched command. args is the raw text after the command name.
type Handler func(ctx context.Context, inv *Invocation, args string) error

// CommandSpec describes a registered command
type CommandSpec struct {
	Name    string
	Handler Handler
	// PermissionExempt commands run in blacklisted channels
	PermissionExempt bool
	// RequireManageGuild commands need the author to hold Manage Server in the guild
	RequireManageGuild bool
}

// Match is the result of matching a message against the registry
type Match struct {
	Spec *CommandSpec
	Args string
}

// Registry holds the command set and matches message text against it. Registration happens
// once at startup; after Build the registry is read-only and safe for concurrent use.
type Registry struct {
	botID    string
	commands map[string]*CommandSpec
	names    string
	built    bool

	// compiled pattern per prefix, bounded so prefixes no guild uses any more age out
	patterns *lru.Cache[string, *regexp.Regexp]
}

// NewRegistry creates an empty registry. When botID is set, mentioning the bot is accepted
// in place of the prefix.
func NewRegistry(botID string) *Registry {
	patterns, err := lru.New[string, *regexp.Regexp](MaxCachedPatterns)
	utils.AssertInvariant(err == nil, "pattern cache size must be positive")

	return &Registry{
		botID:    botID,
		commands: make(map[string]*CommandSpec),
		patterns: patterns,
	}
}

func (r *Registry) Register(spec CommandSpec) error {
	if r.built {
		return fmt.Errorf("failed to register %q: %w", spec.Name, ErrRegistryBuilt)
	}
	if !commandNamePattern.MatchString(spec.Name) {
		return fmt.Errorf("failed to register %q: %w", spec.Name, ErrInvalidCommandName)
	}
	if spec.Handler == nil {
		return fmt.Errorf("failed to register %q: %w", spec.Name, ErrMissingHandler)
	}
	if _, exists := r.commands[spec.Name]; exists {
		return fmt.Errorf("failed to register %q: %w", spec.Name, ErrDuplicateCommand)
	}

	r.commands[spec.Name] = &spec
	return nil
}

// Build freezes the registry. Names are ordered longest first so that a command whose name
// starts with another command's name is preferred.
func (r *Registry) Build() error {
	if r.built {
		return ErrRegistryBuilt
	}
	if len(r.commands) == 0 {
		return errors.New("no commands registered")
	}

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}

	r.names = strings.Join(quoted, "|")
	r.built = true
	return nil
}

// Commands returns the registered specs ordered by name
func (r *Registry) Commands() []*CommandSpec {
	specs := make([]*CommandSpec, 0, len(r.commands))
	for _, spec := range r.commands {
		specs = append(specs, spec)
	}
	slices.SortFunc(specs, func(a, b *CommandSpec) int { return strings.Compare(a.Name, b.Name) })
	return specs
}

// Match finds the command invoked by text under the given prefix
func (r *Registry) Match(prefix, text string) mo.Option[Match] {
	utils.AssertInvariant(r.built, "registry must be built before matching")

	groups := r.patternFor(prefix).FindStringSubmatch(text)
	if groups == nil {
		return mo.None[Match]()
	}

	spec, ok := r.commands[strings.ToLower(groups[1])]
	if !ok {
		return mo.None[Match]()
	}

	return mo.Some(Match{Spec: spec, Args: groups[2]})
}

func (r *Registry) patternFor(prefix string) *regexp.Regexp {
	if cached, ok := r.patterns.Get(prefix); ok {
		return cached
	}

	compiled := regexp.MustCompile(r.buildPattern(prefix))
	if previous, ok, _ := r.patterns.PeekOrAdd(prefix, compiled); ok {
		return previous
	}
	return compiled
}

func (r *Registry) buildPattern(prefix string) string {
	var alternatives []string
	if prefix != "" {
		alternatives = append(alternatives, regexp.QuoteMeta(prefix))
	}
	if r.botID != "" {
		alternatives = append(alternatives, `<@!?`+regexp.QuoteMeta(r.botID)+`>\s*`)
	}
	if len(alternatives) == 0 {
		// nothing can introduce a command
		return `^\b\B$`
	}

	return `(?is)^(?:` + strings.Join(alternatives, "|") + `)(` + r.names + `)(?:\s+(.*))?$`
}
