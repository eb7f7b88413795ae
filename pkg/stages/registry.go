package stages

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-recordpipe/pkg/record"
)

var (
	ErrUnknownStage = errors.New("unknown stage")
	ErrStageExists  = errors.New("stage already registered")
	ErrStageArgs    = errors.New("invalid stage arguments")
)

// Factory builds a stage from its textual arguments.
type Factory func(args []string) (Stage, error)

// Registry maps stage names to factories. It is safe for concurrent use.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return errors.Wrap(ErrStageExists, name)
	}
	r.factories[name] = factory

	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Build builds a stage from a spec of the form "name" or "name:arg1,arg2".
func (r *Registry) Build(spec string) (Stage, error) {
	name, rawArgs, _ := strings.Cut(spec, ":")
	name, rawArgs = strings.TrimSpace(name), strings.TrimSpace(rawArgs)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStage, "%q", name)
	}

	var args []string
	if rawArgs != "" {
		args = strings.Split(rawArgs, ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
	}

	stage, err := factory(args)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %q", name)
	}

	return stage, nil
}

// BuildAll builds one stage per spec, in order.
func (r *Registry) BuildAll(specs []string) ([]Stage, error) {
	out := make([]Stage, 0, len(specs))
	for _, spec := range specs {
		stage, err := r.Build(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, stage)
	}

	return out, nil
}

func noArgs(build func() Stage) Factory {
	return func(args []string) (Stage, error) {
		if len(args) != 0 {
			return nil, errors.Wrapf(ErrStageArgs, "expected no argument, got %d", len(args))
		}

		return build(), nil
	}
}

func oneNumber(build func(float64) Stage) Factory {
	return func(args []string) (Stage, error) {
		if len(args) != 1 {
			return nil, errors.Wrapf(ErrStageArgs, "expected one number, got %d arguments", len(args))
		}
		f, ok := record.ParseNumber(args[0])
		if !ok {
			return nil, errors.Wrapf(ErrStageArgs, "%q is not a number", args[0])
		}

		return build(f), nil
	}
}

func fillNull(args []string) (Stage, error) {
	if len(args) != 1 {
		return nil, errors.Wrapf(ErrStageArgs, "expected one value, got %d arguments", len(args))
	}
	value, err := record.Parse(args[0])
	if err != nil {
		return nil, errors.Wrap(ErrStageArgs, err.Error())
	}

	return FillNull(value), nil
}

func selectFields(args []string) (Stage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(ErrStageArgs, "expected at least one field")
	}

	return Select(args...), nil
}

// NewDefaultRegistry creates a registry holding the whole catalogue.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, factory := range map[string]Factory{
		"lowercase":    noArgs(Lowercase),
		"uppercase":    noArgs(Uppercase),
		"trim":         noArgs(Trim),
		"drop_null":    noArgs(DropNull),
		"drop_empty":   noArgs(DropEmpty),
		"dedupe":       noArgs(Dedupe),
		"parse_number": noArgs(ParseNumber),
		"parse":        noArgs(Parse),
		"fill_null":    fillNull,
		"scale":        oneNumber(Scale),
		"offset":       oneNumber(Offset),
		"filter_gt":    oneNumber(FilterGreaterThan),
		"filter_lt":    oneNumber(FilterLessThan),
		"select":       selectFields,
	} {
		_ = r.Register(name, factory)
	}

	return r
}

var defaultRegistry = NewDefaultRegistry()

// Build builds a stage from the default registry.
func Build(spec string) (Stage, error) {
	return defaultRegistry.Build(spec)
}

// BuildAll builds stages from the default registry.
func BuildAll(specs []string) ([]Stage, error) {
	return defaultRegistry.BuildAll(specs)
}

// Names returns the names of the default registry.
func Names() []string {
	return defaultRegistry.Names()
}
