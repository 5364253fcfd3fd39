package platform

import (
	"fmt"
	"sort"

	"github.com/minkyu-dev/blogcrawl/internal/logger"
)

// builders maps platform names to adapter constructors.
var builders = map[string]func(Options, logger.Interface) Adapter{
	NaverName:   func(opts Options, log logger.Interface) Adapter { return NewNaver(opts, log) },
	TistoryName: func(opts Options, log logger.Interface) Adapter { return NewTistory(opts, log) },
	VelogName:   func(opts Options, log logger.Interface) Adapter { return NewVelog(opts, log) },
	SaraminName: func(opts Options, log logger.Interface) Adapter { return NewSaramin(opts, log) },
}

// New constructs the named platform adapter.
func New(name string, opts Options, log logger.Interface) (Adapter, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (available: %v)", name, Names())
	}
	return build(opts, log), nil
}

// Names returns the registered platform names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
