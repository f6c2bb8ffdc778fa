// Package runner assembles a godog test suite around a glue registry: it
// runs registration passes over glue sources and drives the engine with
// the bridge attached.
package runner

import (
	"github.com/cucumber/godog"

	"github.com/hiram-madelaine/jukebox/internal/logger"
	"github.com/hiram-madelaine/jukebox/pkg/bridge"
	"github.com/hiram-madelaine/jukebox/pkg/glue"
	"github.com/hiram-madelaine/jukebox/pkg/world"
)

// Source is one glue registration pass: a function that registers steps
// and hooks against a registry. Glue packages that register from init
// functions need no Source; explicit sources exist for glue that must be
// parameterized or ordered.
type Source func(*glue.Registry) error

// LoadGlue runs each registration pass against the registry in order,
// stopping at the first error. An empty source list is a no-op: the
// default registration pass already ran when the glue packages were
// loaded.
func LoadGlue(reg *glue.Registry, sources ...Source) error {
	for _, src := range sources {
		if err := src(reg); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the suite: the registry is bound to the engine inside the
// scenario initializer and every scenario runs against the store. Returns
// the engine's exit status (0 on success). Execution is pinned to a single
// scenario at a time; the store is one shared cell.
func Run(name string, reg *glue.Registry, store *world.Store, log *logger.Logger, opts Options) int {
	format := opts.Format
	if format == "" {
		format = "pretty"
	}

	b := bridge.New(reg, store, log)
	suite := godog.TestSuite{
		Name: name,
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			b.Attach(sc)
		},
		Options: &godog.Options{
			Format:      format,
			Paths:       opts.Paths,
			Tags:        opts.Tags,
			Strict:      opts.Strict,
			Randomize:   opts.Randomize,
			NoColors:    opts.NoColors,
			TestingT:    opts.TestingT,
			Output:      opts.Output,
			Concurrency: 1,
		},
	}
	return suite.Run()
}
