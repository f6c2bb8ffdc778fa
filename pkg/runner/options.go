package runner

import (
	"io"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	jberrors "github.com/hiram-madelaine/jukebox/pkg/errors"
)

// Options configures a suite run. The zero value is usable once Paths is
// set; Format defaults to "pretty".
type Options struct {
	// Paths lists feature files or directories to execute.
	Paths []string `yaml:"paths" validate:"required,min=1,dive,required"`

	// Format selects the engine's output formatter.
	Format string `yaml:"format" validate:"omitempty,oneof=pretty progress cucumber events junit"`

	// Tags filters scenarios with a tag expression, e.g. "@wip && ~@slow".
	Tags string `yaml:"tags"`

	// Strict fails the run on pending or undefined steps.
	Strict bool `yaml:"strict"`

	// Randomize seeds scenario shuffling; 0 keeps file order, -1 picks a
	// random seed.
	Randomize int64 `yaml:"randomize"`

	// NoColors disables ANSI coloring in the formatter output.
	NoColors bool `yaml:"no_colors"`

	// TestingT routes results through go test when set.
	TestingT *testing.T `yaml:"-"`

	// Output receives formatter output; defaults to stdout.
	Output io.Writer `yaml:"-"`
}

var validate = validator.New()

// LoadOptions reads suite options from a YAML file and validates them.
// Decode failures are reported as *errors.ParseError.
func LoadOptions(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, jberrors.NewParseError(path, err)
	}

	var opts Options
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Options{}, jberrors.NewParseError(path, err)
	}

	if err := validate.Struct(opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
