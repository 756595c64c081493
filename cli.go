package bitform

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseAndRun reads the command-line arguments and runs the CLI.
func ParseAndRun() error {
	var args Args

	options := []kong.Option{
		kong.Name("bitform"),
		kong.Description("Parse binary input against a built-in dictionary and print the field tree as JSON."),
		kong.UsageOnError(),
	}

	kong.Parse(&args, options...)
	return args.Run()
}

// Args is the command-line interface: pick a built-in dictionary by name,
// feed it a file (or stdin, '-'), and print the parsed field tree.
type Args struct {
	// The verbosity level.
	Verbose int `help:"Increase verbosity level." short:"v" type:"counter"`

	// The name of the built-in dictionary to parse input against.
	Dictionary string `help:"The built-in dictionary to parse input against." arg:""`

	// The file content to be processed, or read from stdin if '-' is given.
	File *os.File `help:"The file to be processed, or '-' for stdin." short:"f" arg:"" default:"-"`
}

// Dictionaries holds the set of root tokens the CLI can select between.
// cmd/bitform registers its built-in demo dictionaries here at init time,
// keeping this package free of any particular protocol's definition.
var Dictionaries = map[string]Token{}

// Run executes the CLI: setup, dispatch, teardown.
func (a *Args) Run() error {
	a.prologue()
	defer a.epilogue()

	return a.run()
}

// prologue sets up logging before the main logic runs.
func (a *Args) prologue() {
	switch a.Verbose {
	case 0:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 3:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()

	log.Debug().Int("verbosity", a.Verbose).Msg("completed prologue ...")
}

// epilogue cleans up after the main logic runs.
func (a *Args) epilogue() {
	log.Debug().Msg("completed epilogue ...")
}

// run parses the selected input against the named dictionary and prints
// the resulting field tree as JSON.
func (a *Args) run() error {
	log.Debug().Str("dictionary", a.Dictionary).Msg("running ...")

	root, ok := Dictionaries[a.Dictionary]
	if !ok {
		return fmt.Errorf("bitform: unknown dictionary %q", a.Dictionary)
	}

	data, err := io.ReadAll(a.File)
	if err != nil {
		return fmt.Errorf("bitform: reading input: %w", err)
	}

	field, err := root.Deserialize(data, WithDebug(a.Verbose >= 3))
	if err != nil {
		return fmt.Errorf("bitform: parsing %q: %w", a.Dictionary, err)
	}

	out, err := ToJSON(field)
	if err != nil {
		return fmt.Errorf("bitform: rendering result: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
