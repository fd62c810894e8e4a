package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/melodex/internal/services"
	"github.com/desertthunder/melodex/internal/shared"
	"github.com/desertthunder/melodex/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	jamendo    *services.JamendoService
	listenbz   *services.ListenBrainzService
	registry   *services.MusicBrainzService
	setlists   *services.SetlistService
	aggregator *tasks.Aggregator
	resolver   *tasks.Resolver
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config       *shared.Config
	Jamendo      *services.JamendoService
	ListenBrainz *services.ListenBrainzService
	MusicBrainz  *services.MusicBrainzService
	Setlists     *services.SetlistService
	Logger       *log.Logger
	Output       io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	// Typed nils must not reach the interface fields, the tasks layer
	// checks them against nil to decide what is configured.
	var catalog tasks.CatalogService
	if opts.Jamendo != nil {
		catalog = opts.Jamendo
	}
	var setlists tasks.SetlistSearcher
	if opts.Setlists != nil {
		setlists = opts.Setlists
	}
	var registry tasks.Registry
	if opts.MusicBrainz != nil {
		registry = opts.MusicBrainz
	}
	var feed tasks.RecommendationFeed
	if opts.ListenBrainz != nil {
		feed = opts.ListenBrainz
	}

	aggregator := tasks.NewAggregator(catalog, setlists, opts.Logger)
	resolver := tasks.NewResolver(registry, feed, opts.Logger)

	return &Runner{
		config:     opts.Config,
		jamendo:    opts.Jamendo,
		listenbz:   opts.ListenBrainz,
		registry:   opts.MusicBrainz,
		setlists:   opts.Setlists,
		aggregator: aggregator,
		resolver:   resolver,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger (TUI log redirection).
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, trackCommand, albumCommand, artistCommand,
		setlistCommand, scrobbleCommand, recsCommand, listensCommand,
		tokenCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
