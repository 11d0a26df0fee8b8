package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"teamlookup/internal/config"
	"teamlookup/internal/debug"
	"teamlookup/internal/directory"
	appErrors "teamlookup/internal/errors"
	"teamlookup/internal/lookup"
	"teamlookup/internal/ui"
	"teamlookup/internal/ui/theme"
)

const openTimeout = 5 * time.Second

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	versionFlag := flag.Bool("version", false, "Print version information and exit")
	dbPathFlag := flag.String("db-path", config.GetString(config.KeyDatabasePath), "Path to the directory database (default: XDG data dir)")
	seedFlag := flag.Bool("seed", false, "Load demo teams and contacts, then exit")
	searchFlag := flag.String("search", "", "Run one debounced search and print the results instead of starting the UI")
	contactsFlag := flag.Bool("contacts", false, "With --search: search contacts instead of teams")
	teamFlag := flag.String("team", "", "With --search --contacts: skip contacts already on this team")
	outputFormatFlag := flag.String("output-format", config.GetString(config.KeyOutputFormat), "Save summary markdown style (rich, light, dark, plain)")
	themeFlag := flag.String("theme", config.GetString(config.KeyTheme), "UI theme")
	debugFlag := flag.Bool("debug", config.GetBool(config.KeyDebug), "Write a debug log to ~/.teamlookup/debug.log")
	flag.Parse()

	if *versionFlag {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	visited := map[string]struct{}{}
	flag.CommandLine.Visit(func(f *flag.Flag) {
		visited[f.Name] = struct{}{}
	})

	if err := applyFlagOverrides(runtimeFlags{
		dbPath:       dbPathFlag,
		outputFormat: outputFormatFlag,
		theme:        themeFlag,
		debug:        debugFlag,
	}, visited); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := debug.Init(config.GetBool(config.KeyDebug)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	defer debug.Close()

	opts := computeRuntimeOptions()
	mode := modeTUI
	switch {
	case *seedFlag:
		mode = modeSeed
	case flagWasExplicitlySet("search", visited):
		mode = modeSearch
	}

	err := run(context.Background(), os.Stdout, opts, mode, searchOptions{
		term:     *searchFlag,
		contacts: *contactsFlag,
		teamID:   strings.TrimSpace(*teamFlag),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		debug.Close()
		os.Exit(1)
	}
}

type runMode int

const (
	modeTUI runMode = iota
	modeSeed
	modeSearch
)

type runtimeFlags struct {
	dbPath       *string
	outputFormat *string
	theme        *string
	debug        *bool
}

// applyFlagOverrides pushes explicitly set flags into the config layer so
// that every later lookup sees the same values.
func applyFlagOverrides(flags runtimeFlags, visited map[string]struct{}) error {
	overrides := map[string]any{}
	if flagWasExplicitlySet("db-path", visited) {
		overrides[config.KeyDatabasePath] = strings.TrimSpace(*flags.dbPath)
	}
	if flagWasExplicitlySet("output-format", visited) {
		overrides[config.KeyOutputFormat] = strings.TrimSpace(*flags.outputFormat)
	}
	if flagWasExplicitlySet("theme", visited) {
		overrides[config.KeyTheme] = strings.TrimSpace(*flags.theme)
	}
	if flagWasExplicitlySet("debug", visited) {
		overrides[config.KeyDebug] = *flags.debug
	}
	if len(overrides) == 0 {
		return nil
	}
	return config.ApplyOverrides(overrides)
}

func flagWasExplicitlySet(name string, visited map[string]struct{}) bool {
	if _, ok := visited[name]; ok {
		return true
	}
	f := flag.CommandLine.Lookup(name)
	if f == nil {
		return false
	}
	return f.Value.String() != f.DefValue
}

type runtimeOptions struct {
	dbPath        string
	outputFormat  string
	theme         string
	policy        lookup.Policy
	maxVisible    int
	ratePerSecond float64
	searchTimeout time.Duration
	defaultTeamID string
}

func computeRuntimeOptions() runtimeOptions {
	timeout := config.GetDuration(config.KeySearchTimeout)
	if timeout <= 0 {
		timeout = config.DefaultSearchTimeout
	}
	maxVisible := config.GetInt(config.KeyMaxVisible)
	if maxVisible <= 0 {
		maxVisible = config.DefaultMaxVisible
	}
	return runtimeOptions{
		dbPath:       strings.TrimSpace(config.GetString(config.KeyDatabasePath)),
		outputFormat: strings.TrimSpace(config.GetString(config.KeyOutputFormat)),
		theme:        strings.TrimSpace(config.GetString(config.KeyTheme)),
		policy: lookup.Policy{
			MinQueryLength: config.GetInt(config.KeyMinQueryLength),
			DebounceDelay:  config.DebounceDelay(),
			BlurCloseDelay: config.BlurCloseDelay(),
		},
		maxVisible:    maxVisible,
		ratePerSecond: config.GetFloat64(config.KeySearchRatePerSecond),
		searchTimeout: timeout,
		defaultTeamID: strings.TrimSpace(config.GetString(config.KeyDefaultTeamID)),
	}
}

func run(ctx context.Context, w io.Writer, opts runtimeOptions, mode runMode, search searchOptions) error {
	path := opts.dbPath
	if path == "" {
		var err error
		if path, err = config.DatabasePath(); err != nil {
			return appErrors.New(appErrors.CodeConfigurationError, "resolve database path", err)
		}
	}

	openCtx, cancel := context.WithTimeout(ctx, openTimeout)
	store, err := directory.Open(openCtx, path)
	cancel()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	debug.Logf("opened directory %s", store.Path())

	switch mode {
	case modeSeed:
		return runSeed(ctx, w, store)
	case modeSearch:
		search.policy = opts.policy
		search.timeout = opts.searchTimeout
		provider := directory.TeamProvider(store, 0)
		if search.contacts {
			provider = directory.ContactProvider(store, 0)
		}
		return runSearch(ctx, w, provider, search)
	}
	return runUI(ctx, w, store, opts, func(m tea.Model) programRunner {
		return tea.NewProgram(m, tea.WithAltScreen())
	})
}

func runSeed(ctx context.Context, w io.Writer, store *directory.Store) error {
	res, err := store.Seed(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Seeded %s: %d teams, %d contacts, %d memberships added\n",
		store.Path(), res.Teams, res.Contacts, res.Members)
	return err
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(tea.Model) programRunner

func runUI(ctx context.Context, w io.Writer, store *directory.Store, opts runtimeOptions, factory programFactory) error {
	if opts.theme != "" && !theme.SetTheme(opts.theme) {
		debug.Logf("unknown theme %q, keeping %s", opts.theme, theme.CurrentName())
	}

	cfg := ui.FormConfig{
		Teams:         directory.Throttle(directory.TeamProvider(store, 0), opts.ratePerSecond),
		Contacts:      directory.Throttle(directory.ContactProvider(store, 0), opts.ratePerSecond),
		Store:         store,
		Policy:        opts.policy,
		MaxVisible:    opts.maxVisible,
		SearchTimeout: opts.searchTimeout,
		MarkdownStyle: opts.outputFormat,
		SaveTheme:     config.SaveTheme,
	}
	if opts.defaultTeamID != "" {
		team, err := store.Team(ctx, opts.defaultTeamID)
		switch {
		case err == nil:
			r := team.Result()
			cfg.DefaultTeam = &r
		case appErrors.IsCode(err, appErrors.CodeNotFound):
			fmt.Fprintf(os.Stderr, "Warning: default team %q not found\n", opts.defaultTeamID)
		default:
			return err
		}
	}

	form := ui.NewForm(cfg)
	defer form.Dispose()

	if factory == nil {
		return errors.New("program factory is nil")
	}
	prog := factory(form)
	if prog == nil {
		return errors.New("program is nil")
	}
	start := time.Now()
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	printExitSummary(w, ExitSummary{
		Version:  Version,
		Duration: time.Since(start),
		Saves:    form.History(),
	})
	return nil
}
