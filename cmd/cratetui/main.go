package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cratetui/internal/app"
	"cratetui/internal/browser"
	"cratetui/internal/clipboard"
	"cratetui/internal/config"
	"cratetui/internal/keymap"
	"cratetui/internal/logging"
	"cratetui/internal/registry"
	"cratetui/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	configPath string
	logLevel   string
	pageSize   int
	sort       string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "cratetui [query]",
		Short: "Browse crates.io from the terminal",
		Long: "cratetui searches crates.io, pages through results and shows crate details.\n" +
			"Keys are configurable; press ? inside the program for the bindings of the current mode.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return run(cmd, opts, query)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is the user config dir)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides "+logging.LevelEnv+")")
	root.Flags().IntVar(&opts.pageSize, "page-size", 0, "results per page, 1 to 100")
	root.Flags().StringVar(&opts.sort, "sort", "", "initial sort: "+sortKeys())

	root.AddCommand(newConfigCommand(opts), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cratetui", version)
		},
	}
}

func sortKeys() string {
	keys := make([]string, 0, len(registry.SortOptions))
	for _, opt := range registry.SortOptions {
		keys = append(keys, opt.Key)
	}
	return strings.Join(keys, ", ")
}

func resolveConfigPath(opts *options) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig applies the config file and then the command line overrides
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("page-size") {
		cfg.PageSize = opts.pageSize
	}
	if cmd.Flags().Changed("sort") {
		cfg.Sort = opts.sort
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options, query string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	level, err := logging.ResolveLevel(opts.logLevel, cfg.LogLevel)
	if err != nil {
		return err
	}
	logFile, err := logging.Setup(cfg.DataDir, config.AppName, level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	sort, err := registry.ParseSort(cfg.Sort)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	keys, err := keymap.New(cfg.KeyBindings)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	client := registry.NewHTTPClient(http.DefaultClient, registry.Options{
		BaseURL:   cfg.Registry.BaseURL,
		UserAgent: cfg.Registry.UserAgent,
		Timeout:   cfg.Registry.Timeout.Duration,
		RateLimit: cfg.Registry.RateLimit,
		Burst:     cfg.Registry.Burst,
	})

	queue := app.NewQueue()
	defer queue.Close()

	var program *tea.Program
	stop := &fatalStop{kill: func() {
		if program != nil {
			program.Kill()
		}
	}}
	ctrl := app.New(app.Options{
		Config:    cfg,
		Keys:      keys,
		Client:    client,
		Queue:     queue,
		Clipboard: clipboard.System{},
		Opener:    browser.System{},
		Context:   ctx,
		Query:     query,
		Sort:      sort,
		Fatal:     stop.Stop,
	})

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.EnableMouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	program = tea.NewProgram(ui.NewModel(ctx, ctrl, queue), programOpts...)

	log.WithFields(log.Fields{"query": query, "sort": sort.Key(), "page_size": cfg.PageSize}).Info("starting")
	_, err = program.Run()
	if err := stop.Result(err); err != nil {
		return err
	}
	log.Info("exited")
	return nil
}

// fatalStop kills the program when a fetch result cannot be delivered and
// remembers why, so the process exits with an error
type fatalStop struct {
	kill func()

	mu  sync.Mutex
	err error
}

func (f *fatalStop) Stop(err error) {
	log.WithError(err).Error("result could not be delivered, stopping")
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
	f.kill()
}

// Result turns the error from running the program into the command's
// error. A kill is only an error when Stop caused it.
func (f *fatalStop) Result(runErr error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return fmt.Errorf("stopped: %w", f.err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run program: %w", runErr)
	}
	return nil
}
