// Package cli implements the coach command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"FitAICoach/internal/app"
	"FitAICoach/internal/client"
	"FitAICoach/internal/models"
	"FitAICoach/internal/planstore"
	"FitAICoach/internal/ui"
	"FitAICoach/internal/voice"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported marks failures the user has already seen as a notification.
var errReported = errors.New("reported")

// env is what every command works with once configuration is resolved.
type env struct {
	cfg      ClientConfig
	session  *app.Session
	renderer *ui.Renderer
	out      io.Writer
	prompter ui.Prompter
	closers  []func()

	outMu sync.Mutex
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// println is safe to call from the session goroutines.
func (e *env) println(s string) {
	if s == "" {
		return
	}
	e.outMu.Lock()
	defer e.outMu.Unlock()
	fmt.Fprintln(e.out, s)
}

// Options lets tests replace the terminal pieces.
type Options struct {
	Out      io.Writer
	Prompter ui.Prompter
	Fs       afero.Fs
	Engine   voice.Engine
}

type root struct {
	opts    Options
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd builds the coach command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Prompter == nil {
		opts.Prompter = ui.TerminalPrompter{}
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	r := &root{opts: opts, v: viper.New()}

	cmd := &cobra.Command{
		Use:           "coach",
		Short:         "FitAI Coach generates personalized workout and diet plans.",
		Long:          `FitAI Coach collects your profile, asks the hosted AI endpoints for a workout and diet plan, and lets you read it aloud, view item images and export it as a PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig(r.v, r.cfgFile)
			setupLogging(r.v.GetBool("verbose"))
		},
	}
	cmd.SetOut(opts.Out)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&r.cfgFile, "config", "c", "", "config file (default is $HOME/.fitcoach.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging on stderr")
	flags.String("server-url", "", "base URL of the plan service")
	flags.String("api-key", "", "key sent with every request")
	flags.String("data-dir", "", "directory holding the saved plan")
	flags.String("storage", "", "storage backend: file or sqlite")
	flags.String("theme", "", "color theme: dark or light")
	flags.Duration("timeout", 0, "per-request timeout")

	_ = r.v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = r.v.BindPFlag("server_url", flags.Lookup("server-url"))
	_ = r.v.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = r.v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = r.v.BindPFlag("storage.backend", flags.Lookup("storage"))
	_ = r.v.BindPFlag("theme", flags.Lookup("theme"))
	_ = r.v.BindPFlag("request_timeout", flags.Lookup("timeout"))

	cmd.AddCommand(
		r.generateCmd(),
		r.showCmd(),
		r.sessionCmd(),
		r.readCmd(),
		r.imageCmd(),
		r.exportCmd(),
		r.quoteCmd(),
	)
	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd(Options{})
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func setupLogging(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// newEnv resolves configuration and wires the session for one command.
func (r *root) newEnv() (*env, error) {
	cfg, err := loadClientConfig(r.v)
	if err != nil {
		return nil, err
	}

	storage, closeStorage, err := openStorage(r.opts.Fs, cfg)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		renderer: ui.NewRenderer(ui.ThemeFor(cfg.Theme), 0),
		out:      r.opts.Out,
		prompter: r.opts.Prompter,
	}
	if closeStorage != nil {
		e.closers = append(e.closers, closeStorage)
	}

	notifier := app.NotifierFunc(func(n models.Notice) {
		e.println(e.renderer.Notice(n))
	})

	e.session = app.NewSession(app.Options{
		Client: client.New(client.Options{
			BaseURL: cfg.ServerURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.RequestTimeout,
		}),
		Store:    planstore.New(storage),
		Engine:   r.opts.Engine,
		Notifier: notifier,
		Fs:       r.opts.Fs,
	})
	e.closers = append(e.closers, e.session.Close)

	log.Debug().Str("server", cfg.ServerURL).Str("storage", cfg.StorageBackend).Msg("Session ready")
	return e, nil
}

func openStorage(fs afero.Fs, cfg ClientConfig) (planstore.Storage, func(), error) {
	if cfg.StorageBackend == BackendSQLite {
		s, err := planstore.NewSQLiteStorage(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open plan database: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	}
	return planstore.NewFileStorage(fs, cfg.DataDir), nil, nil
}

// withEnv wraps a command body with environment setup and teardown.
func (r *root) withEnv(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := r.newEnv()
		if err != nil {
			return err
		}
		defer e.close()
		return run(cmd, args, e)
	}
}

// requirePlan loads the saved plan into the session.
func requirePlan(e *env) (models.Plan, error) {
	plan, found := e.session.LoadSaved()
	if !found {
		return models.Plan{}, errReported
	}
	return plan, nil
}
