package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/unmark/internal/config"
	"github.com/example/unmark/internal/editsvc"
	"github.com/example/unmark/internal/notify"
	"github.com/example/unmark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	notifier      *notify.Notifier
	config        *config.Config
	processAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	themeName     string
	saveDir       string
	debug         bool
	jsonLogs      bool
	activeTheme   *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// newEditor builds the remote edit service from the service settings.
var newEditor = func(s config.Service) editsvc.Editor {
	var opts []editsvc.GeminiOption
	if s.Model != "" {
		opts = append(opts, editsvc.WithModel(s.Model))
	}
	if s.BaseURL != "" {
		opts = append(opts, editsvc.WithBaseURL(s.BaseURL))
	}
	if s.Timeout > 0 {
		opts = append(opts, editsvc.WithTimeout(s.Timeout))
	}
	return editsvc.NewGemini(s.APIKey, opts...)
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
		cfg.ApplyEnv(os.Getenv)
	}

	r := &root{
		fs:       flag.NewFlagSet("unmark", flag.ExitOnError),
		program:  "unmark",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.processAlerts, "notify-process", cfg.Notify.Process, "show a desktop notification when a watermark removal finishes")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (dark, light or a theme file name)")
	r.fs.StringVar(&r.saveDir, "save-dir", cfg.SaveDir, "directory downloads are written to")
	r.fs.BoolVar(&r.debug, "debug", false, "enable debug logging")
	r.fs.BoolVar(&r.jsonLogs, "json", false, "log as JSON instead of human readable text")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) setupLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if r.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if !r.jsonLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// resolveTheme applies the precedence flag > config (which already carries
// the environment) > default.
func (r *root) resolveTheme() *theme.Theme {
	if r.themeName != "" {
		r.config.Theme = r.themeName
	}
	t, err := r.config.ResolveTheme(theme.NewLoader())
	if err != nil {
		if name := r.config.Theme; name != "" && name != "default" {
			log.Warn().Err(err).Str("theme", name).Msg("failed to load theme, using default")
		}
		t = theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.setupLogging()
	if r.notifier != nil {
		r.notifier.Enable(notify.EventProcess, r.processAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.config.SaveDir = r.saveDir
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "mask":
		cmd, err = parseMaskCmd(subArgs, r)
	case "process":
		cmd, err = parseProcessCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		log.Error().Err(err).Msg(r.program)
		os.Exit(1)
	}
}
