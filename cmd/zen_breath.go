package main

import (
	"fmt"
	"os"

	"github.com/lowaak/zen-breath/internal/breather"
	"github.com/lowaak/zen-breath/internal/config"
	"github.com/lowaak/zen-breath/internal/logging"
	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	flags := pflag.NewFlagSet("zen-breath", pflag.ExitOnError)
	configPath := flags.String("config", "", "config file (default "+config.ConfigFile()+")")
	flags.String("pattern", "", "pattern to select on launch")
	flags.Int("tick-interval-ms", 0, "milliseconds per tick")
	flags.Bool("auto-start", false, "start breathing immediately")
	flags.String("log-file", "", "log file path")
	must("parse flags", flags.Parse(os.Args[1:]))

	v := viper.New()
	config.SetDefaults(v)
	must("bind flags", bindFlags(v, flags))
	must("read config", config.ReadFile(v, *configPath))

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	catalog, err := cfg.Catalog()
	must("build pattern catalog", err)

	logger := logging.New(cfg.Logging)
	defer logger.Close()
	logger.Printf("zen-breath starting: %d patterns, tick %v", catalog.Len(), cfg.Session.TickInterval())

	model := breather.NewUIModel(catalog, cfg.Paths.StateFile, logger.Logger, logger.Lines())
	sessionManager := breather.NewSessionManager(model, breather.NewTickerSource(cfg.Session.TickInterval()), logger.Logger)
	controller := breather.NewUIController(model, sessionManager, logger.Logger)

	app := tview.NewApplication()
	view := breather.NewBaseUIView(breather.NewBaseUIViewArg{
		UIViewImpl:   breather.NewCursesUIView(logger.Logger, app),
		UIModel:      model,
		UIController: controller,
		Logger:       logger.Logger,
	})

	// An explicit --pattern wins over the remembered one
	if flags.Changed("pattern") {
		model.SetPreferredPattern(cfg.Session.DefaultPattern)
	}
	controller.RestoreSelection(cfg.Session.DefaultPattern)
	if cfg.Session.AutoStart {
		controller.OnModeChange(breather.UIModeSession)
		controller.StartSession()
	}

	runErr := view.Run()

	view.Shutdown()
	controller.Shutdown()
	model.Shutdown()

	must("run UI", runErr)
}

// bindFlags maps command line flags onto their config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"session.default_pattern":  "pattern",
		"session.tick_interval_ms": "tick-interval-ms",
		"session.auto_start":       "auto-start",
		"logging.file":             "log-file",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func must(action string, err error) {
	if err != nil {
		panic("failed to " + action + ": " + err.Error())
	}
}
