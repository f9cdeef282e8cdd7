package main

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/wm"
)

var (
	cfgFile string
	display string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "tilewm",
	Short:        "tilewm is a keyboard driven tiling window manager for X",
	Long:         "tilewm manages the windows of an X display, tiling them with a configurable layout and key bindings.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/tilewm/config.toml)")
	rootCmd.Flags().StringVar(&display, "display", "", "X display to manage (default $DISPLAY)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log at debug level and print error stacks")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if se, ok := err.(*errors.Error); debug && ok {
			fmt.Fprintln(os.Stderr, se.ErrorStack())
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	cfg, err := loadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return errors.Wrap(err, 0)
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	m, err := wm.Connect(cfg.Display, log)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer m.Close()

	p, err := newPolicy(m, cfg, log)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	log.WithField("display", cfg.Display).Info("managing windows")
	if err := p.loop(); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func newLogger(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
		return log, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	return log, nil
}
