package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is tilewm's configuration, read from a TOML file and TILEWM_*
// environment variables.
type Config struct {
	Display  string    `mapstructure:"display"`
	LogLevel string    `mapstructure:"log_level"`
	Layout   string    `mapstructure:"layout"`
	Bind     []Binding `mapstructure:"bind"`
}

// Binding ties a key chord to either a command to run or a named action.
type Binding struct {
	// Keys is a chord such as "Mod4-Shift-Return".
	Keys string `mapstructure:"keys"`
	// Press is "press", "release" or "both". Empty means press.
	Press  string   `mapstructure:"press"`
	Exec   []string `mapstructure:"exec"`
	Action string   `mapstructure:"action"`
}

// defaultBindings are used when the configuration has no [[bind]] tables.
var defaultBindings = []Binding{
	{Keys: "Mod4-Return", Exec: []string{"x-terminal-emulator"}},
	{Keys: "Mod4-Shift-Return", Exec: []string{"dmenu_run", "-nb", "#0f0f0f", "-nf", "#3f7f3f",
		"-sb", "#0f0f0f", "-sf", "#7fff7f", "-l", "10"}},
	{Keys: "Mod4-space", Exec: []string{"x-www-browser"}},

	{Keys: "XF86AudioLowerVolume", Exec: []string{"pactl", "set-sink-volume", "0", "--", "-5%"}},
	{Keys: "XF86AudioRaiseVolume", Exec: []string{"pactl", "set-sink-volume", "0", "--", "+5%"}},
	{Keys: "XF86AudioMute", Exec: []string{"pactl", "set-sink-mute", "0", "toggle"}},

	{Keys: "Mod4-Tab", Action: "focus-next"},
	{Keys: "Mod4-Shift-ISO_Left_Tab", Action: "focus-prev"},
	{Keys: "Mod4-f", Action: "focus-next"},
	{Keys: "Mod4-d", Action: "focus-prev"},
	{Keys: "Mod4-g", Action: "next-layout"},
	{Keys: "Mod4-Shift-g", Action: "prev-layout"},
	{Keys: "Mod4-Shift-Escape", Action: "quit"},
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "tilewm")
}

// loadConfig reads path, or config.toml in the user's config directory when
// path is empty. A missing default file is not an error. The --display flag,
// when set, overrides the file and environment.
func loadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("display", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("layout", "monocle")

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TILEWM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("display"); f != nil {
			if err := v.BindPFlag("display", f); err != nil {
				return Config{}, err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Bind) == 0 {
		c.Bind = defaultBindings
	}
	return c, nil
}
