/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind        string
	dataFile    string
	noWeb       bool
	pace        time.Duration
	pollTimeout time.Duration
	port        int
	prefix      string
	profile     bool
	tlsCert     string
	tlsKey      string
	token       string
	users       []int64
	verbose     bool
	version     bool
}

func (c *Config) validate() error {
	if c.token == "" {
		return ErrMissingToken
	}
	if len(c.users) == 0 {
		return ErrNoUsers
	}
	if c.dataFile == "" {
		return fmt.Errorf("invalid data file: %q", c.dataFile)
	}
	if c.pace < 0 {
		return fmt.Errorf("invalid pace (must not be negative): %s", c.pace)
	}
	if c.pollTimeout < time.Second {
		return fmt.Errorf("invalid poll timeout (must be at least 1s): %s", c.pollTimeout)
	}
	if !c.noWeb && (c.port < 1 || c.port > 65535) {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// legacyEnv lists the older, unprefixed variable names still honored after
// the prefixed ones.
var legacyEnv = map[string][]string{
	"token": {"MOVIENIGHT_TOKEN", "BOT_TOKEN"},
	"users": {"MOVIENIGHT_USERS", "USERS"},
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MOVIENIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "movienight",
		Short:         "A Telegram bot that keeps a shared watch list and picks tonight's movie.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return Run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind the live feed to (env: MOVIENIGHT_BIND)")
	fs.StringVarP(&cfg.dataFile, "data-file", "f", "data.json", "path to the shared watch list (env: MOVIENIGHT_DATA_FILE)")
	fs.BoolVar(&cfg.noWeb, "no-web", false, "do not serve the live feed and status pages (env: MOVIENIGHT_NO_WEB)")
	fs.DurationVar(&cfg.pace, "pace", 1500*time.Millisecond, "pause between elimination announcements (env: MOVIENIGHT_PACE)")
	fs.DurationVar(&cfg.pollTimeout, "poll-timeout", 60*time.Second, "long polling timeout for telegram updates (env: MOVIENIGHT_POLL_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MOVIENIGHT_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: MOVIENIGHT_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: MOVIENIGHT_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: MOVIENIGHT_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: MOVIENIGHT_TLS_KEY)")
	fs.StringVarP(&cfg.token, "token", "t", "", "telegram bot token (env: MOVIENIGHT_TOKEN or BOT_TOKEN)")
	fs.Int64SliceVarP(&cfg.users, "users", "u", nil, "comma-separated telegram user ids allowed to use the bot (env: MOVIENIGHT_USERS or USERS)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: MOVIENIGHT_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MOVIENIGHT_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(append([]string{f.Name}, legacyEnv[f.Name]...)...)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("movienight v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
