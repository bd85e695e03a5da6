package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/pokeapi-client/internal/config"
	"github.com/Sternrassler/pokeapi-client/pkg/client"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// options is the state shared by all subcommands.
type options struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "pokedex",
		Short: "Browse PokeAPI reference data from the command line.",
		Long: `pokedex pages through PokeAPI collections (pokemon, abilities, items, moves,
types), filters them by name and shows single records.

Settings come from $HOME/.pokedex.yaml (or --config) and the environment;
run "pokedex env" for the list of variables.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.pokedex.yaml)")
	flags.StringP("loglevel", "l", "", "Set log level. Available: debug, info, warn, error, off")
	flags.String("cache", "", "Response cache backend. Available: none, redis, sqlite")
	opts.v.BindPFlag("log_level", flags.Lookup("loglevel"))
	opts.v.BindPFlag("cache_backend", flags.Lookup("cache"))

	rootCmd.AddCommand(
		newBrowseCmd(opts),
		newShowCmd(opts),
		newPagesCmd(),
		newTUICmd(opts),
		newEnvCmd(),
	)
	return rootCmd
}

// initConfig locates the config file, loads the configuration and sets up
// logging.
func (o *options) initConfig(cmd *cobra.Command) error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		o.v.AddConfigPath(home)
		o.v.SetConfigName(".pokedex")
		o.v.SetConfigType("yaml")
	}

	path := ""
	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		path = o.v.ConfigFileUsed()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	// Flags win over file and environment.
	if level := o.v.GetString("log_level"); level != "" {
		cfg.LogLevel = level
	}
	if backend := o.v.GetString("cache_backend"); backend != "" {
		cfg.CacheBackend = backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// app bundles the backends and client of one command run.
type app struct {
	backends *config.Backends
	client   *client.Client
	loader   *index.Loader
}

func (o *options) open(ctx context.Context) (*app, error) {
	backends, err := o.cfg.OpenBackends(ctx)
	if err != nil {
		return nil, err
	}
	c, err := client.New(o.cfg.ClientConfig(backends))
	if err != nil {
		backends.Close()
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &app{backends: backends, client: c, loader: index.NewLoader(c)}, nil
}

func (a *app) Close() error {
	a.client.Close()
	return a.backends.Close()
}
