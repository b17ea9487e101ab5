// Package setup loads configuration shared by the rootcheck subcommands.
package setup

import (
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/txn2/rootcheck/pkg/rootcfg"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// Options holds the configuration flags every subcommand accepts
type Options struct {
	ConfigPath string
	EnvFile    string
	Verbose    bool
}

// AddFlags registers the configuration flags on cmd
func (o *Options) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.ConfigPath, "config", "c", "", "YAML file overriding the built-in heuristic lists and probe commands")
	cmd.Flags().StringVar(&o.EnvFile, "env-file", "", "Load ROOTCHECK_* variables from a .env file before reading the environment")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false, "Verbose output.")
}

// Configuration resolves the effective configuration. Precedence, lowest
// first: built-in defaults, the config file, the environment (including
// the env file).
func (o *Options) Configuration() (*rootcfg.Configuration, error) {
	if o.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil {
			return nil, errors.Wrapf(err, "loading env file %s", o.EnvFile)
		}
		log.Debugf("Loaded environment from %s", o.EnvFile)
	}

	cfg, err := rootcfg.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, errors.Wrap(err, "applying environment")
	}

	return cfg, nil
}

// Checker builds the default evaluator from the resolved configuration
func (o *Options) Checker() (*rootcheck.Evaluator, error) {
	cfg, err := o.Configuration()
	if err != nil {
		return nil, err
	}
	return rootcheck.NewDefault(cfg), nil
}
