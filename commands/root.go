package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// Environment variables provide the defaults of the global flags.
const (
	EnvHome     = "CUSTODY_HOME"
	EnvLogLevel = "CUSTODY_LOG_LEVEL"
)

// RootOptions holds the flags shared by all commands.
type RootOptions struct {
	Home     string
	LogLevel string

	// Out receives the command output. Logs are written there as well.
	Out io.Writer
}

// DataDir is where the wallet database lives.
func (o *RootOptions) DataDir() string {
	return filepath.Join(o.Home, "data")
}

// GenesisPath is the location of the genesis file.
func (o *RootOptions) GenesisPath() string {
	return filepath.Join(o.Home, "genesis.json")
}

// Logger returns a logger filtered to the configured level.
func (o *RootOptions) Logger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(o.Out))
	opt, err := log.AllowLevel(o.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt).With("module", "custody"), nil
}

// NewRootCommand returns the custodyd command with all subcommands.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &RootOptions{Out: out}

	cmd := &cobra.Command{
		Use:   "custodyd",
		Short: "Multisig custody wallet daemon",
		Long: `custodyd keeps a wallet controlled by a fixed set of owners.

Any owner can submit a transaction. A transaction is executed once the
required number of owners confirmed it, and never more than once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&opts.Home, "home", env(EnvHome, defaultHome()), "directory to store files under")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", env(EnvLogLevel, "info"), "log level: debug, info, error or none")

	cmd.AddCommand(
		NewInitCommand(opts),
		NewStartCommand(opts),
		NewShowCommand(opts),
		NewVersionCommand(opts),
	)
	return cmd
}

func defaultHome() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".custody")
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
