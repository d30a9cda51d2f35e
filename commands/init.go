package commands

import (
	"fmt"
	"os"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
)

// InitOptions holds the flags of the init command.
type InitOptions struct {
	*RootOptions
	Owners   []string
	Required uint32
	Force    bool
}

// NewInitCommand returns the command writing the genesis file.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the genesis file with the owner set",
		Long: `Write the genesis file with the owner set into the home directory.

The owner set is registered when the daemon starts for the first time. After
that the genesis file is no longer read.

Example:
  custodyd init --owner hex:<address> --owner bech32:<address> --required 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Owners, "owner", nil, "owner address, repeat for every owner")
	cmd.Flags().Uint32Var(&opts.Required, "required", 1, "number of confirmations required to execute a transaction")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing genesis file")
	return cmd
}

func runInit(opts *InitOptions) error {
	owners := make([]custody.Address, 0, len(opts.Owners))
	for _, raw := range opts.Owners {
		addr, err := custody.ParseAddress(raw)
		if err != nil {
			return errors.Wrapf(err, "owner %q", raw)
		}
		owners = append(owners, addr)
	}

	path := opts.GenesisPath()
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return errors.Wrapf(errors.ErrDuplicate, "genesis file %s exists, use --force to overwrite", path)
	}

	doc, err := app.GenesisTemplate(owners, opts.Required)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.Home, 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.WriteFile(path, doc, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	fmt.Fprintf(opts.Out, "genesis written to %s\n", path)
	return nil
}
