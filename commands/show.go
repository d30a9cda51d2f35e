package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/spf13/cobra"
)

// NewShowCommand returns the command printing the wallet state. It reads
// the database directly, so the daemon must not be running.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [transaction id]",
		Short: "Print the wallet or a single transaction as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args)
		},
	}
}

func runShow(opts *RootOptions, args []string) error {
	db, err := store.OpenLevelDB(opts.DataDir())
	if err != nil {
		return err
	}
	defer db.Close()
	a := app.NewApp(db)

	var content interface{}
	if len(args) == 0 {
		content, err = a.Info()
	} else {
		id, perr := strconv.ParseUint(args[0], 10, 64)
		if perr != nil {
			return errors.Wrapf(errors.ErrInput, "transaction id %q", args[0])
		}
		content, err = a.Transaction(id)
	}
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	fmt.Fprintln(opts.Out, string(raw))
	return nil
}
