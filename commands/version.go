package commands

import (
	"fmt"

	"github.com/iov-one/custody"
	"github.com/spf13/cobra"
)

func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(opts.Out, custody.Version())
		},
	}
}
