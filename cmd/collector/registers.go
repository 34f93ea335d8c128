// cmd/collector/registers.go
package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamzrod/inverter-collector/internal/register"
)

func newRegistersCommand() *cobra.Command {
	var readable bool
	cmd := &cobra.Command{
		Use:   "registers",
		Short: "List the register catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRegisters(cmd.OutOrStdout(), readable)
		},
	}
	cmd.Flags().BoolVar(&readable, "readable", false, "Only list registers that can be polled")
	return cmd
}

func printRegisters(out io.Writer, readable bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tWORDS\tTYPE\tGAIN\tUNIT\tACCESS")
	for _, d := range register.All() {
		if readable && !d.Access.Readable() {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
			d.Name, d.Address, d.Quantity, d.Type, d.Gain, d.Unit, d.Access)
	}
	return w.Flush()
}
