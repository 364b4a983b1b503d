package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/vito/stimpl/pkg/stimpl"
)

func dumpCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "dump [flags] FILE",
		Short: "Print the decoded AST of a program without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open program: %w", err)
			}
			defer f.Close() //nolint:errcheck

			program, err := stimpl.Decode(args[0], f)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if raw {
				_, err = pretty.Fprintf(w, "%# v\n", program)
				return err
			}
			_, err = fmt.Fprintln(w, program)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the Go structure of every node")

	return cmd
}
