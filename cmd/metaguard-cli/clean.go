package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/ledger"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/upload"
	"github.com/spf13/cobra"
)

func (c *cli) cleanCmd() *cobra.Command {
	var (
		output string
		force  bool
		pf     policyFlags
	)
	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Write a copy of a file with its sensitive metadata removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pol, err := pf.build()
			if err != nil {
				return err
			}
			up, err := upload.FromFile(args[0])
			if err != nil {
				return err
			}
			res, err := c.pipeline().Clean(cmd.Context(), up, pol)
			if err != nil {
				return err
			}

			dst := output
			if dst == "" {
				dst = filepath.Join(filepath.Dir(args[0]), res.CleanedName)
			}
			flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
			if !force {
				flags |= os.O_EXCL
			}
			f, err := os.OpenFile(dst, flags, 0o600)
			if err != nil {
				return fmt.Errorf("write %s: %w", dst, err)
			}
			if _, err := f.Write(res.Redacted); err != nil {
				_ = f.Close()
				return fmt.Errorf("write %s: %w", dst, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", dst, err)
			}
			c.record(cmd, ledger.NewEntry(string(pipeline.ModeClean), pol.Name(), &res.Result, c.now()))

			fmt.Fprintf(c.out, "wrote %s\n", dst)
			fmt.Fprintf(c.out, "removed %d of %d fields, %d remain\n", res.RemovedCount, res.TotalCount, res.RemainingCount)
			fmt.Fprintf(c.out, "sha256 before: %s\n", res.Integrity.HashBefore)
			fmt.Fprintf(c.out, "sha256 after:  %s\n", res.Integrity.HashAfter)
			if !res.Integrity.Changed {
				fmt.Fprintln(c.out, "file content unchanged")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default cleaned_<name> next to the input)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the output file")
	pf.register(cmd)
	return cmd
}
