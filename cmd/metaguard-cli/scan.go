package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/ledger"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/upload"
	"github.com/spf13/cobra"
)

const maxValueWidth = 60

func (c *cli) scanCmd() *cobra.Command {
	var (
		asJSON bool
		pf     policyFlags
	)
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Show the metadata of a file and its privacy risk",
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
			res, err := c.pipeline().Analyze(cmd.Context(), up, pol)
			if err != nil {
				return err
			}
			c.record(cmd, ledger.NewEntry(string(pipeline.ModeAnalyze), pol.Name(), res, c.now()))

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(response.NewAnalyzeResponse(res))
			}
			return printScan(c.out, res)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	pf.register(cmd)
	return cmd
}

func printScan(w io.Writer, res *metadata.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	stripped := make(map[string]struct{}, len(res.StrippedTags))
	for _, tag := range res.StrippedTags {
		stripped[tag] = struct{}{}
	}
	fmt.Fprintln(tw, "FIELD\tVALUE\tRISK\tCATEGORY\tSTRIP")
	for _, f := range res.Fields {
		strip := ""
		if _, ok := stripped[f.Tag]; ok {
			strip = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Tag, truncate(f.Value), f.RiskLevel, f.Category, strip)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s: %d fields, %d privacy relevant\n", res.FileName, res.TotalCount, res.PrivacyCount)
	fmt.Fprintf(w, "overall risk: %s (score %.1f)\n", res.Verdict.OverallRisk, res.Verdict.TotalScore)
	fmt.Fprintf(w, "a clean run would remove %d, keep %d\n", res.RemovedCount, res.RemainingCount)
	fmt.Fprintf(w, "sha256: %s\n", res.Integrity.HashBefore)
	return nil
}

func truncate(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	if len(v) <= maxValueWidth {
		return v
	}
	return v[:maxValueWidth-3] + "..."
}
