package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wbreport/internal/infrastructure"
	"wbreport/internal/services"
	apiv1 "wbreport/pkg/contracts/api/v1"
)

func newTaxonomyCmd(cc *cliContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Print the fee categories used by the fee summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := services.NewAnalysisServiceFromConfig(cc.cfg.Analysis, infrastructure.NoopProviders(cc.logger), cc.logger)
			if err != nil {
				return err
			}
			cats := svc.Taxonomy().Categories()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(apiv1.FeeCategoriesResponse{Categories: cats, Count: len(cats)})
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tDESCRIPTION\tFEE TYPES")
			for _, c := range cats {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Key, c.Description, strings.Join(c.Labels, "; "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
