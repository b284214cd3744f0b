package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/spf13/cobra"
)

func newOpsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the available operations",
		Long: `List every operation with its token syntax. Tokens are accepted by
"edit --op", by the operations list of the configuration file and by
recipe files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "OPERATION\tTOKEN\tDESCRIPTION")
			for _, spec := range ops.Catalog() {
				token := spec.Name
				if spec.Params != "" {
					token += ":" + spec.Params
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", spec.Name, token, spec.Description)
			}
			return tw.Flush()
		},
	}
}
