package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/pingjob/internal/social"
)

func platformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "Show which platforms have credentials configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			publishers := social.NewPublishers(social.CredentialsFromConfig(cfg.Social), social.Options{})
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PLATFORM\tCONFIGURED")
			for _, p := range publishers {
				fmt.Fprintf(tw, "%s\t%t\n", p.Platform(), p.Configured())
			}
			return tw.Flush()
		},
	}
}
