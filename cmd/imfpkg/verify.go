package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newVerifyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <cpl>",
		Short: "Check that every referenced asset is listed and reachable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := c.openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			defer pkg.Close()

			n, _ := cmd.Flags().GetInt("workers")
			if !cmd.Flags().Changed("workers") {
				n = c.cfg.VerifyWorkers
			}

			report, err := pkg.Verify(cmd.Context(), n)
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if p.isJSON() {
				if err := p.json(report); err != nil {
					return err
				}
			} else {
				var rows [][]string
				for _, r := range report.Results {
					size := "-"
					if r.Size >= 0 {
						size = strconv.FormatInt(r.Size, 10)
					}
					rows = append(rows, []string{"urn:uuid:" + r.UUID.String(), string(r.Status), size, r.URI})
				}
				p.table([]string{"ASSET", "STATUS", "SIZE", "URI"}, rows)
			}

			if !report.Healthy() {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "concurrent stat calls (default: sized from CPU count)")
	return cmd
}
