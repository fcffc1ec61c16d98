package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <cpl>",
		Short: "Summarise a composition and its virtual tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := c.openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			defer pkg.Close()

			summary, err := pkg.Summary()
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if p.isJSON() {
				return p.json(summary)
			}

			p.kv([][2]string{
				{"CPL", "urn:uuid:" + summary.CPLID.String()},
				{"Title", summary.Title},
				{"Edit rate", summary.EditRate.String()},
				{"Segments", strconv.Itoa(summary.Segments)},
				{"Assets", fmt.Sprintf("%d listed, %d referenced, %d duplicate", summary.Assets, summary.Referenced, summary.Duplicates)},
				{"Asset map", summary.AssetMapPath},
			})
			p.blank()

			var rows [][]string
			for _, t := range summary.Tracks {
				rows = append(rows, []string{
					t.Kind.String(),
					"urn:uuid:" + t.TrackID.String(),
					strconv.Itoa(t.Resources),
					strconv.FormatFloat(t.Seconds, 'f', 3, 64),
				})
			}
			p.table([]string{"KIND", "TRACK", "RESOURCES", "SECONDS"}, rows)
			return nil
		},
	}
}
