package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"imf-reader/internal/imf"
)

func newResolveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <cpl> [uuid...]",
		Short: "Map asset UUIDs to absolute URIs",
		Long:  "Resolve the given asset UUIDs, or every asset the CPL references when none are given.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args)-1)
			for _, a := range args[1:] {
				id, err := uuid.Parse(a)
				if err != nil {
					return fmt.Errorf("invalid asset UUID %q: %w", a, err)
				}
				ids = append(ids, id)
			}

			pkg, err := c.openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			defer pkg.Close()

			var resolved []imf.ResolvedAsset
			if len(ids) == 0 {
				if resolved, err = pkg.Resolve(); err != nil {
					return err
				}
			} else {
				for _, id := range ids {
					uri, err := pkg.ResolveURI(id)
					if err != nil {
						return err
					}
					resolved = append(resolved, imf.ResolvedAsset{UUID: id, URI: uri})
				}
			}

			p := newPrinter(cmd)
			if p.isJSON() {
				return p.json(resolved)
			}
			var rows [][]string
			for _, r := range resolved {
				rows = append(rows, []string{"urn:uuid:" + r.UUID.String(), r.URI})
			}
			p.table([]string{"ASSET", "URI"}, rows)
			return nil
		},
	}
}
