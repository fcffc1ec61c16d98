package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"imf-reader/internal/catalog"
)

const defaultCatalogPath = "imf-catalog.db"

func newCatalogCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Record packages and look up assets across them",
	}
	cmd.PersistentFlags().String("db", "", "catalog database file (default: $CATALOG_PATH or "+defaultCatalogPath+")")
	cmd.AddCommand(
		newCatalogAddCmd(c),
		newCatalogFindCmd(c),
		newCatalogListCmd(c),
	)
	return cmd
}

func (c *cli) openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = c.cfg.CatalogPath
	}
	if path == "" {
		path = defaultCatalogPath
	}
	return catalog.New(cmd.Context(), path, c.log)
}

func newCatalogAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <cpl>...",
		Short: "Record packages in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			for _, url := range args {
				pkg, err := c.openPackage(cmd, url)
				if err != nil {
					return err
				}
				err = cat.RecordPackage(cmd.Context(), pkg)
				pkg.Close()
				if err != nil {
					return fmt.Errorf("recording %s: %w", url, err)
				}
			}

			stats := cat.GetStats()
			p := newPrinter(cmd)
			if p.isJSON() {
				return p.json(map[string]int{"packages": stats.TotalPackages, "assets": stats.TotalAssets})
			}
			p.kv([][2]string{
				{"Recorded", strconv.Itoa(len(args))},
				{"Packages", strconv.Itoa(stats.TotalPackages)},
				{"Assets", strconv.Itoa(stats.TotalAssets)},
			})
			return nil
		},
	}
}

func newCatalogFindCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find <uuid>",
		Short: "List every recorded location of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset UUID %q: %w", args[0], err)
			}

			cat, err := c.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			locations, err := cat.FindAsset(cmd.Context(), id)
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if p.isJSON() {
				return p.json(locations)
			}
			var rows [][]string
			for _, l := range locations {
				rows = append(rows, []string{"urn:uuid:" + l.CPLID.String(), l.CPLTitle, l.URI})
			}
			p.table([]string{"CPL", "TITLE", "URI"}, rows)
			return nil
		},
	}
}

func newCatalogListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := c.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			packages, err := cat.ListPackages(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if p.isJSON() {
				return p.json(packages)
			}
			var rows [][]string
			for _, s := range packages {
				rows = append(rows, []string{
					"urn:uuid:" + s.CPLID.String(),
					s.Title,
					strconv.Itoa(s.Assets),
					s.RecordedAt.Format("2006-01-02 15:04:05"),
				})
			}
			p.table([]string{"CPL", "TITLE", "ASSETS", "RECORDED"}, rows)
			return nil
		},
	}
}
