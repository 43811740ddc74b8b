package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

func newDecomposeCmd(opts *options) *cobra.Command {
	var tiles string
	c := &cobra.Command{
		Use:   "decompose",
		Short: "列出 14 张牌的全部四面子一雀头拆法",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := mahjong.ParseTiles(tiles)
			if err != nil {
				return fmt.Errorf("--tiles: %w", err)
			}
			scorer, err := opts.scorer()
			if err != nil {
				return err
			}
			defer scorer.Close()

			configs, err := scorer.Decompose(ts)
			if err != nil {
				return err
			}
			printConfigurations(cmd.OutOrStdout(), configs)
			return nil
		},
	}
	c.Flags().StringVar(&tiles, "tiles", "", "14 tiles, e.g. \"M1 M2 M3 ...\"")
	_ = c.MarkFlagRequired("tiles")
	return c
}

func newSuccessorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "successor <tile>...",
		Short: "宝牌指示牌对应的宝牌",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				t, err := mahjong.ParseTile(a)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", t, t.Successor())
			}
			return nil
		},
	}
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "列出全部役种",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, y := range mahjong.Catalog() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", y.Key(), y)
			}
			return nil
		},
	}
}
