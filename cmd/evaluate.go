package cmd

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/rflgf/mahjong-cli/game/engines/mahjong"
)

type handFlags struct {
	hand      string
	exposed   string
	discarded string
	kan       string
	seat      string
	prevalent string
	riichi    bool
}

func (f *handFlags) player() (mahjong.Player, error) {
	var p mahjong.Player
	var err error
	if p.Seat, err = mahjong.ParseWind(f.seat); err != nil {
		return p, fmt.Errorf("--seat: %w", err)
	}
	if p.Hand, err = mahjong.ParseTiles(f.hand); err != nil {
		return p, fmt.Errorf("--hand: %w", err)
	}
	if p.DealtIn, err = mahjong.ParseTiles(f.exposed); err != nil {
		return p, fmt.Errorf("--exposed: %w", err)
	}
	if p.Discarded, err = mahjong.ParseTiles(f.discarded); err != nil {
		return p, fmt.Errorf("--discarded: %w", err)
	}
	if p.Kan, err = mahjong.ParseTiles(f.kan); err != nil {
		return p, fmt.Errorf("--kan: %w", err)
	}
	p.Riichi = f.riichi
	return p, nil
}

func newEvaluateCmd(opts *options) *cobra.Command {
	f := &handFlags{}
	c := &cobra.Command{
		Use:   "evaluate",
		Short: "判定一手牌成立的役",
		Example: `  mahjong evaluate --hand "WW WW WW M1 M2 M3 P4 P5 P6 S7 S8 S9 M5 M5" --seat west --riichi
  mahjong evaluate --hand "M1 M2 M3 P4 P5 P6 M5 M5 WD WD WD" --kan RD`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.player()
			if err != nil {
				return err
			}
			scorer, err := opts.scorer()
			if err != nil {
				return err
			}
			defer scorer.Close()

			prevalent := scorer.DefaultPrevalent()
			if f.prevalent != "" {
				if prevalent, err = mahjong.ParseWind(f.prevalent); err != nil {
					return fmt.Errorf("--prevalent: %w", err)
				}
			}
			res, err := scorer.Evaluate(p, prevalent)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), p, prevalent, res)
			return nil
		},
	}
	c.Flags().StringVar(&f.hand, "hand", "", "concealed tiles, e.g. \"M1 M2 M3 EW EW\"")
	c.Flags().StringVar(&f.exposed, "exposed", "", "dealt-in (called) tiles")
	c.Flags().StringVar(&f.discarded, "discarded", "", "discarded tiles")
	c.Flags().StringVar(&f.kan, "kan", "", "one tile per declared quad")
	c.Flags().StringVar(&f.seat, "seat", "east", "seat wind")
	c.Flags().StringVar(&f.prevalent, "prevalent", "", "prevalent wind (default from config)")
	c.Flags().BoolVar(&f.riichi, "riichi", false, "riichi declared")
	_ = c.MarkFlagRequired("hand")
	return c
}

func newRandomCmd(opts *options) *cobra.Command {
	var (
		seed   int64
		riichi bool
		seat   string
	)
	c := &cobra.Command{
		Use:   "random",
		Short: "从洗好的牌山随机发 14 张并判定",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := mahjong.ParseWind(seat)
			if err != nil {
				return fmt.Errorf("--seat: %w", err)
			}
			if seed == 0 {
				seed = rand.Int63()
			}
			p, err := mahjong.RandomPlayer(mahjong.NewDeck(seed), w, riichi)
			if err != nil {
				return err
			}

			scorer, err := opts.scorer()
			if err != nil {
				return err
			}
			defer scorer.Close()

			prevalent := scorer.DefaultPrevalent()
			res, err := scorer.Evaluate(p, prevalent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed: %d\n", seed)
			printResult(cmd.OutOrStdout(), p, prevalent, res)
			return nil
		},
	}
	c.Flags().Int64Var(&seed, "seed", 0, "shuffle seed, 0 picks one at random")
	c.Flags().BoolVar(&riichi, "riichi", false, "riichi declared")
	c.Flags().StringVar(&seat, "seat", "east", "seat wind")
	return c
}

func printResult(w io.Writer, p mahjong.Player, prevalent mahjong.Wind, res mahjong.Result) {
	fmt.Fprintf(w, "hand: %s\n", mahjong.FormatTiles(mahjong.SortedCopy(p.Hand)))
	if len(p.DealtIn) > 0 {
		fmt.Fprintf(w, "exposed: %s\n", mahjong.FormatTiles(p.DealtIn))
	}
	if len(p.Kan) > 0 {
		fmt.Fprintf(w, "kan: %s\n", mahjong.FormatTiles(p.Kan))
	}
	fmt.Fprintf(w, "seat: %s  prevalent: %s  riichi: %v  concealed: %v\n", p.Seat, prevalent, p.Riichi, res.Concealed)

	if len(res.Yakus) == 0 {
		fmt.Fprintln(w, "yaku: none")
	} else {
		fmt.Fprintln(w, "yaku:")
		for _, y := range res.Yakus {
			fmt.Fprintf(w, "  - %s\n", y)
		}
	}
	printConfigurations(w, res.Configurations)
}

func printConfigurations(w io.Writer, configs []mahjong.HandConfiguration) {
	if len(configs) == 0 {
		fmt.Fprintln(w, "configurations: none")
		return
	}
	fmt.Fprintln(w, "configurations:")
	for _, cfg := range configs {
		fmt.Fprintf(w, "  %s\n", cfg)
	}
}
