package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/seokit/internal/highlight"
	"github.com/JonMunkholm/seokit/internal/workbook"
)

func newPreviewCmd() *cobra.Command {
	var column, output, palette string

	cmd := &cobra.Command{
		Use:   "preview <input.csv>",
		Short: "Highlight a CSV export offline and save it as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + "_highlighted.xlsx"
			}
			p := highlight.Palette{Alphabet: palette}
			if err := p.Validate(); err != nil {
				return err
			}

			in, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			ds, err := workbook.LoadCSV(in)
			if err != nil {
				return err
			}

			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			plan, err := workbook.Render(cmd.Context(), out, ds, column, highlight.WithPalette(p))
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(output)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d groups, %d ranges\n",
				output, plan.Rows, len(plan.Groups), len(plan.Ranges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "Group column header")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: <input>_highlighted.xlsx)")
	cmd.Flags().StringVar(&palette, "palette", highlight.DefaultAlphabet, "Hex digits allowed in each color position")
	cmd.MarkFlagRequired("column")
	return cmd
}
