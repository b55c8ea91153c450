package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/highlight"
)

type highlightFlags struct {
	key         string
	worksheet   string
	column      string
	palette     string
	maxAttempts int
}

func newHighlightCmd() *cobra.Command {
	var f highlightFlags

	cmd := &cobra.Command{
		Use:   "highlight <document-url>",
		Short: "Color worksheet rows by the value of a group column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readKey(f.key)
			if err != nil {
				return err
			}
			palette := highlight.Palette{Alphabet: f.palette}
			if err := palette.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			req := core.HighlightRequest{
				Credentials: creds,
				DocumentURL: args[0],
				Worksheet:   f.worksheet,
				GroupColumn: f.column,
			}
			if err := req.Validate(); err != nil {
				return err
			}
			res, err := core.RunHighlight(ctx, core.ConnectGoogle, req, stageLogger(),
				highlight.WithPalette(palette),
				highlight.WithMaxAttempts(f.maxAttempts),
			)
			if err != nil {
				return err
			}
			return printHighlight(cmd, res)
		},
	}

	cmd.Flags().StringVarP(&f.key, "key", "k", "", "Service-account key file (default: $GOOGLE_APPLICATION_CREDENTIALS)")
	cmd.Flags().StringVarP(&f.worksheet, "worksheet", "w", "", "Worksheet title")
	cmd.Flags().StringVarP(&f.column, "column", "c", "", "Group column header")
	cmd.Flags().StringVar(&f.palette, "palette", highlight.DefaultAlphabet, "Hex digits allowed in each color position")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 1000, "Random draws per color before scanning the palette")
	cmd.MarkFlagRequired("worksheet")
	cmd.MarkFlagRequired("column")
	return cmd
}

func printHighlight(cmd *cobra.Command, res *core.JobResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rows, %d groups, %d ranges in %s\n",
		res.Worksheet, res.Rows, res.Groups, res.Ranges, res.Duration.Round(time.Millisecond))
	if len(res.Preview) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANGE\tCOLOR\tVALUE")
	for _, p := range res.Preview {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Range, p.Color, p.Value)
	}
	if res.Ranges > len(res.Preview) {
		fmt.Fprintf(tw, "…\t\t(%d more)\n", res.Ranges-len(res.Preview))
	}
	return tw.Flush()
}
