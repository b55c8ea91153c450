package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/langdetect"
)

func newDetectCmd() *cobra.Command {
	var (
		key, worksheet, source, dest string
		batchSize                    int
		minConfidence                float64
	)

	cmd := &cobra.Command{
		Use:   "detect-language <document-url>",
		Short: "Write the detected language of a text column into another column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readKey(key)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			req := core.DetectRequest{
				Credentials:       creds,
				DocumentURL:       args[0],
				Worksheet:         worksheet,
				SourceColumn:      source,
				DestinationColumn: dest,
			}
			if err := req.Validate(); err != nil {
				return err
			}
			detector := langdetect.New(langdetect.WithMinConfidence(minConfidence))
			res, err := core.RunDetectLanguage(ctx, core.ConnectGoogle, req, detector, batchSize, stageLogger())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: wrote %d of %d rows to %q in %s\n",
				res.Worksheet, res.Written, res.Rows, res.Column, res.Duration.Round(time.Millisecond))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tROWS")
			for _, l := range res.Languages {
				fmt.Fprintf(tw, "%s\t%d\n", l.Label, l.Rows)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Service-account key file (default: $GOOGLE_APPLICATION_CREDENTIALS)")
	cmd.Flags().StringVarP(&worksheet, "worksheet", "w", "", "Worksheet title")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Column holding the text")
	cmd.Flags().StringVarP(&dest, "destination", "d", "Detected Language", "Column receiving the labels")
	cmd.Flags().IntVar(&batchSize, "batch-size", core.DefaultWriteBatchSize, "Cells written per API call")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Label text below this confidence as unknown (0..1)")
	cmd.MarkFlagRequired("worksheet")
	cmd.MarkFlagRequired("source")
	return cmd
}
