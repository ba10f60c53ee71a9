package cmd

import (
	"fmt"
	"io"

	"catalogadmin/api"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var envelopeRaw bool

var envelopeCmd = &cobra.Command{
	Use:   "envelope <artists|albums|tracks|genres|news|users>",
	Short: "Show how the API wraps a collection's list response",
	Long: `Fetch a collection and report which list envelope it came in.
List commands treat an unrecognized response as an empty list; this command
shows the failure and, with --raw, the payload itself.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"artists", "albums", "tracks", "genres", "news", "users"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c := app.client
		switch args[0] {
		case "artists":
			return describeEnvelope(cmd, c.Artists().Collection, envelopeRaw)
		case "albums":
			return describeEnvelope(cmd, c.Albums().Collection, envelopeRaw)
		case "tracks":
			return describeEnvelope(cmd, c.Tracks().Collection, envelopeRaw)
		case "genres":
			return describeEnvelope(cmd, c.Genres().Collection, envelopeRaw)
		case "news":
			return describeEnvelope(cmd, c.News().Collection, envelopeRaw)
		case "users":
			return describeEnvelope(cmd, c.Users(), envelopeRaw)
		}
		return fmt.Errorf("unknown collection %q", args[0])
	},
}

func describeEnvelope[E any](cmd *cobra.Command, c api.Collection[E], raw bool) error {
	res, err := c.Decode(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.OK() {
		fmt.Fprintf(out, "%s: %d items in a %q envelope\n", c.Name(), len(res.Items), res.Shape)
	} else {
		fmt.Fprintf(out, "%s: unrecognized response, %s\n", c.Name(), humanize.Bytes(uint64(len(res.Raw))))
		fmt.Fprintf(out, "  %v\n", res.Err)
	}
	if raw {
		writeRaw(out, res.Raw)
	}
	return nil
}

func writeRaw(w io.Writer, raw []byte) {
	w.Write(raw)
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		fmt.Fprintln(w)
	}
}

func init() {
	envelopeCmd.Flags().BoolVar(&envelopeRaw, "raw", false, "print the response body")
	rootCmd.AddCommand(envelopeCmd)
}
