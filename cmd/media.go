package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"catalogadmin/storage"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	mediaPrefix    string
	mediaRecursive bool
	mediaYes       bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <kind> <file>",
	Short: "Upload an image and print its public URL",
	Long: `Upload an image to the bucket and folder of its kind and print the public URL.
Kinds: ` + kindList() + `.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := app.uploader()
		if err != nil {
			return err
		}
		kind := storage.Kind(args[0])
		target, ok := u.Target(kind)
		if !ok {
			return fmt.Errorf("unknown upload kind %q, want one of: %s", args[0], kindList())
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := u.Upload(cmd.Context(), kind, filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.URL)
		dims := ""
		if res.Width > 0 {
			dims = fmt.Sprintf(", %dx%d", res.Width, res.Height)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s in %s, %s%s\n", res.ContentType, target, humanize.IBytes(uint64(res.Size)), dims)
		return nil
	},
}

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Browse and prune the media buckets",
	Example: `  # 列出专辑桶下的封面
  catalogadmin media ls album -p cover-art/

  # 所有媒体桶的统计信息
  catalogadmin media stats

  # 删除目录及其下的所有文件
  catalogadmin media rm album plaques/old/`,
}

var mediaLsCmd = &cobra.Command{
	Use:   "ls [bucket]",
	Short: "List objects, or the configured buckets when none is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tTARGET")
			targets := storage.Targets(app.cfg)
			for _, k := range storage.Kinds {
				fmt.Fprintf(tw, "%s\t%s\n", k, targets[k])
			}
			return tw.Flush()
		}

		b, err := browser()
		if err != nil {
			return err
		}
		objects, stats, err := b.List(cmd.Context(), args[0], mediaPrefix, mediaRecursive)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SIZE\tMODIFIED\tKEY")
		for _, o := range objects {
			modified := ""
			if !o.LastModified.IsZero() {
				modified = humanize.Time(o.LastModified)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", humanize.IBytes(uint64(o.Size)), modified, o.Key)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s objects, %s\n", humanize.Comma(stats.TotalObjects), humanize.IBytes(uint64(stats.TotalSize)))
		return nil
	},
}

var mediaStatsCmd = &cobra.Command{
	Use:   "stats [bucket...]",
	Short: "Show object counts and sizes per bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := browser()
		if err != nil {
			return err
		}
		buckets := args
		if len(buckets) == 0 {
			buckets = storage.Buckets(storage.Targets(app.cfg))
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BUCKET\tOBJECTS\tSIZE\tLAST UPLOAD\tBY CLASS")
		for _, bucket := range buckets {
			stats, err := b.Stats(cmd.Context(), bucket, mediaPrefix)
			if err != nil {
				fmt.Fprintf(tw, "%s\t-\t-\t-\t%v\n", bucket, err)
				continue
			}
			last := "-"
			if !stats.LastModified.IsZero() {
				last = humanize.Time(stats.LastModified)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", bucket,
				humanize.Comma(stats.TotalObjects), humanize.IBytes(uint64(stats.TotalSize)), last, classSummary(stats.ByClass))
		}
		return tw.Flush()
	},
}

var mediaRmCmd = &cobra.Command{
	Use:   "rm <bucket> <prefix>",
	Short: "Delete every object under a prefix",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := browser()
		if err != nil {
			return err
		}
		stats, err := b.Stats(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		question := fmt.Sprintf("Delete %s objects (%s) under %s/%s?",
			humanize.Comma(stats.TotalObjects), humanize.IBytes(uint64(stats.TotalSize)), args[0], args[1])
		if !mediaYes && !confirm(cmd, question) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		n, err := b.RemovePrefix(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d objects\n", n)
		return nil
	},
}

var mediaInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configured media buckets that do not exist yet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := app.objectStore()
		if err != nil {
			return err
		}
		buckets := storage.Buckets(storage.Targets(app.cfg))
		if err := storage.EnsureBuckets(cmd.Context(), client, app.cfg.MinioRegion, buckets...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Buckets ready: %s\n", strings.Join(buckets, ", "))
		return nil
	},
}

func browser() (*storage.Browser, error) {
	client, err := app.objectStore()
	if err != nil {
		return nil, err
	}
	return storage.NewBrowser(client), nil
}

func classSummary(byClass map[string]int64) string {
	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = c + " " + humanize.IBytes(uint64(byClass[c]))
	}
	return strings.Join(parts, ", ")
}

func kindList() string {
	names := make([]string, len(storage.Kinds))
	for i, k := range storage.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func init() {
	mediaLsCmd.Flags().StringVarP(&mediaPrefix, "prefix", "p", "", "按前缀过滤文件")
	mediaLsCmd.Flags().BoolVarP(&mediaRecursive, "recursive", "r", false, "递归列出子目录")
	mediaStatsCmd.Flags().StringVarP(&mediaPrefix, "prefix", "p", "", "只统计该前缀下的文件")
	mediaRmCmd.Flags().BoolVarP(&mediaYes, "yes", "y", false, "skip the confirmation prompt")

	mediaCmd.AddCommand(mediaLsCmd, mediaStatsCmd, mediaRmCmd, mediaInitCmd)
	rootCmd.AddCommand(uploadCmd, mediaCmd)
}
