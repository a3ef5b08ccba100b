package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/export"
	"github.com/sells-group/clinic-quiz/internal/model"
)

var inquiriesCmd = &cobra.Command{
	Use:   "inquiries",
	Short: "Inspect consultation inquiries",
	Long:  "Commands for listing and exporting inquiries from every configured storage tier.",
}

// -- inquiries list --

var inquiriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inquiries, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("read"); err != nil {
			return err
		}
		env, err := initEnv(ctx, cfg, "read")
		if err != nil {
			return err
		}
		defer env.Close()

		views, err := env.Lister.List(ctx)
		if err != nil {
			return eris.Wrap(err, "inquiries list")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(views) > limit {
			views = views[:limit]
		}

		if len(views) == 0 {
			fmt.Fprintln(os.Stderr, "No inquiries found.")
			return nil
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}

		formatInquiriesList(cmd.OutOrStdout(), views)
		return nil
	},
}

// -- inquiries export --

var inquiriesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export inquiries to an .xlsx workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("read"); err != nil {
			return err
		}
		env, err := initEnv(ctx, cfg, "read")
		if err != nil {
			return err
		}
		defer env.Close()

		views, err := env.Lister.List(ctx)
		if err != nil {
			return eris.Wrap(err, "inquiries export")
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = export.FileName(time.Now())
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		if err := export.WriteXLSX(f, views, env.Catalog); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "close %s", out)
		}

		zap.L().Info("inquiries exported", zap.String("path", out), zap.Int("count", len(views)))
		return nil
	},
}

func formatInquiriesList(out io.Writer, views []model.SubmissionView) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RECEIVED\tNAME\tCLINIC\tPHONE\tEMAIL\tSOLUTION\tSOURCE\tANSWERS")
	_, _ = fmt.Fprintln(w, "--------\t----\t------\t-----\t-----\t--------\t------\t-------")

	for _, v := range views {
		answers := fmt.Sprintf("%d", len(v.Answers))
		if v.Answers == nil {
			answers = "raw"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			export.FormatTimestamp(v.Timestamp),
			v.Name,
			v.ClinicName,
			v.Phone,
			v.Email,
			v.RecommendedSolution,
			v.Source,
			answers,
		)
	}
	_ = w.Flush()
}

func init() {
	inquiriesListCmd.Flags().Int("limit", 0, "max inquiries to show (0 = all)")
	inquiriesListCmd.Flags().Bool("json", false, "print as JSON")
	inquiriesExportCmd.Flags().String("out", "", "output path (default 치과마케팅문의_<date>.xlsx)")

	inquiriesCmd.AddCommand(inquiriesListCmd)
	inquiriesCmd.AddCommand(inquiriesExportCmd)
	rootCmd.AddCommand(inquiriesCmd)
}
