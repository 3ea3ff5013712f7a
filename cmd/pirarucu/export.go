package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/rpggio/pirarucu/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var formatName, outPath, delimiter string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the counts workbook or delimited text",
		Long:  `Writes every persisted session as an xlsx workbook (COUNTS and SUMMARY sheets) or as csv/tsv text. Use --out - to write to stdout.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			a, cfg, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := a.Export
			if delimiter != "" {
				if opts.Delimiter, err = export.ParseDelimiter(delimiter); err != nil {
					return err
				}
			}

			sessions, err := a.Counts.List(cmd.Context())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			err = export.Write(&buf, f, sessions, opts)
			if errors.Is(err, report.ErrEmptyDataset) {
				fmt.Fprintln(cmd.ErrOrStderr(), "no sessions to export")
				return nil
			}
			if err != nil {
				return err
			}

			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if outPath == "" {
				outPath = filepath.Join(cfg.Export.Dir, export.FileName(time.Now(), f))
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatName, "format", string(export.FormatXLSX), "Output format (xlsx/csv/tsv)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default: a timestamped file in the export dir)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "Delimiter for csv (semicolon/tab/comma)")
	return cmd
}
