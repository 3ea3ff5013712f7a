package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals per environment and for the whole dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sessions, err := a.Counts.List(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := report.Build(sessions, a.Export.Report)
			if errors.Is(err, report.ErrEmptyDataset) {
				fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(rep))
			return nil
		},
	}
}

func renderSummary(rep *report.Report) string {
	var b strings.Builder
	for _, group := range rep.Groups {
		lines := []string{
			styleTitle.Render(group.Group.Environment),
			summaryLine("Sessions", group.Totals.Sessions),
			summaryLine("Counters", group.Totals.Counters),
			summaryLine("Rows", group.Totals.Rows),
			summaryLine("Minor", group.Totals.TotalMinor),
			summaryLine("Major", group.Totals.TotalMajor),
			summaryLine("Total", group.Totals.TotalGeral),
		}
		b.WriteString(styleBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		b.WriteString("\n")
	}

	s := rep.Summary()
	grand := []string{
		styleTotal.Render("GRAND TOTAL"),
		summaryLine("Environments", s.EnvironmentCount),
		summaryLine("Sessions", s.SessionCount),
		summaryLine("Counters", s.CounterCount),
		summaryLine("Rows", s.RowCount),
		summaryLine("Minor", s.TotalMinor),
		summaryLine("Major", s.TotalMajor),
		summaryLine("Total", s.TotalGeral),
	}
	b.WriteString(styleBox.Render(lipgloss.JoinVertical(lipgloss.Left, grand...)))
	return b.String()
}

func summaryLine(label string, value int) string {
	return styleLabel.Render(label) + strconv.Itoa(value)
}
