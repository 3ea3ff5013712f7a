package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/format"
	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	var environment string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List persisted count sessions",
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

			out := cmd.OutOrStdout()
			filtered := make([]count.CountSession, 0, len(sessions))
			for _, sess := range sessions {
				if environment == "" || sess.Environment == environment {
					filtered = append(filtered, sess)
				}
			}
			if len(filtered) == 0 {
				fmt.Fprintln(out, "no sessions")
				return nil
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "DATE", "ENVIRONMENT", "COUNTER", "EVENTS", "TOTAL", "DURATION")
			for _, sess := range filtered {
				minutes := format.DurationMinutes(sess.StartTime, sess.EndTime)
				t.Row(sess.ID, sess.Date, sess.Environment, sess.Counter,
					strconv.Itoa(len(sess.Events)), strconv.Itoa(sess.Total()), format.FormatDuration(minutes))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&environment, "environment", "", "Only sessions with exactly this environment")
	return cmd
}
