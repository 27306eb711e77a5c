package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/goliatone/go-profile-events/pkg/domain"
	"github.com/goliatone/go-profile-events/pkg/interfaces/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type journalRow struct {
	ID        string    `json:"id" yaml:"id"`
	Method    string    `json:"method" yaml:"method"`
	Event     string    `json:"event,omitempty" yaml:"event,omitempty"`
	Provider  string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Status    string    `json:"status" yaml:"status"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func newJournalCmd(root *rootOptions) *cobra.Command {
	var (
		status string
		limit  int
		offset int
		output string
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List journaled notifications (requires --db)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := root.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.module.Storage().Journal.ListByStatus(ctx, status, store.ListOptions{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			return writeJournal(cmd.OutOrStdout(), output, result)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: dispatched|rejected")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text|json|yaml")
	return cmd
}

func writeJournal(w io.Writer, format string, result store.ListResult[domain.JournalEntry]) error {
	rows := make([]journalRow, 0, len(result.Items))
	for _, entry := range result.Items {
		rows = append(rows, journalRow{
			ID:        entry.ID.String(),
			Method:    entry.Method,
			Event:     entry.EventName,
			Provider:  entry.Provider,
			Status:    entry.Status,
			Error:     entry.Error,
			Message:   entry.Message,
			CreatedAt: entry.CreatedAt,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CREATED\tMETHOD\tEVENT\tPROVIDER\tSTATUS\tERROR")
		for _, row := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				row.CreatedAt.Format(time.RFC3339), row.Method, row.Event, row.Provider, row.Status, row.Error)
		}
		fmt.Fprintf(tw, "\n%d of %d entries\n", len(rows), result.Total)
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
