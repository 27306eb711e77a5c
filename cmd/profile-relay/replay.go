package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-profile-events/pkg/commands"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

type replayStats struct {
	Total    int
	Handled  int
	Rejected int
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Replay JSON-lines notifications ({\"method\":...,\"message\":...}) through the relay",
		Long: "Replay reads one notification per line from file, or stdin when file is omitted or \"-\".\n" +
			"message may be the raw JSON object or a JSON-encoded string.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			s, err := root.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := replay(ctx, in, s.module.Commands(), cmd.ErrOrStderr(), strict)
			fmt.Fprintf(cmd.OutOrStdout(), "replayed %d notifications: %d handled, %d rejected\n", stats.Total, stats.Handled, stats.Rejected)
			return err
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first notification that fails")
	return cmd
}

func replay(ctx context.Context, in io.Reader, reg *commands.Registry, errOut io.Writer, strict bool) (replayStats, error) {
	var stats replayStats
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stats.Total++
		msg, err := parseReplayLine(line)
		if err == nil {
			err = reg.HandleNotification.Execute(ctx, msg)
		}
		if err != nil {
			stats.Rejected++
			fmt.Fprintf(errOut, "line %d: %v\n", lineNo, err)
			if strict {
				return stats, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}
		stats.Handled++
	}
	return stats, scanner.Err()
}

func parseReplayLine(line string) (commands.HandleNotification, error) {
	if !gjson.Valid(line) {
		return commands.HandleNotification{}, fmt.Errorf("invalid JSON line")
	}
	result := gjson.GetMany(line, "method", "message")
	msg := commands.HandleNotification{Method: result[0].String()}
	switch result[1].Type {
	case gjson.String:
		msg.Message = result[1].String()
	case gjson.Null:
		msg.Message = "{}"
	default:
		msg.Message = result[1].Raw
	}
	return msg, nil
}
