package main

import (
	"context"
	"fmt"

	"github.com/goliatone/go-profile-events/pkg/commands"
	"github.com/spf13/cobra"
)

func newRewardsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Manage reward definitions referenced by notification payloads",
	}
	cmd.AddCommand(newRewardsRegisterCmd(root))
	cmd.AddCommand(newRewardsGrantsCmd(root))
	return cmd
}

func newRewardsRegisterCmd(root *rootOptions) *cobra.Command {
	var msg commands.RegisterReward
	cmd := &cobra.Command{
		Use:   "register <code>",
		Short: "Create or update a reward definition",
		Args:  cobra.ExactArgs(1),
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

			msg.Code = args[0]
			if err := s.module.Commands().RegisterReward.Execute(ctx, msg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reward %s registered\n", msg.Code)
			return nil
		},
	}
	cmd.Flags().StringVar(&msg.Name, "name", "", "display name (defaults to the code)")
	cmd.Flags().StringVar(&msg.Description, "description", "", "reward description")
	cmd.Flags().BoolVar(&msg.Repeatable, "repeatable", false, "allow the reward to be granted more than once")
	return cmd
}

func newRewardsGrantsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grants <code>",
		Short: "List grants recorded for a reward",
		Args:  cobra.ExactArgs(1),
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

			grants, err := s.module.Rewards().Grants(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, g := range grants {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", g.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), g.EventName, g.Provider, g.Payload)
			}
			fmt.Fprintf(out, "%d grants\n", len(grants))
			return nil
		},
	}
}

func newMethodsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the native method names the relay accepts",
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

			for _, method := range s.module.Relay().Methods() {
				fmt.Fprintln(cmd.OutOrStdout(), method)
			}
			return nil
		},
	}
}
