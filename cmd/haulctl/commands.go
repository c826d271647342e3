package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHealCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "heal",
		Short: "Load both documents, healing and persisting them if needed",
		Long: `Heal loads the wishlist and users documents through the normal load path.
Any missing share tokens, purchase defaults, owner backfill or legacy password
fields are filled in and written back, exactly as the server would on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := a.wishlist.Stats(cmd.Context())
			if a.json {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "healed: %d users, %d kids, %d items\n", stats.Users, stats.Kids, stats.Items)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count users, kids, items and purchased items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := a.wishlist.Stats(cmd.Context())
			if a.json {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "users\t%d\n", stats.Users)
			fmt.Fprintf(w, "kids\t%d\n", stats.Kids)
			fmt.Fprintf(w, "items\t%d\n", stats.Items)
			fmt.Fprintf(w, "purchased\t%d\n", stats.PurchasedItems)
			return w.Flush()
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := a.users.Load(cmd.Context()).Users
			if a.json {
				out := make([]any, 0, len(users))
				for i := range users {
					out = append(out, users[i].Public())
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func newRotateTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-token <kidId>",
		Short: "Replace a kid's share token, invalidating existing links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.wishlist.RotateShareToken(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("rotate token: %w", err)
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"kidId": args[0], "shareToken": token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
