package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/cards"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Review stored sessions and their slide/transcript cards",
	}

	cardsCmd.AddCommand(newCardsSessionsCommand(ctx))
	cardsCmd.AddCommand(newCardsListCommand(ctx))
	cardsCmd.AddCommand(newCardsEditCommand(ctx))
	cardsCmd.AddCommand(newCardsIncludeCommand(ctx, true))
	cardsCmd.AddCommand(newCardsIncludeCommand(ctx, false))
	cardsCmd.AddCommand(newCardsDeleteCommand(ctx))

	return cardsCmd
}

func withStore(ctx *commandContext, fn func(cmd *cobra.Command, store *cards.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := ctx.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(cmd, store, args)
	}
}

func newCardsSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List processed sessions",
		Args:  cobra.NoArgs,
		RunE: withStore(ctx, func(cmd *cobra.Command, store *cards.Store, _ []string) error {
			sessions, err := store.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions stored yet. Run `lectern process` first.")
				return nil
			}
			rows := make([][]string, 0, len(sessions))
			for _, session := range sessions {
				rows = append(rows, []string{
					session.ID,
					session.Title,
					strconv.Itoa(session.CardCount),
					session.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Session", "Title", "Cards", "Created"},
				rows,
			))
			return nil
		}),
	}
}

func newCardsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <session-id>",
		Short: "List a session's cards",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(ctx, func(cmd *cobra.Command, store *cards.Store, args []string) error {
			session, err := store.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			list, err := store.ListCards(cmd.Context(), session.ID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, card := range list {
				rows = append(rows, []string{
					strconv.FormatInt(card.ID, 10),
					fmt.Sprintf("%.1fs", card.SlideTimestamp),
					yesNo(card.Included),
					truncate(card.TranscriptText, 70),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Card", "Slide", "Included", "Transcript"},
				rows,
			))
			return nil
		}),
	}
}

func newCardsEditCommand(ctx *commandContext) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "edit <card-id>",
		Short: "Replace a card's transcript text",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(ctx, func(cmd *cobra.Command, store *cards.Store, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			if err := store.UpdateText(cmd.Context(), id, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated card %d\n", id)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Replacement transcript text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newCardsIncludeCommand(ctx *commandContext, include bool) *cobra.Command {
	use, short := "include <card-id>", "Mark a card as part of the exported set"
	if !include {
		use, short = "exclude <card-id>", "Drop a card from the exported set without deleting it"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withStore(ctx, func(cmd *cobra.Command, store *cards.Store, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			if err := store.SetIncluded(cmd.Context(), id, include); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Card %d included: %s\n", id, yesNo(include))
			return nil
		}),
	}
}

func newCardsDeleteCommand(ctx *commandContext) *cobra.Command {
	var session bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card, or a whole session with --session",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(ctx, func(cmd *cobra.Command, store *cards.Store, args []string) error {
			if session {
				if err := store.DeleteSession(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			}
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteCard(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %d\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&session, "session", false, "Treat the argument as a session id and delete its cards too")
	return cmd
}

func parseCardID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid card id %q", value)
	}
	return id, nil
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
