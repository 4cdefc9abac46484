package cli

import (
	"context"
	"fmt"
	"strconv"
)

const defaultHistoryListLimit = 10

// History lists, shows or purges recorded drafts.
//
//	history [n]        — list the n most recent drafts (default 10)
//	history show <id>  — print one draft in full
//	history purge      — remove all drafts
func (a *App) History(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listHistory(ctx, defaultHistoryListLimit)
	}

	switch args[0] {
	case "show":
		if len(args) < 2 {
			printlnFn("Usage: history show <id>")
			return nil
		}
		draft, err := a.repo.Get(ctx, args[1])
		if err != nil {
			printlnFn("Draft not found:", args[1])
			return err
		}
		printlnFn(fmt.Sprintf("%s  %s  %s/%s  %s", draft.ID,
			draft.CreatedAt.Local().Format("2006-01-02 15:04"),
			draft.Provider, draft.Model, draft.Situation))
		printlnFn("")
		printlnFn(draft.Content)
		return nil

	case "purge":
		if err := a.repo.Purge(ctx); err != nil {
			printlnFn("Failed to purge history:", err.Error())
			return err
		}
		printlnFn("History purged")
		return nil

	default:
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			printlnFn("Usage: history [n] | history show <id> | history purge")
			return nil
		}
		return a.listHistory(ctx, n)
	}
}

func (a *App) listHistory(ctx context.Context, limit int) error {
	drafts, err := a.repo.List(ctx, limit)
	if err != nil {
		printlnFn("Failed to list history:", err.Error())
		return err
	}
	if len(drafts) == 0 {
		printlnFn("No drafts recorded yet")
		return nil
	}
	for _, d := range drafts {
		preview := d.Content
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		printlnFn(fmt.Sprintf("%s  %s  %-15s  %s", d.ID,
			d.CreatedAt.Local().Format("2006-01-02 15:04"), d.Situation, preview))
	}
	return nil
}
