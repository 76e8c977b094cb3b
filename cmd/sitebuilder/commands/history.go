package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/history"
	"git.home.luguber.info/inful/sitebuilder/internal/prebuild"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	store, err := history.OpenProject(root.Project)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	records, err := store.RecentRuns(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, r := range records {
		commit := r.Commit
		if commit == "" {
			commit = "-"
		} else if len(commit) > 8 {
			commit = commit[:8]
		}
		fmt.Printf("%s  %-6s  %-8s  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), string(r.Outcome), commit, r.ID)
		if r.Outcome == prebuild.OutcomeFailed {
			if r.FatalReason != "" {
				fmt.Printf("    %s\n", r.FatalReason)
			}
			for _, issue := range r.Issues {
				fmt.Printf("    %s\n", issue)
			}
		}
	}
	return nil
}
