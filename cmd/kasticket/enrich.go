package main

import (
	"fmt"

	"github.com/kasticket/kasticket/internal/cli"
	"github.com/kasticket/kasticket/internal/profile"
	"github.com/spf13/cobra"
)

func enrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Rebuild the enriched shopping profile",
		Long: `Recompute the enriched shopping profile from the last 90 days of
purchase lines and store it, replacing the previous profile.

Imports and deletions already trigger this automatically; the command exists
for manual rebuilds, and unlike the automatic trigger it reports failures.`,
		RunE: runEnrich,
	}

	return cmd
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rebuilder := profile.NewRebuilder(store)
	prof, err := rebuilder.RebuildProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Profile rebuilt for %s: %d receipts analyzed, %d interest items (%s → %s)",
		userID,
		prof.ReceiptsAnalyzed,
		len(prof.PromoInterestItems),
		prof.DataPeriodStart.Format("2006-01-02"),
		prof.DataPeriodEnd.Format("2006-01-02"),
	)))

	return nil
}
