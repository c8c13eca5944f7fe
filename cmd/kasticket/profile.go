package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kasticket/kasticket/internal/cli"
	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/model"
	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the stored enriched profile",
		RunE:  runProfileShow,
	}

	return cmd
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
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

	prof, err := store.GetEnrichedProfile(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("No profile stored for %s, run 'kasticket enrich' first", userID)))
		return nil
	}
	if err != nil {
		return err
	}

	printProfile(prof)
	return nil
}

func printProfile(prof *model.EnrichedProfile) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Enriched profile for %s", prof.UserID)))
	fmt.Printf("  Period: %s → %s (%d receipts analyzed)\n",
		prof.DataPeriodStart.Format("2006-01-02"),
		prof.DataPeriodEnd.Format("2006-01-02"),
		prof.ReceiptsAnalyzed)

	if habits := prof.ShoppingHabits; habits != nil {
		fmt.Printf("  Total spend: €%.2f | avg receipt €%.2f | %.1f trips/week\n",
			habits.TotalSpend, habits.AvgReceiptTotal, habits.ShoppingFrequencyPerWeek)
		if habits.AvgHealthScore != nil {
			fmt.Printf("  Avg health score: %.1f/5 | premium brand ratio %.0f%%\n",
				*habits.AvgHealthScore, habits.PremiumBrandRatio*100)
		}

		if len(habits.PreferredStores) > 0 {
			fmt.Println()
			fmt.Println(cli.HeaderStyle.Render(cli.CartIcon + " Preferred stores"))
			for _, store := range habits.PreferredStores {
				fmt.Printf("  %-24s €%8.2f  %5.1f%%  %d visits\n",
					store.Name, store.Spend, store.Pct, store.Visits)
			}
		}
		if len(habits.CategoryBreakdown) > 0 {
			fmt.Println()
			fmt.Println(cli.HeaderStyle.Render(cli.ChartIcon + " Category breakdown"))
			for _, cat := range habits.CategoryBreakdown {
				health := "-"
				if cat.AvgHealth != nil {
					health = fmt.Sprintf("%.1f", *cat.AvgHealth)
				}
				fmt.Printf("  %-24s €%8.2f  %5.1f%%  %3d items  health %s\n",
					cat.Category, cat.Spend, cat.Pct, cat.ItemCount, health)
			}
		}
	}

	if len(prof.PromoInterestItems) > 0 {
		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("Promo interest items (%d)", len(prof.PromoInterestItems))))
		for _, item := range prof.PromoInterestItems {
			tags := ""
			if len(item.Tags) > 0 {
				tags = " [" + strings.Join(item.Tags, ", ") + "]"
			}
			fmt.Printf("  %-16s %-24s%s\n", item.InterestCategory, item.NormalizedName, tags)
			fmt.Printf("    %s\n", cli.FormatSubtle(item.Context))
		}
	}
}
