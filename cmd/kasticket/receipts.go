package main

import (
	"fmt"

	"github.com/kasticket/kasticket/internal/cli"
	"github.com/kasticket/kasticket/internal/profile"
	"github.com/spf13/cobra"
)

func receiptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Manage imported receipts",
	}

	cmd.AddCommand(receiptsListCmd())
	cmd.AddCommand(receiptsDeleteCmd())

	return cmd
}

func receiptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported receipts",
		RunE:  runReceiptsList,
	}
}

func runReceiptsList(cmd *cobra.Command, _ []string) error {
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

	receipts, err := store.ListReceipts(ctx, userID)
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		fmt.Println(cli.FormatWarning("No receipts imported yet"))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Receipts for %s", userID)))
	for _, receipt := range receipts {
		fmt.Printf("  %s  %s  %-20s €%8.2f  %s\n",
			receipt.ID,
			receipt.Date.Format("2006-01-02"),
			receipt.StoreName,
			receipt.TotalAmount,
			receipt.Status)
	}

	return nil
}

func receiptsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <receipt-id>",
		Short: "Delete a receipt and its purchase lines",
		Long: `Delete a receipt and every purchase line extracted from it, then
rebuild the enriched profile from the remaining history.`,
		Args: cobra.ExactArgs(1),
		RunE: runReceiptsDelete,
	}
}

func runReceiptsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	receiptID := args[0]

	userID, err := requireUser()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteReceipt(ctx, receiptID); err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}

	// Best-effort, same contract as the import trigger.
	profile.NewRebuilder(store).Rebuild(ctx, userID)

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted receipt %s", receiptID)))
	return nil
}
