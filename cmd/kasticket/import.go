package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kasticket/kasticket/internal/cli"
	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/model"
	"github.com/kasticket/kasticket/internal/profile"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import parsed receipt files",
		Long: `Import one or more parsed receipt JSON files into the local database.

Each file holds the output of the OCR pipeline for a single receipt: store,
date, total, and the normalized purchase lines. Imported receipts are stored
as completed and immediately trigger an enriched-profile rebuild for the user.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and report without saving")

	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}
	dryRun := viper.GetBool("import.dry_run")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rebuilder := profile.NewRebuilder(store)

	fmt.Println(cli.FormatTitle("Importing receipts"))

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	imported := 0
	lines := 0
	for _, path := range args {
		receipt, txns, parseErr := loadReceiptFile(path, userID)
		if parseErr != nil {
			_ = bar.Close()
			return fmt.Errorf("failed to parse %s: %w", path, parseErr)
		}

		if !dryRun {
			if saveErr := store.SaveReceipt(ctx, receipt); saveErr != nil {
				_ = bar.Close()
				return fmt.Errorf("failed to save receipt from %s: %w", path, saveErr)
			}
			if len(txns) > 0 {
				if saveErr := store.SaveTransactions(ctx, txns); saveErr != nil {
					_ = bar.Close()
					return fmt.Errorf("failed to save purchase lines from %s: %w", path, saveErr)
				}
			}
		}

		imported++
		lines += len(txns)
		_ = bar.Add(1)
	}
	_ = bar.Close()

	if dryRun {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Dry run: %d receipts (%d lines) parsed, nothing saved", imported, lines)))
		return nil
	}

	// Best-effort: the import has already succeeded, a rebuild failure only
	// leaves the previous profile in place.
	rebuilder.Rebuild(ctx, userID)

	slog.Info("Import complete", "receipts", imported, "lines", lines, "user", userID)
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d receipts (%d purchase lines)", imported, lines)))

	return nil
}

// receiptFile is the JSON shape produced by the OCR pipeline for one receipt.
type receiptFile struct {
	StoreName   string            `json:"store_name"`
	ReceiptDate string            `json:"receipt_date"`
	TotalAmount float64           `json:"total_amount"`
	Items       []receiptFileItem `json:"items"`
}

type receiptFileItem struct {
	HealthScore      *int    `json:"health_score"`
	ItemName         string  `json:"item_name"`
	NormalizedName   string  `json:"normalized_name"`
	NormalizedBrand  string  `json:"normalized_brand"`
	Category         string  `json:"category"`
	GranularCategory string  `json:"granular_category"`
	ItemPrice        float64 `json:"item_price"`
	Quantity         int     `json:"quantity"`
	IsPremium        bool    `json:"is_premium"`
	IsDeposit        bool    `json:"is_deposit"`
}

func loadReceiptFile(path, userID string) (*model.Receipt, []model.Transaction, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied import path
	if err != nil {
		return nil, nil, err
	}
	var rf receiptFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrInvalidReceipt, err)
	}
	return rf.toModels(userID, path, time.Now().UTC())
}

func (rf *receiptFile) toModels(userID, sourceFile string, now time.Time) (*model.Receipt, []model.Transaction, error) {
	if len(rf.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: no items", common.ErrInvalidReceipt)
	}
	date, err := time.Parse("2006-01-02", rf.ReceiptDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad receipt_date %q: %w", common.ErrInvalidReceipt, rf.ReceiptDate, err)
	}

	receipt := &model.Receipt{
		ID:          uuid.NewString(),
		UserID:      userID,
		StoreName:   rf.StoreName,
		Date:        date,
		TotalAmount: rf.TotalAmount,
		Status:      model.ReceiptCompleted,
		SourceFile:  sourceFile,
		ProcessedAt: &now,
	}

	txns := make([]model.Transaction, 0, len(rf.Items))
	for _, item := range rf.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		txns = append(txns, model.Transaction{
			ID:               uuid.NewString(),
			UserID:           userID,
			ReceiptID:        receipt.ID,
			StoreName:        rf.StoreName,
			ItemName:         item.ItemName,
			NormalizedName:   item.NormalizedName,
			NormalizedBrand:  item.NormalizedBrand,
			Category:         model.ParseCategory(item.Category),
			GranularCategory: item.GranularCategory,
			ItemPrice:        item.ItemPrice,
			Quantity:         quantity,
			HealthScore:      item.HealthScore,
			IsPremium:        item.IsPremium,
			IsDeposit:        item.IsDeposit,
			Date:             date,
		})
	}

	return receipt, txns, nil
}
