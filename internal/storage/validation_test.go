package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/kasticket/kasticket/internal/model"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid string", input: "user-1", wantErr: false},
		{name: "empty string", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.input, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrEmptyString) {
				t.Errorf("error = %v, want ErrEmptyString", err)
			}
		})
	}
}

func TestValidateReceipt(t *testing.T) {
	valid := model.Receipt{
		ID:     "r1",
		UserID: "user-1",
		Status: model.ReceiptPending,
	}

	tests := []struct {
		mutate  func(*model.Receipt)
		name    string
		wantErr bool
	}{
		{name: "valid receipt", mutate: func(*model.Receipt) {}, wantErr: false},
		{name: "missing ID", mutate: func(r *model.Receipt) { r.ID = "" }, wantErr: true},
		{name: "missing user ID", mutate: func(r *model.Receipt) { r.UserID = "" }, wantErr: true},
		{name: "unknown status", mutate: func(r *model.Receipt) { r.Status = "archived" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt := valid
			tt.mutate(&receipt)
			err := validateReceipt(&receipt)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateReceipt() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := validateReceipt(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateReceipt(nil) = %v, want ErrNilParameter", err)
	}
}

func TestValidateTransactions(t *testing.T) {
	valid := model.Transaction{
		ID:       "t1",
		UserID:   "user-1",
		ItemName: "melk",
		Date:     time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		mutate  func(*model.Transaction)
		name    string
		wantErr bool
	}{
		{name: "valid transaction", mutate: func(*model.Transaction) {}, wantErr: false},
		{name: "missing ID", mutate: func(x *model.Transaction) { x.ID = "" }, wantErr: true},
		{name: "missing user ID", mutate: func(x *model.Transaction) { x.UserID = "" }, wantErr: true},
		{name: "missing item name", mutate: func(x *model.Transaction) { x.ItemName = "" }, wantErr: true},
		{name: "zero date", mutate: func(x *model.Transaction) { x.Date = time.Time{} }, wantErr: true},
		{name: "negative quantity", mutate: func(x *model.Transaction) { x.Quantity = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid
			tt.mutate(&txn)
			err := validateTransactions([]model.Transaction{txn})
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTransactions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := validateTransactions(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateTransactions(nil) = %v, want ErrNilParameter", err)
	}
	if err := validateTransactions([]model.Transaction{}); !errors.Is(err, ErrEmptySlice) {
		t.Errorf("validateTransactions(empty) = %v, want ErrEmptySlice", err)
	}
}

func TestValidateProfile(t *testing.T) {
	if err := validateProfile(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateProfile(nil) = %v, want ErrNilParameter", err)
	}
	if err := validateProfile(&model.EnrichedProfile{}); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("validateProfile(no user) = %v, want ErrInvalidProfile", err)
	}

	oversized := &model.EnrichedProfile{
		UserID:             "user-1",
		PromoInterestItems: make([]model.PromoInterestItem, 26),
	}
	if err := validateProfile(oversized); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("validateProfile(26 items) = %v, want ErrInvalidProfile", err)
	}

	full := &model.EnrichedProfile{
		UserID:             "user-1",
		PromoInterestItems: make([]model.PromoInterestItem, 25),
	}
	if err := validateProfile(full); err != nil {
		t.Errorf("validateProfile(25 items) = %v, want nil", err)
	}
}
