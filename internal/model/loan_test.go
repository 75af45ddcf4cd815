package model

import (
	"testing"
	"time"
)

func TestLoanStates(t *testing.T) {
	now := time.Now()

	active := Loan{}
	if !active.Active() || active.Returned() {
		t.Error("expected fresh loan to be active and unreturned")
	}

	returned := Loan{ReturnedAt: &now}
	if returned.Active() || !returned.Returned() {
		t.Error("expected returned loan to be terminal")
	}

	canceled := Loan{IsCanceled: true}
	if canceled.Active() || canceled.Returned() {
		t.Error("expected canceled loan to be neither active nor returned")
	}
}

func TestLoanOverdueAt(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	earlierToday := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		loan    Loan
		overdue bool
	}{
		{"due yesterday", Loan{DueDate: yesterday}, true},
		// Day granularity: due earlier today is not yet overdue.
		{"due earlier today", Loan{DueDate: earlierToday}, false},
		{"due tomorrow", Loan{DueDate: tomorrow}, false},
		{"returned past due", Loan{DueDate: yesterday, ReturnedAt: &asOf}, false},
		{"canceled past due", Loan{DueDate: yesterday, IsCanceled: true}, false},
	}

	for _, tt := range tests {
		if got := tt.loan.OverdueAt(asOf); got != tt.overdue {
			t.Errorf("%s: OverdueAt = %v, want %v", tt.name, got, tt.overdue)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 3, 15, 23, 59, 59, 123, time.UTC)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(in); !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}
