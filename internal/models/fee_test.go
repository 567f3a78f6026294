package models

import (
	"testing"
	"time"
)

func TestFeeRecalculate(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		paid       float64
		dueDate    time.Time
		wantStatus PaymentStatus
		wantPending float64
	}{
		{"unpaid before due", 0, due, PaymentPending, 15000},
		{"unpaid past due", 0, now.AddDate(0, -1, 0), PaymentOverdue, 15000},
		{"partially paid", 5000, due, PaymentPartial, 10000},
		{"partially paid past due", 5000, now.AddDate(0, -1, 0), PaymentPartial, 10000},
		{"fully paid", 15000, due, PaymentPaid, 0},
		{"overpaid", 16000, due, PaymentPaid, -1000},
	}
	for _, tc := range cases {
		fee := Fee{Amount: 15000, PaidAmount: tc.paid, DueDate: tc.dueDate}
		fee.Recalculate(now)
		if fee.PaymentStatus != tc.wantStatus {
			t.Errorf("%s: status = %s, want %s", tc.name, fee.PaymentStatus, tc.wantStatus)
		}
		if fee.PendingAmount != tc.wantPending {
			t.Errorf("%s: pending = %v, want %v", tc.name, fee.PendingAmount, tc.wantPending)
		}
	}
}

func TestUserFullName(t *testing.T) {
	u := User{Username: "asha01", FirstName: "Asha", LastName: "K"}
	if got := u.FullName(); got != "Asha K" {
		t.Fatalf("expected Asha K, got %s", got)
	}
	u = User{Username: "asha01"}
	if got := u.FullName(); got != "asha01" {
		t.Fatalf("expected username fallback, got %s", got)
	}
}

func TestBusRoute(t *testing.T) {
	b := Bus{Source: "Erode", Destination: "Campus"}
	if got := b.Route(); got != "Erode → Campus" {
		t.Fatalf("unexpected route label: %s", got)
	}
}
