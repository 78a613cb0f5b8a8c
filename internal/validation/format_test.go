package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGroupIndian(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"7":          "7",
		"999":        "999",
		"1000":       "1,000",
		"12345":      "12,345",
		"123456":     "1,23,456",
		"1234567":    "12,34,567",
		"1234567890": "1,23,45,67,890",
	}
	for in, want := range cases {
		if got := GroupIndian(in); got != want {
			t.Errorf("GroupIndian(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAmountDisplayAndSubmission(t *testing.T) {
	display := FormatAmountInput("1234567")
	if display != "12,34,567" {
		t.Fatalf("expected 12,34,567, got %q", display)
	}

	amount, err := CleanAmount(display)
	if err != nil {
		t.Fatalf("clean amount: %v", err)
	}
	if !amount.Equal(decimal.NewFromInt(1234567)) {
		t.Fatalf("expected 1234567, got %s", amount)
	}
}

func TestFormatAmountInput_EdgeCases(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"abc":          "",
		"0":            "0",
		"000125":       "125",
		"₹ 5,000":      "5,000",
		"123456789012": "1,23,45,67,890", // capped at 10 digits
	}
	for in, want := range cases {
		if got := FormatAmountInput(in); got != want {
			t.Errorf("FormatAmountInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanAmount_Rejects(t *testing.T) {
	if _, err := CleanAmount(""); !errors.Is(err, ErrEmptyAmount) {
		t.Fatalf("expected ErrEmptyAmount, got %v", err)
	}
	if _, err := CleanAmount("rupees"); !errors.Is(err, ErrEmptyAmount) {
		t.Fatalf("expected ErrEmptyAmount for non-numeric, got %v", err)
	}
	if _, err := CleanAmount("0,000"); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
}

func TestFormatRupees(t *testing.T) {
	if got := FormatRupees(decimal.RequireFromString("1234567.5")); got != "12,34,567.5" {
		t.Fatalf("got %q", got)
	}
	if got := FormatRupees(decimal.NewFromInt(500)); got != "500" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizers(t *testing.T) {
	if got := NormalizePAN("aaapa1234a"); got != "AAAPA1234A" {
		t.Fatalf("NormalizePAN: %q", got)
	}
	if got := NormalizePAN("abcde12345xyz"); got != "ABCDE12345" {
		t.Fatalf("NormalizePAN truncation: %q", got)
	}
	if got := NormalizePhone("+91 98765-43210"); got != "9198765432" {
		t.Fatalf("NormalizePhone: %q", got)
	}
}
