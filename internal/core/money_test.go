package core

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{"0.999", 100, true},
		{" 2.50 ", 250, true},
		{"+3", 300, true},
		{"-1", -100, true},
		{"-0,5", -50, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
		// non-ASCII digits: arabic-indic and fullwidth
		{"1.٣", 0, false},
		{"١", 0, false},
		{"1.３", 0, false},
		{"１２", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.cents {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.cents, got.Cents, err)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{50, 5000},
		{12.346, 1235},
		{0.1 + 0.2, 30},
		{-1.5, -150},
		{0.004, 0},
		{1e15, MaxCents},
		{-1e15, -MaxCents},
		{1e15 + 1, 0},
		{9.223372036854776e16, 0},
		{math.MaxInt64 / 100, 0},
	}
	for _, tc := range cases {
		if got := FromFloat(tc.in).Cents; got != tc.out {
			t.Fatalf("FromFloat(%v) = %d, want %d", tc.in, got, tc.out)
		}
	}
	if got := (Money{Cents: 1250}).String(); got != "12.50" {
		t.Fatalf("String() = %q", got)
	}
	if err := (Money{Cents: MaxCents + 1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Validate above MaxCents = %v", err)
	}
}

func TestMoneyAddChecked(t *testing.T) {
	cases := []struct {
		a, b int64
		want int64
		ok   bool
	}{
		{100, 250, 350, true},
		{MaxCents - 1, 1, MaxCents, true},
		{MaxCents, 1, 0, false},
		{-MaxCents, -1, 0, false},
		{6e16, 6e16, 0, false},
		{math.MaxInt64, 1, 0, false},
	}
	for _, tc := range cases {
		got, err := Money{Cents: tc.a}.AddChecked(Money{Cents: tc.b})
		if tc.ok {
			if err != nil || got.Cents != tc.want {
				t.Fatalf("%d+%d = %d, %v; want %d", tc.a, tc.b, got.Cents, err, tc.want)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%d+%d: expected ErrInvalidAmount, got %v", tc.a, tc.b, err)
		}
	}
}

func TestMoneyStringNegative(t *testing.T) {
	if got := (Money{Cents: -5}).String(); got != "-0.05" {
		t.Fatalf("String() = %q", got)
	}
}
