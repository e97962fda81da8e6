package reserve

import (
	"testing"
	"time"
)

func TestRange_Contains(t *testing.T) {
	jan := NewDate(2025, time.January, 1)
	mar := NewDate(2025, time.March, 31)
	tests := []struct {
		name string
		r    Range
		d    Date
		want bool
	}{
		{"open range", Range{}, jan, true},
		{"lower bound included", NewRange(jan, mar), jan, true},
		{"upper bound included", NewRange(jan, mar), mar, true},
		{"before", NewRange(jan, mar), jan.Add(-1), false},
		{"after", NewRange(jan, mar), mar.Add(1), false},
		{"open start", Range{To: mar}, NewDate(2000, 1, 1), true},
		{"open end", Range{From: jan}, NewDate(2100, 1, 1), true},
		{"swapped bounds", NewRange(mar, jan), NewDate(2025, time.February, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.d); got != tt.want {
				t.Errorf("%v.Contains(%v) = %v, want %v", tt.r, tt.d, got, tt.want)
			}
		})
	}
}

func TestRange_Identifier(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{Monthly.Range(NewDate(2025, 2, 10)), "2025-02"},
		{Quarterly.Range(NewDate(2025, 5, 10)), "2025-Q2"},
		{Yearly.Range(NewDate(2025, 5, 10)), "2025"},
		{Daily.Range(NewDate(2025, 5, 10)), "2025-05-10"},
		{Weekly.Range(NewDate(2025, 1, 8)), "2025-W02"},
		{NewRange(NewDate(2025, 1, 3), NewDate(2025, 1, 9)), "2025-01-03_2025-01-09"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.r.Identifier(); got != tt.want {
				t.Errorf("Identifier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRange_String(t *testing.T) {
	jan := NewDate(2025, time.January, 1)
	tests := []struct {
		r    Range
		want string
	}{
		{Range{}, "all dates"},
		{Range{To: jan}, "up to 2025-01-01"},
		{Range{From: jan}, "from 2025-01-01"},
		{NewRange(jan, jan.Add(9)), "2025-01-01 to 2025-01-10"},
		{Monthly.Range(jan), "2025-01"},
		{Quarterly.Range(NewDate(2025, time.May, 2)), "2025-Q2"},
		{NewRange(jan, jan), "2025-01-01"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
