package util

import (
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		phone    string
		expected string
	}{
		{name: "already normalized", phone: "0912345678", expected: "0912345678"},
		{name: "spaces and dots", phone: "091 234.5678", expected: "0912345678"},
		{name: "dropped leading zero", phone: "912345678", expected: "0912345678"},
		{name: "country code kept as digits", phone: "+84912345678", expected: "84912345678"},
		{name: "empty", phone: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizePhone(tt.phone); got != tt.expected {
				t.Fatalf("NormalizePhone(%q) = %s, want %s", tt.phone, got, tt.expected)
			}
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		phone    string
		expected bool
	}{
		{name: "ten digit mobile", phone: "0912345678", expected: true},
		{name: "eleven digit landline", phone: "02438123456", expected: true},
		{name: "too short", phone: "091234", expected: false},
		{name: "missing leading zero", phone: "9123456789", expected: false},
		{name: "empty", phone: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsValidPhone(tt.phone); got != tt.expected {
				t.Fatalf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.expected)
			}
		})
	}
}

func TestRemoveAccents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "full name", input: "Nguyễn Văn Tèo", expected: "Nguyen Van Teo"},
		{name: "d with stroke", input: "Đặng Tiến Dũng", expected: "Dang Tien Dung"},
		{name: "plain ascii", input: "John Smith", expected: "John Smith"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RemoveAccents(tt.input); got != tt.expected {
				t.Fatalf("RemoveAccents(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNamesMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{name: "accent insensitive equality", a: "Nguyễn Văn Tèo", b: "nguyen van teo", expected: true},
		{name: "short name against full name", a: "Tèo", b: "Nguyễn Văn Tèo", expected: true},
		{name: "different people", a: "Nguyễn Văn Tèo", b: "Trần Thị Hoa", expected: false},
		{name: "shared given name only at suffix", a: "Lê Hoa", b: "Trần Thị Hoa", expected: true},
		{name: "empty side never matches", a: "", b: "Tèo", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NamesMatch(tt.a, tt.b); got != tt.expected {
				t.Fatalf("NamesMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "dot separators", input: "1.200.000", expected: 1200000},
		{name: "comma separators", input: "1,200,000", expected: 1200000},
		{name: "plain digits", input: "350000", expected: 350000},
		{name: "surrounding spaces", input: " 500.000 ", expected: 500000},
		{name: "no digits", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %d", tt.input, got)
				}

				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Fatalf("ParseAmount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatVND(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   int64
		expected string
	}{
		{name: "millions", amount: 1200000, expected: "1.200.000 ₫"},
		{name: "under one thousand", amount: 999, expected: "999 ₫"},
		{name: "zero", amount: 0, expected: "0 ₫"},
		{name: "negative", amount: -350000, expected: "-350.000 ₫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatVND(tt.amount); got != tt.expected {
				t.Fatalf("FormatVND(%d) = %s, want %s", tt.amount, got, tt.expected)
			}
		})
	}
}
