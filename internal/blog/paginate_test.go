package blog

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		size      int
		requested int
		number    int
		numPages  int
		offset    int
	}{
		{name: "empty listing", total: 0, size: 10, requested: 1, number: 1, numPages: 1, offset: 0},
		{name: "first page", total: 13, size: 10, requested: 1, number: 1, numPages: 2, offset: 0},
		{name: "second page", total: 13, size: 10, requested: 2, number: 2, numPages: 2, offset: 10},
		{name: "past the end clamps to last", total: 13, size: 10, requested: 99, number: 2, numPages: 2, offset: 10},
		{name: "zero clamps to first", total: 13, size: 10, requested: 0, number: 1, numPages: 2, offset: 0},
		{name: "negative clamps to first", total: 13, size: 10, requested: -4, number: 1, numPages: 2, offset: 0},
		{name: "exact multiple", total: 20, size: 10, requested: 3, number: 2, numPages: 2, offset: 10},
		{name: "invalid size uses default", total: 25, size: 0, requested: 3, number: 3, numPages: 3, offset: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.total, tt.size, tt.requested)
			if p.Number != tt.number {
				t.Errorf("Number = %d, want %d", p.Number, tt.number)
			}
			if p.NumPages != tt.numPages {
				t.Errorf("NumPages = %d, want %d", p.NumPages, tt.numPages)
			}
			if p.Offset() != tt.offset {
				t.Errorf("Offset() = %d, want %d", p.Offset(), tt.offset)
			}
			if p.HasNext != (p.Number < p.NumPages) {
				t.Errorf("HasNext = %v on page %d of %d", p.HasNext, p.Number, p.NumPages)
			}
			if p.HasPrevious != (p.Number > 1) {
				t.Errorf("HasPrevious = %v on page %d", p.HasPrevious, p.Number)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"2", 2},
		{" 3 ", 3},
		{"last", 1},
		{"1.5", 1},
		{"-2", -2},
	}

	for _, tt := range tests {
		if got := ParsePage(tt.raw); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
