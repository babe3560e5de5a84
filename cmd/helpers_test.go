package cmd

import (
	"testing"

	"canvasbridge/internal/geometry"
)

func TestParseCanvas(t *testing.T) {
	tests := []struct {
		input   string
		w, h    float64
		wantErr bool
	}{
		{"2000x1000", 2000, 1000, false},
		{"1024x1024", 1024, 1024, false},
		{" 800 x 600 ", 800, 600, false},
		{"2000", 0, 0, true},
		{"axb", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			w, h, err := parseCanvas(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseCanvas(%q) expected error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCanvas(%q) error = %v", tc.input, err)
			}
			if w != tc.w || h != tc.h {
				t.Errorf("parseCanvas(%q) = %gx%g, want %gx%g", tc.input, w, h, tc.w, tc.h)
			}
		})
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		input   string
		want    geometry.Rectangle
		wantErr bool
	}{
		{"550,50,1450,950", geometry.Rectangle{Left: 550, Top: 50, Right: 1450, Bottom: 950}, false},
		{"-50, -50, 350, 350", geometry.Rectangle{Left: -50, Top: -50, Right: 350, Bottom: 350}, false},
		{"1,2,3", geometry.Rectangle{}, true},
		{"a,b,c,d", geometry.Rectangle{}, true},
		{"", geometry.Rectangle{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			rect, err := parseRect(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseRect(%q) expected error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRect(%q) error = %v", tc.input, err)
			}
			if rect != tc.want {
				t.Errorf("parseRect(%q) = %s, want %s", tc.input, rect, tc.want)
			}
		})
	}
}
