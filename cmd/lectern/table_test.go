package main

import (
	"strings"
	"testing"
)

func TestNumericColumnDetection(t *testing.T) {
	rows := [][]string{
		{"lecture01.mp4", "12", "4.5s", "ok"},
		{"lecture02.mp4", "7", "110.0s", "no audio stream"},
	}
	cases := []struct {
		col  int
		want bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
	}
	for _, tc := range cases {
		if got := numericColumn(rows, tc.col); got != tc.want {
			t.Fatalf("column %d: expected numeric=%v, got %v", tc.col, tc.want, got)
		}
	}
	if numericColumn(nil, 0) {
		t.Fatalf("empty tables have no numeric columns")
	}
}

func TestRenderTableIncludesHeadersAndRows(t *testing.T) {
	out := renderTable(
		[]string{"Source", "Cards"},
		[][]string{{"cs101.mp4", "3"}, {"cs102.mp4"}},
	)
	for _, want := range []string{"Source", "Cards", "cs101.mp4", "3", "cs102.mp4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil) != "" {
		t.Fatalf("expected empty output without headers")
	}
}
