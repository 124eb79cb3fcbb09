package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a.tif", []string{"a.tif"}},
		{" a.tif, b.tif ,,c.tif", []string{"a.tif", "b.tif", "c.tif"}},
	}

	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, splitList(tc.in)); diff != "" {
			t.Errorf("splitList(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}
