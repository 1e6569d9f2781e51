package drive

import (
	"testing"
)

func TestPathFilter_EmptyMatchesAll(t *testing.T) {
	f, err := NewPathFilter(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Match("/reports/q3/summary.pdf") {
		t.Fatal("empty filter should match everything")
	}
}

func TestPathFilter_IncludeExclude(t *testing.T) {
	f, err := NewPathFilter(
		[]string{"reports/**"},
		[]string{"**/*.tmp"},
	)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		path string
		want bool
	}{
		{"/reports/q3/summary.pdf", true},
		{"/reports/q3/scratch.tmp", false}, // exclude wins
		{"/personal/notes.txt", false},     // not included
	}
	for _, tc := range cases {
		if got := f.Match(tc.path); got != tc.want {
			t.Errorf("Match(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestPathFilter_InvalidPattern(t *testing.T) {
	if _, err := NewPathFilter([]string{"a[傻"}, nil); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}
