package match

import "testing"

// TestClean tests text cleaning.
func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "iPhone 16 Pro", want: "iphone 16 pro"},
		{name: "strips punctuation", in: "iPhone 16 Pro (Unlocked) - 128GB!", want: "iphone 16 pro unlocked 128gb"},
		{name: "collapses whitespace", in: "  a   b\tc  ", want: "a b c"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestRatio tests basic string similarity.
func TestRatio(t *testing.T) {
	t.Parallel()

	t.Run("identical strings score 1", func(t *testing.T) {
		t.Parallel()

		if got := Ratio("iphone 16 pro", "iPhone 16 Pro"); got != 1 {
			t.Errorf("expected 1, got %f", got)
		}
	})

	t.Run("both empty score 1", func(t *testing.T) {
		t.Parallel()

		if got := Ratio("", ""); got != 1 {
			t.Errorf("expected 1, got %f", got)
		}
	})

	t.Run("one empty scores 0", func(t *testing.T) {
		t.Parallel()

		if got := Ratio("iphone", ""); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("unrelated strings score low", func(t *testing.T) {
		t.Parallel()

		if got := Ratio("iphone 16 pro", "garden hose 25ft"); got > 0.4 {
			t.Errorf("expected low similarity, got %f", got)
		}
	})
}

// TestTokenSortRatio tests word-order insensitivity.
func TestTokenSortRatio(t *testing.T) {
	t.Parallel()

	if got := TokenSortRatio("pro iphone 16", "iphone 16 pro"); got != 1 {
		t.Errorf("expected 1 for reordered tokens, got %f", got)
	}

	a := TokenSortRatio("samsung galaxy s24 ultra", "galaxy s24 ultra samsung 256gb")
	b := Ratio("samsung galaxy s24 ultra", "galaxy s24 ultra samsung 256gb")
	if a < b {
		t.Errorf("token sort (%f) should not score below plain ratio (%f)", a, b)
	}
}

// TestTokenSetRatio tests superset tolerance.
func TestTokenSetRatio(t *testing.T) {
	t.Parallel()

	got := TokenSetRatio("iPhone 16 Pro", "iPhone 16 Pro 128GB Unlocked Renewed")
	if got != 1 {
		t.Errorf("expected 1 when one title is a token superset, got %f", got)
	}
}

// TestPartialRatio tests substring-style matching.
func TestPartialRatio(t *testing.T) {
	t.Parallel()

	t.Run("query inside longer title", func(t *testing.T) {
		t.Parallel()

		got := PartialRatio("iphone 16 pro", "Apple iPhone 16 Pro 128GB Natural Titanium")
		if got < 0.9 {
			t.Errorf("expected near-perfect partial match, got %f", got)
		}
	})

	t.Run("symmetric in argument order", func(t *testing.T) {
		t.Parallel()

		a := PartialRatio("iphone 16 pro", "Apple iPhone 16 Pro 128GB")
		b := PartialRatio("Apple iPhone 16 Pro 128GB", "iphone 16 pro")
		if a != b {
			t.Errorf("expected symmetric results, got %f and %f", a, b)
		}
	})

	t.Run("bounds", func(t *testing.T) {
		t.Parallel()

		got := PartialRatio("washing machine", "iphone")
		if got < 0 || got > 1 {
			t.Errorf("partial ratio out of [0,1]: %f", got)
		}
	})
}
