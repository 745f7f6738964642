package filter

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestBuilder_AllPredicates(t *testing.T) {
	inStock := true
	expr, err := (&Builder{}).
		Category("electronics").
		Brand("soundcore").
		PriceRange(floatPtr(50), floatPtr(500)).
		MinRating(floatPtr(4)).
		Tags([]string{"audio", "wireless"}).
		InStock(&inStock).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// category + brand + price + rating + 2 tags + in_stock
	if len(expr.Conditions()) != 7 {
		t.Fatalf("conditions = %d, want 7", len(expr.Conditions()))
	}

	byKey := map[string]int{}
	for _, c := range expr.Conditions() {
		byKey[c.Key()]++
	}
	if byKey[KeyTags] != 2 {
		t.Errorf("tag conditions = %d, want 2", byKey[KeyTags])
	}
	if byKey[KeyPrice] != 1 || byKey[KeyRating] != 1 {
		t.Errorf("unexpected condition keys: %v", byKey)
	}
}

func TestBuilder_SkipsAbsentPredicates(t *testing.T) {
	expr, err := (&Builder{}).
		Category("").
		PriceRange(nil, nil).
		MinRating(nil).
		Tags(nil).
		InStock(nil).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Errorf("expected empty expression, got %d conditions", len(expr.Conditions()))
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Expression, error)
	}{
		{"price min above max", func() (Expression, error) {
			return (&Builder{}).PriceRange(floatPtr(500), floatPtr(100)).Build()
		}},
		{"negative price bound", func() (Expression, error) {
			return (&Builder{}).PriceRange(floatPtr(-1), nil).Build()
		}},
		{"rating above five", func() (Expression, error) {
			return (&Builder{}).MinRating(floatPtr(5.5)).Build()
		}},
		{"negative rating", func() (Expression, error) {
			return (&Builder{}).MinRating(floatPtr(-0.1)).Build()
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuilder_ErrorStops(t *testing.T) {
	// later predicates must not mask the first error
	_, err := (&Builder{}).
		MinRating(floatPtr(9)).
		Category("electronics").
		Build()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCondition_Kinds(t *testing.T) {
	match, err := NewMatch(KeyCategory, "books")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match.IsMatch() || match.IsRange() {
		t.Error("expected match condition")
	}

	r, err := NewRangeBounds(floatPtr(1), floatPtr(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng, err := NewRange(KeyPrice, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rng.IsMatch() || !rng.IsRange() {
		t.Error("expected range condition")
	}
}

func TestNewMatchAny(t *testing.T) {
	cond, err := NewMatchAny(KeyTags, []string{"audio", "wireless"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cond.Values()) != 2 {
		t.Errorf("values = %v", cond.Values())
	}

	if _, err := NewMatchAny(KeyTags, nil); err == nil {
		t.Error("expected error for empty value list")
	}
}

func TestNewRangeBounds_Unbounded(t *testing.T) {
	if _, err := NewRangeBounds(nil, nil); err == nil {
		t.Error("expected error for fully unbounded range")
	}
}
