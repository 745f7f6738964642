package recommend

import (
	"math"
	"testing"

	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
)

func TestBlend_DedupKeepsMaxContribution(t *testing.T) {
	p := catalogProduct(t, "x", "Computers", "", 4.0, 1)

	content := []domrec.Candidate{
		domrec.NewCandidate(p, 0.9, domrec.StrategyContent),
		domrec.NewCandidate(catalogProduct(t, "floor", "Computers", "", 3.0, 2), 0.0, domrec.StrategyContent),
	}
	popularity := []domrec.Candidate{
		domrec.NewCandidate(p, 0.4, domrec.StrategyPopularity),
		domrec.NewCandidate(catalogProduct(t, "floor2", "Books", "", 3.0, 3), 0.0, domrec.StrategyPopularity),
	}

	out := blend([][]domrec.Candidate{content, popularity}, DefaultWeights(), 10)

	var x *Ranked
	for i := range out {
		if out[i].Product.ID() == "x" {
			x = &out[i]
		}
	}
	if x == nil {
		t.Fatal("expected x in blended output")
	}
	// content contributes 0.5*1.0, popularity 0.2*1.0; max wins, never the sum
	if math.Abs(x.Score-0.5) > 1e-9 {
		t.Fatalf("expected blended score 0.5, got %v", x.Score)
	}
	if len(x.Strategies) != 2 {
		t.Fatalf("expected both strategies attributed, got %v", x.Strategies)
	}
}

func TestBlend_CommutativeInStrategyOrder(t *testing.T) {
	a := []domrec.Candidate{
		domrec.NewCandidate(catalogProduct(t, "p1", "C", "", 4.0, 1), 0.8, domrec.StrategyContent),
		domrec.NewCandidate(catalogProduct(t, "p2", "C", "", 4.5, 2), 0.3, domrec.StrategyContent),
	}
	b := []domrec.Candidate{
		domrec.NewCandidate(catalogProduct(t, "p2", "C", "", 4.5, 2), 4.5, domrec.StrategyCategory),
		domrec.NewCandidate(catalogProduct(t, "p3", "C", "", 4.2, 3), 4.2, domrec.StrategyCategory),
	}
	c := []domrec.Candidate{
		domrec.NewCandidate(catalogProduct(t, "p3", "C", "", 4.2, 3), 4.2, domrec.StrategyPopularity),
		domrec.NewCandidate(catalogProduct(t, "p4", "B", "", 4.9, 4), 4.9, domrec.StrategyPopularity),
	}

	forward := blend([][]domrec.Candidate{a, b, c}, DefaultWeights(), 10)
	backward := blend([][]domrec.Candidate{c, b, a}, DefaultWeights(), 10)

	if len(forward) != len(backward) {
		t.Fatalf("length differs: %d vs %d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i].Product.ID() != backward[i].Product.ID() {
			t.Fatalf("order differs at %d: %s vs %s",
				i, forward[i].Product.ID(), backward[i].Product.ID())
		}
		if math.Abs(forward[i].Score-backward[i].Score) > 1e-9 {
			t.Fatalf("score differs for %s: %v vs %v",
				forward[i].Product.ID(), forward[i].Score, backward[i].Score)
		}
	}
}

func TestBlend_NoPadding(t *testing.T) {
	list := []domrec.Candidate{
		domrec.NewCandidate(catalogProduct(t, "only", "C", "", 4.0, 1), 1.0, domrec.StrategyContent),
	}

	out := blend([][]domrec.Candidate{list}, DefaultWeights(), 5)
	if len(out) != 1 {
		t.Fatalf("expected 1 result without padding, got %d", len(out))
	}
}

func TestBlend_TieBreaksByRatingThenID(t *testing.T) {
	list := []domrec.Candidate{
		domrec.NewCandidate(catalogProduct(t, "b", "C", "", 4.0, 1), 1.0, domrec.StrategyContent),
		domrec.NewCandidate(catalogProduct(t, "a", "C", "", 4.0, 2), 1.0, domrec.StrategyContent),
		domrec.NewCandidate(catalogProduct(t, "c", "C", "", 4.5, 3), 1.0, domrec.StrategyContent),
	}

	out := blend([][]domrec.Candidate{list}, DefaultWeights(), 10)
	want := []string{"c", "a", "b"}
	for i := range want {
		if out[i].Product.ID() != want[i] {
			got := make([]string, len(out))
			for j := range out {
				got[j] = out[j].Product.ID()
			}
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}

func TestBlend_TruncatesToLimit(t *testing.T) {
	var list []domrec.Candidate
	for _, id := range []string{"a", "b", "c", "d"} {
		list = append(list,
			domrec.NewCandidate(catalogProduct(t, id, "C", "", 4.0, 1), 1.0, domrec.StrategyContent))
	}

	out := blend([][]domrec.Candidate{list}, DefaultWeights(), 2)
	if len(out) != 2 {
		t.Fatalf("expected limit applied, got %d", len(out))
	}
}
