package faq

import "testing"

func TestDuplicateCheckerDefiniteBand(t *testing.T) {
	checker := NewDuplicateChecker([]string{"ビザの更新手続きについて"}, nil)
	// near-identical phrasing lands above the definite threshold
	match, dup := checker.Check("ビザの更新手続きについて教えて")
	if !dup {
		t.Fatal("expected definite duplicate")
	}
	if match.Reason != ReasonSimilarity {
		t.Fatalf("expected similarity rejection, got %q", match.Reason)
	}
	if match.Similarity < duplicateDefiniteThreshold {
		t.Fatalf("similarity %v below definite threshold", match.Similarity)
	}
	if match.Question != "ビザの更新手続きについて" {
		t.Fatalf("unexpected matched question %q", match.Question)
	}
}

func TestDuplicateCheckerAmbiguousBand(t *testing.T) {
	// the pair sits in the ambiguous band; identical keyword sets decide
	first := "H-1Bビザの必要書類は？"
	second := "H-1Bビザで必要な書類は何ですか？"
	sim := ratio(first, second)
	if sim < duplicateAmbiguousThreshold || sim >= duplicateDefiniteThreshold {
		t.Fatalf("test pair must sit in the ambiguous band, got %v", sim)
	}

	checker := NewDuplicateChecker([]string{first}, nil)
	match, dup := checker.Check(second)
	if !dup {
		t.Fatal("paraphrase with identical keyword set should be rejected")
	}
	if match.Reason != ReasonKeywordSet {
		t.Fatalf("expected keyword_set rejection, got %q", match.Reason)
	}

	// same phrasing about a different visa type survives
	checker = NewDuplicateChecker([]string{first}, nil)
	if _, dup := checker.Check("F-1ビザで必要な書類は何ですか？"); dup {
		t.Fatal("different visa type must not be flagged")
	}
}

func TestDuplicateCheckerBelowBand(t *testing.T) {
	checker := NewDuplicateChecker([]string{"料金について教えて"}, nil)
	if _, dup := checker.Check("面接ではどんな質問をされますか？"); dup {
		t.Fatal("unrelated question flagged as duplicate")
	}
}

func TestDuplicateCheckerEmptyCorpus(t *testing.T) {
	checker := NewDuplicateChecker(nil, nil)
	if _, dup := checker.Check("何でも"); dup {
		t.Fatal("empty corpus can never produce a duplicate")
	}
}

func TestDuplicateCheckerCatchesWithinBatch(t *testing.T) {
	checker := NewDuplicateChecker(nil, nil)
	first := "H-1Bビザの必要書類は？"
	if _, dup := checker.Check(first); dup {
		t.Fatal("first candidate should be accepted")
	}
	checker.Accept(first)

	if _, dup := checker.Check("H-1Bビザで必要な書類は何ですか？"); !dup {
		t.Fatal("second candidate in the same batch should be rejected")
	}
	if checker.Size() != 1 {
		t.Fatalf("corpus size = %d, want 1", checker.Size())
	}
}
