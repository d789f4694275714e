package stages

import (
	"errors"
	"testing"
)

func TestForOrderReturnsCatalogEntries(t *testing.T) {
	first, err := ForOrder(1)
	if err != nil {
		t.Fatalf("ForOrder(1): %v", err)
	}
	if first.Name != "Technical Assessment" {
		t.Fatalf("expected Technical Assessment, got %q", first.Name)
	}
	if first.QuestionCount != 10 {
		t.Fatalf("expected 10 questions, got %d", first.QuestionCount)
	}

	last, err := ForOrder(Count())
	if err != nil {
		t.Fatalf("ForOrder(last): %v", err)
	}
	if last.Name != "Final Review" {
		t.Fatalf("expected Final Review, got %q", last.Name)
	}
	if !IsLast(last.Order) {
		t.Fatalf("expected order %d to be last", last.Order)
	}
}

func TestForOrderOutOfRange(t *testing.T) {
	for _, order := range []int{0, -1, Count() + 1, 99} {
		if _, err := ForOrder(order); !errors.Is(err, ErrUnknownStage) {
			t.Fatalf("ForOrder(%d): expected ErrUnknownStage, got %v", order, err)
		}
	}
}

func TestCatalogIsOrderedAndContiguous(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("catalog is empty")
	}
	for i, def := range all {
		if def.Order != i+1 {
			t.Fatalf("stage %q has order %d, expected %d", def.Name, def.Order, i+1)
		}
		if def.QuestionCount <= 0 || def.PassingScorePercent <= 0 || def.TimePerQuestionSeconds <= 0 {
			t.Fatalf("stage %q has non-positive budgets: %+v", def.Name, def)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	fresh, err := ForOrder(1)
	if err != nil {
		t.Fatalf("ForOrder(1): %v", err)
	}
	if fresh.Name == "mutated" {
		t.Fatal("All must not expose the backing catalog")
	}
}
