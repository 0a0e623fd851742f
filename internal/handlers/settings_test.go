package handlers

import (
	"testing"

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

func TestFAQCategoryOrDefault(t *testing.T) {
	if got, ok := faqCategoryOrDefault(""); !ok || got != models.FAQCategoryGeneral {
		t.Fatalf("empty category: got %q ok=%v, want general", got, ok)
	}

	for _, category := range []string{"general", "shipping", "returns", "payment", "products"} {
		if got, ok := faqCategoryOrDefault(category); !ok || got != category {
			t.Errorf("category %q: got %q ok=%v", category, got, ok)
		}
	}

	if _, ok := faqCategoryOrDefault("careers"); ok {
		t.Error("unknown category accepted")
	}
}
