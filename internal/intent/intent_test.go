package intent

import (
	"reflect"
	"testing"
)

func TestClassify_Empty(t *testing.T) {
	got := Classify("")
	if got.Primary != General {
		t.Errorf("expected GENERAL, got %s", got.Primary)
	}
	if got.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", got.Confidence)
	}
	if got.Keywords == nil || len(got.Keywords) != 0 {
		t.Errorf("expected empty non-nil keywords, got %#v", got.Keywords)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		primary    Category
		confidence int
		keywords   []string
	}{
		{"academic only", "I have an exam tomorrow", Academic, 100, []string{"exam"}},
		{"physical only", "My cramps are bad", Physical, 100, []string{"cramps"}},
		{"emotional only", "I keep crying", Emotional, 100, []string{"crying"}},
		{"crisis only", "I want to end my life", Crisis, 100, []string{"end my life"}},
		{"several keywords one category", "Studying for my test", Academic, 100, []string{"test", "study", "studying"}},
		{"diluted confidence", "I'm stressed about my exam", Emotional, 67, []string{"stressed", "stress"}},
		{"no keywords", "Hello there", General, 0, []string{}},
		{"case folded", "EXAM", Academic, 100, []string{"exam"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Primary != tt.primary {
				t.Errorf("Primary = %s, want %s", got.Primary, tt.primary)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("Confidence = %d, want %d", got.Confidence, tt.confidence)
			}
			if !reflect.DeepEqual(got.Keywords, tt.keywords) {
				t.Errorf("Keywords = %v, want %v", got.Keywords, tt.keywords)
			}
		})
	}
}

func TestClassify_TiesKeepDeclarationOrder(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"exam made me sad", Academic},
		{"hopeless and sad", Crisis},
		{"tired of class", Academic},
	}
	for _, tt := range tests {
		got := Classify(tt.text)
		if got.Primary != tt.want {
			t.Errorf("Classify(%q).Primary = %s, want %s", tt.text, got.Primary, tt.want)
		}
		if got.Confidence != 50 {
			t.Errorf("Classify(%q).Confidence = %d, want 50", tt.text, got.Confidence)
		}
	}
}

func TestClassify_RepeatedKeywordCountsOnce(t *testing.T) {
	got := Classify("exam exam exam")
	if got.Primary != Academic || got.Confidence != 100 {
		t.Fatalf("unexpected result %+v", got)
	}
	if len(got.Keywords) != 1 {
		t.Errorf("expected a single keyword, got %v", got.Keywords)
	}
}

// Substring matching is inherited behaviour: "testimony" hits "test".
func TestClassify_SubstringQuirk(t *testing.T) {
	got := Classify("her testimony")
	if got.Primary != Academic {
		t.Errorf("expected substring hit to classify as ACADEMIC, got %s", got.Primary)
	}
}

func TestCategories_Order(t *testing.T) {
	want := []Category{Crisis, Academic, Physical, Emotional, General}
	if got := Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}
