package outline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"draftline/internal/domain"
	"draftline/internal/outline"
)

func checkDense(t *testing.T, o outline.Outline) {
	t.Helper()
	seen := map[int]bool{}
	for i, item := range o.Items {
		if item.Position != i+1 {
			t.Fatalf("position at index %d is %d, want %d", i, item.Position, i+1)
		}
		if seen[item.Position] {
			t.Fatalf("duplicate position %d", item.Position)
		}
		seen[item.Position] = true
	}
}

func TestInsertRenumbersAtEveryIndex(t *testing.T) {
	for i := 0; i <= 3; i++ {
		o := outline.Default()
		o.Insert(i, "Inserted")
		if o.Len() != 4 {
			t.Fatalf("insert at %d: len=%d", i, o.Len())
		}
		if o.Items[i].Title != "Inserted" {
			t.Fatalf("insert at %d landed at wrong index: %+v", i, o.Items)
		}
		checkDense(t, o)
	}
}

func TestRemoveRenumbersAtEveryIndex(t *testing.T) {
	for i := 0; i < 3; i++ {
		o := outline.Default()
		removed := o.Items[i].Title
		if err := o.Remove(i); err != nil {
			t.Fatalf("remove at %d: %v", i, err)
		}
		if o.Len() != 2 {
			t.Fatalf("remove at %d: len=%d", i, o.Len())
		}
		for _, item := range o.Items {
			if item.Title == removed {
				t.Fatalf("remove at %d left %q behind", i, removed)
			}
		}
		checkDense(t, o)
	}
	o := outline.Default()
	if err := o.Remove(5); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestValidateRejectsBlankAndGaps(t *testing.T) {
	o := outline.FromTitles([]string{"One", "  ", "Three"})
	if err := o.Validate(); err == nil {
		t.Fatalf("expected blank-title error")
	}
	o = outline.FromTitles([]string{"One", "Two"})
	o.Items[1].Position = 5
	if err := o.Validate(); err == nil {
		t.Fatalf("expected gap error")
	}
	var empty outline.Outline
	if err := empty.Validate(); err == nil {
		t.Fatalf("expected empty-outline error")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	o := outline.FromTitles([]string{"Intro", "Body", "Close"})
	data, err := o.ToYAML()
	if err != nil {
		t.Fatalf("to yaml: %v", err)
	}
	parsed, err := outline.FromYAML(data)
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if parsed.Len() != 3 || parsed.Items[1].Title != "Body" {
		t.Fatalf("round trip lost data: %+v", parsed.Items)
	}
	checkDense(t, parsed)

	// positions in the file are reassigned from list order
	parsed, err = outline.FromYAML([]byte("sections:\n  - title: A\n    position: 9\n  - title: B\n    position: 2\n"))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	checkDense(t, parsed)
}

type fakeSuggester struct {
	gotCount int
	titles   []string
	err      error
}

func (f *fakeSuggester) SuggestOutline(ctx context.Context, topic, docType string, itemCount int) ([]string, error) {
	f.gotCount = itemCount
	if f.err != nil {
		return nil, f.err
	}
	if len(f.titles) > 0 {
		return f.titles, nil
	}
	titles := make([]string, itemCount)
	for i := range titles {
		titles[i] = fmt.Sprintf("Part %d", i+1)
	}
	return titles, nil
}

func TestSuggestClampsItemCount(t *testing.T) {
	svc := &fakeSuggester{}
	o, err := outline.Suggest(context.Background(), svc, "Q3 review", domain.DocTypeWord, 1)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if svc.gotCount != outline.MinItems || o.Len() != outline.MinItems {
		t.Fatalf("low count not clamped: got %d", svc.gotCount)
	}

	if _, err := outline.Suggest(context.Background(), svc, "Q3 review", domain.DocTypeWord, 50); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if svc.gotCount != outline.MaxItems {
		t.Fatalf("high count not clamped: got %d", svc.gotCount)
	}

	if _, err := outline.Suggest(context.Background(), svc, "   ", domain.DocTypeWord, 5); err == nil {
		t.Fatalf("expected topic validation error")
	}

	svc.err = errors.New("boom")
	if _, err := outline.Suggest(context.Background(), svc, "Q3 review", domain.DocTypeWord, 5); err == nil {
		t.Fatalf("expected error passthrough")
	}
}
