package index

import (
	"testing"

	"github.com/proseflow/proseflow/internal/model"
)

func sug(id string, start, end int, kind model.Kind) model.Suggestion {
	return model.Suggestion{
		ID:       id,
		Start:    start,
		End:      end,
		Kind:     kind,
		Priority: kind.Priority(),
	}
}

func TestIndex_InsertOrdered(t *testing.T) {
	ix := New()

	for _, s := range []model.Suggestion{
		sug("b", 10, 15, model.KindGrammar),
		sug("a", 2, 5, model.KindSpelling),
		sug("c", 20, 25, model.KindTone),
	} {
		if err := ix.Insert(s); err != nil {
			t.Fatalf("insert %s: %v", s.ID, err)
		}
	}

	all := ix.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].ID != "a" || all[1].ID != "b" || all[2].ID != "c" {
		t.Errorf("entries not in start order: %v %v %v", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestIndex_AnchorUniqueness(t *testing.T) {
	ix := New()

	if err := ix.Insert(sug("a", 5, 10, model.KindSpelling)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := ix.Insert(sug("b", 5, 12, model.KindGrammar)); err != ErrAnchorTaken {
		t.Errorf("expected ErrAnchorTaken for duplicate start, got %v", err)
	}
	if ix.Len() != 1 {
		t.Errorf("expected 1 entry after rejected insert, got %d", ix.Len())
	}
}

func TestIndex_RemoveRange(t *testing.T) {
	ix := New()
	_ = ix.Insert(sug("inside", 5, 10, model.KindSpelling))
	_ = ix.Insert(sug("partial", 8, 14, model.KindGrammar))
	_ = ix.Insert(sug("after", 20, 25, model.KindTone))

	removed := ix.RemoveRange(5, 12)
	if removed != 1 {
		t.Errorf("expected 1 removal, got %d", removed)
	}
	if _, found := ix.Get("inside"); found {
		t.Errorf("fully contained entry should be removed")
	}
	if _, found := ix.Get("partial"); !found {
		t.Errorf("partially overlapping entry should survive RemoveRange")
	}
}

func TestIndex_RemoveOverlapping(t *testing.T) {
	ix := New()
	_ = ix.Insert(sug("before", 0, 4, model.KindSpelling))
	_ = ix.Insert(sug("partial", 8, 14, model.KindGrammar))
	_ = ix.Insert(sug("after", 20, 25, model.KindTone))

	removed := ix.RemoveOverlapping(10, 12)
	if removed != 1 {
		t.Errorf("expected 1 removal, got %d", removed)
	}
	if ix.Len() != 2 {
		t.Errorf("expected 2 survivors, got %d", ix.Len())
	}
}

func TestIndex_Shift(t *testing.T) {
	ix := New()
	_ = ix.Insert(sug("a", 2, 5, model.KindSpelling))
	_ = ix.Insert(sug("b", 10, 15, model.KindGrammar))
	_ = ix.Insert(sug("c", 20, 25, model.KindTone))

	ix.Shift(5, -3)

	a, _ := ix.Get("a")
	if a.Start != 2 || a.End != 5 {
		t.Errorf("entry at or before shift point must not move, got [%d,%d)", a.Start, a.End)
	}
	b, _ := ix.Get("b")
	if b.Start != 7 || b.End != 12 {
		t.Errorf("expected b at [7,12), got [%d,%d)", b.Start, b.End)
	}
	c, _ := ix.Get("c")
	if c.Start != 17 || c.End != 22 {
		t.Errorf("expected c at [17,22), got [%d,%d)", c.Start, c.End)
	}
}

func TestIndex_CoveringSegments_NoOverlap(t *testing.T) {
	ix := New()
	_ = ix.Insert(sug("a", 2, 5, model.KindSpelling))
	_ = ix.Insert(sug("b", 10, 15, model.KindGrammar))

	segs := ix.CoveringSegments(0, 100)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Start != 2 || segs[0].End != 5 || segs[0].Primary.ID != "a" {
		t.Errorf("unexpected first segment: %+v", segs[0])
	}
	if segs[1].Start != 10 || segs[1].End != 15 || segs[1].Primary.ID != "b" {
		t.Errorf("unexpected second segment: %+v", segs[1])
	}
}

func TestIndex_CoveringSegments_PriorityResolution(t *testing.T) {
	ix := New()
	// tone covers [0,20); spelling covers [5,10) inside it
	_ = ix.Insert(sug("tone", 0, 20, model.KindTone))
	_ = ix.Insert(sug("spell", 5, 10, model.KindSpelling))

	segs := ix.CoveringSegments(0, 20)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	if segs[0].Primary.ID != "tone" || segs[0].Start != 0 || segs[0].End != 5 {
		t.Errorf("unexpected segment 0: %+v", segs[0])
	}
	// Overlap segment: spelling outranks tone
	if segs[1].Primary.ID != "spell" || segs[1].Start != 5 || segs[1].End != 10 {
		t.Errorf("expected spelling to win overlap, got %+v", segs[1])
	}
	if len(segs[1].Covering) != 2 {
		t.Errorf("overlap segment must retain all covering suggestions, got %d", len(segs[1].Covering))
	}
	if segs[2].Primary.ID != "tone" || segs[2].Start != 10 || segs[2].End != 20 {
		t.Errorf("unexpected segment 2: %+v", segs[2])
	}
}

func TestIndex_CoveringSegments_VisibleRangeClipped(t *testing.T) {
	ix := New()
	_ = ix.Insert(sug("wide", 0, 100, model.KindClarity))

	segs := ix.CoveringSegments(40, 60)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Start != 40 || segs[0].End != 60 {
		t.Errorf("expected clipped segment [40,60), got [%d,%d)", segs[0].Start, segs[0].End)
	}
}

func TestIndex_Replace(t *testing.T) {
	ix := New()
	_ = ix.Insert(sug("old", 0, 5, model.KindSpelling))

	ix.Replace([]model.Suggestion{
		sug("n2", 10, 12, model.KindGrammar),
		sug("n1", 1, 4, model.KindSpelling),
	})

	all := ix.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].ID != "n1" || all[1].ID != "n2" {
		t.Errorf("replace must restore start order, got %s %s", all[0].ID, all[1].ID)
	}
}
