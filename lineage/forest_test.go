package lineage

import (
	"testing"

	"proptrack/models"
)

func transfer(id int64, parent *int64, date string) models.TransferRecord {
	return models.TransferRecord{ID: id, BatchID: 1, ParentTransferID: parent, TransferDate: date}
}

func TestBuildTransferForestOrdering(t *testing.T) {
	ts := []models.TransferRecord{
		transfer(3, i64(1), "2025-03-01"),
		transfer(1, nil, "2025-01-01"),
		transfer(2, nil, "2025-02-01"),
		transfer(4, i64(1), "2025-02-15"),
	}
	roots := BuildTransferForest(ts)
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].Record.ID != 1 || roots[1].Record.ID != 2 {
		t.Fatalf("roots ordered %d,%d; want 1,2", roots[0].Record.ID, roots[1].Record.ID)
	}
	children := roots[0].Children
	if len(children) != 2 || children[0].Record.ID != 4 || children[1].Record.ID != 3 {
		t.Fatalf("children of root 1 not date-ordered: %+v", children)
	}
}

func TestBuildTransferForestMissingParentBecomesRoot(t *testing.T) {
	ts := []models.TransferRecord{transfer(5, i64(99), "2025-01-01")}
	roots := BuildTransferForest(ts)
	if len(roots) != 1 || roots[0].Record.ID != 5 {
		t.Fatalf("transfer with absent parent should surface as root: %+v", roots)
	}
}

func TestBuildTransferForestSurvivesCycle(t *testing.T) {
	// 10 -> 11 -> 10 plus a normal root.
	ts := []models.TransferRecord{
		transfer(10, i64(11), "2025-01-05"),
		transfer(11, i64(10), "2025-01-06"),
		transfer(1, nil, "2025-01-01"),
	}
	roots := BuildTransferForest(ts)

	seen := map[int64]int{}
	Walk(roots, func(n *TransferNode, depth int) {
		seen[n.Record.ID]++
	})
	for _, id := range []int64{1, 10, 11} {
		if seen[id] != 1 {
			t.Fatalf("transfer %d visited %d times, want exactly once", id, seen[id])
		}
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want normal root plus promoted cycle member", len(roots))
	}
	if roots[1].Record.ID != 10 {
		t.Fatalf("earliest cycle member should be promoted, got %d", roots[1].Record.ID)
	}
}

func TestBuildTransferForestSelfParent(t *testing.T) {
	ts := []models.TransferRecord{transfer(7, i64(7), "2025-01-01")}
	roots := BuildTransferForest(ts)
	if len(roots) != 1 || roots[0].Record.ID != 7 {
		t.Fatalf("self-parented transfer should surface as root: %+v", roots)
	}
	if len(roots[0].Children) != 0 {
		t.Fatalf("self-parented transfer should not be its own child")
	}
}

func TestValidateParentChain(t *testing.T) {
	// 1 -> 2 -> 3 stored chain.
	stored := []models.TransferRecord{
		transfer(1, nil, "2025-01-01"),
		transfer(2, i64(1), "2025-01-02"),
		transfer(3, i64(2), "2025-01-03"),
	}

	if err := ValidateParentChain(stored, transfer(4, i64(3), "2025-01-04")); err != nil {
		t.Fatalf("appending below the chain should pass: %v", err)
	}
	if err := ValidateParentChain(stored, transfer(2, i64(1), "2025-01-02")); err != nil {
		t.Fatalf("keeping the stored parent should pass: %v", err)
	}
	if err := ValidateParentChain(stored, transfer(1, i64(3), "2025-01-01")); err == nil {
		t.Fatal("reparenting 1 under its grandchild must be rejected")
	}
	if err := ValidateParentChain(stored, transfer(2, i64(2), "2025-01-02")); err == nil {
		t.Fatal("self parent must be rejected")
	}
	if err := ValidateParentChain(stored, transfer(9, nil, "2025-01-09")); err != nil {
		t.Fatalf("nil parent should pass: %v", err)
	}

	// A pre-existing cycle in the ancestry must not hang the walk.
	looped := []models.TransferRecord{
		transfer(10, i64(11), "2025-01-05"),
		transfer(11, i64(10), "2025-01-06"),
	}
	if err := ValidateParentChain(looped, transfer(12, i64(10), "2025-01-07")); err == nil {
		t.Fatal("walk through a stored cycle must be rejected, not loop")
	}
}

func TestDescendantIDs(t *testing.T) {
	ts := []models.TransferRecord{
		transfer(1, nil, "2025-01-01"),
		transfer(2, i64(1), "2025-01-02"),
		transfer(3, i64(2), "2025-01-03"),
		transfer(4, nil, "2025-01-04"),
	}
	got := DescendantIDs(ts, 1)
	for _, id := range []int64{1, 2, 3} {
		if !got[id] {
			t.Fatalf("id %d missing from descendants: %v", id, got)
		}
	}
	if got[4] {
		t.Fatalf("unrelated transfer included: %v", got)
	}
}

func TestWalkDepths(t *testing.T) {
	ts := []models.TransferRecord{
		transfer(1, nil, "2025-01-01"),
		transfer(2, i64(1), "2025-01-02"),
		transfer(3, i64(2), "2025-01-03"),
	}
	depths := map[int64]int{}
	Walk(BuildTransferForest(ts), func(n *TransferNode, depth int) {
		depths[n.Record.ID] = depth
	})
	if depths[1] != 0 || depths[2] != 1 || depths[3] != 2 {
		t.Fatalf("unexpected depths: %v", depths)
	}
}
