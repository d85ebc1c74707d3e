package lineage

import (
	"fmt"
	"sort"

	"proptrack/models"
)

// TransferNode is one transfer in a batch's lineage forest.
type TransferNode struct {
	Record   models.TransferRecord
	Children []*TransferNode
}

// BuildTransferForest arranges a batch's transfers into parent/child
// trees. Roots (nil parent, or a parent id that does not exist in the
// set) sort by transfer date, then id; children likewise.
//
// A parent chain that loops back on itself would otherwise recurse
// forever, so any transfer already placed is never re-attached: a
// cycle degrades into a root at its earliest member instead of
// crashing traversal.
func BuildTransferForest(transfers []models.TransferRecord) []*TransferNode {
	nodes := make(map[int64]*TransferNode, len(transfers))
	for _, t := range transfers {
		nodes[t.ID] = &TransferNode{Record: t}
	}

	var roots []*TransferNode
	for _, t := range transfers {
		node := nodes[t.ID]
		if t.ParentTransferID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*t.ParentTransferID]
		if !ok || *t.ParentTransferID == t.ID {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Transfers in a pure cycle never reach a root; surface the
	// earliest member of each as a root so nothing disappears.
	reachable := make(map[int64]bool, len(transfers))
	var mark func(n *TransferNode)
	mark = func(n *TransferNode) {
		if reachable[n.Record.ID] {
			return
		}
		reachable[n.Record.ID] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for _, t := range sortedByDate(transfers) {
		if reachable[t.ID] {
			continue
		}
		node := nodes[t.ID]
		detach(nodes, node)
		roots = append(roots, node)
		mark(node)
	}

	sortNodes(roots)
	for _, n := range nodes {
		sortNodes(n.Children)
	}
	return roots
}

// ValidateParentChain rejects a parent assignment that would place the
// proposed transfer in its own ancestry. siblings is the batch's
// stored transfer set; the proposed record stands in for its stored
// row during the walk. A parent id outside the set ends the chain.
func ValidateParentChain(siblings []models.TransferRecord, proposed models.TransferRecord) error {
	if proposed.ParentTransferID == nil {
		return nil
	}
	if *proposed.ParentTransferID == proposed.ID {
		return fmt.Errorf("a transfer cannot be its own parent")
	}

	parentOf := make(map[int64]*int64, len(siblings)+1)
	for _, t := range siblings {
		parentOf[t.ID] = t.ParentTransferID
	}
	parentOf[proposed.ID] = proposed.ParentTransferID

	seen := make(map[int64]bool)
	cur := proposed.ParentTransferID
	for cur != nil {
		if *cur == proposed.ID {
			return fmt.Errorf("transfer #%d is a descendant of the edited transfer and cannot become its parent", *proposed.ParentTransferID)
		}
		if seen[*cur] {
			return fmt.Errorf("transfer parent chain already contains a cycle at #%d", *cur)
		}
		seen[*cur] = true
		cur = parentOf[*cur]
	}
	return nil
}

// DescendantIDs collects id and every transfer beneath it in the
// lineage forest built from transfers.
func DescendantIDs(transfers []models.TransferRecord, id int64) map[int64]bool {
	children := make(map[int64][]int64, len(transfers))
	for _, t := range transfers {
		if t.ParentTransferID != nil && *t.ParentTransferID != t.ID {
			children[*t.ParentTransferID] = append(children[*t.ParentTransferID], t.ID)
		}
	}
	out := make(map[int64]bool)
	var visit func(n int64)
	visit = func(n int64) {
		if out[n] {
			return
		}
		out[n] = true
		for _, c := range children[n] {
			visit(c)
		}
	}
	visit(id)
	return out
}

// detach removes node from its parent's child list so promoting a
// cycle member to root does not leave it linked twice.
func detach(nodes map[int64]*TransferNode, node *TransferNode) {
	pid := node.Record.ParentTransferID
	if pid == nil {
		return
	}
	parent, ok := nodes[*pid]
	if !ok {
		return
	}
	for i, c := range parent.Children {
		if c == node {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}

func sortedByDate(transfers []models.TransferRecord) []models.TransferRecord {
	out := make([]models.TransferRecord, len(transfers))
	copy(out, transfers)
	sort.Slice(out, func(i, j int) bool {
		if out[i].TransferDate != out[j].TransferDate {
			return out[i].TransferDate < out[j].TransferDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortNodes(nodes []*TransferNode) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].Record, nodes[j].Record
		if a.TransferDate != b.TransferDate {
			return a.TransferDate < b.TransferDate
		}
		return a.ID < b.ID
	})
}

// Walk visits every node depth-first in display order, calling fn with
// the node and its depth (roots are depth 0).
func Walk(roots []*TransferNode, fn func(n *TransferNode, depth int)) {
	var visit func(n *TransferNode, depth int)
	visit = func(n *TransferNode, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}
