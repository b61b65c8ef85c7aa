// Package group merges revisions of the same logical document.
//
// Records of classes with the auto identifier policy are grouped by a
// normalized title key and by "updates N<number>" cross-references, closed
// transitively. Every other record forms a singleton group.
package group

import (
	"io"
	"log/slog"
	"sort"

	"github.com/fwojciec/doclog"
)

// Ensure Grouper implements doclog.Grouper at compile time.
var _ doclog.Grouper = (*Grouper)(nil)

// Grouper computes the grouping of classified records.
type Grouper struct {
	Reference *doclog.Reference
	Logger    *slog.Logger
}

// NewGrouper returns a Grouper using the given reference data.
func NewGrouper(ref *doclog.Reference, logger *slog.Logger) *Grouper {
	return &Grouper{Reference: ref, Logger: logger}
}

type titleKey struct {
	class doclog.Class
	key   string
}

// Group partitions recs into disjoint groups ordered by their lowest member.
// Update references to unknown records or to records of another class are
// logged and ignored.
func (g *Grouper) Group(recs []*doclog.ClassifiedRecord) (*doclog.Grouping, error) {
	byNum := doclog.IndexRecords(recs)
	if len(byNum) != len(recs) {
		return nil, doclog.Errorf(doclog.EINTERNAL, "records are not unique by number")
	}

	eligible := make(map[doclog.Class]bool)
	for _, c := range g.Reference.ClassesWithPolicy(doclog.PolicyAuto) {
		eligible[c] = true
	}

	uf := newUnionFind()
	byKey := make(map[titleKey]int)
	for _, n := range doclog.SortedNumbers(recs) {
		r := byNum[n]
		uf.add(n)
		if !eligible[r.Class] {
			continue
		}
		key, ok := g.key(r)
		if !ok {
			continue
		}
		k := titleKey{class: r.Class, key: key}
		if first, ok := byKey[k]; ok {
			uf.union(first, n)
		} else {
			byKey[k] = n
		}
	}

	for _, n := range doclog.SortedNumbers(recs) {
		r := byNum[n]
		if !eligible[r.Class] {
			continue
		}
		for _, target := range doclog.UpdateRefs(r.AuxTitle) {
			other, ok := byNum[target]
			switch {
			case !ok:
				g.logger().Warn("update reference to unknown record", "record", r.ExtID(), "target", target)
			case other.Class != r.Class:
				g.logger().Warn("update reference across classes", "record", r.ExtID(), "class", r.Class,
					"target", other.ExtID(), "target_class", other.Class)
			default:
				uf.union(n, target)
			}
		}
	}

	return doclog.NewGrouping(uf.groups(byNum))
}

// key returns the grouping key of r, or false if r is not grouped by title.
func (g *Grouper) key(r *doclog.ClassifiedRecord) (string, bool) {
	if g.Reference == nil {
		return r.MainTitle, true
	}
	if key, ok := g.Reference.GroupKeys[r.Number]; ok {
		return key, true
	}
	key := r.MainTitle
	if remapped, ok := g.Reference.TitleRemap[key]; ok {
		key = remapped
	}
	if g.Reference.NoGroupTitles[key] {
		return "", false
	}
	return key, true
}

func (g *Grouper) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.Logger
}

// unionFind is a disjoint-set forest over record numbers.
type unionFind struct {
	parent map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int)}
}

func (u *unionFind) add(n int) {
	if _, ok := u.parent[n]; !ok {
		u.parent[n] = n
	}
}

func (u *unionFind) find(n int) int {
	root := n
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[n] != root {
		next := u.parent[n]
		u.parent[n] = root
		n = next
	}
	return root
}

// union merges the sets of a and b. The smaller root becomes the new root.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}

func (u *unionFind) groups(byNum map[int]*doclog.ClassifiedRecord) []*doclog.Group {
	members := make(map[int][]int)
	for n := range u.parent {
		root := u.find(n)
		members[root] = append(members[root], n)
	}

	groups := make([]*doclog.Group, 0, len(members))
	for root, nums := range members {
		sort.Ints(nums)
		groups = append(groups, &doclog.Group{Class: byNum[root].Class, Members: nums})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Min() < groups[j].Min()
	})
	return groups
}
