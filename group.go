package doclog

// Group is the transitively-closed set of record numbers that make up one
// logical document.
type Group struct {
	Class Class

	// Members are record numbers in ascending order.
	Members []int
}

// Max returns the highest member number.
func (g *Group) Max() int {
	return g.Members[len(g.Members)-1]
}

// Min returns the lowest member number.
func (g *Group) Min() int {
	return g.Members[0]
}

// Contains reports whether n is a member of the group.
func (g *Group) Contains(n int) bool {
	for _, m := range g.Members {
		if m == n {
			return true
		}
	}
	return false
}

// Grouping partitions records into disjoint groups.
type Grouping struct {
	// Groups are ordered by their lowest member.
	Groups []*Group

	byNumber map[int]*Group
}

// NewGrouping returns a Grouping over groups. Each record number must belong
// to exactly one group.
func NewGrouping(groups []*Group) (*Grouping, error) {
	g := &Grouping{Groups: groups, byNumber: make(map[int]*Group)}
	for _, grp := range groups {
		for _, n := range grp.Members {
			if _, ok := g.byNumber[n]; ok {
				return nil, Errorf(EINTERNAL, "record %d belongs to more than one group", n)
			}
			g.byNumber[n] = grp
		}
	}
	return g, nil
}

// Of returns the group containing record n, or nil if n is unknown.
func (g *Grouping) Of(n int) *Group {
	return g.byNumber[n]
}

// ByClass returns the groups of the given class in grouping order.
func (g *Grouping) ByClass(c Class) []*Group {
	var out []*Group
	for _, grp := range g.Groups {
		if grp.Class == c {
			out = append(out, grp)
		}
	}
	return out
}
