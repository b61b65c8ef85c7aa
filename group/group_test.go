package group_test

import (
	"bytes"
	"log/slog"
	"strconv"
	"testing"

	"github.com/fwojciec/doclog"
	"github.com/fwojciec/doclog/group"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reference() *doclog.Reference {
	return &doclog.Reference{
		TitleRemap:    map[string]string{"Transparent Function Aliases": "Transparent Aliases"},
		NoGroupTitles: map[string]bool{"Composite types": true},
		GroupKeys:     map[int]string{},
		Classes: map[doclog.Class]*doclog.ClassConfig{
			doclog.ClassDocument: {Class: doclog.ClassDocument, Prefix: "C", Policy: doclog.PolicyAuto},
			doclog.ClassAdmin:    {Class: doclog.ClassAdmin, Prefix: "CADM", Policy: doclog.PolicyAuto},
			doclog.ClassMinutes:  {Class: doclog.ClassMinutes, Prefix: "CMM", Policy: doclog.PolicyMeeting},
		},
	}
}

func rec(n int, class doclog.Class, main, aux string) *doclog.ClassifiedRecord {
	return &doclog.ClassifiedRecord{
		Record:    doclog.Record{Number: n, ID: strconv.Itoa(n), Date: "2024-01-01", Title: main},
		Class:     class,
		MainTitle: main,
		AuxTitle:  aux,
	}
}

func members(t *testing.T, g *doclog.Grouping, n int) []int {
	t.Helper()
	grp := g.Of(n)
	require.NotNil(t, grp, "record %d has no group", n)
	return grp.Members
}

func TestGrouper_Group(t *testing.T) {
	t.Parallel()

	t.Run("closes update chains transitively", func(t *testing.T) {
		t.Parallel()

		// 30 updates 20, 20 updates 10; titles all differ.
		recs := []*doclog.ClassifiedRecord{
			rec(30, doclog.ClassDocument, "Gamma", "updates N20"),
			rec(10, doclog.ClassDocument, "Alpha", ""),
			rec(20, doclog.ClassDocument, "Beta", "updates N10"),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		require.Len(t, g.Groups, 1)
		for _, n := range []int{10, 20, 30} {
			assert.Equal(t, []int{10, 20, 30}, members(t, g, n))
		}
	})

	t.Run("merges title groups through references", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Alpha", ""),
			rec(2, doclog.ClassDocument, "Alpha", "v2"),
			rec(3, doclog.ClassDocument, "Beta", ""),
			rec(4, doclog.ClassDocument, "Gamma", "v2, updates N3 and updates N2"),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		require.Len(t, g.Groups, 1)
		assert.Equal(t, []int{1, 2, 3, 4}, members(t, g, 3))
	})

	t.Run("groups identical titles", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(5, doclog.ClassDocument, "Alpha", ""),
			rec(7, doclog.ClassDocument, "Alpha", "r2"),
			rec(6, doclog.ClassDocument, "Beta", ""),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		require.Len(t, g.Groups, 2)
		assert.Equal(t, []int{5, 7}, g.Groups[0].Members)
		assert.Equal(t, []int{6}, g.Groups[1].Members)
	})

	t.Run("applies title remap", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Transparent Aliases", ""),
			rec(2, doclog.ClassDocument, "Transparent Function Aliases", ""),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, members(t, g, 2))
	})

	t.Run("does not group no-group titles", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Composite types", ""),
			rec(2, doclog.ClassDocument, "Composite types", ""),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		assert.Len(t, g.Groups, 2)
		assert.Equal(t, []int{1}, members(t, g, 1))
	})

	t.Run("key override separates and joins", func(t *testing.T) {
		t.Parallel()

		ref := reference()
		ref.GroupKeys = map[int]string{2: "Alpha (second)", 3: "Alpha"}
		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Alpha", ""),
			rec(2, doclog.ClassDocument, "Alpha", ""),
			rec(3, doclog.ClassDocument, "Something else", ""),
		}

		g, err := group.NewGrouper(ref, nil).Group(recs)

		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, members(t, g, 1))
		assert.Equal(t, []int{2}, members(t, g, 2))
	})

	t.Run("scopes titles per class", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Alpha", ""),
			rec(2, doclog.ClassAdmin, "Alpha", ""),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		require.Len(t, g.Groups, 2)
		assert.Equal(t, doclog.ClassDocument, g.Of(1).Class)
		assert.Equal(t, doclog.ClassAdmin, g.Of(2).Class)
	})

	t.Run("leaves ineligible classes as singletons", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassMinutes, "Minutes", ""),
			rec(2, doclog.ClassMinutes, "Minutes", "updates N1"),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		assert.Len(t, g.Groups, 2)
	})

	t.Run("warns about dangling and cross-class references", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassAdmin, "Charter", ""),
			rec(2, doclog.ClassDocument, "Alpha", "updates N1"),
			rec(3, doclog.ClassDocument, "Beta", "updates N99"),
		}

		g, err := group.NewGrouper(reference(), logger).Group(recs)

		require.NoError(t, err)
		assert.Len(t, g.Groups, 3)
		assert.Contains(t, buf.String(), "update reference across classes")
		assert.Contains(t, buf.String(), "update reference to unknown record")
		assert.Contains(t, buf.String(), "target=99")
	})

	t.Run("ignores self references", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Alpha", "updates N1"),
		}

		g, err := group.NewGrouper(reference(), nil).Group(recs)

		require.NoError(t, err)
		assert.Equal(t, []int{1}, members(t, g, 1))
	})

	t.Run("is independent of input order", func(t *testing.T) {
		t.Parallel()

		a := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Alpha", ""),
			rec(2, doclog.ClassDocument, "Beta", "updates N1"),
			rec(3, doclog.ClassDocument, "Alpha", ""),
			rec(4, doclog.ClassDocument, "Delta", ""),
		}
		b := []*doclog.ClassifiedRecord{a[3], a[2], a[1], a[0]}

		ga, err := group.NewGrouper(reference(), nil).Group(a)
		require.NoError(t, err)
		gb, err := group.NewGrouper(reference(), nil).Group(b)
		require.NoError(t, err)

		assert.Equal(t, ga.Groups, gb.Groups)
	})

	t.Run("returns error for duplicate numbers", func(t *testing.T) {
		t.Parallel()

		recs := []*doclog.ClassifiedRecord{
			rec(1, doclog.ClassDocument, "Alpha", ""),
			rec(1, doclog.ClassDocument, "Beta", ""),
		}

		_, err := group.NewGrouper(reference(), nil).Group(recs)

		require.Error(t, err)
		assert.Equal(t, doclog.EINTERNAL, doclog.ErrorCode(err))
	})
}
