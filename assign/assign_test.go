package assign_test

import (
	"strconv"
	"testing"

	"github.com/fwojciec/doclog"
	"github.com/fwojciec/doclog/assign"
	"github.com/fwojciec/doclog/group"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reference() *doclog.Reference {
	return &doclog.Reference{
		Classes: map[doclog.Class]*doclog.ClassConfig{
			doclog.ClassDocument: {
				Class:   doclog.ClassDocument,
				Prefix:  "C",
				Policy:  doclog.PolicyAuto,
				Base:    4000,
				Cutoff:  "2023-10-01",
				Include: map[int]bool{100: true},
				Exclude: map[int]bool{300: true},
			},
			doclog.ClassAgenda: {
				Class:  doclog.ClassAgenda,
				Prefix: "CMA",
				Policy: doclog.PolicyMeeting,
				Base:   1,
			},
			doclog.ClassFPTeleAgenda: {
				Class:    doclog.ClassFPTeleAgenda,
				Prefix:   "CFPA",
				Policy:   doclog.PolicyMeeting,
				Base:     1,
				Sessions: true,
			},
			doclog.ClassMeeting: {
				Class:  doclog.ClassMeeting,
				Prefix: "CM",
				Policy: doclog.PolicyManual,
				Base:   1,
			},
			doclog.ClassPublication: {
				Class:       doclog.ClassPublication,
				Prefix:      "CPUB",
				Policy:      doclog.PolicyCatalog,
				AuxKeywords: []string{"editor's report"},
				Catalog: []*doclog.CatalogEntry{
					{
						Position: 2,
						Title:    "Bounds-checking interfaces",
						Keywords: []string{"bounds-checking"},
						Editions: []*doclog.CatalogEdition{{Number: 1, Name: "First edition"}},
					},
					{
						Position: 1,
						Title:    "Programming languages - C",
						Keywords: []string{"working draft", "editor's report"},
						Editions: []*doclog.CatalogEdition{
							{Number: 1, Name: "C17"},
							{Number: 2, Name: "C23", Cutoff: "2020-01-01"},
						},
					},
					{
						Position: 3,
						Title:    "Other publications",
						Default:  true,
						Editions: []*doclog.CatalogEdition{{Number: 1, Name: "Other"}},
					},
				},
			},
		},
	}
}

type fixture struct {
	n       int
	class   doclog.Class
	date    string
	main    string
	aux     string
	author  string
	noLink  bool
	meeting []string
}

func records(fs ...fixture) []*doclog.ClassifiedRecord {
	var out []*doclog.ClassifiedRecord
	for _, f := range fs {
		id := strconv.Itoa(f.n)
		title := f.main
		if f.aux != "" {
			title += ", " + f.aux
		}
		author := f.author
		if author == "" {
			author = "Author " + id
		}
		r := &doclog.ClassifiedRecord{
			Record: doclog.Record{
				Number: f.n,
				ID:     id,
				Date:   f.date,
				Author: author,
				Title:  title,
			},
			Class:     f.class,
			MainTitle: f.main,
			AuxTitle:  f.aux,
			Meetings:  f.meeting,
		}
		if !f.noLink {
			r.Link = doclog.BaseURL + "www/docs/n" + id + ".pdf"
		}
		out = append(out, r)
	}
	return out
}

func run(t *testing.T, ref *doclog.Reference, recs []*doclog.ClassifiedRecord) *doclog.Assignment {
	t.Helper()
	g, err := group.NewGrouper(ref, nil).Group(recs)
	require.NoError(t, err)
	a, err := assign.NewAssigner(ref, nil).Assign(recs, g)
	require.NoError(t, err)
	return a
}

func documents(a *doclog.Assignment, class doclog.Class) []*doclog.Document {
	var out []*doclog.Document
	for _, d := range a.Documents {
		if d.Class == class {
			out = append(out, d)
		}
	}
	return out
}

func extIDs(revs []*doclog.Revision) []string {
	var out []string
	for _, r := range revs {
		out = append(out, r.ExtID)
	}
	return out
}

func TestAssigner_Auto(t *testing.T) {
	t.Parallel()

	t.Run("numbers revisions densely by ascending number", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 3230, class: doclog.ClassDocument, date: "2024-01-10", main: "Widgets", aux: "v3", author: "Latest"},
			fixture{n: 3210, class: doclog.ClassDocument, date: "2024-03-01", main: "Widgets", aux: "v1"},
			fixture{n: 3220, class: doclog.ClassDocument, date: "2024-02-01", main: "Widgets", aux: "v2"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassDocument)
		require.Len(t, docs, 1)
		d := docs[0]
		assert.Equal(t, "C4000", d.ID)
		assert.Equal(t, "Widgets", d.Title)
		assert.Equal(t, "Latest", d.Author)
		require.Len(t, d.Revisions, 3)
		assert.Equal(t, []string{"N3210", "N3220", "N3230"}, extIDs(d.Revisions))
		for i, rev := range d.Revisions {
			assert.Equal(t, "r"+strconv.Itoa(i+1), rev.RevID)
			assert.Equal(t, "C4000r"+strconv.Itoa(i+1), rev.ID)
			assert.Equal(t, "C4000", rev.DocID)
		}
		assert.Equal(t, "C4000r1", a.RevisionIDs[3210])
		assert.Equal(t, "C4000r3", a.RevisionIDs[3230])
	})

	t.Run("includes groups dated exactly at the cutoff", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 3000, class: doclog.ClassDocument, date: "2023-10-01", main: "At cutoff"},
			fixture{n: 2999, class: doclog.ClassDocument, date: "2023-09-30", main: "Before cutoff"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassDocument)
		require.Len(t, docs, 1)
		assert.Equal(t, "At cutoff", docs[0].Title)
		assert.NotContains(t, a.RevisionIDs, 2999)
	})

	t.Run("includes listed groups before the cutoff", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 100, class: doclog.ClassDocument, date: "2023-09-30", main: "Old but relevant"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassDocument)
		require.Len(t, docs, 1)
		assert.Equal(t, "C4000", docs[0].ID)
	})

	t.Run("excludes listed groups after the cutoff", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 300, class: doclog.ClassDocument, date: "2024-01-01", main: "Ballot comments"},
		)

		a := run(t, reference(), recs)

		assert.Empty(t, documents(a, doclog.ClassDocument))
	})

	t.Run("qualifies on the representative date", func(t *testing.T) {
		t.Parallel()

		// The highest-numbered record postdates the cutoff, so the whole
		// group qualifies and keeps its early revision.
		recs := records(
			fixture{n: 2000, class: doclog.ClassDocument, date: "2020-01-01", main: "Long running"},
			fixture{n: 3300, class: doclog.ClassDocument, date: "2024-05-01", main: "Long running", aux: "v2"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassDocument)
		require.Len(t, docs, 1)
		assert.Equal(t, []string{"N2000", "N3300"}, extIDs(docs[0].Revisions))
	})

	t.Run("orders documents by earliest date then number", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 3101, class: doclog.ClassDocument, date: "2023-12-01", main: "Third"},
			fixture{n: 3100, class: doclog.ClassDocument, date: "2023-11-01", main: "Second"},
			fixture{n: 3150, class: doclog.ClassDocument, date: "2023-10-15", main: "First"},
			fixture{n: 3099, class: doclog.ClassDocument, date: "2023-11-01", main: "Also second"},
		)

		a := run(t, reference(), recs)

		var titles []string
		for _, d := range documents(a, doclog.ClassDocument) {
			titles = append(titles, d.ID+" "+d.Title)
		}
		assert.Equal(t, []string{"C4000 First", "C4001 Also second", "C4002 Second", "C4003 Third"}, titles)
	})

	t.Run("keeps identifiers when later records are appended", func(t *testing.T) {
		t.Parallel()

		base := []fixture{
			{n: 3100, class: doclog.ClassDocument, date: "2023-11-01", main: "Alpha"},
			{n: 3110, class: doclog.ClassDocument, date: "2023-12-01", main: "Beta"},
			{n: 3120, class: doclog.ClassAgenda, date: "2023-12-05", main: "Agenda, January 2024 meeting"},
		}
		extended := append(append([]fixture(nil), base...),
			fixture{n: 3200, class: doclog.ClassDocument, date: "2024-02-01", main: "Alpha", aux: "v2"},
			fixture{n: 3201, class: doclog.ClassDocument, date: "2024-02-01", main: "Gamma"},
			fixture{n: 3202, class: doclog.ClassAgenda, date: "2024-03-01", main: "Agenda, June 2024 meeting"},
		)

		before := run(t, reference(), records(base...))
		after := run(t, reference(), records(extended...))

		for n, id := range before.RevisionIDs {
			assert.Equal(t, id, after.RevisionIDs[n], "N%d", n)
		}
		assert.Empty(t, doclog.Verify(before.Documents, after.Documents))
		assert.Equal(t, "C4000r2", after.RevisionIDs[3200])
		assert.Equal(t, "C4002r1", after.RevisionIDs[3201])
		assert.Equal(t, "CMA2r1", after.RevisionIDs[3202])
	})

	t.Run("leaves records of unconfigured classes unassigned", func(t *testing.T) {
		t.Parallel()

		recs := records(fixture{n: 1, class: doclog.ClassAdmin, date: "2024-01-01", main: "Charter"})

		a := run(t, reference(), recs)

		assert.Empty(t, a.Documents)
		assert.Empty(t, a.RevisionIDs)
	})

	t.Run("publishes null link for unlinked records", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 3100, class: doclog.ClassDocument, date: "2024-01-01", main: "Alpha", noLink: true},
			fixture{n: 3101, class: doclog.ClassDocument, date: "2024-01-01", main: "Beta", meeting: []string{"2024-02"}},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassDocument)
		require.Len(t, docs, 2)
		assert.Nil(t, docs[0].Revisions[0].ExtURL)
		require.NotNil(t, docs[1].Revisions[0].ExtURL)
		assert.Equal(t, doclog.BaseURL+"www/docs/n3101.pdf", *docs[1].Revisions[0].ExtURL)
		assert.Equal(t, []string{"2024-02"}, docs[1].Revisions[0].Meetings)
	})
}

func TestAssigner_Catalog(t *testing.T) {
	t.Parallel()

	t.Run("maps records onto entries and editions", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 2000, class: doclog.ClassPublication, date: "2016-01-01", main: "Working draft"},
			fixture{n: 3000, class: doclog.ClassPublication, date: "2022-01-01", main: "Working draft"},
			fixture{n: 2900, class: doclog.ClassPublication, date: "2020-01-01", main: "Working draft", aux: "v2"},
			fixture{n: 1500, class: doclog.ClassPublication, date: "2010-01-01", main: "Bounds-checking interfaces draft"},
			fixture{n: 1600, class: doclog.ClassPublication, date: "2011-01-01", main: "Compendium of things"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassPublication)
		require.Len(t, docs, 3)

		c := docs[0]
		assert.Equal(t, "CPUB1", c.ID)
		assert.Equal(t, "Programming languages - C", c.Title)
		assert.Equal(t, doclog.DefaultAuthor, c.Author)
		require.Len(t, c.Editions, 2)
		assert.Equal(t, "CPUB1e1", c.Editions[0].ID)
		assert.Equal(t, "C17", c.Editions[0].Name)
		assert.Equal(t, []string{"N2000"}, extIDs(c.Editions[0].Revisions))
		assert.Equal(t, "CPUB1e2", c.Editions[1].ID)
		assert.Equal(t, []string{"N2900", "N3000"}, extIDs(c.Editions[1].Revisions))
		assert.Equal(t, "CPUB1e2r2", a.RevisionIDs[3000])

		assert.Equal(t, "CPUB2", docs[1].ID)
		assert.Equal(t, "CPUB2e1r1", a.RevisionIDs[1500])

		assert.Equal(t, "CPUB3", docs[2].ID)
		assert.Equal(t, "CPUB3e1r1", a.RevisionIDs[1600])
	})

	t.Run("cross-links auxiliary records", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 3000, class: doclog.ClassPublication, date: "2022-01-01", main: "Working draft"},
			fixture{n: 3001, class: doclog.ClassPublication, date: "2022-01-01", main: "Editor's report"},
			fixture{n: 3002, class: doclog.ClassPublication, date: "2022-02-01", main: "Editor's report", aux: "v2"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassPublication)
		require.Len(t, docs, 3)
		ed := docs[0].Editions[0]
		assert.Equal(t, []string{"CPUB1e2a1", "CPUB1e2a2"}, ed.Auxiliary)
		assert.Equal(t, []string{"N3000"}, extIDs(ed.Revisions))

		aux := docs[1]
		assert.Equal(t, "CPUB1e2a1", aux.ID)
		assert.Equal(t, "CPUB1e2", aux.Accompanies)
		assert.Equal(t, "Editor's report", aux.Title)
		assert.Equal(t, "CPUB1e2a1r1", a.RevisionIDs[3001])
		assert.Equal(t, "CPUB1e2a2r1", a.RevisionIDs[3002])
	})

	t.Run("applies overrides", func(t *testing.T) {
		t.Parallel()

		ref := reference()
		ref.CatalogOverrides = map[int]int{10: 2}
		ref.AuxiliaryOverrides = map[int]bool{11: true, 12: false}
		recs := records(
			fixture{n: 10, class: doclog.ClassPublication, date: "2010-01-01", main: "Working draft"},
			fixture{n: 11, class: doclog.ClassPublication, date: "2021-01-01", main: "Working draft status"},
			fixture{n: 12, class: doclog.ClassPublication, date: "2021-01-01", main: "Editor's report"},
		)

		a := run(t, ref, recs)

		assert.Equal(t, "CPUB2e1r1", a.RevisionIDs[10])
		assert.Equal(t, "CPUB1e2a1r1", a.RevisionIDs[11])
		assert.Equal(t, "CPUB1e2r1", a.RevisionIDs[12])
	})

	t.Run("returns error for override to unknown position", func(t *testing.T) {
		t.Parallel()

		ref := reference()
		ref.CatalogOverrides = map[int]int{10: 99}
		recs := records(fixture{n: 10, class: doclog.ClassPublication, date: "2010-01-01", main: "Working draft"})
		g, err := group.NewGrouper(ref, nil).Group(recs)
		require.NoError(t, err)

		_, err = assign.NewAssigner(ref, nil).Assign(recs, g)

		require.Error(t, err)
		assert.Equal(t, doclog.EINVALID, doclog.ErrorCode(err))
	})

	t.Run("catalog identifiers do not depend on other records", func(t *testing.T) {
		t.Parallel()

		only := run(t, reference(), records(
			fixture{n: 1500, class: doclog.ClassPublication, date: "2010-01-01", main: "Bounds-checking interfaces draft"},
		))
		more := run(t, reference(), records(
			fixture{n: 1400, class: doclog.ClassPublication, date: "2009-01-01", main: "Working draft"},
			fixture{n: 1500, class: doclog.ClassPublication, date: "2010-01-01", main: "Bounds-checking interfaces draft"},
		))

		assert.Equal(t, only.RevisionIDs[1500], more.RevisionIDs[1500])
	})
}

func TestAssigner_Meeting(t *testing.T) {
	t.Parallel()

	t.Run("groups records by meeting month", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 3100, class: doclog.ClassAgenda, date: "2023-12-01", main: "Agenda, Strasbourg, January 22-26, 2024"},
			fixture{n: 3150, class: doclog.ClassAgenda, date: "2023-11-20", main: "Preliminary agenda for 2024-01-22"},
			fixture{n: 3160, class: doclog.ClassAgenda, date: "2024-05-01", main: "Agenda, Minneapolis, June 2024"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassAgenda)
		require.Len(t, docs, 2)
		assert.Equal(t, "CMA1", docs[0].ID)
		// Revisions follow date, so the later-numbered preliminary agenda is r1.
		assert.Equal(t, []string{"N3150", "N3100"}, extIDs(docs[0].Revisions))
		assert.Equal(t, "Agenda, Strasbourg, January 22-26, 2024", docs[0].Title)
		assert.Equal(t, "CMA2", docs[1].ID)
	})

	t.Run("uses meeting date overrides", func(t *testing.T) {
		t.Parallel()

		ref := reference()
		ref.MeetingDates = map[int]string{3101: "2024-01"}
		recs := records(
			fixture{n: 3100, class: doclog.ClassAgenda, date: "2023-12-01", main: "Agenda, January 2024"},
			fixture{n: 3101, class: doclog.ClassAgenda, date: "2023-12-02", main: "Agenda, June 2023 meeting, revised"},
		)

		a := run(t, ref, recs)

		docs := documents(a, doclog.ClassAgenda)
		require.Len(t, docs, 1)
		assert.Len(t, docs[0].Revisions, 2)
	})

	t.Run("skips an invalid numeric date in the title", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 3100, class: doclog.ClassAgenda, date: "2023-11-01", main: "Agenda 2024-00-22, Strasbourg, January 2024"},
			fixture{n: 3101, class: doclog.ClassAgenda, date: "2023-12-05", main: "Agenda, Strasbourg, January 2024"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassAgenda)
		require.Len(t, docs, 1)
		assert.Equal(t, []string{"N3100", "N3101"}, extIDs(docs[0].Revisions))
	})

	t.Run("falls back to the record date", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 10, class: doclog.ClassAgenda, date: "1995-03-01", main: "Agenda"},
			fixture{n: 11, class: doclog.ClassAgenda, date: "1995-03-20", main: "Agenda"},
			fixture{n: 12, class: doclog.ClassAgenda, date: "1995-04-02", main: "Agenda"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassAgenda)
		require.Len(t, docs, 2)
		assert.Equal(t, []string{"N10", "N11"}, extIDs(docs[0].Revisions))
	})

	t.Run("distinguishes sessions by day", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 20, class: doclog.ClassFPTeleAgenda, date: "2024-01-01", main: "FP teleconference agenda, 10 January 2024"},
			fixture{n: 21, class: doclog.ClassFPTeleAgenda, date: "2024-01-02", main: "FP teleconference agenda, 24 January 2024"},
			fixture{n: 22, class: doclog.ClassFPTeleAgenda, date: "2024-01-03", main: "FP teleconference agenda, January 10, 2024"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassFPTeleAgenda)
		require.Len(t, docs, 2)
		assert.Equal(t, []string{"N20", "N22"}, extIDs(docs[0].Revisions))
		assert.Equal(t, "CFPA2r1", a.RevisionIDs[21])
	})
}

func TestAssigner_Manual(t *testing.T) {
	t.Parallel()

	t.Run("keeps records separate by default", func(t *testing.T) {
		t.Parallel()

		recs := records(
			fixture{n: 30, class: doclog.ClassMeeting, date: "2024-01-02", main: "Venue"},
			fixture{n: 31, class: doclog.ClassMeeting, date: "2024-01-01", main: "Venue"},
		)

		a := run(t, reference(), recs)

		docs := documents(a, doclog.ClassMeeting)
		require.Len(t, docs, 2)
		assert.Equal(t, "CM1r1", a.RevisionIDs[31])
		assert.Equal(t, "CM2r1", a.RevisionIDs[30])
	})

	t.Run("groups listed records", func(t *testing.T) {
		t.Parallel()

		ref := reference()
		ref.MeetingGroups = [][]int{{32, 30, 999}}
		recs := records(
			fixture{n: 30, class: doclog.ClassMeeting, date: "2024-01-01", main: "Venue"},
			fixture{n: 31, class: doclog.ClassMeeting, date: "2024-01-05", main: "Hotel"},
			fixture{n: 32, class: doclog.ClassMeeting, date: "2024-02-01", main: "Venue, updated"},
		)

		a := run(t, ref, recs)

		docs := documents(a, doclog.ClassMeeting)
		require.Len(t, docs, 2)
		assert.Equal(t, []string{"N30", "N32"}, extIDs(docs[0].Revisions))
		assert.Equal(t, "Venue, updated", docs[0].Title)
		assert.Equal(t, "CM2r1", a.RevisionIDs[31])
	})

	t.Run("returns error for record in two groups", func(t *testing.T) {
		t.Parallel()

		ref := reference()
		ref.MeetingGroups = [][]int{{30, 31}, {31, 32}}
		recs := records(
			fixture{n: 30, class: doclog.ClassMeeting, date: "2024-01-01", main: "Venue"},
			fixture{n: 31, class: doclog.ClassMeeting, date: "2024-01-05", main: "Hotel"},
			fixture{n: 32, class: doclog.ClassMeeting, date: "2024-02-01", main: "Venue"},
		)
		g, err := group.NewGrouper(ref, nil).Group(recs)
		require.NoError(t, err)

		_, err = assign.NewAssigner(ref, nil).Assign(recs, g)

		require.Error(t, err)
		assert.Equal(t, doclog.EINVALID, doclog.ErrorCode(err))
		assert.Contains(t, doclog.ErrorMessage(err), "N31")
	})
}
