package query_test

import (
	"testing"
	"time"

	"github.com/sentinel-news/sentinel/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "items", "i").
		Project("id", "ID").
		Project("name", "Name").
		Project("status", "Status").
		Project("created_at", "CreatedAt")
}

func TestBuild(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).Build()

	want := "SELECT i.id, i.name, i.status, i.created_at FROM public.items i"
	if sql != want {
		t.Errorf("Build() = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want none", args)
	}
}

func TestBuildCount(t *testing.T) {
	status := "active"

	sql, args := query.
		NewBuilder(testProjection()).
		WhereEquals("Status", &status).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.items i WHERE i.status = $1"
	if sql != want {
		t.Errorf("BuildCount() = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != &status {
		t.Errorf("BuildCount() args = %v", args)
	}
}

func TestBuildPage(t *testing.T) {
	sort := query.SortField{Field: "CreatedAt", Descending: true}

	sql, _ := query.NewBuilder(testProjection(), sort).BuildPage(2, 10)

	want := "SELECT i.id, i.name, i.status, i.created_at FROM public.items i" +
		" ORDER BY i.created_at DESC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("BuildPage() = %q, want %q", sql, want)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("ID", 42)

	want := "SELECT i.id, i.name, i.status, i.created_at FROM public.items i WHERE i.id = $1"
	if sql != want {
		t.Errorf("BuildSingle() = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != 42 {
		t.Errorf("BuildSingle() args = %v", args)
	}
}

func TestParameterNumbering(t *testing.T) {
	name := "report"
	status := "active"
	search := "quarterly"

	sql, args := query.
		NewBuilder(testProjection()).
		WhereContains("Name", &name).
		WhereEquals("Status", &status).
		WhereSearch(&search, "Name", "Status").
		Build()

	want := "SELECT i.id, i.name, i.status, i.created_at FROM public.items i" +
		" WHERE i.name ILIKE $1 AND i.status = $2 AND (i.name ILIKE $3 OR i.status ILIKE $4)"
	if sql != want {
		t.Errorf("Build() = %q, want %q", sql, want)
	}
	if len(args) != 4 {
		t.Errorf("Build() args = %d, want 4", len(args))
	}
}

func TestWhereRange(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	sql, args := query.
		NewBuilder(testProjection()).
		WhereGte("CreatedAt", &from).
		WhereLte("CreatedAt", &to).
		Build()

	want := "SELECT i.id, i.name, i.status, i.created_at FROM public.items i" +
		" WHERE i.created_at >= $1 AND i.created_at <= $2"
	if sql != want {
		t.Errorf("Build() = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("Build() args = %d, want 2", len(args))
	}
}

func TestNilConditionsSkipped(t *testing.T) {
	sql, args := query.
		NewBuilder(testProjection()).
		WhereEquals("Status", (*string)(nil)).
		WhereContains("Name", nil).
		WhereGte("CreatedAt", (*time.Time)(nil)).
		Build()

	want := "SELECT i.id, i.name, i.status, i.created_at FROM public.items i"
	if sql != want {
		t.Errorf("Build() = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want none", args)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			"empty",
			"",
			nil,
		},
		{
			"single ascending",
			"name",
			[]query.SortField{{Field: "name"}},
		},
		{
			"mixed directions",
			"name,-createdAt",
			[]query.SortField{
				{Field: "name"},
				{Field: "createdAt", Descending: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
