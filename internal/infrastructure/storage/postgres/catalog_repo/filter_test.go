package catalog_repo

import (
	"testing"

	"gudang/internal/core/apperror"
	"gudang/internal/domain/filter"
)

func newTestRepo(cols ...string) *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", cols, func() any { return nil })
}

func TestApplyAdvancedFilters_Operators(t *testing.T) {
	repo := newTestRepo("id", "col1")

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Equal",
			item:     filter.Item{Field: "col1", Operator: filter.Equal, Value: 10},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 = $1",
			wantArgs: []any{10},
		},
		{
			name:     "NotEqual",
			item:     filter.Item{Field: "col1", Operator: filter.NotEqual, Value: 10},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 <> $1",
			wantArgs: []any{10},
		},
		{
			name:     "LessOrEqual",
			item:     filter.Item{Field: "col1", Operator: filter.LessOrEqual, Value: 5},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 <= $1",
			wantArgs: []any{5},
		},
		{
			name:     "GreaterOrEqual",
			item:     filter.Item{Field: "col1", Operator: filter.GreaterOrEqual, Value: 5},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 >= $1",
			wantArgs: []any{5},
		},
		{
			name:     "Contains",
			item:     filter.Item{Field: "col1", Operator: filter.Contains, Value: "abc"},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 ILIKE $1",
			wantArgs: []any{"%abc%"},
		},
		{
			name:    "IsNull",
			item:    filter.Item{Field: "col1", Operator: filter.IsNull},
			wantSQL: "SELECT id, col1 FROM test_table WHERE col1 IS NULL",
		},
		{
			name:    "IsNotNull",
			item:    filter.Item{Field: "col1", Operator: filter.IsNotNull},
			wantSQL: "SELECT id, col1 FROM test_table WHERE col1 IS NOT NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{tt.item})
			if err != nil {
				t.Fatalf("applyAdvancedFilters failed: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			if len(args) > 0 && args[0] != tt.wantArgs[0] {
				t.Errorf("Args mismatch\nwant: %v\ngot:  %v", tt.wantArgs[0], args[0])
			}
		})
	}
}

func TestApplyAdvancedFilters_RejectsUnknownColumn(t *testing.T) {
	repo := newTestRepo("id", "name")

	_, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
		{Field: "name; DROP TABLE test_table", Operator: filter.Equal, Value: "x"},
	})

	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo("id", "name", "created_at")

	tests := []struct {
		in   string
		want string
	}{
		{"", "name ASC"},
		{"name", "name ASC"},
		{"-created_at", "created_at DESC"},
		{"+id", "id ASC"},
	}

	for _, tt := range tests {
		got, err := repo.parseOrderBy(tt.in)
		if err != nil {
			t.Fatalf("parseOrderBy(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseOrderBy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOrderBy_RejectsUnknownColumn(t *testing.T) {
	repo := newTestRepo("id", "name")

	if _, err := repo.parseOrderBy("password"); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := repo.parseOrderBy("-password"); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
