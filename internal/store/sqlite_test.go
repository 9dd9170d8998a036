package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_AppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	drafts := []task.Draft{
		{Text: "pay rent", Priority: task.PriorityHigh, Status: "Not Started", DueDate: "2025-03-11"},
		{Text: "walk the dog", Priority: task.PriorityLow, Status: "Not Started", DueDate: "2025-03-12"},
	}
	for _, d := range drafts {
		if err := s.Append(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	tasks, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if tasks[0].Text != "pay rent" || tasks[1].Text != "walk the dog" {
		t.Errorf("insertion order not preserved: %v", tasks)
	}
	if tasks[0].Priority != task.PriorityHigh {
		t.Errorf("priority round trip failed: %v", tasks[0].Priority)
	}
	if tasks[0].Row != 2 || tasks[1].Row != 3 {
		t.Errorf("row numbering should start at 2, got %d and %d", tasks[0].Row, tasks[1].Row)
	}
}

func TestSQLiteStore_DefaultsEmptyStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Append(ctx, task.Draft{Text: "x", Priority: task.PriorityMedium}); err != nil {
		t.Fatalf("append: %v", err)
	}

	tasks, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks[0].Status != task.DefaultStatus {
		t.Errorf("status = %q, want default", tasks[0].Status)
	}
}

func TestSQLiteStore_EmptyList(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %d", len(tasks))
	}
}

func TestRowToTask_RaggedRows(t *testing.T) {
	cases := []struct {
		name string
		row  []interface{}
		want task.Task
	}{
		{
			name: "full row",
			row:  []interface{}{"pay rent", "High", "In Progress", "2025-03-11"},
			want: task.Task{Text: "pay rent", Priority: task.PriorityHigh, Status: "In Progress", DueDate: "2025-03-11", Row: 2},
		},
		{
			name: "missing trailing cells",
			row:  []interface{}{"walk the dog"},
			want: task.Task{Text: "walk the dog", Priority: task.PriorityMedium, Status: task.DefaultStatus, Row: 2},
		},
		{
			name: "blank status",
			row:  []interface{}{"x", "Low", "", "2025-03-12"},
			want: task.Task{Text: "x", Priority: task.PriorityLow, Status: task.DefaultStatus, DueDate: "2025-03-12", Row: 2},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := rowToTask(c.row, 2)
			if got != c.want {
				t.Errorf("rowToTask = %+v, want %+v", got, c.want)
			}
		})
	}
}
