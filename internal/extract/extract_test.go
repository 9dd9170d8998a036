package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

var today = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, reply string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	c := NewClient("test-key", "test-model", log)
	c.baseURL = srv.URL
	return c
}

func TestExtract_Success(t *testing.T) {
	c := newTestClient(t, `{"task":"call the dentist","priority":"High","status":"Not Started","dueDate":"2025-03-11"}`)

	draft, err := c.Extract(context.Background(), "please call the dentist tomorrow", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Text != "call the dentist" {
		t.Errorf("text = %q", draft.Text)
	}
	if draft.Priority != task.PriorityHigh {
		t.Errorf("priority = %v", draft.Priority)
	}
	if draft.DueDate != "2025-03-11" {
		t.Errorf("dueDate = %q", draft.DueDate)
	}
	if draft.Status != task.DefaultStatus {
		t.Errorf("status = %q", draft.Status)
	}
}

func TestExtract_FencedReply(t *testing.T) {
	c := newTestClient(t, "```json\n{\"task\":\"buy milk\",\"priority\":\"Low\",\"dueDate\":\"2025-03-12\"}\n```")

	draft, err := c.Extract(context.Background(), "buy milk", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Text != "buy milk" || draft.Priority != task.PriorityLow {
		t.Errorf("unexpected draft: %+v", draft)
	}
}

func TestExtract_ProseWrappedReply(t *testing.T) {
	c := newTestClient(t, `Sure! Here is the task: {"task":"mow the lawn","priority":"Medium","dueDate":"2025-03-14"} Let me know if I can help further.`)

	draft, err := c.Extract(context.Background(), "mow the lawn friday", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Text != "mow the lawn" {
		t.Errorf("text = %q", draft.Text)
	}
}

func TestExtract_NotATask(t *testing.T) {
	c := newTestClient(t, `{"error":"Could not understand task"}`)

	_, err := c.Extract(context.Background(), "blue seven umbrella", today)
	if !errors.Is(err, ErrNotTask) {
		t.Fatalf("expected ErrNotTask, got %v", err)
	}
}

func TestExtract_NoJSON(t *testing.T) {
	c := newTestClient(t, "I'm sorry, I can't help with that.")

	_, err := c.Extract(context.Background(), "whatever", today)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestExtract_DefaultsMissingFields(t *testing.T) {
	c := newTestClient(t, `{"task":"vague thing"}`)

	draft, err := c.Extract(context.Background(), "do the vague thing", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Priority != task.PriorityMedium {
		t.Errorf("priority should default to Medium, got %v", draft.Priority)
	}
	if draft.Status != task.DefaultStatus {
		t.Errorf("status should default, got %q", draft.Status)
	}
	if want := today.AddDate(0, 0, defaultDueDays).Format(task.DateLayout); draft.DueDate != want {
		t.Errorf("dueDate should default to %s, got %q", want, draft.DueDate)
	}
}

func TestExtract_EmptyTranscript(t *testing.T) {
	c := newTestClient(t, `{"task":"x"}`)
	if _, err := c.Extract(context.Background(), "   ", today); !errors.Is(err, ErrNotTask) {
		t.Fatalf("expected ErrNotTask for empty transcript, got %v", err)
	}
}

func TestExtract_ServerErrorNotRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := NewClient("test-key", "test-model", log)
	c.baseURL = srv.URL

	_, err := c.Extract(context.Background(), "buy milk", today)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotTask) || errors.Is(err, ErrParse) {
		t.Errorf("transport failure must stay distinct from task-level errors: %v", err)
	}
}

func TestFirstJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"leading prose", `the answer: {"a":1} trailing`, `{"a":1}`, true},
		{"broken then valid", `{oops} then {"a":1}`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"none", "no json here", "", false},
		{"array only", `[1,2,3]`, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, ok := firstJSONObject(c.in)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && string(raw) != c.want {
				t.Errorf("got %s, want %s", raw, c.want)
			}
		})
	}
}
