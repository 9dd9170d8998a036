package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

type MockStore struct {
	ListFunc func(ctx context.Context) ([]task.Task, error)
}

func (m *MockStore) List(ctx context.Context) ([]task.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) Append(ctx context.Context, d task.Draft) error { return nil }

type MockDialer struct {
	Calls []string
	Err   error
}

func (m *MockDialer) Call(voiceURL string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Calls = append(m.Calls, voiceURL)
	return "CA123", nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func dueTomorrow() []task.Task {
	return []task.Task{
		{Text: "x", Priority: task.PriorityHigh, Status: "Not Started",
			DueDate: time.Now().AddDate(0, 0, 1).Format(task.DateLayout)},
	}
}

func TestRun_SkipsCallWhenNothingDue(t *testing.T) {
	dialer := &MockDialer{}
	b := NewBriefer(&MockStore{}, dialer, 5, "https://example.com", quietLogger())

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dialer.Calls) != 0 {
		t.Errorf("no call should be placed with an empty due list, got %v", dialer.Calls)
	}
}

func TestRun_PlacesCallWhenTasksDue(t *testing.T) {
	dialer := &MockDialer{}
	st := &MockStore{
		ListFunc: func(ctx context.Context) ([]task.Task, error) { return dueTomorrow(), nil },
	}
	b := NewBriefer(st, dialer, 5, "https://example.com", quietLogger())

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dialer.Calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", len(dialer.Calls))
	}
	if dialer.Calls[0] != "https://example.com/voice/briefing" {
		t.Errorf("call URL = %q", dialer.Calls[0])
	}
}

func TestRun_StoreFailureSurfaces(t *testing.T) {
	errList := errors.New("sheet unreachable")
	st := &MockStore{
		ListFunc: func(ctx context.Context) ([]task.Task, error) { return nil, errList },
	}
	b := NewBriefer(st, &MockDialer{}, 5, "https://example.com", quietLogger())

	if err := b.Run(context.Background()); !errors.Is(err, errList) {
		t.Errorf("expected the store error, got %v", err)
	}
}

func TestRun_NilDialerIsNoOp(t *testing.T) {
	st := &MockStore{
		ListFunc: func(ctx context.Context) ([]task.Task, error) { return dueTomorrow(), nil },
	}
	b := NewBriefer(st, nil, 5, "https://example.com", quietLogger())

	if err := b.Run(context.Background()); err != nil {
		t.Errorf("nil dialer should degrade to a no-op, got %v", err)
	}
}

func TestRun_DialerFailureSurfaces(t *testing.T) {
	st := &MockStore{
		ListFunc: func(ctx context.Context) ([]task.Task, error) { return dueTomorrow(), nil },
	}
	errCall := errors.New("twilio down")
	b := NewBriefer(st, &MockDialer{Err: errCall}, 5, "https://example.com", quietLogger())

	if err := b.Run(context.Background()); !errors.Is(err, errCall) {
		t.Errorf("expected the dialer error, got %v", err)
	}
}
