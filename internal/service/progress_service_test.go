package service

import (
	"context"
	"errors"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/util"
	"testing"
	"time"
)

func seedRoadmap(t *testing.T, f *fixture, userID uint) (*model.Class, *RoadmapWithSteps) {
	t.Helper()
	class, topics := f.seedClass(t, userID, "A")
	f.ai.reply = `[{"step_name": "one"}, {"step_name": "two", "step_order": 2}]`
	res, err := f.svc.CreateRoadmap(context.Background(), userID, CreateRoadmapRequest{
		ClassID: class.ID, EndDate: "2026-03-10", TopicIDs: topicIDs(topics),
	})
	if err != nil {
		t.Fatalf("CreateRoadmap: %v", err)
	}
	return class, res
}

func TestMarkStepComplete_Idempotent(t *testing.T) {
	f := newFixture(t)
	_, rm := seedRoadmap(t, f, 1)
	svc := NewProgressService(f.roadmaps, f.progress)

	first := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)
	stepID := rm.Steps[0].ID

	svc.now = func() time.Time { return first }
	if err := svc.MarkStepComplete(context.Background(), 1, stepID); err != nil {
		t.Fatalf("first MarkStepComplete: %v", err)
	}
	svc.now = func() time.Time { return second }
	if err := svc.MarkStepComplete(context.Background(), 1, stepID); err != nil {
		t.Fatalf("second MarkStepComplete: %v", err)
	}

	rows, err := f.progress.Find(context.Background(), 1, stepID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one progress row, got %d", len(rows))
	}
	if !rows[0].Completed || rows[0].DateCompleted == nil || !rows[0].DateCompleted.Equal(second) {
		t.Fatalf("unexpected progress row: %#v", rows[0])
	}
}

func TestMarkStepComplete_RequiresOwnership(t *testing.T) {
	f := newFixture(t)
	_, rm := seedRoadmap(t, f, 1)
	svc := NewProgressService(f.roadmaps, f.progress)

	if err := svc.MarkStepComplete(context.Background(), 2, rm.Steps[0].ID); !errors.Is(err, util.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound for foreign step, got %v", err)
	}
	if err := svc.MarkStepComplete(context.Background(), 1, 9999); !errors.Is(err, util.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound for absent step, got %v", err)
	}
	if err := svc.MarkStepComplete(context.Background(), 1, 0); !errors.Is(err, util.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound for zero id, got %v", err)
	}

	rows, _ := f.progress.Find(context.Background(), 2, rm.Steps[0].ID)
	if len(rows) != 0 {
		t.Fatalf("foreign user must not create progress rows")
	}
}

func TestListCompletedSteps(t *testing.T) {
	f := newFixture(t)
	class, rm := seedRoadmap(t, f, 1)
	svc := NewProgressService(f.roadmaps, f.progress)

	empty, err := svc.ListCompletedSteps(context.Background(), 1, class.ID)
	if err != nil {
		t.Fatalf("ListCompletedSteps: %v", err)
	}
	if empty.RoadmapID != rm.Roadmap.ID || empty.StepIDs == nil || len(empty.StepIDs) != 0 {
		t.Fatalf("unexpected empty result: %#v", empty)
	}

	if err := svc.MarkStepComplete(context.Background(), 1, rm.Steps[1].ID); err != nil {
		t.Fatalf("MarkStepComplete: %v", err)
	}
	got, err := svc.ListCompletedSteps(context.Background(), 1, class.ID)
	if err != nil {
		t.Fatalf("ListCompletedSteps: %v", err)
	}
	if len(got.StepIDs) != 1 || got.StepIDs[0] != rm.Steps[1].ID {
		t.Fatalf("unexpected completed steps: %#v", got)
	}

	if _, err := svc.ListCompletedSteps(context.Background(), 2, class.ID); !errors.Is(err, util.ErrRoadmapNotFound) {
		t.Fatalf("expected ErrRoadmapNotFound for other user, got %v", err)
	}
}
