package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/util"
	"testing"
)

var fakePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

type fakeExtractor struct {
	text string
	err  error
}

func (e fakeExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return e.text, e.err
}

func newClassFixture(t *testing.T, extractor TextExtractor) (*fixture, *ClassService, string) {
	t.Helper()
	f := newFixture(t)
	dir := t.TempDir()
	storage := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: dir})
	svc := NewClassService(f.classes, f.topics, f.roadmaps, extractor, NewTopicService(f.ai, testAIConfig), storage)
	return f, svc, dir
}

var validClassInput = CreateClassInput{
	ClassName: "Theory of Computation",
	Professor: "Sipser",
	Session:   "Fall",
	Semester:  "2026",
}

func TestCreateClass_StoresClassTopicsAndFile(t *testing.T) {
	f, svc, dir := newClassFixture(t, fakeExtractor{text: "Automata and languages"})
	f.ai.reply = "Finite Automata\n\nRegular Expressions\n"

	in := validClassInput
	in.Description = "  core theory course "
	res, err := svc.CreateClass(context.Background(), 3, in, fakePDF)
	if err != nil {
		t.Fatalf("CreateClass: %v", err)
	}

	if res.TopicsAdded != 2 || res.Class.ID == 0 || res.Class.Syllabus != "Automata and languages" {
		t.Fatalf("unexpected result: %#v", res)
	}
	if res.Class.Description == nil || *res.Class.Description != "core theory course" {
		t.Fatalf("unexpected description: %v", res.Class.Description)
	}

	if !strings.HasPrefix(res.Class.SyllabusFile, "syllabi/3/") || !strings.HasSuffix(res.Class.SyllabusFile, ".pdf") {
		t.Fatalf("unexpected syllabus key: %q", res.Class.SyllabusFile)
	}
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Class.SyllabusFile)))
	if err != nil || string(stored) != string(fakePDF) {
		t.Fatalf("syllabus file not stored: %v", err)
	}

	topics, err := svc.GetClassTopics(context.Background(), res.Class.ID, 3)
	if err != nil {
		t.Fatalf("GetClassTopics: %v", err)
	}
	if len(topics) != 2 || topics[0].Title != "Finite Automata" || topics[1].Title != "Regular Expressions" {
		t.Fatalf("unexpected topics: %#v", topics)
	}
}

func TestCreateClass_AIFailureCreatesNothing(t *testing.T) {
	f, svc, _ := newClassFixture(t, fakeExtractor{text: "text"})
	f.ai.err = &CompletionError{Kind: CompletionUnavailable, Message: "timeout"}

	_, err := svc.CreateClass(context.Background(), 1, validClassInput, fakePDF)
	if !errors.Is(err, util.ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}

	var classes int64
	f.db.Model(&model.Class{}).Count(&classes)
	if classes != 0 {
		t.Fatalf("AI failure must not create a class, got %d", classes)
	}
}

func TestCreateClass_Validation(t *testing.T) {
	f, svc, _ := newClassFixture(t, fakeExtractor{text: "text"})

	missing := validClassInput
	missing.Professor = "   "

	cases := []struct {
		name string
		in   CreateClassInput
		data []byte
		want *util.AppError
	}{
		{"no file", validClassInput, nil, util.ErrNoSyllabusFile},
		{"missing field", missing, fakePDF, util.ErrMissingClassFields},
		{"not a pdf", validClassInput, []byte("plain text syllabus"), util.ErrInvalidSyllabusFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateClass(context.Background(), 1, tc.in, tc.data); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if f.ai.calls() != 0 {
		t.Fatalf("validation failures must not call the AI")
	}
}

func TestCreateClass_ExtractionFailure(t *testing.T) {
	_, svc, _ := newClassFixture(t, fakeExtractor{err: errors.New("corrupt xref table")})

	_, err := svc.CreateClass(context.Background(), 1, validClassInput, fakePDF)
	if !errors.Is(err, util.ErrExtractionFailed) || util.KindOf(err) != util.KindUpstream {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestPreviewTopics_PersistsNothing(t *testing.T) {
	f, svc, _ := newClassFixture(t, fakeExtractor{text: "text"})
	f.ai.reply = "A\nB"

	preview, err := svc.PreviewTopics(context.Background(), fakePDF)
	if err != nil {
		t.Fatalf("PreviewTopics: %v", err)
	}
	if len(preview.Topics) != 2 {
		t.Fatalf("unexpected preview: %#v", preview)
	}

	var classes int64
	f.db.Model(&model.Class{}).Count(&classes)
	if classes != 0 {
		t.Fatalf("preview must not persist, got %d classes", classes)
	}
}

func TestClassQueries_Ownership(t *testing.T) {
	f, svc, _ := newClassFixture(t, fakeExtractor{})
	class, _ := f.seedClass(t, 1, "Finite Automata", "Turing Machines")
	f.seedClass(t, 1, "Other")
	f.seedClass(t, 2, "Not mine")

	classes, err := svc.ListClasses(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes for user 1, got %d", len(classes))
	}

	details, err := svc.GetClassDetails(context.Background(), class.ID, 1)
	if err != nil {
		t.Fatalf("GetClassDetails: %v", err)
	}
	if details.ID != class.ID || len(details.Topics) != 2 || details.Roadmap != nil {
		t.Fatalf("unexpected details: %#v", details)
	}

	if _, err := svc.GetClassDetails(context.Background(), class.ID, 2); !errors.Is(err, util.ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
	if _, err := svc.GetClassTopics(context.Background(), class.ID, 2); !errors.Is(err, util.ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}

	f.ai.reply = `[{"step_name": "one"}]`
	if _, err := f.svc.CreateRoadmap(context.Background(), 1, CreateRoadmapRequest{
		ClassID: class.ID, EndDate: "2026-03-10", TopicIDs: []uint{details.Topics[0].ID},
	}); err != nil {
		t.Fatalf("CreateRoadmap: %v", err)
	}
	details, err = svc.GetClassDetails(context.Background(), class.ID, 1)
	if err != nil {
		t.Fatalf("GetClassDetails: %v", err)
	}
	if details.Roadmap == nil || details.Roadmap.EndDate != "2026-03-10" {
		t.Fatalf("details must include the roadmap: %#v", details.Roadmap)
	}
}
