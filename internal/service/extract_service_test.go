package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPDFExtractor_RejectsNonPDF(t *testing.T) {
	e := NewPDFExtractor()
	if _, err := e.Extract(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := e.Extract(context.Background(), []byte("hello world")); err == nil {
		t.Fatalf("expected error for non-pdf input")
	}
}

func TestPDFExtractor_CorruptPDFDoesNotPanic(t *testing.T) {
	e := NewPDFExtractor()
	if _, err := e.Extract(context.Background(), []byte("%PDF-1.7\ngarbage without xref")); err == nil {
		t.Fatalf("expected error for corrupt pdf")
	}
}

func TestNormalizeText(t *testing.T) {
	got := normalizeText("  Week 1:\t\tAutomata\r\n\n\n\n\nWeek 2:  Grammars  ")
	if got != "Week 1: Automata\n\nWeek 2: Grammars" {
		t.Fatalf("unexpected normalized text: %q", got)
	}
}

func TestReadAllLimited(t *testing.T) {
	data, err := ReadAllLimited(strings.NewReader("12345"), 5)
	if err != nil || string(data) != "12345" {
		t.Fatalf("unexpected result: %q %v", data, err)
	}
	if _, err := ReadAllLimited(bytes.NewReader(make([]byte, 6)), 5); err == nil {
		t.Fatalf("expected error above the limit")
	}
}
