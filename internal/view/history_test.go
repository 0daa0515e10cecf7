package view

import (
	"fmt"
	"testing"
)

func TestHistory(t *testing.T) {
	h := NewHistory(0)

	if h.Path() != "/" {
		t.Errorf("Path() = %q, want /", h.Path())
	}
	if h.Back() {
		t.Error("Back() at the first entry should report false")
	}

	h.Push("/bill")
	h.Push("/bill")
	h.Push("/quote")
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (repeated push is a no-op)", h.Len())
	}
	if !h.Back() || h.Path() != "/bill" {
		t.Errorf("after Back() Path() = %q, want /bill", h.Path())
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Push(fmt.Sprintf("/p%d", i))
	}

	got := h.Entries()
	want := []string{"/p2", "/p3", "/p4"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"  ", "/"},
		{"/quote", "/quote"},
		{"/quote?ref=1", "/quote"},
		{"/quote#top", "/quote"},
		{"?x=1", "/"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
