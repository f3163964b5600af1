package search

import "testing"

func TestCollectDedupByURL(t *testing.T) {
	in := []Result{
		{Title: "first", URL: "http://e.example/1"},
		{Title: "dup", URL: "http://e.example/1"},
		{Title: "second", URL: "http://e.example/2"},
	}
	got := Collect(in, 10)
	if len(got) != 2 {
		t.Fatalf("Collect() len = %d, want 2", len(got))
	}
	// 首次出现者保留
	if got[0].Title != "first" || got[1].Title != "second" {
		t.Errorf("Collect() got = %+v", got)
	}
}

func TestCollectCapsAtMax(t *testing.T) {
	in := []Result{
		{URL: "http://e.example/1"},
		{URL: "http://e.example/2"},
		{URL: "http://e.example/3"},
	}
	got := Collect(in, 2)
	if len(got) != 2 {
		t.Errorf("Collect() len = %d, want 2", len(got))
	}
}

func TestCollectSkipsEmptyURL(t *testing.T) {
	in := []Result{
		{Title: "blank"},
		{Title: "kept", URL: "http://e.example/1"},
	}
	got := Collect(in, 10)
	if len(got) != 1 || got[0].Title != "kept" {
		t.Errorf("Collect() got = %+v", got)
	}
}

func TestCollectNonPositiveMax(t *testing.T) {
	in := []Result{{URL: "http://e.example/1"}}
	if got := Collect(in, 0); got != nil {
		t.Errorf("Collect(max=0) = %+v, want nil", got)
	}
	if got := Collect(in, -1); got != nil {
		t.Errorf("Collect(max=-1) = %+v, want nil", got)
	}
}

func TestCollectEmptyInput(t *testing.T) {
	if got := Collect(nil, 5); len(got) != 0 {
		t.Errorf("Collect(nil) = %+v, want empty", got)
	}
}
