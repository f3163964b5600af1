package search

import "testing"

func TestNormalizeResultsField(t *testing.T) {
	payload := []byte(`{"results":[{"title":"A","url":"http://a.example","content":"body"}]}`)
	got := Normalize(payload)
	if len(got) != 1 {
		t.Fatalf("Normalize() len = %d, want 1", len(got))
	}
	if got[0].Title != "A" || got[0].URL != "http://a.example" || got[0].Content != "body" {
		t.Errorf("Normalize() got = %+v", got[0])
	}
}

func TestNormalizeDataField(t *testing.T) {
	payload := []byte(`{"data":[{"title":"B","url":"http://b.example"}]}`)
	got := Normalize(payload)
	if len(got) != 1 || got[0].URL != "http://b.example" {
		t.Errorf("Normalize() got = %+v, want one result from data", got)
	}
}

func TestNormalizeResultsBeatsData(t *testing.T) {
	// data 在文档中先出现，但 results 优先级更高
	payload := []byte(`{"data":[{"url":"http://data.example"}],"results":[{"url":"http://results.example"}]}`)
	got := Normalize(payload)
	if len(got) != 1 || got[0].URL != "http://results.example" {
		t.Errorf("Normalize() got = %+v, want results field to win", got)
	}
}

func TestNormalizeFirstListFieldByDocumentOrder(t *testing.T) {
	payload := []byte(`{"meta":1,"items":[{"url":"http://first.example"}],"extra":[{"url":"http://second.example"}]}`)
	got := Normalize(payload)
	if len(got) != 1 || got[0].URL != "http://first.example" {
		t.Errorf("Normalize() got = %+v, want first list field in document order", got)
	}
}

func TestNormalizeNonListResultsFallsThrough(t *testing.T) {
	payload := []byte(`{"results":{"nested":true},"data":[{"url":"http://d.example"}]}`)
	got := Normalize(payload)
	if len(got) != 1 || got[0].URL != "http://d.example" {
		t.Errorf("Normalize() got = %+v, want fallthrough to data", got)
	}
}

func TestNormalizeFieldAliases(t *testing.T) {
	payload := []byte(`{"results":[{"name":"N","link":"http://l.example","snippet":"S"}]}`)
	got := Normalize(payload)
	if len(got) != 1 {
		t.Fatalf("Normalize() len = %d, want 1", len(got))
	}
	if got[0].Title != "N" || got[0].URL != "http://l.example" || got[0].Content != "S" {
		t.Errorf("Normalize() got = %+v, want name/link/snippet mapped", got[0])
	}
}

func TestNormalizeContentPreference(t *testing.T) {
	payload := []byte(`{"results":[
		{"url":"http://1.example","content":"c","snippet":"s","text":"t"},
		{"url":"http://2.example","snippet":"s","text":"t"},
		{"url":"http://3.example","text":"t"}
	]}`)
	got := Normalize(payload)
	if len(got) != 3 {
		t.Fatalf("Normalize() len = %d, want 3", len(got))
	}
	wants := []string{"c", "s", "t"}
	for i, want := range wants {
		if got[i].Content != want {
			t.Errorf("Normalize() [%d].Content = %q, want %q", i, got[i].Content, want)
		}
	}
}

func TestNormalizeDropsEmptyURL(t *testing.T) {
	payload := []byte(`{"results":[
		{"title":"no url"},
		{"title":"empty url","url":""},
		{"title":"kept","url":"http://kept.example"}
	]}`)
	got := Normalize(payload)
	if len(got) != 1 || got[0].Title != "kept" {
		t.Errorf("Normalize() got = %+v, want only the record with a url", got)
	}
}

func TestNormalizeBareArray(t *testing.T) {
	payload := []byte(`[{"url":"http://a.example"},{"url":"http://b.example"}]`)
	got := Normalize(payload)
	if len(got) != 2 {
		t.Errorf("Normalize() len = %d, want 2", len(got))
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	payload := []byte(`{"results":[{"url":"http://1.example"},{"url":"http://2.example"},{"url":"http://3.example"}]}`)
	got := Normalize(payload)
	for i, want := range []string{"http://1.example", "http://2.example", "http://3.example"} {
		if got[i].URL != want {
			t.Errorf("Normalize() [%d].URL = %q, want %q", i, got[i].URL, want)
		}
	}
}

func TestNormalizeGarbage(t *testing.T) {
	for _, payload := range []string{``, `not json`, `42`, `"str"`, `{"a":1}`, `{"results":[]}`} {
		if got := Normalize([]byte(payload)); len(got) != 0 {
			t.Errorf("Normalize(%q) = %+v, want empty", payload, got)
		}
	}
}

func TestNormalizeSkipsNonObjectItems(t *testing.T) {
	payload := []byte(`{"results":[1,"x",{"url":"http://ok.example"}]}`)
	got := Normalize(payload)
	if len(got) != 1 || got[0].URL != "http://ok.example" {
		t.Errorf("Normalize() got = %+v, want non-object items skipped", got)
	}
}
