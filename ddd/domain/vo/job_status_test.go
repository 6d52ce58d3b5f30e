package vo

import (
	"encoding/json"
	"testing"
)

func TestFileListMarshalShape(t *testing.T) {
	files := FileList{
		{Label: "portrait", URL: "http://v/p.mp4"},
		{Label: "landscape", URL: "http://v/l.mp4"},
	}
	data, err := json.Marshal(files)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"portrait":"http://v/p.mp4"},{"landscape":"http://v/l.mp4"}]`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}

	var back FileList
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[0] != files[0] || back[1] != files[1] {
		t.Fatalf("round trip produced %+v", back)
	}
}

func TestFileListUnmarshalRejectsMultiPair(t *testing.T) {
	var files FileList
	if err := json.Unmarshal([]byte(`[{"a":"1","b":"2"}]`), &files); err == nil {
		t.Fatal("entry with two labels should be rejected")
	}
	if err := json.Unmarshal([]byte(`[{}]`), &files); err == nil {
		t.Fatal("empty entry should be rejected")
	}
}

func TestFileListAppend(t *testing.T) {
	files := FileList{{Label: "srt", URL: "http://v/1.srt"}}

	grown := files.Append("csv", "http://v/1.csv")
	if len(grown) != 2 || grown[1].Label != "csv" {
		t.Fatalf("append produced %+v", grown)
	}

	// 同名label替换原位置, 不追加
	replaced := grown.Append("srt", "http://v/2.srt")
	if len(replaced) != 2 {
		t.Fatalf("replace grew the list: %+v", replaced)
	}
	if replaced[0].URL != "http://v/2.srt" {
		t.Fatalf("replace did not update in place: %+v", replaced)
	}
	// 原列表不受影响
	if files[0].URL != "http://v/1.srt" {
		t.Fatalf("Append mutated receiver: %+v", files)
	}
}

func TestStatusIsFinal(t *testing.T) {
	finals := []Status{StatusCompleted, StatusFailed, StatusDeleted}
	for _, s := range finals {
		if !s.IsFinal() {
			t.Errorf("%s should be final", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusInProgress} {
		if s.IsFinal() {
			t.Errorf("%s should not be final", s)
		}
	}
}
