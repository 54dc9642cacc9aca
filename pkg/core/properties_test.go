package core

import (
	"encoding/json"
	"testing"
)

func TestProperties_JSONKeepsOrder(t *testing.T) {
	var props Properties
	props.Set("title", "Reading List")
	props.Set("tags", []string{"books", "to read"})
	props.Set("alias", []string{"rl"})

	data, err := json.Marshal(props)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"Reading List","tags":["books","to read"],"alias":["rl"]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}

	var back Properties
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := back.Keys(); len(got) != 3 || got[0] != "title" || got[1] != "tags" || got[2] != "alias" {
		t.Fatalf("unexpected key order: %v", got)
	}
	tags, _ := back.Get("tags")
	if list, ok := tags.([]string); !ok || len(list) != 2 || list[1] != "to read" {
		t.Fatalf("tags not decoded as []string: %#v", tags)
	}
}

func TestProperties_SetDeleteMerge(t *testing.T) {
	props := Properties{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	props.Set("a", "3")
	props.Merge(Properties{{Key: "c", Value: true}})

	if v, _ := props.Get("a"); v != "3" {
		t.Errorf("a = %v, want 3", v)
	}
	if !props.Delete("b") {
		t.Error("expected b to be deleted")
	}
	if props.Delete("missing") {
		t.Error("deleting a missing key should report false")
	}
	if got := props.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("keys = %v", got)
	}
}

func TestBlock_JSONShape(t *testing.T) {
	collapsed := true
	b := &Block{
		Content:   "First task",
		Marker:    MarkerTodo,
		Collapsed: &collapsed,
		Children:  []*Block{{Content: "Sub task"}},
	}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"content":"First task","marker":"TODO","collapsed":true,"children":[{"content":"Sub task"}]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestPage_WalkAndCount(t *testing.T) {
	page := Page{
		{Content: "A", Children: []*Block{{Content: "B", Children: []*Block{{Content: "C"}}}}},
		{Content: "D"},
	}

	var seen []string
	page.Walk(func(b *Block, depth int) bool {
		seen = append(seen, b.Content)
		return b.Content != "B"
	})
	if len(seen) != 3 || seen[2] != "D" {
		t.Fatalf("walk order = %v", seen)
	}
	if n := page.Count(); n != 4 {
		t.Fatalf("count = %d, want 4", n)
	}
}
