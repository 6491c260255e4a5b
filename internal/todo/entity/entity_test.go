package entity

import (
	"reflect"
	"testing"
)

func TestUserTaskHelpers(t *testing.T) {
	u := User{TaskIDs: []string{"a", "b", "a", "c"}}

	if !u.HasTask("b") || u.HasTask("z") {
		t.Fatalf("unexpected HasTask result")
	}
	if got := u.WithoutTask("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("unexpected WithoutTask: %v", got)
	}
	if !reflect.DeepEqual(u.TaskIDs, []string{"a", "b", "a", "c"}) {
		t.Fatalf("WithoutTask must not mutate the user: %v", u.TaskIDs)
	}
}

func TestTaskPatchApplyOnlySetFields(t *testing.T) {
	task := Task{ID: "t1", Title: "old", Description: "desc", Priority: 2}
	title := "new"
	done := true

	patch := TaskPatch{Title: &title, IsCompleted: &done}
	if patch.Empty() {
		t.Fatalf("expected non-empty patch")
	}
	patch.Apply(&task)

	want := Task{ID: "t1", Title: "new", Description: "desc", Priority: 2, IsCompleted: true}
	if !reflect.DeepEqual(task, want) {
		t.Fatalf("got %+v, want %+v", task, want)
	}
	if !(TaskPatch{}).Empty() {
		t.Fatalf("expected zero patch to be empty")
	}
}
