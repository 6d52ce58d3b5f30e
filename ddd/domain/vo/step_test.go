package vo

import "testing"

func TestStepOrdering(t *testing.T) {
	want := []Step{
		StepEnhance,
		StepTTS,
		StepAlign,
		StepContentAnalysis,
		StepMusic,
		StepComposite,
		StepRender,
	}

	if FirstStage() != StepEnhance {
		t.Fatalf("FirstStage() = %s", FirstStage())
	}

	// 从none走到completed应当恰好经过全部处理阶段
	cur := StepNone
	for _, expected := range want {
		next, ok := cur.Next()
		if !ok {
			t.Fatalf("no successor for %q", cur)
		}
		if next != expected {
			t.Fatalf("successor of %q = %q, want %q", cur, next, expected)
		}
		cur = next
	}
	final, ok := cur.Next()
	if !ok || final != StepCompleted {
		t.Fatalf("successor of %q = %q, %v", cur, final, ok)
	}
}

func TestStepNextUnknown(t *testing.T) {
	if _, ok := Step("bogus").Next(); ok {
		t.Fatal("unknown step should have no successor")
	}
	if _, ok := StepCompleted.Next(); ok {
		t.Fatal("completed should have no successor")
	}
}

func TestStepClassification(t *testing.T) {
	for _, s := range Stages() {
		if !s.IsStage() {
			t.Errorf("%q should be a stage", s)
		}
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Step{StepNone, StepCompleted} {
		if s.IsStage() {
			t.Errorf("%q should not be a stage", s)
		}
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Step("bogus").IsValid() {
		t.Error("bogus step should be invalid")
	}
}

func TestStagesCopy(t *testing.T) {
	stages := Stages()
	stages[0] = StepRender
	if FirstStage() != StepEnhance {
		t.Fatal("Stages() must return a copy")
	}
}
