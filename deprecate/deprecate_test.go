package deprecate

import "testing"

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"runtime":    Runtime,
		"build-time": BuildTime,
		"silent":     Silent,
	}
	for s, want := range cases {
		got, err := ParseMode(s)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestRuntimeWarnOnce(t *testing.T) {
	var emitted []string
	r := NewRegistry(Runtime, WithEmitter(func(f string) { emitted = append(emitted, f) }))

	r.Warn("feat")
	r.Warn("feat")
	if len(emitted) != 1 {
		t.Fatalf("emitted = %v", emitted)
	}
	if !r.Warned("feat") {
		t.Fatal("feature not marked warned")
	}
}

func TestWarnAtBuildOnlyFiresInBuildTimeMode(t *testing.T) {
	var emitted []string
	rt := NewRegistry(Runtime, WithEmitter(func(f string) { emitted = append(emitted, f) }))
	rt.WarnAtBuild("feat")
	if len(emitted) != 0 {
		t.Fatal("WarnAtBuild fired in runtime mode")
	}

	bt := NewRegistry(BuildTime, WithEmitter(func(f string) { emitted = append(emitted, f) }))
	bt.WarnAtBuild("feat")
	bt.WarnAtBuild("feat")
	if len(emitted) != 1 {
		t.Fatalf("emitted = %v", emitted)
	}

	// Runtime warns never fire in build-time mode.
	bt.Warn("other")
	if len(emitted) != 1 {
		t.Fatal("Warn fired in build-time mode")
	}
}

func TestSilentModeSuppressesEverything(t *testing.T) {
	var emitted []string
	r := NewRegistry(Silent, WithEmitter(func(f string) { emitted = append(emitted, f) }))
	r.Warn("a")
	r.WarnAtBuild("b")
	if len(emitted) != 0 {
		t.Fatalf("silent registry emitted %v", emitted)
	}
}

func TestRegistryIsolation(t *testing.T) {
	var a, b int
	r1 := NewRegistry(Runtime, WithEmitter(func(string) { a++ }))
	r2 := NewRegistry(Runtime, WithEmitter(func(string) { b++ }))

	r1.Warn("feat")
	r2.Warn("feat")
	if a != 1 || b != 1 {
		t.Fatalf("registries share warned state: a=%d b=%d", a, b)
	}
}
