package options

import (
	"reflect"
	"testing"
)

func TestParse_Scalars(t *testing.T) {
	opts := Parse("temperature 0.7\nseed 42\nuse_mmap true")

	want := Options{
		"temperature": 0.7,
		"seed":        float64(42),
		"use_mmap":    true,
	}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("Parse = %#v, want %#v", opts, want)
	}
}

func TestParse_RepeatedKeyAccumulatesList(t *testing.T) {
	opts := Parse("temperature 0.1\ntemperature 0.5")

	want := Options{"temperature": []any{0.1, 0.5}}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("Parse = %#v, want %#v", opts, want)
	}

	// A third repetition appends to the existing list.
	opts = Parse("stop a\nstop b\nstop c")
	want = Options{"stop": []any{"a", "b", "c"}}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("Parse = %#v, want %#v", opts, want)
	}
}

func TestParse_ListValue(t *testing.T) {
	opts := Parse(`stop ["###", "user:"]`)

	want := Options{"stop": []any{"###", "user:"}}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("Parse = %#v, want %#v", opts, want)
	}
}

func TestParse_UnrecognizedKeysDropped(t *testing.T) {
	opts := Parse("temperature 0.7\nbogus_param 1\nanother nope")

	if _, ok := opts["bogus_param"]; ok {
		t.Error("bogus_param should have been dropped")
	}
	if _, ok := opts["another"]; ok {
		t.Error("another should have been dropped")
	}
	if opts["temperature"] != 0.7 {
		t.Errorf("temperature = %v, want 0.7", opts["temperature"])
	}
}

func TestParse_MalformedValueKeptAsRawString(t *testing.T) {
	// "[0.1," is not a valid literal; the raw text survives.
	opts := Parse("temperature [0.1,")

	if opts["temperature"] != "[0.1," {
		t.Errorf("temperature = %v, want raw string fallback", opts["temperature"])
	}
}

func TestParse_EmptyAndBlankLines(t *testing.T) {
	opts := Parse("\n\ntemperature 0.5\n\n")

	want := Options{"temperature": 0.5}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("Parse = %#v, want %#v", opts, want)
	}
}

func TestSerialize_SkipsNilEntries(t *testing.T) {
	opts := Options{"temperature": 0.2, "seed": nil}
	text := Serialize(opts)

	parsed := Parse(text)
	want := Options{"temperature": 0.2}
	if !reflect.DeepEqual(parsed, want) {
		t.Errorf("round trip = %#v, want %#v", parsed, want)
	}
}

func TestRoundTrip_ScalarOptions(t *testing.T) {
	original := Options{
		"temperature": 0.7,
		"seed":        float64(42),
		"num_ctx":     float64(4096),
		"use_mmap":    true,
	}

	parsed := Parse(Serialize(original))
	if !reflect.DeepEqual(parsed, original) {
		t.Errorf("Parse(Serialize(o)) = %#v, want %#v", parsed, original)
	}
}

func TestMerge_NonNilOverrides(t *testing.T) {
	base := Options{"temperature": 0.2, "seed": nil}
	extra := Options{"temperature": nil, "seed": float64(7)}

	merged := Merge(base, extra)
	want := Options{"temperature": 0.2, "seed": float64(7)}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Merge = %#v, want %#v", merged, want)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Options{"temperature": 0.2}
	extra := Options{"seed": float64(7)}

	_ = Merge(base, extra)

	if len(base) != 1 || len(extra) != 1 {
		t.Error("Merge mutated an input option set")
	}
}
