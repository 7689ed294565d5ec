package dataset

import (
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Rock", "rock"},
		{"  Hip Hop  ", "hip_hop"},
		{"hip-hop", "hip_hop"},
		{"Singer-Songwriter", "singer_songwriter"},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := NormalizeTerm(c.in); got != c.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTagString(t *testing.T) {
	tags := ParseTagString("Rock, Melancholic,, indie rock ")

	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}

	want := []string{"rock", "melancholic", "indie_rock"}
	for i, tag := range tags {
		if tag.Term != want[i] {
			t.Errorf("tag %d = %q, want %q", i, tag.Term, want[i])
		}
		if tag.Weight != 1.0 {
			t.Errorf("tag %d weight = %f, want 1.0", i, tag.Weight)
		}
	}
}

func TestParseTagString_Empty(t *testing.T) {
	if tags := ParseTagString(""); tags != nil {
		t.Errorf("expected nil for empty string, got %v", tags)
	}
	if tags := ParseTagString(" , , "); tags != nil {
		t.Errorf("expected nil for blank segments, got %v", tags)
	}
}

func TestParseWeightedTag_Coercion(t *testing.T) {
	cases := []struct {
		name   string
		weight any
		want   float64
	}{
		{"float", 0.75, 0.75},
		{"int", 80, 80.0},
		{"numeric string", "42", 42.0},
		{"garbage string", "heavy", 1.0},
		{"nil", nil, 1.0},
		{"negative clamps", -3.0, 0.0},
	}

	for _, c := range cases {
		tag, ok := ParseWeightedTag("Rock", c.weight)
		if !ok {
			t.Fatalf("%s: expected ok", c.name)
		}
		if tag.Term != "rock" {
			t.Errorf("%s: term = %q, want rock", c.name, tag.Term)
		}
		if tag.Weight != c.want {
			t.Errorf("%s: weight = %f, want %f", c.name, tag.Weight, c.want)
		}
	}
}

func TestParseWeightedTag_EmptyTerm(t *testing.T) {
	if _, ok := ParseWeightedTag("   ", 1.0); ok {
		t.Error("expected not-ok for blank term")
	}
}
