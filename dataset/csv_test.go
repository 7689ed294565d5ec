package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write corpus: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCorpus(t, `track_id,tags,valence,energy
t1,"rock, melancholic",0.3,0.4
t2,"pop, upbeat",0.8,
t3,"",0.5,0.5
t4,"jazz",not-a-number,0.2
`)

	rows, err := LoadCSV(path, []string{"valence", "energy"})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	// t3 has no tags and is dropped
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Track.TrackID != "t1" {
		t.Errorf("row 0 id = %q, want t1", rows[0].Track.TrackID)
	}
	if v := rows[0].Targets["valence"]; v != 0.3 {
		t.Errorf("row 0 valence = %f, want 0.3", v)
	}

	// Empty cell becomes NaN, never a substituted constant
	if !math.IsNaN(rows[1].Targets["energy"]) {
		t.Errorf("row 1 energy = %f, want NaN", rows[1].Targets["energy"])
	}
	if rows[1].HasTarget("energy") {
		t.Error("row 1 should not have a measured energy target")
	}
	if !rows[1].HasTarget("valence") {
		t.Error("row 1 should have a measured valence target")
	}

	// Unparsable cell becomes NaN
	if !math.IsNaN(rows[2].Targets["valence"]) {
		t.Errorf("row 2 valence = %f, want NaN", rows[2].Targets["valence"])
	}
}

func TestLoadCSV_MissingTagsColumn(t *testing.T) {
	path := writeCorpus(t, "track_id,valence\nt1,0.5\n")

	if _, err := LoadCSV(path, []string{"valence"}); err == nil {
		t.Error("expected error for corpus without a tags column")
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
