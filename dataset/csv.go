package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soniclens/moodcast/logging"
)

// TrainingRow pairs a tagged track with its ground-truth feature targets.
// A target that the source did not measure is NaN, never a substituted
// constant; per-feature training drops NaN rows feature-wise.
type TrainingRow struct {
	Track   TaggedTrack
	Targets map[string]float64
}

// HasTarget reports whether the row carries a measured value for the feature.
func (r TrainingRow) HasTarget(feature string) bool {
	v, ok := r.Targets[feature]
	return ok && !math.IsNaN(v)
}

// LoadCSV reads a training corpus from a CSV file. The file must have a
// header row containing a "tags" column; an optional id column ("track_id",
// "id" or "name") and any subset of the requested feature columns are picked
// up by name. Rows with an empty tag set are dropped. Feature cells that are
// empty or unparsable become NaN targets.
func LoadCSV(path string, featureNames []string) ([]TrainingRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	logger := logging.WithFields(logging.Fields{
		"component": "dataset_loader",
		"path":      path,
	})

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("corpus has no data rows")
	}

	header := records[0]
	tagsCol := -1
	idCol := -1
	featureCols := make(map[string]int)

	for i, name := range header {
		col := strings.ToLower(strings.TrimSpace(name))
		switch col {
		case "tags":
			tagsCol = i
		case "track_id", "id", "name":
			if idCol < 0 {
				idCol = i
			}
		}
		for _, feature := range featureNames {
			if col == feature {
				featureCols[feature] = i
			}
		}
	}

	if tagsCol < 0 {
		return nil, fmt.Errorf("corpus is missing a 'tags' column")
	}

	var rows []TrainingRow
	dropped := 0

	for rowIdx, record := range records[1:] {
		if tagsCol >= len(record) {
			dropped++
			continue
		}

		tags := ParseTagString(record[tagsCol])
		if len(tags) == 0 {
			dropped++
			continue
		}

		trackID := fmt.Sprintf("row-%d", rowIdx+1)
		if idCol >= 0 && idCol < len(record) && strings.TrimSpace(record[idCol]) != "" {
			trackID = strings.TrimSpace(record[idCol])
		}

		targets := make(map[string]float64, len(featureCols))
		for feature, col := range featureCols {
			targets[feature] = math.NaN()
			if col < len(record) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64); err == nil {
					targets[feature] = v
				}
			}
		}

		rows = append(rows, TrainingRow{
			Track:   TaggedTrack{TrackID: trackID, Tags: tags},
			Targets: targets,
		})
	}

	logger.Info("Loaded training corpus", logging.Fields{
		"rows":            len(rows),
		"dropped":         dropped,
		"feature_columns": len(featureCols),
	})

	return rows, nil
}
