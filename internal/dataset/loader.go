package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Loader reads slates, game logs and seed ratings from local JSON
// files. Every file is structurally validated before conversion; a
// malformed record fails the whole load rather than slipping a partial
// slate into the engine.
type Loader struct {
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewLoader creates a dataset loader.
func NewLoader(logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
	}
	return &Loader{
		validate: validator.New(),
		logger:   logger,
	}
}

// LoadSlate reads one week's slate from disk. coords may be nil; it is
// used to fill missing away-side travel distances.
func (l *Loader) LoadSlate(path string, coords map[string][2]float64) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read slate %s: %w", path, err)
	}
	return l.ParseSlate(data, coords)
}

// ParseSlate validates and converts raw slate JSON.
func (l *Loader) ParseSlate(data []byte, coords map[string][2]float64) ([]Entry, error) {
	var file SlateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse slate: %w", err)
	}
	if err := l.validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("slate failed validation: %w", err)
	}

	entries := make([]Entry, 0, len(file.Games))
	for i := range file.Games {
		entry, err := file.Games[i].toEntry(file.Season, file.Week, coords)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	l.logger.WithFields(logrus.Fields{
		"season": file.Season,
		"week":   file.Week,
		"games":  len(entries),
	}).Info("Slate loaded")

	return entries, nil
}

// LoadGameLog reads a multi-week historical log: a JSON array of slate
// files, one per week, each game carrying its final score.
func (l *Loader) LoadGameLog(path string, coords map[string][2]float64) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game log %s: %w", path, err)
	}

	var weeks []SlateFile
	if err := json.Unmarshal(data, &weeks); err != nil {
		return nil, fmt.Errorf("failed to parse game log: %w", err)
	}

	var entries []Entry
	for w := range weeks {
		if err := l.validate.Struct(&weeks[w]); err != nil {
			return nil, fmt.Errorf("game log week %d failed validation: %w", weeks[w].Week, err)
		}
		for i := range weeks[w].Games {
			entry, err := weeks[w].Games[i].toEntry(weeks[w].Season, weeks[w].Week, coords)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	l.logger.WithFields(logrus.Fields{
		"weeks": len(weeks),
		"games": len(entries),
	}).Info("Game log loaded")

	return entries, nil
}

// LoadSeedRatings reads prior-season seed ratings. It returns the teams
// for store seeding plus a coordinate map for travel derivation.
func (l *Loader) LoadSeedRatings(path string) ([]*models.Team, map[string][2]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seed ratings %s: %w", path, err)
	}

	var file SeedRatingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seed ratings: %w", err)
	}
	if err := l.validate.Struct(&file); err != nil {
		return nil, nil, fmt.Errorf("seed ratings failed validation: %w", err)
	}

	teams := make([]*models.Team, 0, len(file.Teams))
	coords := make(map[string][2]float64, len(file.Teams))
	for _, seed := range file.Teams {
		teams = append(teams, &models.Team{
			Abbreviation: seed.Abbreviation,
			Name:         seed.Name,
			Rating:       seed.Rating,
		})
		coords[seed.Abbreviation] = [2]float64{seed.Latitude, seed.Longitude}
	}

	l.logger.WithFields(logrus.Fields{
		"season": file.Season,
		"teams":  len(teams),
	}).Info("Seed ratings loaded")

	return teams, coords, nil
}
