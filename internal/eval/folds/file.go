package folds

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"gopkg.in/yaml.v3"
)

// FoldFile is the on-disk form of a prepared split, so the same folds can be reused
// across evaluation runs.
type FoldFile struct {
	Seed            uint64      `yaml:"seed"`
	TrainingSetSize float64     `yaml:"training_set_size"`
	Folds           []FoldEntry `yaml:"folds"`
}

type FoldEntry struct {
	Index int         `yaml:"index"`
	Users []UserSplit `yaml:"users"`
}

type UserSplit struct {
	UserID       int64               `yaml:"user_id"`
	Demographics domain.Demographics `yaml:"demographics,omitempty"`
	Train        []RatingEntry       `yaml:"train"`
	Test         []RatingEntry       `yaml:"test"`
}

type RatingEntry struct {
	MovieID   int64 `yaml:"movie_id"`
	Score     int   `yaml:"score"`
	Timestamp int64 `yaml:"timestamp"`
}

func NewFoldFile(cfg Config, folds []domain.Population) *FoldFile {
	ff := &FoldFile{
		Seed:            cfg.Seed,
		TrainingSetSize: cfg.TrainingSetSize,
		Folds:           make([]FoldEntry, 0, len(folds)),
	}
	for i, fold := range folds {
		entry := FoldEntry{Index: i, Users: make([]UserSplit, 0, len(fold))}
		for _, u := range fold.Users() {
			entry.Users = append(entry.Users, UserSplit{
				UserID:       u.ID,
				Demographics: u.Demographics,
				Train:        toEntries(u.Training),
				Test:         toEntries(u.Test),
			})
		}
		ff.Folds = append(ff.Folds, entry)
	}
	return ff
}

// Restore rebuilds fold populations, resolving movies through the catalog.
func (ff *FoldFile) Restore(movies domain.Catalog) ([]domain.Population, error) {
	folds := make([]domain.Population, 0, len(ff.Folds))
	for _, entry := range ff.Folds {
		pop := make(domain.Population, len(entry.Users))
		for _, us := range entry.Users {
			train, err := fromEntries(us.Train, movies)
			if err != nil {
				return nil, fmt.Errorf("fold %d user %d: %w", entry.Index, us.UserID, err)
			}
			test, err := fromEntries(us.Test, movies)
			if err != nil {
				return nil, fmt.Errorf("fold %d user %d: %w", entry.Index, us.UserID, err)
			}
			pop[us.UserID] = domain.NewUser(us.UserID, us.Demographics, train, test)
		}
		folds = append(folds, pop)
	}
	return folds, nil
}

func toEntries(ratings []domain.Rating) []RatingEntry {
	out := make([]RatingEntry, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, RatingEntry{MovieID: r.Movie.ID, Score: r.Score, Timestamp: r.Timestamp.Unix()})
	}
	return out
}

func fromEntries(entries []RatingEntry, movies domain.Catalog) ([]domain.Rating, error) {
	out := make([]domain.Rating, 0, len(entries))
	for _, e := range entries {
		m, ok := movies[e.MovieID]
		if !ok {
			return nil, fmt.Errorf("unknown movie %d", e.MovieID)
		}
		out = append(out, domain.NewRating(m, e.Score, time.Unix(e.Timestamp, 0).UTC()))
	}
	return out, nil
}

func WriteFoldFile(ff *FoldFile, path string) error {
	data, err := yaml.Marshal(ff)
	if err != nil {
		return fmt.Errorf("marshal fold file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create fold file dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fold file: %w", err)
	}
	return nil
}

func ReadFoldFile(path string) (*FoldFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fold file: %w", err)
	}
	var ff FoldFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse fold file: %w", err)
	}
	return &ff, nil
}
