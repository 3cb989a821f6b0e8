package movielens

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

const (
	MoviesFile  = "movies.csv"
	RatingsFile = "ratings.csv"
	UsersFile   = "users.csv"

	noGenres = "(no genres listed)"
)

// Source reads a MovieLens directory. Every rating becomes part of the user's history;
// splitting is left to the fold preparer.
type Source struct {
	fsys fs.FS
}

func NewSource(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("movielens dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("movielens dir %q is not a directory", dir)
	}
	return &Source{fsys: os.DirFS(dir)}, nil
}

// NewSourceFS reads the files from fsys, e.g. an fstest.MapFS.
func NewSourceFS(fsys fs.FS) *Source {
	return &Source{fsys: fsys}
}

func (s *Source) LoadMovies(ctx context.Context) (domain.Catalog, error) {
	f, err := s.fsys.Open(MoviesFile)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", MoviesFile, err)
	}
	defer f.Close()

	movies := make(domain.Catalog)
	err = eachRecord(f, func(_ int, rec map[string]string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(rec["movieId"], 10, 64)
		if err != nil {
			return fmt.Errorf("movie id: %w", err)
		}
		movies[id] = domain.NewMovie(id, rec["title"], genreProperties(rec["genres"])...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MoviesFile, err)
	}

	slog.Debug("movielens movies read", "count", len(movies))
	return movies, nil
}

func genreProperties(genres string) []domain.Property {
	if genres == "" || genres == noGenres {
		return nil
	}
	names := strings.Split(genres, "|")
	weight := 1 / float64(len(names))
	props := make([]domain.Property, 0, len(names))
	for _, g := range names {
		props = append(props, domain.Property{Kind: "genre", Value: g, Weight: weight})
	}
	return props
}

func (s *Source) LoadUsers(ctx context.Context, movies domain.Catalog) (domain.Population, error) {
	demographics, err := s.readDemographics()
	if err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(RatingsFile)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", RatingsFile, err)
	}
	defer f.Close()

	histories := make(map[int64][]domain.Rating)
	err = eachRecord(f, func(_ int, rec map[string]string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		userID, err := strconv.ParseInt(rec["userId"], 10, 64)
		if err != nil {
			return fmt.Errorf("user id: %w", err)
		}
		movieID, err := strconv.ParseInt(rec["movieId"], 10, 64)
		if err != nil {
			return fmt.Errorf("movie id: %w", err)
		}
		movie, ok := movies[movieID]
		if !ok {
			return fmt.Errorf("rating references unknown movie %d", movieID)
		}
		score, err := strconv.ParseFloat(rec["rating"], 64)
		if err != nil {
			return fmt.Errorf("rating: %w", err)
		}
		ts, err := strconv.ParseInt(rec["timestamp"], 10, 64)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		histories[userID] = append(histories[userID],
			domain.NewRating(movie, int(math.Round(score)), time.Unix(ts, 0).UTC()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", RatingsFile, err)
	}

	users := make(domain.Population, len(histories))
	for id, history := range histories {
		users[id] = domain.NewUser(id, demographics[id], history, nil)
	}
	return users, nil
}

// readDemographics returns an empty map when the directory has no users file.
func (s *Source) readDemographics() (map[int64]domain.Demographics, error) {
	out := make(map[int64]domain.Demographics)

	f, err := s.fsys.Open(UsersFile)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", UsersFile, err)
	}
	defer f.Close()

	err = eachRecord(f, func(_ int, rec map[string]string) error {
		id, err := strconv.ParseInt(rec["userId"], 10, 64)
		if err != nil {
			return fmt.Errorf("user id: %w", err)
		}
		age, _ := strconv.Atoi(rec["age"])
		out[id] = domain.Demographics{
			Gender:     rec["gender"],
			Age:        age,
			Occupation: rec["occupation"],
			ZipCode:    rec["zipCode"],
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", UsersFile, err)
	}
	return out, nil
}
