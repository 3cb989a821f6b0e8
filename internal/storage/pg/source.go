package pg

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
	"github.com/DjordjeVuckovic/recommender-evaluator/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source reads and writes the movies, movie_properties, users and ratings tables.
// Ratings flagged is_test are loaded as the user's test set, all others as training.
type Source struct {
	db *pgxpool.Pool
}

func NewSource(pool *ConnectionPool) *Source {
	return &Source{db: pool.conn}
}

func (s *Source) LoadMovies(ctx context.Context) (domain.Catalog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.title, p.kind, p.value, p.weight
		FROM movies m
		LEFT JOIN movie_properties p ON p.movie_id = m.id
		ORDER BY m.id, p.kind, p.value
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := make(domain.Catalog)
	for rows.Next() {
		var (
			id     int64
			title  string
			kind   *string
			value  *string
			weight *float64
		)
		if err := rows.Scan(&id, &title, &kind, &value, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}

		m, ok := movies[id]
		if !ok {
			m = domain.NewMovie(id, title)
		}
		if kind != nil && value != nil {
			w := 1.0
			if weight != nil {
				w = *weight
			}
			m.Properties = append(m.Properties, domain.Property{Kind: *kind, Value: *value, Weight: w})
		}
		movies[id] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	return movies, nil
}

func (s *Source) LoadUsers(ctx context.Context, movies domain.Catalog) (domain.Population, error) {
	demographics, err := s.loadDemographics(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT user_id, movie_id, score, rated_at, is_test
		FROM ratings
		ORDER BY user_id, rated_at, movie_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	type split struct {
		training []domain.Rating
		test     []domain.Rating
	}
	splits := make(map[int64]*split)

	for rows.Next() {
		var (
			userID, movieID int64
			score           int
			ratedAt         time.Time
			isTest          bool
		)
		if err := rows.Scan(&userID, &movieID, &score, &ratedAt, &isTest); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		movie, ok := movies[movieID]
		if !ok {
			return nil, fmt.Errorf("rating of user %d references unknown movie %d", userID, movieID)
		}

		sp, ok := splits[userID]
		if !ok {
			sp = &split{}
			splits[userID] = sp
		}
		r := domain.NewRating(movie, score, ratedAt.UTC())
		if isTest {
			sp.test = append(sp.test, r)
		} else {
			sp.training = append(sp.training, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	users := make(domain.Population, len(splits))
	for id, sp := range splits {
		users[id] = domain.NewUser(id, demographics[id], sp.training, sp.test)
	}
	return users, nil
}

func (s *Source) loadDemographics(ctx context.Context) (map[int64]domain.Demographics, error) {
	rows, err := s.db.Query(ctx, `SELECT id, gender, age, occupation, zip_code FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]domain.Demographics)
	for rows.Next() {
		var id int64
		var d domain.Demographics
		if err := rows.Scan(&id, &d.Gender, &d.Age, &d.Occupation, &d.ZipCode); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out[id] = d
	}
	return out, rows.Err()
}

// SaveDataset replaces the stored dataset in one transaction using COPY.
func (s *Source) SaveDataset(ctx context.Context, ds *storage.Dataset) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE ratings, users, movie_properties, movies`); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	var movieRows, propertyRows [][]any
	for _, id := range sortedMovieIDs(ds.Movies) {
		m := ds.Movies[id]
		movieRows = append(movieRows, []any{m.ID, m.Title})
		for _, p := range m.Properties {
			propertyRows = append(propertyRows, []any{m.ID, p.Kind, p.Value, p.Weight})
		}
	}

	var userRows, ratingRows [][]any
	for _, u := range ds.Users.Users() {
		d := u.Demographics
		userRows = append(userRows, []any{u.ID, d.Gender, d.Age, d.Occupation, d.ZipCode})
		for _, r := range u.Training {
			ratingRows = append(ratingRows, []any{u.ID, r.Movie.ID, r.Score, r.Timestamp, false})
		}
		for _, r := range u.Test {
			ratingRows = append(ratingRows, []any{u.ID, r.Movie.ID, r.Score, r.Timestamp, true})
		}
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"movies", []string{"id", "title"}, movieRows},
		{"movie_properties", []string{"movie_id", "kind", "value", "weight"}, propertyRows},
		{"users", []string{"id", "gender", "age", "occupation", "zip_code"}, userRows},
		{"ratings", []string{"user_id", "movie_id", "score", "rated_at", "is_test"}, ratingRows},
	}
	for _, c := range copies {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("failed to copy %s: %w", c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}

	slog.Info("dataset saved to postgres", "movies", len(movieRows), "users", len(userRows), "ratings", len(ratingRows))
	return nil
}

func sortedMovieIDs(c domain.Catalog) []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
