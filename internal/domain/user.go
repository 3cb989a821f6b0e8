package domain

import "slices"

type Demographics struct {
	Gender     string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Age        int    `json:"age,omitempty" yaml:"age,omitempty"`
	Occupation string `json:"occupation,omitempty" yaml:"occupation,omitempty"`
	ZipCode    string `json:"zipCode,omitempty" yaml:"zip_code,omitempty"`
}

// User is a read-only view of one user's ratings split into training and test parts.
// Build it with NewUser; the evaluation code never modifies a User after construction.
type User struct {
	ID            int64        `json:"id"`
	Demographics  Demographics `json:"demographics"`
	AverageRating float64      `json:"averageRating"`
	Training      []Rating     `json:"training"`
	Test          []Rating     `json:"test"`
}

// NewUser copies both rating sequences, orders them and derives the average rating
// from the test ratings.
func NewUser(id int64, demo Demographics, training, test []Rating) *User {
	return &User{
		ID:            id,
		Demographics:  demo,
		AverageRating: averageScore(test),
		Training:      SortRatings(training),
		Test:          SortRatings(test),
	}
}

// IsRelevant reports whether the score reaches the user's average rating.
func (u *User) IsRelevant(score int) bool {
	return float64(score) >= u.AverageRating
}

// History returns training and test ratings together, ordered.
func (u *User) History() []Rating {
	all := make([]Rating, 0, len(u.Training)+len(u.Test))
	all = append(all, u.Training...)
	all = append(all, u.Test...)
	return SortRatings(all)
}

// WithSplit builds a new user with the same identity and a different split.
func (u *User) WithSplit(training, test []Rating) *User {
	return NewUser(u.ID, u.Demographics, training, test)
}

func (u *User) HasRated(movieID int64) bool {
	return slices.ContainsFunc(u.Training, func(r Rating) bool { return r.Movie.ID == movieID }) ||
		slices.ContainsFunc(u.Test, func(r Rating) bool { return r.Movie.ID == movieID })
}

func averageScore(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings))
}

// Population maps user ID to user.
type Population map[int64]*User

// SortedIDs returns the user IDs in ascending order.
func (p Population) SortedIDs() []int64 {
	ids := make([]int64, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Users returns the users ordered by ID.
func (p Population) Users() []*User {
	users := make([]*User, 0, len(p))
	for _, id := range p.SortedIDs() {
		users = append(users, p[id])
	}
	return users
}
