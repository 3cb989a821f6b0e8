package metrics

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/domain"
)

const (
	NamePrecision = "precision"
	NameRecall    = "recall"
	NameF1        = "f1"
	NameMAP       = "map"
	NameMRR       = "mrr"
	NameNDCG      = "ndcg"
	NameRMSE      = "rmse"
	NameMAE       = "mae"
)

// Names lists every supported metric in report order.
var Names = []string{NamePrecision, NameRecall, NameF1, NameMAP, NameMRR, NameNDCG, NameRMSE, NameMAE}

// Scale is the rating range the error metrics validate against.
type Scale struct {
	MinRating int
	MaxRating int
}

func DefaultScale() Scale {
	return Scale{MinRating: domain.DefaultMinRating, MaxRating: domain.DefaultMaxRating}
}

func New(name string, scale Scale) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NamePrecision:
		return Precision{}, nil
	case NameRecall:
		return Recall{}, nil
	case NameF1:
		return F1{}, nil
	case NameMAP:
		return MAP{}, nil
	case NameMRR:
		return MRR{}, nil
	case NameNDCG:
		return NDCG{}, nil
	case NameRMSE:
		return NewRMSE(scale.MinRating, scale.MaxRating), nil
	case NameMAE:
		return MAE{}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", name)
	}
}

func NewAll(names []string, scale Scale) ([]Metric, error) {
	if len(names) == 0 {
		names = Names
	}
	out := make([]Metric, 0, len(names))
	for _, n := range names {
		m, err := New(n, scale)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// NeedsDiscreteRatings reports whether the named metric compares predicted values with
// rating scores rather than ranks.
func NeedsDiscreteRatings(name string) bool {
	return name == NameRMSE || name == NameMAE
}
