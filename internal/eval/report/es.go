package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const DefaultIndexName = "recommender_evaluations"

type ESConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

// ESWriter indexes report entries so runs can be compared in Kibana.
type ESWriter struct {
	typedClient *elasticsearch.TypedClient
	indexName   string
}

// Document is one indexed report row. Kind is "fold" or "aggregate".
type Document struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Kind        string    `json:"kind"`
	Timestamp   time.Time `json:"timestamp"`
	Recommender string    `json:"recommender"`
	Metric      string    `json:"metric"`
	K           int       `json:"k"`
	Fold        *int      `json:"fold,omitempty"`
	Value       float64   `json:"value"`
	StdDev      float64   `json:"std_dev,omitempty"`
	Error       string    `json:"error,omitempty"`
}

func NewESWriter(ctx context.Context, config ESConfig) (*ESWriter, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch typedClient: %w", err)
	}

	index := config.IndexName
	if index == "" {
		index = DefaultIndexName
	}
	w := &ESWriter{typedClient: client, indexName: index}

	if err := w.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return w, nil
}

func (w *ESWriter) Write(ctx context.Context, r *Report) error {
	docs := ToDocuments(r)
	if len(docs) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         w.indexName,
		Client:        w.typedClient,
		NumWorkers:    2,
		FlushBytes:    1e+6,
		FlushInterval: 5 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed atomic.Int64
	for _, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			failed.Add(1)
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	stats := bi.Stats()
	slog.Info("report indexed", "run", r.Meta.RunID, "indexed", stats.NumIndexed, "failed", failed.Load(), "index", w.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d report documents", n, len(docs))
	}
	return nil
}

// ToDocuments flattens a report into per-fold and aggregate documents with stable IDs,
// so re-indexing a run overwrites instead of duplicating.
func ToDocuments(r *Report) []Document {
	run := r.Meta.RunID.String()
	docs := make([]Document, 0, len(r.PerFold)+len(r.Aggregated))

	for _, e := range r.PerFold {
		fold := e.Fold
		docs = append(docs, Document{
			ID:          fmt.Sprintf("%s-fold-%d-%s-%s-%d", run, e.Fold, e.Recommender, e.Metric, e.K),
			RunID:       run,
			Kind:        "fold",
			Timestamp:   r.Meta.Timestamp,
			Recommender: e.Recommender,
			Metric:      e.Metric,
			K:           e.K,
			Fold:        &fold,
			Value:       e.Value,
			Error:       e.Error,
		})
	}
	for _, a := range r.Aggregated {
		docs = append(docs, Document{
			ID:          fmt.Sprintf("%s-agg-%s-%s-%d", run, a.Recommender, a.Metric, a.K),
			RunID:       run,
			Kind:        "aggregate",
			Timestamp:   r.Meta.Timestamp,
			Recommender: a.Recommender,
			Metric:      a.Metric,
			K:           a.K,
			Value:       a.Mean,
			StdDev:      a.StdDev,
		})
	}

	return docs
}

func (w *ESWriter) EnsureIndex(ctx context.Context) error {
	exists, err := w.typedClient.Indices.Exists(w.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", w.indexName)
		return nil
	}

	settings := types.IndexSettings{
		NumberOfShards:   "1",
		NumberOfReplicas: "0",
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"run_id":      types.NewKeywordProperty(),
			"kind":        types.NewKeywordProperty(),
			"timestamp":   types.NewDateProperty(),
			"recommender": types.NewKeywordProperty(),
			"metric":      types.NewKeywordProperty(),
			"k":           types.NewIntegerNumberProperty(),
			"fold":        types.NewIntegerNumberProperty(),
			"value":       types.NewDoubleNumberProperty(),
			"std_dev":     types.NewDoubleNumberProperty(),
			"error":       types.NewTextProperty(),
		},
	}

	res, err := w.typedClient.Indices.Create(w.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", w.indexName)
	return nil
}
