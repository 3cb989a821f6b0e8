package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const DefaultESImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

type ESConfig struct {
	Image          string
	StartupTimeout time.Duration
}

func (c ESConfig) withDefaults() ESConfig {
	if c.Image == "" {
		c.Image = DefaultESImage
	}
	if c.StartupTimeout == 0 {
		c.StartupTimeout = 90 * time.Second
	}
	return c
}

// Addresses is the client address list for the container.
func (c *ESContainer) Addresses() []string {
	return []string{c.Address}
}

// NewESContainer starts a single-node Elasticsearch without authentication. The
// container is terminated when the test finishes.
func NewESContainer(ctx context.Context, tb testing.TB, cfgs ...ESConfig) *ESContainer {
	tb.Helper()

	var cfg ESConfig
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	cfg = cfg.withDefaults()

	container, err := elasticsearch.Run(ctx, cfg.Image,
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200").
				WithStartupTimeout(cfg.StartupTimeout),
		),
	)
	if err != nil {
		tb.Fatalf("elasticsearch container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminate elasticsearch container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "9200/tcp", "http")
	if err != nil {
		tb.Fatalf("elasticsearch endpoint: %v", err)
	}

	return &ESContainer{Container: container, Address: endpoint}
}
