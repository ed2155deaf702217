package checks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pleme-io/pleme-health/health"
)

// MongoChecker checks MongoDB connectivity by pinging the primary.
type MongoChecker struct {
	uri string

	once      sync.Once
	client    *mongo.Client
	clientErr error
}

// MongoDB creates a checker for the deployment at uri
// (mongodb://[user:password@]host:port/?options). The client is created on
// the first check and reused afterwards.
func MongoDB(uri string) *MongoChecker {
	return &MongoChecker{uri: uri}
}

// MongoClient creates a checker that reuses an existing client.
func MongoClient(client *mongo.Client) *MongoChecker {
	c := &MongoChecker{client: client}
	c.once.Do(func() {})
	return c
}

// Check performs the MongoDB health check.
func (c *MongoChecker) Check(ctx context.Context) health.Result {
	start := time.Now()

	client, err := c.connect()
	if err != nil {
		return health.Unhealthy(fmt.Sprintf("mongodb client creation failed: %v", err))
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return health.Unhealthy(fmt.Sprintf("mongodb connection failed: %v", err))
	}

	return health.Healthy().WithDuration(time.Since(start))
}

// Close disconnects the client created from the URI. Clients passed to
// MongoClient are owned by the caller and left connected.
func (c *MongoChecker) Close() error {
	if c.uri == "" || c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func (c *MongoChecker) connect() (*mongo.Client, error) {
	c.once.Do(func() {
		opts := options.Client().ApplyURI(c.uri).SetRetryReads(false)
		c.client, c.clientErr = mongo.Connect(context.Background(), opts)
	})
	return c.client, c.clientErr
}
