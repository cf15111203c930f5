package temporal

import (
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
)

// Client wraps the temporal sdk client with a worker registry so a process
// can register all of its workers first and start them together.
type Client interface {
	client.Client
	NewWorker(queue string, options worker.Options) worker.Registry
	Start() error
	Stop()
}

type clientImpl struct {
	client.Client
	workers []worker.Worker
}

var _client = &clientImpl{}

// Assign injects an already-dialed sdk client, for tests.
func Assign(c client.Client) {
	_client.Client = c
}

// NewClientByHostPort dials the temporal frontend and installs the otel
// tracing interceptor so workflow and activity spans join the service trace.
func NewClientByHostPort(hostPort string) (Client, error) {
	tracingInterceptor, err := opentelemetry.NewTracingInterceptor(opentelemetry.TracerOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal tracing interceptor: %w", err)
	}
	temporalClient, err := client.Dial(client.Options{
		HostPort:     hostPort,
		Logger:       log.NewStructuredLogger(slog.Default()),
		Interceptors: []interceptor.ClientInterceptor{tracingInterceptor},
	})
	if err != nil {
		return nil, err
	}
	_client.Client = temporalClient
	return _client, nil
}

func (c *clientImpl) NewWorker(queue string, options worker.Options) worker.Registry {
	w := worker.New(c.Client, queue, options)
	c.workers = append(c.workers, w)
	return w
}

func (c *clientImpl) Start() error {
	for _, worker := range c.workers {
		err := worker.Start()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *clientImpl) Stop() {
	for _, worker := range c.workers {
		worker.Stop()
	}
	if c.Client != nil {
		c.Close()
	}
}

func GetClient() Client {
	return _client
}
