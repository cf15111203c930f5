package common

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tunehub.io/tunehub-server/builder/rpc"
	"tunehub.io/tunehub-server/common/types"
)

var (
	failedEventCache = list.New()
	eventCacheLock   sync.Mutex
)

// Push delivers a status event to the api server webhook. A failed delivery
// lands on the in-memory replay list so the next successful push drains it.
func Push(address, apiKey string, event *types.WebHookEvent) error {
	if len(address) < 1 {
		slog.Warn("no webhook address configured for status event")
		return nil
	}

	client := rpc.NewHttpClient(address, rpc.AuthWithApiKey(apiKey)).WithRetry(3)
	urlPath := "/api/v1/webhook/runner"
	statusCode, err := pushOnce(client, urlPath, event)
	if err != nil {
		cacheFailedEvent(event)
		return fmt.Errorf("failed to push event to %s%s: %w", address, urlPath, err)
	}
	if statusCode != http.StatusOK {
		cacheFailedEvent(event)
		return fmt.Errorf("failed to push event to %s%s, response code %d", address, urlPath, statusCode)
	}
	return nil
}

// PushCachedFailedEvents replays delivery failures. Safe to call from any
// goroutine; concurrent callers skip instead of blocking.
func PushCachedFailedEvents(address, apiKey string) {
	if !eventCacheLock.TryLock() {
		return
	}
	defer eventCacheLock.Unlock()

	for failedEventCache.Len() > 0 {
		first := failedEventCache.Front()
		event, ok := first.Value.(types.WebHookEvent)
		failedEventCache.Remove(first)
		if !ok {
			continue
		}
		client := rpc.NewHttpClient(address, rpc.AuthWithApiKey(apiKey)).WithRetry(3)
		statusCode, err := pushOnce(client, "/api/v1/webhook/runner", &event)
		if err != nil || statusCode != http.StatusOK {
			// still unreachable, park it again and try on the next drain
			failedEventCache.PushFront(event)
			slog.Error("failed to re-send failed event", slog.Any("error", err), slog.Int("status", statusCode))
			return
		}
	}
}

func cacheFailedEvent(event *types.WebHookEvent) {
	eventCacheLock.Lock()
	defer eventCacheLock.Unlock()
	failedEventCache.PushBack(*event)
}

func pushOnce(client *rpc.HttpClient, urlPath string, event *types.WebHookEvent) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.PostResponse(ctx, urlPath, event)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
