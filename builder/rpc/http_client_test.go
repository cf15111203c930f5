package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	os.Exit(m.Run())
}

// newTestClient routes the client transport through httpmock.
func newTestClient(endpoint string, opts ...RequestOption) *HttpClient {
	client := NewHttpClient(endpoint, opts...)
	httpmock.ActivateNonDefault(client.hc)
	return client
}

func TestNewHttpClient(t *testing.T) {
	client := NewHttpClient("http://test.com")
	assert.NotNil(t, client)
	assert.NotNil(t, client.logger)
	assert.Equal(t, uint(1), client.retry)
}

func TestHttpClient_WithRetry(t *testing.T) {
	client := NewHttpClient("http://test.com")
	client.WithRetry(5)
	assert.Equal(t, uint(5), client.retry)
}

func TestHttpClient_Get(t *testing.T) {
	httpmock.RegisterResponder("GET", "http://test.com/api/v1/test",
		httpmock.NewStringResponder(200, `{"message": "success"}`))

	client := newTestClient("http://test.com")
	var result map[string]interface{}
	err := client.Get(context.Background(), "/api/v1/test", &result)

	assert.NoError(t, err)
	assert.Equal(t, "success", result["message"])
}

func TestHttpClient_Get_WithRetry(t *testing.T) {
	httpmock.Reset()
	responder := httpmock.NewErrorResponder(errors.New("network error"))
	httpmock.RegisterResponder("GET", "http://test.com/api/v1/retry", responder)

	client := newTestClient("http://test.com").WithRetry(3)
	var result map[string]interface{}
	err := client.Get(context.Background(), "/api/v1/retry", &result)

	assert.Error(t, err)
	// 1 initial attempt + 2 retries = 3 calls
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestHttpClient_Post(t *testing.T) {
	httpmock.RegisterResponder("POST", "http://test.com/api/v1/test",
		func(req *http.Request) (*http.Response, error) {
			var reqBody map[string]interface{}
			if err := json.NewDecoder(req.Body).Decode(&reqBody); err != nil {
				return httpmock.NewStringResponse(400, ""), nil
			}
			assert.Equal(t, "value", reqBody["key"])
			resp, err := httpmock.NewJsonResponse(200, map[string]interface{}{"status": "created"})
			return resp, err
		},
	)

	client := newTestClient("http://test.com")
	requestData := map[string]interface{}{"key": "value"}
	var result map[string]interface{}
	err := client.Post(context.Background(), "/api/v1/test", requestData, &result)

	assert.NoError(t, err)
	assert.Equal(t, "created", result["status"])
}

func TestHttpClient_PostResponse(t *testing.T) {
	httpmock.RegisterResponder("POST", "http://test.com/api/v1/post-resp",
		httpmock.NewStringResponder(http.StatusCreated, "created"))

	client := newTestClient("http://test.com")
	requestData := map[string]string{"key": "value"}

	resp, err := client.PostResponse(context.Background(), "/api/v1/post-resp", requestData)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHttpClient_GetResponse(t *testing.T) {
	httpmock.RegisterResponder("GET", "http://test.com/api/v1/stream",
		httpmock.NewStringResponder(200, "line one\nline two\n"))

	client := newTestClient("http://test.com")
	resp, err := client.GetResponse(context.Background(), "/api/v1/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(body))
}

func TestHttpClient_Delete(t *testing.T) {
	httpmock.RegisterResponder("DELETE", "http://test.com/api/v1/things/1",
		httpmock.NewStringResponder(200, `{"deleted": true}`))

	client := newTestClient("http://test.com")
	var result map[string]interface{}
	err := client.Delete(context.Background(), "/api/v1/things/1", &result)

	assert.NoError(t, err)
	assert.Equal(t, true, result["deleted"])
}

func TestHttpClient_StatusError(t *testing.T) {
	httpmock.RegisterResponder("GET", "http://test.com/api/v1/missing",
		httpmock.NewStringResponder(404, "not found"))

	client := newTestClient("http://test.com")
	err := client.Get(context.Background(), "/api/v1/missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status:404")
}

func TestAuthWithApiKey(t *testing.T) {
	httpmock.RegisterResponder("GET", "http://test.com/api/v1/secure",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer secret" {
				return httpmock.NewStringResponse(401, ""), nil
			}
			return httpmock.NewStringResponse(200, `{}`), nil
		},
	)

	client := newTestClient("http://test.com", AuthWithApiKey("secret"))
	var result map[string]interface{}
	err := client.Get(context.Background(), "/api/v1/secure", &result)
	assert.NoError(t, err)
}
