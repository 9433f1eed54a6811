package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	// NOTE: モック設定側は *http.Response 型のnilを返すこと。
	// interface{}(nil) のままだと型アサーションがパニックする。
	return args.Get(0).(*http.Response), args.Error(1)
}

func TestNew(t *testing.T) {
	t.Run("default timeout", func(t *testing.T) {
		client := New(0)
		assert.Equal(t, DefaultHTTPTimeout, client.httpClient.(*http.Client).Timeout)
	})
	t.Run("custom timeout", func(t *testing.T) {
		timeout := 5 * time.Second
		client := New(timeout)
		assert.Equal(t, timeout, client.httpClient.(*http.Client).Timeout)
	})
	t.Run("with HTTP client option", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		client := New(10*time.Second, WithHTTPClient(mockClient))
		assert.Equal(t, mockClient, client.httpClient)
	})
}

func TestGet(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
			w.Write([]byte("hello"))
		}))
		defer server.Close()

		client := New(10 * time.Second)
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), body)
	})

	t.Run("http client error", func(t *testing.T) {
		mockClient := new(MockHTTPClient)

		var resp *http.Response
		mockClient.On("Do", mock.Anything).Return(resp, errors.New("network error"))

		client := &Client{httpClient: mockClient}
		_, err := client.Get(context.Background(), "https://example.com")
		assert.Error(t, err)
		assert.False(t, IsStatusError(err))
		mockClient.AssertExpectations(t)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		mockResponse := &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewReader([]byte("not found"))),
		}
		mockClient.On("Do", mock.Anything).Return(mockResponse, nil)

		client := &Client{httpClient: mockClient}
		_, err := client.Get(context.Background(), "https://example.com/missing")
		require.Error(t, err)
		assert.True(t, IsStatusError(err))

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Equal(t, "https://example.com/missing", statusErr.URL)
		mockClient.AssertExpectations(t)
	})
}

func TestFetchBytes(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("feed body"))
		}))
		defer server.Close()

		client := New(10 * time.Second)
		body, err := client.FetchBytes(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("feed body"), body)
	})

	t.Run("status error propagates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := New(10 * time.Second)
		_, err := client.FetchBytes(context.Background(), server.URL)
		assert.True(t, IsStatusError(err))
	})
}

func TestIsStatusError(t *testing.T) {
	assert.False(t, IsStatusError(nil))
	assert.False(t, IsStatusError(errors.New("other")))
	assert.True(t, IsStatusError(&StatusError{URL: "http://ex.com", StatusCode: 500}))
}
