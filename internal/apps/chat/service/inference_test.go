package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHFClient_Complete(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Stay hydrated."}}]}`))
	}))
	defer srv.Close()

	client := NewHFClient(HFConfig{APIKey: "hf_test", BaseURL: srv.URL + "/"}, srv.Client())
	reply, err := client.Complete(context.Background(), SystemPrompt, "I have a cold")

	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated.", reply)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "I have a cold", got.Messages[1].Content)
}

func TestHFClient_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	reply, err := NewHFClient(HFConfig{APIKey: "k", BaseURL: srv.URL}, nil).Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, EmptyCompletionText, reply)
}

func TestHFClient_Errors(t *testing.T) {
	_, err := NewHFClient(HFConfig{}, nil).Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrInferenceUnavailable)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model is loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err = NewHFClient(HFConfig{APIKey: "k", BaseURL: srv.URL}, nil).Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
