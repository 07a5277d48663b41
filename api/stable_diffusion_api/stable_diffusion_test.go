package stable_diffusion_api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waifu_bot/entities"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) (StableDiffusionAPI, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	api, err := New(Config{Host: server.URL + "/"})
	require.NoError(t, err)
	return api, &calls
}

func testRequest() *entities.TextToImageRequest {
	checkpoint := "anything-v3.0.ckpt"
	return &entities.TextToImageRequest{
		Prompt:           "a cat",
		Seed:             42,
		CFGScale:         12,
		Steps:            50,
		SamplerName:      "DDIM",
		OverrideSettings: &entities.Config{SDModelCheckpoint: &checkpoint},
	}
}

func TestNewRequiresHost(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestTextToImage(t *testing.T) {
	var body map[string]any
	api, calls := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, textToImagePath, r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"images":["aGVsbG8=","d29ybGQ="],"info":"{}"}`))
	})

	response, err := api.TextToImage(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"aGVsbG8=", "d29ybGQ="}, response.Images)
	assert.EqualValues(t, 1, calls.Load())

	assert.Equal(t, "a cat", body["prompt"])
	assert.EqualValues(t, 42, body["seed"])
	assert.Equal(t, false, body["tiling"])
	assert.EqualValues(t, 12, body["cfg_scale"])
	assert.EqualValues(t, 50, body["steps"])
	assert.Equal(t, "DDIM", body["sampler_name"])
	assert.Equal(t, "", body["negative_prompt"])
	assert.Equal(t, false, body["override_settings_restore_after"])
	assert.Equal(t, map[string]any{"sd_model_checkpoint": "anything-v3.0.ckpt"}, body["override_settings"])
}

func TestTextToImageNoImages(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images":[]}`))
	})

	_, err := api.TextToImage(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoImageProduced)
	assert.Equal(t, "txt2img did not produce an image", err.Error())
}

func TestTextToImageInvalidResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"not json", http.StatusOK, `<html>oops</html>`},
		{"wrong schema", http.StatusOK, `{"images":"not a list"}`},
		{"missing images", http.StatusOK, `{"detail":"Not Found"}`},
		{"server error", http.StatusInternalServerError, `{"error":"OutOfMemoryError"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, calls := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			})

			_, err := api.TextToImage(context.Background(), testRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidResponse)
			assert.NotErrorIs(t, err, ErrUnreachable)
			assert.EqualValues(t, 1, calls.Load())
		})
	}
}

func TestTextToImageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	host := server.URL
	server.Close()

	api, err := New(Config{Host: host})
	require.NoError(t, err)

	_, err = api.TextToImage(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, "Could not connect to txt2img API", err.Error())

	var generationErr *GenerationError
	require.True(t, errors.As(err, &generationErr))
	assert.NotNil(t, generationErr.Err)
}

func TestAlive(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.True(t, api.Alive(context.Background()))

	dead, err := New(Config{Host: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.False(t, dead.Alive(context.Background()))
}

func TestHost(t *testing.T) {
	api, err := New(Config{Host: "http://localhost:7860/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7860", api.Host())
	assert.Equal(t, "http://localhost:7860/sdapi/v1/txt2img", api.Host(textToImagePath))
}
