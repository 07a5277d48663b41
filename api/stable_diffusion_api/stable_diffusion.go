package stable_diffusion_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"slices"
	"strings"

	"waifu_bot/entities"
)

const textToImagePath = "/sdapi/v1/txt2img"

type apiImplementation struct {
	host   string
	client *http.Client
}

type Config struct {
	Host string
	// Client defaults to a client without a timeout. Generation can take minutes.
	Client *http.Client
}

func New(cfg Config) (StableDiffusionAPI, error) {
	if cfg.Host == "" {
		return nil, errors.New("missing host")
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	return &apiImplementation{
		host:   strings.TrimRight(cfg.Host, "/"),
		client: client,
	}, nil
}

func (api *apiImplementation) Host(url ...string) string {
	if len(url) > 0 {
		url = slices.Insert(url, 0, api.host)
		return strings.Join(url, "")
	}
	return api.host
}

func (api *apiImplementation) TextToImage(ctx context.Context, req *entities.TextToImageRequest) (*entities.TextToImageResponse, error) {
	if req == nil {
		return nil, generationError(InvalidResponse, errors.New("missing request"))
	}

	response := new(entities.TextToImageResponse)
	if err := POST(ctx, api.client, api.Host(textToImagePath), req, response); err != nil {
		return nil, err
	}

	if response.Images == nil {
		return nil, generationError(InvalidResponse, errors.New("response has no images field"))
	}
	if len(response.Images) == 0 {
		return nil, generationError(NoImageProduced, errors.New("images is empty"))
	}

	return response, nil
}

func (api *apiImplementation) Alive(ctx context.Context) bool {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, api.host, nil)
	if err != nil {
		return false
	}
	response, err := api.client.Do(request)
	if err != nil {
		return false
	}
	defer closeResponseBody(response.Body)
	return response.StatusCode == http.StatusOK
}

// POST is a generic function to make a POST request to the API
// It writes to v the response body as the specified type
func POST[T any](ctx context.Context, client *http.Client, url string, body any, v *T) error {
	reader := new(bytes.Buffer)
	if err := json.NewEncoder(reader).Encode(body); err != nil {
		return generationError(InvalidResponse, fmt.Errorf("error encoding request: %w", err))
	}
	return Do(ctx, client, http.MethodPost, url, reader, v)
}

// Do sends exactly one request. Transport errors are Unreachable, anything wrong with the answer is InvalidResponse.
func Do[T any](ctx context.Context, client *http.Client, method string, url string, body io.Reader, v *T) error {
	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return generationError(Unreachable, err)
	}

	request.Header.Set("Content-Type", "application/json; charset=UTF-8")
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		log.Printf("Error with API Request to %s: %v", url, err)
		return generationError(Unreachable, err)
	}
	defer closeResponseBody(response.Body)

	if response.StatusCode != http.StatusOK {
		responseString := " (unknown error)"
		body, _ := io.ReadAll(response.Body)
		if len(body) > 0 {
			responseString = fmt.Sprintf("\n```json\n%s\n```", body)
		}
		return generationError(InvalidResponse, fmt.Errorf("unexpected status code: `%s`%s", response.Status, responseString))
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(v); err != nil {
		return generationError(InvalidResponse, fmt.Errorf("error decoding response body: %w", err))
	}

	return nil
}

func closeResponseBody(closer io.Closer) {
	if err := closer.Close(); err != nil {
		log.Printf("Error closing response body: %v", err)
	}
}
