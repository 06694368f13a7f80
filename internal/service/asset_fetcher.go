package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"exam_portal_backend/internal/config"
)

// AssetFetcher downloads binary assets such as certificate backgrounds.
type AssetFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

type HTTPAssetFetcher struct {
	client   *http.Client
	baseURL  string
	maxBytes int64
}

func NewHTTPAssetFetcher(cfg *config.CertificateConfig) *HTTPAssetFetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBytes := cfg.MaxAssetBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &HTTPAssetFetcher{
		client:   &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.AssetBaseURL, "/"),
		maxBytes: maxBytes,
	}
}

// Fetch resolves relative references like /uploads/bg.png against the
// configured base URL.
func (f *HTTPAssetFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	url := ref
	if strings.HasPrefix(ref, "/") {
		if f.baseURL == "" {
			return nil, fmt.Errorf("relative asset %q needs certificate.asset_base_url", ref)
		}
		url = f.baseURL + ref
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset request returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.New("asset exceeds size limit")
	}
	if len(data) == 0 {
		return nil, errors.New("asset is empty")
	}
	return data, nil
}
