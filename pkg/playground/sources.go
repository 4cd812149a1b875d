package playground

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-formstudio/pkg/catalog"
)

// Sources names the places examples are loaded from.
type Sources struct {
	// Dir is a directory of JSON/YAML catalog files. Empty means the embedded
	// catalog.
	Dir string
	// OpenAPI is a file path or http(s) URL of an OpenAPI 3 document whose
	// component schemas are merged into the catalog.
	OpenAPI string
	// HTTPClient fetches remote OpenAPI documents. Defaults to a client with
	// a 30 second timeout.
	HTTPClient *http.Client
}

// LoadCatalog builds the catalog described by src.
func LoadCatalog(ctx context.Context, src Sources) (*catalog.Catalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		cat *catalog.Catalog
		err error
	)
	if dir := strings.TrimSpace(src.Dir); dir != "" {
		info, statErr := os.Stat(dir)
		if statErr != nil {
			return nil, fmt.Errorf("playground: catalog dir: %w", statErr)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("playground: catalog dir %q is not a directory", dir)
		}
		cat, err = catalog.LoadFS(os.DirFS(dir))
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("playground: load catalog: %w", err)
	}

	location := strings.TrimSpace(src.OpenAPI)
	if location == "" {
		return cat, nil
	}
	data, err := readDocument(ctx, location, src.HTTPClient)
	if err != nil {
		return nil, err
	}
	examples, err := catalog.FromOpenAPI(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("playground: %w", err)
	}
	if len(examples) == 0 {
		return cat, nil
	}
	extra, err := catalog.New(examples...)
	if err != nil {
		return nil, fmt.Errorf("playground: %w", err)
	}
	merged, err := cat.Merge(extra)
	if err != nil {
		return nil, fmt.Errorf("playground: merge openapi examples: %w", err)
	}
	return merged, nil
}

func readDocument(ctx context.Context, location string, client *http.Client) ([]byte, error) {
	if !isRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("playground: read openapi document: %w", err)
		}
		return data, nil
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("playground: build openapi request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("playground: fetch openapi document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playground: fetch openapi document: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("playground: read openapi response: %w", err)
	}
	return data, nil
}

func isRemote(location string) bool {
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}
