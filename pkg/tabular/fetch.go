package tabular

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/edubook/edubook/pkg/books"
)

// Fetch downloads a workbook from a URL and imports it. Shared school
// drives tend to flake, so the request retries with backoff.
func Fetch(url string) (textbooks, notebooks []books.Raw, err error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil

	resp, err := client.Get(url)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetching workbook: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return ImportReader(bytes.NewReader(body))
}
