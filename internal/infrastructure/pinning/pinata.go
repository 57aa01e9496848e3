package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"healthvault/config"
)

// Pinner uploads a file to content-addressed storage and returns its hash.
// Implemented by the Pinata client; usecases depend on this interface so
// tests can substitute a fake.
type Pinner interface {
	PinFile(ctx context.Context, filename string, content io.Reader, metadata map[string]string) (*PinResult, error)
	GatewayURL(hash string) string
}

// PinResult is the outcome of a successful pin.
type PinResult struct {
	IpfsHash string
	URL      string
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Client talks to the Pinata pinning API.
type Client struct {
	cfg        config.PinataConfig
	httpClient *http.Client
}

func NewClient(cfg config.PinataConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// PinFile uploads the content as multipart form data and returns the
// content hash Pinata assigned. Metadata keyvalues travel alongside the
// file for later lookup in the pinning dashboard.
func (c *Client) PinFile(ctx context.Context, filename string, content io.Reader, metadata map[string]string) (*PinResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	pinataMetadata, err := json.Marshal(map[string]interface{}{
		"name":      filename,
		"keyvalues": metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode pin metadata: %w", err)
	}
	if err := writer.WriteField("pinataMetadata", string(pinataMetadata)); err != nil {
		return nil, fmt.Errorf("failed to write pin metadata: %w", err)
	}

	if err := writer.WriteField("pinataOptions", `{"cidVersion":1,"wrapWithDirectory":false}`); err != nil {
		return nil, fmt.Errorf("failed to write pin options: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.cfg.BaseURL + "/pinning/pinFileToIPFS"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build pin request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// JWT auth wins over the legacy API key pair
	if c.cfg.JWT != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.JWT)
	} else {
		req.Header.Set("pinata_api_key", c.cfg.APIKey)
		req.Header.Set("pinata_secret_api_key", c.cfg.SecretKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("pinning service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}
	if parsed.IpfsHash == "" {
		return nil, fmt.Errorf("pinning service returned no content hash")
	}

	return &PinResult{
		IpfsHash: parsed.IpfsHash,
		URL:      c.GatewayURL(parsed.IpfsHash),
	}, nil
}

// GatewayURL derives the public retrieval URL for a pinned hash.
func (c *Client) GatewayURL(hash string) string {
	return fmt.Sprintf("%s/ipfs/%s", c.cfg.GatewayURL, hash)
}
