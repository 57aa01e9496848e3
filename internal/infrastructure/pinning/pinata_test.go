package pinning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"healthvault/config"

	"github.com/stretchr/testify/require"
)

func TestPinFile(t *testing.T) {
	var gotAuth string
	var gotMetadata map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "report.pdf", header.Filename)

		require.NoError(t, json.Unmarshal([]byte(r.FormValue("pinataMetadata")), &gotMetadata))
		require.JSONEq(t, `{"cidVersion":1,"wrapWithDirectory":false}`, r.FormValue("pinataOptions"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"IpfsHash":  "bafybeihash",
			"PinSize":   1234,
			"Timestamp": "2026-08-31T09:00:00Z",
		})
	}))
	defer server.Close()

	client := NewClient(config.PinataConfig{
		BaseURL:    server.URL,
		GatewayURL: "https://gateway.test",
		JWT:        "test-jwt",
	})

	result, err := client.PinFile(context.Background(), "report.pdf", strings.NewReader("pdf-bytes"), map[string]string{
		"type": "patient_document",
	})
	require.NoError(t, err)
	require.Equal(t, "bafybeihash", result.IpfsHash)
	require.Equal(t, "https://gateway.test/ipfs/bafybeihash", result.URL)

	require.Equal(t, "Bearer test-jwt", gotAuth)
	require.Equal(t, "report.pdf", gotMetadata["name"])
	keyvalues, ok := gotMetadata["keyvalues"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "patient_document", keyvalues["type"])
}

func TestPinFileUsesAPIKeyPairWithoutJWT(t *testing.T) {
	var gotKey, gotSecret, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("pinata_api_key")
		gotSecret = r.Header.Get("pinata_secret_api_key")
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"IpfsHash": "bafyother"})
	}))
	defer server.Close()

	client := NewClient(config.PinataConfig{
		BaseURL:    server.URL,
		GatewayURL: "https://gateway.test",
		APIKey:     "key",
		SecretKey:  "secret",
	})

	_, err := client.PinFile(context.Background(), "a.txt", strings.NewReader("x"), nil)
	require.NoError(t, err)
	require.Equal(t, "key", gotKey)
	require.Equal(t, "secret", gotSecret)
	require.Empty(t, gotAuth)
}

func TestPinFileErrors(t *testing.T) {
	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(config.PinataConfig{BaseURL: server.URL})
		_, err := client.PinFile(context.Background(), "a.txt", strings.NewReader("x"), nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "401")
	})

	t.Run("missing hash in response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewClient(config.PinataConfig{BaseURL: server.URL})
		_, err := client.PinFile(context.Background(), "a.txt", strings.NewReader("x"), nil)
		require.Error(t, err)
	})
}

func TestGatewayURL(t *testing.T) {
	client := NewClient(config.PinataConfig{GatewayURL: "https://gateway.test"})
	require.Equal(t, "https://gateway.test/ipfs/bafyhash", client.GatewayURL("bafyhash"))
}
