package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HttpClient is shared by the CLI commands; Lambda invocations may take up to a minute.
var HttpClient = &http.Client{Timeout: 60 * time.Second}

func PostJson(url string, body []byte) (*http.Response, error) {
	return PostJsonWithContext(context.Background(), url, body)
}

// PostJsonWithContext posts body and returns an error for any non-200 status.
// The response is returned in that case too, so that callers can read the error body.
func PostJsonWithContext(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("Server response: %v", resp.Status)
	}
	return resp, nil
}

func GetJson(url string) (*http.Response, error) {
	resp, err := HttpClient.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("Server response: %v", resp.Status)
	}
	return resp, nil
}

func PrintJsonResponse(resp io.ReadCloser) {
	defer resp.Close()
	body, _ := io.ReadAll(resp)

	// print indented JSON
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "\t"); err != nil {
		os.Stdout.Write(body)
		return
	}
	out.WriteTo(os.Stdout)
}
