package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func apiURL(path string) string {
	return strings.TrimRight(viper.GetString("server"), "/") + path
}

func getJSON(path string, out any) error {
	res, err := httpClient.Get(apiURL(path))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return decodeResponse(res, out)
}

func postJSON(path string, in, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(in); err != nil {
		return err
	}
	res, err := httpClient.Post(apiURL(path), "application/json", &buf)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return decodeResponse(res, out)
}

func deleteJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodDelete, apiURL(path), nil)
	if err != nil {
		return err
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return decodeResponse(res, out)
}

// decodeResponse surfaces the server's error field on non-2xx statuses
// and otherwise decodes the body into out.
func decodeResponse(res *http.Response, out any) error {
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if b, err := io.ReadAll(res.Body); err == nil && json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s (status %d)", apiErr.Error, res.StatusCode)
		}
		return fmt.Errorf("server returned status %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
