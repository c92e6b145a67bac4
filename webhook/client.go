package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	urlpkg "net/url"
	"os"
	"path/filepath"

	"github.com/latticelab/xtal/config"
)

var client = &http.Client{}

// PostFileToWebhook posts a structure file and its metadata to the webhook
// server. jwt, if non-empty, is sent as a bearer token.
func PostFileToWebhook(filePath string, metadata map[string]any, jwt string) (map[string]any, error) {
	url, err := urlpkg.Parse(fmt.Sprintf("http://%s/upload", config.GetConfig().Webhook.Host))
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	mp := multipart.NewWriter(pw)

	er := make(chan error, 1)
	go func() {
		metadataString, err := json.Marshal(metadata)
		if err != nil {
			er <- err
			return
		}
		err = mp.WriteField("metadata", string(metadataString))
		if err != nil {
			er <- err
			return
		}
		file, err := os.Open(filePath)
		if err != nil {
			er <- err
			return
		}
		defer file.Close()
		part, err := mp.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			er <- err
			return
		}
		_, err = io.Copy(part, file)
		if err != nil {
			er <- err
			return
		}
		er <- mp.Close()
	}()

	req, err := http.NewRequest(http.MethodPost, url.String(), pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mp.FormDataContentType())
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	err = <-er
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == 400 {
		return nil, errors.New("bad request")
	}
	if resp.StatusCode == 401 {
		return nil, errors.New("unauthorized")
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("bad status code in response: %d", resp.StatusCode)
	}
	var value map[string]any
	err = json.NewDecoder(resp.Body).Decode(&value)
	if err != nil {
		return nil, err
	}
	return value, nil
}
