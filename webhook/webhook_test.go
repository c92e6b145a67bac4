package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/latticelab/xtal/config"
	"github.com/latticelab/xtal/database"
)

func TestMain(m *testing.M) {
	// Point the config at a throwaway dir before anything loads it, and
	// back the store singleton with an in-memory database.
	dir, err := os.MkdirTemp("", "webhook-test")
	if err != nil {
		panic(err)
	}
	confPath := filepath.Join(dir, "config.toml")
	conf := fmt.Sprintf("[dirs]\noutput = %q\n[store]\npath = %q\n",
		filepath.Join(dir, "output"), filepath.Join(dir, "structures.db"))
	if err := os.WriteFile(confPath, []byte(conf), 0644); err != nil {
		panic(err)
	}
	os.Setenv("XTAL_CONFIG_PATH", confPath)

	store, err := database.Open(":memory:")
	if err != nil {
		panic(err)
	}
	database.SetStore(store)

	code := m.Run()
	store.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["message"] != "pong" {
		t.Errorf("ping returned %v", body)
	}
}

func multipartUpload(t *testing.T, url, filename, contents string, metadata map[string]any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		t.Fatal(err)
	}
	if err := mp.WriteField("metadata", string(metaJSON)); err != nil {
		t.Fatal(err)
	}
	part, err := mp.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatal(err)
	}
	if err := mp.Close(); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url+"/upload/", mp.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestUploadAndFetch(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp := multipartUpload(t, srv.URL, "twin.xsf", "CRYSTAL\n", map[string]any{"source": "upload-test"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	var uploaded map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatal(err)
	}
	if uploaded["filename"] == "" || uploaded["sha256"] == "" {
		t.Fatalf("unexpected upload response %v", uploaded)
	}

	// Listed
	listResp, err := http.Get(srv.URL + "/structures")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var list []map[string]string
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range list {
		if e["filename"] == uploaded["filename"] {
			found = true
			if e["format"] != "XSF" {
				t.Errorf("listed format = %s, want XSF", e["format"])
			}
		}
	}
	if !found {
		t.Fatalf("uploaded file missing from listing %v", list)
	}

	// Downloadable with original bytes
	getResp, err := http.Get(srv.URL + "/structures/" + uploaded["filename"])
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	var data bytes.Buffer
	if _, err := data.ReadFrom(getResp.Body); err != nil {
		t.Fatal(err)
	}
	if data.String() != "CRYSTAL\n" {
		t.Errorf("downloaded data = %q", data.String())
	}

	// Attributes carry the metadata and digests
	attrResp, err := http.Get(srv.URL + "/structures/" + uploaded["filename"] + "/attributes")
	if err != nil {
		t.Fatal(err)
	}
	defer attrResp.Body.Close()
	var attrs map[string]any
	if err := json.NewDecoder(attrResp.Body).Decode(&attrs); err != nil {
		t.Fatal(err)
	}
	if attrs["source"] != "upload-test" {
		t.Errorf("metadata attribute = %v", attrs["source"])
	}
	if attrs["sha256"] != uploaded["sha256"] {
		t.Errorf("sha256 attribute = %v, want %v", attrs["sha256"], uploaded["sha256"])
	}
}

func TestPostFileToWebhook(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()
	// The client derives its URL from the configured webhook host
	config.GetConfig().Webhook.Host = strings.TrimPrefix(srv.URL, "http://")

	path := filepath.Join(t.TempDir(), "client.xsf")
	if err := os.WriteFile(path, []byte("CRYSTAL\n"), 0644); err != nil {
		t.Fatal(err)
	}
	resp, err := PostFileToWebhook(path, map[string]any{"source": "client-test"}, "")
	if err != nil {
		t.Fatal(err)
	}
	name, _ := resp["filename"].(string)
	if name == "" {
		t.Fatalf("unexpected response %v", resp)
	}

	getResp, err := http.Get(srv.URL + "/structures/" + name)
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("uploaded file not retrievable, status %d", getResp.StatusCode)
	}
}

func TestGetStructureNotFound(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/structures/nope.xsf")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	srv := httptest.NewServer(Router(auth))
	defer srv.Close()

	resp := multipartUpload(t, srv.URL, "twin.xsf", "CRYSTAL\n", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated upload status = %d, want 401", resp.StatusCode)
	}

	// With a token it goes through
	_, token, err := auth.Encode(map[string]any{"sub": "test"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	part, err := mp.CreateFormFile("file", "authed.xsf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("CRYSTAL\n"))
	mp.Close()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/upload/", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mp.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	authedResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer authedResp.Body.Close()
	if authedResp.StatusCode != http.StatusOK {
		t.Errorf("authenticated upload status = %d", authedResp.StatusCode)
	}
}

func TestPhaseSeriesCSV(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/phases/series?delta=0.5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(body.String(), "mpea,structure,") {
		t.Errorf("unexpected CSV body %q", body.String())
	}
	if !strings.Contains(body.String(), "Al1.500CoCrFeNi") {
		t.Error("series missing y=1.5 endpoint")
	}

	bad, err := http.Get(srv.URL + "/phases/series?delta=abc")
	if err != nil {
		t.Fatal(err)
	}
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("bad delta status = %d, want 400", bad.StatusCode)
	}
}

func TestPhaseTernaryJSON(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/phases/ternary?delta=0.25")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var points []struct {
		Name  string  `json:"mpea"`
		A     float64 `json:"al"`
		B     float64 `json:"cocr"`
		C     float64 `json:"feni"`
		Color float64 `json:"color"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		t.Fatal(err)
	}
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}
	for _, p := range points {
		if sum := p.A + p.B + p.C; sum < 0.999 || sum > 1.001 {
			t.Errorf("%s coords sum to %g", p.Name, sum)
		}
	}
}
