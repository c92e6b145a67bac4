// Package webhook is the HTTP surface of the structure store: artifact
// listing and download, composition/ternary data for the hosted
// visualizers, and authenticated structure upload.
package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/latticelab/xtal/config"
	"github.com/latticelab/xtal/database"
	"github.com/latticelab/xtal/phase"
	"github.com/latticelab/xtal/util"
)

// Helper function to write http JSON response
func writeJsonResponse(w http.ResponseWriter, httpStatus int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		httpStatus = http.StatusInternalServerError
		jsonData = []byte(`{"error": "Internal server error: ` + err.Error() + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_, err = w.Write(jsonData)
	if err != nil {
		fmt.Println("Failed to write response:", err)
	}
}

// Handle ping request
func handlePing(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, map[string]string{"message": "pong"})
}

// Handle request to list stored structure files
func handleListStructures(w http.ResponseWriter, r *http.Request) {
	store, err := database.GetStore()
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	artifacts, err := store.List(r.Context())
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	type entry struct {
		Filename string `json:"filename"`
		Format   string `json:"format"`
		SHA256   string `json:"sha256"`
	}
	out := make([]entry, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, entry{Filename: a.Filename, Format: a.Format, SHA256: a.SHA256})
	}
	writeJsonResponse(w, http.StatusOK, out)
}

// Handle request to download one stored structure file
func handleGetStructure(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	store, err := database.GetStore()
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	artifact, err := store.Get(r.Context(), filename)
	if err == database.ErrNotFound {
		writeJsonResponse(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/"+strings.ToLower(artifact.Format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		fmt.Println("Failed to write response:", err)
	}
}

// Handle request to get all attributes of a stored structure file
func handleGetStructureAttributes(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	store, err := database.GetStore()
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	raw, err := store.Attributes(r.Context(), filename)
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	decoded := map[string]any{}
	for name, value := range raw {
		var v any
		if err := cbor.Unmarshal(value, &v); err != nil {
			writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		decoded[name] = v
	}
	writeJsonResponse(w, http.StatusOK, decoded)
}

func seriesFromQuery(r *http.Request) ([]phase.Row, error) {
	delta := 0.05
	if q := r.URL.Query().Get("delta"); q != "" {
		var err error
		delta, err = strconv.ParseFloat(q, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid delta %q", q)
		}
	}
	return phase.Series(delta)
}

// Handle request for the composition series as CSV
func handlePhaseSeries(w http.ResponseWriter, r *http.Request) {
	rows, err := seriesFromQuery(r)
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	if err := phase.WriteCSV(w, rows); err != nil {
		fmt.Println("Failed to write response:", err)
	}
}

// Handle request for the ternary projection of the composition series
func handlePhaseTernary(w http.ResponseWriter, r *http.Request) {
	rows, err := seriesFromQuery(r)
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	points, err := phase.Ternary(rows)
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJsonResponse(w, http.StatusOK, points)
}

// Handle structure file upload request: accept file and metadata from
// multipart form, hash the file, save to the store and output directory,
// and set attributes from the metadata
func handleFileUpload(w http.ResponseWriter, r *http.Request) {
	form, err := r.MultipartReader()
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	store, err := database.GetStore()
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var fileName string
	var data []byte
	var digests util.Digests
	metadataMap := map[string]any{}
	for {
		part, err := form.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if part.FormName() == "metadata" {
			metadataFormatType := part.Header.Get("Content-Type")
			metadataValue, err := io.ReadAll(part)
			part.Close()
			if err != nil {
				writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			switch metadataFormatType {
			case "application/cbor":
				err = cbor.Unmarshal(metadataValue, &metadataMap)
			default:
				err = json.Unmarshal(metadataValue, &metadataMap)
			}
			if err != nil {
				writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
		} else if part.FormName() == "file" {
			fileName = filepath.Base(part.FileName())
			dw := util.NewDigestWriter()
			data, err = io.ReadAll(io.TeeReader(part, dw))
			part.Close()
			if err != nil {
				writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			digests = dw.Sum()
		}
	}
	if fileName == "" || len(data) == 0 {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "no file in form"})
		return
	}

	format := strings.ToUpper(strings.TrimPrefix(filepath.Ext(fileName), "."))
	saved, err := store.Save(r.Context(), fileName, format, data, digests.SHA256)
	if err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	metadataMap["sha256"] = digests.SHA256
	metadataMap["md5"] = digests.MD5
	metadataMap["blake3"] = digests.Blake3
	for name, value := range metadataMap {
		raw, err := cbor.Marshal(value)
		if err != nil {
			writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if err := store.SetAttribute(r.Context(), saved, name, raw); err != nil {
			writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	if err := CopyOutputToFilePath(data, saved); err != nil {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJsonResponse(w, http.StatusOK, map[string]string{
		"filename": saved,
		"sha256":   digests.SHA256,
	})
}

// Router builds the HTTP routes. Mutating routes are protected by auth.
func Router(auth *jwtauth.JWTAuth) chi.Router {
	r := chi.NewRouter()
	r.Get("/ping", handlePing)
	r.Get("/structures", handleListStructures)
	r.Get("/structures/{filename}", handleGetStructure)
	r.Get("/structures/{filename}/attributes", handleGetStructureAttributes)
	r.Get("/phases/series", handlePhaseSeries)
	r.Get("/phases/ternary", handlePhaseTernary)
	r.Route("/upload", func(r chi.Router) {
		if auth != nil {
			r.Use(jwtauth.Verifier(auth))
			r.Use(jwtauth.Authenticator(auth))
		}
		r.Post("/", handleFileUpload)
	})
	return r
}

func Run(args []string) error {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	jwtTokenAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)

	host := config.GetConfig().Webhook.Host
	if host == "" {
		return fmt.Errorf("webhook host not set in config")
	}
	fmt.Println("Webhook server running on", host)
	return http.ListenAndServe(host, Router(jwtTokenAuth))
}
