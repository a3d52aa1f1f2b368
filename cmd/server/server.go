// Package server implements the HTTP ingress: multipart batch upload,
// partition-only preview, and checklist load/replace, built on gorilla/mux
// with a conventional router and graceful-shutdown pattern.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/Phat0101/clearai-audit/internal/engine"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

const maxUploadBytes = 200 << 20 // 200 MiB: in-memory multipart budget and checklist PUT body cap

// API holds the dependencies the HTTP handlers close over.
type API struct {
	Orchestrator *engine.Orchestrator
	Checklist    *engine.ChecklistStore
	Logger       logging.Logger
}

// NewRouter builds the gorilla/mux router exposing the HTTP ingress
// contract.
func (a *API) NewRouter() *mux.Router {
	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/process-batch", a.handleProcessBatch).Methods("POST")
	apiRouter.HandleFunc("/upload-batch", a.handleUploadBatch).Methods("POST")
	apiRouter.HandleFunc("/checklist/{region}", a.handleGetChecklist).Methods("GET")
	apiRouter.HandleFunc("/checklist/{region}", a.handlePutChecklist).Methods("PUT")

	return router
}

func (a *API) handleProcessBatch(w http.ResponseWriter, r *http.Request) {
	region := engine.Region(r.URL.Query().Get("region"))
	if !region.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid region %q", region))
		return
	}

	files, err := parseMultipartPDFs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	manifest, err := a.Orchestrator.ProcessBatch(r.Context(), files, region)
	if err != nil {
		a.Logger.Errorf("process-batch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "engine fault")
		return
	}

	a.Logger.Infof("run %s: %d files, %d jobs", manifest.RunID, manifest.TotalFiles, manifest.TotalJobs)
	writeJSON(w, http.StatusOK, manifest)
}

// handleUploadBatch is the partition-only preview endpoint: it runs C1 but
// never invokes the pipeline.
func (a *API) handleUploadBatch(w http.ResponseWriter, r *http.Request) {
	files, err := parseMultipartPDFs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs := engine.Partition(files)
	order := engine.OrderedJobIDs(files)

	type jobPreview struct {
		JobID     string   `json:"job_id"`
		Filenames []string `json:"filenames"`
	}
	preview := make([]jobPreview, 0, len(order))
	for _, jobID := range order {
		var names []string
		for _, f := range jobs[jobID] {
			names = append(names, f.OriginalFilename)
		}
		preview = append(preview, jobPreview{JobID: jobID, Filenames: names})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_files": len(files),
		"total_jobs":  len(order),
		"jobs":        preview,
	})
}

func (a *API) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	region := engine.Region(mux.Vars(r)["region"])
	if !region.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid region %q", region))
		return
	}

	checklist, err := a.Checklist.Load(region)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, checklist)
}

func (a *API) handlePutChecklist(w http.ResponseWriter, r *http.Request) {
	region := engine.Region(mux.Vars(r)["region"])
	if !region.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid region %q", region))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := a.Checklist.Replace(region, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseMultipartPDFs(r *http.Request) ([]engine.FileUpload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	formFiles := r.MultipartForm.File["files"]
	files := make([]engine.FileUpload, 0, len(formFiles))
	for _, fh := range formFiles {
		contentType := fh.Header.Get("Content-Type")
		if contentType != "" && contentType != "application/pdf" {
			return nil, fmt.Errorf("file %s is not application/pdf", fh.Filename)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, engine.FileUpload{OriginalFilename: fh.Filename, Payload: data})
	}
	return files, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Serve runs the HTTP server on addr until an interrupt or SIGTERM is
// received, then drains in-flight requests within a 15s deadline.
func Serve(addr string, api *API) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  300 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	api.Logger.Infof("server started on %s", addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	api.Logger.Infof("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
