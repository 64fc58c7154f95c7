package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/colkit/internal/export"
	"github.com/Faultbox/colkit/internal/loader"
	"github.com/Faultbox/colkit/pkg/col"
)

var errBadPath = errors.New("invalid file path")

type modelInfo struct {
	Index  int         `json:"index"`
	Offset int         `json:"offset"`
	Size   int         `json:"size"`
	Model  col.Summary `json:"model"`
}

type fileInfo struct {
	ID          uuid.UUID        `json:"id"`
	File        string           `json:"file"`
	Size        int64            `json:"size"`
	Multi       bool             `json:"multi"`
	Models      []modelInfo      `json:"models"`
	Diagnostics []col.Diagnostic `json:"diagnostics"`
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := loader.Find(s.root)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, files)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name, res, ok := s.load(w, r)
	if !ok {
		return
	}

	info := fileInfo{
		ID:          res.ID,
		File:        name,
		Size:        res.Size,
		Multi:       res.Archive.Multi,
		Models:      []modelInfo{},
		Diagnostics: res.Archive.Diagnostics,
	}
	if info.Diagnostics == nil {
		info.Diagnostics = []col.Diagnostic{}
	}
	for i, e := range res.Archive.Entries {
		info.Models = append(info.Models, modelInfo{
			Index:  i,
			Offset: e.Offset,
			Size:   e.Size,
			Model:  e.Model.Summary(),
		})
	}
	writeJSON(w, info)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadModel(w, r)
	if !ok {
		return
	}
	writeJSON(w, newModelJSON(m))
}

func (s *Server) handleGLTF(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadModel(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, m, s.export); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	contentType := "model/gltf+json"
	if s.export.Binary {
		contentType = "model/gltf-binary"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		"attachment; filename="+strconv.Quote(modelFileName(m)+export.Ext(s.export)))
	w.Write(buf.Bytes())
}

// load decodes the file named in the request. On failure it writes the
// error response and reports false.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (string, *loader.Result, bool) {
	name, err := url.PathUnescape(mux.Vars(r)["file"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errBadPath)
		return "", nil, false
	}

	full, err := s.resolve(name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return "", nil, false
	}

	res, err := s.loader.Load(r.Context(), full)
	switch {
	case err == nil:
		return name, res, true
	case errors.Is(err, os.ErrNotExist):
		s.writeError(w, http.StatusNotFound, errors.Errorf("file %q not found", name))
	case errors.Is(err, col.ErrNoValidModel):
		s.writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
	return "", nil, false
}

func (s *Server) loadModel(w http.ResponseWriter, r *http.Request) (*col.Model, bool) {
	_, res, ok := s.load(w, r)
	if !ok {
		return nil, false
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid model index"))
		return nil, false
	}
	m := res.Archive.Model(index)
	if m == nil {
		s.writeError(w, http.StatusNotFound,
			errors.Errorf("model %d not found, file has %d models", index, res.Archive.Len()))
		return nil, false
	}
	return m, true
}

// resolve maps a slash-separated name to a path inside the server root.
func (s *Server) resolve(name string) (string, error) {
	if name == "" {
		return "", errBadPath
	}
	clean := path.Clean("/" + name)
	if clean == "/" {
		return "", errBadPath
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func modelFileName(m *col.Model) string {
	if m.Name == "" {
		return "model_" + strconv.Itoa(int(m.ID))
	}
	return m.Name
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
