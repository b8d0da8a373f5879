package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/omreport/config"
	"p9e.in/omreport/pkg/annotate"
	"p9e.in/omreport/pkg/imaging"
	"p9e.in/omreport/store"
)

// UploadPhotos stages photos onto a report from a multipart upload. The
// files go through the capture pipeline one at a time; a corrupt file is
// skipped without failing the batch, so the response carries whatever
// could be staged.
func UploadPhotos(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := store.New(config.DB)
	rep, err := s.GetReport(id)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rep == nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	// Parse the multipart form (max 50MB)
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		http.Error(w, "missing photos field", http.StatusBadRequest)
		return
	}

	files := make([]imaging.NamedReader, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			log.Printf("upload: cannot open %s: %v", fh.Filename, err)
			continue
		}
		defer f.Close()
		files = append(files, imaging.NamedReader{Name: fh.Filename, Reader: f})
	}

	staged := imaging.ProcessBatch(files, currentPolicy(s))
	rep.Photos = append(rep.Photos, staged...)
	if err := s.SaveReport(rep); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"staged": len(staged),
		"report": rep,
	})
}

type strokePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type annotateReq struct {
	Caption       string          `json:"caption"`
	Color         string          `json:"color"`
	DisplayWidth  float64         `json:"displayWidth"`
	DisplayHeight float64         `json:"displayHeight"`
	Strokes       [][]strokePoint `json:"strokes"`
}

// AnnotatePhoto replays the client's stroke list through an editor session
// over the photo and commits the result back into the report.
func AnnotatePhoto(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s := store.New(config.DB)
	rep, err := s.GetReport(vars["id"])
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rep == nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	idx := -1
	for i := range rep.Photos {
		if rep.Photos[i].ID == vars["photoId"] {
			idx = i
			break
		}
	}
	if idx < 0 {
		http.Error(w, "photo not found", http.StatusNotFound)
		return
	}

	var req annotateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	ed := annotate.Open(&rep.Photos[idx], req.DisplayWidth, req.DisplayHeight)
	ed.SetDrawing(true)
	ed.SetColor(req.Color)
	for _, stroke := range req.Strokes {
		if len(stroke) == 0 {
			continue
		}
		ed.PointerDown(stroke[0].X, stroke[0].Y)
		for _, p := range stroke[1:] {
			ed.PointerMove(p.X, p.Y)
		}
		ed.PointerUp()
	}
	ed.SetCaption(req.Caption)
	if err := ed.Commit(); err != nil {
		http.Error(w, "annotate failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.SaveReport(rep); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep.Photos[idx])
}

// DeletePhoto removes one photo from its report outright; photos have no
// soft-delete.
func DeletePhoto(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s := store.New(config.DB)
	rep, err := s.GetReport(vars["id"])
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rep == nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	idx := -1
	for i := range rep.Photos {
		if rep.Photos[i].ID == vars["photoId"] {
			idx = i
			break
		}
	}
	if idx < 0 {
		http.Error(w, "photo not found", http.StatusNotFound)
		return
	}
	rep.Photos = append(rep.Photos[:idx], rep.Photos[idx+1:]...)

	if err := s.SaveReport(rep); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// currentPolicy resolves the persisted quality tier, defaulting to medium
// when unset or unreadable.
func currentPolicy(s *store.Store) imaging.Policy {
	var name string
	if _, err := s.GetSetting(store.SettingQualityPolicy, &name); err != nil {
		log.Printf("settings: quality policy unreadable: %v", err)
	}
	return imaging.PolicyFor(name)
}
