package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"catalogadmin/api"
	"catalogadmin/dashboard"
	"catalogadmin/logger"
	"catalogadmin/model"
	"catalogadmin/normalize"
	"catalogadmin/storage"

	"github.com/gorilla/mux"
)

type plaqueHandler struct {
	api dashboard.PlaqueAPI
}

func (h *plaqueHandler) add(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePlaque(w, r)
	if !ok {
		return
	}
	album, err := h.api.AddPlaque(r.Context(), mux.Vars(r)["id"], p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (h *plaqueHandler) update(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	p, ok := decodePlaque(w, r)
	if !ok {
		return
	}
	album, err := h.api.UpdatePlaque(r.Context(), mux.Vars(r)["id"], index, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *plaqueHandler) remove(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	album, err := h.api.DeletePlaque(r.Context(), mux.Vars(r)["id"], index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func decodePlaque(w http.ResponseWriter, r *http.Request) (model.Plaque, bool) {
	var in model.Plaque
	if err := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes)).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid plaque: "+err.Error())
		return in, false
	}
	p, err := dashboard.NewPlaque(in.Type, in.ImageURL, in.PriceRange)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return p, false
	}
	return p, true
}

// lookupHandler serves select-box options for one reference collection.
func lookupHandler(loader dashboard.LookupLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["collection"]
		var pick func(normalize.Lookups) normalize.Lookup
		switch name {
		case api.CollectionArtists:
			pick = func(l normalize.Lookups) normalize.Lookup { return l.Artists }
		case api.CollectionGenres:
			pick = func(l normalize.Lookups) normalize.Lookup { return l.Genres }
		case api.CollectionUsers:
			pick = func(l normalize.Lookups) normalize.Lookup { return l.Users }
		case api.CollectionAlbums:
			pick = func(l normalize.Lookups) normalize.Lookup { return l.Albums }
		default:
			writeMessage(w, http.StatusNotFound, "Unknown collection "+name)
			return
		}
		lk, err := loader.Lookups(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		options := pick(lk).Options()
		if options == nil {
			options = []normalize.Option{}
		}
		writeJSON(w, http.StatusOK, options)
	}
}

type uploadHandler struct {
	uploader dashboard.ImageUploader
	maxBytes int64
}

// targetResolver is implemented by *storage.Uploader.
type targetResolver interface {
	Target(kind storage.Kind) (storage.Target, bool)
}

// upload takes a multipart "file" field and stores it under the kind's target.
func (h *uploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, dashboard.ErrNoUploader)
		return
	}
	kind := storage.Kind(mux.Vars(r)["kind"])
	if tr, ok := h.uploader.(targetResolver); ok {
		if _, known := tr.Target(kind); !known {
			writeError(w, storage.ErrUnknownTarget)
			return
		}
	}
	limit := h.maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	// multipart framing on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, storage.ErrTooLarge)
			return
		}
		writeMessage(w, http.StatusBadRequest, "Failed to parse form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	res, err := h.uploader.Upload(r.Context(), kind, header.Filename, file)
	if err != nil {
		logger.Warn("upload rejected",
			logger.String("kind", string(kind)),
			logger.String("filename", header.Filename),
			logger.String("message", api.UserMessage(err)))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
