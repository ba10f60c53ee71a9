package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"catalogadmin/dashboard"
	"catalogadmin/logger"
	"catalogadmin/normalize"

	"github.com/gorilla/mux"
)

const maxFormBytes = 1 << 20

// saveResponse echoes the canonical payload next to what the API returned.
type saveResponse[E any, P any] struct {
	Entity  E `json:"entity"`
	Payload P `json:"payload"`
}

type entityHandler[E any, F normalize.Form[P], P any] struct {
	entity dashboard.Entity[E, F, P]
	res    dashboard.Resource[E, P]
	loader dashboard.LookupLoader
}

// mountEntity registers the list, form and write routes for one entity under plural.
func mountEntity[E any, F normalize.Form[P], P any](r *mux.Router, plural string, entity dashboard.Entity[E, F, P], res dashboard.Resource[E, P], loader dashboard.LookupLoader) {
	h := &entityHandler[E, F, P]{entity: entity, res: res, loader: loader}
	base := "/" + plural
	r.HandleFunc(base, h.list).Methods(http.MethodGet)
	r.HandleFunc(base, h.create).Methods(http.MethodPost)
	r.HandleFunc(base+"/new", h.blank).Methods(http.MethodGet)
	r.HandleFunc(base+"/normalize", h.normalize).Methods(http.MethodPost)
	r.HandleFunc(base+"/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id}/form", h.form).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc(base+"/{id}", h.remove).Methods(http.MethodDelete)
}

func (h *entityHandler[E, F, P]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.res.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []E{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *entityHandler[E, F, P]) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.res.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// blank returns an empty working model with its defaults.
func (h *entityHandler[E, F, P]) blank(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.entity.Blank())
}

// form returns the working model hydrated from the stored entity.
func (h *entityHandler[E, F, P]) form(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.res.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	var lk normalize.Lookups
	if len(h.entity.Lookups) > 0 && h.loader != nil {
		if lk, err = h.loader.Lookups(ctx, h.entity.Lookups...); err != nil {
			writeError(w, err)
			return
		}
	}
	f, err := h.entity.Hydrate(e, lk)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// normalize validates a working model and returns the payload without
// sending it.
func (h *entityHandler[E, F, P]) normalize(w http.ResponseWriter, r *http.Request) {
	f, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	payload, err := h.entity.Normalize(f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *entityHandler[E, F, P]) create(w http.ResponseWriter, r *http.Request) {
	f, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	payload, err := h.entity.Normalize(f)
	if err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.res.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("entity created", logger.String("entity", h.entity.Name), logger.String("id", h.entity.ID(saved)))
	writeJSON(w, http.StatusCreated, saveResponse[E, P]{Entity: saved, Payload: payload})
}

func (h *entityHandler[E, F, P]) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	if formID := h.entity.FormID(f); formID != "" && formID != id {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("form id %q does not match %q", formID, id))
		return
	}
	payload, err := h.entity.Normalize(f)
	if err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.res.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("entity updated", logger.String("entity", h.entity.Name), logger.String("id", id))
	writeJSON(w, http.StatusOK, saveResponse[E, P]{Entity: saved, Payload: payload})
}

func (h *entityHandler[E, F, P]) remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.res.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	logger.Info("entity deleted", logger.String("entity", h.entity.Name), logger.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *entityHandler[E, F, P]) decodeForm(w http.ResponseWriter, r *http.Request) (F, bool) {
	var f F
	dec := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes))
	if err := dec.Decode(&f); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid "+h.entity.Name+" form: "+err.Error())
		return f, false
	}
	return f, true
}
