package gateway

import (
	"io"
	"net/http"

	"github.com/twinbridge/twinbridge/core/logger"
	"github.com/twinbridge/twinbridge/storage"
)

func (g *Gateway) storageHandler(w http.ResponseWriter, r *http.Request) {
	rlog := logger.FromContext(r.Context())
	rlog.Debugln("called route for", r.URL, r.Method)

	if g.storage == nil {
		http.Error(w, "storage not available", http.StatusNotFound)
		return
	}
	stats, err := g.storage.Stats(r.Context())
	if err != nil {
		rlog.WithError(err).Errorln("storage stats failed")
		http.Error(w, "storage not available", http.StatusNotFound)
		return
	}
	writeJSON(w, stats)
}

func (g *Gateway) storageQueryHandler(w http.ResponseWriter, r *http.Request) {
	rlog := logger.FromContext(r.Context())
	rlog.Debugln("called route for", r.URL, r.Method)

	if g.storage == nil {
		http.Error(w, "storage not available", http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "cannot read request body"})
		return
	}
	request, err := storage.Translate(body)
	if err != nil {
		rlog.WithError(err).Debugln("query rejected")
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := g.storage.ExecuteQuery(r.Context(), request)
	if err != nil {
		rlog.WithError(err).Errorln("query execution failed")
		writeJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !result.Success {
		writeJSONStatus(w, http.StatusBadRequest, result)
		return
	}
	if result.Records == nil {
		result.Records = []interface{}{}
	}
	writeJSON(w, result)
}
