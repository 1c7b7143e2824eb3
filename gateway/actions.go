package gateway

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/twinbridge/twinbridge/core/logger"
)

func (g *Gateway) invokeActionHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	rlog := logger.FromContext(r.Context())
	rlog.Debugln("called route for", r.URL, r.Method)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "action rejected", http.StatusBadRequest)
		return
	}
	if !g.invokeAction(r.Context(), key, payload) {
		http.Error(w, "action rejected", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// invokeAction validates an action request against the current snapshot and
// forwards it fire-and-forget. It reports acceptance of the request, not
// the outcome of the action itself.
func (g *Gateway) invokeAction(ctx context.Context, key string, payload []byte) bool {
	rlog := logger.FromContext(ctx)

	snapshot := g.store.read()
	if snapshot == nil {
		rlog.Debugln("action rejected, no state available:", key)
		return false
	}
	action, ok := snapshot.Action(key)
	if !ok {
		rlog.Debugln("action rejected, not enabled:", key)
		return false
	}
	if g.actions == nil {
		rlog.Debugln("action rejected, no submitter bound:", key)
		return false
	}
	if g.validator != nil && action.SchemaID != "" && g.validator.HasSchema(action.SchemaID) {
		if err := g.validator.ValidateString(string(payload), action.SchemaID); err != nil {
			rlog.WithError(err).Debugln("action rejected, invalid payload:", key)
			return false
		}
	}
	if err := g.actions.SubmitAction(ctx, key, payload); err != nil {
		rlog.WithError(err).Errorln("action submission failed:", key)
		return false
	}
	rlog.Debugln("action forwarded:", key)
	return true
}
