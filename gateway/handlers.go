package gateway

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/twinbridge/twinbridge/core/logger"
	"github.com/twinbridge/twinbridge/twin"
)

const timestampFormat = "2006-01-02 15:04:05"

// handleRoutes adds all handlers for the gateway's HTTP surface
func (g *Gateway) handleRoutes(router *mux.Router) {

	rlog := logger.Default()
	rlog.Debugln("gateway: handle route /instance GET")
	rlog.Debugln("gateway: handle route /state GET")
	rlog.Debugln("gateway: handle route /state/previous GET")
	rlog.Debugln("gateway: handle route /state/changes GET")
	rlog.Debugln("gateway: handle route /state/{properties,actions,events,relationships} GET")
	rlog.Debugln("gateway: handle route /state/{properties,actions,events,relationships}/{key} GET")
	rlog.Debugln("gateway: handle route /state/properties/{key}/value GET")
	rlog.Debugln("gateway: handle route /state/events/notifications GET")
	rlog.Debugln("gateway: handle route /state/relationships/{key}/instances GET")
	rlog.Debugln("gateway: handle route /state/actions/{key} POST")
	rlog.Debugln("gateway: handle route /storage GET")
	rlog.Debugln("gateway: handle route /storage/query POST")

	compressed := func(h http.HandlerFunc) http.Handler {
		return handlers.CompressHandler(h)
	}

	router.HandleFunc("/instance", g.instanceHandler).Methods(http.MethodGet)

	router.Handle("/state", compressed(g.stateHandler(g.store.read))).Methods(http.MethodGet)
	router.Handle("/state/previous", compressed(g.stateHandler(g.store.readPrevious))).Methods(http.MethodGet)
	router.Handle("/state/changes", compressed(g.changesHandler)).Methods(http.MethodGet)

	router.Handle("/state/properties", compressed(g.propertiesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/state/properties/{key}", g.propertyHandler).Methods(http.MethodGet)
	router.HandleFunc("/state/properties/{key}/value", g.propertyValueHandler).Methods(http.MethodGet)

	router.Handle("/state/actions", compressed(g.actionsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/state/actions/{key}", g.actionHandler).Methods(http.MethodGet)
	router.HandleFunc("/state/actions/{key}", g.invokeActionHandler).Methods(http.MethodPost)

	router.Handle("/state/events", compressed(g.eventsHandler)).Methods(http.MethodGet)
	router.Handle("/state/events/notifications", compressed(g.notificationsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/state/events/{key}", g.eventHandler).Methods(http.MethodGet)

	router.Handle("/state/relationships", compressed(g.relationshipsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/state/relationships/{key}", g.relationshipHandler).Methods(http.MethodGet)
	router.HandleFunc("/state/relationships/{key}/instances", g.relationshipInstancesHandler).Methods(http.MethodGet)

	router.HandleFunc("/storage", g.storageHandler).Methods(http.MethodGet)
	router.HandleFunc("/storage/query", g.storageQueryHandler).Methods(http.MethodPost)
}

func writeJSON(w http.ResponseWriter, object interface{}) {
	writeJSONStatus(w, http.StatusOK, object)
}

func writeJSONStatus(w http.ResponseWriter, status int, object interface{}) {
	jsonData, _ := json.Marshal(object)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(jsonData)
}

// writeNotFound reports a key that is absent in an otherwise present
// snapshot. The transport status stays 200, the body carries the error.
func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, map[string]string{"error": "not found"})
}

func (g *Gateway) instanceHandler(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
	writeJSON(w, g.instance)
}

// stateResponse is the wire shape of the /state and /state/previous routes
type stateResponse struct {
	EvaluationInstantEpochMs int64               `json:"evaluation_instant_epoch_ms"`
	EvaluationInstantDate    string              `json:"evaluation_instant_date"`
	Properties               []twin.Property     `json:"properties"`
	Actions                  []twin.Action       `json:"actions"`
	Events                   []twin.Event        `json:"events"`
	Relationships            []twin.Relationship `json:"relationships"`
}

// stateHandler serves a whole snapshot. A snapshot that has never been
// published is a transport-level failure here, unlike on the list routes.
func (g *Gateway) stateHandler(read func() *twin.Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		snapshot := read()
		if snapshot == nil {
			http.Error(w, "digital twin state not available", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stateResponse{
			EvaluationInstantEpochMs: snapshot.EvaluatedAt().UnixMilli(),
			EvaluationInstantDate:    snapshot.EvaluatedAt().Format(timestampFormat),
			Properties:               snapshot.Properties(),
			Actions:                  snapshot.Actions(),
			Events:                   snapshot.Events(),
			Relationships:            snapshot.Relationships(),
		})
	}
}

func (g *Gateway) changesHandler(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
	changes := g.store.readChanges()
	if changes == nil {
		http.Error(w, "digital twin state changes not available", http.StatusInternalServerError)
		return
	}
	writeJSON(w, changes)
}

func (g *Gateway) propertiesHandler(w http.ResponseWriter, r *http.Request) {
	properties := []twin.Property{}
	if snapshot := g.store.read(); snapshot != nil {
		properties = snapshot.Properties()
	}
	writeJSON(w, properties)
}

func (g *Gateway) actionsHandler(w http.ResponseWriter, r *http.Request) {
	actions := []twin.Action{}
	if snapshot := g.store.read(); snapshot != nil {
		actions = snapshot.Actions()
	}
	writeJSON(w, actions)
}

func (g *Gateway) eventsHandler(w http.ResponseWriter, r *http.Request) {
	events := []twin.Event{}
	if snapshot := g.store.read(); snapshot != nil {
		events = snapshot.Events()
	}
	writeJSON(w, events)
}

func (g *Gateway) relationshipsHandler(w http.ResponseWriter, r *http.Request) {
	relationships := []twin.Relationship{}
	if snapshot := g.store.read(); snapshot != nil {
		relationships = snapshot.Relationships()
	}
	writeJSON(w, relationships)
}

func (g *Gateway) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, g.notifications.list())
}

func (g *Gateway) propertyHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	snapshot := g.store.read()
	if snapshot == nil {
		writeNotFound(w)
		return
	}
	property, ok := snapshot.Property(key)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, property)
}

func (g *Gateway) propertyValueHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	snapshot := g.store.read()
	if snapshot == nil {
		fmt.Fprint(w, "property is not readable")
		return
	}
	property, ok := snapshot.Property(key)
	if !ok {
		fmt.Fprint(w, "property is not readable")
		return
	}
	fmt.Fprintf(w, "%v", property.Value)
}

func (g *Gateway) actionHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	snapshot := g.store.read()
	if snapshot == nil {
		writeNotFound(w)
		return
	}
	action, ok := snapshot.Action(key)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, action)
}

func (g *Gateway) eventHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	snapshot := g.store.read()
	if snapshot == nil {
		writeNotFound(w)
		return
	}
	event, ok := snapshot.Event(key)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, event)
}

func (g *Gateway) relationshipHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	snapshot := g.store.read()
	if snapshot == nil {
		writeNotFound(w)
		return
	}
	relationship, ok := snapshot.Relationship(key)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, relationship)
}

func (g *Gateway) relationshipInstancesHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	snapshot := g.store.read()
	if snapshot == nil {
		writeNotFound(w)
		return
	}
	relationship, ok := snapshot.Relationship(key)
	if !ok {
		writeNotFound(w)
		return
	}
	instances := relationship.Instances
	if instances == nil {
		instances = []twin.RelationshipInstance{}
	}
	writeJSON(w, instances)
}
