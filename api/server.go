package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"dynamo-metrics-digest/metrics"
	"dynamo-metrics-digest/types"
)

// Server exposes the aggregated artifacts over REST and pushes them to
// dashboard clients over a websocket. All websocket client bookkeeping
// happens on the central manager goroutine.
type Server struct {
	logger       *zerolog.Logger
	store        *Store
	config       *types.Config
	metrics      *metrics.Metrics
	broadcast    chan types.Broadcast
	wsClients    map[*websocket.Conn]interface{}
	newConnCh    chan *websocket.Conn
	disconnectCh chan *websocket.Conn
	srv          *http.Server
	wg           *sync.WaitGroup
	shutdownCh   chan struct{}
}

func New(config *types.Config, logger *zerolog.Logger, store *Store, m *metrics.Metrics, channel chan types.Broadcast) *Server {
	api := &Server{
		logger:       logger,
		store:        store,
		config:       config,
		metrics:      m,
		broadcast:    channel,
		wsClients:    make(map[*websocket.Conn]interface{}),
		newConnCh:    make(chan *websocket.Conn),
		disconnectCh: make(chan *websocket.Conn),
		wg:           &sync.WaitGroup{},
		shutdownCh:   make(chan struct{}),
	}

	api.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", config.ServerPort),
		Handler: api.Handler(),
	}

	// Central goroutine to manage connections and broadcasting
	api.wg.Add(1)
	go api.manageConnections()

	return api
}

// Handler builds the router: one REST endpoint per artifact, the
// websocket stream, Prometheus metrics, and the static dashboard assets.
func (api *Server) Handler() http.Handler {
	r := mux.NewRouter()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow any origin for WebSocket connections
		},
	}

	// serve websocket connections
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			api.logger.Error().Err(err).Msg("Error upgrading connection")
			return
		}
		api.logger.Info().Msgf("Client connected: %s", conn.RemoteAddr())
		api.newConnCh <- conn
	})

	r.HandleFunc("/api/series/count", api.handleCountSeries).Methods(http.MethodGet)
	r.HandleFunc("/api/series/p99", api.handleP99Series).Methods(http.MethodGet)
	r.HandleFunc("/api/metadata", api.handleMetadata).Methods(http.MethodGet)
	r.HandleFunc("/api/peaks", api.handlePeaks).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", api.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/reload", api.handleReload).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	// serve static files
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir(api.config.UIDir))))

	return r
}

func (api *Server) Serve() error {
	api.logger.Info().Msgf("Listening on port %d", api.config.ServerPort)
	if err := api.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (api *Server) manageConnections() {
	defer api.wg.Done()

	for {
		select {
		case <-api.shutdownCh:
			api.cleanupAndReturn()
			return
		case broadcast := <-api.broadcast:
			api.logger.Debug().Msgf("Received broadcast: %s", broadcast.MessageType)
			jsonData, err := json.Marshal(broadcast)
			if err != nil {
				api.logger.Error().Err(err).Msg("Error marshaling Broadcast")
				continue
			}
			for conn := range api.wsClients {
				api.broadcastData(jsonData, conn)
			}
		case conn := <-api.newConnCh:
			api.wsClients[conn] = struct{}{}
			api.metrics.ConnectedClients.Set(float64(len(api.wsClients)))
			api.sendConfiguration(conn)
			api.sendArtifacts(conn)

			go api.handleClientMessages(conn)
		case conn := <-api.disconnectCh:
			if _, ok := api.wsClients[conn]; ok {
				if err := conn.Close(); err != nil {
					api.logger.Error().Err(err).Msg("Error closing connection")
				}
				delete(api.wsClients, conn)
				api.metrics.ConnectedClients.Set(float64(len(api.wsClients)))
			}
		}
	}
}

func (api *Server) cleanupAndReturn() {
	for conn := range api.wsClients {
		if err := conn.Close(); err != nil {
			api.logger.Error().Err(err).Msg("Error closing connection")
		}
		delete(api.wsClients, conn)
	}
	api.metrics.ConnectedClients.Set(0)
}

// sendArtifacts pushes the full artifact set to a newly connected client.
func (api *Server) sendArtifacts(conn *websocket.Conn) {
	api.sendEnvelope(conn, types.Broadcast{MessageType: "count_series", Data: api.store.CountSeries()})
	api.sendEnvelope(conn, types.Broadcast{MessageType: "p99_series", Data: api.store.P99Series()})
	api.sendEnvelope(conn, types.Broadcast{MessageType: "metadata", Data: api.store.Metadata()})
	api.sendEnvelope(conn, types.Broadcast{MessageType: "peaks", Data: api.store.Peaks()})
}

func (api *Server) sendConfiguration(conn *websocket.Conn) {
	api.sendEnvelope(conn, types.Broadcast{MessageType: "config", Data: api.config})
}

func (api *Server) sendEnvelope(conn *websocket.Conn, envelope types.Broadcast) {
	jsonData, err := json.Marshal(envelope)
	if err != nil {
		api.logger.Error().Err(err).Msgf("Error marshaling %s", envelope.MessageType)
		return
	}
	api.broadcastData(jsonData, conn)
}

// broadcastData runs on the manager goroutine, so dropping a dead client
// here is safe.
func (api *Server) broadcastData(jsonData []byte, conn *websocket.Conn) {
	if err := conn.WriteMessage(websocket.TextMessage, jsonData); err != nil {
		api.logger.Error().Err(err).Msg("Failed to write message")
		if err := conn.Close(); err != nil {
			api.logger.Error().Err(err).Msg("Failed to close connection")
		}
		delete(api.wsClients, conn)
		api.metrics.ConnectedClients.Set(float64(len(api.wsClients)))
		return
	}
	api.metrics.BroadcastsSent.Inc()
}

func (api *Server) handleClientMessages(conn *websocket.Conn) {
	defer func() {
		select {
		case api.disconnectCh <- conn:
		case <-api.shutdownCh:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				api.logger.Error().Err(err).Msg("Error reading WebSocket message")
			}
			break
		}

		api.handleMessage(message)
	}
}

func (api *Server) handleMessage(message []byte) {
	var received types.Broadcast
	if err := json.Unmarshal(message, &received); err != nil {
		api.logger.Error().Err(err).Msg("Error unmarshalling WebSocket message")
		return
	}

	switch received.MessageType {
	case "reload":
		if err := api.store.Reload(); err != nil {
			api.logger.Error().Err(err).Msg("Failed to reload artifacts")
			return
		}
		api.notifyRefresh()
	default:
		api.logger.Warn().Msg("Received an unsupported message type")
	}
}

// notifyRefresh tells every connected client to pull the artifacts again.
func (api *Server) notifyRefresh() {
	select {
	case api.broadcast <- types.Broadcast{MessageType: "refresh", Data: time.Now().UTC()}:
	case <-api.shutdownCh:
	}
}

func (api *Server) handleCountSeries(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, api.store.CountSeries())
}

func (api *Server) handleP99Series(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, api.store.P99Series())
}

func (api *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, metadataDocument{Tables: api.store.Metadata()})
}

func (api *Server) handlePeaks(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, api.store.Peaks())
}

func (api *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := api.store.Summary()
	if summary == nil {
		http.Error(w, "no run summary available", http.StatusNotFound)
		return
	}
	api.writeJSON(w, summary)
}

func (api *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := api.store.Reload(); err != nil {
		api.logger.Error().Err(err).Msg("Failed to reload artifacts")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	api.notifyRefresh()
	api.writeJSON(w, map[string]string{"status": "reloaded"})
}

func (api *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (api *Server) Stop() {
	api.logger.Info().Msg("Stopping API server")
	close(api.shutdownCh)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := api.srv.Shutdown(ctx); err != nil {
		api.logger.Error().Err(err).Msg("Failed to shut down HTTP server")
	}

	api.wg.Wait()
}
