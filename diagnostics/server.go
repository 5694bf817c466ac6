package diagnostics

import (
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"ashrun/atomic_float"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>ashrun diagnostics</title></head>
<body>
<h1>ashrun live pool</h1>
<p>mean turn cost at page load: {{printf "%.2f" .MeanTurnMillis}}ms</p>
<pre id="snapshot">waiting for first turn...</pre>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  document.getElementById("snapshot").textContent = JSON.stringify(JSON.parse(ev.data), null, 2);
};
</script>
</body>
</html>`

// indexPageData is the data serveIndex renders indexPage against.
type indexPageData struct {
	MeanTurnMillis float64
}

// Server serves the diagnostics page and its websocket feed. It does not
// limit connections: every connected browser reads from the same feed
// channel, so each snapshot reaches only one of them. It never blocks the
// driver: Publish drops a snapshot rather than wait for a slow or absent
// client.
type Server struct {
	addr    string
	logger  *log.Logger
	updates chan Snapshot

	// MeanTurnMillis is a lock-free running estimate of search.Choose's
	// wall-clock cost, updated by the driver after every turn and read
	// concurrently by the index page handler.
	MeanTurnMillis *atomic_float.AtomicFloat64
}

// NewServer returns a Server bound to addr. Nothing listens until Serve is
// called.
func NewServer(addr string, logger *log.Logger) *Server {
	return &Server{
		addr:           addr,
		logger:         logger,
		updates:        make(chan Snapshot, 1),
		MeanTurnMillis: atomic_float.NewAtomicFloat64(0),
	}
}

// Publish offers snapshot to the feed without blocking: if no browser is
// connected, or the last snapshot hasn't been drained yet, the new one
// replaces it rather than queuing.
func (s *Server) Publish(snapshot Snapshot) {
	select {
	case s.updates <- snapshot:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- snapshot:
		default:
		}
	}
}

// RecordTurnMillis folds one turn's wall-clock cost into MeanTurnMillis
// using exponential smoothing, so the displayed figure tracks recent turns
// without needing a ring buffer.
func (s *Server) RecordTurnMillis(millis float64) {
	const smoothing = 0.2
	for {
		old := s.MeanTurnMillis.AtomicRead()
		next := old
		if old == 0 {
			next = millis
		} else {
			next = old + smoothing*(millis-old)
		}
		if s.MeanTurnMillis.AtomicSet(next) {
			return
		}
	}
}

// Serve blocks, serving the index page and websocket feed until the
// listener errors.
func (s *Server) Serve() error {
	router := mux.NewRouter()
	router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.serveWebsocket)

	if err := http.ListenAndServe(s.addr, router); err != nil {
		return fmt.Errorf("diagnostics serve: %w", err)
	}
	return nil
}

// serveIndex renders the static page plus the mean turn cost as of this
// request. This handler runs on its own goroutine per request, concurrently
// with the driver goroutine's RecordTurnMillis writes, so MeanTurnMillis
// is the one value in this repo genuinely read and written across goroutines.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	t := template.Must(template.New("index").Parse(indexPage))
	data := indexPageData{MeanTurnMillis: s.MeanTurnMillis.AtomicRead()}
	if err := t.Execute(w, data); err != nil {
		s.logger.Printf("diagnostics: rendering index: %v", err)
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	pub, err := newPublisher(s.updates, w, r)
	if err != nil {
		s.logger.Printf("diagnostics: websocket upgrade: %v", err)
		return
	}
	defer pub.ws.close()

	if err := pub.sync(); err != nil {
		s.logger.Printf("diagnostics: client disconnected: %v", err)
	}
}
