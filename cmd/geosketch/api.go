package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jszwec/csvutil"
	"github.com/paulmach/orb/geojson"
)

/*
This file implements the geosketch local API.

Summary of operations:

    GET /session: get the drawing session state
   POST /session/complete: finish the in-progress drawing
   POST /session/cancel: abandon the in-progress drawing
    GET /symbols: list completed symbols
    GET /symbols/1: get symbol 1 as a GeoJSON feature
    GET /ws: upgrade the connection to a websocket carrying drawing notifications

Supports JSON and CSV encodings. CSV is better for bash.

The server only ever binds a loopback address.
*/

var localApiPort int

func ServeLocalAPI(listen string) error {
	if listen == "" {
		listen = "127.0.0.1:0"
	}

	l, err := net.Listen("tcp", listen)
	if err != nil {
		return err
	}

	tl, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("listener is not a *net.TCPAddr. Can't determine port.")
	}

	localApiPort = tl.Port
	log(LogCatgAPI, "Local API listening on port %d\n", localApiPort)

	return ServeAPIOnListener(l)
}

func ServeAPIOnListener(l net.Listener) error {
	handler := &ApiHandler{}
	err := http.Serve(l, handler)
	return err
}

func LocalAPIPort() int {
	return localApiPort
}

type ApiHandler struct {
}

func (a ApiHandler) ServeHTTP(rsp http.ResponseWriter, req *http.Request) {
	defer func() {
		if r := recover(); r != nil {
			dumpPanic(r)
			dumpLogs()
			dumpGoroutines()
			panic(r)
		}
	}()

	log(LogCatgAPI, "APIHandler.ServeHTTP: Received %s for URL path: %s\n", req.Method, req.URL.Path)

	if req.URL.Path == "/session" {
		a.serveSession(rsp, req)
		return
	} else if req.URL.Path == "/session/complete" {
		a.serveSessionAction(rsp, req, mapUI.completeDrawing)
		return
	} else if req.URL.Path == "/session/cancel" {
		a.serveSessionAction(rsp, req, mapUI.cancelDrawing)
		return
	} else if req.URL.Path == "/symbols" {
		a.serveSymbols(rsp, req)
		return
	} else if strings.HasPrefix(req.URL.Path, "/symbols/") {
		a.serveSymbol(rsp, req, req.URL.Path[9:])
		return
	} else if req.URL.Path == "/ws" {
		a.serveWebsocket(rsp, req)
		return
	}

	msg := fmt.Sprintf("Unsupported URL %s", req.URL.Path)
	http.Error(rsp, msg, http.StatusBadRequest)
}

type apiSession struct {
	Drawing     bool
	MouseDown   bool
	Mode        string
	StoppedDown bool
	Points      int
	// Anchor and Preview are "lon lat", or empty when there is no active
	// sketch or preview.
	Anchor  string `json:",omitempty" csv:"Anchor,omitempty"`
	Preview string `json:",omitempty" csv:"Preview,omitempty"`
}

func (a ApiHandler) serveSession(rsp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		methodNotSupported(rsp, req)
		return
	}

	sess := a.buildSession()

	contentType, enc, flush := a.getEncoderForHTTPResponse(rsp, req)

	rsp.Header().Add("Content-Type", string(contentType))
	enc.Encode(sess)
	flush()
}

func (a ApiHandler) buildSession() apiSession {
	// Read the session on the main goroutine so we don't cause race
	// conditions with event handling.
	ch := make(chan apiSession)

	workChan <- func() {
		state := mapUI.session.State()
		sess := apiSession{
			Drawing:     state.Drawing,
			MouseDown:   state.MouseDown,
			Mode:        state.Mode.String(),
			StoppedDown: state.StoppedDown,
		}
		if sk := mapUI.plotter.Sketch(); sk != nil {
			sess.Points = sk.Len()
			sess.Anchor = fmt.Sprintf("%g %g", sk.Anchor[0], sk.Anchor[1])
			if pt, ok := sk.Preview(); ok {
				sess.Preview = fmt.Sprintf("%g %g", pt[0], pt[1])
			}
		}
		ch <- sess
	}

	return <-ch
}

func (a ApiHandler) serveSessionAction(rsp http.ResponseWriter, req *http.Request, action func()) {
	if req.Method != http.MethodPost {
		methodNotSupported(rsp, req)
		return
	}

	done := make(chan struct{})
	workChan <- func() {
		action()
		close(done)
	}
	<-done

	rsp.WriteHeader(http.StatusNoContent)
}

type apiSymbol struct {
	Id          int
	NumPoints   int
	CompletedAt string
	// Points is the geometry flattened to "lon lat;lon lat;..." so that a
	// symbol stays a single CSV row.
	Points string
}

type apiSymbols []apiSymbol

func (a ApiHandler) serveSymbols(rsp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		methodNotSupported(rsp, req)
		return
	}

	var syms apiSymbols
	for _, sym := range symbolStore.All() {
		syms = append(syms, buildApiSymbol(sym))
	}

	contentType, enc, flush := a.getEncoderForHTTPResponse(rsp, req)

	rsp.Header().Add("Content-Type", string(contentType))
	enc.Encode(syms)
	flush()
}

func buildApiSymbol(sym Symbol) apiSymbol {
	var pts strings.Builder
	for i, pt := range sym.Geometry {
		if i > 0 {
			pts.WriteByte(';')
		}
		fmt.Fprintf(&pts, "%g %g", pt[0], pt[1])
	}

	return apiSymbol{
		Id:          sym.ID,
		NumPoints:   len(sym.Geometry),
		CompletedAt: sym.CompletedAt.Format(time.RFC3339),
		Points:      pts.String(),
	}
}

// serveSymbol returns one symbol as a GeoJSON feature.
func (a ApiHandler) serveSymbol(rsp http.ResponseWriter, req *http.Request, idstr string) {
	if req.Method != http.MethodGet {
		methodNotSupported(rsp, req)
		return
	}

	id, err := strconv.Atoi(idstr)
	if err != nil {
		msg := fmt.Sprintf("Invalid symbol id '%s'", idstr)
		http.Error(rsp, msg, http.StatusBadRequest)
		return
	}

	sym, ok := symbolStore.Find(id)
	if !ok {
		msg := fmt.Sprintf("No symbol with id %d", id)
		http.Error(rsp, msg, http.StatusNotFound)
		return
	}

	feature := geojson.NewFeature(sym.Geometry)
	feature.Properties["id"] = sym.ID
	feature.Properties["completedAt"] = sym.CompletedAt.Format(time.RFC3339)

	buf, err := json.Marshal(feature)
	if err != nil {
		http.Error(rsp, err.Error(), http.StatusInternalServerError)
		return
	}

	rsp.Header().Add("Content-Type", "application/geo+json")
	rsp.Write(buf)
}

func (a ApiHandler) serveWebsocket(rsp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		methodNotSupported(rsp, req)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	conn, err := upgrader.Upgrade(rsp, req, nil)
	if err != nil {
		msg := fmt.Sprintf("Upgrading the connection to a websocket failed: %v", err)
		http.Error(rsp, msg, http.StatusInternalServerError)
		return
	}

	log(LogCatgAPI, "APIHandler.serveWebsocket: upgraded connection from %s\n", req.RemoteAddr)

	notifier.Register(conn)
}

func methodNotSupported(rsp http.ResponseWriter, req *http.Request) {
	msg := fmt.Sprintf("Method %s is not supported for %s", req.Method, req.URL.Path)
	http.Error(rsp, msg, http.StatusBadRequest)
}

func getEncoding(req *http.Request) (contentType apiEncoding) {
	typ := req.Header.Get("Accept")
	log(LogCatgAPI, "ApiHandler.getEncoding: Accept header is '%s'\n", typ)
	if typ == string(encodingTextCsv) {
		return encodingTextCsv
	}

	return encodingApplicationJson
}

func getEncoder(writer io.Writer, contentType apiEncoding) (enc Encoder, flush func()) {
	if contentType == encodingTextCsv {
		w := csv.NewWriter(writer)
		enc = csvutil.NewEncoder(w)
		flush = func() {
			w.Flush()
		}
		return
	}

	jenc := json.NewEncoder(writer)
	jenc.SetIndent("", "  ")
	enc = jenc
	flush = func() {}

	return
}

func (a ApiHandler) getEncoderForHTTPResponse(rsp http.ResponseWriter, req *http.Request) (contentType apiEncoding, enc Encoder, flush func()) {
	contentType = getEncoding(req)
	enc, flush = getEncoder(rsp, contentType)
	return
}

type Encoder interface {
	Encode(v interface{}) error
}

type apiEncoding string

const (
	encodingTextCsv         apiEncoding = "text/csv"
	encodingApplicationJson             = "application/json"
)

// Notification is pushed to every websocket client at each drawing
// lifecycle moment.
type Notification struct {
	Op       string      `json:"op"`
	Point    *[2]float64 `json:"point,omitempty"`
	Points   int         `json:"points"`
	SymbolID int         `json:"symbolId,omitempty"`
}

// Notifier fans drawing notifications out to the connected websockets.
type Notifier struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewNotifier() *Notifier {
	return &Notifier{conns: make(map[*websocket.Conn]bool)}
}

func (n *Notifier) Register(conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.conns[conn] = true
}

// Broadcast sends the notification to every client. Connections that fail
// to accept the write are dropped.
func (n *Notifier) Broadcast(notif Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for conn := range n.conns {
		err := conn.WriteJSON(notif)
		if err != nil {
			log(LogCatgAPI, "Notifier.Broadcast: dropping websocket client: %v\n", err)
			conn.Close()
			delete(n.conns, conn)
		}
	}
}
