// Package api implements a low-level API for interacting with geosketch.
//
// The general usage is to create a Geosketch struct using the New or NewFromEnv
// function, then call the Get, GetInto or Post methods, or the high-level
// wrappers built on them.

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
)

func checkHttpError(rsp *http.Response, msg string) error {
	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		body, _ := io.ReadAll(rsp.Body)
		return fmt.Errorf("%s: response contained a non-success status code (%d) %s\n", msg, rsp.StatusCode, string(body))
	}
	return nil
}

func prefixError(err error, msg string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %s", msg, err.Error())
}

type URLs struct {
	Host  string
	Proto string
	Port  string
}

func NewURLs(port string) URLs {
	return URLs{
		Proto: "http",
		Host:  "localhost",
		Port:  port,
	}
}

func (u URLs) Build(path string) string {
	return fmt.Sprintf("%s://%s:%s%s", u.Proto, u.Host, u.Port, path)
}

type Geosketch struct {
	urls   URLs
	client http.Client
}

func New(port string) Geosketch {
	return Geosketch{
		urls: NewURLs(port),
	}
}

func NewFromEnv() (gs Geosketch, err error) {
	port := os.Getenv("GEOSKETCH_API_PORT")

	if port == "" {
		err = fmt.Errorf("environment variable GEOSKETCH_API_PORT is not set")
		return
	}

	gs = Geosketch{
		urls: NewURLs(port),
	}
	return
}

// Get is a low-level API that performs an HTTP GET request to
// geosketch and returns the response.
func (g Geosketch) Get(path string) (rsp *http.Response, err error) {
	req, url, err := g.buildReq(http.MethodGet, path, nil)
	if err != nil {
		return
	}

	rsp, err = g.client.Do(req)
	err = prefixError(err, fmt.Sprintf("GET to %s failed", url))
	if err != nil {
		return
	}
	err = checkHttpError(rsp, fmt.Sprintf("GET to %s failed", url))
	return
}

// GetInto is a low-level API that performs an HTTP GET request to
// geosketch and decodes the response into resp. It is decoded using
// the encoding/json package.
func (g Geosketch) GetInto(path string, resp interface{}) (err error) {
	rsp, err := g.Get(path)
	if err != nil {
		return
	}
	raw, err := io.ReadAll(rsp.Body)
	err = prefixError(err, "Error reading body")
	if err != nil {
		return
	}
	err = json.Unmarshal(raw, resp)
	err = prefixError(err, fmt.Sprintf("Error decoding JSON GET response body, body is '%s'", raw))
	return
}

// Post is a low-level API that performs an HTTP POST request to
// geosketch with the body in `body` and returns the response. Body should
// usually be a reader that reads a JSON encoded value.
func (g Geosketch) Post(path string, body io.Reader) (rsp *http.Response, err error) {
	req, url, err := g.buildReq(http.MethodPost, path, body)
	if err != nil {
		return
	}

	rsp, err = g.client.Do(req)
	err = prefixError(err, fmt.Sprintf("POST to %s failed", url))
	if err != nil {
		return
	}
	err = checkHttpError(rsp, fmt.Sprintf("POST to %s failed", url))
	return
}

func (g Geosketch) buildReq(method, path string, body io.Reader) (req *http.Request, url string, err error) {
	url = g.urls.Build(path)
	req, err = http.NewRequest(method, url, body)
	err = prefixError(err, fmt.Sprintf("Error building %s request for %s", method, url))
	if err != nil {
		return
	}

	g.setHeaderFields(&req.Header)
	return
}

func (g Geosketch) setHeaderFields(hdr *http.Header) {
	hdr.Add("Content-Type", "application/json")
	hdr.Add("Accept", "application/json")
}

// Websock creates a websocket connection with geosketch to receive drawing
// notifications. The handlers in `handlers` are called when notifications
// arrive.
func (g Geosketch) Websock(handlers WebsockHandlers) (ws Websock, err error) {
	dialer := websocket.Dialer{}
	hdr := make(http.Header)
	g.setHeaderFields(&hdr)

	urls := g.urls
	urls.Proto = "ws"
	url := urls.Build("/ws")

	var conn *websocket.Conn
	conn, _, err = dialer.Dial(url, hdr)

	err = prefixError(err, fmt.Sprintf("GET to %s failed", url))
	if err != nil {
		return
	}

	ws = Websock{
		conn:     conn,
		handlers: handlers,
	}
	return
}

// Session is a high-level API to get from /session, which returns the
// drawing session state.
func (g Geosketch) Session() (sess Session, err error) {
	err = g.GetInto("/session", &sess)
	return
}

// Symbols is a high-level API to get from /symbols, which returns the
// completed symbols.
func (g Geosketch) Symbols() (syms []Symbol, err error) {
	err = g.GetInto("/symbols", &syms)
	return
}

// Symbol is a high-level API to get from /symbols/%d, which returns one
// symbol as a GeoJSON feature. The feature is returned undecoded.
func (g Geosketch) Symbol(id int) (feature json.RawMessage, err error) {
	rsp, err := g.Get(fmt.Sprintf("/symbols/%d", id))
	if err != nil {
		return
	}
	feature, err = io.ReadAll(rsp.Body)
	return
}

var noBody io.Reader

// CompleteDrawing is a high-level API to post to /session/complete, which
// finishes the in-progress drawing.
func (g Geosketch) CompleteDrawing() (err error) {
	_, err = g.Post("/session/complete", noBody)
	return
}

// CancelDrawing is a high-level API to post to /session/cancel, which
// abandons the in-progress drawing.
func (g Geosketch) CancelDrawing() (err error) {
	_, err = g.Post("/session/cancel", noBody)
	return
}
