package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (Geosketch, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("Expected no error but got %v", err)
	}
	return New(u.Port()), srv
}

func TestSession(t *testing.T) {
	gs, srv := newTestServer(t, func(rsp http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/session" {
			t.Fatalf("Expected a request for /session but got %s", req.URL.Path)
		}
		fmt.Fprint(rsp, `{"Drawing":true,"Mode":"touch","Points":3,"Anchor":"1 2"}`)
	})
	defer srv.Close()

	sess, err := gs.Session()
	if err != nil {
		t.Fatalf("Expected no error but got %v", err)
	}
	if !sess.Drawing || sess.Mode != "touch" || sess.Points != 3 {
		t.Fatalf("Expected a drawing touch session with 3 points but got %+v", sess)
	}
}

func TestSymbols(t *testing.T) {
	gs, srv := newTestServer(t, func(rsp http.ResponseWriter, req *http.Request) {
		fmt.Fprint(rsp, `[{"Id":1,"NumPoints":2,"Points":"0 0;1 1"}]`)
	})
	defer srv.Close()

	syms, err := gs.Symbols()
	if err != nil {
		t.Fatalf("Expected no error but got %v", err)
	}
	if len(syms) != 1 || syms[0].Id != 1 || syms[0].Points != "0 0;1 1" {
		t.Fatalf("Expected one symbol with two points but got %+v", syms)
	}
}

func TestCompleteDrawing(t *testing.T) {
	var method, path string
	gs, srv := newTestServer(t, func(rsp http.ResponseWriter, req *http.Request) {
		method = req.Method
		path = req.URL.Path
		rsp.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	err := gs.CompleteDrawing()
	if err != nil {
		t.Fatalf("Expected no error but got %v", err)
	}
	if method != http.MethodPost || path != "/session/complete" {
		t.Fatalf("Expected 'POST /session/complete' but got '%s %s'", method, path)
	}
}

func TestGetReportsHttpErrors(t *testing.T) {
	gs, srv := newTestServer(t, func(rsp http.ResponseWriter, req *http.Request) {
		http.Error(rsp, "no symbol with id 9", http.StatusNotFound)
	})
	defer srv.Close()

	_, err := gs.Symbol(9)
	if err == nil {
		t.Fatalf("Expected an error for a 404 response")
	}
}
