package main

import (
	"net/http"
	_ "net/http/pprof"
)

const (
	LogCatgApp  = "Application"
	LogCatgUI   = "UI"
	LogCatgMap  = "Map"
	LogCatgDraw = "Drawing"
	LogCatgTile = "Tiles"
	LogCatgAPI  = "API"
	LogCatgConf = "Config"
)

var killPprofDebugServer = make(chan struct{})

func startPprofDebugServer() {
	go func() {
		server := &http.Server{Addr: "localhost:6060"}

		go func() {
			<-killPprofDebugServer
			server.Close()
		}()

		err := server.ListenAndServe()

		if err != nil && err.Error() != "http: Server closed" {
			log(LogCatgApp, "Error starting pprof debug server: %v\n", err)
		}
	}()
}

func stopPprofDebugServer() {
	select {
	case killPprofDebugServer <- struct{}{}:
	default:
	}
}
