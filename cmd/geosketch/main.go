package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/op"

	adebug "github.com/geosketch/geosketch/internal/debug"
	"github.com/paulmach/orb"
	"github.com/pkg/profile"
	"github.com/spf13/pflag"
)

const appName = "geosketch"

var optProfile = pflag.BoolP("profile", "p", false, "Profile the code CPU usage. The profile file is written to the current directory.")
var optDebugStdout = pflag.BoolP("dbg", "b", false, "Print debug logs to stdout")
var optChdir = pflag.StringP("cd", "d", "", "Change directory to the specified path before starting")
var optPprof = pflag.Bool("pprof", false, "Serve pprof debug endpoints on localhost:6060")
var optConfig = pflag.String("config", "", "Use the specified settings file instead of the one in the config directory")
var optSampleConfig = pflag.Bool("sample-config", false, "Print a sample settings file to stdout and exit")

var (
	settings = Settings{
		Draw: DrawSettings{
			PixelTolerance: 5,
		},
		Map: MapSettings{
			TileURL:       "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Zoom:          4,
			TileCacheSize: 256,
		},
	}

	mapUI       *MapUI
	appWindow   *app.Window
	symbolStore = NewSymbolStore()
	notifier    = NewNotifier()
	debugLog    = adebug.New(500)
	workChan    = make(chan func())
	profiler    interface{ Stop() }
)

func main() {
	parseAndValidateOptions()

	if *optSampleConfig {
		fmt.Print(GenerateSampleSettings())
		return
	}

	if *optChdir != "" {
		err := os.Chdir(*optChdir)
		if err != nil {
			fmt.Printf("chdir failed: %v\n", err)
		}
	}

	if *optProfile {
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	}

	if *optPprof {
		startPprofDebugServer()
	}

	LoadSettings()
	applyPositionArgs()

	style, err := BuildStyle(settings.Style)
	if err != nil {
		log(LogCatgConf, "Parsing style settings failed: %v\n", err)
	}

	mapUI, err = NewMapUI(settings, style)
	if err != nil {
		fmt.Printf("Initialization failed: %v\n", err)
		Exit(1)
	}

	if !settings.API.Disabled {
		go func() {
			err := ServeLocalAPI(settings.API.Listen)
			if err != nil {
				log(LogCatgAPI, "Local API server failed: %v\n", err)
			}
		}()
	}

	var w app.Window
	w.Option(app.Title(appName))

	loop(&w)

	if profiler != nil {
		profiler.Stop()
	}
}

func parseAndValidateOptions() {
	pflag.Parse()

	if n := pflag.NArg(); n != 0 && n != 2 && n != 3 {
		fmt.Printf("Expected no position arguments, or 'lon lat', or 'lon lat zoom'\n")
		Exit(1)
	}
}

// applyPositionArgs overrides the configured start view with the optional
// 'lon lat [zoom]' arguments.
func applyPositionArgs() {
	args := pflag.Args()
	if len(args) < 2 {
		return
	}

	lon, err1 := strconv.ParseFloat(args[0], 64)
	lat, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		fmt.Printf("Invalid lon/lat arguments '%s %s'\n", args[0], args[1])
		Exit(1)
	}
	settings.Map.CenterLon = lon
	settings.Map.CenterLat = lat

	if len(args) == 3 {
		zoom, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			fmt.Printf("Invalid zoom argument '%s'\n", args[2])
			Exit(1)
		}
		settings.Map.Zoom = zoom
	}
}

var settingsLoadedFromFile bool

func LoadSettings() {
	err := LoadSettingsFromConfigFile(&settings)
	if err != nil {
		log(LogCatgConf, "Loading settings from config file failed: %v\n", err)
		return
	}

	log(LogCatgConf, "Loaded settings from config file %s\n", SettingsConfigFile())

	settingsLoadedFromFile = true
}

func startCenter() orb.Point {
	return orb.Point{settings.Map.CenterLon, settings.Map.CenterLat}
}

func loop(w *app.Window) {
	appWindow = w

	events := make(chan event.Event)
	acks := make(chan struct{})
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				dumpPanic(r)
				dumpLogs()
				dumpGoroutines()
				panic(r)
			}
		}()

		for {
			select {
			case e := <-events:
				handleEvent(e)
				acks <- struct{}{}
			case fn := <-workChan:
				fn()
				appWindow.Invalidate()
			}
		}
	}()

	app.Main()
}

func handleEvent(e event.Event) {
	var ops op.Ops
	switch e := e.(type) {
	case app.DestroyEvent:
		Exit(0)
	case app.FrameEvent:
		gtx := app.NewContext(&ops, e)
		mapUI.Layout(gtx)
		e.Frame(gtx.Ops)
	case app.ConfigEvent:
		log(LogCatgUI, "window config changed: %v\n", e.Config)
	}
}

// invalidate schedules a redraw. Safe to call from any goroutine.
func invalidate() {
	if appWindow != nil {
		appWindow.Invalidate()
	}
}

func dumpPanic(i interface{}) {
	fname := fmt.Sprintf("%s.panic", appName)
	f, err := os.Create(fname)
	if err != nil {
		fmt.Printf("Opening file '%s' failed: %v\n", fname, err)
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "panic: %v\n", i)
	fmt.Fprintf(f, "%s", string(debug.Stack()))
}

func dumpLogs() {
	fname := fmt.Sprintf("%s.panic-logs", appName)
	f, err := os.Create(fname)
	if err != nil {
		fmt.Printf("Opening file '%s' failed: %v\n", fname, err)
		return
	}
	defer f.Close()

	fmt.Fprint(f, debugLog.String())
}

func dumpGoroutines() {
	fname := fmt.Sprintf("%s.panic-gortns", appName)

	f, err := os.Create(fname)
	if err != nil {
		fmt.Printf("Opening file '%s' failed: %v\n", fname, err)
		return
	}
	defer f.Close()

	buf := make([]byte, 100000)
	sz := runtime.Stack(buf, true)
	buf = buf[0:sz]

	fmt.Fprint(f, string(buf))
}

func Exit(code int) {
	if profiler != nil {
		profiler.Stop()
	}
	stopPprofDebugServer()
	os.Exit(code)
}

func log(category, message string, args ...interface{}) {
	if optDebugStdout != nil && *optDebugStdout {
		fmt.Printf(message, args...)
	}
	debugLog.Addf(category, message, args...)
}

func init() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [lon lat [zoom]]\n", os.Args[0])
		fmt.Printf("Launch the geosketch map annotator. If lon/lat are given, the map starts there.\n\n")
		fmt.Printf("Options:\n")

		pflag.PrintDefaults()
	}
}
