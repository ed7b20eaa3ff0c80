package main

import (
	"fmt"
	"os"
	"runtime"

	toml "github.com/pelletier/go-toml"
)

var ConfDir string

func init() {
	if runtime.GOOS == "windows" {
		ConfDir = fmt.Sprintf("%s/.geosketch", os.Getenv("USERPROFILE"))
	} else {
		ConfDir = fmt.Sprintf("%s/.geosketch", os.Getenv("HOME"))
	}
}

func SettingsConfigFile() string {
	if *optConfig != "" {
		return *optConfig
	}
	return fmt.Sprintf("%s/%s", ConfDir, "settings.toml")
}

type Settings struct {
	Draw  DrawSettings
	Map   MapSettings
	Style StyleSettings
	API   APISettings `toml:"api"`
}

type DrawSettings struct {
	// PixelTolerance separates a click (commit a point) from a drag (pan).
	PixelTolerance float64 `toml:"pixel-tolerance"`
	StopDown       bool    `toml:"stop-down"`
	Persist        bool
}

type MapSettings struct {
	TileURL       string  `toml:"tile-url"`
	CenterLon     float64 `toml:"center-lon"`
	CenterLat     float64 `toml:"center-lat"`
	Zoom          float64
	TileCacheSize int `toml:"tile-cache-size"`
}

type APISettings struct {
	Listen   string
	Disabled bool
}

func LoadSettingsFromConfigFile(settings *Settings) (err error) {
	var f *os.File
	f, err = os.Open(SettingsConfigFile())
	if err != nil {
		return
	}
	defer f.Close()

	dec := toml.NewDecoder(f)

	err = dec.Decode(settings)
	return
}

func GenerateSampleSettings() string {
	return `# Sample geosketch settings file

[draw]
# pixel-tolerance separates a click from a drag: a press/release pair further
# apart than this many pixels pans the map and commits nothing.
#pixel-tolerance=5.0

# stop-down suppresses propagation of press events to the rest of the map.
# The default is false
#stop-down=false

# persist keeps the preview point rendered between commits; it is then
# destroyed right before each new commit.
#persist=false

[map]
# tile-url is the XYZ tile URL template of the base map.
#tile-url="https://tile.openstreetmap.org/{z}/{x}/{y}.png"

# center-lon/center-lat and zoom set the startup view.
#center-lon=0.0
#center-lat=0.0
#zoom=4

# tile-cache-size is the max number of decoded tiles kept in memory.
#tile-cache-size=256

[style]
# Colors are hex, e.g. "#17223B"
#background="#17223B"
#anchor="#fcd0a1"
#point="#fa8072"
#preview="#b1b695"
#symbol="#99ad6a"
#hud-text="#f0f0f0"

# font is a font file name looked up among the installed system fonts for the
# coordinate readout. The Go fonts are used when unset.
#font=""
#font-size=14

[api]
# listen is the local API listen address. An ephemeral port is picked when
# unset; the chosen port is printed to the debug log.
#listen="127.0.0.1:0"

# disabled turns the local API off entirely.
#disabled=false
`
}
