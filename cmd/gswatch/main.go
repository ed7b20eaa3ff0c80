// gswatch connects to a running geosketch instance and prints drawing
// notifications as they happen. It can optionally run a command each time a
// drawing completes, for piping finished symbols into other tools.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/pflag"

	api "github.com/geosketch/geosketch/pkg/geosketch-go-api"
)

var (
	optDebug   = pflag.BoolP("debug", "d", false, "Print debug messages")
	optPort    = pflag.StringP("port", "p", "", "geosketch API port. Overrides GEOSKETCH_API_PORT")
	optDoneCmd = pflag.String("done-cmd", "", "Command to run when a drawing completes. The symbol id is appended as an argument")
)

var (
	httpApi api.Geosketch
	wsApi   api.Websock
)

func main() {
	pflag.Parse()

	connectToGeosketch()

	err := wsApi.Run()
	dieIfError(err, "websocket closed")
}

func connectToGeosketch() {
	var err error
	if *optPort != "" {
		httpApi = api.New(*optPort)
	} else {
		httpApi, err = api.NewFromEnv()
		dieIfError(err, "connecting to API failed")
	}

	debug("gswatch: connecting to WS API\n")
	handlers := api.WebsockHandlers{
		Notification: handleNotification,
	}

	wsApi, err = httpApi.Websock(handlers)
	dieIfError(err, "creating websocket failed")
}

func handleNotification(n *api.Notification, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "gswatch: bad notification: %v\n", err)
		return
	}

	switch n.Op {
	case api.NotificationOpCreate:
		fmt.Printf("create %g %g\n", n.Point[0], n.Point[1])
	case api.NotificationOpModify:
		fmt.Printf("modify %g %g points=%d\n", n.Point[0], n.Point[1], n.Points)
	case api.NotificationOpDone:
		fmt.Printf("done symbol=%d points=%d\n", n.SymbolID, n.Points)
		runDoneCmd(n.SymbolID)
	case api.NotificationOpCancel:
		fmt.Printf("cancel points=%d\n", n.Points)
	}
}

func runDoneCmd(symbolId int) {
	if *optDoneCmd == "" {
		return
	}

	cmd := exec.Command(*optDoneCmd, strconv.Itoa(symbolId))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gswatch: running %s failed: %v\n", *optDoneCmd, err)
	}
}

func dieIfError(err error, msg string) {
	if err != nil {
		die(fmt.Sprintf("%s: %s", msg, err))
	}
}

func die(msg string) {
	fmt.Fprintf(os.Stderr, "gswatch: %s\n", msg)
	os.Exit(1)
}

func debug(format string, args ...interface{}) {
	if !*optDebug {
		return
	}
	fmt.Printf(format, args...)
}
