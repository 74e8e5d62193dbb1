package shell

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/conneroisu/appshell/internal/types"
)

// reconnectDelay is how long the client waits before reopening a closed
// binding socket, in milliseconds.
const reconnectDelay = 2000

// clientScript connects the page to its binding session. The location and
// burger report their initial values flagged as initial; later burger clicks
// report the toggled value. Updates from the server set the drawer state or
// the title text, and a reload message reloads the page. A closed socket is
// reopened after reconnectDelay and starts a fresh session.
func clientScript(socketPath string) string {
	return fmt.Sprintf(`(function () {
  var burger = document.getElementById(%[2]s);
  var drawer = document.getElementById(%[3]s);
  var title = document.getElementById(%[4]s);
  var opened = false;
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws;
  var reconnectTimer;

  function send(id, property, value, initial) {
    if (!ws || ws.readyState !== WebSocket.OPEN) return;
    ws.send(JSON.stringify({type: "event", id: id, property: property, value: value, initial: initial}));
  }

  function connect() {
    ws = new WebSocket(proto + "//" + location.host + %[1]s);

    ws.onopen = function () {
      clearTimeout(reconnectTimer);
      send(%[5]s, %[6]s, location.pathname, true);
      send(%[2]s, %[7]s, opened, true);
    };

    ws.onmessage = function (msg) {
      var data = JSON.parse(msg.data);
      if (data.type === "reload") {
        location.reload();
      } else if (data.type === "update" && data.target === %[3]s) {
        drawer.setAttribute("data-opened", data.value ? "true" : "false");
      } else if (data.type === "update" && data.target === %[4]s) {
        title.textContent = data.value;
      } else if (data.type === "error") {
        console.warn("appshell:", data.content);
      }
    };

    ws.onclose = function () {
      clearTimeout(reconnectTimer);
      reconnectTimer = setTimeout(connect, %[8]d);
    };
  }

  burger.addEventListener("click", function () {
    opened = !opened;
    burger.setAttribute("aria-expanded", opened ? "true" : "false");
    send(%[2]s, %[7]s, opened, false);
  });

  connect();
})();`,
		strconv.Quote(socketPath),
		strconv.Quote(types.BurgerID),
		strconv.Quote(types.DrawerID),
		strconv.Quote(types.PageTitleID),
		strconv.Quote(types.LocationID),
		strconv.Quote(types.PropPathname),
		strconv.Quote(types.PropOpened),
		reconnectDelay,
	)
}

// Script renders the client script, or nothing when live bindings are off.
func Script(opts Options) g.Node {
	if opts.SocketPath == "" {
		return nil
	}

	return html.Script(g.Raw(clientScript(opts.SocketPath)))
}
