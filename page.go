package main

import (
	"html/template"
)

type templateArgs struct {
	Path string
}

// webTemplate is served when no client build is present in the static
// directory. It speaks the same join/joined/text protocol as the real one.
var webTemplate = template.Must(template.New("webTemplate").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>textrelay {{.Path}}</title>
<script type="text/javascript">
window.addEventListener("load", function() {
    var text = document.getElementById("text");
    var status = document.getElementById("status");
    var link = document.getElementById("link");
    var custom = document.getElementById("custom");
    var room = "";

    var scheme = window.location.protocol === "https:" ? "wss://" : "ws://";
    var conn = new WebSocket(scheme + window.location.host + "/");

    function send(data) {
        if (conn.readyState === WebSocket.OPEN) {
            conn.send(JSON.stringify({type: "text", data: data, id: room}));
        }
    }

    conn.onopen = function() {
        status.textContent = "Connected";
        var id = new URLSearchParams(window.location.search).get("id");
        conn.send(JSON.stringify({type: "join", id: id || ""}));
    };
    conn.onclose = function() {
        status.textContent = "Disconnected";
    };
    conn.onmessage = function(evt) {
        var msg = JSON.parse(evt.data);
        if (msg.type === "joined") {
            room = msg.id;
            window.history.replaceState(null, "", "?id=" + encodeURIComponent(msg.id));
            link.value = window.location.href;
        }
        if (msg.type === "text") {
            text.value = msg.data;
            counts();
        }
    };

    function counts() {
        var v = text.value;
        var words = v.trim() === "" ? 0 : v.trim().split(/\s+/).length;
        document.getElementById("counts").textContent = words + " words, " + v.length + " chars";
    }

    text.addEventListener("input", function() {
        send(text.value);
        counts();
    });
    document.getElementById("clear").addEventListener("click", function() {
        text.value = "";
        send("");
        counts();
    });
    document.getElementById("go").addEventListener("click", function() {
        var id = custom.value.trim();
        if (id !== "") {
            window.location.href = "?id=" + encodeURIComponent(id);
        }
    });
});
</script>
<style type="text/css">
body {
    font-family: sans-serif;
    margin: 0;
    padding: 1em;
    background: #eee;
}

#text {
    width: 100%;
    height: 60vh;
    box-sizing: border-box;
    padding: 0.5em;
    font-family: monospace;
}

#bar {
    margin: 0.5em 0;
}
</style>
</head>
<body>
<h3>textrelay <small id="status">Connecting</small></h3>
<div id="bar">
    <input type="text" id="link" size="64" readonly />
    <input type="text" id="custom" placeholder="custom link" />
    <button id="go">Go</button>
    <button id="clear">Clear</button>
    <span id="counts">0 words, 0 chars</span>
</div>
<textarea id="text"></textarea>
</body>
</html>
`))
