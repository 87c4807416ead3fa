package main

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/marben/fract"
)

//go:embed static
var staticFiles embed.FS

// webServer creates server serving the embedded viewer page, the landmark
// regions and the websocket render endpoint
func webServer(addr string, renderer fract.Renderer) (*http.Server, error) {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(renderer))
	mux.HandleFunc("/regions", regionsHandler)
	mux.Handle("/", http.FileServerFS(static))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// websocketHandler upgrades the connection and serves render commands on it
// until the client goes away.
func websocketHandler(renderer fract.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: restrict to the viewer's origin once it is served from a fixed host
		})
		if err != nil {
			log.Println(err)
			return
		}
		defer c.CloseNow()

		err = newRenderSession(c, renderer).serve(r.Context())
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			c.Close(websocket.StatusNormalClosure, "")
		default:
			log.Printf("session %s: %v", r.RemoteAddr, err)
		}
	}
}
