// Command ticks prints the countdown frames streamed by the widget host.
package main

import (
	"flag"
	"log"
	"net/http"

	"UD_missions_miniapp/pkg/auth"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type tick struct {
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Seconds   int    `json:"seconds"`
	Completed bool   `json:"completed"`
}

func main() {
	url := flag.String("url", "ws://localhost:8081/widget/ws", "widget host websocket url")
	initData := flag.String("init-data", "", "telegram init data of the user to watch")
	flag.Parse()

	header := http.Header{}
	if *initData != "" {
		header.Add("Authorization", auth.HeaderValue(*initData))
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	messageQueue := make(chan []byte)

	go func() {
		defer close(messageQueue)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				return
			}

			messageQueue <- p
		}
	}()

	for message := range messageQueue {
		var t tick
		if err := json.Unmarshal(message, &t); err != nil {
			log.Printf("Received:\n%s\n", message)
			continue
		}

		if t.Completed {
			log.Printf("%s: claimable", t.Label)
			continue
		}
		log.Printf("%s: %02d:%02d:%02d", t.Label, t.Hours, t.Minutes, t.Seconds)
	}
}
