package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var (
	addr     = flag.String("addr", "localhost:8080", "server address")
	nickname = flag.String("nickname", "Guest", "display name")
	mode     = flag.String("mode", "quick", "quick | create | join")
	roomCode = flag.String("room", "", "room code for join mode")
)

func send(c *websocket.Conn, msg map[string]any) error {
	return c.WriteJSON(msg)
}

func main() {
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var pretty map[string]any
			if err := json.Unmarshal(message, &pretty); err != nil {
				log.Printf("Received invalid JSON: %s", string(message))
				continue
			}
			log.Printf("<- RECV: %s", string(message))
		}
	}()

	// Handshake
	handshake := map[string]any{"type": *mode, "nickname": *nickname}
	if *mode == "join" {
		handshake["roomCode"] = *roomCode
	}
	if err := send(c, handshake); err != nil {
		log.Fatalf("Handshake failed: %v", err)
	}

	log.Println("Commands: move <0-8>, timeout, leave")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			switch fields[0] {
			case "move":
				if len(fields) != 2 {
					log.Println("Usage: move <0-8>")
					continue
				}
				index, err := strconv.Atoi(fields[1])
				if err != nil {
					log.Println("Usage: move <0-8>")
					continue
				}
				if err := send(c, map[string]any{"type": "move", "index": index}); err != nil {
					log.Println("Write error:", err)
					return
				}
			case "timeout", "leave":
				if err := send(c, map[string]any{"type": fields[0]}); err != nil {
					log.Println("Write error:", err)
					return
				}
			default:
				log.Printf("Unknown command %q", fields[0])
			}
		}
	}
}
