// tetherctl is a minimal client for poking a running tetherd: join, use
// the gun on a target, steer the anchor, release.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/milk9111/tethersim/netmsg"
)

func main() {
	url := flag.String("url", "ws://localhost:8090/ws", "server websocket url")
	name := flag.String("name", "tetherctl", "player name")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", *url).Msg("dial failed")
	}
	defer conn.Close()

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Msg("connection closed")
				os.Exit(0)
			}
			env, err := netmsg.DecodeEnvelope(data)
			if err != nil {
				continue
			}
			log.Info().Str("type", env.T).RawJSON("payload", env.P).Msg("recv")
		}
	}()

	send(conn, log, netmsg.MsgHello, netmsg.Hello{Name: *name})

	fmt.Println("commands: use <entity> | move <x> <y> | release | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "use":
			if len(fields) != 2 {
				continue
			}
			target, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				continue
			}
			send(conn, log, netmsg.MsgUse, netmsg.Use{Target: target})
		case "move":
			if len(fields) != 3 {
				continue
			}
			x, errX := strconv.ParseFloat(fields[1], 64)
			y, errY := strconv.ParseFloat(fields[2], 64)
			if errX != nil || errY != nil {
				continue
			}
			send(conn, log, netmsg.MsgMove, netmsg.Move{X: x, Y: y})
		case "release":
			send(conn, log, netmsg.MsgActivate, netmsg.Activate{})
		case "quit":
			return
		}
	}
}

func send(conn *websocket.Conn, log zerolog.Logger, t string, payload any) {
	frame, err := netmsg.Encode(t, payload)
	if err != nil {
		log.Warn().Err(err).Str("type", t).Msg("encode failed")
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Warn().Err(err).Str("type", t).Msg("send failed")
	}
}
