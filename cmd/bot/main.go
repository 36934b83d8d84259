package main

import (
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/hekoh99/meta-library/client"
	"github.com/hekoh99/meta-library/domain"
	"github.com/hekoh99/meta-library/protocol"
)

// A headless client for soak-testing the relay: joins, wanders with throttled
// moves, and toggles doors it has seen.
func main() {
	url := flag.String("url", "ws://127.0.0.1:8080/ws", "server websocket url")
	nickname := flag.String("nickname", "bot", "nickname to join with")
	avatar := flag.String("avatar", "robot", "avatar to join with")
	duration := flag.Duration("duration", time.Minute, "how long to run")
	togglePeriod := flag.Duration("toggle-period", 5*time.Second, "how often to toggle a known door")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	var (
		mu       sync.Mutex
		selfID   string
		doorKeys []string
	)
	rememberDoor := func(key string) {
		mu.Lock()
		defer mu.Unlock()
		for _, known := range doorKeys {
			if known == key {
				return
			}
		}
		doorKeys = append(doorKeys, key)
	}

	peers := client.NewPeerSet(client.PeerHooks{
		Created: func(user domain.UserState) {
			slog.Info("peer appeared", "id", user.ID, "nickname", user.Nickname)
		},
		Removed: func(id string) {
			slog.Info("peer gone", "id", id)
		},
	})

	applier := client.NewApplier(client.Handlers{
		OnWelcome: func(id string, users []domain.UserState, doors []domain.DoorState) {
			mu.Lock()
			selfID = id
			mu.Unlock()
			peers.SetSelf(id)
			for _, user := range users {
				peers.Sight(user)
			}
			for _, door := range doors {
				rememberDoor(door.Key)
			}
			slog.Info("joined", "id", id, "peers", peers.Len(), "doors", len(doors))
		},
		OnUserJoined: peers.Sight,
		OnUserLeft:   peers.Remove,
		OnState:      peers.UpdatePosition,
		OnDoorState: func(key string, isOpen bool) {
			rememberDoor(key)
			slog.Info("door state", "key", key, "isOpen", isOpen)
		},
	})

	c := client.New()
	c.OnMessage(applier.Apply)
	c.OnOpen(func() {
		c.Send(protocol.NewJoin("default", *nickname, *avatar))
	})

	if err := c.Connect(*url); err != nil {
		slog.Error("connect failed", "url", *url, "error", err)
		os.Exit(1)
	}

	throttle := client.NewMoveThrottle()
	x, y := 0.0, 0.0

	moveTicker := time.NewTicker(100 * time.Millisecond)
	defer moveTicker.Stop()
	toggleTicker := time.NewTicker(*togglePeriod)
	defer toggleTicker.Stop()
	deadline := time.After(*duration)

	for {
		select {
		case <-moveTicker.C:
			x += rand.Float64()*2 - 1
			y += rand.Float64()*2 - 1
			if throttle.Offer(x, y) {
				c.Send(protocol.NewMove(x, y))
			}
		case <-toggleTicker.C:
			mu.Lock()
			var key string
			if len(doorKeys) > 0 {
				key = doorKeys[rand.IntN(len(doorKeys))]
			}
			id := selfID
			mu.Unlock()
			if key != "" && id != "" {
				c.Send(protocol.NewDoorToggle(key))
			}
		case <-deadline:
			slog.Info("done", "peers", peers.Len())
			return
		}
	}
}
