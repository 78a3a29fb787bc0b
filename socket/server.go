package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes and returns a new Socket.IO server. Clients
// register with their user id to receive their personal events (new match,
// reveal available, match ended) and join per-match rooms for live chat.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// Clients announce who they are so events can be addressed to them
	server.OnEvent("/", "register", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Empty userId in register request")
			return
		}
		log.Printf("👤 Socket %s registered as user %s", c.ID(), userID)
		c.Join(UserRoom(userID))
	})

	server.OnEvent("/", "joinMatch", func(c socketio.Conn, matchID string) {
		if matchID == "" {
			log.Println("❌ Empty matchId in joinMatch request")
			return
		}
		log.Printf("👥 Socket %s joined match %s", c.ID(), matchID)
		c.Join(MatchRoom(matchID))
	})

	server.OnEvent("/", "leaveMatch", func(c socketio.Conn, matchID string) {
		if matchID != "" {
			c.Leave(MatchRoom(matchID))
		}
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("👋 Socket disconnected:", reason)
	})

	return server
}

// UserRoom is the room carrying one user's personal events.
func UserRoom(userID string) string { return "user:" + userID }

// MatchRoom is the room shared by both participants of a match.
func MatchRoom(matchID string) string { return "match:" + matchID }

// Notifier pushes service events to a user's personal room. It satisfies the
// notification interface the domain services expect.
type Notifier struct {
	Server *socketio.Server
}

// Notify broadcasts one event to the user's room. Fire and forget: a user
// with no connected sockets simply misses the push and catches up over HTTP.
func (n *Notifier) Notify(userID, event string, payload map[string]interface{}) {
	n.Server.BroadcastToRoom("/", UserRoom(userID), event, payload)
}
