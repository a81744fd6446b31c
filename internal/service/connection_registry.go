package service

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrRegistryClosed = errors.New("connection registry is closed")

const defaultSendBuffer = 32

// Connection is one live socket of a user. The socket writer drains Send;
// the registry closes Send when the connection is removed.
type Connection struct {
	UserID int
	Send   chan []byte
}

// ConnectionRegistry maps user ids to their live connections. One instance
// exists per channel kind and lives for the whole process.
type ConnectionRegistry struct {
	name       string
	log        *logrus.Logger
	bufferSize int

	mu     sync.RWMutex
	conns  map[int]map[*Connection]struct{}
	closed bool
}

func NewConnectionRegistry(name string, log *logrus.Logger) *ConnectionRegistry {
	return &ConnectionRegistry{
		name:       name,
		log:        log,
		bufferSize: defaultSendBuffer,
		conns:      make(map[int]map[*Connection]struct{}),
	}
}

func (r *ConnectionRegistry) Register(userID int) (*Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	conn := &Connection{UserID: userID, Send: make(chan []byte, r.bufferSize)}
	if r.conns[userID] == nil {
		r.conns[userID] = make(map[*Connection]struct{})
	}
	r.conns[userID][conn] = struct{}{}

	r.log.Debugf("%s: user %d connected (%d live)", r.name, userID, len(r.conns[userID]))
	return conn, nil
}

// Unregister removes conn and closes its Send channel. Safe to call twice.
func (r *ConnectionRegistry) Unregister(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(conn)
}

func (r *ConnectionRegistry) removeLocked(conn *Connection) {
	set, ok := r.conns[conn.UserID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.conns, conn.UserID)
	}
	close(conn.Send)
}

// Send pushes payload to every live connection of userID without blocking.
// Connections whose buffer is full are pruned. Returns how many accepted it.
func (r *ConnectionRegistry) Send(userID int, payload []byte) int {
	r.mu.RLock()
	delivered := 0
	var stale []*Connection
	for conn := range r.conns[userID] {
		select {
		case conn.Send <- payload:
			delivered++
		default:
			stale = append(stale, conn)
		}
	}
	r.mu.RUnlock()

	if len(stale) > 0 {
		r.mu.Lock()
		for _, conn := range stale {
			r.removeLocked(conn)
		}
		r.mu.Unlock()
		r.log.Warnf("%s: pruned %d stalled connection(s) of user %d", r.name, len(stale), userID)
	}

	return delivered
}

// SendTo pushes payload to one connection. It reports false when conn is no
// longer registered or its buffer is full.
func (r *ConnectionRegistry) SendTo(conn *Connection, payload []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.conns[conn.UserID][conn]; !ok {
		return false
	}
	select {
	case conn.Send <- payload:
		return true
	default:
		return false
	}
}

// SendJSON marshals v and sends it to userID.
func (r *ConnectionRegistry) SendJSON(userID int, v interface{}) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return r.Send(userID, payload), nil
}

func (r *ConnectionRegistry) IsOnline(userID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}

func (r *ConnectionRegistry) OnlineUsers() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]int, 0, len(r.conns))
	for userID := range r.conns {
		users = append(users, userID)
	}
	return users
}

func (r *ConnectionRegistry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, set := range r.conns {
		n += len(set)
	}
	return n
}

// Close drops every connection and rejects further registrations.
func (r *ConnectionRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, set := range r.conns {
		for conn := range set {
			r.removeLocked(conn)
		}
	}
	r.log.Infof("%s: registry closed", r.name)
}
