package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait      = 1 * time.Second
	pubResolution  = 100 * time.Millisecond
	pingResolution = 200 * time.Millisecond
	pongWait       = pingResolution * 4

	readDeadline     = time.Second
	writeDeadline    = time.Second
	closeGracePeriod = 10 * time.Second
)

var upgrader = websocket.Upgrader{}

// ErrPongDeadlineExceeded indicates the browser client stopped responding to
// pings.
var ErrPongDeadlineExceeded = errors.New("diagnostics client disconnect, pong deadline exceeded")

// ErrSockCongestion indicates too many waiters queued on the socket.
var ErrSockCongestion = errors.New("diagnostics socket op failed due to congestion")

// publisher streams Snapshots to a single connected browser at a bounded
// publish rate, dropping snapshots that arrive faster than pubResolution.
// Each connected browser gets its own publisher, and all of them receive from
// the same updates channel.
type publisher struct {
	updates <-chan Snapshot
	ws      *websock
	rootCtx context.Context
}

// newPublisher upgrades the HTTP request to a websocket and returns a
// publisher fed by updates.
func newPublisher(updates <-chan Snapshot, w http.ResponseWriter, r *http.Request) (*publisher, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, err
	}
	return &publisher{updates: updates, ws: newWebsock(conn), rootCtx: r.Context()}, nil
}

// sync runs the read, ping/pong, and publish loops concurrently until the
// connection closes or errors. It never blocks the caller's search loop:
// updates is expected to be a buffered, best-effort channel.
func (p *publisher) sync() error {
	group, groupCtx := errgroup.WithContext(p.rootCtx)
	group.Go(func() error { return p.readMessages(groupCtx) })
	group.Go(func() error { return p.pingPong(groupCtx) })
	group.Go(func() error { return p.publish(groupCtx) })
	return group.Wait()
}

func (p *publisher) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	defer close(pong)
	p.ws.conn.SetPongHandler(func(_ string) error {
		pong <- struct{}{}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := p.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (p *publisher) ping(ctx context.Context) error {
	return p.ws.write(ctx, func(conn *websocket.Conn) error {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil && isUnexpectedClose(err) {
			return fmt.Errorf("ping failed: %w", err)
		}
		return nil
	})
}

func (p *publisher) readMessages(ctx context.Context) error {
	for {
		err := p.ws.read(ctx, func(conn *websocket.Conn) error {
			_, _, readErr := conn.ReadMessage()
			return readErr
		})
		if err != nil {
			return err
		}
	}
}

func (p *publisher) publish(ctx context.Context) error {
	lastSync := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot, ok := <-p.updates:
			if !ok {
				return nil
			}
			if time.Since(lastSync) < pubResolution {
				break
			}
			lastSync = time.Now()
			err := p.ws.write(ctx, func(conn *websocket.Conn) error {
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return fmt.Errorf("setting write deadline: %w", err)
				}
				if err := conn.WriteJSON(snapshot); err != nil && isUnexpectedClose(err) {
					return fmt.Errorf("publish failed: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
}

func isUnexpectedClose(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// websock serializes reads and writes to a single websocket connection: the
// gorilla/websocket contract allows at most one concurrent reader and one
// concurrent writer.
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	conn     *websocket.Conn
}

func newWebsock(conn *websocket.Conn) *websock {
	return &websock{readSem: make(chan struct{}, 1), writeSem: make(chan struct{}, 1), conn: conn}
}

func (s *websock) close() {
	s.readSem <- struct{}{}
	s.writeSem <- struct{}{}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	s.conn.Close()
}

func (s *websock) read(ctx context.Context, fn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case s.readSem <- struct{}{}:
		defer func() { <-s.readSem }()
		return fn(s.conn)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

func (s *websock) write(ctx context.Context, fn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case s.writeSem <- struct{}{}:
		defer func() { <-s.writeSem }()
		return fn(s.conn)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}
