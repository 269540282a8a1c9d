package chimecli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/chimed/chime/common"
)

// ErrDisconnect is returned by a handler to stop Listen cleanly.
var ErrDisconnect = errors.New("disconnect")

// Client is one connection to the daemon. Invocations are serialized; after
// Attach, switch to Listen to receive pushed ringing updates.
type Client struct {
	conn net.Conn
	mu   sync.Mutex

	handlers     Handlers
	disconnected atomic.Bool
}

// NewClient connects to the daemon, spawning one when none is running.
func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		conn, err = spawnDaemon()
		if err != nil {
			return nil, fmt.Errorf("daemon unreachable: %w", err)
		}
	}
	return &Client{conn: conn}, nil
}

// NewClientNoSpawn connects only to an already-running daemon.
func NewClientNoSpawn() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// invoke sends one request and reads its reply. Not safe to interleave with
// Listen.
func (c *Client) invoke(method common.UpdateType, message any) (*Update, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, err := json.Marshal(&request{Method: method, Message: message})
	if err != nil {
		return nil, err
	}
	if err := writeFrame(c.conn, body); err != nil {
		return nil, err
	}
	raw, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}
	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	if !resp.Ok {
		return nil, errors.New(resp.Error)
	}
	if resp.Update == nil {
		return nil, errors.New("daemon sent an empty reply")
	}
	return resp.Update, nil
}

func invokeAs[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	up, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(up.Message, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetHandlers installs the callbacks Listen dispatches to.
func (c *Client) SetHandlers(h Handlers) {
	c.handlers = h
}

// Listen reads pushed updates until the connection drops, a handler returns
// an error, or Disconnect is called. ErrDisconnect from a handler reads as a
// clean exit.
func (c *Client) Listen() error {
	for {
		raw, err := readFrame(c.conn)
		if err != nil {
			if c.disconnected.Load() {
				return nil
			}
			return err
		}
		var resp response
		if err := json.Unmarshal(raw, &resp); err != nil {
			return err
		}
		if !resp.Ok {
			return errors.New(resp.Error)
		}
		if resp.Update == nil {
			continue
		}
		if err := c.handlers.dispatch(resp.Update); err != nil {
			if errors.Is(err, ErrDisconnect) {
				return nil
			}
			return err
		}
	}
}

// Disconnect closes the connection; a running Listen returns nil.
func (c *Client) Disconnect() error {
	c.disconnected.Store(true)
	return c.conn.Close()
}
