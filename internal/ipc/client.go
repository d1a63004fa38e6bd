package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

const dialTimeout = 2 * time.Second

// Client provides RPC access to a running daemon.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to the control socket.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	if c.rpc == nil {
		return nil
	}
	return c.rpc.Close()
}

// Ping checks daemon liveness.
func (c *Client) Ping() (*PingResponse, error) {
	resp := new(PingResponse)
	if err := c.rpc.Call("Docsort.Ping", PingRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Status retrieves the daemon status and journal counts.
func (c *Client) Status() (*StatusResponse, error) {
	resp := new(StatusResponse)
	if err := c.rpc.Call("Docsort.Status", StatusRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// History retrieves the most recent journal records.
func (c *Client) History(limit int) (*HistoryResponse, error) {
	resp := new(HistoryResponse)
	if err := c.rpc.Call("Docsort.History", HistoryRequest{Limit: limit}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
