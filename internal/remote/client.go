package remote

import (
	"context"
	"fmt"
	"github.com/Yeicor/sdfx-gizmo/camera"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-gl/mathgl/mgl64"
	"log"
	"net"
	"net/rpc"
	"time"
)

// Client calls an EditorService.
type Client struct {
	cl *rpc.Client
}

// Dial connects to an editor at addr, retrying with exponential backoff (at most maxRetries times) while it is
// starting up.
func Dial(ctx context.Context, addr string, maxRetries uint64) (*Client, error) {
	var conn net.Conn
	dialer := &net.Dialer{}
	op := func() error {
		var err error
		conn, err = dialer.DialContext(ctx, "tcp", addr)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Println("[Remote] WARNING: dial", addr, "failed:", err, "retrying in", wait)
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, fmt.Errorf("dial editor %s: %w", addr, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an open connection.
func NewClient(conn net.Conn) *Client {
	return &Client{cl: rpc.NewClient(conn)}
}

func (c *Client) call(method string, args, reply interface{}) error {
	if err := c.cl.Call("EditorService."+method, args, reply); err != nil {
		return fmt.Errorf("remote %s: %w", method, err)
	}
	return nil
}

// Snapshot reads the camera pose and the meshes of the editor.
func (c *Client) Snapshot() (*Snapshot, error) {
	var out Snapshot
	if err := c.call("Snapshot", 0, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCameraPose moves the editor camera.
func (c *Client) SetCameraPose(st camera.State) error {
	var ignored int
	return c.call("SetCameraPose", st, &ignored)
}

// Translate moves the named node by delta (world space).
func (c *Client) Translate(node string, delta mgl64.Vec3) error {
	var ignored int
	return c.call("Translate", TranslateArgs{Node: node, Delta: delta}, &ignored)
}

// Rotate turns the named node by angle around axis.
func (c *Client) Rotate(node string, axis mgl64.Vec3, angle float64, fixedAxis bool) error {
	var ignored int
	return c.call("Rotate", RotateArgs{Node: node, Axis: axis, Angle: angle, FixedAxis: fixedAxis}, &ignored)
}

// Scale multiplies the scale of the named node by factors.
func (c *Client) Scale(node string, factors mgl64.Vec3) error {
	var ignored int
	return c.call("Scale", ScaleArgs{Node: node, Factors: factors}, &ignored)
}

// Shutdown asks the editor to exit.
func (c *Client) Shutdown(timeout time.Duration) error {
	var ignored int
	return c.call("Shutdown", timeout, &ignored)
}

func (c *Client) Close() error {
	return c.cl.Close()
}
