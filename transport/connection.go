// Package transport implements the correlated connection to a running
// simulator instance.
//
// A single TCP connection carries every request/response exchange. Each
// outgoing request is stamped with a monotonically increasing _id, and the
// simulator echoes that id on the matching response — which may arrive out of
// submission order, interleaved with responses for other requests.
//
// There is no background reader goroutine. Whichever caller is blocked in
// Recv owns the read half for the moment: it reads frames, keeps the one
// matching its own id, and deposits foreign responses into a shared buffer
// for their waiters to claim.
//
//	caller-1 ──SendRaw(_id=1)──┐
//	caller-2 ──SendRaw(_id=2)──┼──→ single TCP conn ──→ simulator
//	caller-3 ──SendRaw(_id=3)──┘
//
//	Recv(2): reads frame(_id=3) → buffers it → reads frame(_id=2) → returns
package transport

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ovr/beamng-go/bngerr"
	"github.com/ovr/beamng-go/codec"
	"github.com/ovr/beamng-go/message"
	"github.com/ovr/beamng-go/protocol"
)

// ProtocolVersion is the protocol revision this client speaks. The simulator
// must echo it verbatim during the hello handshake; no other revision is
// negotiated.
const ProtocolVersion = "v1.26"

// response is a classified incoming payload: either a decoded map or a
// simulator-reported error.
type response struct {
	dict message.StrDict
	err  error
}

func (r response) unpack() (message.StrDict, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.dict, nil
}

// Connection is a live, handshaken link to one simulator instance.
//
// The read half, write half, and pending buffer are guarded independently, so
// one reader and one writer may proceed concurrently. All methods are safe
// for concurrent use.
//
// Caller contract: every id returned by SendRaw must eventually be passed to
// exactly one Recv. An id that is sent but never received leaves its
// response buffered for the lifetime of the connection, and a caller that
// abandons a Recv (e.g. via a deadline wrapper) must accept the same.
//
// Disconnection and I/O failures are terminal: discard the Connection and
// open a new one. There is no automatic reconnection; request ids restart at
// zero on a fresh connection.
type Connection struct {
	conn net.Conn
	cdc  codec.Codec
	log  *zap.Logger

	readMu  sync.Mutex // exclusive access to the read half
	writeMu sync.Mutex // exclusive access to the write half
	reqID   atomic.Uint64

	bufMu    sync.Mutex
	buffered map[uint64]response // responses read on behalf of other waiters
}

// Option configures a Connection before the handshake runs.
type Option func(*Connection)

// WithLogger sets the connection's logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Connection) { c.log = log }
}

// WithCodec replaces the payload codec. Intended for tests.
func WithCodec(cdc codec.Codec) Option {
	return func(c *Connection) { c.cdc = cdc }
}

// Open dials the simulator and performs the hello handshake. The connection
// is closed and not returned unless the handshake pinned a matching protocol
// version.
func Open(host string, port int, opts ...Option) (*Connection, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c, err := FromConn(conn, opts...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.log.Info("connected to simulator", zap.String("addr", addr))
	return c, nil
}

// FromConn wraps an already-established connection and performs the hello
// handshake. Useful when the caller does its own dialing. The conn is not
// closed on handshake failure; that stays with whoever dialed it.
func FromConn(conn net.Conn, opts ...Option) (*Connection, error) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			return nil, err
		}
	}

	c := &Connection{
		conn:     conn,
		cdc:      codec.MsgpackCodec{},
		log:      zap.NewNop(),
		buffered: make(map[uint64]response),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.hello(); err != nil {
		return nil, err
	}
	return c, nil
}

// hello pins the protocol version before any other traffic. Both a differing
// version string and a wrong response type fail the whole open.
func (c *Connection) hello() error {
	resp, err := c.Request("Hello", []message.Field{
		{Key: "protocolVersion", Value: ProtocolVersion},
	})
	if err != nil {
		return err
	}

	version, _ := resp.String("protocolVersion")
	if version != ProtocolVersion {
		return &bngerr.ProtocolMismatchError{Client: ProtocolVersion, Simulator: version}
	}

	respType, _ := resp.String(message.KeyType)
	if respType != "Hello" {
		return &bngerr.UnexpectedResponseTypeError{Expected: "Hello", Got: respType}
	}
	return nil
}

// Close closes the underlying stream. Any blocked Recv fails with a
// disconnection or I/O error.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// SendRaw allocates the next request id, encodes type + _id + fields in that
// order, and writes one frame under the write lock. It returns without
// waiting for a response; pair it with Recv on the returned id.
func (c *Connection) SendRaw(reqType string, fields []message.Field) (uint64, error) {
	id := c.reqID.Add(1) - 1

	payload, err := c.cdc.EncodeRequest(reqType, id, fields)
	if err != nil {
		return 0, err
	}
	c.log.Debug("sending request", zap.String("type", reqType), zap.Uint64("id", id))

	c.writeMu.Lock()
	err = protocol.WriteFrame(c.conn, payload)
	c.writeMu.Unlock()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Recv waits for the response carrying the given id.
//
// If the response was already read and buffered by another caller, it is
// claimed without touching the stream. Otherwise Recv reads frames itself:
// foreign responses are classified and buffered for their own waiters, and
// the loop continues until the wanted id appears. A response carrying a
// bngError or bngValueError field is surfaced as the corresponding error.
func (c *Connection) Recv(id uint64) (message.StrDict, error) {
	for {
		if resp, ok := c.takeBuffered(id); ok {
			return resp.unpack()
		}

		c.readMu.Lock()
		// A concurrent reader may have deposited our response while we were
		// waiting for the read half.
		if resp, ok := c.takeBuffered(id); ok {
			c.readMu.Unlock()
			return resp.unpack()
		}
		data, err := protocol.ReadFrame(c.conn)
		c.readMu.Unlock()
		if err != nil {
			return nil, err
		}

		dict, err := c.cdc.Decode(data)
		if err != nil {
			return nil, err
		}
		c.log.Debug("received response", zap.Int("bytes", len(data)))

		msgID, ok := dict.Uint64(message.KeyID)
		if !ok {
			return nil, bngerr.ErrMissingID
		}

		resp := classify(dict)
		if msgID == id {
			return resp.unpack()
		}

		c.bufMu.Lock()
		c.buffered[msgID] = resp
		c.bufMu.Unlock()
	}
}

// Request sends a typed request and waits for its correlated response.
func (c *Connection) Request(reqType string, fields []message.Field) (message.StrDict, error) {
	id, err := c.SendRaw(reqType, fields)
	if err != nil {
		return nil, err
	}
	return c.Recv(id)
}

// Ack sends a request and verifies the response's type field equals ackType.
func (c *Connection) Ack(reqType, ackType string, fields []message.Field) error {
	resp, err := c.Request(reqType, fields)
	if err != nil {
		return err
	}
	got, _ := resp.String(message.KeyType)
	if got != ackType {
		return &bngerr.UnexpectedResponseTypeError{Expected: ackType, Got: got}
	}
	return nil
}

// Message sends a request whose response must echo the request type, and
// returns the response's result field, or nil when absent.
func (c *Connection) Message(reqType string, fields []message.Field) (any, error) {
	resp, err := c.Request(reqType, fields)
	if err != nil {
		return nil, err
	}
	got, _ := resp.String(message.KeyType)
	if got != reqType {
		return nil, &bngerr.UnexpectedResponseTypeError{Expected: reqType, Got: got}
	}
	return resp[message.KeyResult], nil
}

func (c *Connection) takeBuffered(id uint64) (response, bool) {
	c.bufMu.Lock()
	defer c.bufMu.Unlock()
	resp, ok := c.buffered[id]
	if ok {
		delete(c.buffered, id)
	}
	return resp, ok
}

// classify splits a decoded response into payload vs simulator-reported
// error. Presence of an error key turns an otherwise well-formed frame into
// a failed receive.
func classify(dict message.StrDict) response {
	if v, ok := dict[message.KeyError]; ok {
		msg, _ := message.AsString(v)
		if msg == "" {
			msg = "unknown error"
		}
		return response{err: &bngerr.SimulatorError{Msg: msg}}
	}
	if v, ok := dict[message.KeyValueError]; ok {
		msg, _ := message.AsString(v)
		if msg == "" {
			msg = "unknown value error"
		}
		return response{err: &bngerr.ValueError{Msg: msg}}
	}
	return response{dict: dict}
}
