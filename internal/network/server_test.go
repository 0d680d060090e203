package network

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/engine"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/jsonfile"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/manager"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	reg := manager.NewRegistry(store)
	t.Cleanup(func() { reg.Close() })
	return NewServer(engine.New(reg))
}

type client struct {
	conn    net.Conn
	reader  *bufio.Reader
	encoder *json.Encoder
}

func (c *client) send(t *testing.T, query string) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, c.encoder.Encode(Request{Query: query}))
	line, err := c.reader.ReadBytes('\n')
	require.NoError(t, err)

	var res map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(line, &res))
	return res
}

func TestServeConn(t *testing.T) {
	srv := newTestServer(t)
	serverSide, clientSide := net.Pipe()

	done := make(chan struct{})
	go func() {
		srv.ServeConn(context.Background(), serverSide)
		close(done)
	}()

	c := &client{conn: clientSide, reader: bufio.NewReader(clientSide), encoder: json.NewEncoder(clientSide)}

	res := c.send(t, "CREATE TABLE t (id INT, val STRING)")
	assert.JSONEq(t, `"Table 't' created with columns: [id val] (Schema: map[id:INT val:STRING])"`, string(res["message"]))

	res = c.send(t, "INSERT INTO t (id, val) VALUES (1, 'hi')")
	assert.JSONEq(t, `"Inserted 1 row into 't'."`, string(res["message"]))

	res = c.send(t, "SELECT * FROM t")
	assert.JSONEq(t, `["id","val"]`, string(res["columns"]))
	assert.Equal(t, `[{"id":"1","val":"hi"}]`, string(res["rows"]))

	res = c.send(t, "INSERT INTO t (id, val) VALUES (1, 'again')")
	assert.JSONEq(t, `"duplicate primary key '1' in table 't'"`, string(res["error"]))

	require.NoError(t, c.encoder.Encode(Request{Query: "EXIT"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection not closed after exit")
	}
	clientSide.Close()
}

func TestServeConn_InvalidRequest(t *testing.T) {
	srv := newTestServer(t)
	serverSide, clientSide := net.Pipe()
	defer clientSide.Close()

	go srv.ServeConn(context.Background(), serverSide)

	go func() { _, _ = clientSide.Write([]byte("not json\n")) }()

	line, err := bufio.NewReader(clientSide).ReadBytes('\n')
	require.NoError(t, err)
	assert.Contains(t, string(line), "Invalid request format")
}

func TestServe_ListenerAndShutdown(t *testing.T) {
	srv := newTestServer(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, listener) }()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	c := &client{conn: conn, reader: bufio.NewReader(conn), encoder: json.NewEncoder(conn)}
	res := c.send(t, "SELECT * FROM t")
	assert.Equal(t, `[]`, string(res["rows"]))

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
