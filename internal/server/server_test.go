package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/yellow-detect/internal/detection"
	"github.com/ironsheep/yellow-detect/internal/guidance"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestNew(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	require.NotNil(t, s.cache, "New() did not initialize cache")
	assert.Equal(t, "dev", s.version)
	assert.Equal(t, detection.DefaultConfig(), s.detect)
	assert.Equal(t, guidance.DefaultConfig(), s.guidance)
}

func TestNew_Options(t *testing.T) {
	cfg := detection.DefaultConfig()
	cfg.LowerHue = 15
	g := guidance.DefaultConfig()
	g.DeadZone = 40
	logger := &recordingLogger{}

	s := New(WithVersion("1.2.3"), WithDetectionConfig(cfg), WithGuidanceConfig(g), WithLogger(logger))

	assert.Equal(t, "1.2.3", s.version)
	assert.Equal(t, 15, s.detect.LowerHue)
	assert.Equal(t, 40.0, s.guidance.DeadZone)
	assert.Same(t, logger, s.logger, "logger not installed")

	// A nil logger keeps the default.
	assert.NotNil(t, New(WithLogger(nil)).logger, "nil logger replaced the default")
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
		})
	}
}

func TestMCPResponse_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(MCPResponse{
		JSONRPC: "2.0",
		ID:      1,
		Error:   &MCPError{Code: -32601, Message: "Method not found"},
	})
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"result"`, "error response carries a result")
	assert.NotContains(t, string(data), `"data"`, "empty error data not omitted")
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	assert.Equal(t, "ping-1", resp.ID)
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "Result should be a map")
	toolsList, ok := result["tools"].([]Tool)
	require.True(t, ok, "tools should be a slice of Tool")
	assert.Len(t, toolsList, 7)
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})

	// Notifications don't get responses
	assert.Nil(t, resp)
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "nonexistent/method"})

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error, "Expected error for unknown method")
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestHandleInitialize(t *testing.T) {
	s := New(WithVersion("0.3.0"))
	resp := s.handleInitialize(&MCPRequest{JSONRPC: "2.0", ID: "init-1"})

	assert.Equal(t, "init-1", resp.ID)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "Result should be a map")
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	require.True(t, ok, "serverInfo should be a map")
	assert.Equal(t, "yellow-detect", serverInfo["name"])
	assert.Equal(t, "0.3.0", serverInfo["version"])
}

func TestServe_RoundTrip(t *testing.T) {
	logger := &recordingLogger{}
	s := New(WithLogger(logger))

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"yellow_detect","arguments":{}}}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, s.Serve(strings.NewReader(input), &out))

	var responses []MCPResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp MCPResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp), "bad response line %q", scanner.Text())
		responses = append(responses, resp)
	}

	// The notification, the blank line and the garbage produce no output.
	require.Len(t, responses, 3)
	for i, wantID := range []float64{1, 2, 3} {
		assert.Equal(t, wantID, responses[i].ID, "response %d", i)
	}
	require.NotNil(t, responses[2].Error, "missing path")
	assert.Equal(t, -32000, responses[2].Error.Code)

	// One line for the unparsable request, one for the failed tool.
	assert.Len(t, logger.lines, 2, "log lines: %q", logger.lines)
}

func TestServe_OversizedLine(t *testing.T) {
	s := New()
	input := `{"jsonrpc":"2.0","id":1,"method":"ping","pad":"` + strings.Repeat("x", 2*1024*1024) + `"}`

	var out bytes.Buffer
	err := s.Serve(strings.NewReader(input), &out)
	assert.Error(t, err, "expected scanner error for a line past the buffer limit")
}
