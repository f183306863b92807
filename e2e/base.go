package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type BaseSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR is not set")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a colorized header for a test step in logs
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// API sends a JSON request and decodes the JSON response into out when given.
func (s *BaseSuite) API(method, path, token string, in, out any) int {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, "http://"+s.Config.ServerAddr+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	s.T().Logf("HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		s.T().Logf("RESPONSE:\n%s", raw)
	}
	if out != nil && len(raw) > 0 && resp.StatusCode < 300 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}

// Dial opens a websocket on the gateway.
func (s *BaseSuite) Dial(name string) *websocket.Conn {
	s.Step(name)
	u := url.URL{Scheme: "ws", Host: s.Config.ServerAddr, Path: "/ws"}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	s.Require().NoError(err, "Failed to open websocket at "+u.String())
	s.Require().Equal(http.StatusSwitchingProtocols, resp.StatusCode)
	return conn
}

// Expect reads messages until one of type t arrives or the deadline expires.
func (s *BaseSuite) Expect(conn *websocket.Conn, t domain.MessageType, timeout time.Duration) domain.Message {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(timeout)))
	for {
		_, data, err := conn.ReadMessage()
		s.Require().NoError(err, "no %s received", t)
		if s.Config.DebugJSON {
			s.T().Logf("FRAME: %s", data)
		}
		msg, err := domain.DecodeMessage(data)
		s.Require().NoError(err)
		if msg.Type == t {
			return msg
		}
	}
}
