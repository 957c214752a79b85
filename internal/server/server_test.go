package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/config"
	"github.com/sri-shubham/Everclimb/internal/network"
)

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown()
	})
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, config.Default())
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestDifficultyEndpoint(t *testing.T) {
	ts := newTestServer(t, config.Default())
	resp, err := http.Get(ts.URL + "/api/difficulty/50")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var body network.DifficultyPayload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Level != 50 || body.Params.IceBoost != 25 {
		t.Fatalf("body = %+v", body)
	}

	bad, err := http.Get(ts.URL + "/api/difficulty/zero")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", bad.StatusCode)
	}
}

func TestChunkEndpoint(t *testing.T) {
	ts := newTestServer(t, config.Default())
	resp, err := http.Get(ts.URL + "/api/chunks/0xDEADBEEF/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var c chunk.Chunk
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Digest() != chunk.Generate(24, 0xDEADBEEF, 1).Digest() {
		t.Fatalf("served chunk differs from a local generation")
	}

	withEntrance, err := http.Get(ts.URL + "/api/chunks/7/3?entrance=2&hex_size=32")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer withEntrance.Body.Close()
	var c2 chunk.Chunk
	if err := json.NewDecoder(withEntrance.Body).Decode(&c2); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c2.EntranceQ() != 2 || c2.HexSize() != 32 || c2.Level() != 3 {
		t.Fatalf("query parameters ignored: entrance=%d hex=%v level=%d", c2.EntranceQ(), c2.HexSize(), c2.Level())
	}

	for _, path := range []string{
		"/api/chunks/abc/1",
		"/api/chunks/1/0",
		"/api/chunks/1/1?hex_size=-4",
		"/api/chunks/1/1?hex_size=NaN",
		"/api/chunks/1/1?width=Inf&height=480",
		"/api/chunks/1/1?hex_size=0.001",
		"/api/chunks/1/1?width=100000&height=100000",
	} {
		r, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		r.Body.Close()
		if r.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", path, r.StatusCode)
		}
	}
}

func writeKeyPair(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "pub.pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return key, path
}

func signToken(t *testing.T, key *ecdsa.PrivateKey, issuer string, activated int64) string {
	t.Helper()
	claims := Claims{
		Username:  "mira",
		Activated: activated,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestChunkEndpointRequiresToken(t *testing.T) {
	key, path := writeKeyPair(t)
	cfg := config.Default()
	cfg.JWT = config.JWTConfig{Issuer: "everclimb-auth", PublicKeyPath: path, Required: true}
	ts := newTestServer(t, cfg)

	get := func(token string) int {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/chunks/1/1", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if code := get(""); code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", code)
	}
	if code := get(signToken(t, key, "someone-else", 1)); code != http.StatusUnauthorized {
		t.Fatalf("wrong issuer: status %d", code)
	}
	if code := get(signToken(t, key, "everclimb-auth", -1)); code != http.StatusUnauthorized {
		t.Fatalf("banned user: status %d", code)
	}
	if code := get(signToken(t, key, "everclimb-auth", 1)); code != http.StatusOK {
		t.Fatalf("valid token: status %d", code)
	}
}

func TestValidateToken(t *testing.T) {
	key, path := writeKeyPair(t)
	v, err := NewJWTValidator(config.JWTConfig{Issuer: "iss", PublicKeyPath: path})
	if err != nil {
		t.Fatalf("NewJWTValidator: %v", err)
	}
	climber, err := v.ValidateToken(signToken(t, key, "iss", 1))
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if climber.ID != "42" || climber.Username != "mira" || !climber.IsActive() {
		t.Fatalf("climber = %+v", climber)
	}
	if _, err := v.ValidateToken(signToken(t, key, "iss", 0)); err == nil {
		t.Fatalf("inactive user accepted")
	}
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Sec-WebSocket-Protocol", "access_token, abc")
	if got := extractToken(r); got != "abc" {
		t.Fatalf("protocol token = %q", got)
	}
	r = httptest.NewRequest(http.MethodGet, "/ws?token=q", nil)
	if got := extractToken(r); got != "q" {
		t.Fatalf("query token = %q", got)
	}
	r.Header.Set("Authorization", "Bearer h")
	if got := extractToken(r); got != "h" {
		t.Fatalf("header token = %q", got)
	}
}

type wsReply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func read(t *testing.T, ws *websocket.Conn) wsReply {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	var msg wsReply
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func readChunk(t *testing.T, ws *websocket.Conn) *chunk.Chunk {
	t.Helper()
	msg := read(t, ws)
	if msg.Type != network.MsgTypeChunk {
		t.Fatalf("got %s %s, want chunk", msg.Type, msg.Payload)
	}
	var p struct {
		Chunk *chunk.Chunk `json:"chunk"`
	}
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		t.Fatalf("decode chunk: %v", err)
	}
	return p.Chunk
}

func TestFeed(t *testing.T) {
	for _, prefetch := range []bool{true, false} {
		cfg := config.Default()
		cfg.Generator.Prefetch = prefetch
		ts := newTestServer(t, cfg)
		ws := dial(t, ts)

		welcome := read(t, ws)
		if welcome.Type != network.MsgTypeWelcome {
			t.Fatalf("first message %s, want welcome", welcome.Type)
		}
		var w network.WelcomePayload
		if err := json.Unmarshal(welcome.Payload, &w); err != nil || len(w.SessionID) != 36 {
			t.Fatalf("welcome payload %s: %v", welcome.Payload, err)
		}

		if err := ws.WriteJSON(map[string]any{"type": "next"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if msg := read(t, ws); msg.Type != network.MsgTypeError {
			t.Fatalf("next before start should fail, got %s", msg.Type)
		}

		if err := ws.WriteJSON(map[string]any{"type": "start", "payload": map[string]any{"seed": 99, "hex_size": 0.001}}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if msg := read(t, ws); msg.Type != network.MsgTypeError {
			t.Fatalf("oversized start should fail, got %s", msg.Type)
		}

		if err := ws.WriteJSON(map[string]any{"type": "start", "payload": map[string]any{"seed": 99, "level": 4}}); err != nil {
			t.Fatalf("write: %v", err)
		}
		prev := readChunk(t, ws)
		if prev.Seed() != 99 || prev.Level() != 4 {
			t.Fatalf("start chunk seed=%d level=%d", prev.Seed(), prev.Level())
		}
		for i := 0; i < 3; i++ {
			if err := ws.WriteJSON(map[string]any{"type": "next"}); err != nil {
				t.Fatalf("write: %v", err)
			}
			next := readChunk(t, ws)
			if next.Digest() != chunk.Next(prev).Digest() {
				t.Fatalf("prefetch=%v step %d: feed diverged from the stitcher", prefetch, i)
			}
			prev = next
		}

		if err := ws.WriteJSON(map[string]any{"type": "ping"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if msg := read(t, ws); msg.Type != network.MsgTypePong {
			t.Fatalf("got %s, want pong", msg.Type)
		}
	}
}

func TestFeedRejectsMissingToken(t *testing.T) {
	_, path := writeKeyPair(t)
	cfg := config.Default()
	cfg.JWT = config.JWTConfig{PublicKeyPath: path, Required: true}
	ts := newTestServer(t, cfg)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}
