package rpc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func frame(body string) string {
	return "Content-Length: " + itoa(len(body)) + "\r\n\r\n" + body
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestReadRequestDecodesFramedMessage(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	conn := NewConn(strings.NewReader(frame(body)), &bytes.Buffer{})

	req, err := conn.ReadRequest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != "initialize" {
		t.Errorf("unexpected method: %q", req.Method)
	}
}

func TestReadRequestRejectsOversizedContentLength(t *testing.T) {
	raw := "Content-Length: 999999999999\r\n\r\n"
	conn := NewConn(strings.NewReader(raw), &bytes.Buffer{})

	_, err := conn.ReadRequest()
	var ferr *FrameError
	if !asFrameError(err, &ferr) {
		t.Fatalf("expected FrameError, got %v", err)
	}
	if ferr.Code != ErrCodeInvalidRequest {
		t.Errorf("expected invalid-request code, got %d", ferr.Code)
	}
}

func asFrameError(err error, target **FrameError) bool {
	fe, ok := err.(*FrameError)
	if !ok {
		return false
	}
	*target = fe
	return true
}

func TestReplyWritesContentLengthFrame(t *testing.T) {
	var out bytes.Buffer
	conn := NewConn(strings.NewReader(""), &out)

	if err := conn.Reply(json.RawMessage("1"), map[string]string{"ok": "true"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written := out.String()
	if !strings.HasPrefix(written, "Content-Length: ") {
		t.Fatalf("expected Content-Length prefix, got %q", written)
	}
	if !strings.Contains(written, `"ok":"true"`) {
		t.Errorf("expected body in output, got %q", written)
	}
}

func TestReadRequestEOFBetweenMessages(t *testing.T) {
	conn := NewConn(strings.NewReader(""), &bytes.Buffer{})
	_, err := conn.ReadRequest()
	if err == nil {
		t.Fatal("expected an error reading from an empty stream")
	}
}
