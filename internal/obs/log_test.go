package obs

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLogRequestTagsServiceName(t *testing.T) {
	logger := Logger()
	original := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	entry := map[string]any{
		"msg":    "request_complete",
		"method": "GET",
		"path":   "/v1/homestays",
		"status": 200,
	}
	LogRequest(entry)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if line["service"] != "gharbas-api" {
		t.Fatalf("missing service tag: %v", line)
	}
	if line["path"] != "/v1/homestays" || line["msg"] != "request_complete" {
		t.Fatalf("fields not preserved: %v", line)
	}
	if _, tagged := entry["service"]; tagged {
		t.Fatal("caller's map was modified")
	}
}
