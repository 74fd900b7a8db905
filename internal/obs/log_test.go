package obs

import "testing"

func TestLogRequestSurvivesUnmarshalableEntry(t *testing.T) {
	// Functions cannot be marshaled; the fallback line must absorb it.
	LogRequest(map[string]any{"bad": func() {}})
	LogRequest(map[string]any{"msg": "request_complete", "status": 200})
}
