package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the JSON-line logger every Trang Hoa component writes
// through. Stdout only, no prefix and no flags, so each line stays one
// parseable JSON object for the log shipper.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits one JSON line for a completed HTTP request.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"level":"error","msg":"request_log_dropped"}`)
		return
	}
	Logger().Println(string(data))
}
