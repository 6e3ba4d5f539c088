package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// serviceName tags every emitted line so aggregated registry logs can
// be filtered per service.
const serviceName = "gharbas-api"

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared JSON-line logger. All service output,
// request logs and audit events included, goes through this single
// stdout stream.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits one JSON line for a completed HTTP request, tagged
// with the service name. The caller's map is not modified.
func LogRequest(entry map[string]any) {
	tagged := make(map[string]any, len(entry)+1)
	for k, v := range entry {
		tagged[k] = v
	}
	tagged["service"] = serviceName
	data, err := json.Marshal(tagged)
	if err != nil {
		Logger().Println(`{"service":"` + serviceName + `","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
