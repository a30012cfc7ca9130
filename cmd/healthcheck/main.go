// Command healthcheck probes the local server's liveness endpoint. It is the
// container HEALTHCHECK and exits non-zero when the server is not alive.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/anurag-chatbot/au-fulfillment/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = config.DefaultPort
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/livez", port))
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
