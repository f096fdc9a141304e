package main

import (
	"net/http"
	"os"
	"time"

	"github.com/Dutrix96/batalla/internal/constants"
)

// Container healthcheck probe: exit 0 when the server answers, 1 otherwise.
// The probe only reads BATALLA_ADDR; when the listen address comes from the
// config file's server.address, set BATALLA_ADDR for the probe as well.
func main() {
	addr := os.Getenv(constants.EnvAddr)
	if addr == "" {
		addr = ":8080"
	}
	if addr[0] == ':' {
		addr = "127.0.0.1" + addr
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/healthz")
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
	os.Exit(0)
}
