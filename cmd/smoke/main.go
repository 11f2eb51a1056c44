package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8081", "Base URL of a running web server")
	username := flag.String("user", "octocat", "GitHub username to add")
	flag.Parse()

	hc := &http.Client{Timeout: 30 * time.Second}
	base := strings.TrimRight(*baseURL, "/")

	fmt.Printf("Testing web server at %s...\n", base)

	// Health check
	body := mustDo(hc, http.MethodGet, base+"/healthz", nil, http.StatusOK)
	fmt.Printf("GET /healthz - %s\n", body)

	// List the starting cards
	body = mustDo(hc, http.MethodGet, base+"/api/profiles", nil, http.StatusOK)
	var before []json.RawMessage
	if err := json.Unmarshal(body, &before); err != nil {
		fail("Error unmarshaling profiles: %v\nResponse body: %s", err, body)
	}
	fmt.Printf("GET /api/profiles - %d cards\n", len(before))

	// Add one card; the value form answers 202 and adds nothing
	req, _ := json.Marshal(map[string]string{"username": *username})
	resp, err := hc.Post(base+"/api/profiles", "application/json", bytes.NewReader(req))
	if err != nil {
		fail("Error: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	fmt.Printf("POST /api/profiles %s - Status: %s\n", *username, resp.Status)

	switch resp.StatusCode {
	case http.StatusCreated:
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err != nil {
			fail("Error formatting JSON: %v\nRaw response: %s", err, body)
		}
		fmt.Printf("Added card:\n%s\n", pretty.String())
	case http.StatusAccepted:
		fmt.Println("Form only logs submissions; no card added")
	default:
		fail("Unexpected response: %s", strings.TrimSpace(string(body)))
	}

	body = mustDo(hc, http.MethodGet, base+"/api/profiles", nil, http.StatusOK)
	var after []json.RawMessage
	if err := json.Unmarshal(body, &after); err != nil {
		fail("Error unmarshaling profiles: %v", err)
	}
	fmt.Printf("GET /api/profiles - %d cards\n", len(after))

	if resp.StatusCode == http.StatusCreated && len(after) != len(before)+1 {
		fail("Expected %d cards, got %d", len(before)+1, len(after))
	}
}

func mustDo(hc *http.Client, method, url string, body io.Reader, want int) []byte {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fail("Error: %v", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		fail("Error: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		fail("Error reading response: %v", err)
	}
	if resp.StatusCode != want {
		fail("%s %s - Status: %s", method, url, resp.Status)
	}
	return data
}

func fail(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
