package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"pkt.systems/matrixterm/httpapi"
	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/schema"
)

func TestHTTPServesCatalogs(t *testing.T) {
	requireLong(t)
	st := startStack(t, stackOptions{})
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + st.httpAddr + "/api/catalogs")
	if err != nil {
		t.Fatalf("get catalogs: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var payload httpapi.CatalogsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode catalogs: %v", err)
	}
	if len(payload.Terminal) != len(schema.TerminalPages) {
		t.Fatalf("unexpected terminal catalog %v", payload.Terminal)
	}
}

func TestHTTPFetcherReadsServedPages(t *testing.T) {
	requireLong(t)
	st := startStack(t, stackOptions{})
	fetcher, err := content.NewHTTPFetcher("http://"+st.httpAddr, nil)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	for _, page := range schema.TerminalPageNames() {
		blocks, err := fetcher.Fetch(context.Background(), schema.PageName(page))
		if err != nil {
			t.Fatalf("fetch %s: %v", page, err)
		}
		if len(blocks) == 0 {
			t.Fatalf("page %s has no blocks", page)
		}
	}
	if _, err := fetcher.Fetch(context.Background(), "missing"); err == nil {
		t.Fatalf("expected missing page to fail")
	}
}

func TestSSHLoadsPagesFromContentServer(t *testing.T) {
	requireLong(t)
	site := startStack(t, stackOptions{})
	st := startStack(t, stackOptions{contentBaseURL: "http://" + site.httpAddr})

	client := dialSSH(t, st.sshAddr, "neo", nil)
	stdin, output, session := startSSHSession(t, client)
	defer session.Close()
	expectOutput(t, output, "Welcome to the Real World", 5*time.Second)
	if _, err := fmt.Fprint(stdin, "cat about\r"); err != nil {
		t.Fatal(err)
	}
	expectOutput(t, output, "Amateur radio operator", 5*time.Second)
}
