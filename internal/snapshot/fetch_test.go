package snapshot

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/jarcoal/httpmock"

	"github.com/IshaanNene/shopstalk/internal/dom"
)

const fetchURL = "https://webscraper.io/test-sites/e-commerce/more/"

const fetchHTML = `<html><body>
<div class="thumbnail"><a class="title" title="Lenovo Legion">Lenovo...</a></div>
<div class="thumbnail"><a class="title" title="HP ProBook">HP...</a></div>
</body></html>`

func mockClient(t *testing.T) (*http.Client, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	return &http.Client{Transport: mt}, mt
}

func assertTwoCards(t *testing.T, view *View) {
	t.Helper()
	cards, err := view.Elements(dom.CSS(".thumbnail"))
	if err != nil {
		t.Fatalf("Elements failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
}

func TestFetchPlain(t *testing.T) {
	client, mt := mockClient(t)
	mt.RegisterResponder("GET", fetchURL, func(req *http.Request) (*http.Response, error) {
		if ae := req.Header.Get("Accept-Encoding"); !strings.Contains(ae, "br") {
			t.Errorf("request should offer brotli, got Accept-Encoding %q", ae)
		}
		return httpmock.NewStringResponse(200, fetchHTML), nil
	})

	view, err := Fetch(context.Background(), client, fetchURL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	assertTwoCards(t, view)
}

func TestFetchGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(fetchHTML)); err != nil {
		t.Fatalf("gzip fixture: %v", err)
	}
	zw.Close()

	client, mt := mockClient(t)
	mt.RegisterResponder("GET", fetchURL, func(*http.Request) (*http.Response, error) {
		resp := httpmock.NewBytesResponse(200, buf.Bytes())
		resp.Header.Set("Content-Encoding", "gzip")
		return resp, nil
	})

	view, err := Fetch(context.Background(), client, fetchURL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	assertTwoCards(t, view)
}

func TestFetchBrotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	if _, err := bw.Write([]byte(fetchHTML)); err != nil {
		t.Fatalf("brotli fixture: %v", err)
	}
	bw.Close()

	client, mt := mockClient(t)
	mt.RegisterResponder("GET", fetchURL, func(*http.Request) (*http.Response, error) {
		resp := httpmock.NewBytesResponse(200, buf.Bytes())
		resp.Header.Set("Content-Encoding", "br")
		return resp, nil
	})

	view, err := Fetch(context.Background(), client, fetchURL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	assertTwoCards(t, view)
}

func TestFetchRejectsNon200(t *testing.T) {
	client, mt := mockClient(t)
	mt.RegisterResponder("GET", fetchURL,
		httpmock.NewStringResponder(503, "upstream unavailable"))

	if _, err := Fetch(context.Background(), client, fetchURL); err == nil {
		t.Fatal("expected error on HTTP 503")
	}
}

func TestFetchNilClientUsesDefault(t *testing.T) {
	// The default client hits the network, so only check construction.
	c := DefaultClient()
	if c.Timeout <= 0 {
		t.Error("default client should carry a timeout")
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok || !tr.DisableCompression {
		t.Error("default transport must leave decompression to the caller")
	}
}
