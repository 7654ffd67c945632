package feed

import (
	"math/rand"
	"net/http"
)

// accept headers per kind of fetched document
const (
	feedAccept  = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5"
	imageAccept = "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8,*/*;q=0.5"
	mediaAccept = "audio/*,video/*;q=0.9,*/*;q=0.5"
)

// acceptLanguages contains common Accept-Language values of podcast players
var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,de;q=0.8",
	"ru-RU,ru;q=0.9,en;q=0.8",
}

// addBrowserHeaders adds player-like headers, some podcast hosts reject bare clients
func addBrowserHeaders(req *http.Request, accept string) {
	req.Header.Set("Accept", accept)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
	req.Header.Set("Connection", "keep-alive")
}
