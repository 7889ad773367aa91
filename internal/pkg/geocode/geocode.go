package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const baseURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"

// Service resolves coordinates to human-readable place names.
type Service interface {
	// ReverseGeocode returns a "locality, city" label for the
	// coordinates, or an empty string when the lookup fails
	ReverseGeocode(ctx context.Context, lat, lng float64) string
}

type client struct {
	http  *http.Client
	mu    sync.RWMutex
	cache map[string]string
}

// NewService creates a reverse geocoding client backed by the
// BigDataCloud free endpoint. Results are cached by rounded coordinate
// so exports don't hammer the API for repeated punches from the same
// place.
func NewService() Service {
	return &client{
		http:  &http.Client{Timeout: 5 * time.Second},
		cache: make(map[string]string),
	}
}

type reverseGeocodeResponse struct {
	Locality             string `json:"locality"`
	City                 string `json:"city"`
	PrincipalSubdivision string `json:"principalSubdivision"`
	CountryName          string `json:"countryName"`
}

func (c *client) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	// Four decimals is roughly 11 meters, plenty for a place label
	key := fmt.Sprintf("%.4f,%.4f", lat, lng)

	c.mu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return cached
	}
	c.mu.RUnlock()

	url := fmt.Sprintf("%s?latitude=%f&longitude=%f&localityLanguage=en", baseURL, lat, lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}

	var parts []string
	for _, p := range []string{body.Locality, body.City, body.PrincipalSubdivision, body.CountryName} {
		if p != "" && !contains(parts, p) {
			parts = append(parts, p)
		}
	}
	label := strings.Join(parts, ", ")

	c.mu.Lock()
	c.cache[key] = label
	c.mu.Unlock()

	return label
}

func contains(s []string, v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}
