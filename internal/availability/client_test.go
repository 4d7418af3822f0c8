// Reelfeed - Creator-Driven Streaming Recommendations
// Copyright 2026 Reelfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelfeed/reelfeed

package availability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelfeed/reelfeed/internal/models"
	"github.com/reelfeed/reelfeed/internal/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("https://example.com", "  ")
	if err == nil {
		t.Fatal("expected config error for blank key")
	}
	var cfgErr *provider.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *provider.ConfigError, got %T", err)
	}
}

func TestAvailabilityCurrentWireShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"offers":[
			{"service_id":"netflix","service_name":"Netflix","link":"https://netflix.example/w/550","offer_type":"subscription"},
			{"service_id":"hbomax","service_name":"HBO Max","link":"https://hbomax.example/550","offer_type":"rent"}
		]}`))
	})

	records, err := client.Availability(context.Background(), 550, "pl")
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ServiceID != "netflix" || records[0].Type != models.OfferSubscription {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Type != models.OfferRent {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestAvailabilityLegacyWireShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"services":{
			"netflix":{"name":"Netflix","web_link":"https://netflix.example/w/550","type":"subscription"}
		}}`))
	})

	records, err := client.Availability(context.Background(), 550, "pl")
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.ServiceID != "netflix" || r.Name != "Netflix" || r.Link != "https://netflix.example/w/550" || r.Type != models.OfferSubscription {
		t.Errorf("legacy shape not normalized: %+v", r)
	}
}

func TestAvailabilityNotFoundIsCleanEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	records, err := client.Availability(context.Background(), 999, "pl")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("404 should yield a non-nil empty list, got %v", records)
	}
}

func TestAvailabilityRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Availability(context.Background(), 550, "pl")
	if !provider.IsRateLimited(err) {
		t.Fatalf("expected rate-limit sentinel, got %v", err)
	}
}

func TestAvailabilityServerErrorIsStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Availability(context.Background(), 550, "pl")
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr *provider.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *provider.StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", statusErr.StatusCode)
	}
}

func TestAvailabilityUnknownShapeIsEmpty(t *testing.T) {
	shapes := []string{
		`{"totally":"different"}`,
		`[]`,
		`not json at all`,
		`{"offers":null,"services":null}`,
	}
	for _, body := range shapes {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		records, err := client.Availability(context.Background(), 550, "pl")
		if err != nil {
			t.Fatalf("shape %q: unexpected error %v", body, err)
		}
		if len(records) != 0 {
			t.Errorf("shape %q: expected empty records, got %v", body, records)
		}
	}
}

func TestAvailabilityEmptyOffersList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"offers":[]}`))
	})

	records, err := client.Availability(context.Background(), 550, "pl")
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected clean empty list, got %v", records)
	}
}
