package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteSendsAuthAndParsesReply(t *testing.T) {
	var gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Keep receipts for all items above 5000."}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "https://drs.test", "DRS")
	client.SetBaseURL(server.URL)

	reply, err := client.Complete(context.Background(), "test-model", []Message{
		{Role: "user", Content: "What is the receipt policy?"},
	}, nil)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header %q", gotAuth)
	}
	if gotModel != "test-model" {
		t.Errorf("model %q", gotModel)
	}
	if reply != "Keep receipts for all items above 5000." {
		t.Errorf("unexpected reply %q", reply)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "", "")
	client.SetBaseURL(server.URL)

	if _, err := client.Complete(context.Background(), "test-model", []Message{{Role: "user", Content: "hi"}}, nil); err == nil {
		t.Fatal("expected error on 429 response")
	}
}
