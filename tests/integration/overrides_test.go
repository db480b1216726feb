package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/iho/timelimit/internal/adapter/http/dto"
	"github.com/iho/timelimit/tests/testutil"
)

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postValidate(t *testing.T, baseURL, body string) (int, dto.ValidateResponse) {
	t.Helper()

	resp, err := http.Post(baseURL+"/api/v1/validate", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST validate: %v", err)
	}
	defer resp.Body.Close()

	var out dto.ValidateResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode validate: %v", err)
		}
	}
	return resp.StatusCode, out
}

func TestSharedOverrides(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testRedis := testutil.NewTestRedis(t)
	defer testRedis.Cleanup()

	testRedis.SetBound(ctx, "timelimit", "db", 30*time.Millisecond, 60*time.Millisecond)
	testRedis.SetBound(ctx, "timelimit", "short", 0, 200*time.Millisecond)

	srv := testRedis.NewServer(ctx, map[string]string{
		"TIMELIMIT_TIMEOUT_SHORT_UPPER": "150",
	})

	t.Run("redis category is resolvable", func(t *testing.T) {
		var bound dto.BoundResponse
		if code := getJSON(t, srv.URL+"/api/v1/bounds/db", &bound); code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if bound.Bound != "[30ms, 60ms]" {
			t.Fatalf("unexpected bound %s", bound.Bound)
		}
	})

	t.Run("environment wins over redis", func(t *testing.T) {
		var bound dto.BoundResponse
		getJSON(t, srv.URL+"/api/v1/bounds/short", &bound)
		if bound.Bound != "[0ms, 150ms]" {
			t.Fatalf("unexpected bound %s", bound.Bound)
		}
	})

	t.Run("suggestion ignores overrides", func(t *testing.T) {
		var resp dto.SuggestResponse
		getJSON(t, srv.URL+"/api/v1/suggest?duration=120", &resp)
		if resp.Category != "medium" {
			t.Fatalf("expected medium, got %q", resp.Category)
		}
	})

	t.Run("validation uses redis bounds", func(t *testing.T) {
		code, resp := postValidate(t, srv.URL, `{"category":"db","duration_ms":75}`)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if resp.WithinBound || resp.Suggested != "short" {
			t.Fatalf("unexpected validation %+v", resp)
		}
		if !strings.HasPrefix(resp.Message, "The test ran for 75ms and was categorized as 'db'") {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		code, _ := postValidate(t, srv.URL, `{"category":"not-existing","duration":"10ms"}`)
		if code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", code)
		}
	})

	t.Run("snapshot is taken at startup", func(t *testing.T) {
		testRedis.SetBound(ctx, "timelimit", "late", 0, time.Second)

		code, _ := postValidate(t, srv.URL, `{"category":"late","duration_ms":1}`)
		if code != http.StatusNotFound {
			t.Fatalf("expected late override to be invisible, got %d", code)
		}

		restarted := testRedis.NewServer(ctx, map[string]string{})
		code, _ = postValidate(t, restarted.URL, `{"category":"late","duration_ms":1}`)
		if code != http.StatusOK {
			t.Fatalf("expected late override after restart, got %d", code)
		}
	})

	t.Run("readiness pings redis", func(t *testing.T) {
		if code := getJSON(t, srv.URL+"/ready", nil); code != http.StatusOK {
			t.Fatalf("expected ready, got %d", code)
		}
	})

	t.Run("metrics exposed", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET metrics: %v", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), `timelimit_validations_total{category="db",outcome="out_of_bound"} 1`) {
			t.Fatalf("validation not counted:\n%s", body)
		}
	})
}
