package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestMonthURL(t *testing.T) {
	tests := []struct {
		name     string
		template string
		year     int
		month    int
		want     string
	}{
		{
			"default template",
			"",
			2020, 3,
			"https://datos.madrid.es/egob/catalogo/201200-calidad-aire-horario/202003.csv",
		},
		{
			"custom template",
			"http://mirror.test/{year}/{month}/horario.csv",
			2019, 11,
			"http://mirror.test/2019/11/horario.csv",
		},
		{
			"month is zero padded",
			"http://mirror.test/{year}{month}.csv",
			2020, 1,
			"http://mirror.test/202001.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.template)
			if got := c.MonthURL(tt.year, tt.month); got != tt.want {
				t.Errorf("MonthURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PROVINCIA;MUNICIPIO\n"))
	}))
	defer srv.Close()

	body, err := New("").Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.HasPrefix(string(body), "PROVINCIA") {
		t.Errorf("body = %q, want the served payload", body)
	}
}

func TestFetchRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := New("").Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", calls.Load())
	}
}

func TestFetchPermanentFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := New("").Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("Fetch succeeded on 404, want error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (404 must not be retried)", calls.Load())
	}
}

func TestFetchMonthWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2020/03.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := New(srv.URL + "/{year}/{month}.csv")
	path, err := c.FetchMonth(context.Background(), 2020, 3, dir)
	if err != nil {
		t.Fatalf("FetchMonth: %v", err)
	}
	if got, want := filepath.Base(path), "aire-202003.csv"; got != want {
		t.Errorf("filename = %q, want %q", got, want)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(content) != "data" {
		t.Errorf("content = %q, want data", content)
	}
}
