package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostileInputs(t *testing.T) {
	router, _ := setupRouter(t, nil)

	t.Run("injection-shaped filter values are plain unknown values", func(t *testing.T) {
		payloads := []string{
			`{"metric":"tpv","filters":{"product":"pix'; DROP TABLE transactions; --"}}`,
			`{"metric":"tpv","filters":{"entity":"individual' OR '1'='1"}}`,
			`{"metric":"tpv","filters":{"payment_method":"credit' UNION SELECT * FROM pg_catalog.pg_tables --"}}`,
		}
		for _, body := range payloads {
			w := postJSON(t, router, "/api/v1/query/execute", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "payload: %s", body)
		}
	})

	t.Run("injection-shaped query params never cause 500", func(t *testing.T) {
		urls := []string{
			"/api/v1/alerts?metric=tpv'%3B+DROP+TABLE+transactions%3B+--",
			"/api/v1/alerts?dimension=product'+OR+'1'%3D'1",
			"/api/v1/alerts?date=2026-03-16'+UNION+SELECT+1+--",
		}
		for _, url := range urls {
			w := getURL(t, router, url)
			assert.NotEqual(t, http.StatusInternalServerError, w.Code, "url: %s", url)
		}
	})
}

func TestMalformedJSON(t *testing.T) {
	router, _ := setupRouter(t, &stubTranslator{})

	cases := []struct {
		name string
		body string
	}{
		{"truncated JSON", `{"metric":"tpv","group_by":["product"]`},
		{"wrong types", `{"metric":123,"group_by":"product","limit":"ten"}`},
		{"empty object", `{}`},
		{"just array", `[]`},
		{"empty string", ``},
		{"random string", `hello world`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/v1/query/execute", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code,
				"malformed body should return 400, got %d for %s", w.Code, tc.name)
		})
	}
}

func TestBoundaryConditions(t *testing.T) {
	router, _ := setupRouter(t, &stubTranslator{})

	t.Run("question below minimum length", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/query", `{"question":"a"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("question above maximum length", func(t *testing.T) {
		long := strings.Repeat("x", 501)
		w := postJSON(t, router, "/api/v1/query", `{"question":"`+long+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("limit zero rejected", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/query/execute", `{"metric":"tpv","group_by":["product"],"limit":0}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("page beyond last returns empty alerts page", func(t *testing.T) {
		w := getURL(t, router, "/api/v1/alerts?page=999")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"alerts":[]`)
	})

	t.Run("negative page_size falls back to default", func(t *testing.T) {
		w := getURL(t, router, "/api/v1/alerts?page_size=-1")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
