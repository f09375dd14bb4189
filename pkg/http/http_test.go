package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listQuery struct {
	Limit  int    `query:"limit" default:"50" validate:"gte=1,lte=100"`
	SortBy string `query:"sort_by" default:"activity" validate:"oneof=activity performance recent"`
}

func TestReadAndValidateRequestAppliesDefaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/insiders", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	var q listQuery
	require.Nil(t, ReadAndValidateRequest(c, &q))
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, "activity", q.SortBy)
}

func TestReadAndValidateRequestReportsTagNames(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/insiders?limit=500&sort_by=alpha", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	var q listQuery
	errs := ReadAndValidateRequest(c, &q)
	require.Len(t, errs, 2)
	assert.Equal(t, "limit", errs[0].Field)
	assert.Equal(t, "ERR_LTE", errs[0].Code)
	assert.Equal(t, "sort_by", errs[1].Field)
	assert.Equal(t, "sort_by must be one of: activity, performance, recent", errs[1].Message)
}

func TestAppErrorResponseShape(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, AppErrorResponse(c, NotFoundErrorf("Company %s not found", "ZZZ")))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Company ZZZ not found", body.Detail)
	assert.Empty(t, body.Errors)
}

func TestSendAndParseTypedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"nope"}`))
		case "/garbage":
			_, _ = w.Write([]byte(`<html>`))
		default:
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "7", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second))
	ctx := context.Background()

	var out struct{ OK bool }
	require.NoError(t, c.SendAndParse(ctx, &RequestOptions{
		Method:      MethodGet,
		URL:         srv.URL + "/ok",
		QueryParams: map[string][]string{"limit": {"7"}},
	}, &out))
	assert.True(t, out.OK)

	err := c.SendAndParse(ctx, &RequestOptions{Method: MethodGet, URL: srv.URL + "/missing"}, &out)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.JSONEq(t, `{"detail":"nope"}`, string(se.Body))

	err = c.SendAndParse(ctx, &RequestOptions{Method: MethodGet, URL: srv.URL + "/garbage"}, &out)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "<html>", string(de.Body))
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(0.001, 1))
	opts := &RequestOptions{Method: MethodGet, URL: srv.URL}
	require.NoError(t, c.SendAndParse(context.Background(), opts, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, c.SendAndParse(ctx, opts, nil))
}

func TestPathParamDecodesOnce(t *testing.T) {
	e := echo.New()
	var got string
	e.GET("/insiders/:name", func(c echo.Context) error {
		name, err := PathParam(c, "name")
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		got = name
		return c.NoContent(http.StatusOK)
	})

	cases := map[string]string{
		"/insiders/Jane%20Roe":              "Jane Roe",
		"/insiders/100%25%20Holdings%20LLC": "100% Holdings LLC",
		"/insiders/A%2520B":                 "A%20B",
		"/insiders/Smith%20%2F%20Jones":     "Smith / Jones",
		"/insiders/O%27Brien%2C%20Pat":      "O'Brien, Pat",
	}
	for target, want := range cases {
		got = ""
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, want, got, target)
	}
}
