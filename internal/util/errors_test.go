package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stackit_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", model.NotFoundf("question not found"), http.StatusNotFound, "question not found"},
		{"forbidden", model.Forbiddenf("only the question author can accept"), http.StatusForbidden, "only the question author can accept"},
		{"validation", model.Invalidf("title is too short"), http.StatusBadRequest, "title is too short"},
		{"vote type", model.ErrInvalidVoteType, http.StatusBadRequest, "invalid vote type"},
		{"bare sentinel", model.ErrNotFound, http.StatusNotFound, "not found"},
		{"upstream", model.ErrUpstreamUnavailable, http.StatusServiceUnavailable, "upstream unavailable"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.message, resp.Message)
		})
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, DefaultPageSize},
		{"?page=3&limit=5", 3, 5},
		{"?page=-1&limit=0", 1, DefaultPageSize},
		{"?page=abc&limit=100000", 1, MaxPageSize},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/questions"+tc.query, nil)
		page, limit := ParsePagination(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}
