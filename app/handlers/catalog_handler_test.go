package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverFromQuery(t *testing.T) {
	cases := []struct {
		query   string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"?latitude=51.2", false, false},
		{"?longitude=4.4", false, false},
		{"?latitude=51.2&longitude=4.4", true, false},
		{"?latitude=abc&longitude=4.4", false, true},
		{"?latitude=51.2&longitude=east", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			p, err := observerFromQuery(httptest.NewRequest(http.MethodGet, "/products/x/comparison"+tc.query, nil))
			if tc.wantErr {
				assert.ErrorIs(t, err, services.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, p != nil)
		})
	}
}
