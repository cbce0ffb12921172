package cookie

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCartLines(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: 1, VariantID: 2, SizeID: 3, Quantity: 2, UnitPriceCentimes: 9900},
	}
	raw, err := json.Marshal(lines)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.AddCookie(&http.Cookie{Name: CartCookieName, Value: base64.URLEncoding.EncodeToString(raw)})

	got := ReadCartLines(r)
	assert.Equal(t, lines, got)
}

func TestReadCartLinesMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not base64", value: "%%%"},
		{name: "not json", value: base64.URLEncoding.EncodeToString([]byte("nope"))},
		{name: "empty", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/cart", nil)
			r.AddCookie(&http.Cookie{Name: CartCookieName, Value: tt.value})
			assert.Nil(t, ReadCartLines(r))
		})
	}
}

func TestReadCartLinesMissingCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	assert.Nil(t, ReadCartLines(r))
}

func TestSessionCookieRoundTrip(t *testing.T) {
	cfg := NewConfig(true)

	w := httptest.NewRecorder()
	cfg.SetSession(w, "tok-123")

	resp := w.Result()
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)

	ck := cookies[0]
	assert.Equal(t, SessionCookieName, ck.Name)
	assert.Equal(t, "tok-123", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(ck)
	assert.Equal(t, "tok-123", GetSessionToken(r))
}

func TestClearCart(t *testing.T) {
	cfg := NewConfig(false)

	w := httptest.NewRecorder()
	cfg.ClearCart(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CartCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
