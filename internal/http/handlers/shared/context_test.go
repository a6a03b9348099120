package shared

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/orders-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func TestCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		value    interface{}
		set      bool
		wantID   uint
		wantOK   bool
		wantCode int
	}{
		{name: "missing", wantCode: response.CodeUnauthorized},
		{name: "uint", value: uint(7), set: true, wantID: 7, wantOK: true},
		{name: "int", value: 9, set: true, wantID: 9, wantOK: true},
		{name: "zero", value: uint(0), set: true, wantCode: response.CodeUnauthorized},
		{name: "negative", value: -1, set: true, wantCode: response.CodeUnauthorized},
		{name: "wrong type", value: "7", set: true, wantCode: response.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/orders", nil)
			if tc.set {
				c.Set(ContextKeyUserID, tc.value)
			}
			id, ok := CurrentUserID(c)
			if id != tc.wantID || ok != tc.wantOK {
				t.Fatalf("want (%d, %v) got (%d, %v)", tc.wantID, tc.wantOK, id, ok)
			}
			if tc.wantOK {
				if w.Body.Len() != 0 {
					t.Fatalf("unexpected response body: %s", w.Body.String())
				}
				return
			}
			var body struct {
				StatusCode int `json:"status_code"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response failed: %v", err)
			}
			if body.StatusCode != tc.wantCode {
				t.Fatalf("status_code want %d got %d", tc.wantCode, body.StatusCode)
			}
		})
	}
}

func TestCurrentUserType(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserType(c); got != "" {
		t.Fatalf("anonymous user type want empty got %q", got)
	}
	c.Set(ContextKeyUserType, "shop")
	if got := CurrentUserType(c); got != "shop" {
		t.Fatalf("user type want shop got %q", got)
	}
}
