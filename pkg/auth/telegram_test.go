package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initData(user string) string {
	v := url.Values{}
	v.Set("auth_date", "1700000000")
	if user != "" {
		v.Set("user", user)
	}
	return v.Encode()
}

func TestExtractTelegramData(t *testing.T) {
	tests := []struct {
		name     string
		initData string
		wantID   int64
		wantErr  bool
	}{
		{
			name:     "valid user",
			initData: initData(`{"id":42,"username":"alice"}`),
			wantID:   42,
		},
		{
			name:     "missing user",
			initData: initData(""),
			wantErr:  true,
		},
		{
			name:     "zero id",
			initData: initData(`{"username":"ghost"}`),
			wantErr:  true,
		},
		{
			name:     "bad auth date",
			initData: "auth_date=abc&user=%7B%22id%22%3A1%7D",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ExtractTelegramData(tt.initData)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, data.ID)
			assert.Equal(t, int64(1700000000), data.AuthDate.Unix())
		})
	}
}

func TestTelegramAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a := NewTelegramAuth("token", true)
	router := gin.New()
	router.GET("/", a.TelegramAuthMiddleware(), func(c *gin.Context) {
		user, ok := UserFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "unparseable data", header: HeaderValue("auth_date=1"), status: http.StatusUnauthorized},
		{name: "debug mode accepts unsigned data", header: HeaderValue(initData(`{"id":7}`)), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
