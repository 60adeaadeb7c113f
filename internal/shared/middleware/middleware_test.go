package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		handler gin.HandlerFunc
		role    interface{}
		code    int
	}{
		{"staff allows receptionist", RequireStaff(), RoleReceptionist, http.StatusOK},
		{"staff allows super admin", RequireStaff(), RoleSuperAdmin, http.StatusOK},
		{"staff rejects requester", RequireStaff(), "REQUESTER", http.StatusForbidden},
		{"super admin rejects receptionist", RequireSuperAdmin(), RoleReceptionist, http.StatusForbidden},
		{"missing role claim", RequireStaff(), nil, http.StatusUnauthorized},
		{"non-string role claim", RequireStaff(), 42, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.role != nil {
				c.Set(ContextUserRole, tc.role)
			}

			tc.handler(c)

			if tc.code == http.StatusOK {
				assert.False(t, c.IsAborted())
			} else {
				assert.True(t, c.IsAborted())
				assert.Equal(t, tc.code, w.Code)
			}
		})
	}
}
