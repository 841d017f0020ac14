package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageName(t *testing.T) {
	tests := map[string]string{
		"/":                   "home",
		"/login":              "login",
		"/dashboard":          "dashboard",
		"/inventory/manage/3": "inventory.manage.3",
		"/users":              "users",
	}
	for path, want := range tests {
		assert.Equal(t, want, pageName(path), path)
	}
}

func TestPageHandler_Show_Anonymous(t *testing.T) {
	tc := testutil.NewTestContextWithRequest(t, httptest.NewRequest(http.MethodGet, "/login/", nil))

	NewPageHandler().Show(tc.Context)

	assert.Equal(t, http.StatusOK, tc.ResponseCode())
	desc := testutil.DecodeData[PageDescriptor](t, tc.Recorder)
	assert.Equal(t, "login", desc.Page)
	assert.Equal(t, "/login", desc.Path)
	assert.Nil(t, desc.User)
}

func TestPageHandler_Show_WithSession(t *testing.T) {
	tc := testutil.NewTestContextWithRequest(t, httptest.NewRequest(http.MethodGet, "/inventory/manage", nil))
	tc.SetSession(identity.Session{SubjectID: 3, Username: "root", Role: identity.RoleAdmin})

	NewPageHandler().Show(tc.Context)

	desc := testutil.DecodeData[PageDescriptor](t, tc.Recorder)
	assert.Equal(t, "inventory.manage", desc.Page)
	require.NotNil(t, desc.User)
	assert.Equal(t, int64(3), desc.User.ID)
	assert.Equal(t, "root", desc.User.Username)
	assert.Equal(t, "admin", desc.User.Role)
}
