package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/dryfruit-backend/internal/admin"
	"github.com/angelmondragon/dryfruit-backend/internal/delivery"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

type stubAdmin struct{}

func (stubAdmin) Login(_ context.Context, req admin.LoginRequest) (admin.Session, error) {
	if req.Username != "admin" || req.Password != "admin123" {
		return admin.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials")
	}
	return admin.Session{Username: "admin", AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (stubAdmin) Dashboard(context.Context) (admin.Dashboard, error) {
	return admin.Dashboard{TotalOrders: 3, TotalRevenue: 998}, nil
}

func TestAdminLogin(t *testing.T) {
	rec := serve(AdminLogin(stubAdmin{}, nil), newRequest(http.MethodPost, "/api/admin/v1/auth/login", `{"username":"admin","password":"admin123"}`, "", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "access", decodeData[admin.Session](t, rec).AccessToken)

	rec = serve(AdminLogin(stubAdmin{}, nil), newRequest(http.MethodPost, "/api/admin/v1/auth/login", `{"username":"admin","password":"nope"}`, "", "", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(AdminLogin(stubAdmin{}, nil), newRequest(http.MethodPost, "/api/admin/v1/auth/login", `{"username":"admin"}`, "", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDashboard(t *testing.T) {
	rec := serve(AdminDashboard(stubAdmin{}, nil), newRequest(http.MethodGet, "/api/admin/v1/dashboard", "", "admin", enums.ActorRoleAdmin, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decodeData[admin.Dashboard](t, rec)
	assert.Equal(t, 3, dash.TotalOrders)
	assert.Equal(t, float64(998), dash.TotalRevenue)
}

func newDeliveryService(t *testing.T) delivery.Service {
	t.Helper()
	svc, err := delivery.NewService(kvstore.NewMemoryStore(), kvstore.NewLocalLocker(), latency.None{}, logger.Nop())
	require.NoError(t, err)
	return svc
}

func adminRequest(method, target, body string, params map[string]string) *http.Request {
	return newRequest(method, target, body, "admin", enums.ActorRoleAdmin, params)
}

func TestDeliveryPersonnelCRUD(t *testing.T) {
	svc := newDeliveryService(t)

	rec := serve(DeliveryPersonnelList(svc, nil), adminRequest(http.MethodGet, "/api/admin/v1/delivery-personnel", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]delivery.Person](t, rec), 3)

	rec = serve(DeliveryPersonnelList(svc, nil), adminRequest(http.MethodGet, "/api/admin/v1/delivery-personnel?available=true", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]delivery.Person](t, rec), 2)

	rec = serve(DeliveryPersonCreate(svc, nil), adminRequest(http.MethodPost, "/api/admin/v1/delivery-personnel", `{"name":"Neha Verma","phone":"9123456780"}`, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[delivery.Person](t, rec)
	assert.True(t, created.IsAvailable)
	require.NotEmpty(t, created.ID)

	params := map[string]string{"personId": created.ID}
	rec = serve(DeliveryPersonUpdate(svc, nil), adminRequest(http.MethodPatch, "/api/admin/v1/delivery-personnel/"+created.ID, `{"name":"Neha V."}`, params))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Neha V.", decodeData[delivery.Person](t, rec).Name)

	rec = serve(DeliveryPersonToggle(svc, nil), adminRequest(http.MethodPost, "/api/admin/v1/delivery-personnel/"+created.ID+"/toggle", "", params))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeData[delivery.Person](t, rec).IsAvailable)

	rec = serve(DeliveryPersonDelete(svc, nil), adminRequest(http.MethodDelete, "/api/admin/v1/delivery-personnel/2", "", map[string]string{"personId": "2"}))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(DeliveryPersonnelList(svc, nil), adminRequest(http.MethodGet, "/api/admin/v1/delivery-personnel", "", nil))
	people := decodeData[[]delivery.Person](t, rec)
	assert.Len(t, people, 3)
	for _, p := range people {
		assert.NotEqual(t, "2", p.ID)
	}
}

func TestDeliveryPersonCreateValidatesPhone(t *testing.T) {
	svc := newDeliveryService(t)
	rec := serve(DeliveryPersonCreate(svc, nil), adminRequest(http.MethodPost, "/api/admin/v1/delivery-personnel", `{"name":"Neha","phone":"12"}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliveryPersonToggleUnknown(t *testing.T) {
	svc := newDeliveryService(t)
	rec := serve(DeliveryPersonToggle(svc, nil), adminRequest(http.MethodPost, "/api/admin/v1/delivery-personnel/x/toggle", "", map[string]string{"personId": "x"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
