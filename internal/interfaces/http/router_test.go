package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/stockcount-api/internal/application/analytics"
	"github.com/jhoicas/stockcount-api/internal/application/auth"
	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/masters"
	"github.com/jhoicas/stockcount-api/internal/application/reports"
	"github.com/jhoicas/stockcount-api/internal/application/scanning"
	"github.com/jhoicas/stockcount-api/internal/application/usecase"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/infrastructure/cache"
	"github.com/jhoicas/stockcount-api/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/stockcount-api/internal/interfaces/http"
	"github.com/jhoicas/stockcount-api/internal/testutil/memrepo"
	"github.com/jhoicas/stockcount-api/pkg/refresh"
)

const locMain = "6f1c2a70-8a3e-4c1e-9b1e-1f2d3c4b5a69"

type testServer struct {
	app   *fiber.App
	users *usecase.UserUseCase
	scans *memrepo.Scans
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	base := memrepo.NewBaseParts()
	daily := memrepo.NewDailyParts()
	avg := memrepo.NewAverageCounts()
	scans := memrepo.NewScans()
	locs := memrepo.NewLocations(&entity.Location{ID: locMain, Name: "Bodega 1", IsActive: true})
	userRepo := memrepo.NewUsers()

	dashboard := appanalytics.NewDashboardUseCase(scans, base, cache.NewMemoryMetricsCache(0), nil)
	resolver := masters.NewResolverUseCase(base, daily, avg, 0, nil, nil)
	userUC := usecase.NewUserUseCase(userRepo)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		LocationUC:   usecase.NewLocationUseCase(locs),
		PreferenceUC: usecase.NewPreferenceUseCase(cache.NewMemoryPreferenceStore(), locs),
		UserUC:       userUC,
		ScanUC:       scanning.NewScanUseCase(scans, locs, resolver, dashboard, nil, nil),
		IngestUC:     masters.NewIngestUseCase(base, daily, avg, dashboard, 0, nil, nil),
		DashboardUC:  dashboard,
		ReportUC:     reports.NewReportUseCase(scans, resolver, spreadsheet.NewWriter(), nil, dashboard, reports.Config{}, nil),
		SheetReader:  spreadsheet.NewReader(),
		SyncPolicy:   refresh.DefaultPolicy(),
		JWTSecret:    testJWTSecret,
	})
	return &testServer{app: app, users: userUC, scans: scans}
}

func (s *testServer) do(t *testing.T, method, path, auth string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) doJSON(t *testing.T, method, path, auth string, payload any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(t, method, path, auth, bytes.NewReader(raw), fiber.MIMEApplicationJSON)
}

func csvUpload(t *testing.T, filename, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestRouter_LoginDevuelveToken(t *testing.T) {
	s := newTestServer(t)
	_, err := s.users.CreateSystemUser(context.Background(), dto.CreateUserRequest{Username: "Ana", Password: "secreta1", Role: "ADMIN"})
	require.NoError(t, err)

	resp := s.doJSON(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "secreta1"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ADMIN", out.User.Role)

	bad := s.doJSON(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "otra-clave"})
	defer bad.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)
}

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/scans", "", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_GuardarConteoYDuplicado(t *testing.T) {
	s := newTestServer(t)
	user := tokenFor(t, testUserID, "juan", "USER")
	req := map[string]any{"part_number": "p-77", "physical_qty": 3, "location_id": locMain}

	resp := s.doJSON(t, http.MethodPost, "/api/scans", user, req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saved dto.ScanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, "P-77", saved.PartNumber)
	assert.Equal(t, "juan", saved.ScannedBy)

	dup := s.doJSON(t, http.MethodPost, "/api/scans", user, req)
	defer dup.Body.Close()
	require.Equal(t, http.StatusConflict, dup.StatusCode)
	var conflict dto.DuplicateScanResponse
	require.NoError(t, json.NewDecoder(dup.Body).Decode(&conflict))
	assert.Equal(t, "DUPLICATE_SCAN", conflict.Code)
	require.NotNil(t, conflict.Existing)
	assert.Equal(t, saved.ID, conflict.Existing.ID)
	assert.Equal(t, 1, s.scans.Len())
}

func TestRouter_BorrarTodoRequiereAdminYConfirmacion(t *testing.T) {
	s := newTestServer(t)

	asUser := s.do(t, http.MethodDelete, "/api/scans?confirm=true", tokenForRole(t, "USER"), nil, "")
	defer asUser.Body.Close()
	assert.Equal(t, http.StatusForbidden, asUser.StatusCode)

	admin := tokenForRole(t, "ADMIN")
	noConfirm := s.do(t, http.MethodDelete, "/api/scans", admin, nil, "")
	defer noConfirm.Body.Close()
	assert.Equal(t, http.StatusPreconditionRequired, noConfirm.StatusCode)

	ok := s.do(t, http.MethodDelete, "/api/scans?confirm=true", admin, nil, "")
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
}

func TestRouter_CargaBaseUnaSolaVez(t *testing.T) {
	s := newTestServer(t)
	admin := tokenForRole(t, "ADMIN")
	content := "SR,PART,X,DESC,CAT,BIN,PRICE,H,I,J,K,STOCK\n1,P1,x,Filtro,CAT-A,A-01,50,,,,,10\n"

	body, ct := csvUpload(t, "base.csv", content)
	resp := s.do(t, http.MethodPost, "/api/masters/base/upload", admin, body, ct)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.IngestSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, dto.IngestSuccess, summary.Status)

	body, ct = csvUpload(t, "base.csv", content)
	again := s.do(t, http.MethodPost, "/api/masters/base/upload", admin, body, ct)
	defer again.Body.Close()
	assert.Equal(t, http.StatusConflict, again.StatusCode)

	status := s.do(t, http.MethodGet, "/api/masters/base/status", admin, nil, "")
	defer status.Body.Close()
	var st dto.BaseStatusResponse
	require.NoError(t, json.NewDecoder(status.Body).Decode(&st))
	assert.True(t, st.Locked)
}

func TestRouter_CargaFormatoNoSoportado(t *testing.T) {
	s := newTestServer(t)
	body, ct := csvUpload(t, "base.txt", "a,b\n")
	resp := s.do(t, http.MethodPost, "/api/masters/base/upload", tokenForRole(t, "ADMIN"), body, ct)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_IDMalformadoNoEsFallaDeAlmacenamiento(t *testing.T) {
	s := newTestServer(t)
	user := tokenForRole(t, "USER")

	bad := s.doJSON(t, http.MethodPost, "/api/scans", user, map[string]any{"part_number": "Q2", "physical_qty": 1, "location_id": "x"})
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	del := s.do(t, http.MethodDelete, "/api/scans/abc", user, nil, "")
	defer del.Body.Close()
	assert.Equal(t, http.StatusNotFound, del.StatusCode)
}

func TestRouter_ReportesYExportacion(t *testing.T) {
	s := newTestServer(t)
	user := tokenForRole(t, "USER")

	unknown := s.do(t, http.MethodGet, "/api/reports/bogus", user, nil, "")
	defer unknown.Body.Close()
	assert.Equal(t, http.StatusBadRequest, unknown.StatusCode)

	saved := s.doJSON(t, http.MethodPost, "/api/scans", user, map[string]any{"part_number": "Q1", "physical_qty": 2, "location_id": locMain})
	defer saved.Body.Close()
	require.Equal(t, http.StatusCreated, saved.StatusCode)

	export := s.do(t, http.MethodGet, "/api/final-sheet/export", user, nil, "")
	defer export.Body.Close()
	require.Equal(t, http.StatusOK, export.StatusCode)
	assert.True(t, strings.Contains(export.Header.Get(fiber.HeaderContentDisposition), "FINAL_AUDIT_REPORT_"))
	raw, _ := io.ReadAll(export.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "xlsx es un zip")

	sheet := s.do(t, http.MethodGet, "/api/final-sheet?q=q1", user, nil, "")
	defer sheet.Body.Close()
	assert.Equal(t, http.StatusOK, sheet.StatusCode)
}

func TestRouter_PoliticaDeSincronizacion(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/sync/policy", tokenForRole(t, "USER"), nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SyncPolicyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 5.0, out.IntervalSeconds)
}

func TestRouter_UsuarioNoCreaCuentasPrivilegiadas(t *testing.T) {
	s := newTestServer(t)
	req := dto.CreateUserRequest{Username: "nuevo", Password: "secreta1", Role: "ADMIN"}

	resp := s.doJSON(t, http.MethodPost, "/api/users", tokenForRole(t, "ADMIN"), req)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ok := s.doJSON(t, http.MethodPost, "/api/users", tokenForRole(t, "SUPER_ADMIN"), req)
	defer ok.Body.Close()
	assert.Equal(t, http.StatusCreated, ok.StatusCode)

	dup := s.doJSON(t, http.MethodPost, "/api/users", tokenForRole(t, "SUPER_ADMIN"), req)
	defer dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
}
