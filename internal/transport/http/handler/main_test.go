package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lapor-fasilitas/internal/core/auth"
	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
	"lapor-fasilitas/internal/service"
	"lapor-fasilitas/internal/transport/http/router"
	"lapor-fasilitas/internal/transport/http/upload"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

// testEnv wires the full engine against in-memory stores, mirroring the
// production composition in cmd/api.
type testEnv struct {
	engine    *gin.Engine
	uploadDir string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	opDB := newTestDB(t, &domain.User{}, &domain.Laporan{})
	sumDB := newTestDB(t, &domain.LaporanSummary{})

	jwter := &auth.JWTer{
		AccessSecret:  []byte("test-access"),
		RefreshSecret: []byte("test-refresh"),
		Issuer:        "lapor-test",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}

	users := repo.NewUserRepo(opDB)
	authSvc := service.NewAuthService(users, jwter)
	laporanSvc := service.NewLaporanService(repo.NewLaporanRepo(opDB), users)
	summarySvc := service.NewSummaryService(repo.NewSummaryRepo(sumDB))

	dir := t.TempDir()
	photos, err := upload.NewStore(dir, 5)
	require.NoError(t, err)

	engine := router.NewAPIEngine(router.Options{
		Logger:    zap.NewNop(),
		JWT:       jwter,
		UploadDir: dir,
		Modules: []router.Module{
			NewAuthHandler(authSvc, false),
			NewLaporanHandler(laporanSvc, photos, nil),
			NewSummaryHandler(summarySvc, nil),
		},
	})
	return &testEnv{engine: engine, uploadDir: dir}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func jsonReq(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func bareReq(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// jsonNumber renders a decoded JSON number as a path segment.
func jsonNumber(v any) string {
	return strconv.FormatInt(int64(v.(float64)), 10)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// registerAndLogin creates a user through the API and returns the access
// token plus the refresh cookie set on login.
func (e *testEnv) registerAndLogin(t *testing.T, nama, email string) (string, *http.Cookie) {
	t.Helper()

	w := e.do(t, jsonReq(t, http.MethodPost, "/register", gin.H{
		"nama":             nama,
		"email":            email,
		"password":         "rahasia123",
		"confirm_password": "rahasia123",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, jsonReq(t, http.MethodPost, "/login", gin.H{
		"email":    email,
		"password": "rahasia123",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)

	var refresh *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "refreshToken" {
			refresh = ck
		}
	}
	require.NotNil(t, refresh)
	return token, refresh
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// multipartReq builds a multipart create-laporan request with an optional
// in-memory file part.
func multipartReq(t *testing.T, path string, fields map[string]string, fileField, fileName, contentType string, fileBody []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
