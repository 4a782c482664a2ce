package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"deposit-guard/config"
	"deposit-guard/database"
	"deposit-guard/mailer"
	"deposit-guard/storage"
)

type stubMailer struct {
	mu   sync.Mutex
	fail bool
	sent []mailer.SendParams
}

func (m *stubMailer) SendReport(p mailer.SendParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("smtp indisponible")
	}
	m.sent = append(m.sent, p)
	return nil
}

func (m *stubMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// newTestApp monte l'application complète sur une base sqlite en mémoire,
// un dossier d'uploads temporaire et un mailer stub.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *stubMailer) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := config.Config{
		JWTSecret: "test-secret",
		UploadDir: t.TempDir(),
		BaseURL:   "http://localhost:3000",
	}
	store, err := storage.New(cfg.UploadDir)
	require.NoError(t, err)
	mail := &stubMailer{}

	app := fiber.New(fiber.Config{BodyLimit: 64 * 1024 * 1024})
	SetupAuthRoutes(app, db, cfg)
	SetupPropertyRoutes(app, db, cfg)
	SetupReportRoutes(app, db, cfg, store, mail)
	SetupLandlordRoutes(app, db)

	return app, db, mail
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeSlice(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	resp := doRequest(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "motdepasse123",
		"phone":    "0600000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func createProperty(t *testing.T, app *fiber.App, token string) uint {
	t.Helper()
	resp := doRequest(t, app, "POST", "/api/properties", token, map[string]interface{}{
		"address":       "12 Main St",
		"city":          "Lyon",
		"postalCode":    "69001",
		"type":          "apartment",
		"landlordName":  "M. Dupont",
		"landlordEmail": "owner@x.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp)
	return uint(body["id"].(float64))
}

func createReport(t *testing.T, app *fiber.App, token string, propertyID uint) (uint, string) {
	t.Helper()
	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/properties/%d/reports", propertyID), token, map[string]interface{}{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp)
	require.Equal(t, "draft", body["status"])
	accessToken, _ := body["accessToken"].(string)
	require.NotEmpty(t, accessToken)
	return uint(body["id"].(float64)), accessToken
}

type testFile struct {
	name        string
	contentType string
	data        []byte
}

func jpegFile(t *testing.T, name string) testFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return testFile{name: name, contentType: "image/jpeg", data: buf.Bytes()}
}

func uploadPhotos(t *testing.T, app *fiber.App, token string, reportID uint, fields map[string]string, files ...testFile) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/reports/%d/photos", reportID), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
