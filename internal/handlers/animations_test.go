package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arwear-backend/internal/blobstore"
	"arwear-backend/internal/handlers"
	"arwear-backend/internal/media"
	"arwear-backend/internal/middleware"
	"arwear-backend/internal/models"
	"arwear-backend/internal/token"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"
const testAdminToken = "admin-test-token"

type memObject struct {
	data        []byte
	filename    string
	contentType string
}

type memBlobs struct {
	objects map[string]memObject
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string]memObject)}
}

func (b *memBlobs) Store(_ context.Context, r io.Reader, filename, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	id := uuid.New().String()
	b.objects[id] = memObject{data: data, filename: filename, contentType: contentType}
	return id, nil
}

func (b *memBlobs) Fetch(_ context.Context, blobID string) (*blobstore.Object, error) {
	o, ok := b.objects[blobID]
	if !ok {
		return nil, fmt.Errorf("%w: blob %s", models.ErrNotFound, blobID)
	}
	return &blobstore.Object{
		Content:     io.NopCloser(bytes.NewReader(o.data)),
		Filename:    o.filename,
		ContentType: o.contentType,
		Size:        int64(len(o.data)),
	}, nil
}

func (b *memBlobs) Delete(_ context.Context, blobID string) (bool, error) {
	_, ok := b.objects[blobID]
	delete(b.objects, blobID)
	return ok, nil
}

type memCatalog struct {
	animations []models.Animation
	users      map[uuid.UUID]models.User
}

func newMemCatalog() *memCatalog {
	return &memCatalog{users: make(map[uuid.UUID]models.User)}
}

func (c *memCatalog) GetUser(_ context.Context, id uuid.UUID) (models.User, error) {
	u, ok := c.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return u, nil
}

func (c *memCatalog) CreateAnimation(_ context.Context, a models.Animation) (models.Animation, error) {
	if a.PhysicalWidth <= 0 || a.PhysicalHeight <= 0 {
		return models.Animation{}, fmt.Errorf("%w: physical dimensions must be positive", models.ErrValidation)
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Unix(int64(len(c.animations)), 0).UTC()
	c.animations = append(c.animations, a)
	return a, nil
}

func (c *memCatalog) GetAnimation(_ context.Context, id string) (models.Animation, error) {
	animationID, err := uuid.Parse(id)
	if err != nil {
		return models.Animation{}, fmt.Errorf("%w: animation %q", models.ErrNotFound, id)
	}
	for _, a := range c.animations {
		if a.ID == animationID {
			return a, nil
		}
	}
	return models.Animation{}, fmt.Errorf("%w: animation %q", models.ErrNotFound, id)
}

func (c *memCatalog) newestFirst(publicOnly bool) []models.Animation {
	var out []models.Animation
	for i := len(c.animations) - 1; i >= 0; i-- {
		if publicOnly && !c.animations[i].IsPublic {
			continue
		}
		out = append(out, c.animations[i])
	}
	return out
}

func page(all []models.Animation, limit, offset int) []models.Animation {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (c *memCatalog) ListAnimations(_ context.Context, limit, offset int) ([]models.Animation, int, error) {
	all := c.newestFirst(false)
	return page(all, limit, offset), len(all), nil
}

func (c *memCatalog) ListPublicAnimations(_ context.Context, limit, offset int) ([]models.Animation, int, error) {
	all := c.newestFirst(true)
	return page(all, limit, offset), len(all), nil
}

func (c *memCatalog) ListAnimationsByAuthor(_ context.Context, authorID uuid.UUID) ([]models.Animation, error) {
	var out []models.Animation
	for _, a := range c.newestFirst(false) {
		if a.AuthorID == authorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (c *memCatalog) DeleteAnimation(_ context.Context, id uuid.UUID) (models.BlobRefs, bool, error) {
	for i, a := range c.animations {
		if a.ID == id {
			c.animations = append(c.animations[:i], c.animations[i+1:]...)
			return models.BlobRefs{File: a.FileBlobID, Thumbnail: a.ThumbnailBlobID}, true, nil
		}
	}
	return models.BlobRefs{}, false, nil
}

func (c *memCatalog) DeleteAllAnimations(_ context.Context) ([]models.BlobRefs, error) {
	var refs []models.BlobRefs
	for _, a := range c.animations {
		refs = append(refs, models.BlobRefs{File: a.FileBlobID, Thumbnail: a.ThumbnailBlobID})
	}
	c.animations = nil
	return refs, nil
}

func (c *memCatalog) GetUsersByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User)
	for _, id := range ids {
		if u, ok := c.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type testServer struct {
	router *gin.Engine
	blobs  *memBlobs
	cat    *memCatalog
	svc    *media.Service
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	blobs := newMemBlobs()
	cat := newMemCatalog()
	svc := media.New(blobs, cat, nil)

	animationsHandler := handlers.NewAnimationsHandler(svc)
	exploreHandler := handlers.NewExploreHandler(svc)

	requireAuth := middleware.RequireAuth(testSecret, cat)
	optionalAuth := middleware.OptionalAuth(testSecret, cat)
	requireAdmin := middleware.RequireAdmin(testAdminToken)

	router := gin.New()
	animations := router.Group("/animations")
	animations.POST("/", requireAuth, animationsHandler.Create)
	animations.GET("/", animationsHandler.List)
	animations.GET("/:animation_id", animationsHandler.Get)
	animations.GET("/:animation_id/file", optionalAuth, animationsHandler.GetFile)
	animations.DELETE("/:animation_id", requireAuth, animationsHandler.Delete)
	animations.DELETE("/", requireAdmin, animationsHandler.DeleteAll)
	router.GET("/explore/animations", exploreHandler.Animations)

	return &testServer{router: router, blobs: blobs, cat: cat, svc: svc}
}

func (s *testServer) addUser(name string) (uuid.UUID, string) {
	id := uuid.New()
	s.cat.users[id] = models.User{ID: id, Name: name, ImageBase64: "avatar-" + name}
	signed, err := token.Issue(testSecret, id.String())
	if err != nil {
		panic(err)
	}
	return id, signed
}

func uploadBody(t *testing.T, fields map[string]string, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func defaultFields() map[string]string {
	return map[string]string{
		"animation_name":        "Sample Animation",
		"animation_description": "This is a sample animation.",
		"is_public":             "true",
		"physical_width":        "10",
		"physical_height":       "10",
	}
}

func TestCreateAnimation(t *testing.T) {
	ts := newTestServer()
	authorID, bearer := ts.addUser("Alice")

	body, contentType := uploadBody(t, defaultFields(), "giraffe.gif", "image/gif", []byte("gif-bytes"))
	req, _ := http.NewRequest("POST", "/animations/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Sample Animation", got["animationName"])
	assert.Equal(t, "This is a sample animation.", got["animationDescription"])
	assert.Equal(t, true, got["isPublic"])
	assert.Equal(t, float64(10), got["physicalWidth"])
	assert.Equal(t, authorID.String(), got["author_id"])
	assert.NotEmpty(t, got["id"])
	assert.NotEmpty(t, got["animationFileId"])
	assert.NotEmpty(t, got["created_at"])
}

func TestCreateAnimation_Unauthenticated(t *testing.T) {
	ts := newTestServer()

	body, contentType := uploadBody(t, defaultFields(), "f.gif", "image/gif", []byte("x"))
	req, _ := http.NewRequest("POST", "/animations/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAnimation_BadDimensions(t *testing.T) {
	ts := newTestServer()
	_, bearer := ts.addUser("Alice")

	fields := defaultFields()
	fields["physical_width"] = "0"
	body, contentType := uploadBody(t, fields, "f.gif", "image/gif", []byte("x"))
	req, _ := http.NewRequest("POST", "/animations/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnimation_NotFound(t *testing.T) {
	ts := newTestServer()

	for _, id := range []string{"not-a-uuid", uuid.New().String()} {
		req, _ := http.NewRequest("GET", "/animations/"+id, nil)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "id %q", id)
	}
}

func TestGetFile(t *testing.T) {
	ts := newTestServer()
	authorID, _ := ts.addUser("Alice")

	payload := []byte("the-animation-bytes")
	record, err := ts.svc.Upload(context.Background(), media.UploadAttrs{
		Name: "wave", IsPublic: true, PhysicalWidth: 5, PhysicalHeight: 5,
	}, bytes.NewReader(payload), "wave.gif", "image/gif", authorID)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/animations/"+record.ID.String()+"/file", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
	assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=wave.gif`, w.Header().Get("Content-Disposition"))
}

func TestGetFile_PrivateGate(t *testing.T) {
	ts := newTestServer()
	authorID, authorBearer := ts.addUser("Alice")
	_, otherBearer := ts.addUser("Bob")

	record, err := ts.svc.Upload(context.Background(), media.UploadAttrs{
		Name: "hidden", IsPublic: false, PhysicalWidth: 5, PhysicalHeight: 5,
	}, bytes.NewReader([]byte("secret")), "s.gif", "image/gif", authorID)
	require.NoError(t, err)

	url := "/animations/" + record.ID.String() + "/file"

	// Anonymous caller.
	req, _ := http.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Authenticated non-owner.
	req, _ = http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+otherBearer)
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Owner.
	req, _ = http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+authorBearer)
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExploreFeedEnvelope(t *testing.T) {
	ts := newTestServer()
	authorID, _ := ts.addUser("Alice")

	for i := 0; i < 25; i++ {
		_, err := ts.svc.Upload(context.Background(), media.UploadAttrs{
			Name: "wave", IsPublic: true, PhysicalWidth: 5, PhysicalHeight: 5,
		}, bytes.NewReader([]byte("x")), "w.gif", "image/gif", authorID)
		require.NoError(t, err)
	}

	req, _ := http.NewRequest("GET", "/explore/animations?limit=10&offset=20", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.ExploreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Animations, 5)
	assert.Equal(t, 10, got.Pagination.Limit)
	assert.Equal(t, 20, got.Pagination.Offset)
	assert.Equal(t, 25, got.Pagination.TotalCount)
	assert.Equal(t, "Alice", got.Animations[0].AuthorName)
}

func TestDeleteAll_AdminGate(t *testing.T) {
	ts := newTestServer()
	authorID, bearer := ts.addUser("Alice")

	_, err := ts.svc.Upload(context.Background(), media.UploadAttrs{
		Name: "wave", IsPublic: true, PhysicalWidth: 5, PhysicalHeight: 5,
	}, bytes.NewReader([]byte("x")), "w.gif", "image/gif", authorID)
	require.NoError(t, err)

	// An ordinary user token does not pass the admin gate.
	req, _ := http.NewRequest("DELETE", "/animations/", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, _ = http.NewRequest("DELETE", "/animations/", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ts.blobs.objects)
}
