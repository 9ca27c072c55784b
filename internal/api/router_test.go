package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sensusai/sensus-server/internal/api/handlers"
	apimodels "github.com/sensusai/sensus-server/internal/api/models"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/internal/core/services"
	"github.com/sensusai/sensus-server/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret"
	testAddress = "0x00000000000000000000000000000000000000ab"
)

type stubAuth struct {
	token string
	err   error
}

func (s *stubAuth) Challenge(ctx context.Context, address string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return services.ChallengeMessage(address, "nonce"), nil
}

func (s *stubAuth) Verify(ctx context.Context, address, signature string) (string, error) {
	return s.token, s.err
}

type stubRecordings struct {
	input      ports.CreateRecordingInput
	video      []byte
	recordings []*models.Recording
	err        error
}

func (s *stubRecordings) CreateRecording(ctx context.Context, input ports.CreateRecordingInput) (*models.Recording, *models.RewardResult, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.input = input
	s.video, _ = io.ReadAll(input.Video)
	rec := models.NewRecording(input.UserID, input.Topic, input.Duration)
	reward := models.NewRewardSuccess("3.0", "0xabc")
	rec.ApplyReward(reward)
	return rec, reward, nil
}

func (s *stubRecordings) ListRecordings(ctx context.Context, userID string) ([]*models.Recording, error) {
	return s.recordings, nil
}

func (s *stubRecordings) GetRecording(ctx context.Context, userID string, id uuid.UUID) (*models.Recording, error) {
	for _, r := range s.recordings {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return nil, ports.ErrRecordingNotFound
}

func (s *stubRecordings) Dashboard(ctx context.Context, userID string) (*ports.Dashboard, error) {
	return &ports.Dashboard{Address: userID, Balance: "7.0", Recordings: s.recordings}, nil
}

type stubBalance string

func (b stubBalance) GetTokenBalance(ctx context.Context, address string) string { return string(b) }

func newTestRouter(auth *stubAuth, recordings *stubRecordings) *Router {
	gin.SetMode(gin.TestMode)
	return NewRouter(
		handlers.NewAuthHandler(auth),
		handlers.NewRecordingHandler(recordings, stubBalance("7.0")),
		testSecret,
		"/api",
	)
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := wallet.GenerateToken(testAddress, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter(&stubAuth{}, &stubRecordings{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/topics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var topics []models.TopicCategory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &topics))
	assert.Len(t, topics, 4)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sensus_http_requests_total")
}

func TestRouter_AuthRoutes(t *testing.T) {
	t.Run("challenge", func(t *testing.T) {
		r := newTestRouter(&stubAuth{}, &stubRecordings{})
		w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/auth/challenge?address="+testAddress, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp apimodels.ChallengeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, testAddress)
	})

	t.Run("challenge without address", func(t *testing.T) {
		r := newTestRouter(&stubAuth{}, &stubRecordings{})
		w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/auth/challenge", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("verify", func(t *testing.T) {
		r := newTestRouter(&stubAuth{token: "jwt"}, &stubRecordings{})
		body := `{"address":"` + testAddress + `","signature":"0x01"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")

		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"jwt"}`, w.Body.String())
	})

	t.Run("verify mismatch", func(t *testing.T) {
		r := newTestRouter(&stubAuth{err: services.ErrSignatureMismatch}, &stubRecordings{})
		body := `{"address":"` + testAddress + `","signature":"0x01"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")

		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRouter_RequiresToken(t *testing.T) {
	r := newTestRouter(&stubAuth{}, &stubRecordings{})

	for _, path := range []string{"/api/v1/recordings", "/api/v1/balance", "/api/v1/dashboard"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w = serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func newUploadRequest(t *testing.T, topic, duration string, video []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("topic", topic))
	require.NoError(t, mw.WriteField("duration", duration))
	if video != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="video"; filename="clip.webm"`)
		h.Set("Content-Type", "video/webm")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(video)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recordings", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer(t))
	return req
}

func TestRouter_CreateRecording(t *testing.T) {
	recordings := &stubRecordings{}
	r := newTestRouter(&stubAuth{}, recordings)

	w := serve(r, newUploadRequest(t, "outdoor/Parks", "35", []byte("webm")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp apimodels.CreateRecordingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Reward.Success)
	assert.Equal(t, "3.0", resp.Reward.Amount)
	assert.Equal(t, "outdoor/Parks", resp.Recording.Topic)

	assert.Equal(t, testAddress, recordings.input.UserID)
	assert.Equal(t, int64(35), recordings.input.Duration)
	assert.Equal(t, "video/webm", recordings.input.ContentType)
	assert.Equal(t, []byte("webm"), recordings.video)
}

func TestRouter_CreateRecordingBadInput(t *testing.T) {
	t.Run("duration not a number", func(t *testing.T) {
		r := newTestRouter(&stubAuth{}, &stubRecordings{})
		w := serve(r, newUploadRequest(t, "outdoor/Parks", "abc", []byte("webm")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing video", func(t *testing.T) {
		r := newTestRouter(&stubAuth{}, &stubRecordings{})
		w := serve(r, newUploadRequest(t, "outdoor/Parks", "35", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid topic", func(t *testing.T) {
		r := newTestRouter(&stubAuth{}, &stubRecordings{err: services.ErrInvalidTopic})
		w := serve(r, newUploadRequest(t, "outdoor/Beach", "35", []byte("webm")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_RecordingReads(t *testing.T) {
	rec := models.NewRecording(testAddress, "indoor/Household", 12)
	r := newTestRouter(&stubAuth{}, &stubRecordings{recordings: []*models.Recording{rec}})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearer(t))
		return serve(r, req)
	}

	w := get("/api/v1/recordings")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Recording
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = get("/api/v1/recordings/" + rec.ID.String())
	assert.Equal(t, http.StatusOK, w.Code)

	w = get("/api/v1/recordings/" + uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get("/api/v1/recordings/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get("/api/v1/balance")
	require.Equal(t, http.StatusOK, w.Code)
	var balance apimodels.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, "7.0", balance.Balance)
	assert.Equal(t, testAddress, balance.Address)
	assert.Equal(t, models.TokenSymbol, balance.Symbol)

	w = get("/api/v1/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	var dash ports.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, "7.0", dash.Balance)
	assert.Len(t, dash.Recordings, 1)
}
