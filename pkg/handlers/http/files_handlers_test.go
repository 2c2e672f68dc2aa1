package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/files/mocks"
	"github.com/NeuralTrust/MetaGuard/pkg/app/quota"
	"github.com/NeuralTrust/MetaGuard/pkg/domain"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/analysis"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/httpx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testMaxSize = 10 << 20

func sampleResult() *metadata.Result {
	return &metadata.Result{
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Fields: []metadata.Field{
			metadata.NewField("GPSLatitude", "41.3", metadata.Assessment{
				RiskLevel: metadata.RiskHigh, Category: metadata.CategoryLocation, RiskScore: 9.5,
			}),
		},
		Verdict: metadata.Verdict{
			OverallRisk: metadata.RiskHigh,
			TotalScore:  9.5,
			RiskCounts:  map[metadata.RiskLevel]int{metadata.RiskHigh: 1, metadata.RiskMedium: 0, metadata.RiskLow: 0},
		},
		TotalCount:     1,
		PrivacyCount:   1,
		RemainingCount: 0,
		RemovedCount:   1,
		StrippedTags:   []string{"GPSLatitude"},
		Integrity:      metadata.IntegrityProof{HashBefore: "aaa", Changed: true},
	}
}

func sampleClean() *metadata.CleanResult {
	res := sampleResult()
	res.Integrity = metadata.NewIntegrityProof("aaa", "bbb")
	return &metadata.CleanResult{
		Result:      *res,
		CleanedName: "cleaned_photo.jpg",
		Redacted:    []byte("done"),
	}
}

func TestGuestAnalyzeHandler(t *testing.T) {
	svc := new(mocks.GuestService)
	app := newApp(uuid.Nil)
	app.Post("/analyze", NewGuestAnalyzeHandler(testLogger(), svc, testMaxSize).Handle)

	t.Run("ok", func(t *testing.T) {
		svc.On("Analyze", mock.Anything, "guest-1", mock.Anything).
			Return(sampleResult(), &quota.Usage{Used: 1, Limit: 1, ResetsIn: 90 * time.Minute}, nil).Once()

		resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "High", body["overall_risk"])
		assert.Equal(t, 9.5, body["total_risk_score"])
		assert.Equal(t, true, body["hash_changed"])
		assert.Equal(t, map[string]interface{}{"total": 1.0, "privacy": 1.0}, body["before"])
		assert.Equal(t, map[string]interface{}{"remaining": 0.0, "removed": 1.0}, body["after"])
		assert.NotContains(t, body, "id")

		fields := body["metadata"].([]interface{})
		require.Len(t, fields, 1)
		field := fields[0].(map[string]interface{})
		assert.Equal(t, "GPSLatitude", field["field"])
		assert.Equal(t, "Location", field["category"])

		guest := body["guest"].(map[string]interface{})
		assert.Equal(t, 5400.0, guest["resets_in_seconds"])
	})

	t.Run("no file", func(t *testing.T) {
		resp, err := app.Test(multipartRequest(t, "/analyze", map[string]string{"x": "y"}, "", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "No file uploaded", decodeBody(t, resp)["error"])
	})

	t.Run("limit reached", func(t *testing.T) {
		svc.On("Analyze", mock.Anything, "guest-1", mock.Anything).
			Return(nil, &quota.Usage{Used: 2, Limit: 1, ResetsIn: time.Hour}, quota.ErrGuestLimitReached).Once()

		resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "3600", resp.Header.Get("Retry-After"))
		assert.Equal(t, 3600.0, decodeBody(t, resp)["retry_after"])
	})

	t.Run("file too large", func(t *testing.T) {
		svc.On("Analyze", mock.Anything, "guest-1", mock.Anything).
			Return(nil, nil, fmt.Errorf("%w: too big", metadata.ErrFileTooLarge)).Once()

		resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	t.Run("timeout", func(t *testing.T) {
		svc.On("Analyze", mock.Anything, "guest-1", mock.Anything).
			Return(nil, nil, context.DeadlineExceeded).Once()

		resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	})

	t.Run("metadata tool unavailable", func(t *testing.T) {
		svc.On("Analyze", mock.Anything, "guest-1", mock.Anything).
			Return(nil, nil, fmt.Errorf("%w: %w", metadata.ErrToolUnavailable, exec.ErrNotFound)).Once()

		resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "Metadata tool unavailable", decodeBody(t, resp)["error"])
	})

	t.Run("breaker open", func(t *testing.T) {
		svc.On("Analyze", mock.Anything, "guest-1", mock.Anything).
			Return(nil, nil, fmt.Errorf("%w: %w", metadata.ErrToolUnavailable, httpx.ErrBreakerOpen)).Once()

		resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("pipeline failure", func(t *testing.T) {
		svc.On("Analyze", mock.Anything, "guest-1", mock.Anything).
			Return(nil, nil, fmt.Errorf("%w: boom", metadata.ErrRedaction)).Once()

		resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	svc.AssertExpectations(t)
}

func TestGuestAnalyzeHandler_OversizedPartRejectedBeforeService(t *testing.T) {
	svc := new(mocks.GuestService)
	app := newApp(uuid.Nil)
	app.Post("/analyze", NewGuestAnalyzeHandler(testLogger(), svc, 2).Handle)

	resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuestCleanHandler(t *testing.T) {
	svc := new(mocks.GuestService)
	svc.On("Clean", mock.Anything, "guest-1", mock.Anything).
		Return(sampleClean(), &quota.Usage{Used: 1, Limit: 1}, nil)
	app := newApp(uuid.Nil)
	app.Post("/clean", NewGuestCleanHandler(testLogger(), svc, testMaxSize).Handle)

	resp, err := app.Test(multipartRequest(t, "/clean", nil, "photo.jpg", []byte("jpeg")), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=cleaned_photo.jpg`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "true", resp.Header.Get(HeaderMetadataCleaned))
	assert.Equal(t, "true", resp.Header.Get(HeaderHashChanged))
	assert.Equal(t, "aaa", resp.Header.Get(HeaderSHA256Before))
	assert.Equal(t, "bbb", resp.Header.Get(HeaderSHA256After))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "done", string(data))
}

func TestUserAnalyzeHandler(t *testing.T) {
	userID := uuid.New()
	res := sampleResult()
	record := analysis.NewFromResult(userID, res)
	record.ScannedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	svc := new(mocks.UserService)
	svc.On("Analyze", mock.Anything, userID, mock.Anything).Return(record, res, nil)
	app := newApp(userID)
	app.Post("/analyze", NewUserAnalyzeHandler(testLogger(), svc, testMaxSize).Handle)

	resp, err := app.Test(multipartRequest(t, "/analyze", nil, "photo.jpg", []byte("jpeg")), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, record.ID.String(), body["id"])
	assert.Equal(t, "photo.jpg", body["file_name"])
	assert.Equal(t, "aaa", body["sha256_before"])
	assert.Equal(t, "2026-01-02T03:04:05Z", body["scanned_at"])
	assert.NotContains(t, body, "guest")
}

func TestUserCleanHandler(t *testing.T) {
	userID := uuid.New()
	fileID := uuid.New()
	svc := new(mocks.UserService)
	app := newApp(userID)
	app.Post("/clean", NewUserCleanHandler(testLogger(), svc, testMaxSize).Handle)

	t.Run("bad file id", func(t *testing.T) {
		resp, err := app.Test(multipartRequest(t, "/clean", map[string]string{"file_id": "nope"}, "photo.jpg", []byte("x")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not owned", func(t *testing.T) {
		svc.On("Clean", mock.Anything, userID, fileID, mock.Anything).
			Return(nil, domain.NewNotFoundError("file analysis", fileID)).Once()

		resp, err := app.Test(multipartRequest(t, "/clean", map[string]string{"file_id": fileID.String()}, "photo.jpg", []byte("x")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("ok", func(t *testing.T) {
		svc.On("Clean", mock.Anything, userID, fileID, mock.Anything).Return(sampleClean(), nil).Once()

		resp, err := app.Test(multipartRequest(t, "/clean", map[string]string{"file_id": fileID.String()}, "photo.jpg", []byte("x")), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "bbb", resp.Header.Get(HeaderSHA256After))
	})

	svc.AssertExpectations(t)
}

func TestHistoryHandler(t *testing.T) {
	userID := uuid.New()
	svc := new(mocks.UserService)
	app := newApp(userID)
	app.Get("/history", NewHistoryHandler(testLogger(), svc).Handle)

	t.Run("defaults", func(t *testing.T) {
		svc.On("History", mock.Anything, userID, defaultHistoryLimit, 0).Return(nil, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/history", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []interface{}{}, decodeBody(t, resp)["files"])
	})

	t.Run("limit capped", func(t *testing.T) {
		svc.On("History", mock.Anything, userID, maxHistoryLimit, 10).
			Return([]analysis.FileAnalysis{{ID: uuid.New(), FileName: "a.pdf"}}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/history?limit=1000&offset=10", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		files := decodeBody(t, resp)["files"].([]interface{})
		assert.Len(t, files, 1)
	})

	t.Run("negative offset", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/history?offset=-1", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	svc.AssertExpectations(t)
}

func TestDeleteHistoryHandler(t *testing.T) {
	userID := uuid.New()
	fileID := uuid.New()
	svc := new(mocks.UserService)
	app := newApp(userID)
	app.Delete("/history/:id", NewDeleteHistoryHandler(testLogger(), svc).Handle)

	svc.On("DeleteAnalysis", mock.Anything, userID, fileID).Return(nil).Once()
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/history/"+fileID.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	svc.On("DeleteAnalysis", mock.Anything, userID, fileID).Return(domain.NewNotFoundError("file analysis", fileID)).Once()
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/history/"+fileID.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/history/not-a-uuid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPolicyHandlers(t *testing.T) {
	userID := uuid.New()
	stored := policy.NewUserPolicy(userID)
	svc := new(mocks.UserService)
	app := newApp(userID)
	app.Get("/policy", NewGetPolicyHandler(testLogger(), svc).Handle)
	app.Put("/policy", NewUpdatePolicyHandler(testLogger(), svc).Handle)

	t.Run("get", func(t *testing.T) {
		svc.On("GetPolicy", mock.Anything, userID).Return(stored, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/policy", nil), -1)
		require.NoError(t, err)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["remove_location"])
		assert.Equal(t, false, body["remove_software"])
	})

	t.Run("partial update", func(t *testing.T) {
		yes := true
		updated := *stored
		updated.RemoveSoftware = true
		svc.On("UpdatePolicy", mock.Anything, userID, policy.Patch{RemoveSoftware: &yes}).Return(&updated, nil).Once()

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/policy", map[string]bool{"remove_software": true}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Policy updated successfully", body["message"])
		assert.Equal(t, true, body["remove_software"])
		assert.Equal(t, true, body["remove_device"])
	})

	t.Run("invalid value", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/policy", map[string]string{"remove_device": "yes"}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	svc.AssertExpectations(t)
}
