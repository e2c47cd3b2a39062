package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"
	use_cases "wardflow/internal/application/use-cases"
	"wardflow/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUseCase struct {
	use_cases.UseCaser

	health      entity.HealthStatus
	transition  *entity.CallingTransition
	transErr    error
	gotFrom     lifecycle.Stage
	gotTo       lifecycle.Stage
	gotInput    entity.TransitionInput
	gotDate     time.Time
	latest      *entity.PublishSnapshot
	gotLimit    int
	redelivered *entity.OutboxEntry
	redeliverID int64
	redeliverEr error
}

func (f *fakeUseCase) HealthCheck(context.Context) entity.HealthStatus { return f.health }

func (f *fakeUseCase) ApplyTransition(_ context.Context, _, _ uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (*entity.CallingTransition, error) {
	f.gotFrom, f.gotTo, f.gotInput = from, to, in
	return f.transition, f.transErr
}

func (f *fakeUseCase) CreateMeeting(_ context.Context, tenantID uuid.UUID, title string, date time.Time) (*entity.Meeting, error) {
	f.gotDate = date
	return &entity.Meeting{ID: uuid.Must(uuid.NewV4()), TenantID: tenantID, Title: title, MeetingDate: date, Status: entity.MeetingStatusPlanned}, nil
}

func (f *fakeUseCase) LatestPublished(context.Context, uuid.UUID, uuid.UUID) (*entity.PublishSnapshot, error) {
	return f.latest, nil
}

func (f *fakeUseCase) ListDeliveries(_ context.Context, _ uuid.UUID, limit int) ([]entity.DeliveryDiagnostic, error) {
	f.gotLimit = limit
	return nil, nil
}

func (f *fakeUseCase) Redeliver(_ context.Context, _ uuid.UUID, id int64) (*entity.OutboxEntry, error) {
	f.redeliverID = id
	return f.redelivered, f.redeliverEr
}

func newTestApp(uc use_cases.UseCaser) *fiber.App {
	app := fiber.New()
	h := NewHandler(uc, zap.NewNop().Sugar())
	NewRouter(h, app, &config.Config{}, zap.NewNop().Sugar()).RegisterRouter()
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func tenantPath(tail string) string {
	return "/wardflow/api/v1/tenants/" + uuid.Must(uuid.NewV4()).String() + tail
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy without kafka", func(t *testing.T) {
		app := newTestApp(&fakeUseCase{health: entity.HealthStatus{DBHealthy: true}})
		resp, body := doJSON(t, app, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["status"])
	})
	t.Run("kafka down", func(t *testing.T) {
		app := newTestApp(&fakeUseCase{health: entity.HealthStatus{DBHealthy: true, KafkaEnabled: true, KafkaError: errors.New("no brokers")}})
		resp, body := doJSON(t, app, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, false, body["status"])
	})
}

func TestBadTenantID(t *testing.T) {
	app := newTestApp(&fakeUseCase{})
	resp, body := doJSON(t, app, http.MethodGet, "/wardflow/api/v1/tenants/not-a-uuid/deliveries", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, appers.ErrBadID.StatusDesc, body["message"])
}

func TestApplyTransitionParsesBody(t *testing.T) {
	meeting := uuid.Must(uuid.NewV4())
	uc := &fakeUseCase{transition: &entity.CallingTransition{ID: 7, Stage: lifecycle.StageSustained}}
	app := newTestApp(uc)

	path := tenantPath("/callings/" + uuid.Must(uuid.NewV4()).String() + "/transitions")
	resp, body := doJSON(t, app, http.MethodPost, path, `{"from":"extended","to":"sustained","meetingId":"`+meeting.String()+`"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sustained", body["stage"])
	assert.Equal(t, lifecycle.StageExtended, uc.gotFrom)
	assert.Equal(t, lifecycle.StageSustained, uc.gotTo)
	assert.True(t, uc.gotInput.MeetingID.Valid)
	assert.Equal(t, meeting, uc.gotInput.MeetingID.UUID)
}

func TestApplyTransitionUnknownStage(t *testing.T) {
	app := newTestApp(&fakeUseCase{})
	path := tenantPath("/callings/" + uuid.Must(uuid.NewV4()).String() + "/transitions")
	resp, body := doJSON(t, app, http.MethodPost, path, `{"from":"proposed","to":"called"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation failed", body["error"])
}

func TestApplyTransitionRejectionIsConflict(t *testing.T) {
	app := newTestApp(&fakeUseCase{transErr: appers.ErrStaleStage})
	path := tenantPath("/callings/" + uuid.Must(uuid.NewV4()).String() + "/transitions")
	resp, body := doJSON(t, app, http.MethodPost, path, `{"from":"proposed","to":"extended"}`)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, appers.ErrStaleStage.StatusDesc, body["message"])
}

func TestCreateMeetingParsesDate(t *testing.T) {
	uc := &fakeUseCase{}
	app := newTestApp(uc)

	resp, body := doJSON(t, app, http.MethodPost, tenantPath("/meetings"), `{"title":"Sacrament meeting","meetingDate":"2026-11-01T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Sacrament meeting", body["title"])
	assert.True(t, uc.gotDate.Equal(time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)))

	resp, _ = doJSON(t, app, http.MethodPost, tenantPath("/meetings"), `{"title":"x","meetingDate":"01.11.2026"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLatestSnapshotNotPublished(t *testing.T) {
	app := newTestApp(&fakeUseCase{})
	resp, body := doJSON(t, app, http.MethodGet, tenantPath("/meetings/"+uuid.Must(uuid.NewV4()).String()+"/snapshots/latest"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, appers.ErrSnapshotNotFound.StatusDesc, body["message"])
}

func TestListDeliveriesLimit(t *testing.T) {
	uc := &fakeUseCase{}
	app := newTestApp(uc)

	req := httptest.NewRequest(http.MethodGet, tenantPath("/deliveries?limit=20"), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(raw))
	assert.Equal(t, 20, uc.gotLimit)
}

func TestRedeliver(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		uc := &fakeUseCase{redelivered: &entity.OutboxEntry{ID: 42, Revision: 3, Status: entity.OutboxPending}}
		app := newTestApp(uc)
		resp, body := doJSON(t, app, http.MethodPost, tenantPath("/outbox/42/redeliver"), "")
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, float64(3), body["revision"])
		assert.Equal(t, int64(42), uc.redeliverID)
	})
	t.Run("not terminal", func(t *testing.T) {
		app := newTestApp(&fakeUseCase{redeliverEr: appers.ErrNotRedeliverable})
		resp, _ := doJSON(t, app, http.MethodPost, tenantPath("/outbox/42/redeliver"), "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
	t.Run("bad id", func(t *testing.T) {
		app := newTestApp(&fakeUseCase{})
		resp, _ := doJSON(t, app, http.MethodPost, tenantPath("/outbox/abc/redeliver"), "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
