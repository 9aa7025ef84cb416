package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Moyo-Made/social-shake-backend/internal/applications"
	"github.com/Moyo-Made/social-shake-backend/internal/auth"
	"github.com/Moyo-Made/social-shake-backend/internal/contests"
	"github.com/Moyo-Made/social-shake-backend/internal/creators"
	"github.com/Moyo-Made/social-shake-backend/internal/notifications"
	"github.com/Moyo-Made/social-shake-backend/internal/settlement"
	pkgauth "github.com/Moyo-Made/social-shake-backend/pkg/auth"
	"github.com/Moyo-Made/social-shake-backend/pkg/config"
	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return nil
}

type stubContestsService struct{}

func (stubContestsService) Create(ctx context.Context, input contests.CreateContestInput) (*models.Contest, error) {
	panic("unimplemented")
}

func (stubContestsService) GetByID(ctx context.Context, contestID uuid.UUID) (*contests.ContestDetail, error) {
	return &contests.ContestDetail{}, nil
}

func (stubContestsService) Update(ctx context.Context, input contests.UpdateContestInput) (*models.Contest, error) {
	panic("unimplemented")
}

func (stubContestsService) Transition(ctx context.Context, input contests.TransitionInput) (*models.Contest, error) {
	panic("unimplemented")
}

func (stubContestsService) List(ctx context.Context, params contests.ListParams) (*contests.ListResult, error) {
	return &contests.ListResult{}, nil
}

type stubApplicationsService struct{}

func (stubApplicationsService) Apply(ctx context.Context, input applications.ApplyInput) (*models.ContestApplication, error) {
	panic("unimplemented")
}

func (stubApplicationsService) Review(ctx context.Context, input applications.ReviewInput) (*models.ContestApplication, error) {
	panic("unimplemented")
}

func (stubApplicationsService) ListByContest(ctx context.Context, input applications.ListByContestInput) ([]models.ContestApplication, error) {
	return nil, nil
}

func (stubApplicationsService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.ContestApplication, error) {
	return nil, nil
}

type stubCreatorsService struct{}

func (stubCreatorsService) UpsertProfile(ctx context.Context, userID uuid.UUID, data json.RawMessage) (*models.CreatorProfile, error) {
	panic("unimplemented")
}

func (stubCreatorsService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	return &models.CreatorProfile{}, nil
}

func (stubCreatorsService) ConnectPaymentAccount(ctx context.Context, input creators.ConnectPaymentAccountInput) (*models.CreatorPaymentAccount, error) {
	panic("unimplemented")
}

func (stubCreatorsService) GetPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error) {
	return &models.CreatorPaymentAccount{}, nil
}

func (stubCreatorsService) SetPayoutsEnabled(ctx context.Context, userID uuid.UUID, enabled bool) error {
	return nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any) {
}

type stubSettlementService struct{}

func (stubSettlementService) FinalizeWinners(ctx context.Context, input settlement.FinalizeWinnersInput) (*settlement.FinalizeWinnersResult, error) {
	panic("unimplemented")
}

func (stubSettlementService) ProcessPayouts(ctx context.Context, input settlement.ProcessPayoutsInput) (*settlement.Result, error) {
	panic("unimplemented")
}

func (stubSettlementService) ListPayouts(ctx context.Context, contestID uuid.UUID, actorUserID uuid.UUID, actorRole enums.UserRole) ([]models.Payout, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "social-shake",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil,
		stubAuthService{},
		stubRegisterService{},
		stubContestsService{},
		stubApplicationsService{},
		stubCreatorsService{},
		stubNotificationsService{},
		stubSettlementService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contests", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCreator))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for notifications got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/admin/creators/" + uuid.NewString() + "/payouts-enabled"

	nonAdmin := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"enabled":true}`))
	nonAdmin.Header.Set("Content-Type", "application/json")
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCreator))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"enabled":true}`))
	admin.Header.Set("Content-Type", "application/json")
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestPayoutRoutesRequireIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.UserRoleBrand)

	for _, target := range []string{
		"/api/v1/contests/" + uuid.NewString() + "/finalize-winners",
		"/api/v1/contests/" + uuid.NewString() + "/payouts/process",
	} {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without Idempotency-Key on %s got %d", target, resp.Code)
		}
	}
}

func TestListPayoutsReachableWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contests/"+uuid.NewString()+"/payouts", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for payout listing got %d", resp.Code)
	}
}
