package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/data/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	"github.com/yungbote/styleswipe-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/styleswipe-backend/internal/http/handlers"
	httpMW "github.com/yungbote/styleswipe-backend/internal/http/middleware"
	"github.com/yungbote/styleswipe-backend/internal/observability"
	"github.com/yungbote/styleswipe-backend/internal/services"
)

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) (*testAPI, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SQLiteDB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()
	rs := repos.NewSet(db, log)

	swipes := aggregates.NewSwipeAggregate(aggregates.SwipeAggregateDeps{
		Base:     aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewObservabilityHooks(metrics)},
		Profiles: rs.Profiles,
		Items:    rs.Items,
	})
	auth := services.NewAuthService(db, log, metrics, rs.Users, rs.Profiles, rs.Tokens, services.AuthConfig{
		JWTSecretKey: "router-test-secret",
		BcryptCost:   bcrypt.MinCost,
	})
	avatars, err := services.NewAvatarService(log, rs.Users, 64)
	if err != nil {
		t.Fatalf("avatar service: %v", err)
	}
	feed := services.NewFeedService(log, metrics, rs.Users, rs.Profiles, rs.Items, services.DefaultFeedConfig(),
		func() *rand.Rand { return rand.New(rand.NewSource(7)) })

	engine := NewRouter(RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AuthHandler:    httpH.NewAuthHandler(auth),
		AuthMiddleware: httpMW.NewAuthMiddleware(log, auth),
		UserHandler: httpH.NewUserHandlerWithDeps(httpH.UserHandlerDeps{
			Log:         log,
			UserService: services.NewUserService(db, log, rs.Users, rs.Profiles, rs.Items, rs.CartItems, swipes, bcrypt.MinCost),
			Avatars:     avatars,
		}),
		ItemHandler:   httpH.NewItemHandler(feed, services.NewSwipeService(log, metrics, swipes, 2), services.NewItemService(log, rs.Items)),
		CartHandler:   httpH.NewCartHandler(services.NewCartService(db, log, rs.Items, rs.CartItems)),
		HealthHandler: httpH.NewHealthHandler(nil),
	})
	return &testAPI{t: t, engine: engine}, db
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) expect(rec *httptest.ResponseRecorder, status int, out any) {
	a.t.Helper()
	if rec.Code != status {
		a.t.Fatalf("status: got %d want %d body=%s", rec.Code, status, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			a.t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func TestSwipeFlowOverHTTP(t *testing.T) {
	api, _ := newTestAPI(t)

	register := map[string]string{
		"username":        "swiper_1",
		"email":           "Swiper@Example.com",
		"password":        "Sw1pe!right",
		"confirmPassword": "Sw1pe!right",
	}
	var created struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	api.expect(api.do(nethttp.MethodPost, "/api/users/register", register), nethttp.StatusCreated, &created)
	if created.UserID == "" || created.Message != "User registered successfully" {
		t.Fatalf("unexpected register response: %+v", created)
	}

	var dup errorBody
	api.expect(api.do(nethttp.MethodPost, "/api/users/register", register), nethttp.StatusConflict, &dup)
	if dup.Error.Code != "user_exists" {
		t.Fatalf("duplicate register code: %q", dup.Error.Code)
	}

	var unauth errorBody
	api.expect(api.do(nethttp.MethodGet, "/api/items/feed", nil), nethttp.StatusUnauthorized, &unauth)
	if unauth.Error.Message != "Access token is missing" {
		t.Fatalf("unauthenticated message: %q", unauth.Error.Message)
	}

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int    `json:"expiresIn"`
	}
	api.expect(api.do(nethttp.MethodPost, "/api/users/login", map[string]string{
		"identifier": "swiper@example.com",
		"password":   "Sw1pe!right",
	}), nethttp.StatusOK, &tokens)
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.ExpiresIn <= 0 {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
	api.token = tokens.AccessToken

	var empty struct {
		Items         []json.RawMessage `json:"items"`
		TotalReturned int               `json:"totalReturned"`
		Message       string            `json:"message"`
	}
	api.expect(api.do(nethttp.MethodGet, "/api/items/feed", nil), nethttp.StatusOK, &empty)
	if len(empty.Items) != 0 || empty.Message != services.EmptyFeedMessage {
		t.Fatalf("expected empty feed, got %+v", empty)
	}

	var rateErr errorBody
	api.expect(api.do(nethttp.MethodGet, "/api/items/feed?explorationRate=1.5", nil), nethttp.StatusUnprocessableEntity, &rateErr)
	if rateErr.Error.Code != "invalid_exploration_rate" {
		t.Fatalf("rate error code: %q", rateErr.Error.Code)
	}
}

func TestCatalogSwipeCartOverHTTP(t *testing.T) {
	api, db := newTestAPI(t)
	ctx := context.Background()

	api.expect(api.do(nethttp.MethodPost, "/api/users/register", map[string]string{
		"username": "shopper", "email": "shopper@example.com",
		"password": "Sw1pe!right", "confirmPassword": "Sw1pe!right",
	}), nethttp.StatusCreated, nil)
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	api.expect(api.do(nethttp.MethodPost, "/api/users/login", map[string]string{
		"identifier": "shopper", "password": "Sw1pe!right",
	}), nethttp.StatusOK, &tokens)
	api.token = tokens.AccessToken

	item := testutil.SeedItem(t, ctx, db, "Nike", 80)
	itemBody := map[string]string{"itemId": item.ID.String()}

	type swipeResp struct {
		Message         string `json:"message"`
		Changed         bool   `json:"changed"`
		LikedItemsCount int    `json:"likedItemsCount"`
	}
	var liked swipeResp
	api.expect(api.do(nethttp.MethodPost, "/api/items/like", itemBody), nethttp.StatusOK, &liked)
	if !liked.Changed || liked.LikedItemsCount != 1 {
		t.Fatalf("like: %+v", liked)
	}
	var again swipeResp
	api.expect(api.do(nethttp.MethodPost, "/api/items/like", itemBody), nethttp.StatusOK, &again)
	if again.Changed || again.LikedItemsCount != 1 {
		t.Fatalf("repeat like should be a no-op: %+v", again)
	}

	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}
	api.expect(api.do(nethttp.MethodGet, "/api/users/account/liked-items?page=1&limit=10", nil), nethttp.StatusOK, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != item.ID.String() {
		t.Fatalf("liked items: %+v", page)
	}

	api.expect(api.do(nethttp.MethodPost, "/api/items/undo", itemBody), nethttp.StatusOK, nil)
	var notSwiped errorBody
	api.expect(api.do(nethttp.MethodPost, "/api/items/undo", itemBody), nethttp.StatusUnprocessableEntity, &notSwiped)
	if notSwiped.Error.Code != "invariant_violation" || notSwiped.Error.Message != "Item was not swiped" {
		t.Fatalf("undo twice: %+v", notSwiped.Error)
	}

	var badID errorBody
	api.expect(api.do(nethttp.MethodPost, "/api/items/like", map[string]string{"itemId": "nope"}), nethttp.StatusUnprocessableEntity, &badID)
	if badID.Error.Code != "invalid_item_id" {
		t.Fatalf("bad id code: %q", badID.Error.Code)
	}

	var fetched struct {
		ID    string  `json:"id"`
		Brand string  `json:"brand"`
		Price float64 `json:"price"`
	}
	api.expect(api.do(nethttp.MethodGet, "/api/items/"+item.ID.String(), nil), nethttp.StatusOK, &fetched)
	if fetched.Brand != "Nike" || fetched.Price != 80 {
		t.Fatalf("item: %+v", fetched)
	}

	api.expect(api.do(nethttp.MethodPost, "/api/users/account/add-to-cart", map[string]any{
		"itemId": item.ID.String(), "size": "M", "color": "Black", "quantity": 2,
	}), nethttp.StatusCreated, nil)
	var cart struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		TotalQuantity int     `json:"totalQuantity"`
		Subtotal      float64 `json:"subtotal"`
	}
	api.expect(api.do(nethttp.MethodGet, "/api/users/cart", nil), nethttp.StatusOK, &cart)
	if len(cart.Items) != 1 || cart.TotalQuantity != 2 || cart.Subtotal != 160 {
		t.Fatalf("cart: %+v", cart)
	}
	api.expect(api.do(nethttp.MethodDelete, "/api/users/cart", map[string]string{"cartItemId": cart.Items[0].ID}), nethttp.StatusOK, nil)

	rec := api.do(nethttp.MethodGet, "/api/users/me/avatar", nil)
	if rec.Code != nethttp.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("avatar: status=%d type=%q", rec.Code, rec.Header().Get("Content-Type"))
	}

	var rotated struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	api.expect(api.do(nethttp.MethodPost, "/api/users/token", map[string]string{"refreshToken": tokens.RefreshToken}), nethttp.StatusOK, &rotated)
	if rotated.RefreshToken == "" || rotated.RefreshToken == tokens.RefreshToken {
		t.Fatalf("refresh token should rotate")
	}
	api.expect(api.do(nethttp.MethodPost, "/api/users/token", map[string]string{"refreshToken": tokens.RefreshToken}), nethttp.StatusUnauthorized, nil)

	api.token = rotated.AccessToken
	api.expect(api.do(nethttp.MethodPost, "/api/users/logout", map[string]string{"refreshToken": rotated.RefreshToken}), nethttp.StatusOK, nil)
	api.expect(api.do(nethttp.MethodGet, "/api/users/profile", nil), nethttp.StatusUnauthorized, nil)
}

func TestOperationalEndpoints(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := api.do(nethttp.MethodGet, "/healthcheck", nil)
	if rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}

	rec = api.do(nethttp.MethodGet, "/metrics", nil)
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), "styleswipe_api_requests_total") {
		t.Fatalf("metrics exposition missing api counter: %d", rec.Code)
	}

	var bad errorBody
	req := httptest.NewRequest(nethttp.MethodPost, "/api/users/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)
	api.expect(rec, nethttp.StatusBadRequest, &bad)
	if bad.Error.Code != "invalid_request" {
		t.Fatalf("malformed body code: %q", bad.Error.Code)
	}
}
