package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"valomarket/internal/adapter/api"
	"valomarket/internal/adapter/api/handler"
	"valomarket/internal/adapter/api/middleware"
	"valomarket/internal/adapter/api/router"
	"valomarket/internal/adapter/repository/memory"
	"valomarket/internal/domain/entity"
	"valomarket/internal/infrastructure/identity"
	"valomarket/internal/infrastructure/lock"
	"valomarket/internal/infrastructure/pricing"
	"valomarket/internal/infrastructure/ratelimit"
	"valomarket/internal/infrastructure/storage"
	"valomarket/internal/infrastructure/websocket"
	"valomarket/internal/usecase"
	"valomarket/pkg/response"
)

type testServer struct {
	e     *echo.Echo
	store *memory.Store
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	provider := identity.NewLocalProvider("test-secret", time.Hour).WithCost(bcrypt.MinCost)
	files := storage.NewMemoryStorage()
	limiter := ratelimit.NewRateLimiter()
	wsManager := websocket.NewManager()

	userUseCase := usecase.NewUserUseCase(store, store.Users(), store.Listings(), nil, 100)
	authUseCase := usecase.NewAuthUseCase(store.Users(), provider, userUseCase)
	listingUseCase := usecase.NewListingUseCase(store, store.Listings(), store.Users(), files, limiter)
	ledgerUseCase := usecase.NewLedgerUseCase(
		store,
		store.Users(),
		store.Deposits(),
		store.Withdrawals(),
		store.Ledger(),
		store.Purchases(),
		files,
		pricing.Default(),
		lock.NewKeyedMutex(),
		decimal.RequireFromString("0.9"),
	)
	chatUseCase := usecase.NewChatUseCase(store.Chats(), store.Users(), wsManager, limiter)

	handler.Setup(authUseCase, userUseCase, listingUseCase, ledgerUseCase, chatUseCase, wsManager, []string{"*"})
	handler.SetupHealthHandler("memory", "local")

	// Shared limiters would throttle the many requests a test issues.
	middleware.AuthLimiter = middleware.NewRateLimiter(1000, time.Minute)
	middleware.PaymentLimiter = middleware.NewRateLimiter(1000, time.Minute)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	router.Setup(e, middleware.NewAuthMiddleware(provider), middleware.NewAdminMiddleware(userUseCase))

	return &testServer{e: e, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers ...string) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

type session struct {
	uid   string
	token string
}

func (s *testServer) register(t *testing.T, username string) session {
	t.Helper()

	code, env := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    username + "@example.com",
		"password": "secret123",
		"username": username,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	var result struct {
		User  entity.User      `json:"user"`
		Token entity.AuthToken `json:"token"`
	}
	decode(t, env, &result)
	return session{uid: result.User.ID, token: result.Token.IDToken}
}

func (s *testServer) registerAdmin(t *testing.T, username string) session {
	t.Helper()
	sess := s.register(t, username)
	require.NoError(t, s.store.Users().SetRole(context.Background(), sess.uid, entity.RoleAdmin))
	return sess
}

func (s *testServer) coins(t *testing.T, sess session) int64 {
	t.Helper()
	code, env := s.do(t, http.MethodGet, "/v1/wallet", sess.token, nil)
	require.Equal(t, http.StatusOK, code)
	var wallet usecase.WalletSummary
	decode(t, env, &wallet)
	return wallet.Coins
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRegisterLoginAndProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")

	code, env := s.do(t, http.MethodGet, "/v1/users/me", alice.token, nil)
	require.Equal(t, http.StatusOK, code)
	var me entity.User
	decode(t, env, &me)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, int64(100), me.Coins)
	assert.Equal(t, entity.RoleUser, me.Role)

	code, env = s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"identifier": "alice",
		"password":   "secret123",
	})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"identifier": "alice@example.com",
		"password":   "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	code, env = s.do(t, http.MethodPatch, "/v1/users/me", alice.token, map[string]string{
		"username": "alice_2",
		"phone":    "0812345678",
	})
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &me)
	assert.Equal(t, "alice_2", me.Username)
	assert.Equal(t, "0812345678", me.Phone)

	code, _ = s.do(t, http.MethodGet, "/v1/users/me/dashboard", alice.token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRegisterRejectsDuplicateAndInvalidInput(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "bob")

	code, env := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "other@example.com",
		"password": "secret123",
		"username": "bob",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "secret123",
		"username": "carol",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Message, "email")

	code, env = s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "carol@example.com",
		"password": "secret123",
		"username": "no spaces!",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "dave")

	code, env := s.do(t, http.MethodGet, "/v1/wallet", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodGet, "/v1/wallet", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(t, http.MethodGet, "/v1/admin/listings/pending", user.token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestListingModerationAndPurchase(t *testing.T) {
	s := newTestServer(t)
	seller := s.register(t, "seller")
	buyer := s.register(t, "buyer")
	admin := s.registerAdmin(t, "admin")

	code, env := s.do(t, http.MethodPost, "/v1/listings", seller.token, map[string]interface{}{
		"rank":           "diamond",
		"skins":          45,
		"price":          800,
		"featured_skins": "Reaver Vandal",
		"contact":        map[string]string{"discord": "seller#0001"},
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var listing entity.Listing
	decode(t, env, &listing)
	assert.Equal(t, entity.ListingStatusPending, listing.Status)

	// Pending listings are hidden from the marketplace and from strangers.
	code, env = s.do(t, http.MethodGet, "/v1/listings", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page response.PaginatedResponse
	decode(t, env, &page)
	assert.Equal(t, int64(0), page.Total)

	code, _ = s.do(t, http.MethodGet, "/v1/listings/"+listing.ID, buyer.token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, "/v1/admin/listings/"+listing.ID+"/approve", admin.token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/v1/admin/listings/"+listing.ID+"/reject", admin.token, map[string]string{"reason": "late"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(t, http.MethodGet, "/v1/listings?rank=diamond", "", nil)
	require.Equal(t, http.StatusOK, code)
	var items struct {
		Items []entity.Listing `json:"items"`
		Total int64            `json:"total"`
	}
	decode(t, env, &items)
	require.Len(t, items.Items, 1)
	assert.Nil(t, items.Items[0].Contact)

	// Not enough coins yet: 100 < 800 + 100.
	code, env = s.do(t, http.MethodPost, "/v1/listings/"+listing.ID+"/purchase", buyer.token, map[string]int64{"insurance": 100})
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
	assert.Equal(t, int64(100), s.coins(t, buyer))

	// A deposit request alone never changes the balance.
	code, env = s.do(t, http.MethodPost, "/v1/wallet/deposits", buyer.token, map[string]interface{}{
		"amount": 1000,
		"method": entity.MethodPromptPay,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var deposit entity.Deposit
	decode(t, env, &deposit)
	assert.Equal(t, int64(100), s.coins(t, buyer))

	code, _ = s.do(t, http.MethodPost, "/v1/admin/deposits/"+deposit.ID+"/approve", admin.token, map[string]string{"notes": "ok"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1100), s.coins(t, buyer))

	code, _ = s.do(t, http.MethodPost, "/v1/admin/deposits/"+deposit.ID+"/approve", admin.token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, int64(1100), s.coins(t, buyer))

	path := "/v1/listings/" + listing.ID + "/purchase"
	code, env = s.do(t, http.MethodPost, path, buyer.token, map[string]int64{"insurance": 100}, handler.IdempotencyKeyHeader, "order-1")
	require.Equal(t, http.StatusCreated, code, env.Error)
	var result usecase.PurchaseResult
	decode(t, env, &result)
	assert.Equal(t, int64(900), result.Purchase.Total)
	assert.Equal(t, int64(200), result.Balance)
	require.NotNil(t, result.Contact)
	assert.Equal(t, "seller#0001", result.Contact.Discord)

	// The same key replays the first result without charging again.
	code, env = s.do(t, http.MethodPost, path, buyer.token, map[string]int64{"insurance": 100}, handler.IdempotencyKeyHeader, "order-1")
	require.Equal(t, http.StatusOK, code, env.Error)
	decode(t, env, &result)
	assert.True(t, result.Replayed)
	assert.Equal(t, int64(200), s.coins(t, buyer))

	code, env = s.do(t, http.MethodGet, "/v1/purchases", buyer.token, nil)
	require.Equal(t, http.StatusOK, code)
	var purchases []entity.Purchase
	decode(t, env, &purchases)
	assert.Len(t, purchases, 1)

	// The buyer now sees the contact; the listing left the marketplace.
	code, env = s.do(t, http.MethodGet, "/v1/listings/"+listing.ID, buyer.token, nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &listing)
	assert.Equal(t, entity.ListingStatusSold, listing.Status)
	require.NotNil(t, listing.Contact)

	code, env = s.do(t, http.MethodGet, "/v1/listings", "", nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &page)
	assert.Equal(t, int64(0), page.Total)
}

func TestWithdrawalFlow(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "erin")
	admin := s.registerAdmin(t, "boss")

	code, env := s.do(t, http.MethodPost, "/v1/wallet/withdrawals", user.token, map[string]interface{}{
		"amount":  150,
		"method":  entity.MethodPromptPay,
		"account": "0812345678",
	})
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/wallet/withdrawals", user.token, map[string]interface{}{
		"amount":  100,
		"method":  entity.MethodPromptPay,
		"account": "0812345678",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var withdrawal entity.Withdrawal
	decode(t, env, &withdrawal)
	assert.Equal(t, "90.00", withdrawal.PayoutAmount)
	assert.Equal(t, int64(100), s.coins(t, user))

	code, _ = s.do(t, http.MethodPost, "/v1/admin/withdrawals/"+withdrawal.ID+"/reject", admin.token, map[string]string{"notes": "wrong account"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(100), s.coins(t, user))

	code, env = s.do(t, http.MethodGet, "/v1/wallet/withdrawals", user.token, nil)
	require.Equal(t, http.StatusOK, code)
	var withdrawals []entity.Withdrawal
	decode(t, env, &withdrawals)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, entity.RequestStatusRejected, withdrawals[0].Status)
}

func TestMembershipPurchase(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "frank")

	code, env := s.do(t, http.MethodPost, "/v1/membership", user.token, map[string]string{"tier": "basic"}, handler.IdempotencyKeyHeader, "m-1")
	require.Equal(t, http.StatusOK, code, env.Error)
	var result usecase.MembershipResult
	decode(t, env, &result)
	assert.Equal(t, "basic", result.Membership.Tier)
	assert.Equal(t, int64(1), result.Balance)

	code, env = s.do(t, http.MethodPost, "/v1/membership", user.token, map[string]string{"tier": "vip"})
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)

	code, env = s.do(t, http.MethodGet, "/v1/wallet/ledger", user.token, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []entity.LedgerEntry `json:"items"`
		Total int64                `json:"total"`
	}
	decode(t, env, &page)
	assert.Equal(t, int64(2), page.Total)
}

func TestSupportChat(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "gina")
	admin := s.registerAdmin(t, "support")

	code, env := s.do(t, http.MethodPost, "/v1/chat/messages", user.token, map[string]string{"message": "hello, my order?"})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = s.do(t, http.MethodGet, "/v1/admin/chats", admin.token, nil)
	require.Equal(t, http.StatusOK, code)
	var conversations []entity.Conversation
	decode(t, env, &conversations)
	require.Len(t, conversations, 1)
	assert.Equal(t, user.uid, conversations[0].UserID)
	assert.Equal(t, 1, conversations[0].UnreadCount)

	code, _ = s.do(t, http.MethodPost, "/v1/admin/chats/"+user.uid+"/messages", admin.token, map[string]string{"message": "on its way"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.do(t, http.MethodPost, "/v1/admin/chats/"+user.uid+"/read", admin.token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/v1/chat/unread", user.token, nil)
	require.Equal(t, http.StatusOK, code)
	var unread map[string]int64
	decode(t, env, &unread)
	assert.Equal(t, int64(1), unread["unread"])

	code, _ = s.do(t, http.MethodPost, "/v1/chat/read", user.token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/v1/chat/messages", user.token, nil)
	require.Equal(t, http.StatusOK, code)
	var messages []entity.ChatMessage
	decode(t, env, &messages)
	require.Len(t, messages, 2)
	assert.False(t, messages[0].IsFromAdmin)
	assert.True(t, messages[1].IsFromAdmin)

	code, env = s.do(t, http.MethodPost, "/v1/chat/messages", user.token, map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestPricingIsPublic(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/v1/pricing", "", nil)
	require.Equal(t, http.StatusOK, code)
	var catalog pricing.Catalog
	decode(t, env, &catalog)
	assert.NotEmpty(t, catalog.Memberships)
	assert.NotEmpty(t, catalog.Insurance)
}
