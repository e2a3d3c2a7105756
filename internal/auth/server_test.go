package auth

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	authdb "github.com/nao1215/campus/internal/auth/db"
	"github.com/nao1215/campus/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key-for-unit-tests"

// setupTestServer はテスト用の認証サーバーをインメモリSQLiteで構築する。
func setupTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=ON")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	// インメモリDBは接続ごとに独立するため、接続数を1に制限する
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := initSchema(sqlDB); err != nil {
		t.Fatalf("スキーマ初期化に失敗: %v", err)
	}

	router := gin.New()
	s := &Server{
		router:    router,
		port:      "0",
		queries:   authdb.New(sqlDB),
		db:        sqlDB,
		jwtSecret: testSecret,
		tokenTTL:  time.Hour,
	}
	s.setupRoutes()

	return s, router
}

// createTestUser はbcryptハッシュ済みパスワードでユーザーをDBに直接挿入するヘルパー関数。
func createTestUser(t *testing.T, s *Server, email, name, password string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("パスワードハッシュ化に失敗: %v", err)
	}
	err = s.queries.CreateUser(t.Context(), authdb.CreateUserParams{
		Email:    email,
		Name:     name,
		Password: string(hashed),
	})
	if err != nil {
		t.Fatalf("テスト用ユーザーの作成に失敗: %v", err)
	}
}

// doRequest はテスト用のHTTPリクエストを実行し、レスポンスを返すヘルパー関数。
func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseJSON はレスポンスボディをmapにデコードするヘルパー関数。
func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("JSONのデコードに失敗: %v, body=%s", err, w.Body.String())
	}
	return result
}

// TestHealthCheck はヘルスチェックエンドポイントの正常動作を検証する。
func TestHealthCheck(t *testing.T) {
	t.Parallel()

	_, router := setupTestServer(t)

	w := doRequest(router, http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusOK)
	}

	result := parseJSON(t, w)
	if result["service"] != "auth" {
		t.Errorf("service: got %v, want auth", result["service"])
	}
}

// TestHandleSignup はユーザー登録ハンドラのテスト。
func TestHandleSignup(t *testing.T) {
	t.Parallel()

	t.Run("正常にユーザーを登録できる", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)

		body := map[string]string{
			"email":    "new@example.com",
			"name":     "新規ユーザー",
			"password": "secret-password",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/signup", body)

		if w.Code != http.StatusCreated {
			t.Errorf("ステータスコード: got %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
		}

		result := parseJSON(t, w)
		if result["status"] != "registered" {
			t.Errorf("status: got %v, want registered", result["status"])
		}
		if result["email"] != "new@example.com" {
			t.Errorf("email: got %v, want new@example.com", result["email"])
		}

		// パスワードが平文で保存されていないことを確認する
		user, err := s.queries.GetUserByEmail(t.Context(), "new@example.com")
		if err != nil {
			t.Fatalf("登録済みユーザーの取得に失敗: %v", err)
		}
		if user.Password == "secret-password" {
			t.Error("パスワードが平文のまま保存されています")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-password")); err != nil {
			t.Errorf("保存されたハッシュが元のパスワードと一致しません: %v", err)
		}
	})

	t.Run("メールアドレスの形式が不正な場合はBadRequest", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)

		body := map[string]string{
			"email":    "not-an-email",
			"name":     "テスト",
			"password": "password",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/signup", body)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("パスワードが未指定の場合はBadRequest", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)

		body := map[string]string{
			"email": "nopass@example.com",
			"name":  "テスト",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/signup", body)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("登録済みメールアドレスの場合はConflict", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)

		createTestUser(t, s, "taken@example.com", "既存ユーザー", "password")

		body := map[string]string{
			"email":    "taken@example.com",
			"name":     "別ユーザー",
			"password": "another-password",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/signup", body)

		if w.Code != http.StatusConflict {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusConflict)
		}
	})
}

// TestHandleLogin はログインハンドラのテスト。
func TestHandleLogin(t *testing.T) {
	t.Parallel()

	t.Run("正常にログインしてトークンを取得できる", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)

		createTestUser(t, s, "user@example.com", "テストユーザー", "correct-password")

		body := map[string]string{
			"email":    "user@example.com",
			"password": "correct-password",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/login", body)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード: got %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
		}

		result := parseJSON(t, w)
		if result["status"] != "authenticated" {
			t.Errorf("status: got %v, want authenticated", result["status"])
		}
		if result["expires_in"] != float64(3600) {
			t.Errorf("expires_in: got %v, want 3600", result["expires_in"])
		}

		// 発行されたトークンが検証を通り、サブジェクトがメールアドレスであることを確認する
		tokenString, ok := result["token"].(string)
		if !ok || tokenString == "" {
			t.Fatalf("tokenが不正です: %v", result["token"])
		}
		claims, err := token.Verify(testSecret, tokenString)
		if err != nil {
			t.Fatalf("発行されたトークンの検証に失敗: %v", err)
		}
		if claims.Subject != "user@example.com" {
			t.Errorf("sub: got %v, want user@example.com", claims.Subject)
		}
	})

	t.Run("パスワードが間違っている場合はUnauthorized", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)

		createTestUser(t, s, "user@example.com", "テストユーザー", "correct-password")

		body := map[string]string{
			"email":    "user@example.com",
			"password": "wrong-password",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/login", body)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("存在しないユーザーの場合はUnauthorized", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)

		body := map[string]string{
			"email":    "nobody@example.com",
			"password": "password",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/login", body)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("ユーザー不在とパスワード不一致で同じエラーメッセージを返す", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)

		createTestUser(t, s, "user@example.com", "テストユーザー", "correct-password")

		wMissing := doRequest(router, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "password",
		})
		wWrong := doRequest(router, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "user@example.com",
			"password": "wrong-password",
		})

		missing := parseJSON(t, wMissing)
		wrong := parseJSON(t, wWrong)
		if missing["error"] != wrong["error"] {
			t.Errorf("エラーメッセージが一致しません: %v vs %v", missing["error"], wrong["error"])
		}
	})

	t.Run("メールアドレスが未指定の場合はBadRequest", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)

		body := map[string]string{"password": "password"}
		w := doRequest(router, http.MethodPost, "/api/v1/auth/login", body)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
