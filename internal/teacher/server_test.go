package teacher

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	teacherdb "github.com/nao1215/campus/internal/teacher/db"
	"github.com/nao1215/campus/pkg/middleware"
	"github.com/nao1215/campus/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key-for-unit-tests"

// setupTestServer はテスト用の教員サーバーをインメモリSQLiteで構築する。
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
		router:  router,
		port:    "0",
		queries: teacherdb.New(sqlDB),
		db:      sqlDB,
	}

	api := router.Group("/api/v1")
	api.Use(middleware.JWTAuth(testSecret))
	{
		teachers := api.Group("/teachers")
		{
			teachers.POST("", s.handleCreate())
			teachers.GET("", s.handleList())
			teachers.GET("/:id", s.handleGetByID())
			teachers.PUT("/:id", s.handleUpdate())
			teachers.DELETE("/:id", s.handleDelete())
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "teacher"})
	})

	return s, router
}

// issueTestToken はテスト用のJWTトークンを発行するヘルパー関数。
func issueTestToken(t *testing.T) string {
	t.Helper()
	tok, err := token.Issue(testSecret, "tester@example.com", time.Hour)
	if err != nil {
		t.Fatalf("テスト用トークンの発行に失敗: %v", err)
	}
	return tok
}

// createTestTeacher はテスト用に教員をDBに直接挿入するヘルパー関数。
func createTestTeacher(t *testing.T, s *Server, id, name, code string) {
	t.Helper()
	err := s.queries.CreateTeacher(
		t.Context(),
		teacherdb.CreateTeacherParams{
			ID:          id,
			Name:        name,
			TeacherCode: code,
		},
	)
	if err != nil {
		t.Fatalf("テスト用教員の作成に失敗: %v", err)
	}
}

// doRequest はテスト用のHTTPリクエストを実行し、レスポンスを返すヘルパー関数。
func doRequest(router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

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

	w := doRequest(router, http.MethodGet, "/health", "", nil)

	if w.Code != http.StatusOK {
		t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusOK)
	}

	result := parseJSON(t, w)
	if result["service"] != "teacher" {
		t.Errorf("service: got %v, want teacher", result["service"])
	}
}

// TestAuthRequired はAPIルートがトークンなしで拒否されることを検証する。
func TestAuthRequired(t *testing.T) {
	t.Parallel()

	_, router := setupTestServer(t)

	w := doRequest(router, http.MethodGet, "/api/v1/teachers", "", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// TestHandleCreateTeacher は教員登録ハンドラのテスト。
func TestHandleCreateTeacher(t *testing.T) {
	t.Parallel()

	t.Run("正常に教員を登録できる", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)
		tok := issueTestToken(t)

		body := map[string]any{
			"name":         "佐藤花子",
			"teacher_code": "T-1001",
			"department":   "情報工学科",
			"email":        "hanako@example.com",
		}
		w := doRequest(router, http.MethodPost, "/api/v1/teachers", tok, body)

		if w.Code != http.StatusCreated {
			t.Errorf("ステータスコード: got %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
		}

		result := parseJSON(t, w)
		if result["name"] != "佐藤花子" {
			t.Errorf("name: got %v, want 佐藤花子", result["name"])
		}
		if result["teacher_code"] != "T-1001" {
			t.Errorf("teacher_code: got %v, want T-1001", result["teacher_code"])
		}
		if result["id"] == nil || result["id"] == "" {
			t.Error("idが空です")
		}
	})

	t.Run("教員コードが未指定の場合はBadRequest", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)
		tok := issueTestToken(t)

		body := map[string]any{"name": "コードなし"}
		w := doRequest(router, http.MethodPost, "/api/v1/teachers", tok, body)

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestHandleGetTeacher は教員詳細取得ハンドラのテスト。
func TestHandleGetTeacher(t *testing.T) {
	t.Parallel()

	t.Run("正常に教員を取得できる", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)
		tok := issueTestToken(t)

		createTestTeacher(t, s, "teacher-1", "テスト教員", "T-2001")

		w := doRequest(router, http.MethodGet, "/api/v1/teachers/teacher-1", tok, nil)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusOK)
		}

		result := parseJSON(t, w)
		if result["id"] != "teacher-1" {
			t.Errorf("id: got %v, want teacher-1", result["id"])
		}
	})

	t.Run("存在しない教員の場合はNotFound", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)
		tok := issueTestToken(t)

		w := doRequest(router, http.MethodGet, "/api/v1/teachers/nonexistent", tok, nil)

		if w.Code != http.StatusNotFound {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestHandleUpdateTeacher は教員更新ハンドラのテスト。
func TestHandleUpdateTeacher(t *testing.T) {
	t.Parallel()

	t.Run("正常に教員を更新できる", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)
		tok := issueTestToken(t)

		createTestTeacher(t, s, "teacher-1", "元の名前", "T-3001")

		body := map[string]any{
			"name":         "新しい名前",
			"teacher_code": "T-3001",
			"department":   "数学科",
		}
		w := doRequest(router, http.MethodPut, "/api/v1/teachers/teacher-1", tok, body)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード: got %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
		}

		result := parseJSON(t, w)
		if result["name"] != "新しい名前" {
			t.Errorf("name: got %v, want 新しい名前", result["name"])
		}
		if result["department"] != "数学科" {
			t.Errorf("department: got %v, want 数学科", result["department"])
		}
	})

	t.Run("存在しない教員の更新はNotFound", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)
		tok := issueTestToken(t)

		body := map[string]any{"name": "テスト", "teacher_code": "T-0"}
		w := doRequest(router, http.MethodPut, "/api/v1/teachers/nonexistent", tok, body)

		if w.Code != http.StatusNotFound {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestHandleDeleteTeacher は教員削除ハンドラのテスト。
func TestHandleDeleteTeacher(t *testing.T) {
	t.Parallel()

	t.Run("正常に教員を削除できる", func(t *testing.T) {
		t.Parallel()
		s, router := setupTestServer(t)
		tok := issueTestToken(t)

		createTestTeacher(t, s, "teacher-1", "削除対象", "T-4001")

		w := doRequest(router, http.MethodDelete, "/api/v1/teachers/teacher-1", tok, nil)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusOK)
		}

		// 削除後に取得するとNotFoundになることを確認する
		w2 := doRequest(router, http.MethodGet, "/api/v1/teachers/teacher-1", tok, nil)
		if w2.Code != http.StatusNotFound {
			t.Errorf("削除後のステータスコード: got %d, want %d", w2.Code, http.StatusNotFound)
		}
	})

	t.Run("存在しない教員を削除するとNotFound", func(t *testing.T) {
		t.Parallel()
		_, router := setupTestServer(t)
		tok := issueTestToken(t)

		w := doRequest(router, http.MethodDelete, "/api/v1/teachers/nonexistent", tok, nil)

		if w.Code != http.StatusNotFound {
			t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
