package enrollment

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	enrolldb "github.com/nao1215/campus/internal/enrollment/db"
	"github.com/nao1215/campus/pkg/httpclient"
	"github.com/nao1215/campus/pkg/middleware"
	"github.com/nao1215/campus/pkg/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Server は受講登録サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// coordinator は受講登録の整合性を調整するコーディネーター。
	coordinator *Coordinator
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewServer は新しい受講登録サーバーを生成する。
// 接続先サービスのURLは環境変数 STUDENT_URL / COURSE_URL / TEACHER_URL で指定する。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/enrollment.db?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := migration.Run(sqlDB, migrationFiles, "migrations"); err != nil {
		return nil, fmt.Errorf("マイグレーションに失敗: %w", err)
	}

	checkTimeout := 5 * time.Second
	if v := os.Getenv("CHECK_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("CHECK_TIMEOUT_SECONDS の値が不正です: %q", v)
		}
		checkTimeout = time.Duration(seconds) * time.Second
	}

	coordinator := NewCoordinator(
		enrolldb.New(sqlDB),
		httpclient.New(getEnvOr("STUDENT_URL", "http://student:8081")),
		httpclient.New(getEnvOr("COURSE_URL", "http://course:8082")),
		httpclient.New(getEnvOr("TEACHER_URL", "http://teacher:8083")),
		checkTimeout,
		os.Getenv("ENROLLMENT_REQUIRE_TEACHER") == "true",
	)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:      router,
		port:        port,
		coordinator: coordinator,
		db:          sqlDB,
	}
	s.setupRoutes()

	return s, nil
}

// getEnvOr は環境変数の値を返す。未設定の場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	api := s.router.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	{
		enrollments := api.Group("/enrollments")
		{
			enrollments.POST("", s.handleCreate())
			enrollments.GET("", s.handleList())
			enrollments.GET("/:id", s.handleGetByID())
			enrollments.PUT("/:id", s.handleUpdate())
			enrollments.DELETE("/:id", s.handleDelete())
		}
	}

	// ヘルスチェック（認証ゲートの対象外）
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "enrollment"})
	})
}

// enrollmentCreateRequest は受講登録リクエストのJSON構造。
type enrollmentCreateRequest struct {
	// CourseID は受講する講座のID。
	CourseID string `json:"course_id" binding:"required"`
	// StudentID は受講する学生のID。
	StudentID string `json:"student_id" binding:"required"`
	// TeacherID は担当教員のID。省略可能。
	TeacherID string `json:"teacher_id"`
	// Status は受講登録のステータス。省略時はACTIVE。
	Status string `json:"status"`
}

// enrollmentUpdateRequest は受講登録更新リクエストのJSON構造。
type enrollmentUpdateRequest struct {
	// Status は受講登録のステータス。
	Status string `json:"status" binding:"required"`
	// TeacherID は担当教員のID。省略可能。
	TeacherID string `json:"teacher_id"`
}

// enrollmentResponse は受講登録のJSONレスポンス構造。
type enrollmentResponse struct {
	// ID は受講登録の一意識別子。
	ID string `json:"id"`
	// CourseID は受講する講座のID。
	CourseID string `json:"course_id"`
	// StudentID は受講する学生のID。
	StudentID string `json:"student_id"`
	// TeacherID は担当教員のID。未設定の場合は空文字列。
	TeacherID string `json:"teacher_id"`
	// Status は受講登録のステータス。
	Status string `json:"status"`
	// CreatedAt は登録日時。
	CreatedAt string `json:"created_at"`
}

// toEnrollmentResponse はDB行をJSONレスポンスに変換する。
func toEnrollmentResponse(e enrolldb.Enrollment) enrollmentResponse {
	return enrollmentResponse{
		ID:        e.ID,
		CourseID:  e.CourseID,
		StudentID: e.StudentID,
		TeacherID: e.TeacherID.String,
		Status:    e.Status,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleCreate は受講登録作成を処理するハンドラを返す。
// 呼び出し元のトークンを参照先サービスへの存在確認リクエストに転送する。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req enrollmentCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		ctx := httpclient.WithToken(c.Request.Context(), middleware.GetToken(c))
		created, err := s.coordinator.Create(ctx, req.CourseID, req.StudentID, req.TeacherID, req.Status)
		if err != nil {
			s.writeCoordinatorError(c, err)
			return
		}

		c.JSON(http.StatusCreated, toEnrollmentResponse(created))
	}
}

// handleList は受講登録一覧取得を処理するハンドラを返す。
// クエリパラメータ course_id / student_id / teacher_id で絞り込める。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		enrollments, err := s.coordinator.List(
			c.Request.Context(),
			c.Query("course_id"),
			c.Query("student_id"),
			c.Query("teacher_id"),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "受講登録一覧の取得に失敗しました"})
			log.Printf("受講登録一覧取得エラー: %v", err)
			return
		}

		responses := make([]enrollmentResponse, 0, len(enrollments))
		for _, e := range enrollments {
			responses = append(responses, toEnrollmentResponse(e))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// handleGetByID は受講登録詳細取得を処理するハンドラを返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		enrollment, err := s.coordinator.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.writeCoordinatorError(c, err)
			return
		}

		c.JSON(http.StatusOK, toEnrollmentResponse(enrollment))
	}
}

// handleUpdate は受講登録更新を処理するハンドラを返す。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req enrollmentUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		updated, err := s.coordinator.Update(c.Request.Context(), c.Param("id"), req.Status, req.TeacherID)
		if err != nil {
			s.writeCoordinatorError(c, err)
			return
		}

		c.JSON(http.StatusOK, toEnrollmentResponse(updated))
	}
}

// handleDelete は受講登録削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.coordinator.Delete(c.Request.Context(), c.Param("id")); err != nil {
			s.writeCoordinatorError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "受講登録を削除しました"})
	}
}

// writeCoordinatorError はコーディネーターのエラーをHTTPレスポンスに変換する。
func (s *Server) writeCoordinatorError(c *gin.Context, err error) {
	var refErr *ReferenceNotFoundError
	switch {
	case errors.As(err, &refErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": refErr.Error(), "reference": refErr.Kind})
	case errors.Is(err, ErrTeacherRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrTeacherRequired.Error()})
	case errors.Is(err, ErrDuplicateEnrollment):
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrDuplicateEnrollment.Error()})
	case errors.Is(err, ErrEnrollmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrEnrollmentNotFound.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "受講登録処理に失敗しました"})
		log.Printf("受講登録エラー: %v", err)
	}
}
