package course

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	coursedb "github.com/nao1215/campus/internal/course/db"
	"github.com/nao1215/campus/pkg/middleware"
)

// Server は講座サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *coursedb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewServer は新しい講座サーバーを生成する。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/course.db?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:  router,
		port:    port,
		queries: coursedb.New(sqlDB),
		db:      sqlDB,
	}
	s.setupRoutes()

	return s, nil
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
		courses := api.Group("/courses")
		{
			courses.POST("", s.handleCreate())
			courses.GET("", s.handleList())
			// 講座詳細取得。enrollmentサービスの存在確認にも使用される
			courses.GET("/:id", s.handleGetByID())
			courses.PUT("/:id", s.handleUpdate())
			courses.DELETE("/:id", s.handleDelete())
		}
	}

	// ヘルスチェック（認証ゲートの対象外）
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "course"})
	})
}

// courseRequest は講座の登録・更新リクエストのJSON構造。
type courseRequest struct {
	// Name は講座名。
	Name string `json:"name" binding:"required"`
	// Credits は単位数。
	Credits int64 `json:"credits"`
	// Description は講座の説明。
	Description string `json:"description"`
}

// courseResponse は講座のJSONレスポンス構造。
type courseResponse struct {
	// ID は講座の一意識別子。
	ID string `json:"id"`
	// Name は講座名。
	Name string `json:"name"`
	// Credits は単位数。
	Credits int64 `json:"credits"`
	// Description は講座の説明。
	Description string `json:"description"`
	// CreatedAt は登録日時。
	CreatedAt string `json:"created_at"`
	// UpdatedAt は更新日時。
	UpdatedAt string `json:"updated_at"`
}

// toCourseResponse はDB行をJSONレスポンスに変換する。
func toCourseResponse(co coursedb.Course) courseResponse {
	return courseResponse{
		ID:          co.ID,
		Name:        co.Name,
		Credits:     co.Credits,
		Description: co.Description,
		CreatedAt:   co.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   co.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleCreate は講座登録を処理するハンドラを返す。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req courseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		courseID := uuid.New().String()
		if err := s.queries.CreateCourse(c.Request.Context(), coursedb.CreateCourseParams{
			ID:          courseID,
			Name:        req.Name,
			Credits:     req.Credits,
			Description: req.Description,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "講座の登録に失敗しました"})
			log.Printf("講座登録エラー: %v", err)
			return
		}

		created, err := s.queries.GetCourseByID(c.Request.Context(), courseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登録した講座の取得に失敗しました"})
			log.Printf("講座取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, toCourseResponse(created))
	}
}

// handleList は講座一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		courses, err := s.queries.ListCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "講座一覧の取得に失敗しました"})
			log.Printf("講座一覧取得エラー: %v", err)
			return
		}

		responses := make([]courseResponse, 0, len(courses))
		for _, co := range courses {
			responses = append(responses, toCourseResponse(co))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// handleGetByID は講座詳細取得を処理するハンドラを返す。
// 2xxを返すことが「講座が存在する」ことの保証になる。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Param("id")
		co, err := s.queries.GetCourseByID(c.Request.Context(), courseID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "講座が見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "講座の取得に失敗しました"})
			log.Printf("講座取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toCourseResponse(co))
	}
}

// handleUpdate は講座更新を処理するハンドラを返す。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Param("id")

		if _, err := s.queries.GetCourseByID(c.Request.Context(), courseID); err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "講座が見つかりません"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "講座の取得に失敗しました"})
			log.Printf("講座取得エラー: %v", err)
			return
		}

		var req courseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		if err := s.queries.UpdateCourse(c.Request.Context(), coursedb.UpdateCourseParams{
			Name:        req.Name,
			Credits:     req.Credits,
			Description: req.Description,
			ID:          courseID,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "講座の更新に失敗しました"})
			log.Printf("講座更新エラー: %v", err)
			return
		}

		updated, err := s.queries.GetCourseByID(c.Request.Context(), courseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新後の講座の取得に失敗しました"})
			log.Printf("講座取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toCourseResponse(updated))
	}
}

// handleDelete は講座削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Param("id")

		if _, err := s.queries.GetCourseByID(c.Request.Context(), courseID); err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "講座が見つかりません"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "講座の取得に失敗しました"})
			log.Printf("講座取得エラー: %v", err)
			return
		}

		if err := s.queries.DeleteCourse(c.Request.Context(), courseID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "講座の削除に失敗しました"})
			log.Printf("講座削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "講座を削除しました"})
	}
}
