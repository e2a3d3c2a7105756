package teacher

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

	teacherdb "github.com/nao1215/campus/internal/teacher/db"
	"github.com/nao1215/campus/pkg/middleware"
)

// Server は教員サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *teacherdb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewServer は新しい教員サーバーを生成する。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/teacher.db?_journal_mode=WAL&_busy_timeout=5000")
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
		queries: teacherdb.New(sqlDB),
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
		teachers := api.Group("/teachers")
		{
			teachers.POST("", s.handleCreate())
			teachers.GET("", s.handleList())
			// 教員詳細取得。enrollmentサービスの存在確認にも使用される
			teachers.GET("/:id", s.handleGetByID())
			teachers.PUT("/:id", s.handleUpdate())
			teachers.DELETE("/:id", s.handleDelete())
		}
	}

	// ヘルスチェック（認証ゲートの対象外）
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "teacher"})
	})
}

// teacherRequest は教員の登録・更新リクエストのJSON構造。
type teacherRequest struct {
	// Name は教員の氏名。
	Name string `json:"name" binding:"required"`
	// TeacherCode は教員コード。
	TeacherCode string `json:"teacher_code" binding:"required"`
	// Department は所属学科。
	Department string `json:"department"`
	// Email は教員のメールアドレス。
	Email string `json:"email"`
	// Phone は教員の電話番号。
	Phone string `json:"phone"`
}

// teacherResponse は教員のJSONレスポンス構造。
type teacherResponse struct {
	// ID は教員の一意識別子。
	ID string `json:"id"`
	// Name は教員の氏名。
	Name string `json:"name"`
	// TeacherCode は教員コード。
	TeacherCode string `json:"teacher_code"`
	// Department は所属学科。
	Department string `json:"department"`
	// Email は教員のメールアドレス。
	Email string `json:"email"`
	// Phone は教員の電話番号。
	Phone string `json:"phone"`
	// CreatedAt は登録日時。
	CreatedAt string `json:"created_at"`
	// UpdatedAt は更新日時。
	UpdatedAt string `json:"updated_at"`
}

// toTeacherResponse はDB行をJSONレスポンスに変換する。
func toTeacherResponse(te teacherdb.Teacher) teacherResponse {
	return teacherResponse{
		ID:          te.ID,
		Name:        te.Name,
		TeacherCode: te.TeacherCode,
		Department:  te.Department,
		Email:       te.Email,
		Phone:       te.Phone,
		CreatedAt:   te.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   te.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleCreate は教員登録を処理するハンドラを返す。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req teacherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		teacherID := uuid.New().String()
		if err := s.queries.CreateTeacher(c.Request.Context(), teacherdb.CreateTeacherParams{
			ID:          teacherID,
			Name:        req.Name,
			TeacherCode: req.TeacherCode,
			Department:  req.Department,
			Email:       req.Email,
			Phone:       req.Phone,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "教員の登録に失敗しました"})
			log.Printf("教員登録エラー: %v", err)
			return
		}

		created, err := s.queries.GetTeacherByID(c.Request.Context(), teacherID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登録した教員の取得に失敗しました"})
			log.Printf("教員取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, toTeacherResponse(created))
	}
}

// handleList は教員一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		teachers, err := s.queries.ListTeachers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "教員一覧の取得に失敗しました"})
			log.Printf("教員一覧取得エラー: %v", err)
			return
		}

		responses := make([]teacherResponse, 0, len(teachers))
		for _, te := range teachers {
			responses = append(responses, toTeacherResponse(te))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// handleGetByID は教員詳細取得を処理するハンドラを返す。
// 2xxを返すことが「教員が存在する」ことの保証になる。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		teacherID := c.Param("id")
		te, err := s.queries.GetTeacherByID(c.Request.Context(), teacherID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "教員が見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "教員の取得に失敗しました"})
			log.Printf("教員取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toTeacherResponse(te))
	}
}

// handleUpdate は教員更新を処理するハンドラを返す。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		teacherID := c.Param("id")

		if _, err := s.queries.GetTeacherByID(c.Request.Context(), teacherID); err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "教員が見つかりません"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "教員の取得に失敗しました"})
			log.Printf("教員取得エラー: %v", err)
			return
		}

		var req teacherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		if err := s.queries.UpdateTeacher(c.Request.Context(), teacherdb.UpdateTeacherParams{
			Name:        req.Name,
			TeacherCode: req.TeacherCode,
			Department:  req.Department,
			Email:       req.Email,
			Phone:       req.Phone,
			ID:          teacherID,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "教員の更新に失敗しました"})
			log.Printf("教員更新エラー: %v", err)
			return
		}

		updated, err := s.queries.GetTeacherByID(c.Request.Context(), teacherID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新後の教員の取得に失敗しました"})
			log.Printf("教員取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toTeacherResponse(updated))
	}
}

// handleDelete は教員削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		teacherID := c.Param("id")

		if _, err := s.queries.GetTeacherByID(c.Request.Context(), teacherID); err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "教員が見つかりません"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "教員の取得に失敗しました"})
			log.Printf("教員取得エラー: %v", err)
			return
		}

		if err := s.queries.DeleteTeacher(c.Request.Context(), teacherID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "教員の削除に失敗しました"})
			log.Printf("教員削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "教員を削除しました"})
	}
}
