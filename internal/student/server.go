package student

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

	studentdb "github.com/nao1215/campus/internal/student/db"
	"github.com/nao1215/campus/pkg/middleware"
)

// Server は学生サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *studentdb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewServer は新しい学生サーバーを生成する。
// SQLiteデータベースの初期化とスキーマ作成を行う。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/student.db?_journal_mode=WAL&_busy_timeout=5000")
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
		queries: studentdb.New(sqlDB),
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
		students := api.Group("/students")
		{
			// 学生登録
			students.POST("", s.handleCreate())
			// 学生一覧取得
			students.GET("", s.handleList())
			// 学生詳細取得。enrollmentサービスの存在確認にも使用される
			students.GET("/:id", s.handleGetByID())
			// 学生更新
			students.PUT("/:id", s.handleUpdate())
			// 学生削除
			students.DELETE("/:id", s.handleDelete())
		}
	}

	// ヘルスチェック（認証ゲートの対象外）
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "student"})
	})
}

// studentRequest は学生の登録・更新リクエストのJSON構造。
type studentRequest struct {
	// Name は学生の氏名。
	Name string `json:"name" binding:"required"`
	// Email は学生のメールアドレス。
	Email string `json:"email" binding:"required"`
	// Age は学生の年齢。
	Age int64 `json:"age"`
	// Address は学生の住所。
	Address string `json:"address"`
	// PhoneNumber は学生の電話番号。
	PhoneNumber string `json:"phone_number"`
}

// studentResponse は学生のJSONレスポンス構造。
type studentResponse struct {
	// ID は学生の一意識別子。
	ID string `json:"id"`
	// Name は学生の氏名。
	Name string `json:"name"`
	// Email は学生のメールアドレス。
	Email string `json:"email"`
	// Age は学生の年齢。
	Age int64 `json:"age"`
	// Address は学生の住所。
	Address string `json:"address"`
	// PhoneNumber は学生の電話番号。
	PhoneNumber string `json:"phone_number"`
	// CreatedAt は登録日時。
	CreatedAt string `json:"created_at"`
	// UpdatedAt は更新日時。
	UpdatedAt string `json:"updated_at"`
}

// toStudentResponse はDB行をJSONレスポンスに変換する。
func toStudentResponse(st studentdb.Student) studentResponse {
	return studentResponse{
		ID:          st.ID,
		Name:        st.Name,
		Email:       st.Email,
		Age:         st.Age,
		Address:     st.Address,
		PhoneNumber: st.PhoneNumber,
		CreatedAt:   st.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   st.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleCreate は学生登録を処理するハンドラを返す。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req studentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		studentID := uuid.New().String()
		if err := s.queries.CreateStudent(c.Request.Context(), studentdb.CreateStudentParams{
			ID:          studentID,
			Name:        req.Name,
			Email:       req.Email,
			Age:         req.Age,
			Address:     req.Address,
			PhoneNumber: req.PhoneNumber,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "学生の登録に失敗しました"})
			log.Printf("学生登録エラー: %v", err)
			return
		}

		created, err := s.queries.GetStudentByID(c.Request.Context(), studentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登録した学生の取得に失敗しました"})
			log.Printf("学生取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, toStudentResponse(created))
	}
}

// handleList は学生一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		students, err := s.queries.ListStudents(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "学生一覧の取得に失敗しました"})
			log.Printf("学生一覧取得エラー: %v", err)
			return
		}

		responses := make([]studentResponse, 0, len(students))
		for _, st := range students {
			responses = append(responses, toStudentResponse(st))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// handleGetByID は学生詳細取得を処理するハンドラを返す。
// 2xxを返すことが「学生が存在する」ことの保証になる。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID := c.Param("id")
		st, err := s.queries.GetStudentByID(c.Request.Context(), studentID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "学生が見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "学生の取得に失敗しました"})
			log.Printf("学生取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toStudentResponse(st))
	}
}

// handleUpdate は学生更新を処理するハンドラを返す。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID := c.Param("id")

		if _, err := s.queries.GetStudentByID(c.Request.Context(), studentID); err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "学生が見つかりません"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "学生の取得に失敗しました"})
			log.Printf("学生取得エラー: %v", err)
			return
		}

		var req studentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		if err := s.queries.UpdateStudent(c.Request.Context(), studentdb.UpdateStudentParams{
			Name:        req.Name,
			Email:       req.Email,
			Age:         req.Age,
			Address:     req.Address,
			PhoneNumber: req.PhoneNumber,
			ID:          studentID,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "学生の更新に失敗しました"})
			log.Printf("学生更新エラー: %v", err)
			return
		}

		updated, err := s.queries.GetStudentByID(c.Request.Context(), studentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新後の学生の取得に失敗しました"})
			log.Printf("学生取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toStudentResponse(updated))
	}
}

// handleDelete は学生削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID := c.Param("id")

		if _, err := s.queries.GetStudentByID(c.Request.Context(), studentID); err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "学生が見つかりません"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "学生の取得に失敗しました"})
			log.Printf("学生取得エラー: %v", err)
			return
		}

		if err := s.queries.DeleteStudent(c.Request.Context(), studentID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "学生の削除に失敗しました"})
			log.Printf("学生削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "学生を削除しました"})
	}
}
