package auth

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	authdb "github.com/nao1215/campus/internal/auth/db"
	"github.com/nao1215/campus/pkg/middleware"
	"github.com/nao1215/campus/pkg/token"
)

// emailPattern はサインアップ時のメールアドレス形式チェックに使用する。
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Server は認証サービスのHTTPサーバー。
// ユーザー登録とログイン（JWTトークン発行）を担当する。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *authdb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// jwtSecret はトークン署名用の共有シークレット。
	jwtSecret string
	// tokenTTL は発行するトークンの有効期間。
	tokenTTL time.Duration
}

// NewServer は新しい認証サーバーを生成する。
// トークンの有効期間は環境変数 TOKEN_TTL_MINUTES で調整できる（デフォルト60分）。
func NewServer(port string) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", "/data/auth.db?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	ttl := 60 * time.Minute
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("TOKEN_TTL_MINUTES の値が不正です: %q", v)
		}
		ttl = time.Duration(minutes) * time.Minute
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:    router,
		port:      port,
		queries:   authdb.New(sqlDB),
		db:        sqlDB,
		jwtSecret: jwtSecret,
		tokenTTL:  ttl,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
// サインアップとログインは未認証でアクセスできる必要があるため、JWTゲートの外に置く。
func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", s.handleSignup())
			auth.POST("/login", s.handleLogin())
		}
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "auth"})
	})
}

// signupRequest はユーザー登録リクエストのJSON構造。
type signupRequest struct {
	// Email はログインIDとなるメールアドレス。
	Email string `json:"email" binding:"required"`
	// Name はユーザーの表示名。
	Name string `json:"name" binding:"required"`
	// Password は平文パスワード。bcryptでハッシュ化して保存する。
	Password string `json:"password" binding:"required"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はログインIDとなるメールアドレス。
	Email string `json:"email" binding:"required"`
	// Password は平文パスワード。
	Password string `json:"password" binding:"required"`
}

// handleSignup はユーザー登録を処理するハンドラを返す。
func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		if !emailPattern.MatchString(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "メールアドレスの形式が不正です"})
			return
		}

		exists, err := s.queries.EmailExists(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			log.Printf("メールアドレス重複チェックエラー: %v", err)
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "このメールアドレスは既に登録されています"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			log.Printf("パスワードハッシュ化エラー: %v", err)
			return
		}

		if err := s.queries.CreateUser(c.Request.Context(), authdb.CreateUserParams{
			Email:    req.Email,
			Name:     req.Name,
			Password: string(hashed),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			log.Printf("ユーザー登録エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status": "registered",
			"email":  req.Email,
			"name":   req.Name,
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 認証に成功するとJWTトークンを発行する。
// ユーザー不在とパスワード不一致は同じレスポンスにして存在の推測を防ぐ。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		user, err := s.queries.GetUserByEmail(c.Request.Context(), req.Email)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログインに失敗しました"})
			log.Printf("ユーザー取得エラー: %v", err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
			return
		}

		tokenString, err := token.Issue(s.jwtSecret, user.Email, s.tokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			log.Printf("トークン発行エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "authenticated",
			"email":      user.Email,
			"token":      tokenString,
			"expires_in": int64(s.tokenTTL.Seconds()),
		})
	}
}
