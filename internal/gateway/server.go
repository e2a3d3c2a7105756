package gateway

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/campus/pkg/middleware"
)

// Server はAPI GatewayサービスのHTTPサーバー。
// 外部からのリクエストを内部サービスにプロキシする。状態は持たない。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// jwtSecret はJWT検証用の共有シークレット。
	jwtSecret string
	// serviceURLs は内部サービスのURL。
	serviceURLs serviceURLConfig
	// httpClient はプロキシ用のHTTPクライアント。
	httpClient *http.Client
}

// serviceURLConfig は内部サービスのURL設定。
type serviceURLConfig struct {
	// Auth は認証サービスのURL。
	Auth string
	// Student は学生サービスのURL。
	Student string
	// Course は講座サービスのURL。
	Course string
	// Teacher は教員サービスのURL。
	Teacher string
	// Enrollment は受講登録サービスのURL。
	Enrollment string
}

// NewServer は新しいGatewayサーバーを生成する。
func NewServer(port string) (*Server, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	urls := serviceURLConfig{
		Auth:       getEnvOr("AUTH_URL", "http://auth:8084"),
		Student:    getEnvOr("STUDENT_URL", "http://student:8081"),
		Course:     getEnvOr("COURSE_URL", "http://course:8082"),
		Teacher:    getEnvOr("TEACHER_URL", "http://teacher:8083"),
		Enrollment: getEnvOr("ENROLLMENT_URL", "http://enrollment:8085"),
	}

	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router:      router,
		port:        port,
		jwtSecret:   jwtSecret,
		serviceURLs: urls,
		httpClient:  &http.Client{},
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
// 認証エンドポイントとヘルスチェック以外はすべてJWTゲートの内側に置く。
func (s *Server) setupRoutes() {
	// 認証エンドポイント（認証不要）
	auth := s.router.Group("/api/v1/auth")
	{
		auth.POST("/signup", s.handleProxy(s.serviceURLs.Auth, "/api/v1/auth/signup"))
		auth.POST("/login", s.handleProxy(s.serviceURLs.Auth, "/api/v1/auth/login"))
	}

	// 認証必須のAPIエンドポイント
	api := s.router.Group("/api/v1")
	api.Use(middleware.JWTAuth(s.jwtSecret))
	{
		// 学生（プロキシ）
		api.POST("/students", s.handleProxy(s.serviceURLs.Student, "/api/v1/students"))
		api.GET("/students", s.handleProxy(s.serviceURLs.Student, "/api/v1/students"))
		api.GET("/students/:id", s.handleProxyWithParam(s.serviceURLs.Student, "/api/v1/students/", "id"))
		api.PUT("/students/:id", s.handleProxyWithParam(s.serviceURLs.Student, "/api/v1/students/", "id"))
		api.DELETE("/students/:id", s.handleProxyWithParam(s.serviceURLs.Student, "/api/v1/students/", "id"))

		// 講座（プロキシ）
		api.POST("/courses", s.handleProxy(s.serviceURLs.Course, "/api/v1/courses"))
		api.GET("/courses", s.handleProxy(s.serviceURLs.Course, "/api/v1/courses"))
		api.GET("/courses/:id", s.handleProxyWithParam(s.serviceURLs.Course, "/api/v1/courses/", "id"))
		api.PUT("/courses/:id", s.handleProxyWithParam(s.serviceURLs.Course, "/api/v1/courses/", "id"))
		api.DELETE("/courses/:id", s.handleProxyWithParam(s.serviceURLs.Course, "/api/v1/courses/", "id"))

		// 教員（プロキシ）
		api.POST("/teachers", s.handleProxy(s.serviceURLs.Teacher, "/api/v1/teachers"))
		api.GET("/teachers", s.handleProxy(s.serviceURLs.Teacher, "/api/v1/teachers"))
		api.GET("/teachers/:id", s.handleProxyWithParam(s.serviceURLs.Teacher, "/api/v1/teachers/", "id"))
		api.PUT("/teachers/:id", s.handleProxyWithParam(s.serviceURLs.Teacher, "/api/v1/teachers/", "id"))
		api.DELETE("/teachers/:id", s.handleProxyWithParam(s.serviceURLs.Teacher, "/api/v1/teachers/", "id"))

		// 受講登録（プロキシ）
		api.POST("/enrollments", s.handleProxy(s.serviceURLs.Enrollment, "/api/v1/enrollments"))
		api.GET("/enrollments", s.handleProxy(s.serviceURLs.Enrollment, "/api/v1/enrollments"))
		api.GET("/enrollments/:id", s.handleProxyWithParam(s.serviceURLs.Enrollment, "/api/v1/enrollments/", "id"))
		api.PUT("/enrollments/:id", s.handleProxyWithParam(s.serviceURLs.Enrollment, "/api/v1/enrollments/", "id"))
		api.DELETE("/enrollments/:id", s.handleProxyWithParam(s.serviceURLs.Enrollment, "/api/v1/enrollments/", "id"))
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
}

// handleProxy は指定されたサービスにリクエストをプロキシするハンドラを返す。
func (s *Server) handleProxy(baseURL, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		proxyURL := baseURL + path
		if c.Request.URL.RawQuery != "" {
			proxyURL += "?" + c.Request.URL.RawQuery
		}
		s.doProxy(c, proxyURL)
	}
}

// handleProxyWithParam はURLパラメータを含むプロキシハンドラを返す。
func (s *Server) handleProxyWithParam(baseURL, pathPrefix, paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		proxyURL := baseURL + pathPrefix + c.Param(paramName)
		if c.Request.URL.RawQuery != "" {
			proxyURL += "?" + c.Request.URL.RawQuery
		}
		s.doProxy(c, proxyURL)
	}
}

// doProxy はリクエストを内部サービスにプロキシする共通処理。
// Authorizationヘッダーをそのまま転送する。
func (s *Server) doProxy(c *gin.Context, url string) {
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, url, c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "プロキシリクエストの作成に失敗しました"})
		return
	}

	req.Header.Set("Content-Type", c.GetHeader("Content-Type"))
	req.Header.Set("Authorization", c.GetHeader("Authorization"))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "内部サービスとの通信に失敗しました"})
		log.Printf("プロキシエラー: url=%s, error=%v", url, err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "レスポンスの読み取りに失敗しました"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, body)
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
