package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/campus/pkg/token"
)

// headerKeyEmail はサービス間で認証済みメールアドレスを伝播するためのHTTPヘッダーキー。
const headerKeyEmail = "X-User-Email"

// JWTAuth はベアラートークンを検証するGinミドルウェアを返す。
// ヘッダーの欠落・形式不正・検証失敗はすべて401でリクエストを打ち切り、
// 後続のビジネスロジックは一切実行されない。
// 検証に成功した場合、コンテキストに "email" と "token" を設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		claims, err := token.Verify(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "トークンが無効です",
			})
			return
		}

		c.Set("email", claims.Email)
		c.Set("token", tokenString)
		c.Header(headerKeyEmail, claims.Email)
		c.Next()
	}
}

// GetEmail はGinコンテキストから認証済みユーザーのメールアドレスを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
// 下流のコンポーネントはこれ以外の方法で呼び出し元の身元を導出してはならない。
func GetEmail(c *gin.Context) string {
	email, _ := c.Get("email")
	if e, ok := email.(string); ok {
		return e
	}
	return ""
}

// GetToken はGinコンテキストから検証済みのベアラートークン文字列を取得する。
// サービス間呼び出しでトークンをそのまま転送するために使用する。
func GetToken(c *gin.Context) string {
	t, _ := c.Get("token")
	if s, ok := t.(string); ok {
		return s
	}
	return ""
}
