// Package gateway は外部公開用のAPI Gateway。
// 認証エンドポイント以外のリクエストはJWT検証を通過した後、
// 各内部サービスへプロキシされる。
package gateway
