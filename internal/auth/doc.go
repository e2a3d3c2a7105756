// Package auth はユーザー登録とログインを提供する認証マイクロサービス。
// ログイン成功時にHMAC署名付きJWTを発行し、他サービスはこのトークンを検証する。
package auth
