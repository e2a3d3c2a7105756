// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// ベアラートークンの検証ゲート、パニックリカバリ、CORS設定など、
// 全サービスで共通して使用するミドルウェアを含む。
// ヘルスチェックのような認証不要のエンドポイントは、ゲートを適用した
// ルートグループの外側に登録することで明示的に除外する。
package middleware
