// Package token は署名付きベアラートークンの発行と検証を提供する。
//
// 全サービスが同じ共有シークレットを保持することで、各サービスは
// 発行元のauthサービスと通信することなくトークンを独立に検証できる。
// トークンは保存されず、有効性は提示のたびに署名と有効期限から再計算される。
// シークレットのローテーションは発行済みトークンを一斉に無効化する
// （明示的なトレードオフとして許容する）。
package token
