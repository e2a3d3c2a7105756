// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// enrollmentサービスが行う存在確認のように、各サービスが他のサービスの
// APIを呼び出す際に使用する。呼び出し元のベアラートークンをコンテキスト
// 経由で転送し、サービス間でも認証ゲートを通過できるようにする。
package httpclient
