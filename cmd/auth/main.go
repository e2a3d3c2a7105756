// 認証サービスのエントリポイント。
// ユーザー登録とログイン（JWTトークン発行）を担当する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/campus/internal/auth"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}

	server, err := auth.NewServer(port)
	if err != nil {
		log.Fatalf("認証サーバーの初期化に失敗: %v", err)
	}

	log.Printf("認証サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("認証サービスの起動に失敗: %v", err)
	}
}
