// 教員サービスのエントリポイント。
// 教員レコードのCRUDと受講登録時の存在確認に応答する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/campus/internal/teacher"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	server, err := teacher.NewServer(port)
	if err != nil {
		log.Fatalf("教員サーバーの初期化に失敗: %v", err)
	}

	log.Printf("教員サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("教員サービスの起動に失敗: %v", err)
	}
}
