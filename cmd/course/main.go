// 講座サービスのエントリポイント。
// 講座レコードのCRUDと受講登録時の存在確認に応答する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/campus/internal/course"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	server, err := course.NewServer(port)
	if err != nil {
		log.Fatalf("講座サーバーの初期化に失敗: %v", err)
	}

	log.Printf("講座サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("講座サービスの起動に失敗: %v", err)
	}
}
