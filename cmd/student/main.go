// 学生サービスのエントリポイント。
// 学生レコードのCRUDと受講登録時の存在確認に応答する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/campus/internal/student"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	server, err := student.NewServer(port)
	if err != nil {
		log.Fatalf("学生サーバーの初期化に失敗: %v", err)
	}

	log.Printf("学生サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("学生サービスの起動に失敗: %v", err)
	}
}
