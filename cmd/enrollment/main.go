// 受講登録サービスのエントリポイント。
// 学生・講座・教員の存在確認を経て受講登録を管理する。
package main

import (
	"log"
	"os"

	"github.com/nao1215/campus/internal/enrollment"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}

	server, err := enrollment.NewServer(port)
	if err != nil {
		log.Fatalf("受講登録サーバーの初期化に失敗: %v", err)
	}

	log.Printf("受講登録サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("受講登録サービスの起動に失敗: %v", err)
	}
}
