// Package student は学生レコードのCRUD操作を提供するマイクロサービス。
// 受講登録サービスからの存在確認（GET /api/v1/students/:id）にも応答する。
package student
