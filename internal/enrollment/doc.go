// Package enrollment は受講登録を管理するマイクロサービス。
// 登録前に学生・講座・教員サービスへ並行に存在確認を行い、
// 1つでも確認できなければ登録を拒否する。同一の講座・学生の組み合わせは
// DBの部分ユニークインデックスで1件に制限される。
package enrollment
