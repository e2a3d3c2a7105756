package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// トークン検証エラー。呼び出し元はerrors.Isで種別を判定する。
var (
	// ErrMalformed はトークンの構造が不正であることを表す。
	ErrMalformed = errors.New("トークンの形式が不正です")
	// ErrBadSignature はトークンの署名が検証できなかったことを表す。
	ErrBadSignature = errors.New("トークンの署名が不正です")
	// ErrExpired はトークンの有効期限が切れていることを表す。
	ErrExpired = errors.New("トークンの有効期限が切れています")
)

// issuer はこのシステムが発行するトークンのiss claim。
const issuer = "campus-auth"

// Claims はトークンのクレーム（ペイロード）を表す。
// subjectには認証済みユーザーのメールアドレスを設定する。
type Claims struct {
	jwt.RegisteredClaims
	// Email は認証済みユーザーのメールアドレス。subと同じ値を持つ。
	Email string `json:"email"`
}

// Issue は共有シークレットでHS256署名した自己完結型トークンを発行する。
// トークンはどのサービスでも同じシークレットだけで検証できるため、
// 発行元サービスへの問い合わせやセッションストアは不要になる。
func Issue(secret, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
		Email: email,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、クレームを返す。
// 署名の再計算と有効期限の確認をローカルで行い、ネットワークI/Oは発生しない。
// 失敗時はErrMalformed・ErrBadSignature・ErrExpiredのいずれかをラップしたエラーを返す。
func Verify(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, classify(err)
	}
	if !t.Valid {
		return nil, ErrBadSignature
	}
	return claims, nil
}

// classify はgolang-jwtのエラーをこのパッケージのエラー種別に対応付ける。
// 署名検証はライブラリ内部でhmac.Equalによる固定時間比較が行われる。
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		// 署名が正しくても期限切れは期限切れとして扱う
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
