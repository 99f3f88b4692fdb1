package testutils

import (
	"time"

	"github.com/fsdevblog/garant/internal/transport/api/tokens"
)

// WithAccount добавляет к запросу заголовок Authorization с токеном аккаунта id.
func WithAccount(id int64, secret []byte) func(*RequestOptions) {
	token, err := tokens.GenerateAccountJWT(id, time.Hour, secret)
	if err != nil {
		panic(err)
	}
	return WithHeader("Authorization", "Bearer "+token)
}
