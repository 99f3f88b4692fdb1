package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/gin-gonic/gin"
)

// NextCursorHeader заголовок с курсором следующей страницы. Передается обратно в параметре after.
// Пустая страница означает конец списка.
const NextCursorHeader = "X-Next-Cursor"

const cursorSeparator = "|"

var errInvalidCursor = errors.New("invalid cursor")

type PageParams struct {
	Limit uint   `binding:"max=200" form:"limit"`
	After string `binding:"max=128" form:"after"`
}

// bindPage разбирает параметры страницы из query. Ноль в limit означает размер по умолчанию.
// При ошибке отвечает 400/422 и возвращает false.
func bindPage(c *gin.Context) (domain.Cursor, uint, bool) {
	var params PageParams
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return domain.Cursor{}, 0, false
	}
	if params.After == "" {
		return domain.Cursor{}, params.Limit, true
	}
	cursor, err := decodeCursor(params.After)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.Cursor{}, 0, false
	}
	return cursor, params.Limit, true
}

func setNextCursor(c *gin.Context, cursor domain.Cursor) {
	c.Header(NextCursorHeader, encodeCursor(cursor))
}

func encodeCursor(cursor domain.Cursor) string {
	raw := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + cursor.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (domain.Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return domain.Cursor{}, errInvalidCursor
	}
	ts, id, found := strings.Cut(string(raw), cursorSeparator)
	if !found || id == "" {
		return domain.Cursor{}, errInvalidCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return domain.Cursor{}, errInvalidCursor
	}
	return domain.Cursor{CreatedAt: createdAt, ID: id}, nil
}
