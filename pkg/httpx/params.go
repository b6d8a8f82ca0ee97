package httpx

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePageParams — читает page/pageSize из query.
// Отсутствующий параметр получает значение по умолчанию; присланный,
// но некорректный (не число, page < 0, pageSize <= 0) — это ошибка
// валидации, а не молчаливая подмена дефолтом.
func ParsePageParams(c *gin.Context, defaultPage, defaultPageSize int) (page, pageSize int, err error) {
	page = defaultPage
	if raw := c.Query("page"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 0 {
			return 0, 0, fmt.Errorf("invalid page: %q", raw)
		}
		page = v
	}

	pageSize = defaultPageSize
	if raw := c.Query("pageSize"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v <= 0 {
			return 0, 0, fmt.Errorf("invalid pageSize: %q", raw)
		}
		pageSize = v
	}

	return page, pageSize, nil
}
