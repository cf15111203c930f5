package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetPerAndPageFromContext(ctx *gin.Context) (perInt int, pageInt int, err error) {
	per := ctx.Query("per")
	if per == "" {
		per = "50"
	}
	perInt, err = strconv.Atoi(per)
	if err != nil {
		return
	}
	page := ctx.Query("page")
	if page == "" {
		page = "1"
	}
	pageInt, err = strconv.Atoi(page)
	if err != nil {
		return
	}
	return
}

// GetVersionFromContext parses the optional version path param; 0 means
// "resolve the latest".
func GetVersionFromContext(ctx *gin.Context) (int, error) {
	raw := ctx.Param("version")
	if raw == "" || raw == "latest" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
