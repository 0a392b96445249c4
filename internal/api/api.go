package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencampus/wolfcafe/config"
	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/internal/webserver"
	"github.com/opencampus/wolfcafe/pkg/common"
	"gorm.io/gorm"
)

var jwtSecret string

// InitRouter registers every REST route on the web server.
func InitRouter(cfg *config.AppConfig) {
	jwtSecret = cfg.Web.JwtSecret
	registerAuthRoutes()
	registerOrderRoutes()
	registerMakeOrderRoutes()
	registerInventoryRoutes()
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

type restError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, restError{Code: code, Message: message, Detail: detail})
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// logOperation records an audit row for mutating operations.
func logOperation(c echo.Context, action, desc string) {
	oprName := ""
	if claims := webserver.CurrentClaims(c); claims != nil {
		oprName = claims.Username
	}
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   oprName,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
