package router

import (
	"github.com/labstack/echo/v4"
)

func New(
	e *echo.Echo,
	chatCtrl interface {
		Chat(echo.Context) error
		Reindex(echo.Context) error
	},
	courseCtrl interface {
		List(echo.Context) error
		Create(echo.Context) error
		Update(echo.Context) error
		Delete(echo.Context) error
		ImportXLSX(echo.Context) error
		ExportXLSX(echo.Context) error
		ImportURL(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)
	e.POST("/chat", chatCtrl.Chat)

	admin := e.Group("/admin")
	admin.POST("/reindex", chatCtrl.Reindex)
	admin.GET("/courses", courseCtrl.List)
	admin.POST("/courses", courseCtrl.Create)
	admin.PUT("/courses/:id", courseCtrl.Update)
	admin.DELETE("/courses/:id", courseCtrl.Delete)
	admin.POST("/courses/import", courseCtrl.ImportXLSX)
	admin.GET("/courses/export", courseCtrl.ExportXLSX)
	admin.POST("/courses/import-url", courseCtrl.ImportURL)
	return e
}
