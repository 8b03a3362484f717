package ginserver

import (
	_ "embed"

	gin "github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var openAPISpec string

type embeddedDoc struct{}

func (embeddedDoc) ReadDoc() string { return openAPISpec }

func init() {
	swag.Register(swag.Name, embeddedDoc{})
}

// registerSwaggerRoutes serves the UI at /swagger/index.html and the
// document at /swagger/doc.json.
func registerSwaggerRoutes(router gin.IRoutes) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
